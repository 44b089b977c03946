package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ivlev/bvlc/internal/config"
	"github.com/ivlev/bvlc/internal/engine"
	"github.com/ivlev/bvlc/internal/gray"
	"github.com/ivlev/bvlc/internal/source"
	"github.com/ivlev/bvlc/internal/synth"
	"github.com/ivlev/bvlc/internal/system"
)

// BuildVersion is set with -ldflags "-X main.BuildVersion=..."
var BuildVersion = "dev"

func main() {
	configPtr := flag.String("config", "", "YAML config file (flags override it)")
	inputPtr := flag.String("input", "", "Image, folder, PDF or DICOM file (default: newest file in input/)")
	outputPtr := flag.String("output-dir", "", "Directory for maps and the report")
	grayPtr := flag.String("gray", "", "Channel reduction: grayscale, avg")
	stridePtr := flag.Int("stride", 0, "Traversal margin in pixels")
	epsilonPtr := flag.Float64("epsilon", 0, "Coefficient stabilizer")
	pairsPtr := flag.String("pairs", "", "Neighbour offsets as dCol,dRow;dCol,dRow (default 0,1;1,0;1,1;1,-1)")
	formatPtr := flag.String("format", "", "Map image format: png, tiff")
	rawPtr := flag.Bool("raw", false, "Also write exact float64 maps (.bvlc.zst)")
	maxSidePtr := flag.Int("max-side", 0, "Downscale inputs so the longest side is at most N pixels (0 - off)")
	dpiPtr := flag.Int("dpi", 0, "PDF render DPI")
	workersPtr := flag.Int("workers", 0, "Worker goroutines")
	trimPtr := flag.Bool("trim-odd-column", false, "Drop trailing columns that do not fill a block")
	reportPtr := flag.String("report", "", "Report path (default: report_<timestamp>.yaml in the output dir)")
	statsPtr := flag.Bool("stats", false, "Print timings and host stats, append to bvlc_benchmark.log")
	syntheticPtr := flag.String("synthetic", "", "Use generated patterns instead of files: kind:WxH[:arg], comma separated")
	saveConfigPtr := flag.String("save-config", "", "Write the effective config to this path and exit")

	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Config error: %v", err)
		}
		cfg = loaded
		fmt.Printf("[*] Config: %s\n", *configPtr)
	}
	cfg.BuildVersion = BuildVersion

	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "output-dir":
			cfg.OutputDir = *outputPtr
		case "gray":
			cfg.Gray = *grayPtr
		case "stride":
			cfg.Descriptor.Stride = *stridePtr
		case "epsilon":
			cfg.Descriptor.Epsilon = *epsilonPtr
		case "pairs":
			pairs, err := config.ParsePairs(*pairsPtr)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Descriptor.Pairs = pairs
		case "format":
			cfg.Format = *formatPtr
		case "raw":
			cfg.Raw = *rawPtr
		case "max-side":
			cfg.MaxSide = *maxSidePtr
		case "dpi":
			cfg.DPI = *dpiPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "trim-odd-column":
			cfg.TrimOddColumn = *trimPtr
		case "report":
			cfg.ReportPath = *reportPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		}
	})
	if flagErr != nil {
		log.Fatalf("[-] %v", flagErr)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] %v", err)
	}

	if *saveConfigPtr != "" {
		if err := config.Save(cfg, *saveConfigPtr); err != nil {
			log.Fatalf("[-] Failed to save config: %v", err)
		}
		fmt.Printf("[+++] Config saved: %s\n", *saveConfigPtr)
		return
	}

	var src source.Source
	var err error
	if *syntheticPtr != "" {
		src, err = syntheticSource(*syntheticPtr)
		cfg.InputPath = "synthetic"
	} else {
		if cfg.InputPath == "" {
			os.MkdirAll("input", 0755)
			latest, err := system.FindLatestInput("input")
			if err != nil {
				log.Fatalf("[-] %v. Put an image, PDF or DICOM file into input/", err)
			}
			cfg.InputPath = latest
			fmt.Printf("[*] Selected input: %s\n", cfg.InputPath)
		}
		src, err = source.Open(cfg.InputPath, cfg.DPI)
	}
	if err != nil {
		log.Fatalf("[-] Source error: %v", err)
	}
	defer src.Close()

	conv, err := gray.NewConverter(cfg.Gray)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewProject(&cfg, src, conv)
	rep, err := project.Run(ctx)
	if err != nil {
		log.Fatalf("[-] Run failed: %v", err)
	}

	fmt.Printf("[+++] Done: %d maps in %s\n", len(rep.Entries)-rep.Failed(), cfg.OutputDir)
}

// syntheticSource parses "kind:WxH[:arg],..." into an in-memory source.
func syntheticSource(specs string) (source.Source, error) {
	var names []string
	var images []image.Image
	for i, item := range strings.Split(specs, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("synthetic input %q is not kind:WxH[:arg]", item)
		}
		w, h, err := parseSize(parts[1])
		if err != nil {
			return nil, fmt.Errorf("synthetic input %q: %w", item, err)
		}
		arg := ""
		if len(parts) == 3 {
			arg = parts[2]
		}
		img, err := synth.New(parts[0], w, h, arg)
		if err != nil {
			return nil, err
		}
		names = append(names, fmt.Sprintf("%s_%03d", strings.ToLower(parts[0]), i+1))
		images = append(images, img)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no synthetic inputs in %q", specs)
	}
	return source.NewMemorySource(names, images), nil
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q is not WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}
