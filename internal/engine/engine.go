package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ivlev/bvlc/internal/config"
	"github.com/ivlev/bvlc/internal/descriptor"
	"github.com/ivlev/bvlc/internal/export"
	"github.com/ivlev/bvlc/internal/gray"
	"github.com/ivlev/bvlc/internal/report"
	"github.com/ivlev/bvlc/internal/source"
	"github.com/ivlev/bvlc/internal/system"
)

var (
	// ErrNoInputs is returned when the source holds no images
	ErrNoInputs = errors.New("source contains no images")
	// ErrAllFailed is returned when no input produced a map
	ErrAllFailed = errors.New("every input failed")
)

// numExportWorkers limits concurrent encoders; export is disk bound.
const numExportWorkers = 4

// Project runs the descriptor over every image of a Source and exports the maps.
type Project struct {
	Config    *config.Config
	Source    source.Source
	Converter gray.Converter
}

func NewProject(cfg *config.Config, src source.Source, conv gray.Converter) *Project {
	return &Project{
		Config:    cfg,
		Source:    src,
		Converter: conv,
	}
}

type extractResult struct {
	Entry report.Entry
	Map   *descriptor.Grid
	Start time.Time
}

// Run processes the whole source and writes the report. A failing input is
// logged and recorded in its entry; the run only fails when nothing succeeded,
// the configuration is invalid, or ctx is cancelled.
func (p *Project) Run(ctx context.Context) (*report.Report, error) {
	startTime := time.Now()

	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	format, err := export.ParseFormat(p.Config.Format)
	if err != nil {
		return nil, err
	}
	params := p.Config.Params()

	count := p.Source.Count()
	if count == 0 {
		return nil, ErrNoInputs
	}
	if err := os.MkdirAll(p.Config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	fmt.Println("--- [BVLC DESCRIPTOR] ---")
	fmt.Printf("[*] Source: %s | Images: %d\n", p.Config.InputPath, count)
	fmt.Printf("[*] Gray: %s | Block: %d | Stride: %d | Pairs: %v\n",
		p.Converter.Mode(), params.BlockSize, params.Stride, params.Pairs)
	fmt.Println("-------------------------")

	names := outputNames(p.Source)

	// Каналы для пайплайна
	// jobs -> extractPool -> extracted -> exportPool -> entries
	jobs := make(chan int, count)
	extracted := make(chan *extractResult, count)
	entries := make([]report.Entry, count)

	// A single image gets all workers inside the descriptor; a batch runs one
	// image per worker.
	numExtractWorkers := min(p.Config.Workers, count)
	inner := 1
	if count == 1 {
		inner = p.Config.Workers
	}

	var wgExtract sync.WaitGroup
	var wgExport sync.WaitGroup

	for w := 0; w < numExtractWorkers; w++ {
		wgExtract.Add(1)
		go func() {
			defer wgExtract.Done()
			for i := range jobs {
				res, err := p.extract(ctx, i, names[i], params, inner)
				if err != nil {
					log.Printf("[!] %s: %v", names[i], err)
					res.Entry.Error = err.Error()
					res.Entry.Seconds = time.Since(res.Start).Seconds()
					entries[i] = res.Entry
					continue
				}
				extracted <- res
			}
		}()
	}

	for w := 0; w < min(numExportWorkers, count); w++ {
		wgExport.Add(1)
		go func() {
			defer wgExport.Done()
			for res := range extracted {
				entry, err := p.export(res, format)
				if err != nil {
					log.Printf("[!] Export %s: %v", res.Entry.Input, err)
					entry.Error = err.Error()
				} else {
					fmt.Printf("[>] Ready: %s (%dx%d map)\n", entry.Input, entry.MapRows, entry.MapCols)
				}
				entries[entry.Index] = entry
			}
		}()
	}

	extractStart := time.Now()
	for i := 0; i < count; i++ {
		jobs <- i
	}
	close(jobs)

	wgExtract.Wait()
	extractTime := time.Since(extractStart)
	close(extracted)
	wgExport.Wait()

	rep := &report.Report{
		Version: report.Version,
		Created: time.Now(),
		Build:   p.Config.BuildVersion,
		Params: report.Params{
			Gray:      string(p.Converter.Mode()),
			BlockSize: params.BlockSize,
			Stride:    params.Stride,
			Epsilon:   params.Epsilon,
			Pairs:     p.Config.Descriptor.Pairs,
			MaxSide:   p.Config.MaxSide,
			TrimOdd:   p.Config.TrimOddColumn,
		},
		Entries: entries,
	}

	if err := ctx.Err(); err != nil {
		return rep, err
	}

	reportPath := p.Config.ReportPath
	if reportPath == "" {
		reportPath = report.DefaultPath(p.Config.OutputDir)
	}
	if err := report.Write(rep, reportPath); err != nil {
		log.Printf("[!] Failed to write report: %v", err)
	} else {
		fmt.Printf("[*] Report: %s\n", reportPath)
	}

	if p.Config.ShowStats {
		p.printStats(count, rep.Failed(), time.Since(startTime), extractTime)
	}

	if failed := rep.Failed(); failed == count {
		return rep, fmt.Errorf("%w (%d images)", ErrAllFailed, count)
	} else if failed > 0 {
		fmt.Printf("[!] %d of %d images failed\n", failed, count)
	}
	return rep, nil
}

func (p *Project) extract(ctx context.Context, i int, name string, params descriptor.Params, workers int) (*extractResult, error) {
	res := &extractResult{
		Entry: report.Entry{Index: i, Input: name},
		Start: time.Now(),
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	img, err := p.Source.Load(i)
	if err != nil {
		return res, fmt.Errorf("load: %w", err)
	}
	img = source.Fit(img, p.Config.MaxSide)

	rows, cols := img.Bounds().Dy(), img.Bounds().Dx()
	if p.Config.TrimOddColumn {
		if r := cols % params.BlockSize; r != 0 && cols > r {
			cols -= r
		}
	}
	res.Entry.Rows, res.Entry.Cols = rows, cols

	layout, err := descriptor.Plan(rows, cols, params)
	if err != nil {
		return res, err
	}
	res.Entry.PaddedRows, res.Entry.PaddedCols = layout.PaddedRows, layout.PaddedCols
	res.Entry.MapRows, res.Entry.MapCols = layout.MapRows, layout.MapCols

	g := system.GetGrid(rows, cols)
	defer system.PutGrid(g)
	p.Converter.ConvertInto(img, g)

	if workers > 1 {
		res.Map, err = descriptor.ExtractParallel(ctx, g, params, workers)
	} else {
		res.Map, err = descriptor.Extract(g, params)
	}
	return res, err
}

// outputNames returns one name per input. A name already taken gets the
// input's 1-based index appended, so no two inputs write the same file.
func outputNames(src source.Source) []string {
	names := make([]string, src.Count())
	taken := make(map[string]bool, len(names))
	for i := range names {
		name := src.Name(i)
		for k := i + 1; taken[name]; k++ {
			name = fmt.Sprintf("%s_%03d", src.Name(i), k)
		}
		if name != src.Name(i) {
			log.Printf("[!] Duplicate input name %q, exporting as %q", src.Name(i), name)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// export writes <name>_bvlc.<ext> and, if enabled, the raw dump next to it.
func (p *Project) export(res *extractResult, format export.Format) (report.Entry, error) {
	entry := res.Entry
	base := filepath.Join(p.Config.OutputDir, entry.Input+"_bvlc")

	imgPath := base + format.Ext()
	if err := export.SaveImage(imgPath, export.Normalize(res.Map)); err != nil {
		return entry, err
	}
	entry.Image = imgPath

	if p.Config.Raw {
		rawPath := base + export.RawExt
		if err := export.SaveRaw(rawPath, res.Map); err != nil {
			return entry, err
		}
		entry.Raw = rawPath
	}

	s := export.Summarize(res.Map)
	entry.Summary = &s
	entry.Seconds = time.Since(res.Start).Seconds()
	return entry, nil
}

func (p *Project) printStats(count, failed int, totalTime, extractTime time.Duration) {
	perSec := float64(count) / totalTime.Seconds()

	host, err := system.ReadHostStats()
	if err != nil {
		log.Printf("[!] Host stats incomplete: %v", err)
	}

	stats := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Extraction: %.2fs\n"+
			"Images/sec: %.2f\n"+
			"Failed: %d/%d\n"+
			"Host: %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, totalTime.Seconds(), extractTime.Seconds(), perSec, failed, count, host,
	)
	fmt.Print(stats)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Images: %d | Failed: %d | Total: %.2fs | Extract: %.2fs | Images/sec: %.2f | RSS: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		count,
		failed,
		totalTime.Seconds(),
		extractTime.Seconds(),
		perSec,
		system.FormatBytes(host.ProcessRSS),
	)

	logPath := filepath.Join(p.Config.OutputDir, "bvlc_benchmark.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Failed to write %s: %v\n", logPath, err)
		return
	}
	f.WriteString(logEntry)
	f.Close()
}
