package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// InputExtensions are the file types the tool can read
var InputExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".pdf", ".dcm"}

// FindLatestInput returns the most recently modified readable input in dir.
func FindLatestInput(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		isInput := false
		for _, ext := range InputExtensions {
			if strings.HasSuffix(strings.ToLower(f.Name()), ext) {
				isInput = true
				break
			}
		}
		if isInput {
			info, err := f.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latestTime) {
				latestTime = info.ModTime()
				latestFile = filepath.Join(dir, f.Name())
			}
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no input files found in %s", dir)
	}

	return latestFile, nil
}

// HostStats is a snapshot of machine and process resource usage
type HostStats struct {
	LogicalCPUs   int
	TotalMemory   uint64
	UsedPercent   float64
	ProcessRSS    uint64
	ProcessCPUPct float64
}

// ReadHostStats collects a HostStats snapshot. Fields that cannot be read on
// the current platform are left zero; the first error is returned alongside.
func ReadHostStats() (HostStats, error) {
	var s HostStats
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	n, err := cpu.Counts(true)
	keep(err)
	s.LogicalCPUs = n

	vm, err := mem.VirtualMemory()
	keep(err)
	if vm != nil {
		s.TotalMemory = vm.Total
		s.UsedPercent = vm.UsedPercent
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	keep(err)
	if proc != nil {
		info, err := proc.MemoryInfo()
		keep(err)
		if info != nil {
			s.ProcessRSS = info.RSS
		}
		pct, err := proc.CPUPercent()
		keep(err)
		s.ProcessCPUPct = pct
	}

	return s, firstErr
}

func (s HostStats) String() string {
	return fmt.Sprintf("CPUs: %d | RAM used: %.1f%% of %s | Process RSS: %s | Process CPU: %.1f%%",
		s.LogicalCPUs, s.UsedPercent, FormatBytes(s.TotalMemory), FormatBytes(s.ProcessRSS), s.ProcessCPUPct)
}

// FormatBytes renders n with a binary unit
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
