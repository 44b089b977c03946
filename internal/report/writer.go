package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Write stores r as YAML, creating the parent directory. The document is
// written to a temporary file first and renamed, so a reader never sees a
// half-written report.
func Write(r *Report, path string) error {
	if r == nil {
		return errors.New("nil report")
	}
	if r.Version == "" {
		r.Version = Version
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Read loads a report written by Write. Documents from a newer layout
// version are rejected.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if r.Version != "" && r.Version > Version {
		return nil, fmt.Errorf("%s: report version %s is newer than %s", path, r.Version, Version)
	}
	return &r, nil
}
