package util

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Renderer is anything that renders itself as an HTML page, such as a go-echarts chart.
type Renderer interface {
	Render(w io.Writer) error
}

// PlotToFile renders r into an HTML file at path, creating parent directories.
func PlotToFile(r Renderer, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %q: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer f.Close()

	if err := r.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	log.Printf("[Plotter] Map rendered to %s", path)
	return nil
}
