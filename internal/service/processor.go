// Package service wires the normalizer, splitting engine, and formatter into
// a per-document pipeline.
package service

import (
	"fmt"
	"os"
	"path/filepath"

	"warikan/internal/calculator"
	"warikan/internal/format"
	"warikan/internal/models"
)

// Processor turns one bill document into one output artifact.
// It is stateless and safe for concurrent use.
type Processor struct {
	// Format selects the artifact serialization.
	Format format.Format

	// OutDir, when set, redirects artifacts there instead of writing
	// them next to their inputs.
	OutDir string
}

// NewProcessor builds a processor for the given format name; unrecognized
// names fall back to the structured default.
func NewProcessor(formatName, outDir string) *Processor {
	return &Processor{Format: format.ParseFormat(formatName), OutDir: outDir}
}

// ProcessBytes runs normalize -> split on an in-memory document.
func (p *Processor) ProcessBytes(doc []byte) (models.BillOutput, error) {
	bill, err := models.ParseBill(doc)
	if err != nil {
		return models.BillOutput{}, err
	}
	return calculator.Split(bill)
}

// ProcessFile reads a bill document, computes the split, and writes the
// rendered artifact. It returns the artifact path. Any stage failing fails
// this one document only.
func (p *Processor) ProcessFile(path string) (string, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	out, err := p.ProcessBytes(doc)
	if err != nil {
		return "", fmt.Errorf("split %s: %w", path, err)
	}

	rendered, err := format.Render(out, p.Format)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", path, err)
	}

	artifact := format.OutputPath(path, p.Format)
	if p.OutDir != "" {
		artifact = filepath.Join(p.OutDir, filepath.Base(artifact))
	}
	if err := os.WriteFile(artifact, rendered, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", artifact, err)
	}
	return artifact, nil
}
