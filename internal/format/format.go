// Package format renders split results and derives output artifact paths.
package format

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"warikan/internal/models"
)

// Format selects the output serialization.
type Format string

const (
	// FormatJSON is the structured serialization and the default.
	FormatJSON Format = "json"

	// FormatText is a fixed-layout human-readable report.
	FormatText Format = "text"
)

// outputSuffix is appended to an input document's base name to derive the
// artifact name, e.g. dinner.json -> dinner_split.json.
const outputSuffix = "_split"

// ParseFormat maps a format name to a Format. Anything unrecognized,
// including the empty string, falls back to the structured default.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatText)) {
		return FormatText
	}
	return FormatJSON
}

// Ext returns the artifact file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatText {
		return "txt"
	}
	return "json"
}

// Render serializes a split result in the given format.
func Render(out models.BillOutput, f Format) ([]byte, error) {
	if f == FormatText {
		return renderText(out), nil
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return append(data, '\n'), nil
}

// renderText produces the fixed-layout report. All monetary fields are shown
// at one-decimal precision.
func renderText(out models.BillOutput) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Date:     %s\n", out.Date)
	fmt.Fprintf(&b, "Location: %s\n", out.Location)
	fmt.Fprintf(&b, "Subtotal: %.1f\n", out.SubTotal)
	fmt.Fprintf(&b, "Tip:      %.1f\n", out.Tip)
	fmt.Fprintf(&b, "Total:    %.1f\n", out.TotalAmount)
	b.WriteString("----\n")
	for _, p := range out.Items {
		fmt.Fprintf(&b, "%s: %.1f\n", p.Name, p.Amount)
	}
	return []byte(b.String())
}

// OutputPath derives the artifact path for an input document: the suffix is
// appended to the base name and the extension follows the format.
func OutputPath(inputPath string, f Format) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(dir, base+outputSuffix+"."+f.Ext())
}

// IsArtifact reports whether a path looks like one of our own outputs, so
// batch and watch modes never reprocess what they produced.
func IsArtifact(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(base, outputSuffix)
}
