package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"warikan/internal/service"
)

const validBill = `{
	"date": "2024-03-21",
	"location": "izakaya",
	"tipPercentage": 0,
	"items": [
		{"price": 30, "name": "hotpot", "isShared": true},
		{"price": 10, "name": "beer", "isShared": false, "person": "A"},
		{"price": 20, "name": "sake", "isShared": false, "person": "B"}
	]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunPartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), validBill)
	writeFile(t, filepath.Join(dir, "b.json"), validBill)
	writeFile(t, filepath.Join(dir, "broken.json"), `{"location": "no date", "items": []}`)

	r := NewRunner(service.NewProcessor("json", ""), 3)
	stats, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Matched != 3 {
		t.Errorf("matched = %d, want 3", stats.Matched)
	}
	if stats.Succeeded != 2 || stats.Failed != 1 {
		t.Errorf("succeeded/failed = %d/%d, want 2/1", stats.Succeeded, stats.Failed)
	}

	// The two good documents must have correct artifacts regardless of
	// which worker handled them or in what order.
	for _, name := range []string{"a_split.json", "b_split.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("artifact %s missing: %v", name, err)
		}
		var out struct {
			TotalAmount float64 `json:"totalAmount"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("artifact %s does not parse: %v", name, err)
		}
		if out.TotalAmount != 60 {
			t.Errorf("artifact %s totalAmount = %v, want 60", name, out.TotalAmount)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "broken_split.json")); !os.IsNotExist(err) {
		t.Error("broken document produced an artifact")
	}
}

func TestRunSkipsNonDocumentsAndArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), validBill)
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a bill")
	writeFile(t, filepath.Join(dir, "old_split.json"), "{}")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(service.NewProcessor("json", ""), 2)
	stats, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Matched != 1 || stats.Succeeded != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want matched/succeeded 1 and no failures", stats)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	r := NewRunner(service.NewProcessor("json", ""), 1)
	if _, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Run() on missing directory = nil error, want failure")
	}
}

func TestNewRunnerClampsWorkers(t *testing.T) {
	if r := NewRunner(service.NewProcessor("json", ""), 0); r.Workers != 1 {
		t.Errorf("Workers = %d, want 1", r.Workers)
	}
}
