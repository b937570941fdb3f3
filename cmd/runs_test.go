package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"gocargo/dataset"
	"gocargo/storage"
)

type fakeRunLoader struct {
	runs map[string]storage.Run
}

func (f fakeRunLoader) LoadRun(id string) (storage.Run, error) {
	run, ok := f.runs[id]
	if !ok {
		return storage.Run{}, storage.ErrRunNotFound
	}
	return run, nil
}

func TestPrintRuns(t *testing.T) {
	t.Parallel()

	var empty bytes.Buffer
	if err := printRuns(&empty, nil); err != nil {
		t.Fatalf("print runs: %v", err)
	}
	if !strings.Contains(empty.String(), "No stored runs.") {
		t.Fatalf("unexpected empty output: %q", empty.String())
	}

	var out bytes.Buffer
	err := printRuns(&out, []storage.RunSummary{
		{ID: "run-1", Source: "march.xlsx", CreatedAt: time.Now(), SheetsOK: 3, SheetsFailed: 1, Rows: 42},
	})
	if err != nil {
		t.Fatalf("print runs: %v", err)
	}
	for _, want := range []string{"ID", "run-1", "march.xlsx", "42"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out.String())
		}
	}
}

func TestShowRun(t *testing.T) {
	t.Parallel()

	table := dataset.NewTable("combined", []string{"job no", "commodity", "quantity/mt", "invoice amount", "currency", dataset.ClientColumn})
	table.Rows = []dataset.Row{
		{dataset.Text("5.09.2"), dataset.Empty(), dataset.Number(10), dataset.Number(700), dataset.Text("EGP"), dataset.Text("Beta")},
	}
	loader := fakeRunLoader{runs: map[string]storage.Run{
		"run-1": {
			RunSummary: storage.RunSummary{ID: "run-1", Source: "beta.csv", CreatedAt: time.Now()},
			Sheets:     []storage.SheetOutcome{{Name: "Beta", RowsKept: 1}, {Name: "Notes", Error: "fewer than 2 rows"}},
			Table:      table,
		},
	}}

	var out bytes.Buffer
	if err := showRun(&out, loader, "run-1", testConfig(t)); err != nil {
		t.Fatalf("show run: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"Run run-1: beta.csv",
		"Processed: Beta | Rows kept: 1",
		"Error processing sheet Notes: fewer than 2 rows",
		"Job No.09",
		"No data for client Beta",
		"700.00",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, text)
		}
	}

	if err := showRun(&out, loader, "missing", testConfig(t)); !errors.Is(err, storage.ErrRunNotFound) {
		t.Fatalf("expected run not found, got %v", err)
	}
}

func TestShowRun_UsesStoredSchema(t *testing.T) {
	t.Parallel()

	schema := dataset.DefaultSchema()
	schema.Quantity = "weight/kg"
	table := dataset.NewTable("combined", []string{"job no", "commodity", "weight/kg", "invoice amount", "currency", dataset.ClientColumn})
	table.Rows = []dataset.Row{
		{dataset.Text("5.09.2"), dataset.Text("Corn"), dataset.Number(25), dataset.Number(700), dataset.Text("EGP"), dataset.Text("Beta")},
	}
	loader := fakeRunLoader{runs: map[string]storage.Run{
		"run-2": {
			RunSummary: storage.RunSummary{ID: "run-2", Source: "beta.csv", CreatedAt: time.Now()},
			Sheets:     []storage.SheetOutcome{{Name: "Beta", RowsKept: 1}},
			Schema:     schema,
			Table:      table,
		},
	}}

	var out bytes.Buffer
	if err := showRun(&out, loader, "run-2", testConfig(t)); err != nil {
		t.Fatalf("show run: %v", err)
	}
	if !strings.Contains(out.String(), "25.00") {
		t.Fatalf("expected quantity from the stored schema, got:\n%s", out.String())
	}
}
