package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"gocargo/dataset"
)

type Options struct {
	Format    string
	Schema    dataset.Schema
	Normalize NormalizeOptions
	Workers   int
	Logger    *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Schema:    dataset.DefaultSchema(),
		Normalize: DefaultNormalizeOptions(),
		Workers:   4,
	}
}

// SheetResult is the outcome of normalizing one sheet. Err is a
// *SheetProcessingError when the sheet was left out.
type SheetResult struct {
	Name     string
	RowsKept int
	Err      error
}

type Result struct {
	Source      string
	Sheets      []SheetResult
	Warnings    []MissingColumnWarning
	RowsDropped int
	Table       dataset.Table
}

func (r *Result) Succeeded() int {
	count := 0
	for _, sheet := range r.Sheets {
		if sheet.Err == nil {
			count++
		}
	}
	return count
}

func (r *Result) Failed() int {
	return len(r.Sheets) - r.Succeeded()
}

// Run loads the input, normalizes every sheet, cleans column names and
// combines the sheets into one dataset.
//
// Sheet-local failures are recorded in Result.Sheets and never abort the run.
// A *LoadError returns a nil result. A *NumericCoercionError returns the
// partial result (sheet outcomes, no table) together with the error so the
// caller can still report per-sheet counts.
func Run(ctx context.Context, r io.Reader, source string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	format, err := InferFormat(source, opts.Format)
	if err != nil {
		return nil, err
	}
	loader, err := LoaderForFormat(format)
	if err != nil {
		return nil, err
	}

	sheets, err := loader.Load(r, source)
	if err != nil {
		return nil, err
	}
	logger.Debug("spreadsheet loaded", "source", source, "format", format, "sheets", len(sheets))

	tables, outcomes, err := normalizeSheets(ctx, sheets, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Source: source, Sheets: outcomes}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			logger.Error("sheet skipped", "sheet", outcome.Name, "error", outcome.Err)
			continue
		}
		logger.Info("sheet processed", "sheet", outcome.Name, "rows", outcome.RowsKept)
	}

	cleaned := make([]dataset.Table, 0, len(tables))
	for _, table := range tables {
		cleaned = append(cleaned, CleanColumns(table))
	}

	combined, err := Combine(cleaned, opts.Schema)
	result.Warnings = combined.Warnings
	result.RowsDropped = combined.RowsDropped
	for _, warning := range combined.Warnings {
		logger.Warn("missing column", "column", warning.Column, "step", warning.Step)
	}
	if err != nil {
		var coercionErr *NumericCoercionError
		if errors.As(err, &coercionErr) {
			logger.Error("numeric coercion failed",
				"column", coercionErr.Column,
				"row", coercionErr.Row,
				"client", coercionErr.Client,
				"value", coercionErr.Value,
			)
		}
		return result, fmt.Errorf("combine sheets: %w", err)
	}

	result.Table = combined.Table
	logger.Info("sheets combined",
		"source", source,
		"sheets_ok", result.Succeeded(),
		"sheets_failed", result.Failed(),
		"rows", combined.Table.Len(),
	)
	return result, nil
}

// normalizeSheets runs NormalizeSheet for every sheet, possibly in parallel.
// Successful tables are returned in sheet order so the combined row order is
// stable across runs.
func normalizeSheets(ctx context.Context, sheets []Sheet, opts Options) ([]dataset.Table, []SheetResult, error) {
	tables := make([]dataset.Table, len(sheets))
	outcomes := make([]SheetResult, len(sheets))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, sheet := range sheets {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			table, err := NormalizeSheet(sheet, opts.Normalize)
			outcomes[i] = SheetResult{Name: sheet.Name, RowsKept: table.Len(), Err: err}
			if err == nil {
				tables[i] = table
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, fmt.Errorf("normalize sheets: %w", err)
	}

	ordered := make([]dataset.Table, 0, len(sheets))
	for i, outcome := range outcomes {
		if outcome.Err == nil {
			ordered = append(ordered, tables[i])
		}
	}
	return ordered, outcomes, nil
}
