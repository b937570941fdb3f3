package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"gocargo/dataset"
	"gocargo/importer"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrRunNotFound = errors.New("run not found")

// timeLayout has a fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SheetOutcome struct {
	Name     string `json:"name"`
	RowsKept int    `json:"rowsKept"`
	Error    string `json:"error,omitempty"`
}

type RunSummary struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"createdAt"`
	SheetsOK     int       `json:"sheetsOk"`
	SheetsFailed int       `json:"sheetsFailed"`
	Rows         int       `json:"rows"`
}

// Run is an immutable snapshot of one analysis: the combined table, the
// column schema it was aggregated with and the per-sheet outcomes that
// produced it.
type Run struct {
	RunSummary
	Sheets []SheetOutcome `json:"sheets"`
	Schema dataset.Schema `json:"schema"`
	Table  dataset.Table  `json:"-"`
}

// NewRun snapshots a successful pipeline result together with the schema
// used to read it.
func NewRun(result *importer.Result, schema dataset.Schema) Run {
	run := Run{
		RunSummary: RunSummary{
			Source:       result.Source,
			SheetsOK:     result.Succeeded(),
			SheetsFailed: result.Failed(),
			Rows:         result.Table.Len(),
		},
		Sheets: SheetOutcomes(result.Sheets),
		Schema: schema,
		Table:  result.Table.Clone(),
	}
	return run
}

// ReportSchema returns the schema stored with the run. Runs saved before
// schemas were stored report fallback.
func (r Run) ReportSchema(fallback dataset.Schema) dataset.Schema {
	if r.Schema == (dataset.Schema{}) {
		return fallback
	}
	return r.Schema
}

// SheetOutcomes flattens per-sheet results into their stored form.
func SheetOutcomes(sheets []importer.SheetResult) []SheetOutcome {
	outcomes := make([]SheetOutcome, 0, len(sheets))
	for _, sheet := range sheets {
		outcome := SheetOutcome{Name: sheet.Name, RowsKept: sheet.RowsKept}
		if sheet.Err != nil {
			outcome.Error = sheet.Err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	created_at TEXT NOT NULL,
	sheets_ok INTEGER NOT NULL CHECK(sheets_ok >= 0),
	sheets_failed INTEGER NOT NULL CHECK(sheets_failed >= 0),
	row_count INTEGER NOT NULL CHECK(row_count >= 0),
	table_name TEXT NOT NULL,
	columns TEXT NOT NULL,
	sheets TEXT NOT NULL,
	column_schema TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS run_rows (
	run_id TEXT NOT NULL,
	row_index INTEGER NOT NULL,
	cells TEXT NOT NULL,
	PRIMARY KEY(run_id, row_index)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return s.ensureRunSchemaColumn()
}

// ensureRunSchemaColumn upgrades databases created before runs stored their
// column schema.
func (s *SQLiteStore) ensureRunSchemaColumn() error {
	rows, err := s.db.Query(`PRAGMA table_info(runs);`)
	if err != nil {
		return fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()

	hasSchema := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		if strings.EqualFold(name, "column_schema") {
			hasSchema = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table info: %w", err)
	}
	if hasSchema {
		return nil
	}

	if _, err := s.db.Exec(`ALTER TABLE runs ADD COLUMN column_schema TEXT NOT NULL DEFAULT '';`); err != nil {
		return fmt.Errorf("add column_schema column: %w", err)
	}
	return nil
}

// SaveRun stores run and returns its ID. A missing ID is generated and a
// zero CreatedAt is set to now.
func (s *SQLiteStore) SaveRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	columns, err := json.Marshal(run.Table.Columns)
	if err != nil {
		return "", fmt.Errorf("encode columns: %w", err)
	}
	sheets, err := json.Marshal(run.Sheets)
	if err != nil {
		return "", fmt.Errorf("encode sheet outcomes: %w", err)
	}
	schema, err := json.Marshal(run.Schema)
	if err != nil {
		return "", fmt.Errorf("encode schema: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	const insertRun = `
INSERT INTO runs (
	id,
	source,
	created_at,
	sheets_ok,
	sheets_failed,
	row_count,
	table_name,
	columns,
	sheets,
	column_schema
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	if _, err := tx.Exec(
		insertRun,
		run.ID,
		run.Source,
		run.CreatedAt.UTC().Format(timeLayout),
		run.SheetsOK,
		run.SheetsFailed,
		run.Table.Len(),
		run.Table.Name,
		string(columns),
		string(sheets),
		string(schema),
	); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO run_rows (run_id, row_index, cells) VALUES (?, ?, ?);`)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("prepare row insert statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range run.Table.Rows {
		cells, err := json.Marshal(row)
		if err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("encode row %d: %w", i, err)
		}
		if _, err := stmt.Exec(run.ID, i, string(cells)); err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	return run.ID, nil
}

// ListRuns returns run summaries, newest first.
func (s *SQLiteStore) ListRuns() ([]RunSummary, error) {
	const query = `
SELECT
	id,
	source,
	created_at,
	sheets_ok,
	sheets_failed,
	row_count
FROM runs
ORDER BY created_at DESC, id;
`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]RunSummary, 0, 32)
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return summaries, nil
}

// LoadRun returns the snapshot with the given ID or ErrRunNotFound.
func (s *SQLiteStore) LoadRun(id string) (Run, error) {
	const query = `
SELECT
	id,
	source,
	created_at,
	sheets_ok,
	sheets_failed,
	row_count,
	table_name,
	columns,
	sheets,
	column_schema
FROM runs
WHERE id = ?;
`

	var (
		run        Run
		createdRaw string
		columnsRaw string
		sheetsRaw  string
		schemaRaw  string
	)
	err := s.db.QueryRow(query, id).Scan(
		&run.ID,
		&run.Source,
		&createdRaw,
		&run.SheetsOK,
		&run.SheetsFailed,
		&run.Rows,
		&run.Table.Name,
		&columnsRaw,
		&sheetsRaw,
		&schemaRaw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return Run{}, fmt.Errorf("query run %s: %w", id, err)
	}

	run.CreatedAt, err = time.Parse(timeLayout, createdRaw)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	if err := json.Unmarshal([]byte(columnsRaw), &run.Table.Columns); err != nil {
		return Run{}, fmt.Errorf("decode columns of run %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(sheetsRaw), &run.Sheets); err != nil {
		return Run{}, fmt.Errorf("decode sheet outcomes of run %s: %w", id, err)
	}
	if schemaRaw != "" {
		if err := json.Unmarshal([]byte(schemaRaw), &run.Schema); err != nil {
			return Run{}, fmt.Errorf("decode schema of run %s: %w", id, err)
		}
	}

	run.Table.Rows, err = s.loadRows(id, run.Rows)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *SQLiteStore) loadRows(id string, count int) ([]dataset.Row, error) {
	rows, err := s.db.Query(`SELECT cells FROM run_rows WHERE run_id = ? ORDER BY row_index;`, id)
	if err != nil {
		return nil, fmt.Errorf("query rows of run %s: %w", id, err)
	}
	defer rows.Close()

	out := make([]dataset.Row, 0, count)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row of run %s: %w", id, err)
		}
		var row dataset.Row
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, fmt.Errorf("decode row of run %s: %w", id, err)
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows of run %s: %w", id, err)
	}
	return out, nil
}

// DeleteRun removes one snapshot. It reports false when no run had the ID.
func (s *SQLiteStore) DeleteRun(id string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM run_rows WHERE run_id = ?;`, id); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete rows of run %s: %w", id, err)
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?;`, id)
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete run %s: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("read deleted row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete transaction: %w", err)
	}
	return rowsAffected > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (RunSummary, error) {
	var (
		summary    RunSummary
		createdRaw string
	)
	if err := row.Scan(
		&summary.ID,
		&summary.Source,
		&createdRaw,
		&summary.SheetsOK,
		&summary.SheetsFailed,
		&summary.Rows,
	); err != nil {
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}

	createdAt, err := time.Parse(timeLayout, createdRaw)
	if err != nil {
		return RunSummary{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	summary.CreatedAt = createdAt
	return summary, nil
}
