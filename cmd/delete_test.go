package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfirmDeletePrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "uppercase Y confirms", input: "Y\n", want: true},
		{name: "lowercase y does not confirm", input: "y\n", want: false},
		{name: "N does not confirm", input: "N\n", want: false},
		{name: "empty does not confirm", input: "\n", want: false},
		{name: "Y without newline confirms", input: "Y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirmDeletePrompt(bytes.NewBufferString(tt.input), &out, "./gocargo.db")
			if err != nil {
				t.Fatalf("confirm prompt returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if out.Len() == 0 {
				t.Fatalf("expected prompt output")
			}
		})
	}
}

func TestRemoveDatabaseFile(t *testing.T) {
	t.Run("deletes existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gocargo.db")
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("write temp db file: %v", err)
		}

		if err := removeDatabaseFile(path); err != nil {
			t.Fatalf("remove db file: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected file to be deleted")
		}
	})

	t.Run("fails for directory path", func(t *testing.T) {
		dir := t.TempDir()
		if err := removeDatabaseFile(dir); err == nil {
			t.Fatalf("expected error for directory path")
		}
	})

	t.Run("fails for missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.db")
		if err := removeDatabaseFile(path); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})
}

func TestDeleteSnapshotDatabase_UsesConfiguredPath(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.Storage.DB = filepath.Join(dir, "snapshots.db")
	for _, path := range []string{cfg.Storage.DB, cfg.Storage.DB + "-wal"} {
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	var out bytes.Buffer
	path := resolveDBPath("", cfg)
	if err := deleteSnapshotDatabase(path, bytes.NewBufferString("Y\n"), &out); err != nil {
		t.Fatalf("delete snapshot database: %v", err)
	}

	for _, path := range []string{cfg.Storage.DB, cfg.Storage.DB + "-wal"} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be deleted", path)
		}
	}
	if !strings.Contains(out.String(), "Deleted snapshot database: "+cfg.Storage.DB) {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestDeleteSnapshotDatabase_FlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.Storage.DB = filepath.Join(dir, "configured.db")
	flagPath := filepath.Join(dir, "flag.db")
	for _, path := range []string{cfg.Storage.DB, flagPath} {
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	if err := deleteSnapshotDatabase(resolveDBPath(flagPath, cfg), bytes.NewBufferString("Y\n"), nil); err != nil {
		t.Fatalf("delete snapshot database: %v", err)
	}
	if _, err := os.Stat(flagPath); !os.IsNotExist(err) {
		t.Fatalf("expected flag path to be deleted")
	}
	if _, err := os.Stat(cfg.Storage.DB); err != nil {
		t.Fatalf("expected configured database to be kept: %v", err)
	}
}

func TestDeleteSnapshotDatabase_AbortKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gocargo.db")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write temp db file: %v", err)
	}

	if err := deleteSnapshotDatabase(path, bytes.NewBufferString("n\n"), nil); err == nil {
		t.Fatalf("expected abort error")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to be kept: %v", err)
	}
}
