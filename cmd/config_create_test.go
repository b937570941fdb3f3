package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestSaveDefaultConfigCreatesExampleTemplate(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "create-template.yaml")
	cfgFile = tmpConfig
	viper.Reset()

	var out bytes.Buffer
	if err := saveDefaultConfig(&out); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	for _, want := range []string{
		"New config file created at: " + tmpConfig,
		"index column, 1 title row(s)",
		`Job number header: "job no"`,
		`Numeric headers: "quantity/mt", "invoice amount"`,
		"Currency cards: USD, EGP",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected create output to contain %q, got:\n%s", want, out.String())
		}
	}

	text := string(content)
	if !strings.Contains(text, "# gocargo configuration") {
		t.Fatalf("expected example header in config file, got:\n%s", text)
	}
	if !strings.Contains(text, "columns:") || !strings.Contains(text, "job_no: \"job no\"") {
		t.Fatalf("expected column settings in config file, got:\n%s", text)
	}
}

func TestSaveDefaultConfigDoesNotOverwriteExistingFile(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "existing.yaml")
	original := "storage:\n  db: \"./custom.db\"\n"
	if err := os.WriteFile(tmpConfig, []byte(original), 0o644); err != nil {
		t.Fatalf("failed writing initial config: %v", err)
	}

	cfgFile = tmpConfig
	viper.Reset()

	var out bytes.Buffer
	if err := saveDefaultConfig(&out); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}
	if !strings.Contains(out.String(), "Config file already exists at: "+tmpConfig) {
		t.Fatalf("unexpected create output: %q", out.String())
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("failed reading existing config after create: %v", err)
	}
	if string(content) != original {
		t.Fatalf("expected existing config to remain unchanged")
	}
}
