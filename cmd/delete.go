package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gocargo/config"
)

var (
	deleteDBPath string
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the run snapshot database",
	Long: `Destructive cleanup of the SQLite database that holds run snapshots.

The file (and any -wal, -shm or -journal companion files) is removed, so every stored
snapshot is gone afterwards. Without --db the path comes from storage.db.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete the configured snapshot database (requires interactive confirmation)
  gocargo delete

  # Delete a specific snapshot database
  gocargo delete --db /data/gocargo.db
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		return deleteSnapshotDatabase(resolveDBPath(deleteDBPath, *cfg), deletePromptInput, deletePromptOutput)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "", "Path to local SQLite database holding run snapshots (default: storage.db)")
}

func deleteSnapshotDatabase(path string, input io.Reader, output io.Writer) error {
	if output == nil {
		output = io.Discard
	}

	confirmed, err := confirmDeletePrompt(input, output, path)
	if err != nil {
		return err
	}
	if !confirmed {
		return fmt.Errorf("delete aborted: confirmation was not 'Y'")
	}

	if err := removeDatabaseFile(path); err != nil {
		return err
	}
	fmt.Fprintf(output, "Deleted snapshot database: %s\n", path)
	return nil
}

func confirmDeletePrompt(input io.Reader, output io.Writer, path string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete snapshot database %q and every stored run? Type Y to confirm: ", path); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete database companion file: %w", err)
		}
	}
	return nil
}
