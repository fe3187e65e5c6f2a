package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wellnest/internal/config"
	"wellnest/internal/database"
	"wellnest/internal/logger"
	"wellnest/internal/service"
)

var (
	exportOutput string
	importInput  string
	importClear  bool
	assumeYes    bool
)

var rootCmd = &cobra.Command{
	Use:   "backup",
	Short: "Wellnest database backup tool",
	Long: `Export the Wellnest database to a portable JSON file, or restore one.

The database is selected with the same environment variables as the server:
  DB_TYPE       sqlite, postgres or mysql (default: sqlite)
  DB_PATH       SQLite database path (default: ./wellnest.db)
  DATABASE_URL  PostgreSQL or MySQL connection URL`,
	SilenceUsage: true,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the database to a JSON file",
	Example: `  backup export
  backup export --output backups/wellnest.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the database from a JSON file",
	Example: `  # merge into existing data
  backup import --input backup.json

  # replace all data
  backup import --input backup.json --clear`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	importCmd.Flags().StringVarP(&importInput, "input", "i", "", "input file path")
	importCmd.Flags().BoolVar(&importClear, "clear", false, "clear existing data before import (destructive)")
	importCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt for --clear")
	_ = importCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(exportCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openBackupService connects to the configured database and brings its
// schema up to date
func openBackupService(ctx context.Context) (*service.BackupService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.UsesMemoryStore() {
		return nil, nil, errors.New("DB_TYPE=memory has nothing to back up")
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	cleanup := func() {
		db.Close()
		log.Sync()
	}

	if err := db.RunMigrations(ctx, log); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return service.NewBackupService(db, log), cleanup, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	outputPath := exportOutput
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	backups, cleanup, err := openBackupService(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if err := backups.Export(cmd.Context(), outputPath); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return err
	}
	cmd.Printf("Export complete: %s (%.2f MB)\n", outputPath, float64(info.Size())/1024/1024)
	return nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(importInput); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	if importClear && !assumeYes {
		cmd.Print("WARNING: This will delete all existing data. Type 'yes' to confirm: ")
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			cmd.Println("Import cancelled")
			return nil
		}
	}

	backups, cleanup, err := openBackupService(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if err := backups.Import(cmd.Context(), importInput, importClear); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Println("Import complete")
	return nil
}
