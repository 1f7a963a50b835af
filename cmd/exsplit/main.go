// Package main provides the CLI entry point for exsplit-go.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ukaji3/exsplit-go/internal/config"
	"github.com/ukaji3/exsplit-go/internal/logging"
	"github.com/ukaji3/exsplit-go/internal/web"
	"github.com/ukaji3/exsplit-go/pkg/exsplit"
)

var (
	outputPath string
	sheet      string
	logLevel   string

	rows     int
	baseName string

	column     string
	value      string
	mode       string
	valueType  string
	outputName string

	renameTo string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exsplit",
		Short: "Split, filter and extract columns from Excel files",
		Long: `exsplit-go splits xlsx workbooks by row count, filters them on a column
value and pulls single columns out of several workbooks. Results are written
as xlsx files, or as a zip archive when there is more than one.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logLevel, "text")
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newSplitCmd(), newFilterCmd(), newExtractCmd(), newServeCmd())
	return rootCmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: suggested name in the current directory)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read (default: first sheet)")
}

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split INPUT",
		Short: "Split a workbook into parts of N rows",
		Args:  cobra.ExactArgs(1),
		RunE:  runSplit,
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "Rows per output workbook")
	cmd.Flags().StringVar(&baseName, "name", "", "Base name of the output workbooks")
	cmd.MarkFlagRequired("rows")
	cmd.MarkFlagRequired("name")
	addOutputFlags(cmd)
	return cmd
}

func newFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter INPUT",
		Short: "Keep the rows matching a column value",
		Long: `Filter keeps the rows of INPUT whose column matches --value (exact),
writes one workbook per distinct value (distinct) or keeps the rows where the
column is blank (blank). Without --mode, a value of "0" means distinct.`,
		Args: cobra.ExactArgs(1),
		RunE: runFilter,
	}
	cmd.Flags().StringVar(&column, "column", "", "Column to filter on")
	cmd.Flags().StringVar(&value, "value", "", "Value to match")
	cmd.Flags().StringVar(&mode, "mode", "", "Filter mode: exact, distinct, blank")
	cmd.Flags().StringVar(&valueType, "value-type", string(exsplit.ValueText), "Compare value as: text, number, auto")
	cmd.Flags().StringVar(&outputName, "name", "", "Output workbook name (exact and blank modes)")
	cmd.MarkFlagRequired("column")
	addOutputFlags(cmd)
	return cmd
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract INPUT...",
		Short: "Pull one column out of several workbooks",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runExtract,
	}
	cmd.Flags().StringVar(&column, "column", "", "Column to extract")
	cmd.Flags().StringVar(&renameTo, "rename", "", "New header for the extracted column")
	cmd.MarkFlagRequired("column")
	addOutputFlags(cmd)
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload forms over HTTP",
		Long: `Serve starts the HTTP server. Settings come from the environment,
optionally loaded from a .env file in the working directory.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runSplit(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	bundle, err := exsplit.PartitionByRowCount(src, rows, baseName, options())
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}
	return writeBundle(bundle)
}

func runFilter(cmd *cobra.Command, args []string) error {
	req, err := exsplit.NewFilterRequest(column, mode, value, valueType, outputName)
	if err != nil {
		return err
	}
	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	bundle, err := exsplit.FilterByColumn(src, req, options())
	if err != nil {
		return fmt.Errorf("filter failed: %w", err)
	}
	return writeBundle(bundle)
}

func runExtract(cmd *cobra.Command, args []string) error {
	srcs := make([]exsplit.Source, 0, len(args))
	for _, path := range args {
		src, err := readSource(path)
		if err != nil {
			return err
		}
		srcs = append(srcs, src)
	}

	bundle, err := exsplit.ExtractColumn(srcs, column, renameTo, options())
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	return writeBundle(bundle)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
	)

	server := web.NewServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func options() exsplit.Options {
	opts := exsplit.DefaultOptions()
	opts.Sheet = sheet
	return opts
}

func readSource(path string) (exsplit.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return exsplit.Source{}, fmt.Errorf("file not found: %s", path)
		}
		return exsplit.Source{}, fmt.Errorf("failed to read input: %w", err)
	}
	return exsplit.Source{Name: filepath.Base(path), Data: data}, nil
}

// writeBundle packages bundle and writes it to outputPath, or to the
// payload's suggested name in the current directory.
func writeBundle(bundle *exsplit.OutputBundle) error {
	payload, err := bundle.Package()
	if err != nil {
		return fmt.Errorf("packaging failed: %w", err)
	}

	path := outputPath
	if path == "" {
		path = payload.Name
	}
	if err := os.WriteFile(path, payload.Data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	slog.Info("wrote output",
		"path", path,
		"entries", len(bundle.Entries),
		"bytes", len(payload.Data),
	)
	return nil
}
