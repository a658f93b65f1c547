package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/cmd/slotctl/logger"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	logDir  string

	// Table shape flags. Keys and values are fixed-width strings; a table
	// must be opened with the widths and encoding it was created with.
	keySize   int
	valueSize int
	encoding  string
)

var rootCmd = &cobra.Command{
	Use:   "slotctl",
	Short: "Create, inspect and edit slot table files",
	Long: `slotctl works with slot tables: fixed-capacity hash tables stored in a
single memory-mapped file. It can create tables, read and write entries,
check a table's invariants, and migrate entries from an old table into a
larger one.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		var err error
		closeLog, err = logger.Init(logger.Options{Stderr: verbose, LogDir: logDir, Level: level})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// closeLog releases the log file opened by PersistentPreRunE.
var closeLog = func() error { return nil }

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logs")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write JSON logs to a dated file in this directory")
	rootCmd.PersistentFlags().IntVar(&keySize, "key-size", 32, "Key width in bytes")
	rootCmd.PersistentFlags().IntVar(&valueSize, "value-size", 64, "Value width in bytes")
	rootCmd.PersistentFlags().
		StringVar(&encoding, "encoding", encUTF8, "String encoding (utf8, cp1252, utf16)")
}

func execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatBytes renders a byte count the way info and create report sizes.
func formatBytes(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
