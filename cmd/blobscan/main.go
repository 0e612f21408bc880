/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for blobscan. Wires the cobra command tree,
binds flags into viper, and runs the selected command with a context that is
cancelled on interrupt.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/kleascm/blobscan/cmd/blobscan/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blobscan",
		Short: "blobscan - diagnostic scanner for binary blobs of unknown layout",
		Long: `blobscan walks a binary buffer word by word, splits it into void (all-zero)
and data regions, and logs a best-effort type hypothesis for every data region.
It is meant for reverse-engineering and validating model binaries such as .moc3.`,
		Version:       commands.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().String("log-dir", "", "Also write logs to a timestamped file in this directory")
	rootCmd.PersistentFlags().Int("log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Bool("log-timestamp", false, "Prefix log lines with a timestamp")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored log output")
	rootCmd.PersistentFlags().Bool("log-caller", false, "Include the calling file and line in log lines")

	// Scan flags
	rootCmd.PersistentFlags().String("endian", "little", "Word byte order (little, big, auto)")
	rootCmd.PersistentFlags().Uint64("start-at", 0, "Byte offset to start scanning at")
	rootCmd.PersistentFlags().Uint64("report-offset", 0, "Value subtracted from reported end offsets")
	rootCmd.PersistentFlags().Bool("report-trailing-void", false, "Report a void region still open at end of buffer")
	rootCmd.PersistentFlags().String("report", "", "Write a scan report to this file or directory")
	rootCmd.PersistentFlags().String("report-format", "json", "Report format (json, yaml, html)")

	for key, flag := range map[string]string{
		"config":               "config",
		"log.level":            "log-level",
		"log.format":           "log-format",
		"log.output_dir":       "log-dir",
		"log.max_files":        "log-max-files",
		"log.timestamp":        "log-timestamp",
		"log.no_color":         "no-color",
		"log.caller":           "log-caller",
		"scan.endian":          "endian",
		"scan.start_offset":    "start-at",
		"scan.report_offset":   "report-offset",
		"scan.report_trailing": "report-trailing-void",
		"report.path":          "report",
		"report.format":        "report-format",
	} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}

	rootCmd.AddCommand(
		commands.NewAnalyzeCommand(),
		commands.NewLoadCommand(),
		commands.NewArchiveCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
