package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/hush/internal/audit"
	kerrors "github.com/PolarWolf314/hush/internal/errors"
	"github.com/PolarWolf314/hush/internal/ui"
	"github.com/PolarWolf314/hush/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logFailed    bool
	logSince     string
	logUntil     string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().BoolVar(&logFailed, "failed", false, "only show failed operations")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logFailed = false
	logSince = ""
	logUntil = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the local audit log of hush operations.

Entries record when text was encrypted or decrypted, with which key and how
many bytes, but never the text itself.

Examples:
  hush log                          # View full log
  hush log -n 10                    # Last 10 entries
  hush log --reverse                # Most recent first
  hush log --operation decrypt      # Filter by operation
  hush log --failed                 # Only failures
  hush log --since 2026-01-01       # Filter by date
  hush log --json                   # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	opts := workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Operations: logOperation,
		FailedOnly: logFailed,
		Since:      logSince,
		Until:      logUntil,
	}

	result, err := workflows.Log(cmd.Context(), opts)
	if err != nil {
		if kerrors.Is(err, kerrors.ErrNoAuditLog) {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Info.Sprint("ℹ")+" No audit log found. Operations are logged after the first encrypt or decrypt.")
			return nil
		}
		if kerrors.Is(err, kerrors.ErrInvalidDateFormat) {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Fail(err.Error()))
			return reportedError{err}
		}
		return fail(cmd, fmt.Errorf("failed to read audit log: %w", err))
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No audit log entries found.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No audit log entries found matching the filters.")
		}
		return nil
	}

	if logJSON {
		return outputLogJSON(cmd, result.Entries)
	}
	outputLogDefault(cmd, result.Entries)
	return nil
}

func outputLogJSON(cmd *cobra.Command, entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputLogDefault(cmd *cobra.Command, entries []audit.Entry) {
	for _, e := range entries {
		datetime := workflows.FormatDateTime(e.Timestamp)
		details := workflows.FormatDetails(e)
		fmt.Fprintf(cmd.OutOrStdout(), "%-19s  %-12s  %-16s  %-6s  %s\n", datetime, e.User, e.Operation, e.Status, details)
	}
}
