package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
)

var (
	okLabel   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
	heading   = color.New(color.FgCyan, color.Bold).SprintFunc()
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// status prints a one-line OK/FAILED verdict and returns an error for
// failures so the process exits non-zero.
func status(success bool, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if success {
		fmt.Printf("%s %s\n", okLabel("OK"), msg)
		return nil
	}
	fmt.Printf("%s %s\n", failLabel("FAILED"), msg)
	return errFailed
}

var errFailed = errors.New("operation failed")

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return dim("never")
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
