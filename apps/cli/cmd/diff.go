package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/snapmatch/packages/diff"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	diffOutputFlag string
	diffStepFlag   int
	diffWindowFlag int
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-file> <new-file>",
	Short: "Show the first difference between two files",
	Long: `Show a bounded excerpt around the first difference between two files,
in the same form used by failing snapshot matches.

Examples:
  snapmatch diff __snapshots__/page.html out/page.html
  snapmatch diff old.txt new.txt --step 20 --window 80
  snapmatch diff old.txt new.txt --output json`,
	Args: cobra.ExactArgs(2),
	RunE: diffCommand,
}

func init() {
	diffCmd.Flags().StringVarP(&diffOutputFlag, "output", "o", "console", "Output format: console, json")
	diffCmd.Flags().IntVar(&diffStepFlag, "step", 0, "Scan step in characters (default from config)")
	diffCmd.Flags().IntVar(&diffWindowFlag, "window", 0, "Excerpt length in characters (default from config)")
}

// DiffJSONOutput is the JSON form of a presented difference.
type DiffJSONOutput struct {
	Identical bool   `json:"identical"`
	Offset    int    `json:"offset"`
	Old       string `json:"old,omitempty"`
	New       string `json:"new,omitempty"`
}

func diffCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	oldData, err := os.ReadFile(args[0])
	if err != nil {
		return withExitCode(ExitFatal, fmt.Errorf("failed to load %s: %w", args[0], err))
	}
	newData, err := os.ReadFile(args[1])
	if err != nil {
		return withExitCode(ExitFatal, fmt.Errorf("failed to load %s: %w", args[1], err))
	}

	presenter := cfg.Presenter()
	presenter.Color = useColor(cfg)
	if diffStepFlag > 0 {
		presenter.Step = diffStepFlag
	}
	if diffWindowFlag > 0 {
		presenter.Window = diffWindowFlag
	}

	identical := string(oldData) == string(newData)

	switch strings.ToLower(diffOutputFlag) {
	case "json":
		output := DiffJSONOutput{Identical: identical}
		if !identical {
			oldEx, newEx := presenter.Locate(string(oldData), string(newData))
			output.Offset = oldEx.Offset
			output.Old = oldEx.Text
			output.New = newEx.Text
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return err
		}
	case "console":
		outputDiffConsole(cmd, presenter, identical, string(oldData), string(newData))
	default:
		return withExitCode(ExitUsageError, fmt.Errorf("unknown output format %q", diffOutputFlag))
	}

	if !identical {
		return withExitCode(ExitMismatch, fmt.Errorf("files differ"))
	}
	return nil
}

func outputDiffConsole(cmd *cobra.Command, presenter *diff.Presenter, identical bool, oldText, newText string) {
	out := cmd.OutOrStdout()
	if identical {
		green := color.New(color.FgGreen).SprintFunc()
		if !presenter.Color {
			green = fmt.Sprint
		}
		fmt.Fprintf(out, "%s Files are identical\n", green("✓"))
		return
	}
	fmt.Fprintln(out, presenter.Present(oldText, newText))
}
