package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/snapmatch/packages/core/config"
	"github.com/abdul-hamid-achik/snapmatch/packages/matcher"
	"github.com/abdul-hamid-achik/snapmatch/packages/output"
	"github.com/abdul-hamid-achik/snapmatch/packages/snapshot"
	"github.com/abdul-hamid-achik/snapmatch/packages/template"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	checkTemplateFlag string
	checkUpdateFlag   bool
	checkLabelFlag    string
)

var checkCmd = &cobra.Command{
	Use:   "check <content-file> <target>",
	Short: "Match a content file against a named snapshot",
	Long: `Match the content of a file against a named snapshot.

On the first run the snapshot is created. Later runs compare the content
with the stored snapshot and print the first difference. A target without
a directory is stored next to the content file.

Examples:
  snapmatch check out/page.html page --template html
  snapmatch check report.txt fixtures/report
  snapmatch check report.txt fixtures/report --update`,
	Args: cobra.ExactArgs(2),
	RunE: checkCommand,
}

func init() {
	addMatchFlags(checkCmd, &checkTemplateFlag, &checkUpdateFlag)
	checkCmd.Flags().StringVar(&checkLabelFlag, "label", "", "Heading used by the html template (default: target name)")
}

func addMatchFlags(cmd *cobra.Command, tmpl *string, update *bool) {
	cmd.Flags().StringVarP(tmpl, "template", "t", "none", "Template: none, html, json")
	cmd.Flags().BoolVarP(update, "update", "u", false, "Overwrite existing snapshots")
}

func checkCommand(cmd *cobra.Command, args []string) error {
	cfg, kind, err := matchSetup(cmd, checkTemplateFlag, checkUpdateFlag)
	if err != nil {
		return err
	}

	m := newMatcher(cmd, cfg)
	result := matchFile(cmd.Context(), m, args[0], args[1], kind, checkLabelFlag)
	printResult(cmd.OutOrStdout(), cfg, args[1], result)
	return resultError(result)
}

func matchSetup(cmd *cobra.Command, tmpl string, update bool) (*config.Config, template.Kind, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, template.None, err
	}
	kind, err := template.ParseKind(tmpl)
	if err != nil {
		return nil, template.None, withExitCode(ExitUsageError, err)
	}
	if update {
		cfg = cfg.Merge(&config.Config{Update: config.BoolPtr(true)})
	}
	return cfg, kind, nil
}

func newMatcher(cmd *cobra.Command, cfg *config.Config) *matcher.Matcher {
	log := newLogger(cmd, cfg)
	presenter := cfg.Presenter()
	presenter.Color = useColor(cfg)

	return matcher.New(
		snapshot.NewStore(snapshot.WithLogger(log)),
		presenter,
		matcher.WithUpdateMode(cfg.UpdateMode()),
		matcher.WithLogger(log),
	)
}

// matchFile matches the content of contentFile against target. Targets
// without a directory resolve next to contentFile.
func matchFile(ctx context.Context, m *matcher.Matcher, contentFile, target string, kind template.Kind, label string) *matcher.Result {
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(contentFile)
	if err != nil {
		r := matcher.NewResult(false, func() string {
			return fmt.Sprintf("FATAL: cannot read content file: %v", err)
		})
		r.Err = err
		return r
	}

	if label == "" {
		label = target
	}
	return m.Match(ctx, matcher.Request{
		Content:  string(data),
		Target:   target,
		Template: kind,
		Label:    label,
		TestFile: contentFile,
	})
}

// useColor reports whether CLI output is colored. Color is on for terminals
// unless disabled by flag or config.
func useColor(cfg *config.Config) bool {
	if color.NoColor {
		return false
	}
	return cfg.NoColor == nil || !*cfg.NoColor
}

func printResult(w io.Writer, cfg *config.Config, target string, result *matcher.Result) {
	f := output.NewConsoleFormatter(output.WithWriter(w), output.WithColor(useColor(cfg)))
	f.FormatEntry(output.Entry{Target: target, Result: result})
	_ = f.Flush(0)
}

func resultError(result *matcher.Result) error {
	if result.Err != nil {
		return withExitCode(ExitFatal, result.Err)
	}
	if !result.Pass {
		return withExitCode(ExitMismatch, errors.New("snapshot mismatch"))
	}
	return nil
}
