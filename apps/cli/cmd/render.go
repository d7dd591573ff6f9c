package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/snapmatch/packages/template"
	"github.com/spf13/cobra"
)

var (
	renderTemplateFlag string
	renderLabelFlag    string
)

var renderCmd = &cobra.Command{
	Use:   "render <content-file>",
	Short: "Print content as it would be stored in a snapshot",
	Long: `Apply a template to a content file and print the result.

Examples:
  snapmatch render out/card.html --template html --label "Card"
  snapmatch render response.json --template json`,
	Args: cobra.ExactArgs(1),
	RunE: renderCommand,
}

func init() {
	renderCmd.Flags().StringVarP(&renderTemplateFlag, "template", "t", "html", "Template: none, html, json")
	renderCmd.Flags().StringVar(&renderLabelFlag, "label", "", "Heading used by the html template (default: file name)")
}

func renderCommand(cmd *cobra.Command, args []string) error {
	kind, err := template.ParseKind(renderTemplateFlag)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return withExitCode(ExitFatal, fmt.Errorf("failed to load %s: %w", args[0], err))
	}

	label := renderLabelFlag
	if label == "" {
		label = filepath.Base(args[0])
	}

	out, err := template.Render(string(data), kind, label)
	if err != nil {
		return withExitCode(ExitFatal, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
