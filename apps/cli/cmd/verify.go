package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/snapmatch/packages/core/config"
	"github.com/abdul-hamid-achik/snapmatch/packages/matcher"
	"github.com/abdul-hamid-achik/snapmatch/packages/output"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	verifyTemplateFlag    string
	verifyUpdateFlag      bool
	verifyConcurrencyFlag int
	verifyBailFlag        bool
	verifyOutputFlag      string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <content-file>=<target>...",
	Short: "Match many content files against their snapshots",
	Long: `Match several content files against named snapshots concurrently.

Every pair must name a distinct snapshot; two pairs writing the same
snapshot race with each other.

Examples:
  snapmatch verify out/a.html=a out/b.html=b --template html
  snapmatch verify report.txt=fixtures/report log.txt=fixtures/log --bail
  snapmatch verify a.txt=a b.txt=b --output junit > snapshots.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: verifyCommand,
}

func init() {
	addMatchFlags(verifyCmd, &verifyTemplateFlag, &verifyUpdateFlag)
	verifyCmd.Flags().IntVarP(&verifyConcurrencyFlag, "concurrency", "j", 0, "Number of concurrent matches (default from config)")
	verifyCmd.Flags().BoolVar(&verifyBailFlag, "bail", false, "Stop starting new matches after the first failure")
	verifyCmd.Flags().StringVarP(&verifyOutputFlag, "output", "o", "console", "Output format: console, json, junit, tap")
}

type verifyPair struct {
	contentFile string
	target      string
}

func parsePairs(args []string) ([]verifyPair, error) {
	pairs := make([]verifyPair, 0, len(args))
	seen := make(map[string]bool)
	for _, arg := range args {
		contentFile, target, ok := strings.Cut(arg, "=")
		if !ok || contentFile == "" || target == "" {
			return nil, fmt.Errorf("invalid pair %q, expected <content-file>=<target>", arg)
		}
		if seen[target] {
			return nil, fmt.Errorf("target %q given more than once", target)
		}
		seen[target] = true
		pairs = append(pairs, verifyPair{contentFile: contentFile, target: target})
	}
	return pairs, nil
}

// runPairs matches every pair with at most concurrency matches in flight.
// With bail set, pairs not yet started after the first failure are skipped.
// Matches already running finish under ctx rather than the group context, so
// a bail-out does not turn them into fatal results.
func runPairs(ctx context.Context, pairs []verifyPair, concurrency int, bail bool, match func(context.Context, verifyPair) *matcher.Result) []output.Entry {
	entries := make([]output.Entry, len(pairs))
	for i, p := range pairs {
		entries[i] = output.Entry{Target: p.target, ContentFile: p.contentFile}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			// skip remaining work once a bail-out was triggered
			if gctx.Err() != nil {
				return nil //nolint:nilerr // this value doesn't matter to errgroup.Wait()
			}
			began := time.Now()
			r := match(ctx, p)
			entries[i].Result = r
			entries[i].Duration = time.Since(began)
			if bail && !r.Pass {
				return resultError(r)
			}
			return nil
		})
	}
	_ = g.Wait()
	return entries
}

func verifyCommand(cmd *cobra.Command, args []string) error {
	pairs, err := parsePairs(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	cfg, kind, err := matchSetup(cmd, verifyTemplateFlag, verifyUpdateFlag)
	if err != nil {
		return err
	}
	concurrency := cfg.Concurrency
	if verifyConcurrencyFlag > 0 {
		concurrency = verifyConcurrencyFlag
	}

	formatter, err := output.NewFormatter(verifyOutputFlag, cmd.OutOrStdout(), useColor(cfg))
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	// machine-readable reports carry plain diff messages
	if _, console := formatter.(*output.ConsoleFormatter); !console {
		cfg = cfg.Merge(&config.Config{NoColor: config.BoolPtr(true)})
	}

	m := newMatcher(cmd, cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	entries := runPairs(ctx, pairs, concurrency, verifyBailFlag, func(ctx context.Context, p verifyPair) *matcher.Result {
		return matchFile(ctx, m, p.contentFile, p.target, kind, "")
	})

	var fatal, failed int
	for _, e := range entries {
		formatter.FormatEntry(e)
		switch e.Status() {
		case output.StatusFatal:
			fatal++
		case output.StatusFailed:
			failed++
		}
	}
	if err := formatter.Flush(time.Since(start)); err != nil {
		return withExitCode(ExitFatal, err)
	}

	switch {
	case fatal > 0:
		return withExitCode(ExitFatal, fmt.Errorf("%d snapshot(s) could not be matched", fatal))
	case failed > 0:
		return withExitCode(ExitMismatch, fmt.Errorf("%d snapshot(s) did not match", failed))
	}
	return nil
}
