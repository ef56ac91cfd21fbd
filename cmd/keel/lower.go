package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"keel/internal/diag"
	"keel/internal/diagfmt"
	"keel/internal/driver"
	"keel/internal/project"
	"keel/internal/source"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <file.kl|dir>",
	Short: "Lower trait and function declarations and report diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runLower,
}

func init() {
	flags := lowerCmd.Flags()
	flags.String("format", "pretty", "output format (pretty|short|json|tree|none)")
	flags.Int("jobs", 0, "files lowered in parallel (0 = GOMAXPROCS)")
	flags.Bool("cache", false, "reuse lowering results cached under $XDG_CACHE_HOME/keel")
	flags.String("ui", "off", "progress view for directories (auto|on|off)")
	flags.Bool("deny-warnings", false, "exit with failure when warnings are reported")
	flags.Bool("timings", false, "print per-pass timings to stderr")
	flags.String("path-mode", "auto", "diagnostic paths (auto|absolute|relative|basename)")
}

// lowerSettings is keel.toml overlaid with explicitly set flags.
type lowerSettings struct {
	format       string
	pathMode     diagfmt.PathMode
	jobs         int
	cache        bool
	denyWarnings bool
	maxDiags     int
	allow        map[diag.Code]bool
	timings      bool
	quiet        bool
	ui           uiMode
}

func loadConfig(cmd *cobra.Command, target string) (project.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	if path != "" {
		return project.Load(path)
	}
	return project.Discover(target)
}

func resolveLowerSettings(cmd *cobra.Command, cfg project.Config) (lowerSettings, error) {
	flags := cmd.Flags()
	s := lowerSettings{
		format:       cfg.Diagnostics.Format,
		jobs:         cfg.Lower.Jobs,
		cache:        cfg.Lower.Cache,
		denyWarnings: cfg.Diagnostics.DenyWarnings,
		maxDiags:     cfg.Diagnostics.Max,
	}
	pathMode := cfg.Diagnostics.PathMode
	if flags.Changed("format") {
		s.format, _ = flags.GetString("format")
	}
	if flags.Changed("jobs") {
		s.jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("cache") {
		s.cache, _ = flags.GetBool("cache")
	}
	if flags.Changed("deny-warnings") {
		s.denyWarnings, _ = flags.GetBool("deny-warnings")
	}
	if flags.Changed("path-mode") {
		pathMode, _ = flags.GetString("path-mode")
	}
	if cmd.Flags().Changed("max-diagnostics") {
		s.maxDiags, _ = cmd.Flags().GetInt("max-diagnostics")
	}
	s.timings, _ = flags.GetBool("timings")
	s.quiet, _ = cmd.Flags().GetBool("quiet")

	switch s.format {
	case "pretty", "short", "json", "tree", "none":
	default:
		return s, fmt.Errorf("unknown format %q (expected pretty|short|json|tree|none)", s.format)
	}
	var err error
	if s.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return s, err
	}
	if s.allow, err = cfg.Diagnostics.AllowSet(); err != nil {
		return s, err
	}
	uiValue, _ := flags.GetString("ui")
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	return s, nil
}

func runLower(cmd *cobra.Command, args []string) error {
	target := args[0]
	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return reportConfigError(cmd, err)
	}
	s, err := resolveLowerSettings(cmd, cfg)
	if err != nil {
		return err
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	opts := driver.Options{
		MaxDiagnostics: s.maxDiags,
		Jobs:           s.jobs,
		Timings:        s.timings,
	}
	if s.cache {
		if opts.Cache, err = driver.OpenDiskCache("keel"); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	ctx := cmd.Context()
	var (
		fs      *source.FileSet
		results []*driver.FileResult
	)
	switch {
	case !info.IsDir():
		var res *driver.FileResult
		fs, res, err = driver.LowerFile(ctx, target, opts)
		results = []*driver.FileResult{res}
	case shouldUseTUI(s.ui) && s.format != "json":
		fs, results, err = lowerDirWithUI(ctx, target, opts)
	default:
		fs, results, err = driver.LowerDir(ctx, target, opts)
	}
	if err != nil {
		return err
	}
	// relative paths are shown from the project root when there is one
	if root, ok, rootErr := project.FindProjectRoot(target); rootErr == nil && ok {
		fs.SetBaseDir(root)
	}
	return report(cmd, fs, results, s)
}

// report renders results and turns them into the exit status. The allow
// list only hides diagnostics here; results keep all of them.
func report(cmd *cobra.Command, fs *source.FileSet, results []*driver.FileResult, s lowerSettings) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	colored := useColor(cmd, os.Stdout)

	all := diag.NewBag(0)
	internalFailure := false
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.Err != nil {
			internalFailure = true
			fmt.Fprintf(stderr, "keel: %v\n", res.Err)
		}
		res.Bag.Filter(func(d diag.Diagnostic) bool { return !s.allow[d.Code] })
		res.Bag.Sort()
		all.Merge(res.Bag)
	}
	if internalFailure {
		dumpTraceRing(cmd)
	}

	switch s.format {
	case "pretty":
		diagfmt.Pretty(stdout, all, fs, diagfmt.PrettyOpts{Color: colored, PathMode: s.pathMode, ShowNotes: true, ShowFixes: true})
	case "short":
		diagfmt.Short(stdout, all, fs, diagfmt.ShortOpts{PathMode: s.pathMode, IncludeNotes: true})
	case "json":
		if err := diagfmt.JSON(stdout, all, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
		}); err != nil {
			return err
		}
	case "tree":
		for _, res := range results {
			if res == nil || res.Module == nil {
				continue
			}
			if err := diagfmt.FormatModuleTree(stdout, res.Module, fs, s.pathMode); err != nil {
				return err
			}
		}
		diagfmt.Pretty(stderr, all, fs, diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), PathMode: s.pathMode, ShowNotes: true})
	}

	// omitted diagnostics still decide the exit status
	errs, warns := all.Total(diag.SevError), all.Total(diag.SevWarning)
	if !s.quiet && s.format != "json" {
		if n := all.OmittedTotal(); n > 0 {
			fmt.Fprintf(stderr, "%d diagnostic(s) omitted (limit %d per file)\n", n, s.maxDiags)
		}
		diagfmt.Summary(stderr, errs, warns, useColor(cmd, os.Stderr))
	}
	if s.timings && !s.quiet {
		writeTimings(stderr, results)
	}

	switch {
	case internalFailure:
		return exitError{code: 2}
	case errs > 0, s.denyWarnings && warns > 0:
		return exitError{code: 1}
	}
	return nil
}

func writeTimings(w io.Writer, results []*driver.FileResult) {
	for _, res := range results {
		if res != nil && res.Timing != nil {
			fmt.Fprint(w, res.Timing.Summary("timings ("+res.Path+")"))
		}
	}
	if len(results) > 1 {
		fmt.Fprint(w, driver.RunTimings(results).Summary("timings (total)"))
	}
}

// reportConfigError renders an invalid keel.toml like any other diagnostic.
func reportConfigError(cmd *cobra.Command, err error) error {
	if !errors.Is(err, project.ErrInvalidConfig) {
		return err
	}
	bag := diag.NewBag(0)
	bag.Add(project.ConfigDiagnostic(project.ConfigFileName, err))
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, source.NewFileSet(), diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr)})
	return exitError{code: 2}
}
