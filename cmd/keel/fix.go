package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"keel/internal/diag"
	"keel/internal/driver"
	"keel/internal/fix"
	"keel/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.kl|directory>",
	Short: "Apply rename suggestions from lint warnings",
	Long:  "Lower the target, collect the fixes attached to its diagnostics, and apply them in place.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every available fix instead of the first one")
	fixCmd.Flags().StringSlice("code", nil, "only apply fixes for these diagnostic codes")
	fixCmd.Flags().Bool("dry-run", false, "report fixes without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	target := args[0]
	applyAll, _ := cmd.Flags().GetBool("all")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	codeArgs, _ := cmd.Flags().GetStringSlice("code")

	opts := fix.Options{Mode: fix.ModeOnce, DryRun: dryRun}
	if applyAll {
		opts.Mode = fix.ModeAll
	}
	for _, raw := range codeArgs {
		code, ok := diag.ParseCode(raw)
		if !ok {
			return fmt.Errorf("unknown diagnostic code %q", raw)
		}
		opts.Codes = append(opts.Codes, code)
	}

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
	ctx := cmd.Context()
	driverOpts := driver.Options{
		MaxDiagnostics: s.maxDiags,
		Jobs:           s.jobs,
	}

	var (
		fs      *source.FileSet
		results []*driver.FileResult
	)
	if info.IsDir() {
		fs, results, err = driver.LowerDir(ctx, target, driverOpts)
	} else {
		var res *driver.FileResult
		fs, res, err = driver.LowerFile(ctx, target, driverOpts)
		results = []*driver.FileResult{res}
	}
	if err != nil {
		return err
	}

	var diagnostics []diag.Diagnostic
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.Err != nil {
			return res.Err
		}
		for _, d := range res.Bag.Items() {
			if !s.allow[d.Code] {
				diagnostics = append(diagnostics, d)
			}
		}
	}

	res, applyErr := fix.Apply(fs, diagnostics, opts)
	return printFixResult(cmd.OutOrStdout(), res, applyErr, dryRun)
}

func printFixResult(w io.Writer, res *fix.Result, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}
	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(w, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			fmt.Fprintf(w, "  %s: %s (%s)\n", item.Code.ID(), item.Title, item.Path)
		}
	}
	if len(res.Changes) > 0 && !dryRun {
		fmt.Fprintln(w, "Updated files:")
		for _, change := range res.Changes {
			fmt.Fprintf(w, "  %s (%d edits)\n", change.Path, change.Edits)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(w, "Skipped fixes:")
		for _, skip := range res.Skipped {
			fmt.Fprintf(w, "  %s: %s\n", skip.Title, skip.Reason)
		}
	}
	if errors.Is(applyErr, fix.ErrNoFixes) {
		fmt.Fprintln(w, "No applicable fixes found.")
		return nil
	}
	return applyErr
}
