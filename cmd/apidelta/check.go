package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"apidelta/internal/breaking"
	apierrors "apidelta/internal/errors"
	"apidelta/internal/report"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		in             inputFlags
		format         string
		breakingOnly   bool
		currentVersion string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Classify API changes between two baselines",
		Long: `Compare two baselines and classify every change as compatible or
incompatible for existing clients.

Exits with status 1 when any incompatible change is found, so the command
can gate a release in CI.

Examples:
  apidelta check --baseline v1.yaml --profile v2.yaml
  apidelta check --baseline v1.yaml --profile v2.yaml --format=json
  apidelta check --baseline v1.yaml --profile v2.yaml --breaking-only
  apidelta check --baseline v1.yaml --profile v2.yaml --current-version 1.4.2
  apidelta check --baseline v1.yaml --profile v2.yaml --component acme.core`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.validate(); err != nil {
				return err
			}
			ctx := cmd.Context()

			c, err := a.compare(ctx, &in)
			if err != nil {
				return err
			}
			if c.result.IsFailed() {
				if rerr := a.record(ctx, c, nil, 0); rerr != nil {
					a.logger.Warn("Could not record failed run", "error", rerr)
				}
				return apierrors.New(apierrors.ComparisonFailed, "comparison failed", c.result.Err())
			}

			tree := c.result.Delta()
			result := breaking.NewAnalyzer(a.logger).Analyze(tree, breaking.Options{
				BaseRef:        c.reference.Name(),
				TargetRef:      c.profile.Name(),
				IncludeMinor:   !breakingOnly,
				CurrentVersion: currentVersion,
			})

			if !cmd.Flags().Changed("format") {
				format = a.cfg.Output.Format
			}
			out := cmd.OutOrStdout()
			switch OutputFormat(format) {
			case FormatXML:
				if err := report.WriteXML(out, tree); err != nil {
					return err
				}
			default:
				text, err := FormatResult(result, OutputFormat(format))
				if err != nil {
					return usageError("%v", err)
				}
				fmt.Fprintln(out, text)
			}

			var xmlReport []byte
			if !tree.IsEmpty() {
				var buf bytes.Buffer
				if err := report.WriteXML(&buf, tree); err != nil {
					return err
				}
				xmlReport = buf.Bytes()
			}
			if err := a.record(ctx, c, xmlReport, result.Summary.BreakingChanges); err != nil {
				return err
			}

			if result.HasBreakingChanges() {
				return &exitError{code: exitBreaking}
			}
			return nil
		},
	}

	in.register(cmd.Flags())
	cmd.Flags().StringVar(&format, "format", "human", "Output format (human, json, xml)")
	cmd.Flags().BoolVar(&breakingOnly, "breaking-only", false, "List only incompatible changes")
	cmd.Flags().StringVar(&currentVersion, "current-version", "", "Version the suggested bump applies to")
	return cmd
}
