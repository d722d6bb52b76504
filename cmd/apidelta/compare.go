package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"apidelta/internal/compat"
	"apidelta/internal/delta"
	apierrors "apidelta/internal/errors"
	"apidelta/internal/report"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		output onceString
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two baselines and write the delta tree",
		Long: `Compare a profile baseline against a reference baseline and write the
resulting delta tree. Nothing is written when the baselines have the same API.

The report is XML unless the output path ends in .json.

Examples:
  apidelta compare --baseline v1.yaml --profile v2.yaml --output delta.xml
  apidelta compare --baseline v1.toml --profile v2.toml --output delta.json --record
  apidelta compare --baseline v1.yaml --profile v2.yaml --output delta.xml --options ci.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.validate(); err != nil {
				return err
			}
			if err := required("output", &output); err != nil {
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
			var xmlReport []byte
			if !tree.IsEmpty() {
				if xmlReport, err = report.MarshalXML(tree); err != nil {
					return err
				}
				if err := writeReport(output.value, tree, xmlReport); err != nil {
					return err
				}
				a.logger.Info("Wrote delta", "path", output.value, "leaves", len(delta.Leaves(tree)))
			} else {
				a.logger.Info("No API changes", "reference", c.reference.Name(), "profile", c.profile.Name())
			}

			return a.record(ctx, c, xmlReport, len(compat.Incompatible(tree)))
		},
	}

	in.register(cmd.Flags())
	cmd.Flags().Var(&output, "output", "File the delta tree is written to")
	return cmd
}

// writeReport writes tree to path, as JSON when the extension asks for it.
func writeReport(path string, tree *delta.Delta, xmlReport []byte) error {
	data := xmlReport
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var buf bytes.Buffer
		if err := report.WriteJSON(&buf, tree); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
