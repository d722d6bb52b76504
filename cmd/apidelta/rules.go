package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"apidelta/internal/compat"
	"apidelta/internal/delta"
)

func newRulesCmd() *cobra.Command {
	var element string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the compatibility rules",
		Long: `List the rule table used to classify changes. Each rule names the
element type, change kind and flag it applies to. Changes without a rule
are compatible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter delta.ElementType
			if element != "" {
				found := false
				for _, et := range delta.ElementTypes() {
					if strings.EqualFold(et.String(), element) {
						filter, found = et, true
						break
					}
				}
				if !found {
					return usageError("unknown element type %q", element)
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ELEMENT\tKIND\tFLAG\tDESCRIPTION")
			n := 0
			for _, r := range compat.Rules() {
				if element != "" && r.Element != filter {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Element, r.Kind, r.Flag, r.Description)
				n++
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d rules\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&element, "element", "", "Only list rules for this element type")
	return cmd
}
