package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apierrors "apidelta/internal/errors"
	"apidelta/internal/storage"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded comparison runs",
		Long: `List comparison runs recorded with --record or storage.enabled, newest
first.

Examples:
  apidelta history
  apidelta history --limit 5
  apidelta history show <run-id> --output delta.xml
  apidelta history prune --keep 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := storage.NewRunRepository(db).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tREFERENCE\tPROFILE\tSTATE\tLEAVES\tBREAKING")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
					r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					r.ReferenceName, r.ProfileName, r.State, r.Leaves, r.Breaking)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")

	cmd.AddCommand(newHistoryShowCmd(a), newHistoryDeleteCmd(a), newHistoryPruneCmd(a))
	return cmd
}

func newHistoryShowCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the stored report of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := storage.NewRunRepository(db).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return apierrors.Newf(apierrors.StorageFailed, "run %s not found", args[0])
			}

			if run.Error != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Run %s failed: %s\n", run.ID, run.Error)
			}
			if len(run.Report) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Run %s has no report (%s)\n", run.ID, run.State)
				return nil
			}
			if output != "" {
				return os.WriteFile(output, run.Report, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(run.Report)
			return err
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Write the report to this file instead of stdout")
	return cmd
}

func newHistoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := storage.NewRunRepository(db).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}

func newHistoryPruneCmd(a *app) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 0 {
				return usageError("--keep must not be negative")
			}
			db, err := a.openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := storage.NewRunRepository(db).Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 20, "Number of runs to keep")
	return cmd
}
