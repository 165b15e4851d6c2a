package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gridpull/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var failuresFor string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent acquisition runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg.Paths.JournalPath)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if failuresFor != "" {
				failed, err := store.FailedResults(failuresFor)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(failed))
				for _, result := range failed {
					rows = append(rows, []string{
						result.Task.Key(),
						result.ErrorKind.String(),
						strconv.Itoa(result.Attempts),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Task", "Classification", "Attempts"}, rows))
				return nil
			}

			runs, err := store.RecentRuns(limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := "-"
				if !run.FinishedAt.IsZero() {
					finished = run.FinishedAt.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format(time.DateTime),
					finished,
					strconv.Itoa(run.Succeeded),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Failed),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Finished", "Succeeded", "Skipped", "Failed"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	cmd.Flags().StringVar(&failuresFor, "failures", "", "Show failed tasks for the given run id")

	return cmd
}
