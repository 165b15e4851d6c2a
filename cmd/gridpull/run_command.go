package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"gridpull/internal/acquire"
	"gridpull/internal/artifact"
	"gridpull/internal/config"
	"gridpull/internal/journal"
	"gridpull/internal/logging"
	"gridpull/internal/nsrdb"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipFailed bool
	var workers int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Acquire every grid point that is not already on disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			creds, err := config.LoadCredentials()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				LogFile: filepath.Join(cfg.Paths.LogDir, "gridpull.log"),
			})
			if err != nil {
				return err
			}

			store, err := journal.Open(cfg.Paths.JournalPath)
			if err != nil {
				return err
			}
			defer store.Close()

			fetcher := nsrdb.NewClient(nsrdb.Config{
				BaseURL:        cfg.Request.BaseURL,
				TimeoutSeconds: cfg.Request.TimeoutSeconds,
				Credentials: nsrdb.Credentials{
					APIKey:      creds.APIKey,
					Email:       creds.Email,
					FullName:    creds.FullName,
					Affiliation: creds.Affiliation,
					Reason:      creds.Reason,
				},
			})

			params := acquire.Params{
				Grid:       gridSpec(cfg),
				Request:    fetchRequest(cfg),
				Fetcher:    fetcher,
				Layout:     artifact.Layout{Root: cfg.Paths.OutDir},
				Limiter:    rateLimiter(cfg),
				Policy:     retryPolicy(cfg),
				Workers:    cfg.Acquire.Workers,
				SkipFailed: cfg.Resume.SkipFailed || skipFailed,
				Recorder:   store,
				Logger:     logger,
			}
			if workers > 0 {
				params.Workers = workers
			}

			progress := newProgressReporter(cmd.OutOrStdout(), params.Grid.Count())
			params.Progress = progress.observe

			orch, err := acquire.New(params)
			if err != nil {
				return err
			}

			summary, runErr := orch.Run(cmd.Context())
			progress.finish()

			fmt.Fprintln(cmd.OutOrStdout(), renderSummaryTable(summary))
			if runErr != nil {
				return runErr
			}
			if summary.HasFailures() {
				return fmt.Errorf("%d of %d tasks failed; see .err.txt markers under %s",
					summary.Failed, summary.Total(), cfg.Paths.OutDir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipFailed, "skip-failed", false, "Leave tasks with error markers alone instead of retrying them")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override the configured worker count")

	return cmd
}
