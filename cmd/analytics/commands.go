package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/just-nibble/repo-analytics/internal/http/dtos"
	"github.com/just-nibble/repo-analytics/pkg/validator"
)

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.Close()

			log.Info().Msg("schema is up to date")
			return nil
		},
	}
}

func syncCmd(envFile *string) *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "sync owner/name",
		Short: "Ingest a repository from GitHub and wait for it to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := validator.SplitRepository(args[0])
			if err != nil {
				return err
			}
			sinceDate, err := dtos.ParseDate(since, time.Time{})
			if err != nil {
				return fmt.Errorf("--since: %w", err)
			}

			a, err := newApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.Close()

			repo, err := a.sync.SyncRepository(cmd.Context(), owner, name, sinceDate)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), repo)
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "Only ingest activity from this date, YYYY-MM-DD")

	return cmd
}

func aggregateCmd(envFile *string) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "aggregate owner/name",
		Short: "Compute developer contributions for an inclusive date window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := validator.SplitRepository(args[0])
			if err != nil {
				return err
			}
			startDate, err := time.Parse(dtos.DateLayout, start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endDate, err := time.Parse(dtos.DateLayout, end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			a, err := newApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.Close()

			repo, err := a.query.GetRepository(cmd.Context(), owner, name)
			if err != nil {
				return err
			}
			period, rows, err := a.aggregation.AggregatePeriod(cmd.Context(), repo.ID, startDate, endDate)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dtos.PeriodResponse{Period: *period, Contributions: rows})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "Last day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func snapshotCmd(envFile *string) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "snapshot [owner/name]",
		Short: "Record repository counts for a day, for every repository when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dtos.ParseDate(date, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}

			a, err := newApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				stats, err := a.snapshot.SnapshotAll(cmd.Context(), day)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stats)
			}

			return snapshotOne(cmd.Context(), a, args[0], day, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Snapshot date, YYYY-MM-DD (default: today)")

	return cmd
}

func snapshotOne(ctx context.Context, a *app, fullName string, day time.Time, w io.Writer) error {
	owner, name, err := validator.SplitRepository(fullName)
	if err != nil {
		return err
	}
	repo, err := a.query.GetRepository(ctx, owner, name)
	if err != nil {
		return err
	}
	stat, err := a.snapshot.TakeSnapshot(ctx, repo.ID, day)
	if err != nil {
		return err
	}
	return printJSON(w, stat)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
