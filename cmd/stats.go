package main

import (
	"context"

	"github.com/desertthunder/spoolr/internal/formatter"
	"github.com/desertthunder/spoolr/internal/tasks"
	"github.com/urfave/cli/v3"
)

type leaderboards struct {
	Filaments []tasks.LeaderboardEntry `json:"filaments"`
	Printers  []tasks.LeaderboardEntry `json:"printers"`
}

// StatsShow prints the most used filaments and printers.
func (r *Runner) StatsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.authorize(cmd); err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.Stats.TopN
	}

	catalog, stats := r.store.Catalog(), r.store.Statistics()
	boards := leaderboards{
		Filaments: tasks.TopFilaments(catalog, stats, limit),
		Printers:  tasks.TopPrinters(catalog, stats, limit),
	}

	if cmd.Bool("json") {
		return r.writeJSON(boards, true)
	}

	r.writePlainHeader("Usage statistics")
	r.writePlain("%s\n", formatter.FormatLeaderboard("Most used filaments", boards.Filaments))
	return r.writePlain("%s", formatter.FormatLeaderboard("Most used printers", boards.Printers))
}

// StatsReset clears all usage counters.
func (r *Runner) StatsReset(ctx context.Context, cmd *cli.Command) error {
	if err := r.authorize(cmd); err != nil {
		return err
	}

	if err := r.store.ResetStatistics(); err != nil {
		return err
	}

	r.logger.Info("statistics reset", "by", cmd.String("as"))
	return r.writePlain("✓ Usage statistics reset\n")
}
