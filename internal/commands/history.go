package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aselbek/recommender/internal/config"
	"github.com/aselbek/recommender/internal/database"
	"github.com/aselbek/recommender/internal/database/repositories"
	"github.com/aselbek/recommender/pkg/logger"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			if settings.DatabasePath == "" {
				return fmt.Errorf("DATABASE_PATH is empty, run history is disabled")
			}

			db, err := database.New(settings.DatabasePath)
			if err != nil {
				return fmt.Errorf("opening run history: %w", err)
			}
			defer db.Close()
			if err := db.Migrate(); err != nil {
				return fmt.Errorf("preparing run history: %w", err)
			}

			log := logger.New(logger.Config{Level: settings.LogLevel, Pretty: true})
			repo := repositories.NewRunRepository(db.Conn(), log)

			runs, err := repo.LatestRuns(limit)
			if err != nil {
				return fmt.Errorf("reading run history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN ID\tSTARTED\tFINISHED\tSTATUS\tCLIENTS\tOFFERS\tRECS\tOUTPUT")
			for _, run := range runs {
				finished := "-"
				if run.FinishedAt != nil {
					finished = run.FinishedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					run.ID,
					run.StartedAt.Format("2006-01-02 15:04:05"),
					finished,
					run.Status,
					run.ClientCount,
					run.OfferCount,
					run.RecommendationCount,
					run.OutputDir,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "how many runs to show")

	return cmd
}
