package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aselbek/recommender/internal/config"
	"github.com/aselbek/recommender/internal/database"
	"github.com/aselbek/recommender/internal/database/repositories"
	"github.com/aselbek/recommender/internal/dataload"
	"github.com/aselbek/recommender/internal/pipeline"
	"github.com/aselbek/recommender/internal/report"
	"github.com/aselbek/recommender/internal/scheduler"
	"github.com/aselbek/recommender/pkg/logger"
)

func newRunCommand() *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one batch run over the input tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}

			if schedule == "" {
				return executeRun(settings)
			}

			// Recurring mode: run on the cron schedule until interrupted.
			log := logger.New(logger.Config{Level: settings.LogLevel, Pretty: true})
			sched := scheduler.New(log)
			job := scheduler.FuncJob{
				JobName: "recommendation_batch",
				Fn:      func() error { return executeRun(settings) },
			}
			if err := sched.AddJob(schedule, job); err != nil {
				return fmt.Errorf("registering schedule %q: %w", schedule, err)
			}
			sched.Start()
			defer sched.Stop()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule for recurring runs (e.g. \"0 6 * * *\")")

	return cmd
}

// executeRun performs one full batch: load, score, write artifacts, persist.
func executeRun(settings *config.Settings) error {
	runID := uuid.NewString()
	runDir := filepath.Join(settings.OutputDir, "run_"+time.Now().Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  settings.LogLevel,
		Pretty: true,
		File:   filepath.Join(runDir, "run.log.json"),
	})
	log = log.With().Str("run_id", runID).Logger()
	logger.SetGlobalLogger(log)

	log.Info().Str("event", "start").Msg("Recommendation analysis started")

	catalog := config.LoadCatalog(filepath.Join(settings.ConfigDir, "products.yml"), log)
	templates := config.LoadTemplates(filepath.Join(settings.ConfigDir, "pushes.yml"), log)
	weights := config.LoadScoringWeights(filepath.Join(settings.ConfigDir, "scoring_weights.yml"), log)

	log.Info().Str("input_dir", settings.InputDir).Msg("Loading data")
	tables, err := dataload.LoadAll(settings.InputDir, log)
	if err != nil {
		log.Error().Str("event", "data_load_failed").Err(err).Msg("Client data failed to load, halting run")
		return err
	}

	repo, historyDB := openRunRepository(settings.DatabasePath, log)
	if historyDB != nil {
		defer historyDB.Close()
	}
	if repo != nil {
		if err := repo.StartRun(runID, runDir, len(tables.Clients)); err != nil {
			log.Warn().Err(err).Msg("Could not record run start")
		}
	}

	seed := settings.PushSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	svc := pipeline.NewService(pipeline.Config{
		Catalog:   catalog,
		Weights:   weights,
		Templates: templates,
		PushSeed:  seed,
		Workers:   settings.Workers,
		Log:       log,
	})

	result, err := svc.Run(tables)
	if err != nil {
		finishRun(repo, runID, "failed", 0, 0, log)
		log.Error().Str("event", "failed").Err(err).Msg("Recommendation generation failed")
		return err
	}

	if len(result.Recommendations) == 0 {
		finishRun(repo, runID, "empty", len(result.Offers), 0, log)
		log.Warn().Str("event", "no_recs_generated").Msg("No recommendations were generated")
		return nil
	}
	log.Info().Int("count", len(result.Recommendations)).Msg("Generated final recommendations")

	finalPath := filepath.Join(runDir, "recommendations_final.csv")
	analysisPath := filepath.Join(runDir, "recommendations_full_analysis.csv")

	if err := report.WriteRecommendations(finalPath, result.Recommendations); err != nil {
		finishRun(repo, runID, "failed", len(result.Offers), len(result.Recommendations), log)
		return fmt.Errorf("writing recommendations: %w", err)
	}
	if err := report.WriteAnalysis(analysisPath, result.Offers); err != nil {
		finishRun(repo, runID, "failed", len(result.Offers), len(result.Recommendations), log)
		return fmt.Errorf("writing analysis: %w", err)
	}

	if repo != nil {
		if err := repo.SaveRecommendations(runID, result.Recommendations); err != nil {
			log.Warn().Err(err).Msg("Could not persist recommendations")
		}
	}
	finishRun(repo, runID, "ok", len(result.Offers), len(result.Recommendations), log)

	log.Info().
		Str("event", "finish").
		Str("final_file", finalPath).
		Str("analysis_file", analysisPath).
		Msg("Analysis finished successfully")
	return nil
}

// openRunRepository opens the run-history store. Persistence is auxiliary:
// any failure degrades to running without history, never failing the batch.
// The caller closes the returned database once the run is done.
func openRunRepository(path string, log zerolog.Logger) (*repositories.RunRepository, *database.DB) {
	if path == "" {
		return nil, nil
	}
	db, err := database.New(path)
	if err != nil {
		log.Warn().Err(err).Msg("Run-history database unavailable, continuing without persistence")
		return nil, nil
	}
	if err := db.Migrate(); err != nil {
		log.Warn().Err(err).Msg("Run-history migration failed, continuing without persistence")
		db.Close()
		return nil, nil
	}
	return repositories.NewRunRepository(db.Conn(), log), db
}

func finishRun(repo *repositories.RunRepository, runID, status string, offers, recs int, log zerolog.Logger) {
	if repo == nil {
		return
	}
	if err := repo.FinishRun(runID, status, offers, recs); err != nil {
		log.Warn().Err(err).Msg("Could not record run completion")
	}
}
