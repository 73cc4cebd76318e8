package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aselbek/recommender/internal/domain"
)

// Run is one recorded batch execution
type Run struct {
	ID                  string
	StartedAt           time.Time
	FinishedAt          *time.Time
	Status              string
	ClientCount         int
	OfferCount          int
	RecommendationCount int
	OutputDir           string
}

// RunRepository persists batch runs and their recommendations
type RunRepository struct {
	*BaseRepository
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB, log zerolog.Logger) *RunRepository {
	return &RunRepository{
		BaseRepository: NewBase(db, log.With().Str("repo", "runs").Logger()),
	}
}

// StartRun records the beginning of a batch run
func (r *RunRepository) StartRun(id, outputDir string, clientCount int) error {
	_, err := r.db.Exec(
		`INSERT INTO runs (id, started_at, status, client_count, output_dir)
		 VALUES (?, ?, 'running', ?, ?)`,
		id, time.Now().UTC(), clientCount, outputDir,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", id, err)
	}
	return nil
}

// FinishRun records the outcome of a batch run
func (r *RunRepository) FinishRun(id, status string, offerCount, recCount int) error {
	_, err := r.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ?, offer_count = ?, recommendation_count = ?
		 WHERE id = ?`,
		time.Now().UTC(), status, offerCount, recCount, id,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", id, err)
	}
	return nil
}

// SaveRecommendations stores every recommendation of a run in one transaction
func (r *RunRepository) SaveRecommendations(runID string, recs []domain.Recommendation) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO recommendations (run_id, client_code, product_name, benefit, push_text)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.Exec(runID, rec.ClientCode, rec.ProductName, rec.Benefit, rec.PushText); err != nil {
			return fmt.Errorf("inserting recommendation for %s: %w", rec.ClientCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing recommendations: %w", err)
	}

	r.log.Debug().Str("run_id", runID).Int("count", len(recs)).Msg("Recommendations persisted")
	return nil
}

// LatestRuns returns the most recent runs, newest first
func (r *RunRepository) LatestRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, finished_at, status, client_count, offer_count, recommendation_count, output_dir
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var finished sql.NullTime
		var outputDir sql.NullString
		if err := rows.Scan(&run.ID, &run.StartedAt, &finished, &run.Status,
			&run.ClientCount, &run.OfferCount, &run.RecommendationCount, &outputDir); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		run.OutputDir = outputDir.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
