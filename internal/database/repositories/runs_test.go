package repositories

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aselbek/recommender/internal/database"
	"github.com/aselbek/recommender/internal/domain"
)

func testRepo(t *testing.T) *RunRepository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return NewRunRepository(db.Conn(), zerolog.Nop())
}

func TestRunLifecycle(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.StartRun("run-1", "/tmp/out/run_1", 4))

	recs := []domain.Recommendation{
		{ClientCode: "1", ProductName: "Карта для путешествий", Benefit: 4200, PushText: "Открыть карту."},
		{ClientCode: "2", ProductName: "Депозит Накопительный", Benefit: 12916.67, PushText: "Открыть вклад."},
	}
	require.NoError(t, repo.SaveRecommendations("run-1", recs))
	require.NoError(t, repo.FinishRun("run-1", "ok", 9, len(recs)))

	runs, err := repo.LatestRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "ok", run.Status)
	assert.Equal(t, 4, run.ClientCount)
	assert.Equal(t, 9, run.OfferCount)
	assert.Equal(t, 2, run.RecommendationCount)
	assert.Equal(t, "/tmp/out/run_1", run.OutputDir)
	require.NotNil(t, run.FinishedAt)
}

func TestSaveRecommendationsRejectsDuplicateClient(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.StartRun("run-1", "", 1))

	recs := []domain.Recommendation{
		{ClientCode: "1", ProductName: "Депозит", Benefit: 100, PushText: "a"},
		{ClientCode: "1", ProductName: "Карта", Benefit: 200, PushText: "b"},
	}
	assert.Error(t, repo.SaveRecommendations("run-1", recs))
}

func TestLatestRunsOrdersNewestFirst(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.StartRun("run-a", "", 1))
	require.NoError(t, repo.StartRun("run-b", "", 1))

	runs, err := repo.LatestRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}
