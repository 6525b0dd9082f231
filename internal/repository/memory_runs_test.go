package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smspocoredondo/DashUPA/internal/models"
)

func TestMemoryRunsRepo_SaveAndList(t *testing.T) {
	repo := NewMemoryRunsRepo()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		run := &models.AnalysisRun{DatasetID: "d1", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.SaveRun(ctx, run))
		assert.NotEmpty(t, run.RunID)
	}
	require.NoError(t, repo.SaveRun(ctx, &models.AnalysisRun{DatasetID: "d2"}))

	runs, err := repo.ListRuns(ctx, "d1", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, base.Add(2*time.Hour), runs[0].CreatedAt, "newest first")
	assert.Equal(t, base.Add(time.Hour), runs[1].CreatedAt)

	runs, err = repo.ListRuns(ctx, "missing", 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
