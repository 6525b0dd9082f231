package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smspocoredondo/DashUPA/internal/models"
)

// MemoryRunsRepo keeps analysis history in process when DB is disabled.
type MemoryRunsRepo struct {
	mu   sync.RWMutex
	runs map[string][]models.AnalysisRun // datasetID -> runs
}

func NewMemoryRunsRepo() *MemoryRunsRepo {
	return &MemoryRunsRepo{
		runs: map[string][]models.AnalysisRun{},
	}
}

var _ RunsRepository = (*MemoryRunsRepo)(nil)

func (r *MemoryRunsRepo) SaveRun(_ context.Context, run *models.AnalysisRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.DatasetID] = append(r.runs[run.DatasetID], *run)
	return nil
}

func (r *MemoryRunsRepo) ListRuns(_ context.Context, datasetID string, limit int) ([]models.AnalysisRun, error) {
	limit = runsLimit(limit)

	r.mu.RLock()
	all := append([]models.AnalysisRun{}, r.runs[datasetID]...)
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
