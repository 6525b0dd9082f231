package repository

import (
	"context"

	"github.com/smspocoredondo/DashUPA/internal/models"
)

// RunsRepository 分析历史
type RunsRepository interface {
	SaveRun(ctx context.Context, run *models.AnalysisRun) error
	ListRuns(ctx context.Context, datasetID string, limit int) ([]models.AnalysisRun, error)
}

const (
	defaultRunsLimit = 50
	maxRunsLimit     = 500
)

// runsLimit <=0 取默认值，超过上限截断
func runsLimit(limit int) int {
	if limit <= 0 {
		return defaultRunsLimit
	}
	if limit > maxRunsLimit {
		return maxRunsLimit
	}
	return limit
}
