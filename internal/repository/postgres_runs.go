package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/smspocoredondo/DashUPA/internal/models"
)

const createAnalysisRunsTable = `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		run_id          UUID PRIMARY KEY,
		dataset_id      UUID NOT NULL,
		scoring_profile TEXT NOT NULL,
		keyword_profile TEXT NOT NULL,
		filters         JSONB,
		source_files    TEXT[] NOT NULL DEFAULT '{}',
		metrics         JSONB NOT NULL,
		total_count     INTEGER NOT NULL,
		composite_score DOUBLE PRECISION NOT NULL,
		status_label    TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_analysis_runs_dataset ON analysis_runs (dataset_id, created_at DESC);
`

// PostgresRunsRepository 分析历史 Repository 实现
type PostgresRunsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresRunsRepository 创建分析历史 Repository
func NewPostgresRunsRepository(db *sql.DB, logger *zap.Logger) *PostgresRunsRepository {
	return &PostgresRunsRepository{db: db, logger: logger}
}

// 确保实现了接口
var _ RunsRepository = (*PostgresRunsRepository)(nil)

// EnsureSchema 创建表（如不存在）
func (r *PostgresRunsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAnalysisRunsTable); err != nil {
		return fmt.Errorf("failed to create analysis_runs: %w", err)
	}
	return nil
}

// SaveRun 写入一次分析结果；RunID/CreatedAt 为空时自动生成
func (r *PostgresRunsRepository) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	metrics, err := json.Marshal(run.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	var filters any
	if len(run.Filters) > 0 {
		filters = string(run.Filters)
	}
	files := run.SourceFiles
	if files == nil {
		files = []string{}
	}

	query := `
		INSERT INTO analysis_runs (
			run_id, dataset_id, scoring_profile, keyword_profile, filters,
			source_files, metrics, total_count, composite_score, status_label, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.ExecContext(ctx, query,
		run.RunID,
		run.DatasetID,
		run.ScoringProfile,
		run.KeywordProfile,
		filters,
		pq.Array(files),
		string(metrics),
		run.Metrics.TotalCount,
		run.Metrics.CompositeScore,
		string(run.Metrics.StatusLabel),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}

	r.logger.Debug("Analysis run saved",
		zap.String("run_id", run.RunID),
		zap.String("dataset_id", run.DatasetID),
		zap.Float64("composite_score", run.Metrics.CompositeScore),
	)
	return nil
}

// ListRuns 按时间倒序列出某个数据集的分析历史
func (r *PostgresRunsRepository) ListRuns(ctx context.Context, datasetID string, limit int) ([]models.AnalysisRun, error) {
	if datasetID == "" {
		return []models.AnalysisRun{}, nil
	}
	limit = runsLimit(limit)

	query := `
		SELECT
			run_id::text,
			dataset_id::text,
			scoring_profile,
			keyword_profile,
			filters,
			source_files,
			metrics,
			created_at
		FROM analysis_runs
		WHERE dataset_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, datasetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	defer rows.Close()

	runs := []models.AnalysisRun{}
	for rows.Next() {
		var run models.AnalysisRun
		var filters sql.NullString
		var metrics string
		var files pq.StringArray
		if err := rows.Scan(
			&run.RunID,
			&run.DatasetID,
			&run.ScoringProfile,
			&run.KeywordProfile,
			&filters,
			&files,
			&metrics,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		if filters.Valid {
			run.Filters = json.RawMessage(filters.String)
		}
		run.SourceFiles = []string(files)
		if err := json.Unmarshal([]byte(metrics), &run.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics for run %s: %w", run.RunID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analysis runs: %w", err)
	}
	return runs, nil
}
