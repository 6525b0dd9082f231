package models

import (
	"encoding/json"
	"time"
)

// AnalysisRun 一次分析的记录（启用数据库时持久化）
type AnalysisRun struct {
	RunID          string          `json:"run_id"`
	DatasetID      string          `json:"dataset_id"`
	ScoringProfile string          `json:"scoring_profile"`
	KeywordProfile string          `json:"keyword_profile"`
	Filters        json.RawMessage `json:"filters,omitempty"`
	SourceFiles    []string        `json:"source_files"`
	Metrics        Metrics         `json:"metrics"`
	CreatedAt      time.Time       `json:"created_at"`
}
