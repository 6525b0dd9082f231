package service

import (
	"github.com/smspocoredondo/DashUPA/internal/aggregator"
	"github.com/smspocoredondo/DashUPA/internal/classifier"
	"github.com/smspocoredondo/DashUPA/internal/filter"
	"github.com/smspocoredondo/DashUPA/internal/models"
)

// PipelineOptions 一次分析使用的筛选条件和配置
type PipelineOptions struct {
	Filter                 filter.Filter
	Scoring                aggregator.ScoringProfile
	Keywords               classifier.KeywordProfile
	ProfessionalCategories []classifier.ProfessionalCategory
	TopN                   int
}

// PipelineResult 分析结果
type PipelineResult struct {
	Metrics   models.Metrics     `json:"metrics"`
	Breakdown models.Breakdown   `json:"breakdown"`
	Records   []models.Encounter `json:"-"` // 筛选并计算派生字段后的副本
}

// RunPipeline 筛选 -> 分类 -> 聚合
// 每次调用都从原始记录重新计算，不修改 records
func RunPipeline(records []models.Encounter, opts PipelineOptions) (*PipelineResult, error) {
	filtered, err := filter.Apply(records, opts.Filter)
	if err != nil {
		return nil, err
	}

	agg := aggregator.NewAggregator(opts.Scoring)
	agg.Enrich(filtered, classifier.NewOutcomeClassifier(opts.Keywords))

	categories := opts.ProfessionalCategories
	if len(categories) == 0 {
		categories = classifier.DefaultProfessionalCategories()
	}

	return &PipelineResult{
		Metrics:   agg.Aggregate(filtered),
		Breakdown: aggregator.BuildBreakdown(filtered, opts.TopN, classifier.NewProfessionalCategorizer(categories)),
		Records:   filtered,
	}, nil
}
