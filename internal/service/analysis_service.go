package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smspocoredondo/DashUPA/internal/config"
	"github.com/smspocoredondo/DashUPA/internal/filter"
	"github.com/smspocoredondo/DashUPA/internal/models"
	"github.com/smspocoredondo/DashUPA/internal/normalizer"
	"github.com/smspocoredondo/DashUPA/internal/report"
	"github.com/smspocoredondo/DashUPA/internal/repository"
	"github.com/smspocoredondo/DashUPA/internal/store"
)

// AnalysisService 数据集上传与分析服务接口
type AnalysisService interface {
	// Upload 规范化上传的文件并保存为数据集
	Upload(ctx context.Context, req UploadRequest) (*UploadResponse, error)
	// GetDataset 数据集摘要（含筛选项）
	GetDataset(ctx context.Context, datasetID string) (*DatasetSummary, error)
	// Analyze 计算指标和分组统计，并记录分析历史
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error)
	// Report 生成 xlsx 报告
	Report(ctx context.Context, req AnalyzeRequest) (*ReportResponse, error)
	// ListRuns 数据集的分析历史
	ListRuns(ctx context.Context, datasetID string, limit int) ([]models.AnalysisRun, error)
	// Profiles 当前可用的评分/关键字配置
	Profiles() *config.Profiles
}

// analysisService 分析服务实现
type analysisService struct {
	datasets *store.DatasetStore
	runs     repository.RunsRepository
	profiles *config.ProfileRegistry
	defaults config.AnalysisConfig
	logger   *zap.Logger
}

// NewAnalysisService 创建分析服务
func NewAnalysisService(
	datasets *store.DatasetStore,
	runs repository.RunsRepository,
	profiles *config.ProfileRegistry,
	defaults config.AnalysisConfig,
	logger *zap.Logger,
) AnalysisService {
	return &analysisService{
		datasets: datasets,
		runs:     runs,
		profiles: profiles,
		defaults: defaults,
		logger:   logger,
	}
}

// UploadRequest 上传请求
type UploadRequest struct {
	Schema string // header | positional，为空时使用默认值
	Files  []normalizer.Input
}

// UploadResponse 上传响应
type UploadResponse struct {
	DatasetID   string                  `json:"dataset_id"`
	Schema      string                  `json:"schema"`
	RecordCount int                     `json:"record_count"`
	Files       []normalizer.FileResult `json:"files"`
}

// DatasetSummary 数据集摘要
type DatasetSummary struct {
	DatasetID   string                  `json:"dataset_id"`
	Schema      string                  `json:"schema"`
	CreatedAt   time.Time               `json:"created_at"`
	RecordCount int                     `json:"record_count"`
	Files       []normalizer.FileResult `json:"files"`
	Options     map[string][]string     `json:"options"`
}

// AnalyzeRequest 分析请求（DatasetID 来自路径）
type AnalyzeRequest struct {
	DatasetID      string        `json:"-"`
	Filters        filter.Filter `json:"filters"`
	ScoringProfile string        `json:"scoring_profile,omitempty"`
	KeywordProfile string        `json:"keyword_profile,omitempty"`
	TopN           int           `json:"top_n,omitempty"`
}

// AnalyzeResponse 分析响应
type AnalyzeResponse struct {
	DatasetID      string           `json:"dataset_id"`
	RunID          string           `json:"run_id,omitempty"`
	ScoringProfile string           `json:"scoring_profile"`
	KeywordProfile string           `json:"keyword_profile"`
	Metrics        models.Metrics   `json:"metrics"`
	Breakdown      models.Breakdown `json:"breakdown"`
}

// ReportResponse xlsx 报告
type ReportResponse struct {
	FileName string
	Content  []byte
	Report   *report.Report
}

func (s *analysisService) Upload(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	schemaName := req.Schema
	if schemaName == "" {
		schemaName = s.defaults.DefaultSchema
	}
	schema, err := normalizer.ParseSchema(schemaName)
	if err != nil {
		return nil, err
	}
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("%w: no files uploaded", normalizer.ErrUnsupportedFile)
	}

	n := normalizer.NewNormalizer(schema, s.logger)
	records, results := n.LoadAll(req.Files)

	ds := &store.Dataset{
		Schema:  string(schema),
		Files:   results,
		Records: records,
	}
	if err := s.datasets.Save(ctx, ds); err != nil {
		return nil, err
	}

	s.logger.Info("Dataset uploaded",
		zap.String("dataset_id", ds.ID),
		zap.String("schema", ds.Schema),
		zap.Int("files", len(results)),
		zap.Int("records", len(records)),
	)

	return &UploadResponse{
		DatasetID:   ds.ID,
		Schema:      ds.Schema,
		RecordCount: len(records),
		Files:       results,
	}, nil
}

func (s *analysisService) GetDataset(ctx context.Context, datasetID string) (*DatasetSummary, error) {
	ds, err := s.datasets.Get(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	return &DatasetSummary{
		DatasetID:   ds.ID,
		Schema:      ds.Schema,
		CreatedAt:   ds.CreatedAt,
		RecordCount: len(ds.Records),
		Files:       ds.Files,
		Options:     filter.Options(ds.Records),
	}, nil
}

// analysis 加载数据集并执行分析，返回结果和实际使用的配置
type analysis struct {
	dataset  *store.Dataset
	opts     PipelineOptions
	result   *PipelineResult
	scoring  string
	keywords string
}

func (s *analysisService) run(ctx context.Context, req AnalyzeRequest) (*analysis, error) {
	scoringName := req.ScoringProfile
	if scoringName == "" {
		scoringName = s.defaults.DefaultScoringProfile
	}
	keywordName := req.KeywordProfile
	if keywordName == "" {
		keywordName = s.defaults.DefaultKeywordProfile
	}
	scoring, err := s.profiles.Scoring(scoringName)
	if err != nil {
		return nil, err
	}
	keywords, err := s.profiles.Keywords(keywordName)
	if err != nil {
		return nil, err
	}

	ds, err := s.datasets.Get(ctx, req.DatasetID)
	if err != nil {
		return nil, err
	}

	topN := req.TopN
	if topN <= 0 {
		topN = s.defaults.TopN
	}
	opts := PipelineOptions{
		Filter:                 req.Filters,
		Scoring:                scoring,
		Keywords:               keywords,
		ProfessionalCategories: s.profiles.ProfessionalCategories(),
		TopN:                   topN,
	}
	result, err := RunPipeline(ds.Records, opts)
	if err != nil {
		return nil, err
	}
	return &analysis{
		dataset:  ds,
		opts:     opts,
		result:   result,
		scoring:  scoringName,
		keywords: keywordName,
	}, nil
}

func (s *analysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	a, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &AnalyzeResponse{
		DatasetID:      a.dataset.ID,
		ScoringProfile: a.scoring,
		KeywordProfile: a.keywords,
		Metrics:        a.result.Metrics,
		Breakdown:      a.result.Breakdown,
	}

	// 历史记录失败不影响分析结果
	run := &models.AnalysisRun{
		DatasetID:      a.dataset.ID,
		ScoringProfile: a.scoring,
		KeywordProfile: a.keywords,
		SourceFiles:    sourceFiles(a.dataset),
		Metrics:        a.result.Metrics,
	}
	if !req.Filters.IsEmpty() {
		if b, err := json.Marshal(req.Filters); err == nil {
			run.Filters = b
		}
	}
	if err := s.runs.SaveRun(ctx, run); err != nil {
		s.logger.Warn("Failed to save analysis run",
			zap.String("dataset_id", a.dataset.ID),
			zap.Error(err),
		)
	} else {
		resp.RunID = run.RunID
	}

	s.logger.Info("Dataset analyzed",
		zap.String("dataset_id", a.dataset.ID),
		zap.String("scoring_profile", a.scoring),
		zap.String("keyword_profile", a.keywords),
		zap.Int("total_count", a.result.Metrics.TotalCount),
		zap.Float64("composite_score", a.result.Metrics.CompositeScore),
		zap.String("status_label", string(a.result.Metrics.StatusLabel)),
	)
	return resp, nil
}

func (s *analysisService) Report(ctx context.Context, req AnalyzeRequest) (*ReportResponse, error) {
	a, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}

	r := report.Build(report.Input{
		UnitName:       s.defaults.UnitName,
		Metrics:        a.result.Metrics,
		Breakdown:      a.result.Breakdown,
		Filter:         a.opts.Filter,
		Profile:        a.opts.Scoring,
		KeywordProfile: a.keywords,
		SourceFiles:    sourceFiles(a.dataset),
	})
	content, err := report.GenerateXLSX(r)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	return &ReportResponse{
		FileName: fmt.Sprintf("relatorio_%s.xlsx", r.GeneratedAt.Format("20060102_150405")),
		Content:  content,
		Report:   r,
	}, nil
}

func (s *analysisService) ListRuns(ctx context.Context, datasetID string, limit int) ([]models.AnalysisRun, error) {
	// 数据集过期后历史记录仍可查询，只校验 ID 格式
	if _, err := uuid.Parse(datasetID); err != nil {
		return nil, fmt.Errorf("%w: %s", store.ErrDatasetNotFound, datasetID)
	}
	return s.runs.ListRuns(ctx, datasetID, limit)
}

func (s *analysisService) Profiles() *config.Profiles {
	return s.profiles.Snapshot()
}

func sourceFiles(ds *store.Dataset) []string {
	names := make([]string, 0, len(ds.Files))
	for _, f := range ds.Files {
		names = append(names, f.Name)
	}
	return names
}
