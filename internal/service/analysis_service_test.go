package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/smspocoredondo/DashUPA/internal/aggregator"
	"github.com/smspocoredondo/DashUPA/internal/config"
	"github.com/smspocoredondo/DashUPA/internal/filter"
	"github.com/smspocoredondo/DashUPA/internal/models"
	"github.com/smspocoredondo/DashUPA/internal/normalizer"
	"github.com/smspocoredondo/DashUPA/internal/report"
	"github.com/smspocoredondo/DashUPA/internal/repository"
	"github.com/smspocoredondo/DashUPA/internal/store"
)

var encounterRows = [][]interface{}{
	{"Prontuário", "Usuário", "Data", "Hora", "Especialidade", "Profissional", "Motivo Alta", "Procedimento", "Cid10", "Prioridade"},
	{"P1", "Ana", "05/03/2024", "08:00", "CLINICA", "Médico Clínico", "ALTA", "CONSULTA", "J06.9", "AMARELO"},
	{"P1", "Ana", "06/03/2024", "10:00", "CLINICA", "Médico Clínico", "TRANSFERÊNCIA", "CONSULTA", "J18", "AMARELO"},
	{"P2", "Bia", "05/03/2024", "14:00", "PEDIATRIA", "Enfermeiro", "ALTA", "CURATIVO", "S01", "VERDE"},
	{"P3", "Caio", "05/03/2024", "20:00", "CLINICA", "Médico Clínico", "ÓBITO", "CONSULTA", "I21", "VERMELHO"},
}

// workbook 生成测试用 xlsx
func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func newTestService(t *testing.T) (AnalysisService, *repository.MemoryRunsRepo) {
	t.Helper()
	runs := repository.NewMemoryRunsRepo()
	svc := NewAnalysisService(
		store.NewDatasetStore(store.NewMemoryKV(), time.Hour),
		runs,
		config.NewProfileRegistry(nil, zap.NewNop()),
		config.AnalysisConfig{
			DefaultSchema:         "header",
			DefaultScoringProfile: aggregator.ProfileResolutionWeighted,
			DefaultKeywordProfile: "strict",
			UnitName:              "UPA Teste",
			TopN:                  10,
		},
		zap.NewNop(),
	)
	return svc, runs
}

func upload(t *testing.T, svc AnalysisService) *UploadResponse {
	t.Helper()
	resp, err := svc.Upload(context.Background(), UploadRequest{
		Files: []normalizer.Input{{Name: "marco.xlsx", Reader: workbook(t, encounterRows)}},
	})
	require.NoError(t, err)
	return resp
}

func TestUpload_AndGetDataset(t *testing.T) {
	svc, _ := newTestService(t)

	resp := upload(t, svc)
	assert.Equal(t, "header", resp.Schema)
	assert.Equal(t, 4, resp.RecordCount)
	require.Len(t, resp.Files, 1)
	assert.Empty(t, resp.Files[0].Error)

	summary, err := svc.GetDataset(context.Background(), resp.DatasetID)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.RecordCount)
	assert.Equal(t, []string{"AMARELO", "VERDE", "VERMELHO"}, summary.Options[models.ColPriority])
	assert.Equal(t, []string{"I21", "J06", "J18", "S01"}, summary.Options[models.ColDiagnosisCode])
}

func TestUpload_BadFileDoesNotAbortOthers(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Upload(context.Background(), UploadRequest{
		Schema: "header",
		Files: []normalizer.Input{
			{Name: "notes.txt", Reader: strings.NewReader("not a spreadsheet")},
			{Name: "marco.xlsx", Reader: workbook(t, encounterRows)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.RecordCount)
	require.Len(t, resp.Files, 2)
	assert.NotEmpty(t, resp.Files[0].Error)
	assert.Empty(t, resp.Files[1].Error)
}

func TestUpload_Errors(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), UploadRequest{Schema: "columns"})
	assert.ErrorIs(t, err, normalizer.ErrUnknownSchema)

	_, err = svc.Upload(context.Background(), UploadRequest{})
	assert.ErrorIs(t, err, normalizer.ErrUnsupportedFile)
}

func TestAnalyze_DefaultProfiles(t *testing.T) {
	svc, _ := newTestService(t)
	ds := upload(t, svc)
	ctx := context.Background()

	resp, err := svc.Analyze(ctx, AnalyzeRequest{DatasetID: ds.DatasetID})
	require.NoError(t, err)

	m := resp.Metrics
	assert.Equal(t, aggregator.ProfileResolutionWeighted, resp.ScoringProfile)
	assert.Equal(t, "strict", resp.KeywordProfile)
	assert.Equal(t, 4, m.TotalCount)
	assert.InDelta(t, 0.5, m.ResolutionRate, 1e-9)
	assert.InDelta(t, 1.0, m.ReturnRate72h, 1e-9)
	assert.InDelta(t, 0.5, m.YellowTriageResolutionRate, 1e-9)
	assert.InDelta(t, 0.35, m.CompositeScore, 1e-9)
	assert.Equal(t, models.StatusLowResolutivity, m.StatusLabel)

	assert.Equal(t, models.CategoryCount{Value: "CLINICA", Count: 3}, resp.Breakdown.TopSpecialties[0])
	assert.NotEmpty(t, resp.RunID)

	runs, err := svc.ListRuns(ctx, ds.DatasetID, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, resp.RunID, runs[0].RunID)
	assert.Equal(t, []string{"marco.xlsx"}, runs[0].SourceFiles)
	assert.Nil(t, runs[0].Filters)
}

func TestAnalyze_WithFilterAndProfile(t *testing.T) {
	svc, runs := newTestService(t)
	ds := upload(t, svc)
	ctx := context.Background()

	resp, err := svc.Analyze(ctx, AnalyzeRequest{
		DatasetID:      ds.DatasetID,
		Filters:        filter.Filter{Values: map[string][]string{models.ColPriority: {"AMARELO"}}},
		ScoringProfile: aggregator.ProfileTriageWeighted,
		KeywordProfile: "broad",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Metrics.TotalCount)
	assert.Equal(t, aggregator.ProfileTriageWeighted, resp.Metrics.ScoringProfile)

	saved, err := runs.ListRuns(ctx, ds.DatasetID, 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.JSONEq(t, `{"values":{"priority":["AMARELO"]}}`, string(saved[0].Filters))
}

func TestAnalyze_IsRecomputedEachTime(t *testing.T) {
	svc, _ := newTestService(t)
	ds := upload(t, svc)
	ctx := context.Background()

	first, err := svc.Analyze(ctx, AnalyzeRequest{DatasetID: ds.DatasetID})
	require.NoError(t, err)
	second, err := svc.Analyze(ctx, AnalyzeRequest{DatasetID: ds.DatasetID})
	require.NoError(t, err)

	assert.Equal(t, first.Metrics, second.Metrics)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestAnalyze_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ds := upload(t, svc)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, AnalyzeRequest{DatasetID: uuid.New().String()})
	assert.ErrorIs(t, err, store.ErrDatasetNotFound)

	_, err = svc.Analyze(ctx, AnalyzeRequest{DatasetID: ds.DatasetID, ScoringProfile: "nope"})
	assert.ErrorIs(t, err, config.ErrUnknownProfile)

	_, err = svc.Analyze(ctx, AnalyzeRequest{DatasetID: ds.DatasetID, KeywordProfile: "nope"})
	assert.ErrorIs(t, err, config.ErrUnknownProfile)

	_, err = svc.Analyze(ctx, AnalyzeRequest{
		DatasetID: ds.DatasetID,
		Filters:   filter.Filter{Values: map[string][]string{"ward": {"A"}}},
	})
	assert.ErrorIs(t, err, filter.ErrUnknownColumn)

	_, err = svc.ListRuns(ctx, "not-a-uuid", 0)
	assert.ErrorIs(t, err, store.ErrDatasetNotFound)
}

func TestReport_GeneratesWorkbook(t *testing.T) {
	svc, runs := newTestService(t)
	ds := upload(t, svc)
	ctx := context.Background()

	resp, err := svc.Report(ctx, AnalyzeRequest{DatasetID: ds.DatasetID})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.FileName, "relatorio_"))
	assert.True(t, strings.HasSuffix(resp.FileName, ".xlsx"))
	assert.Equal(t, "UPA Teste", resp.Report.UnitName)

	f, err := excelize.OpenReader(bytes.NewReader(resp.Content))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{report.SheetReport, report.SheetIndicators, report.SheetTop}, f.GetSheetList())

	saved, err := runs.ListRuns(ctx, ds.DatasetID, 0)
	require.NoError(t, err)
	assert.Empty(t, saved, "report generation does not record a run")
}

func TestProfiles(t *testing.T) {
	svc, _ := newTestService(t)

	p := svc.Profiles()
	assert.Contains(t, p.Scoring, aggregator.ProfileTriageWeighted)
	assert.Contains(t, p.Keywords, "broad")
}
