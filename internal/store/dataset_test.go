package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smspocoredondo/DashUPA/internal/models"
	"github.com/smspocoredondo/DashUPA/internal/normalizer"
)

func sampleDataset() *Dataset {
	ts := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	return &Dataset{
		Schema: "header",
		Files: []normalizer.FileResult{
			{Name: "jan.xlsx", RecordCount: 1, MissingColumns: []string{models.ColProcedure}},
			{Name: "broken.xlsx", Error: "unsupported file"},
		},
		Records: []models.Encounter{
			{PatientID: "P1", Timestamp: &ts, DischargeReason: "ALTA", Priority: "AMARELO", SourceFile: "jan.xlsx", SourceRow: 2},
		},
	}
}

func TestDatasetStore_RoundTripRedis(t *testing.T) {
	mr, kv := setupTestRedis(t)
	s := NewDatasetStore(kv, 30*time.Minute)
	ctx := context.Background()

	ds := sampleDataset()
	require.NoError(t, s.Save(ctx, ds))
	_, err := uuid.Parse(ds.ID)
	require.NoError(t, err)
	assert.False(t, ds.CreatedAt.IsZero())
	assert.Equal(t, 30*time.Minute, mr.TTL(datasetKey(ds.ID)))

	got, err := s.Get(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.Records, got.Records)
	assert.Equal(t, "broken.xlsx", got.Files[1].Name)
	assert.Equal(t, "unsupported file", got.Files[1].Error)
	assert.Equal(t, []string{models.ColProcedure}, got.Files[0].MissingColumns)
}

func TestDatasetStore_NotFound(t *testing.T) {
	s := NewDatasetStore(NewMemoryKV(), time.Minute)
	ctx := context.Background()

	_, err := s.Get(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrDatasetNotFound)

	_, err = s.Get(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestDatasetStore_Delete(t *testing.T) {
	s := NewDatasetStore(NewMemoryKV(), time.Minute)
	ctx := context.Background()

	ds := sampleDataset()
	require.NoError(t, s.Save(ctx, ds))
	require.NoError(t, s.Delete(ctx, ds.ID))

	_, err := s.Get(ctx, ds.ID)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}
