package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smspocoredondo/DashUPA/internal/models"
	"github.com/smspocoredondo/DashUPA/internal/normalizer"
)

// ErrDatasetNotFound 数据集不存在或已过期
var ErrDatasetNotFound = errors.New("dataset not found")

const datasetKeyPrefix = "dashupa:dataset:"

// Dataset 一次上传得到的规范化记录集
// 只保存原始记录，指标每次请求重新计算
type Dataset struct {
	ID        string                  `json:"id"`
	Schema    string                  `json:"schema"`
	CreatedAt time.Time               `json:"created_at"`
	Files     []normalizer.FileResult `json:"files"`
	Records   []models.Encounter      `json:"records"`
}

// DatasetStore 按 ID 保存数据集，带 TTL
type DatasetStore struct {
	kv  KV
	ttl time.Duration
}

func NewDatasetStore(kv KV, ttl time.Duration) *DatasetStore {
	return &DatasetStore{kv: kv, ttl: ttl}
}

func datasetKey(id string) string {
	return datasetKeyPrefix + id
}

// Save 分配 ID（如未设置）并写入
func (s *DatasetStore) Save(ctx context.Context, ds *Dataset) error {
	if ds.ID == "" {
		ds.ID = uuid.New().String()
	}
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	if err := s.kv.Set(ctx, datasetKey(ds.ID), string(b), s.ttl); err != nil {
		return fmt.Errorf("failed to save dataset %s: %w", ds.ID, err)
	}
	return nil
}

// Get 读取数据集；不存在时返回 ErrDatasetNotFound
func (s *DatasetStore) Get(ctx context.Context, id string) (*Dataset, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	val, err := s.kv.Get(ctx, datasetKey(id))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
		}
		return nil, fmt.Errorf("failed to get dataset %s: %w", id, err)
	}
	var ds Dataset
	if err := json.Unmarshal([]byte(val), &ds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset %s: %w", id, err)
	}
	return &ds, nil
}

// Delete 删除数据集
func (s *DatasetStore) Delete(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, datasetKey(id))
}
