package config

import (
	"os"
	"strconv"
	"time"

	commoncfg "github.com/smspocoredondo/DashUPA/common/config"
)

// Config dashupa（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled    bool
	Database     commoncfg.DatabaseConfig
	RedisEnabled bool
	Redis        commoncfg.RedisConfig
	Log          struct {
		Level  string
		Format string
	}
	Dataset  DatasetConfig
	Analysis AnalysisConfig
}

// DatasetConfig 上传数据集配置
type DatasetConfig struct {
	TTL         time.Duration // 数据集在缓存中的保留时间
	MaxUploadMB int64         // 单次上传大小上限
}

// AnalysisConfig 分析默认值
type AnalysisConfig struct {
	ProfilesFile          string // 可选 YAML，覆盖/追加内置配置
	DefaultSchema         string // header | positional
	DefaultScoringProfile string
	DefaultKeywordProfile string
	UnitName              string // 报告标题中的单位名称
	TopN                  int
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// 分析历史是可选功能，默认关闭
	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "dashupa",
		SSLMode:  "disable",
		MaxConns: 10,
		MaxIdle:  2,
	}
	cfg.Database.LoadFromEnv("DB")

	// 未启用 Redis 时数据集保存在进程内存中
	cfg.RedisEnabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Dataset.TTL = time.Duration(parseInt(getEnv("DATASET_TTL_MINUTES", "120"), 120)) * time.Minute
	cfg.Dataset.MaxUploadMB = int64(parseInt(getEnv("MAX_UPLOAD_MB", "32"), 32))

	cfg.Analysis.ProfilesFile = getEnv("PROFILES_FILE", "")
	cfg.Analysis.DefaultSchema = getEnv("DEFAULT_SCHEMA", "header")
	cfg.Analysis.DefaultScoringProfile = getEnv("DEFAULT_SCORING_PROFILE", "resolution-weighted")
	cfg.Analysis.DefaultKeywordProfile = getEnv("DEFAULT_KEYWORD_PROFILE", "strict")
	cfg.Analysis.UnitName = getEnv("REPORT_UNIT_NAME", "UPA 24H")
	cfg.Analysis.TopN = parseInt(getEnv("TOP_N", "10"), 10)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
