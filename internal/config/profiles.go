package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/smspocoredondo/DashUPA/internal/aggregator"
	"github.com/smspocoredondo/DashUPA/internal/classifier"
)

// ErrUnknownProfile 请求的配置名不存在
var ErrUnknownProfile = errors.New("unknown profile")

// ProfileFile PROFILES_FILE 的 YAML 结构
//
//	scoring_profiles:
//	  - name: triage-weighted
//	    weights: {resolution: 0.4, non_return: 0.2, yellow_resolution: 0.4}
//	keyword_profiles:
//	  - name: local
//	    resolved: [ALTA]
//	    not_resolved: [TRANSFERÊNCIA]
type ProfileFile struct {
	ScoringProfiles        []aggregator.ScoringProfile       `yaml:"scoring_profiles"`
	KeywordProfiles        []classifier.KeywordProfile       `yaml:"keyword_profiles"`
	ProfessionalCategories []classifier.ProfessionalCategory `yaml:"professional_categories"`
}

// Profiles 一组生效的命名配置
type Profiles struct {
	Scoring                map[string]aggregator.ScoringProfile `json:"scoring_profiles"`
	Keywords               map[string]classifier.KeywordProfile `json:"keyword_profiles"`
	ProfessionalCategories []classifier.ProfessionalCategory    `json:"professional_categories"`
}

// DefaultProfiles 内置配置
func DefaultProfiles() *Profiles {
	return &Profiles{
		Scoring:                aggregator.DefaultScoringProfiles(),
		Keywords:               classifier.DefaultKeywordProfiles(),
		ProfessionalCategories: classifier.DefaultProfessionalCategories(),
	}
}

// ParseProfiles 解析 YAML 并合并到内置配置之上（同名覆盖）
func ParseProfiles(data []byte) (*Profiles, error) {
	var f ProfileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	p := DefaultProfiles()
	for _, sp := range f.ScoringProfiles {
		if sp.Name == "" {
			return nil, fmt.Errorf("%w: name is required", aggregator.ErrInvalidProfile)
		}
		sp = sp.WithDefaults()
		if err := sp.Validate(); err != nil {
			return nil, err
		}
		p.Scoring[sp.Name] = sp
	}
	for _, kp := range f.KeywordProfiles {
		if err := kp.Validate(); err != nil {
			return nil, err
		}
		p.Keywords[kp.Name] = kp
	}
	if len(f.ProfessionalCategories) > 0 {
		p.ProfessionalCategories = f.ProfessionalCategories
	}
	return p, nil
}

// LoadProfiles 读取配置文件；path 为空时返回内置配置
func LoadProfiles(path string) (*Profiles, error) {
	if path == "" {
		return DefaultProfiles(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file %s: %w", path, err)
	}
	return ParseProfiles(data)
}

// ProfileRegistry 并发安全的配置表，支持热加载替换
type ProfileRegistry struct {
	mu       sync.RWMutex
	profiles *Profiles
	logger   *zap.Logger
}

// NewProfileRegistry 创建配置表；p 为 nil 时使用内置配置
func NewProfileRegistry(p *Profiles, logger *zap.Logger) *ProfileRegistry {
	if p == nil {
		p = DefaultProfiles()
	}
	return &ProfileRegistry{profiles: p, logger: logger}
}

// Replace 整体替换（热加载）
func (r *ProfileRegistry) Replace(p *Profiles) {
	r.mu.Lock()
	r.profiles = p
	r.mu.Unlock()
	r.logger.Info("Profiles replaced",
		zap.Strings("scoring_profiles", sortedKeys(p.Scoring)),
		zap.Strings("keyword_profiles", sortedKeys(p.Keywords)),
	)
}

// Snapshot 返回当前配置（调用方不得修改）
func (r *ProfileRegistry) Snapshot() *Profiles {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profiles
}

// Scoring 按名称取评分配置
func (r *ProfileRegistry) Scoring(name string) (aggregator.ScoringProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles.Scoring[name]
	if !ok {
		return aggregator.ScoringProfile{}, fmt.Errorf("%w: scoring profile %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Keywords 按名称取关键字配置
func (r *ProfileRegistry) Keywords(name string) (classifier.KeywordProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles.Keywords[name]
	if !ok {
		return classifier.KeywordProfile{}, fmt.Errorf("%w: keyword profile %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ProfessionalCategories 专业人员分组
func (r *ProfileRegistry) ProfessionalCategories() []classifier.ProfessionalCategory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profiles.ProfessionalCategories
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
