package aggregator

import (
	"errors"
	"fmt"
	"math"
)

// Built-in scoring profile names.
const (
	ProfileResolutionWeighted = "resolution-weighted"
	ProfileTriageWeighted     = "triage-weighted"
)

// DefaultReturnWindowHours 72 小时返诊窗口
const DefaultReturnWindowHours = 72.0

// ErrInvalidProfile 评分配置不合法
var ErrInvalidProfile = errors.New("invalid scoring profile")

// Weights 综合评分权重
// score = resolution*Resolution + (1-return)*NonReturn + yellow*YellowResolution
type Weights struct {
	Resolution       float64 `yaml:"resolution" json:"resolution"`
	NonReturn        float64 `yaml:"non_return" json:"non_return"`
	YellowResolution float64 `yaml:"yellow_resolution" json:"yellow_resolution"`
}

// Thresholds 状态阈值：score >= High 为高，score >= Moderate 为中，其余为低
type Thresholds struct {
	High     float64 `yaml:"high" json:"high"`
	Moderate float64 `yaml:"moderate" json:"moderate"`
}

// ScoringProfile 一套命名的评分配置
type ScoringProfile struct {
	Name              string     `yaml:"name" json:"name"`
	Weights           Weights    `yaml:"weights" json:"weights"`
	Thresholds        Thresholds `yaml:"thresholds" json:"thresholds"`
	ReturnWindowHours float64    `yaml:"return_window_hours" json:"return_window_hours"`
	// TriageKeywords 优先级包含任一关键字即视为黄色分诊（不区分大小写和重音）
	TriageKeywords []string `yaml:"triage_keywords" json:"triage_keywords"`
}

func defaultThresholds() Thresholds {
	return Thresholds{High: 0.80, Moderate: 0.60}
}

func defaultTriageKeywords() []string {
	return []string{"YELLOW", "AMAREL"}
}

// ResolutionWeighted 0.5 / 0.3 / 0.2
func ResolutionWeighted() ScoringProfile {
	return ScoringProfile{
		Name:              ProfileResolutionWeighted,
		Weights:           Weights{Resolution: 0.5, NonReturn: 0.3, YellowResolution: 0.2},
		Thresholds:        defaultThresholds(),
		ReturnWindowHours: DefaultReturnWindowHours,
		TriageKeywords:    defaultTriageKeywords(),
	}
}

// TriageWeighted 0.4 / 0.2 / 0.4
func TriageWeighted() ScoringProfile {
	return ScoringProfile{
		Name:              ProfileTriageWeighted,
		Weights:           Weights{Resolution: 0.4, NonReturn: 0.2, YellowResolution: 0.4},
		Thresholds:        defaultThresholds(),
		ReturnWindowHours: DefaultReturnWindowHours,
		TriageKeywords:    defaultTriageKeywords(),
	}
}

// DefaultScoringProfiles 内置评分配置
func DefaultScoringProfiles() map[string]ScoringProfile {
	return map[string]ScoringProfile{
		ProfileResolutionWeighted: ResolutionWeighted(),
		ProfileTriageWeighted:     TriageWeighted(),
	}
}

// WithDefaults 补齐未设置的阈值、窗口和分诊关键字
func (p ScoringProfile) WithDefaults() ScoringProfile {
	if p.Thresholds == (Thresholds{}) {
		p.Thresholds = defaultThresholds()
	}
	if p.ReturnWindowHours <= 0 {
		p.ReturnWindowHours = DefaultReturnWindowHours
	}
	if len(p.TriageKeywords) == 0 {
		p.TriageKeywords = defaultTriageKeywords()
	}
	return p
}

// Validate 权重在 [0,1] 内且总和为 1；0 <= Moderate <= High <= 1
func (p ScoringProfile) Validate() error {
	w := p.Weights
	for name, v := range map[string]float64{
		"resolution":        w.Resolution,
		"non_return":        w.NonReturn,
		"yellow_resolution": w.YellowResolution,
	} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%w %q: weight %s=%v out of [0,1]", ErrInvalidProfile, p.Name, name, v)
		}
	}
	if sum := w.Resolution + w.NonReturn + w.YellowResolution; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w %q: weights sum to %v, want 1", ErrInvalidProfile, p.Name, sum)
	}
	t := p.Thresholds
	if t.Moderate < 0 || t.High > 1 || t.Moderate > t.High {
		return fmt.Errorf("%w %q: thresholds must satisfy 0 <= moderate <= high <= 1", ErrInvalidProfile, p.Name)
	}
	if p.ReturnWindowHours < 0 {
		return fmt.Errorf("%w %q: return_window_hours must not be negative", ErrInvalidProfile, p.Name)
	}
	return nil
}
