package aggregator

import (
	"github.com/smspocoredondo/DashUPA/internal/classifier"
	"github.com/smspocoredondo/DashUPA/internal/models"
	"github.com/smspocoredondo/DashUPA/internal/textutil"
)

// Aggregator 指标聚合器
// Aggregate 是纯函数：相同输入和配置总是得到相同结果
type Aggregator struct {
	profile ScoringProfile
	triage  []string
}

// NewAggregator 创建聚合器；未设置的配置项使用默认值
func NewAggregator(p ScoringProfile) *Aggregator {
	p = p.WithDefaults()
	triage := make([]string, 0, len(p.TriageKeywords))
	for _, k := range p.TriageKeywords {
		if f := textutil.Fold(k); f != "" {
			triage = append(triage, f)
		}
	}
	return &Aggregator{profile: p, triage: triage}
}

// Profile 返回生效的评分配置
func (a *Aggregator) Profile() ScoringProfile {
	return a.profile
}

// Enrich 为记录计算派生字段（时段、结局、返诊标记）
// 直接修改传入的切片，调用方应传入筛选后的副本
func (a *Aggregator) Enrich(records []models.Encounter, oc *classifier.OutcomeClassifier) {
	for i := range records {
		records[i].Shift = classifier.ShiftOfTime(records[i].Timestamp)
		records[i].Outcome = oc.Classify(records[i].DischargeReason)
	}
	MarkReturns(records, a.profile.ReturnWindowHours)
}

// Aggregate 计算汇总指标
// 记录的 Outcome 需已由 Enrich 计算；返诊标记在此重新计算，不读取记录上的字段
func (a *Aggregator) Aggregate(records []models.Encounter) models.Metrics {
	m := models.Metrics{
		TotalCount:     len(records),
		ScoringProfile: a.profile.Name,
		StatusLabel:    models.StatusLowResolutivity,
	}
	if m.TotalCount == 0 {
		return m
	}

	for i := range records {
		rec := &records[i]
		resolved := rec.Outcome == models.OutcomeResolvedOnSite
		switch rec.Outcome {
		case models.OutcomeResolvedOnSite:
			m.ResolvedCount++
		case models.OutcomeNotResolvedOnSite:
			m.NotResolvedCount++
		default:
			m.UndefinedOutcomeCount++
		}
		if a.IsYellow(rec.Priority) {
			m.YellowCount++
			if resolved {
				m.YellowResolvedCount++
			}
		}
	}

	for _, flag := range ReturnFlags(records, a.profile.ReturnWindowHours) {
		if flag == nil {
			continue
		}
		m.ReturnEligibleCount++
		if *flag {
			m.ReturnCount++
		}
	}

	m.ResolutionRate = ratio(m.ResolvedCount, m.TotalCount)
	m.ReturnRate72h = ratio(m.ReturnCount, m.ReturnEligibleCount)
	m.YellowTriageResolutionRate = ratio(m.YellowResolvedCount, m.YellowCount)
	m.CompositeScore = a.Score(m.ResolutionRate, m.ReturnRate72h, m.YellowTriageResolutionRate)
	m.StatusLabel = a.Label(m.CompositeScore)
	return m
}

// Score 综合评分
func (a *Aggregator) Score(resolution, returnRate, yellow float64) float64 {
	w := a.profile.Weights
	return resolution*w.Resolution + (1-returnRate)*w.NonReturn + yellow*w.YellowResolution
}

// Label 评分 -> 状态
func (a *Aggregator) Label(score float64) models.StatusLabel {
	t := a.profile.Thresholds
	switch {
	case score >= t.High:
		return models.StatusHighResolutivity
	case score >= t.Moderate:
		return models.StatusModerateResolutivity
	default:
		return models.StatusLowResolutivity
	}
}

// IsYellow 优先级是否属于黄色分诊
func (a *Aggregator) IsYellow(priority string) bool {
	folded := textutil.Fold(priority)
	if folded == "" {
		return false
	}
	for _, k := range a.triage {
		if textutil.ContainsFolded(folded, k) {
			return true
		}
	}
	return false
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
