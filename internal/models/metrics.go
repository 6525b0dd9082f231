package models

// StatusLabel 综合评分对应的定性状态
type StatusLabel string

const (
	StatusHighResolutivity     StatusLabel = "HighResolutivity"
	StatusModerateResolutivity StatusLabel = "ModerateResolutivity"
	StatusLowResolutivity      StatusLabel = "LowResolutivity"
)

// Metrics 筛选后记录集的汇总指标
// 空记录集时所有比率均为 0
type Metrics struct {
	TotalCount                 int         `json:"total_count"`
	ResolutionRate             float64     `json:"resolution_rate"`
	ReturnRate72h              float64     `json:"return_rate_72h"`
	YellowTriageResolutionRate float64     `json:"yellow_triage_resolution_rate"`
	CompositeScore             float64     `json:"composite_score"`
	StatusLabel                StatusLabel `json:"status_label"`

	ResolvedCount         int `json:"resolved_count"`
	NotResolvedCount      int `json:"not_resolved_count"`
	UndefinedOutcomeCount int `json:"undefined_outcome_count"`
	ReturnEligibleCount   int `json:"return_eligible_count"`
	ReturnCount           int `json:"return_count"`
	YellowCount           int `json:"yellow_count"`
	YellowResolvedCount   int `json:"yellow_resolved_count"`

	ScoringProfile string `json:"scoring_profile,omitempty"`
}

// CategoryCount 分组计数
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Breakdown 卡片/图表用的分组统计
type Breakdown struct {
	TopSpecialties      []CategoryCount `json:"top_specialties"`
	TopDischargeReasons []CategoryCount `json:"top_discharge_reasons"`
	TopPriorities       []CategoryCount `json:"top_priorities"`
	TopDiagnosisCodes   []CategoryCount `json:"top_diagnosis_codes"`
	ProfessionalGroups  []CategoryCount `json:"professional_groups"`
	OtherProfessionals  []CategoryCount `json:"other_professionals"`
	ShiftDistribution   []CategoryCount `json:"shift_distribution"`
	OutcomeDistribution []CategoryCount `json:"outcome_distribution"`
}
