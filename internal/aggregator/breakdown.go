package aggregator

import (
	"sort"

	"github.com/smspocoredondo/DashUPA/internal/classifier"
	"github.com/smspocoredondo/DashUPA/internal/models"
)

// DefaultTopN 卡片默认展示前 10 项
const DefaultTopN = 10

// TopN 统计某列取值出现次数，按次数降序、取值升序，空值不计
func TopN(records []models.Encounter, column string, n int) []models.CategoryCount {
	counts := make(map[string]int)
	for i := range records {
		v, ok := records[i].Value(column)
		if !ok || v == "" {
			continue
		}
		counts[v]++
	}
	out := sortedCounts(counts)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func sortedCounts(counts map[string]int) []models.CategoryCount {
	out := make([]models.CategoryCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, models.CategoryCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// ProfessionalGroups 按分组统计专业人员；未归入任何分组的值单独列出
// 只返回计数大于 0 的分组，顺序与配置一致
func ProfessionalGroups(records []models.Encounter, pc *classifier.ProfessionalCategorizer) (groups, others []models.CategoryCount) {
	groupCounts := make(map[string]int)
	otherCounts := make(map[string]int)
	for i := range records {
		v := records[i].Professional
		if v == "" {
			continue
		}
		names := pc.Categorize(v)
		if len(names) == 0 {
			otherCounts[v]++
			continue
		}
		for _, name := range names {
			groupCounts[name]++
		}
	}
	groups = []models.CategoryCount{}
	for _, c := range pc.Categories() {
		if n := groupCounts[c.Name]; n > 0 {
			groups = append(groups, models.CategoryCount{Value: c.Name, Count: n})
		}
	}
	return groups, sortedCounts(otherCounts)
}

// BuildBreakdown 生成卡片/图表用的全部分组统计
// 记录需已经过 Enrich
func BuildBreakdown(records []models.Encounter, topN int, pc *classifier.ProfessionalCategorizer) models.Breakdown {
	if topN <= 0 {
		topN = DefaultTopN
	}
	b := models.Breakdown{
		TopSpecialties:      TopN(records, models.ColSpecialty, topN),
		TopDischargeReasons: TopN(records, models.ColDischargeReason, topN),
		TopPriorities:       TopN(records, models.ColPriority, topN),
		TopDiagnosisCodes:   TopN(records, models.ColDiagnosisCode, topN),
	}
	b.ProfessionalGroups, b.OtherProfessionals = ProfessionalGroups(records, pc)

	shifts := make(map[models.Shift]int)
	outcomes := make(map[models.Outcome]int)
	for i := range records {
		s := records[i].Shift
		if s == "" {
			s = models.ShiftUndefined
		}
		shifts[s]++
		o := records[i].Outcome
		if o == "" {
			o = models.OutcomeUndefined
		}
		outcomes[o]++
	}
	for _, s := range models.Shifts {
		b.ShiftDistribution = append(b.ShiftDistribution, models.CategoryCount{Value: string(s), Count: shifts[s]})
	}
	for _, o := range models.Outcomes {
		b.OutcomeDistribution = append(b.OutcomeDistribution, models.CategoryCount{Value: string(o), Count: outcomes[o]})
	}
	return b
}
