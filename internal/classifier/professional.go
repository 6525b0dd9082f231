package classifier

import "github.com/smspocoredondo/DashUPA/internal/textutil"

// ProfessionalCategory 专业人员分组（卡片展示用）
type ProfessionalCategory struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// DefaultProfessionalCategories 默认分组
func DefaultProfessionalCategories() []ProfessionalCategory {
	return []ProfessionalCategory{
		{Name: "Médicos", Keywords: []string{"Médico", "Clínico"}},
		{Name: "Enfermagem", Keywords: []string{"Enferm", "Técnico de Enfermagem", "Enfermeiro"}},
		{Name: "Odontologia", Keywords: []string{"Odonto"}},
		{Name: "Assistente Social", Keywords: []string{"Social", "Assistente"}},
	}
}

// ProfessionalCategorizer 按关键字把专业人员归入分组
// 同一个值可以同时属于多个分组，未命中任何分组的值归为 "others"
type ProfessionalCategorizer struct {
	categories []ProfessionalCategory
	folded     [][]string
}

// NewProfessionalCategorizer 创建分组器
func NewProfessionalCategorizer(categories []ProfessionalCategory) *ProfessionalCategorizer {
	folded := make([][]string, len(categories))
	for i, c := range categories {
		for _, k := range c.Keywords {
			if f := textutil.Fold(k); f != "" {
				folded[i] = append(folded[i], f)
			}
		}
	}
	return &ProfessionalCategorizer{categories: categories, folded: folded}
}

// Categories 返回分组定义（保持配置顺序）
func (p *ProfessionalCategorizer) Categories() []ProfessionalCategory {
	return p.categories
}

// Categorize 返回 value 命中的分组名
func (p *ProfessionalCategorizer) Categorize(value string) []string {
	folded := textutil.Fold(value)
	if folded == "" {
		return nil
	}
	var names []string
	for i, c := range p.categories {
		for _, k := range p.folded[i] {
			if containsKeyword(folded, k) {
				names = append(names, c.Name)
				break
			}
		}
	}
	return names
}
