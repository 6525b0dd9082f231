package report

import (
	"fmt"
	"time"

	"github.com/smspocoredondo/DashUPA/internal/aggregator"
	"github.com/smspocoredondo/DashUPA/internal/filter"
	"github.com/smspocoredondo/DashUPA/internal/models"
)

// SectionKind 报告章节，顺序固定
type SectionKind string

const (
	SectionIntro       SectionKind = "intro"
	SectionMethodology SectionKind = "methodology"
	SectionIndicators  SectionKind = "indicators"
	SectionEvaluation  SectionKind = "evaluation"
	SectionConclusion  SectionKind = "conclusion"
)

// SectionOrder 章节输出顺序
var SectionOrder = []SectionKind{
	SectionIntro,
	SectionMethodology,
	SectionIndicators,
	SectionEvaluation,
	SectionConclusion,
}

// Section 一个章节
type Section struct {
	Kind       SectionKind `json:"kind"`
	Title      string      `json:"title"`
	Paragraphs []string    `json:"paragraphs"`
}

// IndicatorFormat 指标展示格式
type IndicatorFormat string

const (
	FormatCount   IndicatorFormat = "count"
	FormatPercent IndicatorFormat = "percent"
	FormatScore   IndicatorFormat = "score"
	FormatText    IndicatorFormat = "text"
)

// Indicator 指标表中的一行
type Indicator struct {
	Name   string          `json:"name"`
	Value  any             `json:"value"`
	Format IndicatorFormat `json:"format"`
}

// Input 生成报告所需的数据
type Input struct {
	UnitName       string
	Metrics        models.Metrics
	Breakdown      models.Breakdown
	Filter         filter.Filter
	Profile        aggregator.ScoringProfile
	KeywordProfile string
	SourceFiles    []string
	GeneratedAt    time.Time
}

// Report 报告内容（与文件格式无关）
type Report struct {
	Title       string           `json:"title"`
	UnitName    string           `json:"unit_name"`
	GeneratedAt time.Time        `json:"generated_at"`
	Sections    []Section        `json:"sections"`
	Indicators  []Indicator      `json:"indicators"`
	Breakdown   models.Breakdown `json:"breakdown"`
}

// Build 按固定章节顺序组装报告
func Build(in Input) *Report {
	if in.UnitName == "" {
		in.UnitName = "UPA 24H"
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now().UTC()
	}
	m := in.Metrics

	r := &Report{
		Title:       fmt.Sprintf("Relatório de Atendimentos - %s", in.UnitName),
		UnitName:    in.UnitName,
		GeneratedAt: in.GeneratedAt,
		Indicators:  indicators(m),
		Breakdown:   in.Breakdown,
	}

	for _, kind := range SectionOrder {
		var s Section
		switch kind {
		case SectionIntro:
			s = introSection(in)
		case SectionMethodology:
			s = methodologySection(in)
		case SectionIndicators:
			s = indicatorsSection(m)
		case SectionEvaluation:
			s = evaluationSection(m)
		case SectionConclusion:
			s = conclusionSection(in.UnitName, m)
		}
		s.Kind = kind
		r.Sections = append(r.Sections, s)
	}
	return r
}

func indicators(m models.Metrics) []Indicator {
	return []Indicator{
		{Name: "Total de atendimentos", Value: m.TotalCount, Format: FormatCount},
		{Name: "Taxa de resolutividade", Value: m.ResolutionRate, Format: FormatPercent},
		{Name: "Taxa de retorno em 72h", Value: m.ReturnRate72h, Format: FormatPercent},
		{Name: "Resolutividade na triagem amarela", Value: m.YellowTriageResolutionRate, Format: FormatPercent},
		{Name: "Escore composto", Value: m.CompositeScore, Format: FormatScore},
		{Name: "Status", Value: StatusText(m.StatusLabel), Format: FormatText},
		{Name: "Resolvidos na unidade", Value: m.ResolvedCount, Format: FormatCount},
		{Name: "Não resolvidos na unidade", Value: m.NotResolvedCount, Format: FormatCount},
		{Name: "Desfecho indefinido", Value: m.UndefinedOutcomeCount, Format: FormatCount},
		{Name: "Retornos em 72h", Value: m.ReturnCount, Format: FormatCount},
		{Name: "Atendimentos com triagem amarela", Value: m.YellowCount, Format: FormatCount},
	}
}

// StatusText 状态标签的展示文本
func StatusText(label models.StatusLabel) string {
	switch label {
	case models.StatusHighResolutivity:
		return "Alta resolutividade"
	case models.StatusModerateResolutivity:
		return "Resolutividade moderada"
	default:
		return "Baixa resolutividade"
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func introSection(in Input) Section {
	paras := []string{
		fmt.Sprintf("Este relatório resume os atendimentos registrados na %s a partir de %d registro(s) após a aplicação dos filtros.",
			in.UnitName, in.Metrics.TotalCount),
		fmt.Sprintf("Gerado em %s.", in.GeneratedAt.Format("02/01/2006 15:04")),
	}
	if len(in.SourceFiles) > 0 {
		paras = append(paras, fmt.Sprintf("Arquivos analisados: %d.", len(in.SourceFiles)))
	}
	if desc := in.Filter.Describe(); len(desc) > 0 {
		for _, d := range desc {
			paras = append(paras, "Filtro: "+d)
		}
	} else {
		paras = append(paras, "Nenhum filtro aplicado.")
	}
	return Section{Title: "Introdução", Paragraphs: paras}
}

func methodologySection(in Input) Section {
	p := in.Profile.WithDefaults()
	w := p.Weights
	return Section{
		Title: "Metodologia",
		Paragraphs: []string{
			"Cada atendimento é classificado por turno (manhã 06-12h, tarde 12-18h, noite 18-24h, madrugada 00-06h) e por desfecho a partir do motivo da alta.",
			fmt.Sprintf("Desfechos classificados com o perfil de palavras-chave %q.", in.KeywordProfile),
			fmt.Sprintf("Retorno: novo atendimento do mesmo paciente em até %.0f horas após o atendimento anterior.", p.ReturnWindowHours),
			fmt.Sprintf("Escore composto (perfil %q) = resolutividade x %.2f + (1 - retorno) x %.2f + resolutividade amarela x %.2f.",
				p.Name, w.Resolution, w.NonReturn, w.YellowResolution),
			fmt.Sprintf("Status: alta a partir de %.2f, moderada a partir de %.2f, baixa abaixo disso.",
				p.Thresholds.High, p.Thresholds.Moderate),
		},
	}
}

func indicatorsSection(m models.Metrics) Section {
	return Section{
		Title: "Indicadores",
		Paragraphs: []string{
			fmt.Sprintf("Total de atendimentos: %d.", m.TotalCount),
			fmt.Sprintf("Taxa de resolutividade: %s.", percent(m.ResolutionRate)),
			fmt.Sprintf("Taxa de retorno em 72h: %s.", percent(m.ReturnRate72h)),
			fmt.Sprintf("Resolutividade na triagem amarela: %s.", percent(m.YellowTriageResolutionRate)),
			fmt.Sprintf("Escore composto: %.3f.", m.CompositeScore),
		},
	}
}

func evaluationSection(m models.Metrics) Section {
	var text string
	switch m.StatusLabel {
	case models.StatusHighResolutivity:
		text = "A unidade apresenta alta resolutividade: a maior parte dos casos é concluída no próprio serviço, com baixo índice de retorno."
	case models.StatusModerateResolutivity:
		text = "A unidade apresenta resolutividade moderada: há espaço para reduzir encaminhamentos e retornos precoces."
	default:
		text = "A unidade apresenta baixa resolutividade: recomenda-se revisar fluxos de encaminhamento e o acompanhamento dos retornos."
	}
	paras := []string{text}
	if m.TotalCount == 0 {
		paras = append(paras, "Não há atendimentos no recorte selecionado; todos os indicadores são zero.")
	}
	return Section{Title: "Avaliação", Paragraphs: paras}
}

func conclusionSection(unit string, m models.Metrics) Section {
	return Section{
		Title: "Conclusão",
		Paragraphs: []string{
			fmt.Sprintf("Com escore composto de %.3f, a %s é classificada como: %s.",
				m.CompositeScore, unit, StatusText(m.StatusLabel)),
		},
	}
}
