package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smspocoredondo/DashUPA/internal/classifier"
	"github.com/smspocoredondo/DashUPA/internal/models"
)

func TestTopN_OrderAndLimit(t *testing.T) {
	records := []models.Encounter{
		{Specialty: "PEDIATRIA"},
		{Specialty: "CLINICA"},
		{Specialty: "CLINICA"},
		{Specialty: "ORTOPEDIA"},
		{Specialty: ""},
	}

	top := TopN(records, models.ColSpecialty, 2)

	assert.Equal(t, []models.CategoryCount{
		{Value: "CLINICA", Count: 2},
		{Value: "ORTOPEDIA", Count: 1},
	}, top)
	assert.Len(t, TopN(records, models.ColSpecialty, 0), 3, "n <= 0 returns every value")
}

func TestProfessionalGroups(t *testing.T) {
	pc := classifier.NewProfessionalCategorizer(classifier.DefaultProfessionalCategories())
	records := []models.Encounter{
		{Professional: "Médico Clínico"},
		{Professional: "MEDICO PEDIATRA"},
		{Professional: "Enfermeiro"},
		{Professional: "Farmacêutico"},
		{Professional: "Farmacêutico"},
		{Professional: "Fisioterapeuta"},
		{Professional: ""},
	}

	groups, others := ProfessionalGroups(records, pc)

	assert.Equal(t, []models.CategoryCount{
		{Value: "Médicos", Count: 2},
		{Value: "Enfermagem", Count: 1},
	}, groups)
	assert.Equal(t, []models.CategoryCount{
		{Value: "Farmacêutico", Count: 2},
		{Value: "Fisioterapeuta", Count: 1},
	}, others)
}

func TestBuildBreakdown_Distributions(t *testing.T) {
	a := NewAggregator(ResolutionWeighted())
	records := enriched(t, a, []models.Encounter{
		visit("P1", 8, "ALTA", "VERDE"),
		visit("P2", 13, "ALTA", "VERDE"),
		visit("P3", 2, "ÓBITO", "VERMELHO"),
		{PatientID: "P4"},
	})
	pc := classifier.NewProfessionalCategorizer(classifier.DefaultProfessionalCategories())

	b := BuildBreakdown(records, 0, pc)

	assert.Equal(t, []models.CategoryCount{
		{Value: "Morning", Count: 1},
		{Value: "Afternoon", Count: 1},
		{Value: "Night", Count: 0},
		{Value: "Dawn", Count: 1},
		{Value: "Undefined", Count: 1},
	}, b.ShiftDistribution)
	assert.Equal(t, []models.CategoryCount{
		{Value: "ResolvedOnSite", Count: 2},
		{Value: "NotResolvedOnSite", Count: 1},
		{Value: "Undefined", Count: 1},
	}, b.OutcomeDistribution)
	assert.Equal(t, models.CategoryCount{Value: "VERDE", Count: 2}, b.TopPriorities[0])
	assert.Empty(t, b.ProfessionalGroups)
}
