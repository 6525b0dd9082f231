package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"":                          "",
		"  Alta após  observação ":  "ALTA APOS OBSERVACAO",
		"Óbito":                     "OBITO",
		"Evasão":                    "EVASAO",
		"técnico de ENFERMAGEM":     "TECNICO DE ENFERMAGEM",
		"Classificação\tde   Risco": "CLASSIFICACAO DE RISCO",
	}
	for in, want := range cases {
		assert.Equal(t, want, Fold(in), "input %q", in)
	}
}

func TestContainsFolded(t *testing.T) {
	folded := Fold("Transferência para hospital de referência")
	assert.True(t, ContainsFolded(folded, "transferencia"))
	assert.True(t, ContainsFolded(folded, "Hospital"))
	assert.False(t, ContainsFolded(folded, "óbito"))
	assert.False(t, ContainsFolded(folded, "   "))
}
