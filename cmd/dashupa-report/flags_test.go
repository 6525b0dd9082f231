package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smspocoredondo/DashUPA/internal/filter"
)

func TestBuildFilter(t *testing.T) {
	f, err := buildFilter([]string{"priority=AMARELO", "priority=VERMELHO", "specialty = CLINICA"}, "2024-03-01", "", "22-5")
	require.NoError(t, err)

	assert.Equal(t, []string{"AMARELO", "VERMELHO"}, f.Values["priority"])
	assert.Equal(t, []string{"CLINICA"}, f.Values["specialty"])
	assert.Equal(t, "2024-03-01", f.DateFrom)
	require.NotNil(t, f.HourFrom)
	assert.Equal(t, 22, *f.HourFrom)
	assert.Equal(t, 5, *f.HourTo)
}

func TestBuildFilter_Errors(t *testing.T) {
	_, err := buildFilter([]string{"priority"}, "", "", "")
	assert.Error(t, err)

	_, err = buildFilter([]string{"ward=A"}, "", "", "")
	assert.ErrorIs(t, err, filter.ErrUnknownColumn)

	_, err = buildFilter(nil, "", "", "7")
	assert.Error(t, err)

	_, err = buildFilter(nil, "", "", "7-25")
	assert.ErrorIs(t, err, filter.ErrInvalidRange)

	_, err = buildFilter(nil, "2024-03-10", "2024-03-01", "")
	assert.ErrorIs(t, err, filter.ErrInvalidRange)
}
