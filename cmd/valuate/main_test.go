package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esklenchen/server/internal/valuation"
)

func fixedNow() time.Time {
	return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
}

func runApp(t *testing.T, args ...string) (valuation.Result, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out, fixedNow).Run(append([]string{"valuate"}, args...))
	if err != nil {
		return valuation.Result{}, err
	}

	var result valuation.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	return result, nil
}

func TestValuate(t *testing.T) {
	tests := []struct {
		name             string
		args             []string
		expectedLocation string
		expectedAge      int
		rawValue         float64
	}{
		{
			name:             "Defaults",
			args:             []string{"--seed", "7"},
			expectedLocation: "Barcelona",
			expectedAge:      10,
			rawValue:         80*4200 + 8000,
		},
		{
			name: "Badalona flat",
			args: []string{"--seed", "7", "--surface", "80", "--rooms", "2", "--bathrooms", "1",
				"--location", "Badalona", "--type", "Flat", "--year-built", "2010", "--condition", "Good"},
			expectedLocation: "Badalona",
			expectedAge:      15,
			rawValue:         251200,
		},
		{
			name:             "Coordinates",
			args:             []string{"--seed", "7", "--lat", "41.45", "--lng", "2.2474", "--year-built", "2010"},
			expectedLocation: "Badalona",
			expectedAge:      15,
			rawValue:         251200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := runApp(t, tt.args...)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedLocation, result.Factors.Location)
			assert.Equal(t, tt.expectedAge, result.Factors.Age)
			assert.GreaterOrEqual(t, float64(result.EstimatedValue), tt.rawValue*0.9-1)
			assert.LessOrEqual(t, float64(result.EstimatedValue), tt.rawValue*1.1+1)
		})
	}
}

func TestValuate_SeedIsReproducible(t *testing.T) {
	first, err := runApp(t, "--seed", "42", "--surface", "95", "--location", "Sitges")
	require.NoError(t, err)
	second, err := runApp(t, "--seed", "42", "--surface", "95", "--location", "Sitges")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValuate_InvalidInput(t *testing.T) {
	_, err := runApp(t, "--surface", "-5")
	assert.ErrorIs(t, err, valuation.ErrInvalidInput)

	_, err = runApp(t, "--rooms", "-1")
	assert.ErrorIs(t, err, valuation.ErrInvalidInput)
}
