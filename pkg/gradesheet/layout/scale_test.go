package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeight(t *testing.T) {
	tests := []struct {
		grade string
		want  float64
		ok    bool
	}{
		{"AD", 4, true},
		{"A", 3, true},
		{"B", 2, true},
		{"C", 1, true},
		{"", 0, false},
		{"ad", 0, false},
		{"14", 0, false},
	}
	for _, tt := range tests {
		got, ok := Weight(tt.grade)
		assert.Equal(t, tt.ok, ok, tt.grade)
		assert.Equal(t, tt.want, got, tt.grade)
	}
}

func TestMean(t *testing.T) {
	mean, ok := Mean([]float64{4, 3, 2})
	assert.True(t, ok)
	assert.Equal(t, 3.0, mean)

	mean, ok = Mean([]float64{4, 4, 3})
	assert.True(t, ok)
	assert.Equal(t, 3.67, mean)

	mean, ok = Mean([]float64{1, 2})
	assert.True(t, ok)
	assert.Equal(t, 1.5, mean)

	_, ok = Mean(nil)
	assert.False(t, ok)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.33, Round2(7.0/3))
	assert.Equal(t, 3.13, Round2(3.125))
	assert.Equal(t, 4.0, Round2(4))
}
