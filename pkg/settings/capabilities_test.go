package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesForLongestPrefixWins(t *testing.T) {
	assert.Equal(t, []Effort{EffortMedium, EffortHigh}, CapabilitiesFor("gpt-5-pro-2025").Efforts)
	assert.Equal(t, []Effort{EffortMinimal, EffortLow, EffortMedium, EffortHigh}, CapabilitiesFor("gpt-5-mini").Efforts)
	assert.Empty(t, CapabilitiesFor("unknown-model").Efforts)
}

func TestEffortOrFallback(t *testing.T) {
	tests := []struct {
		name      string
		model     string
		requested Effort
		expected  Effort
	}{
		{"supported as-is", "gpt-5", EffortLow, EffortLow},
		{"degrades upward", "gpt-5-pro", EffortMinimal, EffortMedium},
		{"degrades downward", "o3-mini", EffortMinimal, EffortLow},
		{"none requested", "gpt-5", EffortNone, EffortNone},
		{"model without efforts", "gpt-4-turbo", EffortHigh, EffortNone},
		{"unknown model", "mystery", EffortHigh, EffortNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EffortOrFallback(tt.model, tt.requested))
		})
	}
}

func TestAllowWebSearch(t *testing.T) {
	assert.True(t, AllowWebSearch("gpt-5", true))
	assert.False(t, AllowWebSearch("gpt-5", false))
	assert.False(t, AllowWebSearch("gpt-4-turbo", true))
	assert.False(t, AllowWebSearch("unknown", true))
}
