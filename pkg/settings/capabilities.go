package settings

import "strings"

// ModelCapabilities flags what a model variant actually supports. Builders
// never request a capability the model doesn't have.
type ModelCapabilities struct {
	WebSearch bool
	Thinking  bool
	Efforts   []Effort
}

// Supports reports whether the model offers the given effort level.
func (c ModelCapabilities) Supports(e Effort) bool {
	for _, x := range c.Efforts {
		if x == e {
			return true
		}
	}
	return false
}

// capability table, keyed by model-name prefix, longest prefix wins.
var modelCapabilities = map[string]ModelCapabilities{
	"gpt-5-pro": {WebSearch: true, Thinking: true, Efforts: []Effort{EffortMedium, EffortHigh}},
	"gpt-5":     {WebSearch: true, Thinking: true, Efforts: []Effort{EffortMinimal, EffortLow, EffortMedium, EffortHigh}},
	"gpt-4":     {WebSearch: false, Thinking: false},
	"o3":        {WebSearch: true, Thinking: true, Efforts: []Effort{EffortLow, EffortMedium, EffortHigh}},
	"claude":    {WebSearch: true, Thinking: true, Efforts: []Effort{EffortLow, EffortMedium, EffortHigh}},
	"gemini":    {WebSearch: true, Thinking: true, Efforts: []Effort{EffortLow, EffortMedium, EffortHigh}},
}

// CapabilitiesFor returns the capability flags for a model, empty when the
// model is unknown.
func CapabilitiesFor(model string) ModelCapabilities {
	best := ""
	for prefix := range modelCapabilities {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return ModelCapabilities{}
	}
	return modelCapabilities[best]
}

// EffortOrFallback maps the requested effort onto one the model variant
// offers, degrading to the nearest supported level rather than failing.
func EffortOrFallback(model string, requested Effort) Effort {
	if requested == EffortNone {
		return EffortNone
	}
	caps := CapabilitiesFor(model)
	if len(caps.Efforts) == 0 {
		return EffortNone
	}
	if caps.Supports(requested) {
		return requested
	}
	// Walk up from the requested level to the first supported one, then down.
	order := []Effort{EffortMinimal, EffortLow, EffortMedium, EffortHigh}
	pos := 0
	for i, e := range order {
		if e == requested {
			pos = i
			break
		}
	}
	for i := pos + 1; i < len(order); i++ {
		if caps.Supports(order[i]) {
			return order[i]
		}
	}
	for i := pos - 1; i >= 0; i-- {
		if caps.Supports(order[i]) {
			return order[i]
		}
	}
	return caps.Efforts[0]
}

// AllowWebSearch gates tool enablement on both the caller request and the
// model capability flag.
func AllowWebSearch(model string, requested bool) bool {
	return requested && CapabilitiesFor(model).WebSearch
}
