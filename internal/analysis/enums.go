package analysis

import (
	"encoding/json"
	"strings"
)

// DecisionStatus is the agreed state of a decision. The model is prompted
// for "accepted" or "pending" but may emit anything, so unrecognized values
// land on an explicit Unspecified branch instead of a silent map miss.
type DecisionStatus string

const (
	StatusAccepted    DecisionStatus = "accepted"
	StatusPending     DecisionStatus = "pending"
	StatusQuestion    DecisionStatus = "question"
	StatusUnspecified DecisionStatus = ""
)

// ParseDecisionStatus normalizes a raw model value to a known status.
func ParseDecisionStatus(raw string) DecisionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accepted":
		return StatusAccepted
	case "pending":
		return StatusPending
	case "question":
		return StatusQuestion
	default:
		return StatusUnspecified
	}
}

// UnmarshalJSON decodes any string (or null) into a normalized status.
func (ds *DecisionStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// Tolerate non-string junk: treat as unspecified.
		*ds = StatusUnspecified
		return nil
	}
	*ds = ParseDecisionStatus(raw)
	return nil
}

// Glyph returns the report marker for the status.
func (ds DecisionStatus) Glyph() string {
	switch ds {
	case StatusAccepted:
		return "✅"
	case StatusPending:
		return "⏳"
	case StatusQuestion:
		return "?"
	default:
		return "–"
	}
}

// Priority ranks a substantive recommendation. Same tolerance rules as
// [DecisionStatus]: anything unrecognized is Unspecified, deliberately.
type Priority string

const (
	PriorityHigh        Priority = "high"
	PriorityMedium      Priority = "medium"
	PriorityLow         Priority = "low"
	PriorityUnspecified Priority = ""
)

// ParsePriority normalizes a raw model value to a known priority.
func ParsePriority(raw string) Priority {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	case "low":
		return PriorityLow
	default:
		return PriorityUnspecified
	}
}

// UnmarshalJSON decodes any string (or null) into a normalized priority.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*p = PriorityUnspecified
		return nil
	}
	*p = ParsePriority(raw)
	return nil
}

// Marker returns the urgency marker shown before a recommendation.
func (p Priority) Marker() string {
	switch p {
	case PriorityHigh:
		return "[!!!]"
	case PriorityMedium:
		return "[!!]"
	case PriorityLow:
		return "[!]"
	default:
		return ""
	}
}
