package analysis_test

import (
	"strings"
	"testing"

	"github.com/protokollo/protokollo/internal/analysis"
	"github.com/protokollo/protokollo/internal/transcript"
)

func TestDecode_EmptyDocument(t *testing.T) {
	t.Parallel()

	doc, err := analysis.Decode([]byte(`{}`))
	if err != nil {
		t.Fatalf("Decode({}): %v", err)
	}
	if doc.MeetingTopicShort != "" || len(doc.Topics) != 0 {
		t.Errorf("zero document expected, got %+v", doc)
	}
	if !doc.Dynamics.IsZero() || !doc.SWOT.IsZero() || !doc.Recommendations.IsZero() || !doc.ActionPlan.IsZero() {
		t.Error("all blocks of an empty document should report IsZero")
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	t.Parallel()

	if _, err := analysis.Decode([]byte(`{"topics": [`)); err == nil {
		t.Fatal("Decode of malformed JSON should error")
	}
}

func TestDecode_IgnoresUnknownAndPartialFields(t *testing.T) {
	t.Parallel()

	raw := `{
		"meeting_topic_short": "Roadmap",
		"totally_new_field": {"x": 1},
		"decisions": [{"decision": "Ship it", "status": "ACCEPTED"}],
		"risks": [{"risk": "scope creep", "probability": "высокая"}]
	}`
	doc, err := analysis.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.MeetingTopicShort != "Roadmap" {
		t.Errorf("topic = %q", doc.MeetingTopicShort)
	}
	if len(doc.Decisions) != 1 || doc.Decisions[0].Status != analysis.StatusAccepted {
		t.Errorf("decisions = %+v, want normalized accepted status", doc.Decisions)
	}
	if doc.Risks[0].Mitigation != "" {
		t.Errorf("missing mitigation should decode to empty, got %q", doc.Risks[0].Mitigation)
	}
}

func TestPositionMap_AcceptsObjectAndString(t *testing.T) {
	t.Parallel()

	raw := `{
		"topics": [{
			"title": "Hiring",
			"positions": {
				"Speaker 1": {"stance": "in favor", "weaknesses": "no budget plan"},
				"Speaker 2": "against, wants to wait a quarter"
			}
		}]
	}`
	doc, err := analysis.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	pos := doc.Topics[0].Positions
	if pos["Speaker 1"].Stance != "in favor" || pos["Speaker 1"].Weaknesses != "no budget plan" {
		t.Errorf("object position = %+v", pos["Speaker 1"])
	}
	if pos["Speaker 2"].Stance != "against, wants to wait a quarter" {
		t.Errorf("string position = %+v", pos["Speaker 2"])
	}
}

func TestDecisionStatus_Glyphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"accepted", "✅"},
		{"pending", "⏳"},
		{"question", "?"},
		{"whatever", "–"},
		{"", "–"},
	}
	for _, tt := range tests {
		if got := analysis.ParseDecisionStatus(tt.raw).Glyph(); got != tt.want {
			t.Errorf("ParseDecisionStatus(%q).Glyph() = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestPriority_Markers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"high", "[!!!]"},
		{"Medium", "[!!]"},
		{"low", "[!]"},
		{"urgent-ish", ""},
	}
	for _, tt := range tests {
		if got := analysis.ParsePriority(tt.raw).Marker(); got != tt.want {
			t.Errorf("ParsePriority(%q).Marker() = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestPreview_TruncatesSummary(t *testing.T) {
	t.Parallel()

	doc := &analysis.Document{
		MeetingTopicShort: "Quarterly review",
		ExecutiveSummary:  strings.Repeat("э", 500),
		Conclusion:        analysis.Conclusion{MainInsight: "Focus"},
	}
	merged := transcript.Result{SpeakerCount: 4, DurationSeconds: 3725}

	got := analysis.Preview(doc, merged)
	if !strings.Contains(got, "Quarterly review") {
		t.Errorf("preview missing topic: %q", got)
	}
	if !strings.Contains(got, "01:02:05") {
		t.Errorf("preview missing formatted duration: %q", got)
	}
	if !strings.Contains(got, "Participants: 4") {
		t.Errorf("preview should fall back to merged speaker count: %q", got)
	}
	if !strings.Contains(got, "…") {
		t.Error("long summary should be truncated with ellipsis")
	}
	if strings.Contains(got, strings.Repeat("э", 301)) {
		t.Error("summary exceeded truncation budget")
	}
}

func TestPreview_EmptyDocumentDoesNotPanic(t *testing.T) {
	t.Parallel()

	got := analysis.Preview(&analysis.Document{}, transcript.Result{})
	if !strings.Contains(got, "Meeting") {
		t.Errorf("empty-document preview should use fallback title, got %q", got)
	}
}
