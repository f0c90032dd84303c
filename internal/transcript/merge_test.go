package transcript_test

import (
	"strings"
	"testing"

	"github.com/protokollo/protokollo/internal/transcript"
)

func TestMerge_SingleInputIsIdentity(t *testing.T) {
	t.Parallel()

	in := transcript.Result{
		FullText:        "hello world",
		SpeakerText:     "[00:01] Speaker 1:\nhello world",
		SpeakerCount:    2,
		Language:        "en",
		DurationSeconds: 42.5,
	}

	got := transcript.Merge([]transcript.Result{in})
	if got != in {
		t.Errorf("Merge([x]) = %+v, want x = %+v", got, in)
	}
	if strings.Contains(got.SpeakerText, "continued") {
		t.Error("single-input merge must not introduce a continuation separator")
	}
}

func TestMerge_DurationIsSum(t *testing.T) {
	t.Parallel()

	results := []transcript.Result{
		{DurationSeconds: 60, SpeakerCount: 2, Language: "ru"},
		{DurationSeconds: 90, SpeakerCount: 3, Language: "en"},
		{DurationSeconds: 0.5, SpeakerCount: 1, Language: "es"},
	}

	got := transcript.Merge(results)
	if got.DurationSeconds != 150.5 {
		t.Errorf("DurationSeconds = %v, want 150.5", got.DurationSeconds)
	}
}

func TestMerge_SpeakerCountIsMaxNotSum(t *testing.T) {
	t.Parallel()

	results := []transcript.Result{
		{SpeakerCount: 2},
		{SpeakerCount: 3},
		{SpeakerCount: 1},
	}

	got := transcript.Merge(results)
	if got.SpeakerCount != 3 {
		t.Errorf("SpeakerCount = %d, want 3 (max, not sum)", got.SpeakerCount)
	}
}

func TestMerge_LanguageIsFirstSourceWins(t *testing.T) {
	t.Parallel()

	results := []transcript.Result{
		{Language: "kk"},
		{Language: "en"},
	}

	if got := transcript.Merge(results).Language; got != "kk" {
		t.Errorf("Language = %q, want %q", got, "kk")
	}
}

func TestMerge_PreservesArrivalOrder(t *testing.T) {
	t.Parallel()

	a := transcript.Result{FullText: "first recording", SpeakerText: "A says hi"}
	b := transcript.Result{FullText: "second recording", SpeakerText: "B says bye"}

	got := transcript.Merge([]transcript.Result{a, b})

	ia := strings.Index(got.FullText, a.FullText)
	ib := strings.Index(got.FullText, b.FullText)
	if ia < 0 || ib < 0 || ia >= ib {
		t.Errorf("FullText order wrong: %q", got.FullText)
	}

	if !strings.Contains(got.SpeakerText, "--- (continued) ---") {
		t.Errorf("multi-input merge should insert continuation separator, got %q", got.SpeakerText)
	}
	if !strings.HasPrefix(got.SpeakerText, a.SpeakerText) {
		t.Errorf("SpeakerText should start with first source, got %q", got.SpeakerText)
	}
}

func TestMerge_Deterministic(t *testing.T) {
	t.Parallel()

	results := []transcript.Result{
		{FullText: "a", SpeakerText: "a", SpeakerCount: 1, Language: "en", DurationSeconds: 1},
		{FullText: "b", SpeakerText: "b", SpeakerCount: 4, Language: "ru", DurationSeconds: 2},
	}

	first := transcript.Merge(results)
	for i := 0; i < 10; i++ {
		if got := transcript.Merge(results); got != first {
			t.Fatalf("Merge not deterministic: run %d gave %+v, want %+v", i, got, first)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{61.9, "01:01"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		if got := transcript.FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
