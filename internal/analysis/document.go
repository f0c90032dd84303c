// Package analysis defines the structured result of the language-model
// analysis call. The vendor contract is a JSON document the model is asked
// to produce; nothing guarantees it actually does, so every block and field
// here is optional and a zero [Document] is fully renderable.
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Document is the analysis of one meeting. The JSON shape is a contract with
// the model prompt, not with a type system: absent fields decode to zero
// values, unknown fields are ignored, and the renderers treat every zero
// value as "omit this section". Documents are read-only once decoded.
type Document struct {
	MeetingTopicShort string `json:"meeting_topic_short"`
	ExecutiveSummary  string `json:"executive_summary"`

	Passport Passport     `json:"passport"`
	Goals    MeetingGoals `json:"meeting_goals"`

	Topics              []Topic              `json:"topics"`
	Decisions           []Decision           `json:"decisions"`
	ActionItems         []ActionItem         `json:"action_items"`
	UnresolvedQuestions []UnresolvedQuestion `json:"unresolved_questions"`

	Dynamics        Dynamics        `json:"dynamics"`
	SWOT            SWOT            `json:"swot"`
	Recommendations Recommendations `json:"expert_recommendations"`
	Risks           []Risk          `json:"risks"`
	ActionPlan      ActionPlan      `json:"action_plan"`
	Conclusion      Conclusion      `json:"conclusion"`

	Uncertainties  []Uncertainty   `json:"uncertainties"`
	CorrectedTerms []CorrectedTerm `json:"corrected_terms"`
	Glossary       []GlossaryEntry `json:"glossary"`
}

// Passport is the summary block at the top of a report.
type Passport struct {
	Date              string   `json:"date"`
	DurationEstimate  string   `json:"duration_estimate"`
	ParticipantsCount int      `json:"participants_count"`
	Participants      []string `json:"participants"`
	Format            string   `json:"format"`
	Domain            string   `json:"domain"`
	Tone              string   `json:"tone"`
	Complexity        string   `json:"complexity"`
	Summary           string   `json:"summary"`
}

// MeetingGoals lists stated and inferred goals of the meeting.
type MeetingGoals struct {
	Explicit       []string `json:"explicit"`
	Implicit       []string `json:"implicit"`
	Recommendation string   `json:"recommendation"`
}

// Topic is one discussed subject with its full narrative.
type Topic struct {
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	DetailedDiscussion string      `json:"detailed_discussion"`
	RaisedBy           string      `json:"raised_by"`
	KeyPoints          []string    `json:"key_points"`
	Positions          PositionMap `json:"positions"`
	AgreementPoints    []string    `json:"agreement_points"`
	DisagreementPoints []string    `json:"disagreement_points"`
	Outcome            string      `json:"outcome"`
	Unresolved         []string    `json:"unresolved"`
	Quotes             []string    `json:"quotes"`
	ExpertTip          string      `json:"expert_tip"`
}

// Position is one participant's stance on a topic.
type Position struct {
	Stance        string `json:"stance"`
	TrueInterests string `json:"true_interests"`
	Strengths     string `json:"strengths"`
	Weaknesses    string `json:"weaknesses"`
}

// PositionMap maps a participant label to their position. Models sometimes
// emit the position as a bare string instead of an object; both decode.
type PositionMap map[string]Position

// UnmarshalJSON accepts either {"Speaker 1": {"stance": ...}} or
// {"Speaker 1": "their position"}.
func (pm *PositionMap) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(PositionMap, len(raw))
	for speaker, val := range raw {
		trimmed := bytes.TrimSpace(val)
		if len(trimmed) > 0 && trimmed[0] == '"' {
			var s string
			if err := json.Unmarshal(trimmed, &s); err != nil {
				return fmt.Errorf("analysis: position for %q: %w", speaker, err)
			}
			out[speaker] = Position{Stance: s}
			continue
		}
		var p Position
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return fmt.Errorf("analysis: position for %q: %w", speaker, err)
		}
		out[speaker] = p
	}
	*pm = out
	return nil
}

// Speakers returns the participant labels in sorted order, for stable
// rendering of what is otherwise an unordered map.
func (pm PositionMap) Speakers() []string {
	out := make([]string, 0, len(pm))
	for sp := range pm {
		out = append(out, sp)
	}
	sort.Strings(out)
	return out
}

// Decision is something the participants actually agreed on.
type Decision struct {
	Decision    string         `json:"decision"`
	Responsible string         `json:"responsible"`
	Status      DecisionStatus `json:"status"`
	Context     string         `json:"context"`
}

// ActionItem is a task with an owner and a deadline.
type ActionItem struct {
	Task        string `json:"task"`
	Responsible string `json:"responsible"`
	Deadline    string `json:"deadline"`
}

// UnresolvedQuestion is a question the meeting left open.
type UnresolvedQuestion struct {
	Question string `json:"question"`
	Reason   string `json:"reason"`
	Impact   string `json:"impact"`
}

// Dynamics describes how the conversation flowed.
type Dynamics struct {
	ParticipationBalance map[string]string   `json:"participation_balance"`
	InteractionPatterns  InteractionPatterns `json:"interaction_patterns"`
	EmotionalMap         EmotionalMap        `json:"emotional_map"`
	Unspoken             []string            `json:"unspoken"`
	HiddenDynamics       string              `json:"hidden_dynamics"`
}

// IsZero reports whether the dynamics block carries nothing to render.
func (d Dynamics) IsZero() bool {
	return len(d.ParticipationBalance) == 0 &&
		d.InteractionPatterns.Interruptions == "" &&
		len(d.InteractionPatterns.QuestionAskers) == 0 &&
		len(d.InteractionPatterns.TopicInitiators) == 0 &&
		len(d.InteractionPatterns.Challengers) == 0 &&
		d.EmotionalMap.IsZero() &&
		len(d.Unspoken) == 0 &&
		d.HiddenDynamics == ""
}

// InteractionPatterns captures who drove the conversation.
type InteractionPatterns struct {
	Interruptions   string   `json:"interruptions"`
	QuestionAskers  []string `json:"question_askers"`
	TopicInitiators []string `json:"topic_initiators"`
	Challengers     []string `json:"challengers"`
}

// EmotionalMap lists notable emotional moments.
type EmotionalMap struct {
	EnthusiasmMoments  []string `json:"enthusiasm_moments"`
	TensionMoments     []string `json:"tension_moments"`
	UncertaintyMoments []string `json:"uncertainty_moments"`
	TurningPoints      []string `json:"turning_points"`
}

// IsZero reports whether no emotional moments were recorded.
func (em EmotionalMap) IsZero() bool {
	return len(em.EnthusiasmMoments) == 0 &&
		len(em.TensionMoments) == 0 &&
		len(em.UncertaintyMoments) == 0 &&
		len(em.TurningPoints) == 0
}

// SWOT is a strengths/weaknesses/opportunities/threats grid for the
// discussed subject.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// IsZero reports whether all four quadrants are empty.
func (s SWOT) IsZero() bool {
	return len(s.Strengths) == 0 && len(s.Weaknesses) == 0 &&
		len(s.Opportunities) == 0 && len(s.Threats) == 0
}

// Recommendations is the expert-recommendation block.
type Recommendations struct {
	Strengths            []string            `json:"strengths"`
	AttentionPoints      []string            `json:"attention_points"`
	Substantive          []SubstantiveAdvice `json:"substantive"`
	Process              []ProcessAdvice     `json:"process"`
	ToolsAndMethods      []string            `json:"tools_and_methods"`
	Benchmarks           []string            `json:"benchmarks"`
	NextMeetingQuestions []string            `json:"next_meeting_questions"`
}

// IsZero reports whether the recommendation block carries nothing.
func (r Recommendations) IsZero() bool {
	return len(r.Strengths) == 0 && len(r.AttentionPoints) == 0 &&
		len(r.Substantive) == 0 && len(r.Process) == 0 &&
		len(r.ToolsAndMethods) == 0 && len(r.Benchmarks) == 0 &&
		len(r.NextMeetingQuestions) == 0
}

// SubstantiveAdvice is a prioritized recommendation on the subject matter.
type SubstantiveAdvice struct {
	What     string   `json:"what"`
	Why      string   `json:"why"`
	How      string   `json:"how"`
	Priority Priority `json:"priority"`
}

// ProcessAdvice is a recommendation about how the meeting itself was run.
type ProcessAdvice struct {
	What string `json:"what"`
	How  string `json:"how"`
}

// Risk is a risk with its assessment and mitigation.
type Risk struct {
	Risk        string `json:"risk"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	Mitigation  string `json:"mitigation"`
}

// ActionPlan buckets follow-ups by horizon.
type ActionPlan struct {
	Urgent     []string `json:"urgent"`
	MediumTerm []string `json:"medium_term"`
	LongTerm   []string `json:"long_term"`
	KPI        []string `json:"kpi"`
}

// IsZero reports whether the plan has no entries in any bucket.
func (p ActionPlan) IsZero() bool {
	return len(p.Urgent) == 0 && len(p.MediumTerm) == 0 &&
		len(p.LongTerm) == 0 && len(p.KPI) == 0
}

// Conclusion is the closing block of the report.
type Conclusion struct {
	MainInsight       string `json:"main_insight"`
	KeyRecommendation string `json:"key_recommendation"`
	Forecast          string `json:"forecast"`
}

// Uncertainty is a phrase the model could not interpret confidently.
type Uncertainty struct {
	Text            string `json:"text"`
	Context         string `json:"context"`
	PossibleMeaning string `json:"possible_meaning"`
}

// CorrectedTerm records a speech-recognition mistake the model fixed.
type CorrectedTerm struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Context   string `json:"context"`
}

// GlossaryEntry explains a domain term for unprepared readers.
type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Decode parses a model response into a Document. Unknown fields are
// ignored and missing ones stay zero; the only error is malformed JSON.
// Decoding "{}" yields a valid, fully renderable zero document.
func Decode(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("analysis: decode document: %w", err)
	}
	return doc, nil
}
