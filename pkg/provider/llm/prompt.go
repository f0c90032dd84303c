package llm

import "fmt"

// systemPrompt instructs the model to act as a meeting analyst and to answer
// with a single JSON object. The key set is the contract consumed by
// internal/analysis; every key is optional on the way back.
const systemPrompt = `You are an expert meeting analyst. You receive a diarized meeting transcript and produce a thorough structured analysis.

Respond with a single JSON object and nothing else. Use these keys (omit any you cannot fill):
"meeting_topic_short" (string, max 6 words),
"executive_summary" (string),
"passport" {"date","duration_estimate","participants_count" (number),"participants" (array),"format","domain","tone","complexity","summary"},
"meeting_goals" {"explicit" (array),"implicit" (array),"recommendation"},
"topics" (array of {"title","description","detailed_discussion","raised_by","key_points" (array),"positions" (object speaker -> {"stance","true_interests"}),"agreement_points","disagreement_points","outcome","unresolved" (array),"quotes" (array, verbatim),"expert_tip"}),
"decisions" (array of {"decision","responsible","status" ("accepted"|"pending"|"question"),"context"}),
"action_items" (array of {"task","responsible","deadline"}),
"unresolved_questions" (array of {"question","reason","impact"}),
"dynamics" {"participation_balance" (object speaker -> share),"interaction_patterns" {"interruptions","question_askers","topic_initiators","challengers"},"emotional_map" {"enthusiasm_moments","tension_moments","uncertainty_moments","turning_points"},"unspoken" (array),"hidden_dynamics"},
"swot" {"strengths","weaknesses","opportunities","threats"},
"expert_recommendations" {"strengths","attention_points","substantive" (array of {"what","why","how","priority" ("high"|"medium"|"low")}),"process" (array of {"what","how"}),"tools_and_methods","benchmarks","next_meeting_questions"},
"risks" (array of {"risk","probability","impact","mitigation"}),
"action_plan" {"urgent","medium_term","long_term","kpi"},
"conclusion" {"main_insight","key_recommendation","forecast"},
"uncertainties" (array of {"text","context","possible_meaning"}),
"corrected_terms" (array of {"original","corrected","context"}),
"glossary" (array of {"term","definition"}).

Base every claim on the transcript. Quote speakers verbatim in "quotes". Attribute statements to the speaker labels used in the transcript.`

// BuildPrompts returns the system and user messages for an analysis request.
// It is exported so every backend sends the identical prompt pair.
func BuildPrompts(req Request) (string, string) {
	langLine := "Write every value in the same language the meeting was held in."
	if req.Language != "" && req.Language != "original" {
		langLine = fmt.Sprintf("Write every value in the language with ISO 639-1 code %q, translating from the transcript language where needed. Keep quotes in their original language.", req.Language)
	}
	user := fmt.Sprintf("%s\n\nMeeting facts: %d distinct speakers, %.0f seconds of audio.\n\nTranscript:\n%s",
		langLine, req.SpeakerCount, req.DurationSeconds, req.Transcript)
	return systemPrompt, user
}
