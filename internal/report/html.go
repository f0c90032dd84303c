package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/protokollo/protokollo/internal/analysis"
)

// HTML renders the self-contained interactive report: one file with embedded
// styles and a small tab switcher, no external assets. Tabs whose sections
// are entirely empty are not emitted.
func (r *Renderer) HTML(doc *analysis.Document, lang, transcript string) Artifact {
	if doc == nil {
		doc = &analysis.Document{}
	}
	code := ResolveLanguage(lang, doc)
	str := Lookup(code)
	now := r.now()
	topic := topicOrDefault(doc, str)

	h := &htmlWriter{str: str}
	h.head(code, topic)

	h.raw(`<header><div class="wrap"><h1>` + Esc(topic) + `</h1><p class="sub">` +
		Brand + ` • ` + str.ReportFrom + ` ` + now.Format("2006-01-02") + `</p></div></header>`)

	type tab struct {
		id, label string
		body      string
	}
	tabs := []tab{{"ov", str.Overview, h.overview(doc)}}
	if body := h.topics(doc); body != "" {
		tabs = append(tabs, tab{"tp", str.Topics, body})
	}
	if body := h.decisions(doc); body != "" {
		tabs = append(tabs, tab{"dc", str.Decisions, body})
	}
	if body := h.dynamics(doc); body != "" {
		tabs = append(tabs, tab{"dy", str.Dynamics, body})
	}
	if body := h.recommendations(doc); body != "" {
		tabs = append(tabs, tab{"rc", str.Recommendations, body})
	}
	if body := h.uncertainties(doc); body != "" {
		tabs = append(tabs, tab{"un", str.Uncertainties, body})
	}
	if body := h.glossary(doc); body != "" {
		tabs = append(tabs, tab{"gl", str.Glossary, body})
	}
	tabs = append(tabs, tab{"tr", str.Transcript, h.transcript(transcript)})

	h.raw(`<nav class="wrap">`)
	for i, t := range tabs {
		cls := "tab"
		if i == 0 {
			cls = "tab on"
		}
		h.raw(fmt.Sprintf(`<button class="%s" id="b-%s" onclick="go('%s')">%s</button>`,
			cls, t.id, t.id, Esc(t.label)))
	}
	h.raw(`</nav><main class="wrap">`)
	for i, t := range tabs {
		display := ` style="display:none"`
		if i == 0 {
			display = ""
		}
		h.raw(fmt.Sprintf(`<section id="s-%s"%s>%s</section>`, t.id, display, t.body))
	}
	h.raw(`</main>`)

	h.raw(`<footer><div class="wrap">` + Brand + ` • ` + str.Footer + ` • ` +
		str.Generated + ` ` + now.Format("2006-01-02 15:04") + `</div></footer>`)
	h.raw(`<script>
function go(id){
 document.querySelectorAll('main section').forEach(s=>s.style.display='none');
 document.querySelectorAll('nav .tab').forEach(b=>b.classList.remove('on'));
 document.getElementById('s-'+id).style.display='';
 document.getElementById('b-'+id).classList.add('on');
}
function tog(el){el.parentElement.classList.toggle('open');}
</script></body></html>`)

	return Artifact{
		Name: HTMLName(topic, now),
		Data: []byte(h.b.String()),
	}
}

type htmlWriter struct {
	b   strings.Builder
	str Strings
}

func (h *htmlWriter) raw(s string) { h.b.WriteString(s) }

func (h *htmlWriter) head(lang, topic string) {
	h.raw(`<!DOCTYPE html><html lang="` + lang + `"><head><meta charset="utf-8">` +
		`<meta name="viewport" content="width=device-width,initial-scale=1">` +
		`<title>` + Esc(topic) + ` — ` + Brand + `</title><style>
:root{--accent:#2b6cb0;--ink:#1a202c;--muted:#718096;--bg:#f7fafc;--card:#fff;--line:#e2e8f0}
*{box-sizing:border-box}body{margin:0;font:16px/1.55 system-ui,-apple-system,'Segoe UI',sans-serif;color:var(--ink);background:var(--bg)}
.wrap{max-width:960px;margin:0 auto;padding:0 20px}
header{background:var(--accent);color:#fff;padding:28px 0}header h1{margin:0;font-size:1.6em}.sub{margin:6px 0 0;opacity:.85}
nav{display:flex;flex-wrap:wrap;gap:6px;padding:14px 20px}
.tab{border:1px solid var(--line);background:var(--card);border-radius:18px;padding:7px 15px;cursor:pointer;font-size:.92em}
.tab.on{background:var(--accent);color:#fff;border-color:var(--accent)}
main{padding-bottom:30px}
h2{font-size:1.15em;color:var(--accent);margin:26px 0 10px}
h2.sm{font-size:.98em;color:var(--ink)}
.card{background:var(--card);border:1px solid var(--line);border-radius:10px;padding:16px 18px;margin:10px 0}
table{border-collapse:collapse;width:100%;background:var(--card)}
th,td{border:1px solid var(--line);padding:8px 10px;text-align:left;vertical-align:top;font-size:.93em}
th{background:#edf2f7}
.kv{color:var(--muted);font-size:.9em;margin:4px 0}.kv b{color:var(--ink)}
.topic .body{display:none}.topic.open .body{display:block}
.topic h3{margin:0;cursor:pointer;font-size:1em}.topic h3::before{content:'▸ '}.topic.open h3::before{content:'▾ '}
.bar{background:#e2e8f0;border-radius:6px;height:14px;overflow:hidden;margin:3px 0 9px}
.bar i{display:block;height:100%;background:var(--accent)}
.quote{border-left:3px solid var(--accent);padding:4px 12px;margin:8px 0;color:var(--muted);font-style:italic}
.pri-high{color:#c53030}.pri-med{color:#b7791f}.pri-low{color:#2f855a}
.swot{display:grid;grid-template-columns:1fr 1fr;gap:10px}
.swot .card h3{margin-top:0;font-size:.95em}
pre.tr{white-space:pre-wrap;background:var(--card);border:1px solid var(--line);border-radius:10px;padding:16px;font:.88em/1.6 ui-monospace,monospace}
footer{border-top:1px solid var(--line);color:var(--muted);font-size:.85em;padding:14px 0;margin-top:20px}
</style></head><body>`)
}

func (h *htmlWriter) kv(label, val string) string {
	if val == "" {
		return ""
	}
	return `<p class="kv"><b>` + Esc(label) + `:</b> ` + Esc(val) + `</p>`
}

func (h *htmlWriter) list(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, it := range items {
		b.WriteString("<li>" + Esc(it) + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

func (h *htmlWriter) labeledList(label string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return `<p><b>` + Esc(label) + `</b></p>` + h.list(items)
}

func (h *htmlWriter) overview(doc *analysis.Document) string {
	var b strings.Builder
	if doc.ExecutiveSummary != "" {
		b.WriteString(`<h2>` + Esc(h.str.Summary) + `</h2><div class="card">` +
			Esc(doc.ExecutiveSummary) + `</div>`)
	}
	p := doc.Passport
	participants := ""
	if p.ParticipantsCount > 0 {
		participants = strconv.Itoa(p.ParticipantsCount)
		if len(p.Participants) > 0 {
			participants += " (" + strings.Join(p.Participants, ", ") + ")"
		}
	} else if len(p.Participants) > 0 {
		participants = strings.Join(p.Participants, ", ")
	}
	pass := h.kv(h.str.Date, p.Date) + h.kv(h.str.Duration, p.DurationEstimate) +
		h.kv(h.str.Participants, participants) + h.kv(h.str.Format, p.Format) +
		h.kv(h.str.Domain, p.Domain) + h.kv(h.str.Tone, p.Tone)
	if pass != "" {
		b.WriteString(`<div class="card">` + pass + `</div>`)
	}
	g := doc.Goals
	if len(g.Explicit) > 0 || len(g.Implicit) > 0 || g.Recommendation != "" {
		b.WriteString(`<h2>` + Esc(h.str.Goals) + `</h2><div class="card">` +
			h.labeledList(h.str.ExplicitGoals, g.Explicit) +
			h.labeledList(h.str.ImplicitGoals, g.Implicit) +
			h.kv(h.str.Recommendation, g.Recommendation) + `</div>`)
	}
	c := doc.Conclusion
	if c.MainInsight != "" || c.KeyRecommendation != "" || c.Forecast != "" {
		b.WriteString(`<h2>` + Esc(h.str.ConclusionTitle) + `</h2><div class="card">` +
			h.kv(h.str.MainInsight, c.MainInsight) +
			h.kv(h.str.KeyRecommendation, c.KeyRecommendation) +
			h.kv(h.str.Forecast, c.Forecast) + `</div>`)
	}
	if b.Len() == 0 {
		b.WriteString(`<div class="card">–</div>`)
	}
	return b.String()
}

func (h *htmlWriter) topics(doc *analysis.Document) string {
	if len(doc.Topics) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<h2>` + Esc(h.str.Topics) + `</h2>`)
	for i, t := range doc.Topics {
		name := t.Title
		if name == "" {
			name = fmt.Sprintf("%s %d", h.str.Topic, i+1)
		}
		open := ""
		if i == 0 {
			open = " open"
		}
		b.WriteString(`<div class="card topic` + open + `"><h3 onclick="tog(this)">` +
			Esc(name) + `</h3><div class="body">`)
		if t.Description != "" {
			b.WriteString(`<p>` + Esc(t.Description) + `</p>`)
		}
		b.WriteString(h.kv(h.str.RaisedBy, t.RaisedBy))
		if t.DetailedDiscussion != "" {
			b.WriteString(`<p><b>` + Esc(h.str.Discussion) + `</b></p><p>` +
				Esc(t.DetailedDiscussion) + `</p>`)
		}
		b.WriteString(h.labeledList(h.str.KeyPoints, t.KeyPoints))
		if len(t.Positions) > 0 {
			b.WriteString(`<p><b>` + Esc(h.str.Positions) + `</b></p><ul>`)
			for _, sp := range t.Positions.Speakers() {
				pos := t.Positions[sp]
				line := `<b>` + Esc(sp) + `</b>: ` + Esc(orDash(pos.Stance))
				if pos.TrueInterests != "" {
					line += ` <span class="kv">(` + Esc(pos.TrueInterests) + `)</span>`
				}
				b.WriteString(`<li>` + line + `</li>`)
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(h.kv(h.str.Outcome, t.Outcome))
		for j, q := range t.Quotes {
			if j >= 2 {
				break
			}
			b.WriteString(`<div class="quote">«` + Esc(q) + `»</div>`)
		}
		b.WriteString(h.labeledList(h.str.Unresolved, t.Unresolved))
		if t.ExpertTip != "" {
			b.WriteString(`<p class="kv">💡 ` + Esc(t.ExpertTip) + `</p>`)
		}
		b.WriteString(`</div></div>`)
	}
	return b.String()
}

func (h *htmlWriter) decisions(doc *analysis.Document) string {
	if len(doc.Decisions) == 0 && len(doc.ActionItems) == 0 && len(doc.UnresolvedQuestions) == 0 {
		return ""
	}
	var b strings.Builder
	if len(doc.Decisions) > 0 {
		b.WriteString(`<h2>` + Esc(h.str.Decisions) + `</h2><table><tr><th>` +
			Esc(h.str.Decision) + `</th><th>` + Esc(h.str.Responsible) + `</th><th>` +
			Esc(h.str.Status) + `</th></tr>`)
		for _, d := range doc.Decisions {
			b.WriteString(`<tr><td>` + Esc(orDash(d.Decision)) + `</td><td>` +
				Esc(orDash(d.Responsible)) + `</td><td>` + d.Status.Glyph() + `</td></tr>`)
		}
		b.WriteString(`</table>`)
	}
	if len(doc.ActionItems) > 0 {
		b.WriteString(`<h2>` + Esc(h.str.Tasks) + `</h2><table><tr><th>` +
			Esc(h.str.Task) + `</th><th>` + Esc(h.str.Responsible) + `</th><th>` +
			Esc(h.str.Deadline) + `</th></tr>`)
		for _, a := range doc.ActionItems {
			b.WriteString(`<tr><td>` + Esc(orDash(a.Task)) + `</td><td>` +
				Esc(orDash(a.Responsible)) + `</td><td>` + Esc(orDash(a.Deadline)) +
				`</td></tr>`)
		}
		b.WriteString(`</table>`)
	}
	if len(doc.UnresolvedQuestions) > 0 {
		b.WriteString(`<h2>` + Esc(h.str.OpenQuestions) + `</h2>`)
		for _, q := range doc.UnresolvedQuestions {
			b.WriteString(`<div class="card"><p>` + Esc(orDash(q.Question)) + `</p>` +
				h.kv(h.str.Reason, q.Reason) + h.kv(h.str.Impact, q.Impact) + `</div>`)
		}
	}
	return b.String()
}

func (h *htmlWriter) dynamics(doc *analysis.Document) string {
	d := doc.Dynamics
	if d.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<h2>` + Esc(h.str.Dynamics) + `</h2>`)
	if len(d.ParticipationBalance) > 0 {
		b.WriteString(`<div class="card"><p><b>` + Esc(h.str.Participation) + `</b></p>`)
		for _, sp := range sortedKeys(d.ParticipationBalance) {
			share := d.ParticipationBalance[sp]
			b.WriteString(`<p class="kv"><b>` + Esc(sp) + `</b> — ` + Esc(orDash(share)) + `</p>`)
			if pct, ok := parsePercent(share); ok {
				b.WriteString(fmt.Sprintf(`<div class="bar"><i style="width:%d%%"></i></div>`, pct))
			}
		}
		b.WriteString(`</div>`)
	}
	ip := d.InteractionPatterns
	inter := h.kv(h.str.Interruptions, ip.Interruptions) +
		h.kv(h.str.TopicInitiators, strings.Join(ip.TopicInitiators, ", "))
	if inter != "" {
		b.WriteString(`<div class="card">` + inter + `</div>`)
	}
	em := d.EmotionalMap
	if !em.IsZero() {
		b.WriteString(`<div class="card">` +
			h.kv(h.str.Enthusiasm, strings.Join(em.EnthusiasmMoments, "; ")) +
			h.kv(h.str.Tension, strings.Join(em.TensionMoments, "; ")) +
			h.kv(h.str.Uncertainty, strings.Join(em.UncertaintyMoments, "; ")) +
			h.labeledList(h.str.TurningPoints, em.TurningPoints) + `</div>`)
	}
	if len(d.Unspoken) > 0 || d.HiddenDynamics != "" {
		b.WriteString(`<h2>` + Esc(h.str.BetweenLines) + `</h2><div class="card">` +
			h.list(d.Unspoken))
		if d.HiddenDynamics != "" {
			b.WriteString(`<p>` + Esc(d.HiddenDynamics) + `</p>`)
		}
		b.WriteString(`</div>`)
	}
	return b.String()
}

func (h *htmlWriter) recommendations(doc *analysis.Document) string {
	var b strings.Builder
	rec := doc.Recommendations
	if !rec.IsZero() {
		b.WriteString(`<h2>` + Esc(h.str.Recommendations) + `</h2>`)
		if len(rec.Strengths) > 0 || len(rec.AttentionPoints) > 0 {
			b.WriteString(`<div class="card">` +
				h.labeledList(h.str.SWOTStrengths, rec.Strengths) +
				h.labeledList(h.str.Unresolved, rec.AttentionPoints) + `</div>`)
		}
		if len(rec.Substantive) > 0 {
			b.WriteString(`<h2 class="sm">` + Esc(h.str.BySubstance) + `</h2>`)
			for _, a := range rec.Substantive {
				b.WriteString(`<div class="card"><p><span class="` + priClass(a.Priority) + `">` +
					priIcon(a.Priority) + `</span> ` + Esc(orDash(a.What)) + `</p>` +
					h.kv(h.str.Why, a.Why) + h.kv(h.str.How, a.How) + `</div>`)
			}
		}
		if len(rec.Process) > 0 {
			b.WriteString(`<h2 class="sm">` + Esc(h.str.ByProcess) + `</h2>`)
			for _, a := range rec.Process {
				b.WriteString(`<div class="card"><p>` + Esc(orDash(a.What)) + `</p>` +
					h.kv(h.str.How, a.How) + `</div>`)
			}
		}
		if len(rec.ToolsAndMethods) > 0 {
			b.WriteString(`<h2 class="sm">` + Esc(h.str.ToolsMethods) + `</h2><div class="card">` +
				h.list(rec.ToolsAndMethods) + `</div>`)
		}
		if len(rec.Benchmarks) > 0 {
			b.WriteString(`<h2 class="sm">` + Esc(h.str.Benchmarks) + `</h2><div class="card">` +
				h.list(rec.Benchmarks) + `</div>`)
		}
		if len(rec.NextMeetingQuestions) > 0 {
			b.WriteString(`<h2 class="sm">` + Esc(h.str.NextMeeting) + `</h2><div class="card">` +
				h.list(rec.NextMeetingQuestions) + `</div>`)
		}
	}
	sw := doc.SWOT
	if !sw.IsZero() {
		b.WriteString(`<h2>` + Esc(h.str.SWOTTitle) + `</h2><div class="swot">` +
			swotCell(h.str.SWOTStrengths, sw.Strengths) +
			swotCell(h.str.SWOTWeaknesses, sw.Weaknesses) +
			swotCell(h.str.SWOTOpportunities, sw.Opportunities) +
			swotCell(h.str.SWOTThreats, sw.Threats) + `</div>`)
	}
	if len(doc.Risks) > 0 {
		b.WriteString(`<h2>` + Esc(h.str.RisksTitle) + `</h2><table><tr><th>` +
			Esc(h.str.Risk) + `</th><th>` + Esc(h.str.Probability) + `</th><th>` +
			Esc(h.str.Impact) + `</th><th>` + Esc(h.str.Mitigation) + `</th></tr>`)
		for _, rk := range doc.Risks {
			b.WriteString(`<tr><td>` + Esc(orDash(rk.Risk)) + `</td><td>` +
				Esc(orDash(rk.Probability)) + `</td><td>` + Esc(orDash(rk.Impact)) +
				`</td><td>` + Esc(orDash(rk.Mitigation)) + `</td></tr>`)
		}
		b.WriteString(`</table>`)
	}
	ap := doc.ActionPlan
	if !ap.IsZero() {
		b.WriteString(`<h2>` + Esc(h.str.ActionPlanTitle) + `</h2><div class="card">` +
			h.labeledList(h.str.Urgent, ap.Urgent) +
			h.labeledList(h.str.MediumTerm, ap.MediumTerm) +
			h.labeledList(h.str.LongTerm, ap.LongTerm) +
			h.labeledList(h.str.KPILabel, ap.KPI) + `</div>`)
	}
	return b.String()
}

func (h *htmlWriter) uncertainties(doc *analysis.Document) string {
	if len(doc.Uncertainties) == 0 && len(doc.CorrectedTerms) == 0 {
		return ""
	}
	var b strings.Builder
	if len(doc.Uncertainties) > 0 {
		b.WriteString(`<h2>` + Esc(h.str.Uncertainties) + `</h2>`)
		for _, u := range doc.Uncertainties {
			b.WriteString(`<div class="card"><p>«` + Esc(orDash(u.Text)) + `»</p>` +
				h.kv(h.str.Context, u.Context) +
				h.kv(h.str.Possibly, u.PossibleMeaning) + `</div>`)
		}
	}
	if len(doc.CorrectedTerms) > 0 {
		b.WriteString(`<h2>` + Esc(h.str.Corrections) + `</h2><div class="card"><ul>`)
		for _, c := range doc.CorrectedTerms {
			b.WriteString(`<li>«` + Esc(c.Original) + `» → ` + Esc(c.Corrected) + `</li>`)
		}
		b.WriteString(`</ul></div>`)
	}
	return b.String()
}

func (h *htmlWriter) glossary(doc *analysis.Document) string {
	if len(doc.Glossary) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<h2>` + Esc(h.str.Glossary) + `</h2><div class="card"><ul>`)
	for _, g := range doc.Glossary {
		b.WriteString(`<li><b>` + Esc(g.Term) + `</b> — ` + Esc(g.Definition) + `</li>`)
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

func (h *htmlWriter) transcript(transcript string) string {
	if transcript == "" {
		return `<div class="card">` + Esc(h.str.TranscriptUnavailable) + `</div>`
	}
	return `<h2>` + Esc(h.str.Transcript) + `</h2><pre class="tr">` + Esc(transcript) + `</pre>`
}

func swotCell(title string, items []string) string {
	var b strings.Builder
	b.WriteString(`<div class="card"><h3>` + Esc(title) + `</h3>`)
	if len(items) == 0 {
		b.WriteString(`<p class="kv">–</p>`)
	} else {
		b.WriteString("<ul>")
		for _, it := range items {
			b.WriteString("<li>" + Esc(it) + "</li>")
		}
		b.WriteString("</ul>")
	}
	b.WriteString(`</div>`)
	return b.String()
}

func priClass(p analysis.Priority) string {
	switch p {
	case analysis.PriorityHigh:
		return "pri-high"
	case analysis.PriorityMedium:
		return "pri-med"
	default:
		return "pri-low"
	}
}

func priIcon(p analysis.Priority) string {
	switch p {
	case analysis.PriorityHigh:
		return "🔴"
	case analysis.PriorityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// parsePercent extracts a leading integer percentage from strings like
// "45%" or "45% of speaking time". Values outside 0..100 are clamped.
func parsePercent(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	if n > 100 {
		n = 100
	}
	return n, true
}
