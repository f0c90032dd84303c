package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/protokollo/protokollo/internal/analysis"
)

const (
	pageMargin   = 15.0
	bottomMargin = 20.0
	lineHt       = 5.2
	accentR      = 43
	accentG      = 108
	accentB      = 176
)

// PDF renders the full meeting report as an A4 document. Sections with no
// content are omitted entirely; missing fields inside a present section
// render as a dash.
func (r *Renderer) PDF(doc *analysis.Document, lang string) (Artifact, error) {
	if doc == nil {
		doc = &analysis.Document{}
	}
	code := ResolveLanguage(lang, doc)
	str := Lookup(code)
	now := r.now()
	topic := topicOrDefault(doc, str)

	pdf := fpdf.New("P", "mm", "A4", "")
	fonts := registerFonts(pdf, r.FontDir, code, r.log())
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.AliasNbPages("")

	w := &pdfWriter{pdf: pdf, str: str, font: fonts.body}

	pdf.SetHeaderFuncMode(func() {
		pdf.SetFont(w.font, "B", 9)
		pdf.SetTextColor(accentR, accentG, accentB)
		pdf.CellFormat(0, 6, Brand, "", 1, "L", false, 0, "")
		pdf.SetDrawColor(accentR, accentG, accentB)
		pdf.SetLineWidth(0.5)
		pdf.Line(pageMargin, pdf.GetY()+1, 210-pageMargin, pdf.GetY()+1)
		pdf.Ln(5)
		pdf.SetTextColor(0, 0, 0)
	}, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(w.font, "", 8)
		pdf.SetTextColor(120, 120, 120)
		left := Brand + " • " + str.Footer + " • " + now.Format("2006-01-02")
		pdf.CellFormat(120, 6, left, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%s %d/{nb}", str.Page, pdf.PageNo()),
			"", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Title block.
	pdf.SetFont(w.font, "B", 17)
	pdf.MultiCell(0, 8, topic, "", "L", false)
	pdf.SetFont(w.font, "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, str.ReportFrom+" "+now.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	w.passport(doc)
	w.summary(doc)
	w.goals(doc)
	w.topics(doc)
	w.decisions(doc)
	w.actionItems(doc)
	w.openQuestions(doc)
	w.dynamics(doc)
	w.recommendations(doc)
	w.swot(doc)
	w.risks(doc)
	w.actionPlan(doc)
	w.conclusion(doc)
	w.uncertainties(doc)
	w.glossary(doc)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Artifact{}, fmt.Errorf("report: pdf output: %w", err)
	}
	return Artifact{Name: PDFName(topic, now), Data: buf.Bytes()}, nil
}

type pdfWriter struct {
	pdf  *fpdf.Fpdf
	str  Strings
	font string
}

func (w *pdfWriter) contentWidth() float64 {
	pw, _ := w.pdf.GetPageSize()
	return pw - 2*pageMargin
}

// ensure starts a new page when fewer than h millimeters remain, so short
// blocks are not split across a page break. Requests taller than a page are
// capped.
func (w *pdfWriter) ensure(h float64) {
	_, ph := w.pdf.GetPageSize()
	usable := ph - pageMargin - bottomMargin
	if h > usable {
		h = usable
	}
	if w.pdf.GetY()+h > ph-bottomMargin {
		w.pdf.AddPage()
	}
}

func (w *pdfWriter) heading(title string) {
	w.ensure(20)
	w.pdf.Ln(3)
	w.pdf.SetFont(w.font, "B", 12)
	w.pdf.SetTextColor(accentR, accentG, accentB)
	w.pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(1)
}

func (w *pdfWriter) subheading(title string) {
	w.ensure(14)
	w.pdf.SetFont(w.font, "B", 10.5)
	w.pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
}

func (w *pdfWriter) para(text string) {
	if text == "" {
		return
	}
	w.pdf.SetFont(w.font, "", 10)
	w.pdf.MultiCell(0, lineHt, text, "", "L", false)
	w.pdf.Ln(1)
}

func (w *pdfWriter) kv(label, val string) {
	if val == "" {
		return
	}
	w.pdf.SetFont(w.font, "B", 10)
	labelW := w.pdf.GetStringWidth(label+": ") + 1
	w.pdf.CellFormat(labelW, lineHt, label+":", "", 0, "L", false, 0, "")
	w.pdf.SetFont(w.font, "", 10)
	w.pdf.MultiCell(0, lineHt, val, "", "L", false)
}

func (w *pdfWriter) bullets(items []string) {
	w.pdf.SetFont(w.font, "", 10)
	for _, it := range items {
		w.pdf.CellFormat(5, lineHt, "•", "", 0, "L", false, 0, "")
		w.pdf.MultiCell(0, lineHt, it, "", "L", false)
	}
}

func (w *pdfWriter) labeledBullets(label string, items []string) {
	if len(items) == 0 {
		return
	}
	w.ensure(float64(len(items)+2) * lineHt)
	w.pdf.SetFont(w.font, "B", 10)
	w.pdf.CellFormat(0, lineHt, label, "", 1, "L", false, 0, "")
	w.bullets(items)
	w.pdf.Ln(1)
}

// table renders a bordered table with a tinted header row. Cell text wraps;
// each row grows to its tallest cell.
func (w *pdfWriter) table(headers []string, widths []float64, rows [][]string) {
	w.pdf.SetFont(w.font, "B", 9)
	w.pdf.SetFillColor(237, 242, 247)
	for i, hd := range headers {
		w.pdf.CellFormat(widths[i], 7, hd, "1", 0, "L", true, 0, "")
	}
	w.pdf.Ln(-1)
	w.pdf.SetFont(w.font, "", 9)
	for _, row := range rows {
		rowHt := lineHt
		for i, cell := range row {
			n := len(w.pdf.SplitText(cell, widths[i]-2))
			if h := float64(n) * lineHt; h > rowHt {
				rowHt = h
			}
		}
		w.ensure(rowHt + 2)
		x0, y0 := w.pdf.GetXY()
		x := x0
		for i, cell := range row {
			w.pdf.Rect(x, y0, widths[i], rowHt+2, "D")
			w.pdf.SetXY(x+1, y0+1)
			w.pdf.MultiCell(widths[i]-2, lineHt, cell, "", "L", false)
			x += widths[i]
		}
		w.pdf.SetXY(x0, y0+rowHt+2)
	}
	w.pdf.Ln(2)
}

func (w *pdfWriter) passport(doc *analysis.Document) {
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
	pairs := [][2]string{
		{w.str.Date, p.Date},
		{w.str.Duration, p.DurationEstimate},
		{w.str.Participants, participants},
		{w.str.Format, p.Format},
		{w.str.Domain, p.Domain},
		{w.str.Tone, p.Tone},
	}
	any := false
	for _, kv := range pairs {
		if kv[1] != "" {
			any = true
			break
		}
	}
	if !any {
		return
	}
	w.ensure(40)
	w.pdf.SetFillColor(247, 250, 252)
	x0, y0 := w.pdf.GetXY()
	w.pdf.SetXY(x0+3, y0+3)
	for _, kv := range pairs {
		if kv[1] == "" {
			continue
		}
		w.pdf.SetX(x0 + 3)
		w.kv(kv[0], kv[1])
	}
	yEnd := w.pdf.GetY() + 2
	w.pdf.SetDrawColor(226, 232, 240)
	w.pdf.Rect(x0, y0, w.contentWidth(), yEnd-y0, "D")
	w.pdf.SetY(yEnd + 3)
	w.pdf.SetDrawColor(0, 0, 0)
}

func (w *pdfWriter) summary(doc *analysis.Document) {
	if doc.ExecutiveSummary == "" {
		return
	}
	w.heading(w.str.Summary)
	w.para(doc.ExecutiveSummary)
}

func (w *pdfWriter) goals(doc *analysis.Document) {
	g := doc.Goals
	if len(g.Explicit) == 0 && len(g.Implicit) == 0 && g.Recommendation == "" {
		return
	}
	w.heading(w.str.Goals)
	w.labeledBullets(w.str.ExplicitGoals, g.Explicit)
	w.labeledBullets(w.str.ImplicitGoals, g.Implicit)
	w.kv(w.str.Recommendation, g.Recommendation)
}

func (w *pdfWriter) topics(doc *analysis.Document) {
	if len(doc.Topics) == 0 {
		return
	}
	w.heading(w.str.Topics)
	for i, t := range doc.Topics {
		title := t.Title
		if title == "" {
			title = fmt.Sprintf("%s %d", w.str.Topic, i+1)
		}
		w.ensure(30)
		w.subheading(fmt.Sprintf("%d. %s", i+1, title))
		if t.RaisedBy != "" {
			w.kv(w.str.RaisedBy, t.RaisedBy)
		}
		if t.Description != "" {
			w.para(t.Description)
		}
		if t.DetailedDiscussion != "" {
			w.para(t.DetailedDiscussion)
		}
		w.labeledBullets(w.str.KeyPoints, t.KeyPoints)
		if len(t.Positions) > 0 {
			lines := make([]string, 0, len(t.Positions))
			for _, sp := range t.Positions.Speakers() {
				pos := t.Positions[sp]
				line := sp + ": " + orDash(pos.Stance)
				if pos.TrueInterests != "" {
					line += " (" + pos.TrueInterests + ")"
				}
				lines = append(lines, line)
			}
			w.labeledBullets(w.str.Positions, lines)
		}
		if t.Outcome != "" {
			w.kv(w.str.Outcome, t.Outcome)
		}
		for j, q := range t.Quotes {
			if j >= 2 {
				break
			}
			w.pdf.SetFont(w.font, "I", 9.5)
			w.pdf.SetTextColor(113, 128, 150)
			w.pdf.SetX(pageMargin + 5)
			w.pdf.MultiCell(w.contentWidth()-10, lineHt, "«"+q+"»", "", "L", false)
			w.pdf.SetTextColor(0, 0, 0)
		}
		w.labeledBullets(w.str.Unresolved, t.Unresolved)
		if t.ExpertTip != "" {
			w.kv("💡", t.ExpertTip)
		}
		w.pdf.Ln(2)
	}
}

func (w *pdfWriter) decisions(doc *analysis.Document) {
	if len(doc.Decisions) == 0 {
		return
	}
	w.heading(w.str.Decisions)
	cw := w.contentWidth()
	rows := make([][]string, 0, len(doc.Decisions))
	for _, d := range doc.Decisions {
		rows = append(rows, []string{
			orDash(d.Decision), orDash(d.Responsible), statusMark(d.Status),
		})
	}
	w.table(
		[]string{w.str.Decision, w.str.Responsible, w.str.Status},
		[]float64{cw * 0.55, cw * 0.3, cw * 0.15},
		rows,
	)
}

func (w *pdfWriter) actionItems(doc *analysis.Document) {
	if len(doc.ActionItems) == 0 {
		return
	}
	w.heading(w.str.Tasks)
	cw := w.contentWidth()
	rows := make([][]string, 0, len(doc.ActionItems))
	for _, a := range doc.ActionItems {
		rows = append(rows, []string{
			orDash(a.Task), orDash(a.Responsible), orDash(a.Deadline),
		})
	}
	w.table(
		[]string{w.str.Task, w.str.Responsible, w.str.Deadline},
		[]float64{cw * 0.55, cw * 0.25, cw * 0.2},
		rows,
	)
}

func (w *pdfWriter) openQuestions(doc *analysis.Document) {
	if len(doc.UnresolvedQuestions) == 0 {
		return
	}
	w.heading(w.str.OpenQuestions)
	for _, q := range doc.UnresolvedQuestions {
		w.ensure(18)
		w.pdf.SetFont(w.font, "B", 10)
		w.pdf.MultiCell(0, lineHt, "? "+orDash(q.Question), "", "L", false)
		w.kv(w.str.Reason, q.Reason)
		w.kv(w.str.Impact, q.Impact)
		w.pdf.Ln(1)
	}
}

func (w *pdfWriter) dynamics(doc *analysis.Document) {
	d := doc.Dynamics
	if d.IsZero() {
		return
	}
	w.heading(w.str.Dynamics)
	if len(d.ParticipationBalance) > 0 {
		lines := make([]string, 0, len(d.ParticipationBalance))
		for _, sp := range sortedKeys(d.ParticipationBalance) {
			lines = append(lines, sp+" — "+orDash(d.ParticipationBalance[sp]))
		}
		w.labeledBullets(w.str.Participation, lines)
	}
	ip := d.InteractionPatterns
	w.kv(w.str.Interruptions, ip.Interruptions)
	if len(ip.TopicInitiators) > 0 {
		w.kv(w.str.TopicInitiators, strings.Join(ip.TopicInitiators, ", "))
	}
	em := d.EmotionalMap
	if !em.IsZero() {
		w.kv(w.str.Enthusiasm, strings.Join(em.EnthusiasmMoments, "; "))
		w.kv(w.str.Tension, strings.Join(em.TensionMoments, "; "))
		w.kv(w.str.Uncertainty, strings.Join(em.UncertaintyMoments, "; "))
		w.labeledBullets(w.str.TurningPoints, em.TurningPoints)
	}
	if len(d.Unspoken) > 0 || d.HiddenDynamics != "" {
		w.subheading(w.str.BetweenLines)
		w.bullets(d.Unspoken)
		w.para(d.HiddenDynamics)
	}
}

func (w *pdfWriter) recommendations(doc *analysis.Document) {
	rec := doc.Recommendations
	if rec.IsZero() {
		return
	}
	w.heading(w.str.Recommendations)
	w.labeledBullets(w.str.SWOTStrengths, rec.Strengths)
	w.labeledBullets(w.str.Unresolved, rec.AttentionPoints)
	if len(rec.Substantive) > 0 {
		w.subheading(w.str.BySubstance)
		for _, a := range rec.Substantive {
			w.ensure(16)
			line := orDash(a.What)
			if m := a.Priority.Marker(); m != "" {
				line = m + " " + line
			}
			w.pdf.SetFont(w.font, "B", 10)
			w.pdf.MultiCell(0, lineHt, line, "", "L", false)
			w.kv(w.str.Why, a.Why)
			w.kv(w.str.How, a.How)
			w.pdf.Ln(1)
		}
	}
	if len(rec.Process) > 0 {
		w.subheading(w.str.ByProcess)
		for _, a := range rec.Process {
			w.ensure(12)
			w.pdf.SetFont(w.font, "B", 10)
			w.pdf.MultiCell(0, lineHt, orDash(a.What), "", "L", false)
			w.kv(w.str.How, a.How)
			w.pdf.Ln(1)
		}
	}
	w.labeledBullets(w.str.ToolsMethods, rec.ToolsAndMethods)
	w.labeledBullets(w.str.Benchmarks, rec.Benchmarks)
	w.labeledBullets(w.str.NextMeeting, rec.NextMeetingQuestions)
}

// swot draws the four quadrants as a 2x2 grid with tinted headers.
func (w *pdfWriter) swot(doc *analysis.Document) {
	s := doc.SWOT
	if s.IsZero() {
		return
	}
	w.heading(w.str.SWOTTitle)
	type quad struct {
		title   string
		items   []string
		r, g, b int
	}
	quads := []quad{
		{w.str.SWOTStrengths, s.Strengths, 198, 246, 213},
		{w.str.SWOTWeaknesses, s.Weaknesses, 254, 215, 215},
		{w.str.SWOTOpportunities, s.Opportunities, 190, 227, 248},
		{w.str.SWOTThreats, s.Threats, 254, 235, 200},
	}
	halfW := w.contentWidth() / 2
	for row := 0; row < 2; row++ {
		pair := quads[row*2 : row*2+2]
		cellHt := lineHt
		for _, q := range pair {
			n := 0
			for _, it := range q.items {
				n += len(w.pdf.SplitText("• "+it, halfW-4))
			}
			if n == 0 {
				n = 1
			}
			if h := float64(n) * lineHt; h > cellHt {
				cellHt = h
			}
		}
		w.ensure(cellHt + 12)
		x0, y0 := w.pdf.GetXY()
		for i, q := range pair {
			x := x0 + float64(i)*halfW
			w.pdf.SetFillColor(q.r, q.g, q.b)
			w.pdf.Rect(x, y0, halfW, 7, "F")
			w.pdf.Rect(x, y0, halfW, cellHt+9, "D")
			w.pdf.SetXY(x+2, y0+1)
			w.pdf.SetFont(w.font, "B", 9.5)
			w.pdf.CellFormat(halfW-4, 5, q.title, "", 1, "L", false, 0, "")
			w.pdf.SetXY(x+2, y0+8)
			w.pdf.SetFont(w.font, "", 9)
			if len(q.items) == 0 {
				w.pdf.CellFormat(halfW-4, lineHt, "–", "", 0, "L", false, 0, "")
			}
			for _, it := range q.items {
				w.pdf.SetX(x + 2)
				w.pdf.MultiCell(halfW-4, lineHt, "• "+it, "", "L", false)
			}
		}
		w.pdf.SetXY(x0, y0+cellHt+9)
	}
	w.pdf.Ln(3)
}

func (w *pdfWriter) risks(doc *analysis.Document) {
	if len(doc.Risks) == 0 {
		return
	}
	w.heading(w.str.RisksTitle)
	cw := w.contentWidth()
	rows := make([][]string, 0, len(doc.Risks))
	for _, rk := range doc.Risks {
		rows = append(rows, []string{
			orDash(rk.Risk), orDash(rk.Probability), orDash(rk.Impact), orDash(rk.Mitigation),
		})
	}
	w.table(
		[]string{w.str.Risk, w.str.Probability, w.str.Impact, w.str.Mitigation},
		[]float64{cw * 0.33, cw * 0.15, cw * 0.15, cw * 0.37},
		rows,
	)
}

func (w *pdfWriter) actionPlan(doc *analysis.Document) {
	p := doc.ActionPlan
	if p.IsZero() {
		return
	}
	w.heading(w.str.ActionPlanTitle)
	w.labeledBullets(w.str.Urgent, p.Urgent)
	w.labeledBullets(w.str.MediumTerm, p.MediumTerm)
	w.labeledBullets(w.str.LongTerm, p.LongTerm)
	w.labeledBullets(w.str.KPILabel, p.KPI)
}

func (w *pdfWriter) conclusion(doc *analysis.Document) {
	c := doc.Conclusion
	if c.MainInsight == "" && c.KeyRecommendation == "" && c.Forecast == "" {
		return
	}
	w.heading(w.str.ConclusionTitle)
	w.kv(w.str.MainInsight, c.MainInsight)
	w.kv(w.str.KeyRecommendation, c.KeyRecommendation)
	w.kv(w.str.Forecast, c.Forecast)
}

func (w *pdfWriter) uncertainties(doc *analysis.Document) {
	if len(doc.Uncertainties) > 0 {
		w.heading(w.str.Uncertainties)
		for _, u := range doc.Uncertainties {
			w.ensure(14)
			w.pdf.SetFont(w.font, "I", 10)
			w.pdf.MultiCell(0, lineHt, "«"+orDash(u.Text)+"»", "", "L", false)
			w.kv(w.str.Context, u.Context)
			w.kv(w.str.Possibly, u.PossibleMeaning)
			w.pdf.Ln(1)
		}
	}
	if len(doc.CorrectedTerms) > 0 {
		w.heading(w.str.Corrections)
		lines := make([]string, 0, len(doc.CorrectedTerms))
		for _, c := range doc.CorrectedTerms {
			lines = append(lines, "«"+c.Original+"» → "+c.Corrected)
		}
		w.bullets(lines)
	}
}

func (w *pdfWriter) glossary(doc *analysis.Document) {
	if len(doc.Glossary) == 0 {
		return
	}
	w.heading(w.str.Glossary)
	lines := make([]string, 0, len(doc.Glossary))
	for _, g := range doc.Glossary {
		lines = append(lines, g.Term+" — "+g.Definition)
	}
	w.bullets(lines)
}

// statusMark is the PDF-safe decision status marker; the emoji used in HTML
// output are outside the embedded fonts' coverage.
func statusMark(s analysis.DecisionStatus) string {
	switch s {
	case analysis.StatusAccepted:
		return "✓"
	case analysis.StatusPending:
		return "…"
	case analysis.StatusQuestion:
		return "?"
	default:
		return "–"
	}
}
