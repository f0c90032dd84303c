// Package report renders an analysis document into PDF, HTML, and plain-text
// reports. The renderers are defensive by contract: any field or block may be
// missing from the document, in which case its section is omitted or shown as
// a dash — never an error.
package report

// Brand is the product name shown on report headers and footers.
const Brand = "Protokollo"

// LangOriginal is the sentinel target language meaning "use the language of
// the recording"; the actual language is then inferred from document content.
const LangOriginal = "original"

// defaultLang is used when the target language has no table and detection is
// not confident.
const defaultLang = "en"

// Strings is the set of fixed UI strings for one report language. Section
// headings and labels always come from a Strings table, never from literals
// inside a renderer.
type Strings struct {
	ReportFrom string
	Page       string
	Generated  string
	Footer     string
	Overview   string
	Summary    string

	Date         string
	Duration     string
	Participants string
	Format       string
	Domain       string
	Tone         string

	Topics     string
	Discussion string
	KeyPoints  string
	Positions  string
	Outcome    string
	Quotes     string
	Unresolved string
	RaisedBy   string

	Decisions   string
	Decision    string
	Responsible string
	Status      string

	Tasks    string
	Task     string
	Deadline string

	OpenQuestions string
	Reason        string

	Dynamics        string
	Participation   string
	Interruptions   string
	TopicInitiators string
	Enthusiasm      string
	Tension         string
	Uncertainty     string
	TurningPoints   string
	BetweenLines    string

	Recommendations string
	Recommendation  string
	Why             string
	How             string
	BySubstance     string
	ByProcess       string
	ToolsMethods    string
	Benchmarks      string
	NextMeeting     string

	Goals         string
	ExplicitGoals string
	ImplicitGoals string

	SWOTTitle         string
	SWOTStrengths     string
	SWOTWeaknesses    string
	SWOTOpportunities string
	SWOTThreats       string

	RisksTitle  string
	Risk        string
	Probability string
	Impact      string
	Mitigation  string

	ActionPlanTitle string
	Urgent          string
	MediumTerm      string
	LongTerm        string
	KPILabel        string

	ConclusionTitle   string
	MainInsight       string
	KeyRecommendation string
	Forecast          string

	Uncertainties string
	Context       string
	Possibly      string
	Corrections   string
	Glossary      string

	Transcript            string
	TranscriptUnavailable string
	TranscriptHeader      string
	Topic                 string
}

// tables holds the UI strings per supported language code.
var tables = map[string]Strings{
	"en": {
		ReportFrom: "Report from", Page: "Page", Generated: "Generated",
		Footer: "AI meeting analysis", Overview: "Overview", Summary: "Executive summary",
		Date: "Date", Duration: "Duration", Participants: "Participants",
		Format: "Format", Domain: "Domain", Tone: "Tone",
		Topics: "DISCUSSION TOPICS", Discussion: "Discussion", KeyPoints: "Key points",
		Positions: "Positions", Outcome: "Outcome", Quotes: "Quotes",
		Unresolved: "Unresolved", RaisedBy: "Raised by",
		Decisions: "DECISIONS", Decision: "Decision", Responsible: "Responsible", Status: "Status",
		Tasks: "ACTION ITEMS", Task: "Task", Deadline: "Deadline",
		OpenQuestions: "OPEN QUESTIONS", Reason: "Reason",
		Dynamics: "MEETING DYNAMICS", Participation: "Participation balance",
		Interruptions: "Interruptions", TopicInitiators: "Topic initiators",
		Enthusiasm: "Enthusiasm", Tension: "Tension", Uncertainty: "Uncertainty",
		TurningPoints: "Turning points", BetweenLines: "Between the lines",
		Recommendations: "EXPERT RECOMMENDATIONS", Recommendation: "Recommendation",
		Why: "Why", How: "How", BySubstance: "On substance", ByProcess: "On process",
		ToolsMethods: "Tools and methods", Benchmarks: "Benchmarks",
		NextMeeting: "Questions for the next meeting",
		Goals:      "MEETING GOALS", ExplicitGoals: "Explicit goals", ImplicitGoals: "Implicit goals",
		SWOTTitle:  "SWOT ANALYSIS", SWOTStrengths: "Strengths", SWOTWeaknesses: "Weaknesses",
		SWOTOpportunities: "Opportunities", SWOTThreats: "Threats",
		RisksTitle: "RISKS AND MITIGATIONS", Risk: "Risk", Probability: "Probability",
		Impact: "Impact", Mitigation: "Mitigation",
		ActionPlanTitle: "ACTION PLAN", Urgent: "Urgent (1–7 days)",
		MediumTerm: "Medium term (1–4 weeks)", LongTerm: "Long term (1–3 months)",
		KPILabel: "KPIs and success metrics",
		ConclusionTitle: "CONCLUSION", MainInsight: "Main insight",
		KeyRecommendation: "Key recommendation", Forecast: "Forecast",
		Uncertainties: "NEEDS CLARIFICATION", Context: "Context", Possibly: "Possibly",
		Corrections: "TRANSCRIPTION CORRECTIONS", Glossary: "GLOSSARY",
		Transcript: "Transcript", TranscriptUnavailable: "Transcript unavailable",
		TranscriptHeader: "TRANSCRIPT", Topic: "Topic",
	},
	"ru": {
		ReportFrom: "Отчёт от", Page: "Стр.", Generated: "Сгенерировано",
		Footer: "AI-анализ встречи", Overview: "Обзор", Summary: "Резюме",
		Date: "Дата", Duration: "Длительность", Participants: "Участники",
		Format: "Формат", Domain: "Область", Tone: "Тон",
		Topics: "ТЕМЫ ОБСУЖДЕНИЯ", Discussion: "Ход обсуждения", KeyPoints: "Ключевые тезисы",
		Positions: "Позиции участников", Outcome: "Итог", Quotes: "Цитаты",
		Unresolved: "Нерешённые вопросы", RaisedBy: "Тему поднял(а)",
		Decisions: "РЕШЕНИЯ", Decision: "Решение", Responsible: "Ответственный", Status: "Статус",
		Tasks: "ЗАДАЧИ", Task: "Задача", Deadline: "Срок",
		OpenQuestions: "ОТКРЫТЫЕ ВОПРОСЫ", Reason: "Причина",
		Dynamics: "ДИНАМИКА ВСТРЕЧИ", Participation: "Баланс участия",
		Interruptions: "Перебивания", TopicInitiators: "Инициаторы тем",
		Enthusiasm: "Энтузиазм", Tension: "Напряжение", Uncertainty: "Неуверенность",
		TurningPoints: "Переломные моменты", BetweenLines: "Между строк",
		Recommendations: "РЕКОМЕНДАЦИИ ЭКСПЕРТА", Recommendation: "Рекомендация",
		Why: "Почему", How: "Как", BySubstance: "По существу вопроса", ByProcess: "По процессу",
		ToolsMethods: "Инструменты и методологии", Benchmarks: "Бенчмарки и примеры",
		NextMeeting: "Вопросы для следующей встречи",
		Goals:      "ЦЕЛИ ВСТРЕЧИ", ExplicitGoals: "Явные цели", ImplicitGoals: "Скрытые цели",
		SWOTTitle:  "SWOT-АНАЛИЗ", SWOTStrengths: "Сильные стороны", SWOTWeaknesses: "Слабые стороны",
		SWOTOpportunities: "Возможности", SWOTThreats: "Угрозы",
		RisksTitle: "РИСКИ И КАК ИХ ИЗБЕЖАТЬ", Risk: "Риск", Probability: "Вероятность",
		Impact: "Влияние", Mitigation: "Как предотвратить",
		ActionPlanTitle: "ПЛАН ДАЛЬНЕЙШИХ ДЕЙСТВИЙ", Urgent: "Срочно (1–7 дней)",
		MediumTerm: "Среднесрок (1–4 недели)", LongTerm: "Долгосрок (1–3 месяца)",
		KPILabel: "KPI и метрики успеха",
		ConclusionTitle: "ЗАКЛЮЧЕНИЕ", MainInsight: "Главный инсайт",
		KeyRecommendation: "Ключевая рекомендация", Forecast: "Прогноз",
		Uncertainties: "ТРЕБУЕТ УТОЧНЕНИЯ", Context: "Контекст", Possibly: "Возможно",
		Corrections: "ИСПРАВЛЕНИЯ РАСПОЗНАВАНИЯ", Glossary: "ГЛОССАРИЙ",
		Transcript: "Транскрипт", TranscriptUnavailable: "Транскрипция недоступна",
		TranscriptHeader: "ТРАНСКРИПЦИЯ", Topic: "Тема",
	},
	"kk": {
		ReportFrom: "Есеп күні", Page: "Бет", Generated: "Жасалған",
		Footer: "AI кездесу талдауы", Overview: "Шолу", Summary: "Түйіндеме",
		Date: "Күні", Duration: "Ұзақтығы", Participants: "Қатысушылар",
		Format: "Формат", Domain: "Сала", Tone: "Тон",
		Topics: "ТАЛҚЫЛАУ ТАҚЫРЫПТАРЫ", Discussion: "Талқылау барысы", KeyPoints: "Негізгі тезистер",
		Positions: "Қатысушылардың ұстанымдары", Outcome: "Нәтиже", Quotes: "Дәйексөздер",
		Unresolved: "Шешілмеген сұрақтар", RaisedBy: "Тақырыпты көтерген",
		Decisions: "ШЕШІМДЕР", Decision: "Шешім", Responsible: "Жауапты", Status: "Мәртебесі",
		Tasks: "ТАПСЫРМАЛАР", Task: "Тапсырма", Deadline: "Мерзімі",
		OpenQuestions: "АШЫҚ СҰРАҚТАР", Reason: "Себеп",
		Dynamics: "КЕЗДЕСУ ДИНАМИКАСЫ", Participation: "Қатысу балансы",
		Interruptions: "Сөзін бөлу", TopicInitiators: "Тақырып бастаушылары",
		Enthusiasm: "Ынта", Tension: "Шиеленіс", Uncertainty: "Сенімсіздік",
		TurningPoints: "Бетбұрыс сәттер", BetweenLines: "Жолдар арасында",
		Recommendations: "САРАПШЫ ҰСЫНЫСТАРЫ", Recommendation: "Ұсыныс",
		Why: "Неліктен", How: "Қалай", BySubstance: "Мәселе бойынша", ByProcess: "Процесс бойынша",
		ToolsMethods: "Құралдар мен әдістемелер", Benchmarks: "Бенчмарктер мен мысалдар",
		NextMeeting: "Келесі кездесуге сұрақтар",
		Goals:      "КЕЗДЕСУ МАҚСАТТАРЫ", ExplicitGoals: "Айқын мақсаттар", ImplicitGoals: "Жасырын мақсаттар",
		SWOTTitle:  "SWOT-ТАЛДАУ", SWOTStrengths: "Күшті жақтары", SWOTWeaknesses: "Әлсіз жақтары",
		SWOTOpportunities: "Мүмкіндіктер", SWOTThreats: "Қауіптер",
		RisksTitle: "ТӘУЕКЕЛДЕР ЖӘНЕ АЛДЫН АЛУ", Risk: "Тәуекел", Probability: "Ықтималдық",
		Impact: "Әсері", Mitigation: "Қалай болдырмау",
		ActionPlanTitle: "ӘРІ ҚАРАЙҒЫ ІС-ҚИМЫЛ ЖОСПАРЫ", Urgent: "Шұғыл (1–7 күн)",
		MediumTerm: "Орта мерзім (1–4 апта)", LongTerm: "Ұзақ мерзім (1–3 ай)",
		KPILabel: "KPI және табыс метрикалары",
		ConclusionTitle: "ҚОРЫТЫНДЫ", MainInsight: "Басты түйін",
		KeyRecommendation: "Негізгі ұсыныс", Forecast: "Болжам",
		Uncertainties: "НАҚТЫЛАУДЫ ҚАЖЕТ ЕТЕДІ", Context: "Контекст", Possibly: "Мүмкін",
		Corrections: "ТАНУ ТҮЗЕТУЛЕРІ", Glossary: "ГЛОССАРИЙ",
		Transcript: "Транскрипт", TranscriptUnavailable: "Транскрипция қолжетімсіз",
		TranscriptHeader: "ТРАНСКРИПЦИЯ", Topic: "Тақырып",
	},
	"es": {
		ReportFrom: "Informe del", Page: "Pág.", Generated: "Generado",
		Footer: "Análisis de reunión con IA", Overview: "Resumen", Summary: "Resumen ejecutivo",
		Date: "Fecha", Duration: "Duración", Participants: "Participantes",
		Format: "Formato", Domain: "Área", Tone: "Tono",
		Topics: "TEMAS DE DISCUSIÓN", Discussion: "Desarrollo de la discusión", KeyPoints: "Puntos clave",
		Positions: "Posiciones", Outcome: "Resultado", Quotes: "Citas",
		Unresolved: "Sin resolver", RaisedBy: "Planteado por",
		Decisions: "DECISIONES", Decision: "Decisión", Responsible: "Responsable", Status: "Estado",
		Tasks: "TAREAS", Task: "Tarea", Deadline: "Plazo",
		OpenQuestions: "PREGUNTAS ABIERTAS", Reason: "Razón",
		Dynamics: "DINÁMICA DE LA REUNIÓN", Participation: "Balance de participación",
		Interruptions: "Interrupciones", TopicInitiators: "Iniciadores de temas",
		Enthusiasm: "Entusiasmo", Tension: "Tensión", Uncertainty: "Incertidumbre",
		TurningPoints: "Puntos de inflexión", BetweenLines: "Entre líneas",
		Recommendations: "RECOMENDACIONES DEL EXPERTO", Recommendation: "Recomendación",
		Why: "Por qué", How: "Cómo", BySubstance: "Sobre el fondo", ByProcess: "Sobre el proceso",
		ToolsMethods: "Herramientas y metodologías", Benchmarks: "Referencias y ejemplos",
		NextMeeting: "Preguntas para la próxima reunión",
		Goals:      "OBJETIVOS DE LA REUNIÓN", ExplicitGoals: "Objetivos explícitos", ImplicitGoals: "Objetivos implícitos",
		SWOTTitle:  "ANÁLISIS FODA", SWOTStrengths: "Fortalezas", SWOTWeaknesses: "Debilidades",
		SWOTOpportunities: "Oportunidades", SWOTThreats: "Amenazas",
		RisksTitle: "RIESGOS Y CÓMO EVITARLOS", Risk: "Riesgo", Probability: "Probabilidad",
		Impact: "Impacto", Mitigation: "Cómo prevenirlo",
		ActionPlanTitle: "PLAN DE ACCIÓN", Urgent: "Urgente (1–7 días)",
		MediumTerm: "Medio plazo (1–4 semanas)", LongTerm: "Largo plazo (1–3 meses)",
		KPILabel: "KPI y métricas de éxito",
		ConclusionTitle: "CONCLUSIÓN", MainInsight: "Conclusión principal",
		KeyRecommendation: "Recomendación clave", Forecast: "Pronóstico",
		Uncertainties: "NECESITA ACLARACIÓN", Context: "Contexto", Possibly: "Posiblemente",
		Corrections: "CORRECCIONES DE TRANSCRIPCIÓN", Glossary: "GLOSARIO",
		Transcript: "Transcripción", TranscriptUnavailable: "Transcripción no disponible",
		TranscriptHeader: "TRANSCRIPCIÓN", Topic: "Tema",
	},
	"zh": {
		ReportFrom: "报告日期", Page: "页", Generated: "生成时间",
		Footer: "AI会议分析", Overview: "概览", Summary: "执行摘要",
		Date: "日期", Duration: "时长", Participants: "参与者",
		Format: "格式", Domain: "领域", Tone: "语气",
		Topics: "讨论主题", Discussion: "讨论过程", KeyPoints: "要点",
		Positions: "参与者立场", Outcome: "结果", Quotes: "引述",
		Unresolved: "未解决问题", RaisedBy: "提出者",
		Decisions: "决策", Decision: "决定", Responsible: "负责人", Status: "状态",
		Tasks: "任务", Task: "任务", Deadline: "截止日期",
		OpenQuestions: "待解决问题", Reason: "原因",
		Dynamics: "会议动态", Participation: "参与平衡",
		Interruptions: "打断", TopicInitiators: "话题发起者",
		Enthusiasm: "热情", Tension: "紧张", Uncertainty: "不确定",
		TurningPoints: "转折点", BetweenLines: "言外之意",
		Recommendations: "专家建议", Recommendation: "建议",
		Why: "原因", How: "方法", BySubstance: "实质建议", ByProcess: "流程建议",
		ToolsMethods: "工具与方法", Benchmarks: "基准与实例",
		NextMeeting: "下次会议问题",
		Goals:      "会议目标", ExplicitGoals: "明确目标", ImplicitGoals: "隐含目标",
		SWOTTitle:  "SWOT分析", SWOTStrengths: "优势", SWOTWeaknesses: "劣势",
		SWOTOpportunities: "机会", SWOTThreats: "威胁",
		RisksTitle: "风险与规避", Risk: "风险", Probability: "概率",
		Impact: "影响", Mitigation: "预防措施",
		ActionPlanTitle: "行动计划", Urgent: "紧急（1–7天）",
		MediumTerm: "中期（1–4周）", LongTerm: "长期（1–3个月）",
		KPILabel: "KPI与成功指标",
		ConclusionTitle: "结论", MainInsight: "主要洞察",
		KeyRecommendation: "关键建议", Forecast: "预测",
		Uncertainties: "需要澄清", Context: "上下文", Possibly: "可能",
		Corrections: "转录修正", Glossary: "术语表",
		Transcript: "转录文本", TranscriptUnavailable: "转录不可用",
		TranscriptHeader: "转录文本", Topic: "主题",
	},
}

// Lookup returns the Strings table for a language code, falling back to the
// default table for unknown codes.
func Lookup(lang string) Strings {
	if t, ok := tables[lang]; ok {
		return t
	}
	return tables[defaultLang]
}

// SupportedLanguages lists language codes with a full UI-string table.
func SupportedLanguages() []string {
	return []string{"ru", "en", "kk", "es", "zh"}
}
