package assistant

// Canned response pools, keyed by question category. The assistant is a
// simulation: it picks from these pools rather than running a model.
var answerPools = map[string][]string{
	CategoryComprehension: {
		"Based on the text, this concept relates to how information is processed and understood. The key idea is that comprehension involves multiple cognitive processes working together to create meaning from written content.",
		"This question touches on fundamental reading comprehension principles. The answer involves understanding both literal and inferential meaning, where readers must connect explicit information with their prior knowledge.",
		"To understand this fully, consider the relationship between the main idea and supporting details. The author presents evidence that builds toward a central argument about how we process information.",
	},
	CategoryVocabulary: {
		"This term originates from academic discourse and refers to a specific concept within the field. In this context, it means the systematic approach to understanding complex ideas through structured analysis.",
		"The word you're asking about has multiple layers of meaning. In its primary sense, it describes a process or method, while in broader usage, it represents a fundamental principle of learning.",
		"This vocabulary term is essential for understanding the text's deeper meaning. It combines elements of analysis, synthesis, and evaluation to describe a comprehensive approach to knowledge.",
	},
	CategoryAnalysis: {
		"When analyzing this passage, we can identify several key patterns. The author uses comparative reasoning to highlight differences between traditional and modern approaches, while also establishing connections between seemingly separate concepts.",
		"A critical analysis reveals that the argument follows a logical progression from premise to conclusion. The evidence presented supports the main thesis while acknowledging potential counterarguments.",
		"From an analytical perspective, this text demonstrates sophisticated reasoning. The author employs multiple rhetorical strategies to persuade readers while maintaining objectivity in presentation.",
	},
	CategoryGeneral: {
		"That's an excellent question! This topic is quite complex and has multiple dimensions to consider. Let me break it down into key components that will help clarify the concept.",
		"Your question highlights an important aspect of the material. The answer involves understanding both the immediate context and the broader implications for the field of study.",
		"This is a thoughtful inquiry that gets to the heart of the matter. The response requires us to consider multiple perspectives and examine the evidence carefully.",
	},
}

var followUps = []string{
	"Would you like me to elaborate on any specific aspect?",
	"Do you have questions about related concepts?",
	"Would you like to explore this topic from a different angle?",
	"Are there particular examples you'd like me to discuss?",
}

// VocabularyTerm is a word the analyzer recognizes, with its canned definition.
type VocabularyTerm struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

var knownVocabulary = []VocabularyTerm{
	{"revolutionized", "completely changed or transformed something in a dramatic way"},
	{"algorithms", "step-by-step procedures for solving problems or completing tasks"},
	{"paradigm", "a typical example or pattern of something; a model or framework"},
	{"unprecedented", "never done or known before; without previous example"},
	{"methodologies", "systems of methods used in a particular field of study"},
	{"comprehension", "the ability to understand and interpret written material"},
	{"inferential", "derived by reasoning from evidence rather than stated explicitly"},
	{"synthesis", "the combination of ideas to form a connected whole"},
}

var sentiments = []string{"positive", "neutral", "analytical"}

var difficulties = []string{"Beginner", "Intermediate", "Advanced"}

var summaryPool = []string{
	"This passage establishes its central subject as a significant development that has evolved from specialist discussion into broad practical relevance. It emphasizes understanding the technical foundations alongside the wider implications for readers.",
	"This section explores the fundamental concepts of its topic, detailing the primary approaches and their applications. It stresses the critical role of careful reading and prior knowledge in building an accurate understanding.",
	"This passage examines practical applications across several areas, demonstrating how the core ideas are implemented to solve real problems while acknowledging the open challenges that remain.",
	"This section addresses the key considerations and trade-offs within its subject, discussing competing viewpoints and future implications while emphasizing the need for a balanced perspective.",
}

var keyPointPool = [][]string{
	{
		"The main idea is developed through layered supporting evidence",
		"Key terms are introduced early and refined throughout the passage",
		"The conclusion ties the argument back to the opening claim",
	},
	{
		"The author moves from general principles to concrete examples",
		"Contrasting viewpoints are presented before the author's own position",
		"Transitional phrases signal the structure of the argument",
	},
	{
		"Definitions are woven into the narrative rather than listed",
		"Evidence is drawn from multiple domains to broaden the claim",
		"The closing section anticipates likely objections",
	},
}
