package genie

import "github.com/tmc/langchaingo/prompts"

// salesTemplate is the fixed persona prompt, formatted once per question with
// the retrieved context and the visitor's question.
const salesTemplate = `You're a Costiera travel sales assistant

Language: Macedonian

{{.context}}

Question: {{.question}}`

// fallbackAnswer is returned when generation or parsing fails. Localized to
// the bot's fixed answer language.
const fallbackAnswer = "Извинете, моментално не можам да одговорам. Ве молам обидете се повторно."

// newSalesPrompt builds the process-wide prompt template. Built once at
// startup and shared read-only afterwards.
func newSalesPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(salesTemplate, []string{"context", "question"})
}
