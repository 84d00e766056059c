package openai

import "fmt"

const answerResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "answer": {
      "type": "string"
    },
    "residencies": {
      "type": "array",
      "items": {
        "type": "string"
      },
      "maxItems": %d
    }
  },
  "required": ["answer", "residencies"],
  "additionalProperties": false
}`

const answerPromptTemplate = `Answer the question using only the provided context, and return the result as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "answer" is the reply to the question that was asked, in the language the context instructions specify.
- "residencies" lists the names of residencies mentioned in the answer, limited to %d entries.
- Keep any link:// tokens from the context intact in the answer; never invent or alter them.
- If the context does not contain the information, say so in the answer; do not make facts up.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Which seafront residencies do you offer?"
Output:
{
  "answer": "We offer Villa Aurora and the Laguna apartments, see link://4 for details.",
  "residencies": ["Villa Aurora", "Laguna"]
}`

// buildSystemPrompt creates the system prompt with the answer schema embedded.
func buildSystemPrompt(maxResidencies int) string {
	schema := fmt.Sprintf(answerResponseSchema, maxResidencies)
	return fmt.Sprintf(answerPromptTemplate, schema, maxResidencies)
}
