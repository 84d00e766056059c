package ai

// MaxResidencies bounds the number of entity names the generator may return
// in a single answer.
const MaxResidencies = 2

// StructuredAnswer is the generation model's output contract: a free-text
// answer plus the names of the residencies it mentions.
//
// Answer text may contain link placeholder tokens; resolving those back to
// real URLs happens downstream and is not the generator's concern.
type StructuredAnswer struct {
	// Answer is the free-text reply to the visitor's question.
	Answer string `json:"answer"`

	// Residencies lists the names of residencies mentioned in the answer,
	// limited to MaxResidencies entries.
	Residencies []string `json:"residencies"`
}
