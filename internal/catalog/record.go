// Package catalog holds the shared domain model for catalog records. Services
// own behavior; this package owns shape.
package catalog

import "time"

// QuestionsCollection is the primary-store collection for question records.
const QuestionsCollection = "questions"

// Locales supported by the catalog. English is mandatory on every record;
// the rest are optional and degrade to empty strings in derived stores.
const (
	LocaleEN = "en"
	LocaleDE = "de"
	LocaleFR = "fr"
)

// SupportedLocales is the projection order for locale-expanded derived fields.
var SupportedLocales = []string{LocaleEN, LocaleDE, LocaleFR}

// Translation is the per-locale content of a question.
type Translation struct {
	Text        string   `json:"text"`
	Options     []string `json:"options,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// Reference is the optional scientific backing of a question.
type Reference struct {
	Text string `json:"text"`
	DOI  string `json:"doi,omitempty"`
}

// Revision tracks editorial review state.
type Revision struct {
	Status    string    `json:"status,omitempty"`
	Revisor   string    `json:"revisor,omitempty"`
	RevisedAt time.Time `json:"revisedAt,omitzero"`
}

// Record is one catalog item. The ID is immutable after creation; every
// record must carry a complete English translation.
type Record struct {
	ID           string                 `json:"-"`
	Category     string                 `json:"category"`
	Subcategory  string                 `json:"subcategory,omitempty"`
	Type         string                 `json:"type,omitempty"`
	Difficulty   string                 `json:"difficulty,omitempty"`
	Translations map[string]Translation `json:"translations"`
	Reference    *Reference             `json:"reference,omitempty"`
	Revision     Revision               `json:"revision,omitzero"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}
