package search

import "quizbank/internal/catalog"

// Object is the denormalized search projection of a catalog record. It holds
// no state of its own: every field is derivable from the source record, and
// it is rewritten wholesale on every sync.
type Object struct {
	ObjectID    string `json:"objectID"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Difficulty  string `json:"difficulty"`
	Type        string `json:"type"`

	// Per-locale flattened text. Absent locales project to empty strings so
	// index mappings stay stable across partially translated records.
	TextEN        string `json:"text_en"`
	ExplanationEN string `json:"explanation_en"`
	TextDE        string `json:"text_de"`
	ExplanationDE string `json:"explanation_de"`
	TextFR        string `json:"text_fr"`
	ExplanationFR string `json:"explanation_fr"`

	RevisionStatus string `json:"revisionStatus"`
}

// Project maps a record to its search object. It is total: missing locales,
// nil maps, and absent fields all degrade to empty strings, never to an error.
func Project(r catalog.Record) Object {
	obj := Object{
		ObjectID:       r.ID,
		Category:       r.Category,
		Subcategory:    r.Subcategory,
		Difficulty:     r.Difficulty,
		Type:           r.Type,
		RevisionStatus: r.Revision.Status,
	}
	for _, locale := range catalog.SupportedLocales {
		t := r.Translations[locale]
		switch locale {
		case catalog.LocaleEN:
			obj.TextEN, obj.ExplanationEN = t.Text, t.Explanation
		case catalog.LocaleDE:
			obj.TextDE, obj.ExplanationDE = t.Text, t.Explanation
		case catalog.LocaleFR:
			obj.TextFR, obj.ExplanationFR = t.Text, t.Explanation
		}
	}
	return obj
}
