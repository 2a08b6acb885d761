// Package reconcile keeps the stored infographic entities aligned with the
// code-defined registry: minimal create/update/delete sets, applied in
// bounded atomic batches, never touching manually curated entries.
package reconcile

// InfographicsCollection is the primary-store collection reconciliation
// manages.
const InfographicsCollection = "infographics"

// Entry declares one machine-managed catalog item. The registry is the single
// source of truth for which computed infographics should exist; a stored
// entity flagged machine-managed but absent from this list is obsolete.
type Entry struct {
	ID    string
	Title string
}

// Registry is the declarative set of computed infographic entries. Edit this
// list and trigger a reconciliation run to roll the change out.
var Registry = []Entry{
	{ID: "muscles-of-the-head", Title: "Muscles of the Head"},
	{ID: "muscles-of-the-neck", Title: "Muscles of the Neck"},
	{ID: "bones-of-the-upper-limb", Title: "Bones of the Upper Limb"},
	{ID: "bones-of-the-lower-limb", Title: "Bones of the Lower Limb"},
	{ID: "cranial-nerves-overview", Title: "Cranial Nerves Overview"},
	{ID: "thoracic-organs", Title: "Thoracic Organs"},
	{ID: "abdominal-organs", Title: "Abdominal Organs"},
	{ID: "arteries-of-the-trunk", Title: "Arteries of the Trunk"},
}
