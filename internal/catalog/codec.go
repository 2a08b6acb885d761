package catalog

import (
	"encoding/json"
	"fmt"
)

// ToDocument flattens a Record into the schemaless primary-store shape. Going
// through JSON keeps the stored field names identical to the wire names.
func ToDocument(r Record) (map[string]any, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode record document: %w", err)
	}
	return doc, nil
}

// FromDocument rebuilds a Record from a stored document. Unknown fields are
// dropped; missing fields take zero values so older documents keep loading.
func FromDocument(id string, doc map[string]any) (Record, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return Record{}, fmt.Errorf("encode record document: %w", err)
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	r.ID = id
	return r, nil
}
