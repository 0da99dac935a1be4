// Package models defines the documents written to the workflow search index.
package models

import "unicode/utf8"

// Field limits enforced before upload.
const (
	MaxIDLength          = 100
	MaxNameLength        = 100
	MaxDescriptionLength = 1000

	// UnknownValue stands in for any missing workflow attribute.
	UnknownValue = "Unknown"

	// TypeWorkflow is the only document type extraction produces.
	TypeWorkflow = "workflow"
)

// WorkflowRecord is the flat summary of one <WORKFLOW> element.
type WorkflowRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Normalize clamps the record to the index field limits. It is pure and
// idempotent.
func (r WorkflowRecord) Normalize() WorkflowRecord {
	name := r.Name
	if name == "" {
		name = UnknownValue
	}
	return WorkflowRecord{
		ID:          Truncate(r.ID, MaxIDLength),
		Name:        Truncate(name, MaxNameLength),
		Type:        r.Type,
		Description: Truncate(r.Description, MaxDescriptionLength),
	}
}

// NormalizeAll normalizes every record, preserving order.
func NormalizeAll(records []WorkflowRecord) []WorkflowRecord {
	out := make([]WorkflowRecord, len(records))
	for i, r := range records {
		out[i] = r.Normalize()
	}
	return out
}

// Truncate cuts s to at most n characters (runes, not bytes).
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Length returns the character count used for the field limits.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
