package models

// Search field types.
const (
	EdmString           = "Edm.String"
	EdmStringCollection = "Collection(Edm.String)"
)

// IndexField describes one field of a search index.
type IndexField struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Key        bool   `json:"key"`
	Searchable bool   `json:"searchable"`
	Filterable bool   `json:"filterable"`
	Sortable   bool   `json:"sortable"`
	Facetable  bool   `json:"facetable"`
}

// IndexDefinition is the subset of an index definition this service manages.
type IndexDefinition struct {
	Name   string       `json:"name"`
	Fields []IndexField `json:"fields"`
}

// WorkflowIndex returns the schema matching WorkflowRecord.
func WorkflowIndex(name string) IndexDefinition {
	return IndexDefinition{
		Name: name,
		Fields: []IndexField{
			{Name: "id", Type: EdmString, Key: true, Filterable: true},
			{Name: "name", Type: EdmString, Searchable: true, Filterable: true, Sortable: true},
			{Name: "type", Type: EdmString, Filterable: true, Facetable: true},
			{Name: "description", Type: EdmString, Searchable: true},
		},
	}
}
