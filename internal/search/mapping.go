package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for plant documents.
//
// Name and notes get English stemming so "ferns" finds "Fern". Type uses the
// simple analyzer to keep botanical names unstemmed. Tags and frequency are
// keywords.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = simple.Name
	typeFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	// Not stored, can be long.
	notesFieldMapping := bleve.NewTextFieldMapping()
	notesFieldMapping.Analyzer = en.AnalyzerName
	notesFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("notes", notesFieldMapping)

	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = keyword.Name
	tagsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	frequencyFieldMapping := bleve.NewTextFieldMapping()
	frequencyFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("frequency", frequencyFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
