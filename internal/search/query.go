package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Search returns the ids of plants matching text, best match first.
func (s *PlantIndex) Search(ctx context.Context, text string, limit int) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" || limit <= 0 {
		return nil, nil
	}
	return s.search(ctx, buildSearchQuery(text), limit)
}

// SearchWithin is Search restricted to the plants in ids. The restriction
// is applied inside the index, so limit counts only permitted plants.
// An empty ids matches nothing.
func (s *PlantIndex) SearchWithin(ctx context.Context, text string, ids []string, limit int) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" || limit <= 0 || len(ids) == 0 {
		return nil, nil
	}
	q := bleve.NewConjunctionQuery(buildSearchQuery(text), bleve.NewDocIDQuery(ids))
	return s.search(ctx, q, limit)
}

func (s *PlantIndex) search(ctx context.Context, q query.Query, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	result, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// buildSearchQuery matches text against every searchable field.
//
// Name matches rank highest. A fuzzy and a prefix query on the name give
// typo tolerance and search-as-you-type. Tags and frequency only match whole
// values.
func buildSearchQuery(text string) query.Query {
	lower := strings.ToLower(text)

	nameMatch := bleve.NewMatchQuery(text)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	typeMatch := bleve.NewMatchQuery(text)
	typeMatch.SetField("type")
	typeMatch.SetBoost(1.5)

	notesMatch := bleve.NewMatchQuery(text)
	notesMatch.SetField("notes")
	notesMatch.SetBoost(0.5)

	tagTerm := bleve.NewTermQuery(lower)
	tagTerm.SetField("tags")
	tagTerm.SetBoost(2.0)

	frequencyTerm := bleve.NewTermQuery(lower)
	frequencyTerm.SetField("frequency")

	queries := []query.Query{nameMatch, typeMatch, notesMatch, tagTerm, frequencyTerm}

	if len(lower) >= 4 {
		fuzzy := bleve.NewFuzzyQuery(lower)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("name")
		fuzzy.SetBoost(0.8)
		queries = append(queries, fuzzy)
	}

	// Minimum 2 chars for prefix.
	if len(lower) >= 2 && !strings.ContainsAny(lower, " \t") {
		prefix := bleve.NewPrefixQuery(lower)
		prefix.SetField("name")
		prefix.SetBoost(0.5)
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
