package index

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// contentDocument is the document shape stored in the bleve index. The
// document ID is the file's absolute path, matching the Store's identity.
type contentDocument struct {
	Content string `json:"content"`
	Path    string `json:"path"`
	Name    string `json:"name"`
	Dialect string `json:"dialect"`
}

func newContentIndex() (bleve.Index, error) {
	idx, err := bleve.NewMemOnly(buildContentMapping())
	if err != nil {
		return nil, fmt.Errorf("creating content index: %w", err)
	}
	return idx, nil
}

func buildContentMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Content itself is not stored; the Store's content cache is the
	// source of truth for line-level extraction.
	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.IncludeInAll = true
	docMapping.AddFieldMappingsAt("content", contentField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Store = true
	pathField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("path", pathField)

	nameField := bleve.NewKeywordFieldMapping()
	nameField.Store = true
	nameField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("name", nameField)

	dialectField := bleve.NewKeywordFieldMapping()
	dialectField.Store = true
	dialectField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("dialect", dialectField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// buildContentQuery parses a query string into a bleve query.
// Query forms:
//   - /pattern/: regexp query
//   - "quoted text": phrase query
//   - anything else: match query (word-level)
func buildContentQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)

	if strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") && len(queryString) > 2 {
		return bleve.NewRegexpQuery(queryString[1 : len(queryString)-1])
	}
	if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") && len(queryString) > 2 {
		return bleve.NewMatchPhraseQuery(queryString[1 : len(queryString)-1])
	}
	return bleve.NewMatchQuery(queryString)
}

// QueryTerm strips /regex/ or "phrase" delimiters from a content query,
// leaving the raw term for line-level matching.
func QueryTerm(queryString string) string {
	queryString = strings.TrimSpace(queryString)

	if strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") && len(queryString) > 2 {
		return queryString[1 : len(queryString)-1]
	}
	if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") && len(queryString) > 2 {
		return queryString[1 : len(queryString)-1]
	}
	return queryString
}

// MatchingPaths runs a bleve search and returns the absolute paths of the
// hits in score order. Callers scan those files line by line for the exact
// matches; limit bounds the files they will look at, so the request
// over-fetches to survive that filtering.
func (s *Store) MatchingPaths(queryString string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}

	req := bleve.NewSearchRequest(buildContentQuery(queryString))
	req.Size = limit * 5

	s.mu.RLock()
	res, err := s.content.Search(req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("searching content index: %w", err)
	}

	paths := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		paths = append(paths, hit.ID)
	}
	return paths, nil
}
