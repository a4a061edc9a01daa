package search

import (
	"fmt"
	"os"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Document is what gets indexed per transcription record: the transcript
// text and filename are searchable, the owner field scopes results.
type Document struct {
	ID       string `json:"id"`
	Owner    string `json:"owner"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Hit is a search result pointing back at a transcription record.
type Hit struct {
	RecordID uint    `json:"record_id"`
	Score    float64 `json:"score"`
	Fragment string  `json:"fragment,omitempty"`
}

// Engine wraps a bleve index of transcription records.
type Engine struct {
	idx bleve.Index
}

// Open opens the index at path, creating it on first use.
func Open(path string) (*Engine, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		idx, err := bleve.New(path, buildMapping())
		if err != nil {
			return nil, fmt.Errorf("create search index: %w", err)
		}
		return &Engine{idx: idx}, nil
	}
	idx, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	return &Engine{idx: idx}, nil
}

func buildMapping() mapping.IndexMapping {
	doc := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	doc.AddFieldMappingsAt("text", textField)
	doc.AddFieldMappingsAt("filename", textField)

	keyword := bleve.NewKeywordFieldMapping()
	doc.AddFieldMappingsAt("owner", keyword)
	doc.AddFieldMappingsAt("language", keyword)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

func (e *Engine) Index(recordID uint, ownerID uint, filename, text, language string) error {
	return e.idx.Index(strconv.FormatUint(uint64(recordID), 10), Document{
		ID:       strconv.FormatUint(uint64(recordID), 10),
		Owner:    strconv.FormatUint(uint64(ownerID), 10),
		Filename: filename,
		Text:     text,
		Language: language,
	})
}

func (e *Engine) Delete(recordID uint) error {
	return e.idx.Delete(strconv.FormatUint(uint64(recordID), 10))
}

// Search runs a match query over text and filename, restricted to the
// owner. Results never cross user boundaries.
func (e *Engine) Search(ownerID uint, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 20
	}
	match := bleve.NewMatchQuery(query)
	owner := bleve.NewTermQuery(strconv.FormatUint(uint64(ownerID), 10))
	owner.SetField("owner")

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(owner, match), limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField("text")

	res, err := e.idx.Search(req)
	if err != nil {
		return nil, err
	}
	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.ParseUint(h.ID, 10, 64)
		if err != nil {
			continue
		}
		hit := Hit{RecordID: uint(id), Score: h.Score}
		if frags, ok := h.Fragments["text"]; ok && len(frags) > 0 {
			hit.Fragment = frags[0]
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (e *Engine) Close() error { return e.idx.Close() }
