package rag

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"

	logx "github.com/dannysmp/genai-customer-support-agent/pkg/logger"
)

const defaultTopK = 4

// Index is an in-memory full-text index over the knowledge documents.
// Document bodies are kept in a side map keyed by ID so hits resolve
// without depending on stored fields.
type Index struct {
	idx  bleve.Index
	docs map[string]Document
}

// NewIndex builds a memory-only index over the given documents. The index
// is immutable after construction; rebuilding requires a restart, which
// matches how the underlying data files are loaded.
func NewIndex(docs []Document) (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}

	byID := make(map[string]Document, len(docs))
	batch := idx.NewBatch()
	for _, d := range docs {
		if err := batch.Index(d.ID, d); err != nil {
			return nil, fmt.Errorf("index document %s: %w", d.ID, err)
		}
		byID[d.ID] = d
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("commit index batch: %w", err)
	}

	return &Index{idx: idx, docs: byID}, nil
}

// Search returns the bodies of the top matching documents, best first.
// Retrieval is best effort: failures and empty queries degrade to no
// snippets rather than an error, so generation proceeds ungrounded.
func (ix *Index) Search(ctx context.Context, query string, k int) []string {
	if ix == nil || query == "" {
		return nil
	}
	if k <= 0 {
		k = defaultTopK
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), k, 0, false)
	res, err := ix.idx.SearchInContext(ctx, req)
	if err != nil {
		logx.Warn().Err(err).Str("query", query).Msg("knowledge search failed")
		return nil
	}

	out := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if d, ok := ix.docs[hit.ID]; ok {
			out = append(out, d.Body)
		}
	}
	return out
}

// Size returns the number of indexed documents.
func (ix *Index) Size() int {
	return len(ix.docs)
}

func (ix *Index) Close() error {
	return ix.idx.Close()
}
