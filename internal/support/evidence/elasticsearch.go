// internal/support/evidence/elasticsearch.go

// Package evidence stores past support exchanges and retrieves the ones most
// similar to an inbound query. Similarity is lexical, from the search
// engine's relevance score, normalized into [0, 1).
package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"support-inbox/internal/common/logger"
	"support-inbox/internal/models"
)

var (
	ErrSearchFailed = errors.New("EVIDENCE_SEARCH_FAILED")
	ErrIndexFailed  = errors.New("EVIDENCE_INDEX_FAILED")
)

// minSimilarity drops weak matches before they reach the prompt. Low-quality
// evidence hurts generation more than no evidence.
const minSimilarity = 0.5

type Store struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewStore(client *elasticsearch.Client, index string, log logger.Logger) *Store {
	return &Store{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{
			"component": "evidence",
			"index":     index,
		}),
	}
}

type document struct {
	Query     string        `json:"query"`
	Response  string        `json:"response"`
	Category  models.Intent `json:"category"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Search returns up to k past responses similar to the query text, most
// similar first, all above the similarity floor.
func (s *Store) Search(ctx context.Context, query string, k int) ([]models.EvidenceResponse, error) {
	if k <= 0 {
		k = 3
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields":          []string{"query", "response"},
				"like":            query,
				"min_term_freq":   1,
				"min_doc_freq":    1,
				"max_query_terms": 25,
			},
		},
		"size": k,
	}

	body, _ := json.Marshal(queryBody)
	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		// A missing index means no evidence yet, not a broken pipeline.
		if res.StatusCode == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.Status())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Score  float64  `json:"_score"`
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrSearchFailed, err)
	}

	var results []models.EvidenceResponse
	for _, hit := range searchResult.Hits.Hits {
		sim := normalizeScore(hit.Score)
		if sim <= minSimilarity {
			continue
		}
		results = append(results, models.EvidenceResponse{
			Query:      hit.Source.Query,
			Response:   hit.Source.Response,
			Category:   hit.Source.Category,
			Similarity: sim,
		})
	}

	s.logger.Debug("evidence search completed", map[string]interface{}{
		"hits":     len(searchResult.Hits.Hits),
		"returned": len(results),
	})

	return results, nil
}

// Add indexes sent exchanges so future queries can retrieve them.
func (s *Store) Add(ctx context.Context, records []models.EvidenceResponse) error {
	for _, rec := range records {
		doc := document{
			Query:     rec.Query,
			Response:  rec.Response,
			Category:  rec.Category,
			CreatedAt: time.Now().UTC(),
		}
		body, _ := json.Marshal(doc)

		req := esapi.IndexRequest{
			Index:      s.index,
			DocumentID: uuid.New().String(),
			Body:       bytes.NewReader(body),
		}
		res, err := req.Do(ctx, s.client)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIndexFailed, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("%w: %s", ErrIndexFailed, res.Status())
		}
	}

	return nil
}

// normalizeScore squashes an unbounded relevance score into [0, 1).
func normalizeScore(score float64) float64 {
	if score <= 0 {
		return 0
	}
	return score / (1 + score)
}
