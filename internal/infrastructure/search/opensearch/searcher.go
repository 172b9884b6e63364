package opensearch

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 100
)

// CaseSearcher finds indexed cases by client, defendant, case number or
// summary text.
type CaseSearcher struct {
	client *Client
	logger logging.Logger
}

// CaseHit is one search result.
type CaseHit struct {
	CaseID     string   `json:"case_id"`
	ClientName string   `json:"client_name"`
	CaseNumber string   `json:"case_number"`
	FilingDate string   `json:"filing_date"`
	Defendants []string `json:"defendants"`
	Score      float64  `json:"score"`
}

// NewCaseSearcher builds a searcher over an established client.
func NewCaseSearcher(client *Client, log logging.Logger) *CaseSearcher {
	if log == nil {
		log = logging.Default()
	}
	return &CaseSearcher{
		client: client,
		logger: log.Named("case-search"),
	}
}

// Search runs a free-text query over the case index and returns up to size
// hits, best match first. An empty query lists the most recently indexed
// cases instead.
func (s *CaseSearcher) Search(ctx context.Context, query string, size int) ([]CaseHit, error) {
	if size <= 0 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}

	body, err := json.Marshal(buildSearchBody(query, size))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal search query")
	}

	req := opensearchapi.SearchRequest{
		Index: []string{s.client.IndexName()},
		Body:  bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, s.client.GetClient())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIndexError, "case search failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, decodeError(resp, "case search failed")
	}

	var envelope struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string          `json:"_id"`
				Score  float64         `json:"_score"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}

	hits := make([]CaseHit, 0, len(envelope.Hits.Hits))
	for _, raw := range envelope.Hits.Hits {
		var doc caseDocument
		if err := json.Unmarshal(raw.Source, &doc); err != nil {
			s.logger.Warn("Skipping undecodable search hit",
				logging.String("id", raw.ID),
				logging.Err(err),
			)
			continue
		}
		hits = append(hits, CaseHit{
			CaseID:     doc.CaseID,
			ClientName: doc.ClientName,
			CaseNumber: doc.CaseNumber,
			FilingDate: doc.FilingDate,
			Defendants: doc.Defendants,
			Score:      raw.Score,
		})
	}

	s.logger.Debug("Case search completed",
		logging.String("query", query),
		logging.Int64("total", envelope.Hits.Total.Value),
		logging.Int("returned", len(hits)),
	)
	return hits, nil
}

func buildSearchBody(query string, size int) map[string]interface{} {
	if query == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
			"sort":  []interface{}{map[string]interface{}{"indexed_at": "desc"}},
			"size":  size,
		}
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query": query,
				"fields": []string{
					"case_number^3",
					"client_name^2",
					"defendants^2",
					"court_name",
					"summary",
				},
			},
		},
		"size": size,
	}
}
