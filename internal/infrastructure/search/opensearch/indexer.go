package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

// ErrCaseNotIndexed is returned when a delete targets a case id that was
// never indexed.
var ErrCaseNotIndexed = errors.New(errors.ErrCodeNotFound, "case not indexed")

// CaseIndexer writes one searchable document per consolidated case, keyed by
// case id so re-running a case replaces its entry.
type CaseIndexer struct {
	client  *Client
	logger  logging.Logger
	refresh string
}

// IndexerOption adjusts indexing behavior.
type IndexerOption func(*CaseIndexer)

// WithRefreshPolicy sets the index refresh parameter. Tests use "wait_for"
// so a search immediately after indexing sees the document.
func WithRefreshPolicy(policy string) IndexerOption {
	return func(i *CaseIndexer) {
		i.refresh = policy
	}
}

// NewCaseIndexer builds an indexer over an established client.
func NewCaseIndexer(client *Client, log logging.Logger, opts ...IndexerOption) *CaseIndexer {
	if log == nil {
		log = logging.Default()
	}
	indexer := &CaseIndexer{
		client:  client,
		logger:  log.Named("case-index"),
		refresh: "false",
	}
	for _, opt := range opts {
		opt(indexer)
	}
	return indexer
}

// caseDocument is the searchable projection of a consolidated case. The full
// record lives in the output tree and the archive mirror; the index holds
// only what someone would search by.
type caseDocument struct {
	CaseID               string    `json:"case_id"`
	ClientName           string    `json:"client_name,omitempty"`
	CaseNumber           string    `json:"case_number,omitempty"`
	CourtName            string    `json:"court_name,omitempty"`
	CourtDistrict        string    `json:"court_district,omitempty"`
	FilingDate           string    `json:"filing_date,omitempty"`
	Defendants           []string  `json:"defendants"`
	CauseCount           int       `json:"cause_count"`
	ClaimCount           int       `json:"claim_count"`
	Summary              string    `json:"summary,omitempty"`
	SourceDocuments      []string  `json:"source_documents"`
	WarningCount         int       `json:"warning_count"`
	ExtractionConfidence float64   `json:"extraction_confidence"`
	ConsolidatedAt       time.Time `json:"consolidated_at"`
	IndexedAt            time.Time `json:"indexed_at"`
}

func newCaseDocument(record *legalcase.ConsolidatedCase) caseDocument {
	claims := 0
	for _, cause := range record.CausesOfAction {
		claims += len(cause.LegalClaims)
	}
	return caseDocument{
		CaseID:               record.CaseID,
		ClientName:           record.Plaintiff.Name,
		CaseNumber:           record.CaseInformation.CaseNumber,
		CourtName:            record.CaseInformation.CourtName,
		CourtDistrict:        record.CaseInformation.CourtDistrict,
		FilingDate:           record.CaseInformation.FilingDate,
		Defendants:           record.DefendantNames(),
		CauseCount:           len(record.CausesOfAction),
		ClaimCount:           claims,
		Summary:              record.FactualBackground.Summary,
		SourceDocuments:      record.SourceDocuments,
		WarningCount:         len(record.Warnings),
		ExtractionConfidence: record.ExtractionConfidence,
		ConsolidatedAt:       record.ConsolidationTimestamp.Time(),
		IndexedAt:            time.Now().UTC(),
	}
}

// caseIndexMapping returns the index settings and field mappings. Key dates
// stay keyword fields: the pipeline preserves them as counsel wrote them, so
// they are not reliably parseable as calendar dates.
func caseIndexMapping() map[string]interface{} {
	return map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 1,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"case_id":     map[string]interface{}{"type": "keyword"},
				"client_name": map[string]interface{}{"type": "text"},
				"case_number": map[string]interface{}{"type": "keyword"},
				"court_name":  map[string]interface{}{"type": "text"},
				"court_district": map[string]interface{}{
					"type": "keyword",
				},
				"filing_date": map[string]interface{}{"type": "keyword"},
				"defendants": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"raw": map[string]interface{}{"type": "keyword"},
					},
				},
				"cause_count":           map[string]interface{}{"type": "integer"},
				"claim_count":           map[string]interface{}{"type": "integer"},
				"summary":               map[string]interface{}{"type": "text"},
				"source_documents":      map[string]interface{}{"type": "keyword"},
				"warning_count":         map[string]interface{}{"type": "integer"},
				"extraction_confidence": map[string]interface{}{"type": "float"},
				"consolidated_at":       map[string]interface{}{"type": "date"},
				"indexed_at":            map[string]interface{}{"type": "date"},
			},
		},
	}
}

// EnsureIndex creates the case index when it does not exist yet.
func (i *CaseIndexer) EnsureIndex(ctx context.Context) error {
	exists, err := i.indexExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	body, err := json.Marshal(caseIndexMapping())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal index mapping")
	}

	req := opensearchapi.IndicesCreateRequest{
		Index: i.client.IndexName(),
		Body:  bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeIndexError, "failed to create case index")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return decodeError(resp, "failed to create case index")
	}

	i.logger.Info("Case index created", logging.String("index", i.client.IndexName()))
	return nil
}

func (i *CaseIndexer) indexExists(ctx context.Context) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{
		Index: []string{i.client.IndexName()},
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeIndexError, "failed to check case index")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case 200:
		return true, nil
	case 404:
		return false, nil
	}
	return false, decodeError(resp, "failed to check case index")
}

// IndexCase writes the searchable projection of one consolidated case.
func (i *CaseIndexer) IndexCase(ctx context.Context, record *legalcase.ConsolidatedCase) error {
	if record == nil || record.CaseID == "" {
		return errors.InvalidParam("consolidated case with a case id is required")
	}

	body, err := json.Marshal(newCaseDocument(record))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal case document")
	}

	req := opensearchapi.IndexRequest{
		Index:      i.client.IndexName(),
		DocumentID: record.CaseID,
		Body:       bytes.NewReader(body),
		Refresh:    i.refresh,
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeIndexError, "failed to index case")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return decodeError(resp, "failed to index case")
	}

	i.logger.Info("Case indexed",
		logging.String("case", record.CaseID),
		logging.Int("defendants", len(record.Defendants)),
	)
	return nil
}

// DeleteCase removes a case document from the index.
func (i *CaseIndexer) DeleteCase(ctx context.Context, caseID string) error {
	if caseID == "" {
		return errors.InvalidParam("case id is required")
	}

	req := opensearchapi.DeleteRequest{
		Index:      i.client.IndexName(),
		DocumentID: caseID,
		Refresh:    i.refresh,
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeIndexError, "failed to delete case document")
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return ErrCaseNotIndexed
	}
	if resp.IsError() {
		return decodeError(resp, "failed to delete case document")
	}
	return nil
}

// decodeError turns an OpenSearch error response into a coded error carrying
// the cluster's reason when one is present.
func decodeError(resp *opensearchapi.Response, message string) error {
	var envelope struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}

	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Reason != "" {
		return errors.New(errors.ErrCodeIndexError,
			message+": "+envelope.Error.Type+": "+envelope.Error.Reason)
	}
	return errors.New(errors.ErrCodeIndexError, message)
}
