// Package validation checks finished case records for legal sufficiency.
// Validators are independent of the consolidator: they run over the
// persisted record, so a record produced or edited elsewhere gets the same
// scrutiny. Issues are advisory and never block the pipeline.
package validation

import (
	"fmt"

	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
)

// Validator inspects one record and reports human-readable issues. An empty
// slice means the record passed.
type Validator interface {
	Name() string
	Validate(record *legalcase.ConsolidatedCase) []string
}

// Result is one validator's outcome within a suite run.
type Result struct {
	Validator string   `json:"validator"`
	Issues    []string `json:"issues"`
}

// Passed reports whether the validator found nothing to flag.
func (r Result) Passed() bool { return len(r.Issues) == 0 }

// Summary aggregates a suite run over one record.
type Summary struct {
	Results     []Result `json:"results"`
	IsValid     bool     `json:"is_valid"`
	TotalIssues int      `json:"total_issues"`
}

// Issues flattens every result into "validator: issue" lines, in run order.
func (s Summary) Issues() []string {
	var out []string
	for _, r := range s.Results {
		for _, issue := range r.Issues {
			out = append(out, fmt.Sprintf("%s: %s", r.Validator, issue))
		}
	}
	return out
}

// Suite runs a fixed sequence of validators over a record.
type Suite struct {
	validators []Validator
	logger     logging.Logger
}

// NewSuite builds a suite over the given validators, in run order. A nil
// logger selects the process default.
func NewSuite(logger logging.Logger, validators ...Validator) *Suite {
	if logger == nil {
		logger = logging.Default()
	}
	return &Suite{
		validators: validators,
		logger:     logger.Named("validation"),
	}
}

// NewDefaultSuite builds the standard suite: FCRA sufficiency, record
// completeness, then timeline consistency.
func NewDefaultSuite(logger logging.Logger) *Suite {
	return NewSuite(logger,
		NewFCRAValidator(),
		NewCompletenessValidator(),
		NewTimelineValidator(),
	)
}

// Validate runs every validator and aggregates their findings. The record
// is never mutated; callers decide what to do with the issues.
func (s *Suite) Validate(record *legalcase.ConsolidatedCase) Summary {
	summary := Summary{IsValid: true}
	for _, v := range s.validators {
		issues := v.Validate(record)
		summary.Results = append(summary.Results, Result{Validator: v.Name(), Issues: issues})
		summary.TotalIssues += len(issues)
		if len(issues) > 0 {
			summary.IsValid = false
			s.logger.Debug("validator flagged record",
				logging.String("validator", v.Name()),
				logging.String("case_id", record.CaseID),
				logging.Int("issues", len(issues)))
		}
	}
	s.logger.Info("record validated",
		logging.String("case_id", record.CaseID),
		logging.Bool("valid", summary.IsValid),
		logging.Int("issues", summary.TotalIssues))
	return summary
}
