package legalcase

import (
	"github.com/caselens/tiger/internal/domain/document"
)

// DenialDetail captures the particulars of one credit denial or adverse
// action, taken from a denial letter.
type DenialDetail struct {
	Creditor        string   `json:"creditor,omitempty"`
	ApplicationType string   `json:"application_type,omitempty"`
	Date            string   `json:"date,omitempty"`
	CreditScore     string   `json:"credit_score,omitempty"`
	Reasons         []string `json:"reasons,omitempty"`
	SourceDocument  string   `json:"source_document,omitempty"`
}

// DamageClaim is one of the standard damage demands of an FCRA complaint.
type DamageClaim struct {
	Available   bool   `json:"available"`
	Basis       string `json:"basis,omitempty"`
	Description string `json:"description,omitempty"`
}

// DamageStatistics summarizes the structured damage items.
type DamageStatistics struct {
	TotalItems    int            `json:"total_items"`
	SelectedItems int            `json:"selected_items"`
	WithEvidence  int            `json:"with_evidence"`
	ByCategory    map[string]int `json:"by_category"`
}

// CaseDamages carries the extracted damage items in both flat and
// per-category views, together with the standard statutory demands.
type CaseDamages struct {
	StructuredDamages  []document.DamageItem            `json:"structured_damages"`
	CategorizedDamages map[string][]document.DamageItem `json:"categorized_damages"`
	Statistics         DamageStatistics                 `json:"statistics"`

	ActualDamages    DamageClaim `json:"actual_damages"`
	StatutoryDamages DamageClaim `json:"statutory_damages"`
	PunitiveDamages  DamageClaim `json:"punitive_damages"`
	AttorneyFees     DamageClaim `json:"attorney_fees"`

	DenialDetails []DenialDetail `json:"denial_details,omitempty"`
}

// NewCaseDamages builds both damage views from the extracted items and
// derives the standard demands.  Statutory damages and attorney fees are
// always pleadable under the FCRA; actual damages require at least one
// concrete item.
func NewCaseDamages(items []document.DamageItem) CaseDamages {
	if items == nil {
		items = []document.DamageItem{}
	}

	categorized := make(map[string][]document.DamageItem)
	stats := DamageStatistics{
		TotalItems: len(items),
		ByCategory: make(map[string]int),
	}
	for _, item := range items {
		key := item.Category.String()
		categorized[key] = append(categorized[key], item)
		stats.ByCategory[key]++
		if item.Selected {
			stats.SelectedItems++
		}
		if item.EvidenceAvailable {
			stats.WithEvidence++
		}
	}

	return CaseDamages{
		StructuredDamages:  items,
		CategorizedDamages: categorized,
		Statistics:         stats,
		ActualDamages: DamageClaim{
			Available:   len(items) > 0,
			Basis:       "15 U.S.C. §§ 1681n(a)(1)(A), 1681o(a)(1)",
			Description: "Actual damages sustained by the plaintiff as a result of the violations",
		},
		StatutoryDamages: DamageClaim{
			Available:   true,
			Basis:       "15 U.S.C. § 1681n(a)(1)(A)",
			Description: "Statutory damages of not less than $100 and not more than $1,000 per willful violation",
		},
		PunitiveDamages: DamageClaim{
			Available:   true,
			Basis:       "15 U.S.C. § 1681n(a)(2)",
			Description: "Punitive damages as the court may allow for willful noncompliance",
		},
		AttorneyFees: DamageClaim{
			Available:   true,
			Basis:       "15 U.S.C. §§ 1681n(a)(3), 1681o(a)(2)",
			Description: "Costs of the action together with reasonable attorney's fees",
		},
	}
}

// AddDenialDetail appends one denial-letter detail record.
func (d *CaseDamages) AddDenialDetail(detail DenialDetail) {
	d.DenialDetails = append(d.DenialDetails, detail)
}

// HasItems reports whether any structured damage item was extracted.
func (d CaseDamages) HasItems() bool { return len(d.StructuredDamages) > 0 }
