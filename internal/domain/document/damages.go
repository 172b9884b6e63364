package document

// ─────────────────────────────────────────────────────────────────────────────
// Damage allegations
// ─────────────────────────────────────────────────────────────────────────────

// DamageCategory groups damage allegations for the categorized case view.
type DamageCategory string

const (
	DamageCreditDenial   DamageCategory = "credit_denial"
	DamageExistingCredit DamageCategory = "existing_credit"
	DamageEmployment     DamageCategory = "employment"
	DamageHousing        DamageCategory = "housing"
	DamageEmotional      DamageCategory = "emotional"
	DamageTimeResources  DamageCategory = "time_resources"
	DamageOther          DamageCategory = "other"
)

// String returns the wire representation of the category.
func (c DamageCategory) String() string { return string(c) }

// IsValid reports whether c is one of the declared categories.
func (c DamageCategory) IsValid() bool {
	switch c {
	case DamageCreditDenial, DamageExistingCredit, DamageEmployment,
		DamageHousing, DamageEmotional, DamageTimeResources, DamageOther:
		return true
	}
	return false
}

// AllDamageCategories lists every category in presentation order.
var AllDamageCategories = []DamageCategory{
	DamageCreditDenial,
	DamageExistingCredit,
	DamageEmployment,
	DamageHousing,
	DamageEmotional,
	DamageTimeResources,
	DamageOther,
}

// DamageItem is one damage allegation extracted from attorney notes.  Date is
// free text because counsel write approximate dates ("late July 2024") that
// must survive into the complaint unaltered.
type DamageItem struct {
	Category          DamageCategory `json:"category"`
	Type              string         `json:"type"`
	Entity            string         `json:"entity,omitempty"`
	Date              string         `json:"date,omitempty"`
	EvidenceAvailable bool           `json:"evidence_available"`
	Description       string         `json:"description"`
	Selected          bool           `json:"selected"`
	Amount            *float64       `json:"amount,omitempty"`
}
