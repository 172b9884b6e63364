package document

// ─────────────────────────────────────────────────────────────────────────────
// Legal entity references
// ─────────────────────────────────────────────────────────────────────────────

// EntityType classifies a recognized legal entity reference.
type EntityType string

const (
	EntityCourt      EntityType = "court"
	EntityParty      EntityType = "party"
	EntityAttorney   EntityType = "attorney"
	EntityCaseNumber EntityType = "case_number"
)

// String returns the wire representation of the entity type.
func (t EntityType) String() string { return string(t) }

// Role names the capacity in which a party or attorney appears.
type Role string

const (
	RolePlaintiff Role = "plaintiff"
	RoleDefendant Role = "defendant"
	RoleCounsel   Role = "counsel"
	RoleJudge     Role = "judge"
	RoleClerk     Role = "clerk"
	RoleNone      Role = "none"
)

// String returns the wire representation of the role.
func (r Role) String() string { return string(r) }

// LegalEntity is a recognized party, attorney, court, or case-number
// reference with the text evidence it was derived from.
type LegalEntity struct {
	EntityType EntityType `json:"entity_type"`
	Name       string     `json:"name"`
	Role       Role       `json:"role"`
	Address    string     `json:"address,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email,omitempty"`
	Confidence float64    `json:"confidence"`
	SourceText string     `json:"source_text,omitempty"`
}

// CaseInformation is the structured view the legal-entity recognizer emits
// alongside the entity list: the court, district, and docket fields a single
// document supports.
type CaseInformation struct {
	CaseNumber    string `json:"case_number,omitempty"`
	CourtName     string `json:"court_name,omitempty"`
	CourtDistrict string `json:"court_district,omitempty"`
}
