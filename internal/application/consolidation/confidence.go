package consolidation

import "github.com/caselens/tiger/internal/domain/legalcase"

// Field weights for the completeness score. The groups sum to 100: 30 for
// the caption, 20 for the plaintiff, 20 for the defendant roster, 15 for
// counsel, 10 for the allegations, 5 for a warning-free consolidation.
const (
	weightCaseNumber    = 10
	weightCourtName     = 10
	weightCourtDistrict = 10

	weightPlaintiffName    = 10
	weightPlaintiffAddress = 5
	weightPlaintiffContact = 5

	weightPerDefendant = 5
	capDefendants      = 20

	weightAttorneyName    = 5
	weightAttorneyFirm    = 5
	weightAttorneyContact = 5

	weightPerAllegation = 2
	capAllegations      = 10

	bonusNoWarnings = 5
)

// Confidence scores how complete a consolidated record is on a 100-point
// scale. The score depends only on the record passed in: the same record
// always scores the same. Placeholder firm values count as absent.
func Confidence(record *legalcase.ConsolidatedCase) float64 {
	score := 0.0

	info := record.CaseInformation
	if info.CaseNumber != "" {
		score += weightCaseNumber
	}
	if info.CourtName != "" {
		score += weightCourtName
	}
	if info.CourtDistrict != "" {
		score += weightCourtDistrict
	}

	p := record.Plaintiff
	if p.Name != "" {
		score += weightPlaintiffName
	}
	if !p.Address.IsEmpty() {
		score += weightPlaintiffAddress
	}
	if p.Phone != "" || p.Email != "" {
		score += weightPlaintiffContact
	}

	score += capped(weightPerDefendant*len(record.Defendants), capDefendants)

	counsel := record.PlaintiffCounsel
	if counsel.Name != "" {
		score += weightAttorneyName
	}
	if filled(counsel.Firm, PlaceholderFirmName) {
		score += weightAttorneyFirm
	}
	if filled(counsel.Phone, PlaceholderFirmPhone) || filled(counsel.Email, PlaceholderFirmEmail) {
		score += weightAttorneyContact
	}

	score += capped(weightPerAllegation*len(record.FactualBackground.Allegations), capAllegations)

	if len(record.Warnings) == 0 {
		score += bonusNoWarnings
	}
	return score
}

func capped(points, limit int) float64 {
	if points > limit {
		points = limit
	}
	return float64(points)
}

func filled(value, placeholder string) bool {
	return value != "" && value != placeholder
}
