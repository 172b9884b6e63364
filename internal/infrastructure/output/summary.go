package output

import (
	"fmt"
	"strings"

	"github.com/caselens/tiger/internal/domain/legalcase"
)

// CaseSummary renders the review-oriented Markdown written as
// case_summary.md. Missing values are shown as gaps rather than omitted so a
// reviewer sees what extraction could not find.
func CaseSummary(record *legalcase.ConsolidatedCase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Case Summary: %s\n\n", record.CaseID)

	b.WriteString("## Case Information\n\n")
	writeField(&b, "Court", record.CaseInformation.CourtName)
	writeField(&b, "District", record.CaseInformation.CourtDistrict)
	writeField(&b, "Case number", record.CaseInformation.CaseNumber)
	writeField(&b, "Filing date", record.CaseInformation.FilingDate)
	fmt.Fprintf(&b, "- **Jury demand:** %v\n", record.CaseInformation.JuryDemand)
	fmt.Fprintf(&b, "- **Extraction confidence:** %.0f/100\n", record.ExtractionConfidence)

	b.WriteString("\n## Parties\n\n")
	plaintiff := record.Plaintiff.Name
	if plaintiff == "" {
		plaintiff = "(not found)"
	}
	fmt.Fprintf(&b, "**Plaintiff:** %s%s\n\n", plaintiff, plaintiffLocation(record.Plaintiff))
	b.WriteString("**Defendants:**\n\n")
	if len(record.Defendants) == 0 {
		b.WriteString("- (none identified)\n")
	}
	for i, d := range record.Defendants {
		fmt.Fprintf(&b, "%d. %s", i+1, d.Name)
		if d.Type != "" {
			fmt.Fprintf(&b, " (%s)", d.Type)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Timeline\n\n")
	writeTimeline(&b, record.CaseTimeline)

	b.WriteString("\n## Causes of Action\n\n")
	if len(record.CausesOfAction) == 0 {
		b.WriteString("(none)\n")
	}
	for _, cause := range record.CausesOfAction {
		fmt.Fprintf(&b, "%d. **%s**", cause.CountNumber, cause.Title)
		if len(cause.AgainstDefendants) > 0 {
			fmt.Fprintf(&b, " (against: %s)", strings.Join(cause.AgainstDefendants, ", "))
		}
		b.WriteString("\n")
		for _, claim := range cause.LegalClaims {
			marker := " "
			if claim.Selected {
				marker = "x"
			}
			fmt.Fprintf(&b, "   - [%s] %s: %s\n", marker, claim.Citation, claim.Description)
		}
	}

	b.WriteString("\n## Damages\n\n")
	stats := record.Damages.Statistics
	fmt.Fprintf(&b, "- **Structured items:** %d (%d selected, %d with evidence)\n",
		stats.TotalItems, stats.SelectedItems, stats.WithEvidence)
	writeClaimAvailability(&b, "Actual damages", record.Damages.ActualDamages)
	writeClaimAvailability(&b, "Statutory damages", record.Damages.StatutoryDamages)
	writeClaimAvailability(&b, "Punitive damages", record.Damages.PunitiveDamages)
	writeClaimAvailability(&b, "Attorney fees", record.Damages.AttorneyFees)

	b.WriteString("\n## Source Documents\n\n")
	if len(record.SourceDocuments) == 0 {
		b.WriteString("(none)\n")
	}
	for _, name := range record.SourceDocuments {
		fmt.Fprintf(&b, "- %s\n", name)
	}

	b.WriteString("\n## Warnings\n\n")
	if len(record.Warnings) == 0 {
		b.WriteString("(none)\n")
	}
	for _, w := range record.Warnings {
		fmt.Fprintf(&b, "- %s\n", w)
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		value = "(not found)"
	}
	fmt.Fprintf(b, "- **%s:** %s\n", label, value)
}

func plaintiffLocation(p legalcase.Plaintiff) string {
	if p.Address.City == "" && p.Address.State == "" {
		return ""
	}
	parts := make([]string, 0, 2)
	if p.Address.City != "" {
		parts = append(parts, p.Address.City)
	}
	if p.Address.State != "" {
		parts = append(parts, p.Address.State)
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, ", "))
}

func writeTimeline(b *strings.Builder, t legalcase.CaseTimeline) {
	keyDates := []struct {
		label string
		value string
	}{
		{"Discovery", t.DiscoveryDate},
		{"Dispute", t.DisputeDate},
		{"Application", t.ApplicationDate},
		{"Denial", t.DenialDate},
		{"Filing", t.FilingDate},
	}
	any := false
	for _, kd := range keyDates {
		if kd.value == "" {
			continue
		}
		fmt.Fprintf(b, "- **%s date:** %s\n", kd.label, kd.value)
		any = true
	}
	if !any {
		b.WriteString("- (no key dates resolved)\n")
	}
	if len(t.DamageEvents) > 0 {
		fmt.Fprintf(b, "- **Damage events:** %d\n", len(t.DamageEvents))
	}
	fmt.Fprintf(b, "- **Chronology valid:** %v\n", t.ChronologicalValidation.IsValid)
	for _, e := range t.ChronologicalValidation.Errors {
		fmt.Fprintf(b, "  - error: %s\n", e)
	}
	for _, w := range t.ChronologicalValidation.Warnings {
		fmt.Fprintf(b, "  - warning: %s\n", w)
	}
	fmt.Fprintf(b, "- **Timeline confidence:** %.0f/100\n", t.TimelineConfidence)
}

func writeClaimAvailability(b *strings.Builder, label string, claim legalcase.DamageClaim) {
	state := "not available"
	if claim.Available {
		state = "available"
	}
	fmt.Fprintf(b, "- **%s:** %s\n", label, state)
}
