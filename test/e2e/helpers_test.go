// Package e2e_test drives the full case pipeline, from on-disk folders to
// written artifacts, with every collaborator real. Each test lays out a
// case folder under a temp directory and runs it through extraction,
// consolidation, validation, hydration, and output.
package e2e_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caselens/tiger/internal/application/consolidation"
	"github.com/caselens/tiger/internal/application/hydration"
	"github.com/caselens/tiger/internal/application/pipeline"
	"github.com/caselens/tiger/internal/application/processing"
	"github.com/caselens/tiger/internal/application/validation"
	"github.com/caselens/tiger/internal/events"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/internal/infrastructure/output"
	"github.com/caselens/tiger/internal/intelligence/date_ner"
	"github.com/caselens/tiger/internal/intelligence/decoder"
	"github.com/caselens/tiger/internal/intelligence/legal_ner"
	"github.com/caselens/tiger/internal/testutil"
)

// newRunner builds a pipeline runner over real collaborators, writing into
// a fresh output root.
func newRunner(t *testing.T, opts ...pipeline.Option) *pipeline.Runner {
	t.Helper()

	logger := logging.NewNopLogger()
	registry := decoder.NewRegistry(
		decoder.NewTextDecoder(),
		decoder.NewPDFDecoder(),
		decoder.NewDOCXDecoder(),
	)
	dates := date_ner.NewRecognizer()
	legal := legal_ner.NewRecognizer()
	factory := func(bc *events.Broadcaster) (processing.Processor, error) {
		return processing.NewProcessor(registry, dates, legal, logger,
			processing.WithBroadcaster(bc))
	}

	consolidator := consolidation.NewConsolidator(consolidation.Settings{
		FirmName:    "Mallon Consumer Law Group, PLLC",
		FirmAddress: "238 Merritt Drive\nOradell, NJ 07649",
		FirmPhone:   "(917) 734-6815",
		FirmEmail:   "kmallon@consumerprotectionfirm.com",
	}, logger)

	hydrator, err := hydration.NewHydrator(logger)
	require.NoError(t, err)

	manager, err := output.NewManager(filepath.Join(t.TempDir(), "out"),
		output.WithLogger(logger))
	require.NoError(t, err)

	runner, err := pipeline.NewRunner(factory, consolidator,
		validation.NewDefaultSuite(logger), hydrator, manager, logger, opts...)
	require.NoError(t, err)
	return runner
}

// runCase lays files out as a case folder and runs it end to end.
func runCase(t *testing.T, caseID string, files map[string]string, opts ...pipeline.Option) *pipeline.CaseResult {
	t.Helper()

	folder := testutil.WriteCaseFolder(t, caseID, files)
	res, err := newRunner(t, opts...).Run(context.Background(), folder)
	require.NoError(t, err)
	return res
}

// attorneyNotes is the complete notes document for the baseline case. The
// dispute predates every damage event and the filing follows all of them,
// so the chronology is clean and the record warning-free.
const attorneyNotes = `CASE_NUMBER: 1:25-cv-01987
COURT_NAME: UNITED STATES DISTRICT COURT
COURT_DISTRICT: EASTERN DISTRICT OF NEW YORK
FILING_DATE: April 5, 2025
NAME: Eman Youssef
ADDRESS: 123-45 Sanford Avenue, Flushing, NY 11355
PHONE: (718) 555-0147
PLAINTIFF_COUNSEL_NAME: Kevin Mallon
DISCOVERY_DATE: March 3, 2024
DISPUTE_DATE: May 5, 2024

DEFENDANTS:
- TD Bank, N.A.

BACKGROUND:
Imposters ran up over $9,000 in unauthorized charges on plaintiff's TD Bank credit card.
Plaintiff disputed the fraudulent account with all three credit reporting agencies.
Each agency verified the account as accurate without a reasonable reinvestigation.
The inaccurate tradeline stayed on plaintiff's credit reports through the filing date.
Plaintiff was denied new credit three times while the tradeline persisted.

DAMAGES:
Financial Harm:
- Credit denial by TigerCard Services (June 2024) [Evidence: denial letter]
- Credit denial by Hudson Auto Finance (July 2024) [Evidence: denial letter]
- Credit denial by Metro Home Lending (August 2024) [Evidence: denial letter]

Emotional Distress:
- Anxiety and humiliation from repeated denials

LEGAL_CLAIMS:
Count 1 - FCRA Violations:
- 15 U.S.C. § 1681e(b): Failure to follow reasonable procedures (All Defendants)
- 15 U.S.C. § 1681i: Failure to conduct a reasonable reinvestigation (Equifax, Experian, Trans Union)
Count 2 - NY FCRA Violations:
- N.Y. GBL § 380-j(a): Reporting information known to be inaccurate (Equifax, Experian, Trans Union)
`

// notesWithDisputeDate swaps the labeled dispute date in the baseline notes.
func notesWithDisputeDate(t *testing.T, date string) string {
	t.Helper()
	const label = "DISPUTE_DATE: May 5, 2024"
	require.Contains(t, attorneyNotes, label)
	return strings.Replace(attorneyNotes, label, "DISPUTE_DATE: "+date, 1)
}

// denialLetter builds an adverse-action letter addressed to the consumer,
// naming the bureau whose report drove the decision.
func denialLetter(addressee, creditor, bureau, deniedOn string) string {
	return creditor + `
Application Services Department

Dear ` + addressee + `:

Thank you for your recent application for a consumer credit account.
After reviewing your ` + bureau + ` credit report, your application was denied on ` + deniedOn + `.

Your credit score of 545 was a factor in our decision.

Principal reasons for our decision:
- Serious delinquency reported on your ` + bureau + ` credit report
- Too many accounts with balances

This notice is provided under the Fair Credit Reporting Act.
`
}

// baselineFolder is the canonical case: complete notes plus one denial
// letter per bureau, all dated between the dispute and the filing.
func baselineFolder() map[string]string {
	return map[string]string{
		"Atty_Notes.txt":        attorneyNotes,
		"Equifax_Denial.txt":    denialLetter("Eman Youssef", "TigerCard Services", "Equifax", "June 15, 2024"),
		"Experian_Denial.txt":   denialLetter("Eman Youssef", "Hudson Auto Finance", "Experian", "July 10, 2024"),
		"TransUnion_Denial.txt": denialLetter("Eman Youssef", "Metro Home Lending", "TransUnion", "August 22, 2024"),
	}
}

// serviceCopy builds a served court paper whose caption names one
// defendant. The text stays free of FCRA language so no standard agency
// block joins the roster.
func serviceCopy(defendantLine string) string {
	return `UNITED STATES DISTRICT COURT
EASTERN DISTRICT OF NEW YORK

EMAN YOUSSEF,
Plaintiff,
v.
` + defendantLine + `
Defendant.

Case No. 1:25-cv-01987

To: ` + strings.TrimRight(defendantLine, ",") + `

A lawsuit has been filed against you. Within 21 days after service of this
document on you, you must serve on the plaintiff an answer to the attached
pleading or a motion under Rule 12 of the Federal Rules of Civil Procedure.
`
}
