// Package testutil provides the shared FCRA case fixtures used across
// package tests: realistic case documents and helpers that lay them out as
// on-disk case folders.
package testutil

// AttorneyNotes is a complete attorney-notes document in the labeled-block
// format the consolidator parses: caption fields, plaintiff identity,
// defendants, background, damages, legal claims, and key dates.
const AttorneyNotes = `CASE_NUMBER: 1:25-cv-01987
COURT_NAME: UNITED STATES DISTRICT COURT
COURT_DISTRICT: EASTERN DISTRICT OF NEW YORK
FILING_DATE: April 5, 2025
NAME: Eman Youssef
ADDRESS: 123-45 Sanford Avenue, Flushing, NY 11355
PHONE: (718) 555-0147
PLAINTIFF_COUNSEL_NAME: Kevin Mallon
DISCOVERY_DATE: July 30, 2024
DISPUTE_DATE: December 9, 2024

DEFENDANTS:
- TD Bank, N.A.
- Equifax Information Services, LLC
- Experian Information Solutions, Inc.
- Trans Union, LLC

BACKGROUND:
Plaintiff traveled abroad with her family between June 30 and July 30, 2024.
Imposters used her TD Bank credit card to run up over $9,000 in unauthorized charges.
Plaintiff disputed the fraudulent TD Bank account with all three credit reporting agencies.
The agencies failed to conduct a reasonable reinvestigation and kept reporting the account.

DAMAGES:
Financial Harm:
- Credit denial from Capital One (December 2024) [Evidence: denial letter]
- Credit limit reduction by Chase (January 2025)

Emotional Distress:
- Anxiety and humiliation from repeated denials

LEGAL_CLAIMS:
Count 1 - FCRA Violations:
- 15 U.S.C. § 1681e(b): Failure to follow reasonable procedures (All Defendants)
- 15 U.S.C. § 1681i: Failure to conduct a reasonable reinvestigation (Equifax, Experian, Trans Union)
Count 2 - NY FCRA Violations:
- N.Y. GBL § 380-j(a): Reporting information known to be inaccurate (Equifax, Experian, Trans Union)

KEY_DATES:
- Application Date: December 1, 2024
- Denial Date: December 9, 2024
`

// ComplaintText is a filed complaint with a standard caption, numbered
// allegations, and a jury demand.
const ComplaintText = `UNITED STATES DISTRICT COURT
EASTERN DISTRICT OF NEW YORK
---------------------------------------------------------------x
EMAN YOUSSEF,
                                   Plaintiff,
        v.
TD BANK, N.A., EQUIFAX INFORMATION SERVICES, LLC,
EXPERIAN INFORMATION SOLUTIONS, INC., and
TRANS UNION, LLC,
                                   Defendants.
---------------------------------------------------------------x
Case No. 1:25-cv-01987

COMPLAINT AND DEMAND FOR JURY TRIAL

1. Plaintiff brings this action under the Fair Credit Reporting Act, 15 U.S.C. § 1681.
2. Plaintiff disputed the fraudulent TD Bank account with each consumer reporting agency.
3. The defendants failed to conduct a reasonable reinvestigation of the disputed account.

WHEREFORE, Plaintiff demands judgment against Defendants.

JURY TRIAL DEMANDED
`

// DenialLetter is an adverse-action notice carrying a creditor, an
// application type, a denial date, a credit score, and denial reasons.
const DenialLetter = `Capital One
Application Services Department

December 9, 2024

Dear Eman Youssef:

Thank you for your recent application for a credit card account with Capital One.
After reviewing your credit report, your application was denied on December 9, 2024.

Your credit score of 545 was a factor in our decision.

Principal reasons for our decision:
- Serious delinquency reported by TD Bank
- Too many accounts with balances

This notice is provided under the Fair Credit Reporting Act.
`

// SummonsText is a court summons; the consolidator drops summonses from the
// usable document set.
const SummonsText = `UNITED STATES DISTRICT COURT
EASTERN DISTRICT OF NEW YORK

SUMMONS IN A CIVIL ACTION

To: TD BANK, N.A.

A lawsuit has been filed against you. Within 21 days after service of this
summons on you, you must serve on the plaintiff an answer to the attached
complaint.

Case No. 1:25-cv-01987
`

// CaseFiles returns the standard three-document case fixture keyed by file
// name. Mutating the returned map is safe; each call builds a fresh one.
func CaseFiles() map[string]string {
	return map[string]string{
		"atty_notes.txt":        AttorneyNotes,
		"Youssef_Complaint.txt": ComplaintText,
		"CapitalOne_Denial.txt": DenialLetter,
	}
}
