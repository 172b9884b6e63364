package damage_rules

import "github.com/caselens/tiger/internal/domain/document"

// Entry is one row of the fixed damage pattern table: the category and
// subcategory assigned to a bullet whose leading label matches the key.
type Entry struct {
	Category document.DamageCategory
	Type     string
}

// patternTable maps normalized bullet labels ("Denied Auto Loan:", "Credit
// Limit Reduction:", ...) to their classification.  Keys are lowercase with
// single spaces and no trailing colon.
var patternTable = map[string]Entry{
	"denied auto loan":       {document.DamageCreditDenial, "auto_loan_denial"},
	"denied auto lease":      {document.DamageCreditDenial, "auto_lease_denial"},
	"denied mortgage":        {document.DamageCreditDenial, "mortgage_denial"},
	"denied credit card":     {document.DamageCreditDenial, "credit_card_denial"},
	"denied personal loan":   {document.DamageCreditDenial, "personal_loan_denial"},
	"denied student loan":    {document.DamageCreditDenial, "student_loan_denial"},
	"denied credit increase": {document.DamageCreditDenial, "credit_increase_denial"},

	"credit limit reduction": {document.DamageExistingCredit, "credit_limit_reduction"},
	"interest rate increase": {document.DamageExistingCredit, "interest_rate_increase"},
	"account closure":        {document.DamageExistingCredit, "account_closure"},
	"unfavorable terms":      {document.DamageExistingCredit, "unfavorable_terms"},

	"employment denial":  {document.DamageEmployment, "employment_denial"},
	"denied employment":  {document.DamageEmployment, "employment_denial"},
	"security clearance": {document.DamageEmployment, "security_clearance_issue"},

	"denied apartment": {document.DamageHousing, "rental_denial"},
	"rental denial":    {document.DamageHousing, "rental_denial"},

	"emotional distress": {document.DamageEmotional, "emotional_distress"},
	"stress and anxiety": {document.DamageEmotional, "stress_anxiety"},

	"lost time":              {document.DamageTimeResources, "lost_time"},
	"time spent":             {document.DamageTimeResources, "lost_time"},
	"out-of-pocket expenses": {document.DamageTimeResources, "out_of_pocket"},
}

// northStarFallback classifies bullets that match no table row but sit under
// one of the four labeled North-Star subcategory headers.
var northStarFallback = map[string]Entry{
	"financial":    {document.DamageExistingCredit, "financial_harm"},
	"reputational": {document.DamageOther, "reputational_harm"},
	"emotional":    {document.DamageEmotional, "emotional_distress"},
	"personal":     {document.DamageTimeResources, "personal_costs"},
}

// categoryKeywords backs the last-resort heuristic for unlabeled bullets.
// Groups are checked in order and the first keyword hit wins, so the more
// specific harms sit above the generic denial vocabulary.
var categoryKeywords = []struct {
	category document.DamageCategory
	keywords []string
}{
	{document.DamageEmployment, []string{"employment", "employer", "job offer", "hiring", "security clearance"}},
	{document.DamageHousing, []string{"apartment", "housing", "rental", "landlord", "lease"}},
	{document.DamageEmotional, []string{"stress", "anxiety", "emotional", "distress", "embarrass", "humiliat", "sleep"}},
	{document.DamageTimeResources, []string{"hours spent", "time spent", "postage", "phone calls", "letters"}},
	{document.DamageExistingCredit, []string{"credit limit", "interest rate", "account closed", "account closure"}},
	{document.DamageCreditDenial, []string{"denied", "denial", "declined", "rejected"}},
}
