package consolidation

import (
	"fmt"
	"strings"

	"github.com/caselens/tiger/internal/domain/legalcase"
)

// candidate is one document's value for a field under reconciliation.
type candidate struct {
	value      string
	source     string
	confidence float64
	attyNotes  bool
}

// tally accumulates the votes for one distinct value.
type tally struct {
	cand       candidate
	count      int
	attyNotes  bool
	confidence float64
}

// beats orders tallies: more votes win, then attorney-notes provenance,
// then higher confidence. On a full tie the earlier-seen value stands.
func (t *tally) beats(other *tally) bool {
	if t.count != other.count {
		return t.count > other.count
	}
	if t.attyNotes != other.attyNotes {
		return t.attyNotes
	}
	return t.confidence > other.confidence
}

// reconcile picks the winning value among the candidates by majority vote
// and returns it together with the distinct losing values, in the order
// they were first seen, for conflict reporting.
func reconcile(cands []candidate) (candidate, []string) {
	byValue := make(map[string]*tally)
	var order []string
	for _, cand := range cands {
		cand.value = strings.TrimSpace(cand.value)
		if cand.value == "" {
			continue
		}
		t, ok := byValue[cand.value]
		if !ok {
			t = &tally{cand: cand}
			byValue[cand.value] = t
			order = append(order, cand.value)
		}
		t.count++
		if cand.attyNotes {
			t.attyNotes = true
		}
		if cand.confidence > t.confidence {
			t.confidence = cand.confidence
		}
	}
	if len(order) == 0 {
		return candidate{}, nil
	}

	best := byValue[order[0]]
	for _, v := range order[1:] {
		if byValue[v].beats(best) {
			best = byValue[v]
		}
	}
	var losers []string
	for _, v := range order {
		if v != best.cand.value {
			losers = append(losers, v)
		}
	}
	return best.cand, losers
}

// resolveField reconciles the candidates for one named field and records a
// conflict warning when disagreeing values lost the vote.
func resolveField(record *legalcase.ConsolidatedCase, field string, cands []candidate) string {
	winner, losers := reconcile(cands)
	if winner.value != "" && len(losers) > 0 {
		quoted := make([]string, len(losers))
		for i, v := range losers {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		record.AddWarning(fmt.Sprintf("conflicting %s values: kept %q from %s, ignored %s",
			field, winner.value, winner.source, strings.Join(quoted, ", ")))
	}
	return winner.value
}
