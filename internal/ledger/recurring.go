package ledger

import (
	"fmt"
	"time"
)

// MaterializeResult reports what a materialization pass did.
type MaterializeResult struct {
	Created int
	Updated int
}

// ProcessFixedExpenses materializes the month's fixed expenses and
// recurring incomes. Each config entry produces at most one transaction per
// month, keyed by the generated_from link: missing ones are created dated
// min(day, days in month), existing ones are updated in place when their
// amount, note or category drifted from the config. Dates are never touched
// on drift so a manual date edit survives re-runs. Calling this twice for
// the same month is a no-op.
func (s *Store) ProcessFixedExpenses(month time.Month, year int) MaterializeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res MaterializeResult
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	for _, fe := range s.data.Config.FixedExpenses {
		existing := s.findGenerated(fe.ID, month, year)
		if existing == nil {
			day := fe.Day
			if day > daysInMonth {
				day = daysInMonth
			}
			s.addLocked(TransactionDraft{
				Type:          TypeGasto,
				Amount:        fe.Amount,
				Date:          fmt.Sprintf("%04d-%02d-%02d", year, int(month), day),
				CategoryID:    fe.CategoryID,
				AccountID:     AccountPrincipal,
				Note:          fe.Name,
				GeneratedFrom: fe.ID,
			})
			res.Created++
			continue
		}
		if existing.Amount != fe.Amount || existing.Note != fe.Name || existing.CategoryID != fe.CategoryID {
			s.applyDelta(*existing, -1)
			existing.Amount = fe.Amount
			existing.Note = fe.Name
			existing.CategoryID = fe.CategoryID
			if cat, ok := s.findCategory(existing.CategoryID); ok && existing.Type != TypeIngreso {
				existing.Type = InferType(cat)
			}
			existing.UpdatedAt = s.now().UTC().Format(time.RFC3339)
			s.applyDelta(*existing, +1)
			res.Updated++
		}
	}

	for _, ri := range s.data.Config.RecurringIncomes {
		catID := ri.CategoryID
		if catID == "" {
			catID = CatSalario
		}
		existing := s.findGenerated(ri.ID, month, year)
		if existing == nil {
			day := ri.Day
			if day > daysInMonth {
				day = daysInMonth
			}
			s.addLocked(TransactionDraft{
				Type:          TypeIngreso,
				Amount:        ri.Amount,
				Date:          fmt.Sprintf("%04d-%02d-%02d", year, int(month), day),
				CategoryID:    catID,
				AccountID:     AccountPrincipal,
				Note:          ri.Name,
				GeneratedFrom: ri.ID,
			})
			res.Created++
			continue
		}
		if existing.Amount != ri.Amount || existing.Note != ri.Name || existing.CategoryID != catID {
			s.applyDelta(*existing, -1)
			existing.Amount = ri.Amount
			existing.Note = ri.Name
			existing.CategoryID = catID
			existing.UpdatedAt = s.now().UTC().Format(time.RFC3339)
			s.applyDelta(*existing, +1)
			res.Updated++
		}
	}

	if res.Created > 0 || res.Updated > 0 {
		s.log.Debug().
			Int("created", res.Created).
			Int("updated", res.Updated).
			Str("period", fmt.Sprintf("%04d-%02d", year, int(month))).
			Msg("materialized recurring items")
		s.persist()
	}
	return res
}

func (s *Store) findGenerated(sourceID string, month time.Month, year int) *Transaction {
	for i := range s.data.Transactions {
		t := &s.data.Transactions[i]
		if t.GeneratedFrom == sourceID && txInMonth(t.Date, month, year) {
			return t
		}
	}
	return nil
}
