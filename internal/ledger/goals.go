package ledger

import "sort"

// Goals returns every goal with its effective progress. The stored
// current_amount is ignored past creation: progress is the sum of matching
// transactions, explicit goal_id links first, then the implicit heuristic
// for untagged ones. PURCHASE goals only count explicit links.
func (s *Store) Goals() []GoalProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]GoalProgress, 0, len(s.data.Goals))
	for _, g := range s.data.Goals {
		var matched []Transaction
		for _, t := range s.data.Transactions {
			if t.GoalID == g.ID {
				matched = append(matched, t)
				continue
			}
			if t.GoalID != "" {
				continue
			}
			if implicitGoalMatch(g.Type, t) {
				matched = append(matched, t)
			}
		}

		var total float64
		for _, t := range matched {
			total += t.Amount
		}

		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date > matched[j].Date })
		recent := matched
		if len(recent) > 3 {
			recent = recent[:3]
		}

		out = append(out, GoalProgress{
			Goal:                g,
			CurrentAmount:       total,
			RecentContributions: recent,
		})
	}
	return out
}

// implicitGoalMatch attributes untagged transactions to a goal by type and
// category. Credit-card and renting categories are excluded from DEBT
// matching since those tend to be recurring payments, not debt payoff.
func implicitGoalMatch(goalType GoalType, t Transaction) bool {
	switch goalType {
	case GoalDebt:
		if t.CategoryID == CatTarjeta || t.CategoryID == CatRenting {
			return false
		}
		return t.Type == TypePagoDeuda || t.CategoryID == CatDeuda
	case GoalEmergency:
		return t.Type == TypeAhorro || t.CategoryID == CatAhorro
	}
	return false
}
