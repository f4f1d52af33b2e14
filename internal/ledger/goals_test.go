package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoalProgressExplicitLinksWinOverHeuristics(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	emergency := s.AddGoal(Goal{Type: GoalEmergency, Name: "Fondo de emergencia", TargetAmount: 5000000})
	debt := s.AddGoal(Goal{Type: GoalDebt, Name: "Salir de deudas", TargetAmount: 3000000})

	// explicitly tagged to the debt goal even though it's a savings type
	s.AddTransaction(TransactionDraft{
		Type: TypeAhorro, Amount: 100000, Date: "2026-06-01",
		AccountID: AccountPrincipal, CategoryID: CatAhorro, GoalID: debt.ID,
	})
	// untagged savings attach implicitly to the emergency goal
	s.AddTransaction(TransactionDraft{
		Type: TypeAhorro, Amount: 250000, Date: "2026-06-02",
		AccountID: AccountPrincipal, CategoryID: CatAhorro,
	})

	var emergencyProgress, debtProgress GoalProgress
	for _, g := range s.Goals() {
		switch g.ID {
		case emergency.ID:
			emergencyProgress = g
		case debt.ID:
			debtProgress = g
		}
	}
	// the tagged transaction counts once, on its explicit goal only
	require.Equal(t, 100000.0, debtProgress.CurrentAmount)
	require.Equal(t, 250000.0, emergencyProgress.CurrentAmount)
}

func TestDebtGoalExcludesCardAndRenting(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	debt := s.AddGoal(Goal{Type: GoalDebt, Name: "Deuda libre", TargetAmount: 2000000})

	s.AddTransaction(TransactionDraft{
		Type: TypePagoDeuda, Amount: 400000, Date: "2026-06-01",
		AccountID: AccountPrincipal, CategoryID: CatDeuda,
	})
	// card payments are recurring obligations, not payoff progress
	s.AddTransaction(TransactionDraft{
		Type: TypePagoDeuda, Amount: 300000, Date: "2026-06-02",
		AccountID: AccountPrincipal, CategoryID: CatTarjeta,
	})
	s.AddTransaction(TransactionDraft{
		Type: TypeGasto, Amount: 200000, Date: "2026-06-03",
		AccountID: AccountPrincipal, CategoryID: CatRenting,
	})

	for _, g := range s.Goals() {
		if g.ID == debt.ID {
			require.Equal(t, 400000.0, g.CurrentAmount)
		}
	}
}

func TestPurchaseGoalOnlyCountsExplicitLinks(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	goal := s.AddGoal(Goal{Type: GoalPurchase, Name: "Moto", TargetAmount: 8000000})

	s.AddTransaction(TransactionDraft{
		Type: TypeAhorro, Amount: 500000, Date: "2026-06-01",
		AccountID: AccountPrincipal, CategoryID: CatAhorro,
	})
	s.AddTransaction(TransactionDraft{
		Type: TypeAhorro, Amount: 200000, Date: "2026-06-02",
		AccountID: AccountPrincipal, CategoryID: CatAhorro, GoalID: goal.ID,
	})

	for _, g := range s.Goals() {
		if g.ID == goal.ID {
			require.Equal(t, 200000.0, g.CurrentAmount)
		}
	}
}

func TestGoalRecentContributionsTopThreeNewestFirst(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	goal := s.AddGoal(Goal{Type: GoalEmergency, Name: "Fondo", TargetAmount: 10000000})
	dates := []string{"2026-06-01", "2026-06-03", "2026-06-02", "2026-06-05"}
	for _, d := range dates {
		s.AddTransaction(TransactionDraft{
			Type: TypeAhorro, Amount: 10000, Date: d,
			AccountID: AccountPrincipal, CategoryID: CatAhorro,
		})
	}

	for _, g := range s.Goals() {
		if g.ID != goal.ID {
			continue
		}
		require.Equal(t, 40000.0, g.CurrentAmount)
		require.Len(t, g.RecentContributions, 3)
		require.Equal(t, "2026-06-05", g.RecentContributions[0].Date)
		require.Equal(t, "2026-06-03", g.RecentContributions[1].Date)
		require.Equal(t, "2026-06-02", g.RecentContributions[2].Date)
	}
}
