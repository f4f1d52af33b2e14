package ledger

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adri1972/claritycash/internal/database"
)

func newTestStore(t *testing.T) (*Store, database.Store) {
	t.Helper()
	db := database.NewMemStore()
	s, err := NewStore(db, zerolog.Nop())
	require.NoError(t, err)
	return s, db
}

func accountBalance(t *testing.T, s *Store, id string) float64 {
	t.Helper()
	acc, ok := s.AccountByID(id)
	require.True(t, ok)
	return acc.CurrentBalance
}

func TestAddAndDeleteRestoresBalance(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	before := accountBalance(t, s, AccountPrincipal)

	tx := s.AddTransaction(TransactionDraft{
		Type:       TypeGasto,
		Amount:     50000,
		Date:       "2026-06-10",
		AccountID:  AccountPrincipal,
		CategoryID: CatAlimentacion,
		Note:       "Mercado",
	})
	require.NotEmpty(t, tx.ID)
	require.Equal(t, TypeGasto, tx.Type)
	require.Equal(t, before-50000, accountBalance(t, s, AccountPrincipal))

	sum := s.FinancialSummary(time.June, 2026)
	require.Equal(t, 50000.0, sum.Expenses)
	require.Equal(t, -50000.0, sum.BalanceNet)

	require.True(t, s.DeleteTransaction(tx.ID))
	require.Equal(t, before, accountBalance(t, s, AccountPrincipal))
	require.Zero(t, s.FinancialSummary(time.June, 2026).Expenses)
}

func TestIncomeAndTargetAccountDeltas(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	s.AddTransaction(TransactionDraft{
		Type:       TypeIngreso,
		Amount:     3000000,
		Date:       "2026-06-01",
		AccountID:  AccountPrincipal,
		CategoryID: CatSalario,
	})
	require.Equal(t, 3000000.0, accountBalance(t, s, AccountPrincipal))

	// savings move: the source pays, the target receives
	s.AddTransaction(TransactionDraft{
		Type:            TypeAhorro,
		Amount:          200000,
		Date:            "2026-06-02",
		AccountID:       AccountPrincipal,
		CategoryID:      CatAhorro,
		TargetAccountID: AccountBilletera,
	})
	require.Equal(t, 2800000.0, accountBalance(t, s, AccountPrincipal))
	require.Equal(t, 200000.0, accountBalance(t, s, AccountBilletera))
}

func TestTypeCorrectionOnAdd(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	// income-group category forces INGRESO
	tx := s.AddTransaction(TransactionDraft{
		Type:       TypeGasto,
		Amount:     100000,
		Date:       "2026-06-01",
		AccountID:  AccountPrincipal,
		CategoryID: CatSalario,
	})
	require.Equal(t, TypeIngreso, tx.Type)

	// the savings category forces AHORRO
	tx = s.AddTransaction(TransactionDraft{
		Type:       TypeGasto,
		Amount:     100000,
		Date:       "2026-06-01",
		AccountID:  AccountPrincipal,
		CategoryID: CatAhorro,
	})
	require.Equal(t, TypeAhorro, tx.Type)

	// an ordinary category forces nothing, the declared type survives
	tx = s.AddTransaction(TransactionDraft{
		Type:       TypePagoDeuda,
		Amount:     100000,
		Date:       "2026-06-01",
		AccountID:  AccountPrincipal,
		CategoryID: CatOcio,
	})
	require.Equal(t, TypePagoDeuda, tx.Type)

	// declared TARJETA_CREDITO is trusted as-is
	tx = s.AddTransaction(TransactionDraft{
		Type:       TypeTarjetaCredito,
		Amount:     100000,
		Date:       "2026-06-01",
		AccountID:  AccountPrincipal,
		CategoryID: CatOcio,
	})
	require.Equal(t, TypeTarjetaCredito, tx.Type)

	// an empty type defaults to GASTO
	tx = s.AddTransaction(TransactionDraft{
		Amount:     100000,
		Date:       "2026-06-01",
		AccountID:  AccountPrincipal,
		CategoryID: CatOcio,
	})
	require.Equal(t, TypeGasto, tx.Type)
}

func TestUpdateTransactionRederivesTypeOnCategoryChange(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	tx := s.AddTransaction(TransactionDraft{
		Type:       TypeGasto,
		Amount:     80000,
		Date:       "2026-06-05",
		AccountID:  AccountPrincipal,
		CategoryID: CatOcio,
	})

	newCat := CatInversion
	require.True(t, s.UpdateTransaction(tx.ID, TransactionUpdate{CategoryID: &newCat}))

	var updated Transaction
	for _, got := range s.Transactions() {
		if got.ID == tx.ID {
			updated = got
		}
	}
	require.Equal(t, TypeInversion, updated.Type)
	require.NotEmpty(t, updated.UpdatedAt)
}

func TestUpdateTransactionBalanceConsistency(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	tx := s.AddTransaction(TransactionDraft{
		Type:       TypeGasto,
		Amount:     50000,
		Date:       "2026-06-05",
		AccountID:  AccountPrincipal,
		CategoryID: CatOcio,
	})
	require.Equal(t, -50000.0, accountBalance(t, s, AccountPrincipal))

	amount := 75000.0
	require.True(t, s.UpdateTransaction(tx.ID, TransactionUpdate{Amount: &amount}))
	require.Equal(t, -75000.0, accountBalance(t, s, AccountPrincipal))

	// moving the expense to another account migrates the delta
	acc := AccountBilletera
	require.True(t, s.UpdateTransaction(tx.ID, TransactionUpdate{AccountID: &acc}))
	require.Equal(t, 0.0, accountBalance(t, s, AccountPrincipal))
	require.Equal(t, -75000.0, accountBalance(t, s, AccountBilletera))
}

func TestUpdateUnknownTransactionIsNoop(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	amount := 10.0
	require.False(t, s.UpdateTransaction("nope", TransactionUpdate{Amount: &amount}))
	require.False(t, s.DeleteTransaction("nope"))
}

func TestClearTransactionsResetsBalances(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	s.AddTransaction(TransactionDraft{
		Type: TypeGasto, Amount: 10000, Date: "2026-06-01",
		AccountID: AccountPrincipal, CategoryID: CatOcio,
	})
	s.ClearTransactions()
	require.Empty(t, s.Transactions())
	require.Equal(t, 0.0, accountBalance(t, s, AccountPrincipal))
}

func TestSetBudgetsEnforcesFixedExpenseFloor(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	s.AddFixedExpense(FixedExpense{Name: "Arriendo", Amount: 900000, CategoryID: CatVivienda, Day: 1})

	warnings := s.SetBudgets(map[string]float64{
		CatVivienda: 500000,
		CatOcio:     100000,
	})
	require.Len(t, warnings, 1)
	require.Equal(t, CatVivienda, warnings[0].CategoryID)
	require.Equal(t, "Vivienda", warnings[0].CategoryName)
	require.Equal(t, 500000.0, warnings[0].Requested)
	require.Equal(t, 900000.0, warnings[0].Floor)

	cfg := s.Config()
	require.Equal(t, 900000.0, cfg.Budgets[CatVivienda])
	require.Equal(t, 100000.0, cfg.Budgets[CatOcio])
}

func TestPersistenceRoundTrip(t *testing.T) {
	t.Parallel()
	db := database.NewMemStore()

	s, err := NewStore(db, zerolog.Nop())
	require.NoError(t, err)
	tx := s.AddTransaction(TransactionDraft{
		Type: TypeGasto, Amount: 12345, Date: "2026-06-01",
		AccountID: AccountPrincipal, CategoryID: CatOcio, Note: "Cine",
	})

	reopened, err := NewStore(db, zerolog.Nop())
	require.NoError(t, err)
	txs := reopened.Transactions()
	require.Len(t, txs, 1)
	require.Equal(t, tx.ID, txs[0].ID)
	require.Equal(t, 12345.0, txs[0].Amount)
}

func TestBackupRecoversWhenPrimaryMissing(t *testing.T) {
	t.Parallel()
	db := database.NewMemStore()

	s, err := NewStore(db, zerolog.Nop())
	require.NoError(t, err)
	s.AddTransaction(TransactionDraft{
		Type: TypeGasto, Amount: 99, Date: "2026-06-01",
		AccountID: AccountPrincipal, CategoryID: CatOcio,
	})

	require.NoError(t, db.Delete(SnapshotKey))

	reopened, err := NewStore(db, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, reopened.Transactions(), 1)
}

func TestCorruptSnapshotFallsBackToDefaults(t *testing.T) {
	t.Parallel()
	db := database.NewMemStore()
	require.NoError(t, db.Save(SnapshotKey, []byte("{not json")))

	s, err := NewStore(db, zerolog.Nop())
	require.NoError(t, err)
	require.Empty(t, s.Transactions())
	require.Len(t, s.Accounts(), 2)
}

func TestGoalCRUD(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	g := s.AddGoal(Goal{Type: GoalEmergency, Name: "Fondo", TargetAmount: 1000000})
	require.NotEmpty(t, g.ID)
	require.Equal(t, GoalStatusActive, g.Status)

	require.True(t, s.UpdateGoal(g.ID, func(goal *Goal) { goal.TargetAmount = 2000000 }))
	require.True(t, s.DeleteGoal(g.ID))
	require.False(t, s.DeleteGoal(g.ID))
}

func TestFixedExpenseDayDefaults(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	fe := s.AddFixedExpense(FixedExpense{Name: "Internet", Amount: 90000, CategoryID: CatVivienda})
	require.Equal(t, 1, fe.Day)

	ri := s.AddRecurringIncome(RecurringIncome{Name: "Nómina", Amount: 4000000})
	require.Equal(t, 1, ri.Day)
}
