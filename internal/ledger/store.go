package ledger

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adri1972/claritycash/internal/database"
)

// Storage keys. The backup key is rewritten on every save and used for
// recovery when the primary document is missing at load time.
const (
	SnapshotKey = "clarity_cash_data_v2"
	BackupKey   = "clarity_cash_backup"
)

// Store owns the snapshot and is the only component allowed to mutate it.
// Every mutation keeps account balances consistent by applying signed
// deltas incrementally, then persists the whole document.
type Store struct {
	mu   sync.Mutex
	db   database.Store
	log  zerolog.Logger
	now  func() time.Time
	data *Snapshot
}

// NewStore loads the snapshot from db, recovering from the backup copy if
// the primary document is missing or corrupt, seeding defaults otherwise.
// The load-time migration sequence runs before the result is persisted.
func NewStore(db database.Store, log zerolog.Logger) (*Store, error) {
	s := &Store{db: db, log: log, now: time.Now}
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	Migrate(snap, s.now())
	s.data = snap
	s.persist()
	return s, nil
}

func (s *Store) load() (*Snapshot, error) {
	raw, ok, err := s.db.Load(SnapshotKey)
	if err != nil {
		return nil, err
	}
	if !ok || len(raw) == 0 {
		raw, ok, err = s.db.Load(BackupKey)
		if err != nil {
			return nil, err
		}
		if ok && len(raw) > 0 {
			s.log.Warn().Msg("primary snapshot missing, restoring from backup")
		}
	}
	if !ok || len(raw) == 0 {
		return DefaultSnapshot(s.now()), nil
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Error().Err(err).Msg("snapshot corrupt, starting from defaults")
		return DefaultSnapshot(s.now()), nil
	}
	return &snap, nil
}

// persist writes the document under both keys. Failures are logged, not
// surfaced: the in-memory state stays authoritative for the session.
func (s *Store) persist() {
	s.data.Config.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	raw, err := json.Marshal(s.data)
	if err != nil {
		s.log.Error().Err(err).Msg("snapshot marshal failed")
		return
	}
	if err := s.db.Save(BackupKey, raw); err != nil {
		s.log.Error().Err(err).Msg("backup save failed")
	}
	if err := s.db.Save(SnapshotKey, raw); err != nil {
		s.log.Error().Err(err).Msg("snapshot save failed")
	}
}

// InMemory reports whether the store fell back to the session-only mode.
func (s *Store) InMemory() bool { return s.db.InMemory() }

// --- Queries ---

// Transactions returns all transactions sorted by date descending.
func (s *Store) Transactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transaction, len(s.data.Transactions))
	copy(out, s.data.Transactions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func (s *Store) Accounts() []Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Account, len(s.data.Accounts))
	copy(out, s.data.Accounts)
	return out
}

func (s *Store) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Category, len(s.data.Categories))
	copy(out, s.data.Categories)
	return out
}

func (s *Store) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Config
}

// CategoryByID returns the category and whether it exists.
func (s *Store) CategoryByID(id string) (Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findCategory(id)
}

func (s *Store) findCategory(id string) (Category, bool) {
	for _, c := range s.data.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func (s *Store) AccountByID(id string) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.data.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// --- Type inference ---

// ForcedType returns the type a category mandates: income-group categories
// force INGRESO and the savings/investment/debt categories force their
// special types. Ordinary categories force nothing.
func ForcedType(cat Category) (TransactionType, bool) {
	if cat.Group == GroupIngresos {
		return TypeIngreso, true
	}
	switch cat.ID {
	case CatAhorro:
		return TypeAhorro, true
	case CatInversion:
		return TypeInversion, true
	case CatDeuda, CatTarjeta:
		return TypePagoDeuda, true
	}
	return "", false
}

// InferType derives the transaction type from its category, defaulting to
// GASTO when the category mandates nothing. Every mutation path that
// re-derives a type goes through this one function.
func InferType(cat Category) TransactionType {
	if forced, ok := ForcedType(cat); ok {
		return forced
	}
	return TypeGasto
}

// --- Mutations ---

// TransactionDraft is the caller-supplied shape for AddTransaction.
type TransactionDraft struct {
	Type            TransactionType
	Amount          float64
	Date            string
	AccountID       string
	CategoryID      string
	Note            string
	GoalID          string
	GeneratedFrom   string
	TargetAccountID string
}

// AddTransaction stores a new transaction. The type is re-derived from the
// category unless the draft already declares INGRESO or TARJETA_CREDITO,
// then the signed balance delta is applied to the source account (and an
// income-signed delta to the target account, if any).
func (s *Store) AddTransaction(draft TransactionDraft) Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.addLocked(draft)
	s.persist()
	return t
}

func (s *Store) addLocked(draft TransactionDraft) Transaction {
	t := Transaction{
		ID:              uuid.NewString(),
		Type:            draft.Type,
		Amount:          draft.Amount,
		Date:            draft.Date,
		AccountID:       draft.AccountID,
		CategoryID:      draft.CategoryID,
		Note:            draft.Note,
		GoalID:          draft.GoalID,
		GeneratedFrom:   draft.GeneratedFrom,
		TargetAccountID: draft.TargetAccountID,
		CreatedAt:       s.now().UTC().Format(time.RFC3339),
	}
	if t.Type != TypeIngreso && t.Type != TypeTarjetaCredito {
		if cat, ok := s.findCategory(t.CategoryID); ok {
			if forced, ok := ForcedType(cat); ok {
				t.Type = forced
			}
		}
		if t.Type == "" {
			t.Type = TypeGasto
		}
	}

	s.data.Transactions = append(s.data.Transactions, t)
	s.applyDelta(t, +1)
	return t
}

// TransactionUpdate carries partial updates; nil fields are left unchanged.
type TransactionUpdate struct {
	Amount     *float64
	Date       *string
	AccountID  *string
	CategoryID *string
	Note       *string
	GoalID     *string
	Type       *TransactionType
}

// UpdateTransaction is a no-op when id is unknown. It reverts the old
// balance impact, merges updates, re-derives the type from the (possibly
// new) category unless the merged type is INGRESO, and applies the new
// impact.
func (s *Store) UpdateTransaction(id string, upd TransactionUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.data.Transactions {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	old := s.data.Transactions[idx]
	s.applyDelta(old, -1)

	t := old
	if upd.Amount != nil {
		t.Amount = *upd.Amount
	}
	if upd.Date != nil {
		t.Date = *upd.Date
	}
	if upd.AccountID != nil {
		t.AccountID = *upd.AccountID
	}
	if upd.CategoryID != nil {
		t.CategoryID = *upd.CategoryID
	}
	if upd.Note != nil {
		t.Note = *upd.Note
	}
	if upd.GoalID != nil {
		t.GoalID = *upd.GoalID
	}
	if upd.Type != nil {
		t.Type = *upd.Type
	}
	// The type is re-derived whenever the category changes, so imports that
	// were miscategorized get fixed when the user recategorizes them.
	if upd.CategoryID != nil && *upd.CategoryID != old.CategoryID && t.Type != TypeIngreso {
		if cat, ok := s.findCategory(t.CategoryID); ok {
			t.Type = InferType(cat)
		}
	}
	t.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	s.data.Transactions[idx] = t
	s.applyDelta(t, +1)
	s.persist()
	return true
}

// DeleteTransaction reverts the balance impact and removes the record.
func (s *Store) DeleteTransaction(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.data.Transactions {
		if t.ID == id {
			s.applyDelta(t, -1)
			s.data.Transactions = append(s.data.Transactions[:i], s.data.Transactions[i+1:]...)
			s.persist()
			return true
		}
	}
	return false
}

// applyDelta applies (sign=+1) or reverts (sign=-1) a transaction's balance
// impact. INGRESO adds to the account, every other type subtracts. A target
// account always receives an income-signed delta.
func (s *Store) applyDelta(t Transaction, sign float64) {
	for i := range s.data.Accounts {
		a := &s.data.Accounts[i]
		if a.ID == t.AccountID {
			if t.Type == TypeIngreso {
				a.CurrentBalance += sign * t.Amount
			} else {
				a.CurrentBalance -= sign * t.Amount
			}
		}
		if t.TargetAccountID != "" && a.ID == t.TargetAccountID {
			a.CurrentBalance += sign * t.Amount
		}
	}
}

// ClearTransactions drops all transactions and resets balances.
func (s *Store) ClearTransactions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Transactions = s.data.Transactions[:0]
	for i := range s.data.Accounts {
		s.data.Accounts[i].CurrentBalance = s.data.Accounts[i].InitialBalance
	}
	s.persist()
}

// --- Config ---

// UpdateConfig merges the given mutation into the singleton config and
// re-enforces budget floors afterwards.
func (s *Store) UpdateConfig(fn func(c *Config)) Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data.Config)
	enforceBudgetFloors(s.data)
	s.persist()
	return s.data.Config
}

// SetBudgets stores per-category monthly limits. Any value below the sum of
// the category's fixed expenses is raised to that floor; each raise is
// reported back as a warning.
func (s *Store) SetBudgets(budgets map[string]float64) []BudgetWarning {
	s.mu.Lock()
	defer s.mu.Unlock()

	floors := FixedExpenseFloors(s.data.Config.FixedExpenses)
	var warnings []BudgetWarning
	stored := make(map[string]float64, len(budgets))
	for catID, v := range budgets {
		if floor := floors[catID]; v < floor {
			name := catID
			if cat, ok := s.findCategory(catID); ok {
				name = cat.Name
			}
			warnings = append(warnings, BudgetWarning{
				CategoryID:   catID,
				CategoryName: name,
				Requested:    v,
				Floor:        floor,
			})
			v = floor
		}
		stored[catID] = v
	}
	s.data.Config.Budgets = stored
	s.persist()
	return warnings
}

// FixedExpenseFloors sums fixed expenses per category id.
func FixedExpenseFloors(fixed []FixedExpense) map[string]float64 {
	floors := make(map[string]float64, len(fixed))
	for _, fe := range fixed {
		floors[fe.CategoryID] += fe.Amount
	}
	return floors
}

func enforceBudgetFloors(snap *Snapshot) {
	floors := FixedExpenseFloors(snap.Config.FixedExpenses)
	for catID, floor := range floors {
		if v, ok := snap.Config.Budgets[catID]; ok && v < floor {
			snap.Config.Budgets[catID] = floor
		}
	}
}

// --- Goals ---

func (s *Store) AddGoal(g Goal) Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = uuid.NewString()
	g.Status = GoalStatusActive
	g.CreatedAt = s.now().UTC().Format(time.RFC3339)
	s.data.Goals = append(s.data.Goals, g)
	s.persist()
	return g
}

func (s *Store) UpdateGoal(id string, fn func(g *Goal)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Goals {
		if s.data.Goals[i].ID == id {
			fn(&s.data.Goals[i])
			s.persist()
			return true
		}
	}
	return false
}

func (s *Store) DeleteGoal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.data.Goals {
		if g.ID == id {
			s.data.Goals = append(s.data.Goals[:i], s.data.Goals[i+1:]...)
			s.persist()
			return true
		}
	}
	return false
}

// --- Fixed expenses and recurring incomes ---

func (s *Store) AddFixedExpense(fe FixedExpense) FixedExpense {
	s.mu.Lock()
	defer s.mu.Unlock()
	fe.ID = uuid.NewString()
	if fe.Day <= 0 {
		fe.Day = 1
	}
	s.data.Config.FixedExpenses = append(s.data.Config.FixedExpenses, fe)
	enforceBudgetFloors(s.data)
	s.persist()
	return fe
}

func (s *Store) UpdateFixedExpense(id string, fn func(fe *FixedExpense)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Config.FixedExpenses {
		if s.data.Config.FixedExpenses[i].ID == id {
			fn(&s.data.Config.FixedExpenses[i])
			enforceBudgetFloors(s.data)
			s.persist()
			return true
		}
	}
	return false
}

func (s *Store) DeleteFixedExpense(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, fe := range s.data.Config.FixedExpenses {
		if fe.ID == id {
			s.data.Config.FixedExpenses = append(s.data.Config.FixedExpenses[:i], s.data.Config.FixedExpenses[i+1:]...)
			s.persist()
			return true
		}
	}
	return false
}

func (s *Store) AddRecurringIncome(ri RecurringIncome) RecurringIncome {
	s.mu.Lock()
	defer s.mu.Unlock()
	ri.ID = uuid.NewString()
	if ri.Day <= 0 {
		ri.Day = 1
	}
	s.data.Config.RecurringIncomes = append(s.data.Config.RecurringIncomes, ri)
	s.persist()
	return ri
}

func (s *Store) UpdateRecurringIncome(id string, fn func(ri *RecurringIncome)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Config.RecurringIncomes {
		if s.data.Config.RecurringIncomes[i].ID == id {
			fn(&s.data.Config.RecurringIncomes[i])
			s.persist()
			return true
		}
	}
	return false
}

func (s *Store) DeleteRecurringIncome(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ri := range s.data.Config.RecurringIncomes {
		if ri.ID == id {
			s.data.Config.RecurringIncomes = append(s.data.Config.RecurringIncomes[:i], s.data.Config.RecurringIncomes[i+1:]...)
			s.persist()
			return true
		}
	}
	return false
}
