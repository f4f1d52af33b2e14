package ledger

import "time"

// Deprecated category ids from earlier releases. They are filtered out of
// the category list and every reference is repointed to the replacement.
var deprecatedCategories = map[string]string{
	"cat_salario":  CatSalario,
	"cat_viv_serv": CatVivienda,
}

// Migrate runs the load-time migration sequence on snap in place. Every
// step is additive and idempotent: re-running on its own output changes
// nothing.
func Migrate(snap *Snapshot, now time.Time) {
	if snap.Config.Currency == "" {
		snap.Config.Currency = "COP"
	}
	if snap.Config.SpendingProfile == "" {
		snap.Config.SpendingProfile = ProfileBalanceado
	}
	if snap.Config.Budgets == nil {
		snap.Config.Budgets = map[string]float64{}
	}
	if snap.Config.FixedExpenses == nil {
		snap.Config.FixedExpenses = []FixedExpense{}
	}
	if snap.Config.RecurringIncomes == nil {
		snap.Config.RecurringIncomes = []RecurringIncome{}
	}
	if snap.Goals == nil {
		snap.Goals = []Goal{}
	}
	if snap.Transactions == nil {
		snap.Transactions = []Transaction{}
	}

	dropDeprecatedCategories(snap)
	mergeDefaults(snap, now)
	backfillTypes(snap)
	enforceBudgetFloors(snap)
}

// mergeDefaults appends any default category or account missing from the
// stored data. User-added entries are never removed.
func mergeDefaults(snap *Snapshot, now time.Time) {
	def := DefaultSnapshot(now)

	haveCat := make(map[string]bool, len(snap.Categories))
	for _, c := range snap.Categories {
		haveCat[c.ID] = true
	}
	for _, c := range def.Categories {
		if !haveCat[c.ID] {
			snap.Categories = append(snap.Categories, c)
		}
	}

	haveAcc := make(map[string]bool, len(snap.Accounts))
	for _, a := range snap.Accounts {
		haveAcc[a.ID] = true
	}
	for _, a := range def.Accounts {
		if !haveAcc[a.ID] {
			snap.Accounts = append(snap.Accounts, a)
		}
	}
}

func dropDeprecatedCategories(snap *Snapshot) {
	kept := snap.Categories[:0]
	for _, c := range snap.Categories {
		if _, dead := deprecatedCategories[c.ID]; !dead {
			kept = append(kept, c)
		}
	}
	snap.Categories = kept

	for i := range snap.Transactions {
		if repl, ok := deprecatedCategories[snap.Transactions[i].CategoryID]; ok {
			snap.Transactions[i].CategoryID = repl
		}
	}
	for i := range snap.Config.FixedExpenses {
		if repl, ok := deprecatedCategories[snap.Config.FixedExpenses[i].CategoryID]; ok {
			snap.Config.FixedExpenses[i].CategoryID = repl
		}
	}
	for i := range snap.Config.RecurringIncomes {
		if repl, ok := deprecatedCategories[snap.Config.RecurringIncomes[i].CategoryID]; ok {
			snap.Config.RecurringIncomes[i].CategoryID = repl
		}
	}
	for old, repl := range deprecatedCategories {
		if v, ok := snap.Config.Budgets[old]; ok {
			snap.Config.Budgets[repl] += v
			delete(snap.Config.Budgets, old)
		}
	}
}

// backfillTypes re-derives the type of historical transactions from their
// category. INGRESO and TARJETA_CREDITO declarations are trusted as-is.
func backfillTypes(snap *Snapshot) {
	cats := make(map[string]Category, len(snap.Categories))
	for _, c := range snap.Categories {
		cats[c.ID] = c
	}
	for i := range snap.Transactions {
		t := &snap.Transactions[i]
		if t.Type == TypeIngreso || t.Type == TypeTarjetaCredito {
			continue
		}
		if cat, ok := cats[t.CategoryID]; ok {
			if forced, ok := ForcedType(cat); ok {
				t.Type = forced
			}
		}
		if t.Type == "" {
			t.Type = TypeGasto
		}
	}
}
