// Package ledger owns the canonical financial data set: transactions,
// accounts, categories, goals and user configuration. All reads and
// mutations go through Store; account balances are kept consistent with
// transaction history on every write.
package ledger

// TransactionType classifies a movement's effect on the monthly summary.
type TransactionType string

const (
	TypeIngreso        TransactionType = "INGRESO"
	TypeGasto          TransactionType = "GASTO"
	TypeAhorro         TransactionType = "AHORRO"
	TypeInversion      TransactionType = "INVERSION"
	TypePagoDeuda      TransactionType = "PAGO_DEUDA"
	TypeTarjetaCredito TransactionType = "TARJETA_CREDITO"
)

// CategoryGroup drives budget grouping and type auto-correction.
type CategoryGroup string

const (
	GroupIngresos     CategoryGroup = "INGRESOS"
	GroupNecesidades  CategoryGroup = "NECESIDADES"
	GroupVivienda     CategoryGroup = "VIVIENDA"
	GroupFinanciero   CategoryGroup = "FINANCIERO"
	GroupCrecimiento  CategoryGroup = "CRECIMIENTO"
	GroupEstiloDeVida CategoryGroup = "ESTILO_DE_VIDA"
	GroupOtros        CategoryGroup = "OTROS"
)

// AccountType distinguishes cash, bank and credit accounts.
type AccountType string

const (
	AccountEfectivo AccountType = "EFECTIVO"
	AccountBanco    AccountType = "BANCO"
	AccountCredito  AccountType = "CREDITO"
)

// GoalType selects the implicit transaction-matching heuristic.
type GoalType string

const (
	GoalEmergency GoalType = "EMERGENCY"
	GoalDebt      GoalType = "DEBT"
	GoalPurchase  GoalType = "PURCHASE"
)

// SpendingProfile selects the budget weight table.
type SpendingProfile string

const (
	ProfileConservador SpendingProfile = "CONSERVADOR"
	ProfileBalanceado  SpendingProfile = "BALANCEADO"
	ProfileFlexible    SpendingProfile = "FLEXIBLE"
)

// Canonical seeded ids referenced by heuristics and weight tables.
const (
	CatVivienda     = "cat_1"
	CatAlimentacion = "cat_2"
	CatTransporte   = "cat_3"
	CatSalud        = "cat_4"
	CatAhorro       = "cat_5"
	CatInversion    = "cat_6"
	CatDeuda        = "cat_7"
	CatEducacion    = "cat_8"
	CatOcio         = "cat_9"
	CatOtros        = "cat_10"
	CatGasolina     = "cat_gasolina"
	CatTarjeta      = "cat_fin_4"
	CatRenting      = "cat_fin_5"
	CatIntereses    = "cat_fin_int"
	CatSubs         = "cat_subs"
	CatRestaurantes = "cat_rest"
	CatPersonal     = "cat_personal"
	CatDeporte      = "cat_deporte"
	CatVicios       = "cat_vicios"
	CatSnacks       = "cat_ant"
	CatSalario      = "cat_inc_1"

	AccountBilletera = "acc_1"
	AccountPrincipal = "acc_2"
)

// Transaction is a single money movement. Date is stored as YYYY-MM-DD.
// GeneratedFrom links a materialized transaction back to the fixed-expense
// or recurring-income entry that produced it. TargetAccountID gives the
// movement transfer-like semantics: the target account receives the amount
// as an implicit income.
type Transaction struct {
	ID              string          `json:"id"`
	Type            TransactionType `json:"type"`
	Amount          float64         `json:"amount"`
	Date            string          `json:"date"`
	AccountID       string          `json:"account_id"`
	CategoryID      string          `json:"category_id"`
	Note            string          `json:"note,omitempty"`
	GoalID          string          `json:"goal_id,omitempty"`
	GeneratedFrom   string          `json:"generated_from,omitempty"`
	TargetAccountID string          `json:"target_account_id,omitempty"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at,omitempty"`
}

// Account invariant: CurrentBalance = InitialBalance plus the signed sum of
// all transactions touching the account, applied incrementally on every
// mutation (never recomputed from scratch).
type Account struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Type           AccountType `json:"type"`
	InitialBalance float64     `json:"initial_balance"`
	CurrentBalance float64     `json:"current_balance"`
	CreatedAt      string      `json:"created_at,omitempty"`
}

type Category struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Group     CategoryGroup `json:"group"`
	IsDefault bool          `json:"is_default"`
}

// Goal's stored CurrentAmount is only a seed at creation time; the value
// shown to users is always recomputed from matching transactions (see
// Store.Goals) and never written back.
type Goal struct {
	ID            string   `json:"id"`
	Type          GoalType `json:"type"`
	Name          string   `json:"name"`
	TargetAmount  float64  `json:"target_amount"`
	CurrentAmount float64  `json:"current_amount"`
	Deadline      string   `json:"deadline,omitempty"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"created_at"`
}

const (
	GoalStatusActive    = "ACTIVE"
	GoalStatusCompleted = "COMPLETED"
)

// FixedExpense is a configured monthly obligation materialized into a GASTO
// transaction each month on the configured day.
type FixedExpense struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	CategoryID string  `json:"category_id"`
	Day        int     `json:"day"`
}

// RecurringIncome mirrors FixedExpense for INGRESO transactions.
type RecurringIncome struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	CategoryID string  `json:"category_id,omitempty"`
	Day        int     `json:"day"`
}

// Config is the singleton user configuration stored inside the snapshot.
type Config struct {
	Currency            string             `json:"currency"`
	MonthlyIncomeTarget float64            `json:"monthly_income_target"`
	SpendingProfile     SpendingProfile    `json:"spending_profile"`
	HasDebts            bool               `json:"has_debts"`
	TotalDebt           float64            `json:"total_debt"`
	Budgets             map[string]float64 `json:"budgets"`
	FixedExpenses       []FixedExpense     `json:"fixed_expenses"`
	RecurringIncomes    []RecurringIncome  `json:"recurring_incomes"`
	AIProvider          string             `json:"ai_provider,omitempty"`
	GeminiAPIKey        string             `json:"gemini_api_key,omitempty"`
	OpenAIAPIKey        string             `json:"openai_api_key,omitempty"`
	CreatedAt           string             `json:"created_at,omitempty"`
	UpdatedAt           string             `json:"updated_at,omitempty"`
}

// Snapshot is the whole persisted document.
type Snapshot struct {
	Config       Config        `json:"config"`
	Goals        []Goal        `json:"goals"`
	Accounts     []Account     `json:"accounts"`
	Categories   []Category    `json:"categories"`
	Transactions []Transaction `json:"transactions"`
}

// FinancialSummary aggregates one month. TARJETA_CREDITO movements are
// excluded from every bucket: card purchases do not count against the
// monthly budget, only payments toward the card (PAGO_DEUDA) do.
type FinancialSummary struct {
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	Savings     float64 `json:"savings"`
	Investment  float64 `json:"investment"`
	DebtPayment float64 `json:"debt_payment"`
	BalanceNet  float64 `json:"balance_net"`
	Period      string  `json:"period"`
}

// HistoryEntry is one month in a rolling history rollup.
type HistoryEntry struct {
	Label    string  `json:"label"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// GoalProgress decorates a goal with its derived progress.
type GoalProgress struct {
	Goal
	CurrentAmount       float64       `json:"current_amount"`
	RecentContributions []Transaction `json:"recent_contributions"`
}

// BudgetWarning reports a budget that was raised to its fixed-expense floor.
type BudgetWarning struct {
	CategoryID   string
	CategoryName string
	Requested    float64
	Floor        float64
}
