package ledger

import "time"

// DefaultSnapshot returns the seed data set for a fresh install: two
// accounts and the default category tree. Category ids are stable and
// referenced by the budget weight tables and the statement parser.
func DefaultSnapshot(now time.Time) *Snapshot {
	ts := now.UTC().Format(time.RFC3339)
	return &Snapshot{
		Config: Config{
			Currency:         "COP",
			SpendingProfile:  ProfileBalanceado,
			Budgets:          map[string]float64{},
			FixedExpenses:    []FixedExpense{},
			RecurringIncomes: []RecurringIncome{},
			CreatedAt:        ts,
			UpdatedAt:        ts,
		},
		Goals: []Goal{},
		Accounts: []Account{
			{ID: AccountBilletera, Name: "Billetera", Type: AccountEfectivo, CreatedAt: ts},
			{ID: AccountPrincipal, Name: "Cuenta Principal", Type: AccountBanco, CreatedAt: ts},
		},
		Categories: []Category{
			{ID: CatSalario, Name: "Salario / Nómina", Group: GroupIngresos, IsDefault: true},
			{ID: "cat_inc_2", Name: "Honorarios", Group: GroupIngresos, IsDefault: true},
			{ID: "cat_inc_3", Name: "Otros Ingresos", Group: GroupIngresos, IsDefault: true},

			{ID: CatVivienda, Name: "Vivienda", Group: GroupNecesidades, IsDefault: true},
			{ID: CatAlimentacion, Name: "Alimentación", Group: GroupNecesidades, IsDefault: true},
			{ID: CatTransporte, Name: "Transporte", Group: GroupNecesidades, IsDefault: true},
			{ID: CatGasolina, Name: "Gasolina", Group: GroupNecesidades, IsDefault: true},
			{ID: CatSalud, Name: "Salud", Group: GroupNecesidades, IsDefault: true},

			{ID: CatAhorro, Name: "Ahorro", Group: GroupFinanciero, IsDefault: true},
			{ID: CatInversion, Name: "Inversión", Group: GroupFinanciero, IsDefault: true},
			{ID: CatDeuda, Name: "Deuda/Créditos", Group: GroupFinanciero, IsDefault: true},
			{ID: CatTarjeta, Name: "Tarjeta de Crédito", Group: GroupFinanciero, IsDefault: true},
			{ID: CatRenting, Name: "Renting / Leasing", Group: GroupFinanciero, IsDefault: true},
			{ID: CatIntereses, Name: "Intereses Financieros", Group: GroupFinanciero, IsDefault: true},

			{ID: CatEducacion, Name: "Educación", Group: GroupCrecimiento, IsDefault: true},

			{ID: CatOcio, Name: "Ocio", Group: GroupEstiloDeVida, IsDefault: true},
			{ID: CatSubs, Name: "Suscripciones Digitales", Group: GroupEstiloDeVida, IsDefault: true},
			{ID: CatRestaurantes, Name: "Restaurantes / Domicilios", Group: GroupEstiloDeVida, IsDefault: true},
			{ID: CatPersonal, Name: "Ropa / Cuidado Personal", Group: GroupEstiloDeVida, IsDefault: true},
			{ID: CatDeporte, Name: "Deporte / Gym", Group: GroupEstiloDeVida, IsDefault: true},
			{ID: CatVicios, Name: "Alcohol / Tabaco", Group: GroupEstiloDeVida, IsDefault: true},

			{ID: CatSnacks, Name: "Café / Snacks", Group: GroupOtros, IsDefault: true},
			{ID: CatOtros, Name: "Otros/Imprevistos", Group: GroupOtros, IsDefault: true},
		},
		Transactions: []Transaction{},
	}
}
