package advisor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adri1972/claritycash/internal/ledger"
)

type merchantSpend struct {
	Name  string
	Total float64
}

// ActionPlan classifies the month into one of four states and builds the
// matching diagnosis. The classification is re-derived fresh on every call.
func (a *Advisor) ActionPlan(month time.Month, year int) ActionPlan {
	summary := a.store.FinancialSummary(month, year)
	breakdown := a.store.CategoryBreakdown(month, year)
	conf := a.store.Config()

	prev := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	prevSummary := a.store.FinancialSummary(prev.Month(), prev.Year())

	monthTxs := a.monthTransactions(month, year)

	if summary.Income == 0 && len(monthTxs) == 0 {
		return ActionPlan{
			Status:   StatusOnboarding,
			Priority: "Bienvenida a tu Libertad Financiera",
			Adjustments: []string{
				"El asesor necesita datos para pensar.",
				"Define tu meta: ve a configuración y dinos a qué aspiras.",
				"Registra todo: agrega movimientos o importa tu extracto bancario.",
			},
		}
	}

	income := summary.Income
	if income <= 0 {
		income = 1
	}

	leakName, leakTotal, hasLeak := topDiscretionary(breakdown)
	var merchants []merchantSpend
	if hasLeak {
		merchants = a.topMerchants(leakName, monthTxs)
	}

	if summary.BalanceNet < 0 {
		return a.criticalPlan(summary, breakdown, income, prevSummary.Expenses, leakName, leakTotal, hasLeak, merchants)
	}

	effectiveSavings := summary.Savings + max(0, summary.BalanceNet)
	if effectiveSavings < income*minSavingsShare {
		return a.warningPlan(monthTxs, income, leakName, leakTotal, hasLeak, merchants)
	}

	return a.surplusPlan(summary, income, conf.HasDebts)
}

func (a *Advisor) criticalPlan(summary ledger.FinancialSummary, breakdown map[string]float64, income, prevExpenses float64, leakName string, leakTotal float64, hasLeak bool, merchants []merchantSpend) ActionPlan {
	deficit := -summary.BalanceNet
	plan := ActionPlan{
		Status:           StatusCritical,
		Priority:         fmt.Sprintf("DÉFICIT DE %s", FormatMoney(deficit)),
		NeedsElaboration: true,
	}

	debtPay := summary.DebtPayment + breakdown["Tarjeta de Crédito"]

	switch {
	case debtPay > income*0.3:
		plan.Diagnosis = fmt.Sprintf("Tu deuda te está asfixiando. Pagas %s, que es el %.0f%% de tu ingreso.", FormatMoney(debtPay), debtPay/income*100)
		plan.Adjustments = append(plan.Adjustments,
			"Frena el pago de capital: solo paga los mínimos legales este mes. Necesitas liquidez para comer.",
			"Llama al banco ya: pide rediferir a 24 o 36 cuotas la tarjeta de mayor cuota. Bajarás la mensualidad inmediatamente.")
	case hasLeak:
		diag := fmt.Sprintf("Tu déficit (%s) proviene de %s (%s) y tus deudas.", FormatMoney(deficit), leakName, FormatMoney(leakTotal))
		if len(merchants) > 0 {
			diag += " Principales fugas: " + joinMerchants(merchants) + "."
		}
		if prevExpenses > income*1.5 {
			diag += fmt.Sprintf(" Ciclo de deuda: veo gastos muy altos el mes anterior (%s). Si usaste tarjeta, esas cuotas te están asfixiando hoy.", FormatMoney(prevExpenses))
		}
		plan.Diagnosis = diag
		plan.Adjustments = append(plan.Adjustments,
			fmt.Sprintf("Plan de choque: recorta %s (el 20%% del déficit) de %s este mes.", FormatMoney(deficit*deficitCutShare), leakName))
		if deficit > income*0.3 {
			plan.Adjustments = append(plan.Adjustments, "Crisis de liquidez: no podrás pagar todo de golpe a fin de mes.")
			if len(merchants) > 0 {
				plan.Adjustments = append(plan.Adjustments,
					fmt.Sprintf("Acción inteligente: llama a tu banco y redifiere la compra de %s a 12 o 24 cuotas. Esto liberará caja inmediata.", merchants[0].Name))
			} else {
				plan.Adjustments = append(plan.Adjustments,
					"Salvavidas: paga solo el mínimo de la tarjeta este mes y usa el efectivo para comida y servicios.")
			}
		}
	default:
		plan.Diagnosis = "Tus costos fijos (vivienda, servicios) son mayores a tus ingresos. Esto es estructural."
		plan.Adjustments = append(plan.Adjustments,
			fmt.Sprintf("Ingreso de emergencia: vende algo que valga al menos %s esta semana.", FormatMoney(deficit)))
	}
	return plan
}

func (a *Advisor) warningPlan(monthTxs []ledger.Transaction, income float64, leakName string, leakTotal float64, hasLeak bool, merchants []merchantSpend) ActionPlan {
	plan := ActionPlan{
		Status:   StatusWarning,
		Priority: "RIESGO ALTO (vives al día)",
	}
	if !hasLeak {
		plan.Diagnosis = "El dinero se te escapa en gastos hormiga dispersos."
		plan.Adjustments = append(plan.Adjustments,
			"Ayuno de gasto: próximos 3 días, gasta solo en transporte y comida básica. Nada más.")
		return plan
	}

	diag := fmt.Sprintf("No ahorras porque %s consume el %.0f%% de tu ingreso (%s).", leakName, leakTotal/income*100, FormatMoney(leakTotal))
	if len(merchants) > 0 {
		diag += " Se fue en: " + joinMerchants(merchants) + " y otros."
	}
	plan.Diagnosis = diag

	count := 0
	if cat, ok := a.categoryByName(leakName); ok {
		for _, t := range monthTxs {
			if t.CategoryID == cat.ID {
				count++
			}
		}
	}
	if count > 6 {
		plan.Adjustments = append(plan.Adjustments,
			fmt.Sprintf("Comportamiento compulsivo: hiciste %d compras distintas en esta categoría. Estás comprando por impulso, no por necesidad.", count),
			fmt.Sprintf("Estrategia de fricción: retira en efectivo tu presupuesto semanal para %s. Cuando se acabe el billete, se acabó el gasto.", leakName))
	} else {
		plan.Adjustments = append(plan.Adjustments,
			"Compras grandes: hiciste pocas compras pero de alto valor.",
			"Regla de las 72h: para compras grandes, espera 3 días antes de pagar. Dale tiempo a tu cerebro racional.")
	}
	return plan
}

func (a *Advisor) surplusPlan(summary ledger.FinancialSummary, income float64, hasDebts bool) ActionPlan {
	surplus := summary.BalanceNet + summary.Savings
	fixedRatio := (income - summary.BalanceNet) / income

	plan := ActionPlan{
		Status:    StatusOK,
		Priority:  "SUPERÁVIT: optimización",
		Diagnosis: fmt.Sprintf("Tienes un flujo de caja positivo de %s y tus costos consumen el %.0f%% del ingreso. El dinero quieto pierde valor.", FormatMoney(surplus), fixedRatio*100),
	}
	if hasDebts {
		plan.Adjustments = append(plan.Adjustments,
			fmt.Sprintf("Ataque a la deuda: usa %s para hacer un abono extraordinario a capital.", FormatMoney(surplus*0.8)),
			"El efecto: esto te ahorrará meses de intereses futuros.")
	} else {
		plan.Adjustments = append(plan.Adjustments,
			fmt.Sprintf("Inversión automática: programa una transferencia de %s a un bolsillo de inversión el día de pago.", FormatMoney(surplus)),
			"Sube el nivel: tu estilo de vida está controlado. Es hora de aumentar tu meta de ingresos.")
	}
	return plan
}

func (a *Advisor) monthTransactions(month time.Month, year int) []ledger.Transaction {
	var out []ledger.Transaction
	prefix := fmt.Sprintf("%04d-%02d", year, int(month))
	for _, t := range a.store.Transactions() {
		if strings.HasPrefix(t.Date, prefix) {
			out = append(out, t)
		}
	}
	return out
}

func (a *Advisor) categoryByName(name string) (ledger.Category, bool) {
	for _, c := range a.store.Categories() {
		if c.Name == name {
			return c, true
		}
	}
	return ledger.Category{}, false
}

// topDiscretionary picks the largest spending category outside the fixed
// allowlist.
func topDiscretionary(breakdown map[string]float64) (string, float64, bool) {
	type entry struct {
		name string
		val  float64
	}
	var entries []entry
	for name, val := range breakdown {
		if fixedCategoryNames[name] || val <= 0 {
			continue
		}
		entries = append(entries, entry{name, val})
	}
	if len(entries) == 0 {
		return "", 0, false
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].val > entries[j].val })
	return entries[0].name, entries[0].val, true
}

// topMerchants groups a category's transactions by a merchant token: the
// first word of the note, alphabetic characters only, uppercased, bucketed
// under "Varios" when shorter than 3 characters.
func (a *Advisor) topMerchants(categoryName string, monthTxs []ledger.Transaction) []merchantSpend {
	cat, ok := a.categoryByName(categoryName)
	if !ok {
		return nil
	}
	totals := map[string]float64{}
	for _, t := range monthTxs {
		if t.CategoryID != cat.ID {
			continue
		}
		totals[MerchantToken(t.Note)] += t.Amount
	}
	out := make([]merchantSpend, 0, len(totals))
	for name, total := range totals {
		out = append(out, merchantSpend{Name: name, Total: total})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// MerchantToken normalizes a transaction note into a merchant grouping key.
func MerchantToken(note string) string {
	first := note
	if i := strings.IndexByte(first, ' '); i >= 0 {
		first = first[:i]
	}
	var b strings.Builder
	for _, r := range first {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	token := strings.ToUpper(b.String())
	if len(token) < 3 {
		return "Varios"
	}
	return token
}

func joinMerchants(merchants []merchantSpend) string {
	parts := make([]string, len(merchants))
	for i, m := range merchants {
		parts[i] = fmt.Sprintf("%s (%s)", m.Name, FormatMoney(m.Total))
	}
	return strings.Join(parts, ", ")
}
