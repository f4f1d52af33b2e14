// Package advisor evaluates rule-based insights and a monthly action plan
// over the ledger's summary, breakdown and goal views. Everything here is
// stateless: each call re-derives from the store.
package advisor

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/adri1972/claritycash/internal/ledger"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

var severityWeight = map[Severity]int{
	SeverityCritical: 3,
	SeverityWarning:  2,
	SeverityInfo:     1,
}

// Insight is one ranked advice card.
type Insight struct {
	Severity         Severity `json:"severity"`
	Title            string   `json:"title"`
	Message          string   `json:"message"`
	Impact           float64  `json:"impact"`
	SavingsPotential float64  `json:"savings_potential,omitempty"`
}

type Status string

const (
	StatusOnboarding Status = "ONBOARDING"
	StatusCritical   Status = "CRITICAL"
	StatusWarning    Status = "WARNING"
	StatusOK         Status = "OK"
)

// ActionPlan is the monthly classification with its diagnosis. When
// NeedsElaboration is set the caller may ask the LLM client to expand the
// diagnosis; Adjustments always carries a usable local fallback.
type ActionPlan struct {
	Status           Status   `json:"status"`
	Priority         string   `json:"priority"`
	Diagnosis        string   `json:"diagnosis"`
	Adjustments      []string `json:"adjustments"`
	NeedsElaboration bool     `json:"needs_elaboration,omitempty"`
}

// Rule thresholds.
const (
	maxInsights          = 5
	monthProgressLimit   = 0.6
	budgetVelocityLimit  = 0.9
	diningToGroceryRatio = 0.5
	diningSavingsShare   = 0.4
	subscriptionCeiling  = 100000
	minSavingsShare      = 0.05
	deficitCutShare      = 0.2
)

// Categories treated as fixed obligations; the complement is
// "discretionary" for root-cause diagnosis. Keyed by name, so renamed
// categories fall out of the list.
var fixedCategoryNames = map[string]bool{
	"Vivienda":           true,
	"Educación":          true,
	"Salud":              true,
	"Ahorro":             true,
	"Inversión":          true,
	"Pago Deuda":         true,
	"Deuda/Créditos":     true,
	"Tarjeta de Crédito": true,
	"Impuestos":          true,
	"Salario / Nómina":   true,
	"Honorarios":         true,
	"Otros Ingresos":     true,
}

type Advisor struct {
	store *ledger.Store
	now   func() time.Time
}

func New(store *ledger.Store) *Advisor {
	return &Advisor{store: store, now: time.Now}
}

// Analyze evaluates every insight rule for the month and returns the top
// five, ranked critical first.
func (a *Advisor) Analyze(month time.Month, year int) []Insight {
	var insights []Insight

	summary := a.store.FinancialSummary(month, year)
	conf := a.store.Config()
	breakdown := a.store.CategoryBreakdown(month, year)
	goals := a.store.Goals()

	if summary.BalanceNet < 0 {
		leak := math.Abs(summary.BalanceNet)
		insights = append(insights, Insight{
			Severity: SeverityCritical,
			Title:    "Fuga de Capital",
			Message:  fmt.Sprintf("Estás en números rojos (-%s). Estás usando deuda o ahorros previos para vivir.", FormatMoney(leak)),
			Impact:   leak,
		})
	}

	if in := a.goalProjection(goals, summary.Savings); in != nil {
		insights = append(insights, *in)
	}

	insights = append(insights, a.budgetVelocity(month, year, conf.Budgets, breakdown)...)

	dining := breakdown["Restaurantes / Domicilios"] + breakdown["Café / Snacks"]
	groceries := breakdown["Alimentación"]
	if groceries > 0 && dining > groceries*diningToGroceryRatio {
		insights = append(insights, Insight{
			Severity:         SeverityWarning,
			Title:            "Exceso en Domicilios",
			Message:          fmt.Sprintf("Gastas %s en comer fuera. Si cocinas más, podrías ahorrar fácilmente %s este mes.", FormatMoney(dining), FormatMoney(dining*diningSavingsShare)),
			SavingsPotential: dining * diningSavingsShare,
			Impact:           dining,
		})
	}

	if subs := breakdown["Suscripciones Digitales"]; subs > subscriptionCeiling {
		insights = append(insights, Insight{
			Severity:         SeverityInfo,
			Title:            "Revisión de Streaming",
			Message:          fmt.Sprintf("Pagas %s en suscripciones. ¿Realmente usas todas las plataformas este mes? Cancela una y ahorra.", FormatMoney(subs)),
			SavingsPotential: 30000,
			Impact:           subs,
		})
	}

	if conf.HasDebts {
		debtPayments := breakdown["Deuda/Créditos"] + breakdown["Tarjeta de Crédito"]
		if debtPayments == 0 && summary.Income > 0 {
			insights = append(insights, Insight{
				Severity: SeverityCritical,
				Title:    "Deuda en Mora Latente",
				Message:  "Tienes deudas registradas pero no veo pagos este mes. ¡No pagues intereses de mora!",
				Impact:   1000,
			})
		}
	}

	insights = append(insights, a.referenceShares(summary, breakdown, conf.HasDebts)...)

	sort.SliceStable(insights, func(i, j int) bool {
		return severityWeight[insights[i].Severity] > severityWeight[insights[j].Severity]
	})
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// goalProjection reports on the most urgent active goal: first one in
// creation order still short of its target.
func (a *Advisor) goalProjection(goals []ledger.GoalProgress, monthlySavings float64) *Insight {
	var top *ledger.GoalProgress
	for i := range goals {
		if goals[i].CurrentAmount < goals[i].TargetAmount {
			top = &goals[i]
			break
		}
	}
	if top == nil {
		return nil
	}

	if monthlySavings <= 0 {
		return &Insight{
			Severity: SeverityWarning,
			Title:    "Meta Estancada: " + top.Name,
			Message:  fmt.Sprintf("No registras ahorro este mes. Tu meta %q no avanza.", top.Name),
			Impact:   100,
		}
	}

	remaining := top.TargetAmount - top.CurrentAmount
	monthsToGo := int(math.Ceil(remaining / monthlySavings))
	if monthsToGo > 12 {
		return &Insight{
			Severity: SeverityWarning,
			Title:    "Meta Lejana: " + top.Name,
			Message:  fmt.Sprintf("Al ritmo actual (%s/mes), tardarás %d meses (%.1f años). Aumenta tu ahorro un 10%% para llegar antes.", FormatMoney(monthlySavings), monthsToGo, float64(monthsToGo)/12),
			Impact:   50,
		}
	}
	return &Insight{
		Severity: SeverityInfo,
		Title:    "En camino: " + top.Name,
		Message:  fmt.Sprintf("¡Bien! A este ritmo, completarás tu meta en %d meses. Mantén la constancia.", monthsToGo),
	}
}

// Reference shares of income, against which the month is judged.
const (
	housingShareLimit    = 0.35
	debtShareLimit       = 0.30
	savingsShareNoDebt   = 0.10
	savingsShareWithDebt = 0.05
)

// referenceShares compares the big three (vivienda, deuda, ahorro) against
// their reference percentages of income.
func (a *Advisor) referenceShares(summary ledger.FinancialSummary, breakdown map[string]float64, hasDebts bool) []Insight {
	income := summary.Income
	if income <= 0 {
		return nil
	}
	var out []Insight

	if housing := breakdown["Vivienda"]; housing > income*housingShareLimit {
		out = append(out, Insight{
			Severity: SeverityCritical,
			Title:    "Carga de Vivienda",
			Message:  fmt.Sprintf("Tu vivienda te cuesta %s, el %.0f%% de tu ingreso. Por encima del 35%% el resto del presupuesto se asfixia.", FormatMoney(housing), housing/income*100),
			Impact:   housing - income*housingShareLimit,
		})
	}

	debtPay := summary.DebtPayment + breakdown["Tarjeta de Crédito"]
	if debtPay > income*debtShareLimit {
		out = append(out, Insight{
			Severity: SeverityCritical,
			Title:    "Carga de Deuda",
			Message:  fmt.Sprintf("Destinas %s a deudas, el %.0f%% de tu ingreso. Negocia cuotas: por encima del 30%% no hay margen de maniobra.", FormatMoney(debtPay), debtPay/income*100),
			Impact:   debtPay - income*debtShareLimit,
		})
	}

	minShare := savingsShareNoDebt
	if hasDebts {
		minShare = savingsShareWithDebt
	}
	effectiveSavings := summary.Savings + max(0, summary.BalanceNet)
	if effectiveSavings < income*minShare {
		out = append(out, Insight{
			Severity: SeverityWarning,
			Title:    "Ahorro Insuficiente",
			Message:  fmt.Sprintf("Este mes apartaste %s, menos del %.0f%% mínimo recomendado. Programa el ahorro el día de pago, antes de gastar.", FormatMoney(effectiveSavings), minShare*100),
			Impact:   income*minShare - effectiveSavings,
		})
	}
	return out
}

// budgetVelocity warns about categories that burned their budget early.
// Only meaningful while viewing the current month.
func (a *Advisor) budgetVelocity(month time.Month, year int, budgets map[string]float64, breakdown map[string]float64) []Insight {
	today := a.now()
	if today.Month() != month || today.Year() != year {
		return nil
	}

	day := today.Day()
	progress := float64(day) / 30

	var out []Insight
	for catID, limit := range budgets {
		if limit <= 0 {
			continue
		}
		cat, ok := a.store.CategoryByID(catID)
		if !ok {
			continue
		}
		spent := breakdown[cat.Name]
		if progress < monthProgressLimit && spent/limit > budgetVelocityLimit {
			out = append(out, Insight{
				Severity: SeverityCritical,
				Title:    "Freno de Mano: " + cat.Name,
				Message:  fmt.Sprintf("¡Cuidado! Apenas es día %d y ya te gastaste el presupuesto de %s. Deja la tarjeta en casa.", day, cat.Name),
				Impact:   limit - spent,
			})
		}
	}
	return out
}

// FormatMoney renders an amount in es-CO style: $1.234.567.
func FormatMoney(amount float64) string {
	neg := amount < 0
	n := int64(math.Round(math.Abs(amount)))
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
