package llm

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adri1972/claritycash/internal/advisor"
	"github.com/adri1972/claritycash/internal/ledger"
)

var longMonthNames = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// BuildAdvicePrompt assembles the monthly coaching prompt from the ledger's
// summary, breakdown, goals and profile, including the previous month for
// trend context.
func BuildAdvicePrompt(store *ledger.Store, month time.Month, year int) string {
	summary := store.FinancialSummary(month, year)
	breakdown := store.CategoryBreakdown(month, year)
	conf := store.Config()
	goals := store.Goals()

	prev := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	prevSummary := store.FinancialSummary(prev.Month(), prev.Year())

	catByName := map[string]string{}
	for _, c := range store.Categories() {
		catByName[c.Name] = c.ID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Eres ClarityCoach, un asesor financiero personal certificado. Tu trabajo no es solo analizar números, sino proteger al usuario de errores financieros y guiarlo hacia sus metas.\n\n")
	fmt.Fprintf(&b, "DATOS FINANCIEROS DE %s %d:\n\n", strings.ToUpper(longMonthNames[int(month)-1]), year)

	fmt.Fprintf(&b, "RESUMEN DEL MES:\n")
	fmt.Fprintf(&b, "  - Ingreso total: %s %s\n", advisor.FormatMoney(summary.Income), conf.Currency)
	fmt.Fprintf(&b, "  - Gastos totales: %s\n", advisor.FormatMoney(summary.Expenses))
	fmt.Fprintf(&b, "  - Ahorro: %s\n", advisor.FormatMoney(summary.Savings))
	fmt.Fprintf(&b, "  - Inversión: %s\n", advisor.FormatMoney(summary.Investment))
	fmt.Fprintf(&b, "  - Pago deudas: %s\n", advisor.FormatMoney(summary.DebtPayment))
	fmt.Fprintf(&b, "  - Balance neto: %s\n\n", advisor.FormatMoney(summary.BalanceNet))

	fmt.Fprintf(&b, "DESGLOSE POR CATEGORÍA (con presupuesto si existe):\n")
	if len(breakdown) == 0 {
		fmt.Fprintf(&b, "  (Sin datos de categorías)\n")
	}
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		amount := breakdown[name]
		if amount <= 0 {
			continue
		}
		pct := 0.0
		if summary.Income > 0 {
			pct = amount / summary.Income * 100
		}
		fmt.Fprintf(&b, "  - %s: %s (%.1f%% del ingreso)", name, advisor.FormatMoney(amount), pct)
		if budget := conf.Budgets[catByName[name]]; budget > 0 {
			fmt.Fprintf(&b, " [Presupuesto: %s, Uso: %.0f%%]", advisor.FormatMoney(budget), amount/budget*100)
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nMES ANTERIOR (%s %d):\n", longMonthNames[int(prev.Month())-1], prev.Year())
	fmt.Fprintf(&b, "  - Ingreso: %s\n", advisor.FormatMoney(prevSummary.Income))
	fmt.Fprintf(&b, "  - Gastos: %s\n", advisor.FormatMoney(prevSummary.Expenses))
	fmt.Fprintf(&b, "  - Balance: %s\n\n", advisor.FormatMoney(prevSummary.BalanceNet))

	fmt.Fprintf(&b, "METAS DEL USUARIO:\n")
	if len(goals) == 0 {
		fmt.Fprintf(&b, "  No tiene metas definidas.\n")
	}
	for _, g := range goals {
		pct := 0.0
		if g.TargetAmount > 0 {
			pct = g.CurrentAmount / g.TargetAmount * 100
		}
		fmt.Fprintf(&b, "  - %s: %s / %s (%.0f%%)\n", g.Name, advisor.FormatMoney(g.CurrentAmount), advisor.FormatMoney(g.TargetAmount), pct)
	}

	fmt.Fprintf(&b, "\nPERFIL:\n")
	fmt.Fprintf(&b, "  - Ingreso objetivo: %s/mes\n", advisor.FormatMoney(conf.MonthlyIncomeTarget))
	fmt.Fprintf(&b, "  - Estilo: %s\n", conf.SpendingProfile)
	if conf.HasDebts {
		fmt.Fprintf(&b, "  - Tiene deudas: Sí, deuda total: %s\n", advisor.FormatMoney(conf.TotalDebt))
	} else {
		fmt.Fprintf(&b, "  - Tiene deudas: No\n")
	}

	b.WriteString(`
INSTRUCCIONES ESTRICTAS PARA TU RESPUESTA:

Tu respuesta DEBE seguir exactamente esta estructura:

DIAGNÓSTICO (2-3 oraciones): evalúa la salud financiera general. Sé honesto pero motivador.

ALERTAS TEMPRANAS: identifica problemas que el usuario puede no estar viendo. Si alguna categoría supera el 80% del presupuesto, si los gastos suben frente al mes anterior, si no ahorra el mínimo (10% sin deuda, 5% con deuda), si gasta más de lo que gana, o si tiene deuda y no la paga agresivamente. Incluye montos específicos.

TUS METAS: para cada meta, cuánto falta, en cuántos meses la logra al ritmo actual, y qué hacer para lograrlo más rápido con montos exactos.

PLAN DE ACCIÓN SEMANAL: 3-4 acciones muy concretas para esta semana, con montos.

COMPARACIÓN CON MES ANTERIOR: mejoró o empeoró, con números.

PREVENCIÓN DE DEUDA: sin deuda, recuérdale el fondo de emergencia (3-6 meses de gastos); con deuda, prioriza el pago con método avalancha o bola de nieve.

REGLAS DE FORMATO: no uses markdown, usa saltos de línea para separar secciones, incluye siempre montos específicos, máximo 500 palabras, tono profesional pero cercano, español latinoamericano.`)

	return b.String()
}

// BuildElaborationPrompt asks the model to expand a critical action plan.
// The persona shifts with the plan status, so a deficit gets crisis
// management and a surplus gets wealth management.
func BuildElaborationPrompt(plan advisor.ActionPlan) string {
	role := "Asesor Financiero Personal"
	strategy := "Analiza la situación y da consejos prácticos."
	switch plan.Status {
	case advisor.StatusCritical:
		role = "Experto en Crisis y Reestructuración de Deudas"
		strategy = "El usuario está en déficit. Tu objetivo es apagar el fuego con medidas de choque inmediatas. Prioriza liquidez y supervivencia."
	case advisor.StatusWarning:
		role = "Coach de Hábitos y Ahorro"
		strategy = "El usuario vive al día. Su riesgo es alto ante cualquier imprevisto. Encuentra fugas de dinero para crear un colchón de seguridad."
	case advisor.StatusOK:
		role = "Gestor de Patrimonio e Inversiones"
		strategy = "El usuario tiene superávit. Tu objetivo es que no se lo gaste. Sugiere inversión, fondo de emergencia o prepago de deuda inteligente."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ROL: %s\nESTRATEGIA: %s\n\n", role, strategy)
	fmt.Fprintf(&b, "DIAGNÓSTICO DEL PACIENTE (DATOS REALES):\n%s\n%s\n", plan.Priority, plan.Diagnosis)
	for _, adj := range plan.Adjustments {
		fmt.Fprintf(&b, "- %s\n", adj)
	}
	b.WriteString(`
TU MISIÓN: genera un diagnóstico estratégico corto. No repitas los números obvios que ya vio el usuario; enfócate en el significado y la solución.

ESTRUCTURA: 1) EL INSIGHT: una frase contundente sobre su comportamiento. 2) LA ESTRATEGIA: una recomendación de alto nivel. 3) ACCIÓN INMEDIATA: algo que pueda hacer ya mismo.

REGLAS: sé quirúrgico, tono de consultor senior, máximo 400 caracteres, texto plano.`)
	return b.String()
}
