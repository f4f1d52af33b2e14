package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adri1972/claritycash/internal/advisor"
	"github.com/adri1972/claritycash/internal/budget"
	"github.com/adri1972/claritycash/internal/config"
	"github.com/adri1972/claritycash/internal/ledger"
	"github.com/adri1972/claritycash/internal/llm"
	"github.com/adri1972/claritycash/internal/statement"
)

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	store    *ledger.Store
	advisor  *advisor.Advisor
	importer *statement.Importer
	advice   *llm.AdviceService

	state appState
	modal modalState

	month time.Month
	year  int

	// snapshot of the current month, rebuilt on every refresh
	summary      ledger.FinancialSummary
	breakdown    map[string]float64
	transactions []ledger.Transaction
	goals        []ledger.GoalProgress
	insights     []advisor.Insight
	plan         advisor.ActionPlan

	txCursor       int
	categoryCursor int
	goalCursor     int

	inputBuffer string
	importPath  string
	lastImport  *statement.ImportResult
	adviceText  string
	adviceBusy  bool
	status      string
	showAPIKey  bool
	apiKeyCache string
}

type appState string

const (
	viewDashboard    appState = "dashboard"
	viewTransactions appState = "transactions"
	viewGoals        appState = "goals"
	viewInsights     appState = "insights"
	viewImport       appState = "import"
	viewSettings     appState = "settings"
)

type modalState string

const (
	modalNone           modalState = ""
	modalCategoryPicker modalState = "categoryPicker"
	modalQuickAdd       modalState = "quickAdd"
	modalIncomeTarget   modalState = "incomeTarget"
	modalEditAPIKey     modalState = "editAPIKey"
	modalConfirmClear   modalState = "confirmClear"
)

func New(ctx context.Context, cfg config.Config, store *ledger.Store, adv *advisor.Advisor, imp *statement.Importer, advice *llm.AdviceService) *App {
	now := time.Now()
	return &App{
		ctx:         ctx,
		cfg:         cfg,
		store:       store,
		advisor:     adv,
		importer:    imp,
		advice:      advice,
		state:       viewDashboard,
		month:       now.Month(),
		year:        now.Year(),
		importPath:  "extracto.txt",
		apiKeyCache: cfg.LLM.ResolveAPIKey(),
	}
}

func (a *App) Init() tea.Cmd {
	return a.refresh()
}

// refresh recomputes everything derived from the ledger for the visible
// month. The store is in-process so this is cheap enough to run after
// every mutation.
func (a *App) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{
			summary:      a.store.FinancialSummary(a.month, a.year),
			breakdown:    a.store.CategoryBreakdown(a.month, a.year),
			transactions: a.monthTransactions(),
			goals:        a.store.Goals(),
			insights:     a.advisor.Analyze(a.month, a.year),
			plan:         a.advisor.ActionPlan(a.month, a.year),
		}
	}
}

func (a *App) monthTransactions() []ledger.Transaction {
	prefix := fmt.Sprintf("%04d-%02d", a.year, int(a.month))
	var out []ledger.Transaction
	for _, t := range a.store.Transactions() {
		if strings.HasPrefix(t.Date, prefix) {
			out = append(out, t)
		}
	}
	return out
}

func (a *App) shiftMonth(delta int) {
	m := int(a.month) + delta
	for m < 1 {
		m += 12
		a.year--
	}
	for m > 12 {
		m -= 12
		a.year++
	}
	a.month = time.Month(m)
	a.txCursor = 0
	a.adviceText = ""
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.state == viewImport {
			return a.handleImportKey(m)
		}
		if a.state == viewSettings {
			return a.handleSettingsKey(m)
		}
		switch m.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "d":
			a.state = viewDashboard
		case "t":
			a.state = viewTransactions
		case "g":
			a.state = viewGoals
		case "s":
			a.state = viewInsights
		case "i":
			a.state = viewImport
			a.status = ""
		case "p":
			a.state = viewSettings
			a.status = ""
		case "[":
			a.shiftMonth(-1)
			return a, a.refresh()
		case "]":
			a.shiftMonth(1)
			return a, a.refresh()
		case "up", "k":
			if a.state == viewTransactions && a.txCursor > 0 {
				a.txCursor--
			}
			if a.state == viewGoals && a.goalCursor > 0 {
				a.goalCursor--
			}
		case "down", "j":
			if a.state == viewTransactions && a.txCursor < len(a.transactions)-1 {
				a.txCursor++
			}
			if a.state == viewGoals && a.goalCursor < len(a.goals)-1 {
				a.goalCursor++
			}
		case "n":
			if a.state == viewTransactions {
				a.modal = modalQuickAdd
				a.inputBuffer = ""
			}
		case "c":
			if a.state == viewTransactions && len(a.transactions) > 0 {
				a.modal = modalCategoryPicker
				if a.categoryCursor >= len(a.store.Categories()) {
					a.categoryCursor = 0
				}
			}
		case "x":
			if a.state == viewTransactions && len(a.transactions) > 0 {
				id := a.transactions[a.txCursor].ID
				return a, a.deleteTransactionCmd(id)
			}
		case "a":
			if a.state == viewInsights && !a.adviceBusy {
				a.adviceBusy = true
				a.status = "consultando al asesor..."
				return a, a.adviceCmd(false)
			}
		case "A":
			if a.state == viewInsights && !a.adviceBusy {
				a.adviceBusy = true
				a.status = "consultando al asesor (sin caché)..."
				return a, a.adviceCmd(true)
			}
		case "e":
			if a.state == viewInsights && !a.adviceBusy && a.plan.NeedsElaboration {
				a.adviceBusy = true
				a.status = "elaborando plan..."
				return a, a.elaborateCmd()
			}
		case "m":
			return a, a.materializeCmd()
		}
	case refreshMsg:
		a.summary = m.summary
		a.breakdown = m.breakdown
		a.transactions = m.transactions
		a.goals = m.goals
		a.insights = m.insights
		a.plan = m.plan
		if a.txCursor >= len(a.transactions) {
			a.txCursor = 0
		}
		if a.goalCursor >= len(a.goals) {
			a.goalCursor = 0
		}
	case adviceMsg:
		a.adviceBusy = false
		a.adviceText = m.result.Text
		switch {
		case m.result.Cached:
			a.status = "consejo (caché)"
		case m.result.Fallback:
			a.status = "sin conexión con el asesor (" + string(m.result.Kind) + ")"
		default:
			a.status = "consejo actualizado"
		}
	case importDoneMsg:
		a.lastImport = &m.result
		a.status = fmt.Sprintf("importados %d de %d bloques (%d descartados)", m.result.Imported, m.result.Blocks, m.result.Dropped)
		a.state = viewTransactions
		return a, a.refresh()
	case statusMsg:
		a.status = string(m)
		return a, a.refresh()
	case errMsg:
		a.adviceBusy = false
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewTransactions:
		body = a.renderTransactions()
	case viewGoals:
		body = a.renderGoals()
	case viewInsights:
		body = a.renderInsights()
	case viewImport:
		body = a.renderImport()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderDashboard()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

// commands

func (a *App) deleteTransactionCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if !a.store.DeleteTransaction(id) {
			return errMsg{fmt.Errorf("transacción %s no encontrada", id)}
		}
		return statusMsg("transacción eliminada")
	}
}

func (a *App) setCategoryCmd(txID, categoryID string) tea.Cmd {
	return func() tea.Msg {
		if !a.store.UpdateTransaction(txID, ledger.TransactionUpdate{CategoryID: &categoryID}) {
			return errMsg{fmt.Errorf("transacción %s no encontrada", txID)}
		}
		return statusMsg("categoría actualizada")
	}
}

func (a *App) quickAddCmd(input string) tea.Cmd {
	return func() tea.Msg {
		fields := strings.Fields(input)
		if len(fields) == 0 {
			return errMsg{fmt.Errorf("formato: <monto> <nota>")}
		}
		amount, ok := statement.ParseAmount(fields[0])
		if !ok || amount <= 0 {
			return errMsg{fmt.Errorf("monto no válido: %s", fields[0])}
		}
		note := strings.Join(fields[1:], " ")
		catID := statement.PredictCategory(note)
		if catID == ledger.CatOtros {
			catID = statement.MatchCategory(note, a.store.Categories())
		}
		a.store.AddTransaction(ledger.TransactionDraft{
			Type:       ledger.TypeGasto,
			Amount:     amount,
			Date:       fmt.Sprintf("%04d-%02d-%02d", a.year, int(a.month), time.Now().Day()),
			AccountID:  ledger.AccountPrincipal,
			CategoryID: catID,
			Note:       note,
		})
		return statusMsg("transacción registrada")
	}
}

func (a *App) materializeCmd() tea.Cmd {
	return func() tea.Msg {
		res := a.store.ProcessFixedExpenses(a.month, a.year)
		if res.Created == 0 && res.Updated == 0 {
			return statusMsg("fijos al día")
		}
		return statusMsg(fmt.Sprintf("fijos: %d creados, %d actualizados", res.Created, res.Updated))
	}
}

func (a *App) adviceCmd(force bool) tea.Cmd {
	return func() tea.Msg {
		res, _ := a.advice.MonthlyAdvice(a.ctx, a.month, a.year, force)
		return adviceMsg{result: res}
	}
}

func (a *App) elaborateCmd() tea.Cmd {
	plan := a.plan
	return func() tea.Msg {
		res, _ := a.advice.ElaboratePlan(a.ctx, plan)
		return adviceMsg{result: res}
	}
}

func (a *App) importCmd(path string) tea.Cmd {
	abs := path
	if !filepath.IsAbs(path) {
		if p, err := filepath.Abs(path); err == nil {
			abs = p
		}
	}
	return func() tea.Msg {
		raw, err := os.ReadFile(abs)
		if err != nil {
			return errMsg{fmt.Errorf("leer %s: %w", abs, err)}
		}
		res, err := a.importer.Import(string(raw))
		if err != nil {
			return errMsg{err}
		}
		return importDoneMsg{result: res}
	}
}

func (a *App) suggestBudgetsCmd() tea.Cmd {
	return func() tea.Msg {
		cfg := a.store.Config()
		if cfg.MonthlyIncomeTarget <= 0 {
			return errMsg{fmt.Errorf("define primero el ingreso mensual")}
		}
		suggested := budget.Suggest(cfg.MonthlyIncomeTarget, cfg.SpendingProfile, a.store.Categories(), cfg.FixedExpenses)
		warnings := a.store.SetBudgets(suggested)
		if len(warnings) > 0 {
			return statusMsg(fmt.Sprintf("presupuesto sugerido aplicado (%d ajustados al piso de fijos)", len(warnings)))
		}
		return statusMsg("presupuesto sugerido aplicado")
	}
}

func (a *App) setIncomeTargetCmd(raw string) tea.Cmd {
	return func() tea.Msg {
		amount, ok := statement.ParseAmount(raw)
		if !ok || amount < 0 {
			return errMsg{fmt.Errorf("monto no válido: %s", raw)}
		}
		a.store.UpdateConfig(func(c *ledger.Config) {
			c.MonthlyIncomeTarget = amount
		})
		return statusMsg("ingreso mensual actualizado")
	}
}

func (a *App) cycleProfileCmd() tea.Cmd {
	return func() tea.Msg {
		order := []ledger.SpendingProfile{ledger.ProfileConservador, ledger.ProfileBalanceado, ledger.ProfileFlexible}
		cfg := a.store.UpdateConfig(func(c *ledger.Config) {
			for i, p := range order {
				if c.SpendingProfile == p {
					c.SpendingProfile = order[(i+1)%len(order)]
					return
				}
			}
			c.SpendingProfile = ledger.ProfileBalanceado
		})
		return statusMsg("perfil: " + string(cfg.SpendingProfile))
	}
}

func (a *App) saveAPIKeyCmd(key string) tea.Cmd {
	return func() tea.Msg {
		a.cfg.LLM.APIKey = strings.TrimSpace(key)
		if err := config.Save(a.cfg); err != nil {
			return errMsg{err}
		}
		a.apiKeyCache = a.cfg.LLM.APIKey
		return statusMsg("API key guardada (reinicia para aplicar)")
	}
}

func (a *App) clearTransactionsCmd() tea.Cmd {
	return func() tea.Msg {
		a.store.ClearTransactions()
		a.txCursor = 0
		return statusMsg("historial de transacciones vaciado")
	}
}

// key handlers

func (a *App) handleImportKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	}
	switch m.Type {
	case tea.KeyEsc:
		a.state = viewDashboard
		a.status = ""
	case tea.KeyEnter:
		path := strings.TrimSpace(a.importPath)
		if path == "" {
			a.status = "escribe la ruta del extracto"
			return a, nil
		}
		a.status = "importando..."
		return a, a.importCmd(path)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.importPath) > 0 {
			a.importPath = a.importPath[:len(a.importPath)-1]
		}
	case tea.KeySpace:
		a.importPath += " "
	case tea.KeyRunes:
		a.importPath += string(m.Runes)
	}
	return a, nil
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "d":
		a.state = viewDashboard
		a.status = ""
		return a, nil
	case "t":
		a.state = viewTransactions
		return a, nil
	case "m":
		a.modal = modalIncomeTarget
		a.inputBuffer = ""
		return a, nil
	case "f":
		return a, a.cycleProfileCmd()
	case "b":
		return a, a.suggestBudgetsCmd()
	case "e":
		a.modal = modalEditAPIKey
		a.inputBuffer = a.apiKeyCache
		return a, nil
	case "v":
		a.showAPIKey = !a.showAPIKey
	case "x":
		a.modal = modalConfirmClear
		return a, nil
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalCategoryPicker:
		cats := a.store.Categories()
		switch m.String() {
		case "esc":
			a.modal = modalNone
		case "up", "k":
			if a.categoryCursor > 0 {
				a.categoryCursor--
			}
		case "down", "j":
			if a.categoryCursor < len(cats)-1 {
				a.categoryCursor++
			}
		case "enter":
			a.modal = modalNone
			if len(a.transactions) == 0 || a.categoryCursor >= len(cats) {
				return a, nil
			}
			txID := a.transactions[a.txCursor].ID
			return a, a.setCategoryCmd(txID, cats[a.categoryCursor].ID)
		}
	case modalConfirmClear:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			return a, a.clearTransactionsCmd()
		case "n", "N", "esc":
			a.modal = modalNone
		}
	case modalQuickAdd, modalIncomeTarget, modalEditAPIKey:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.inputBuffer = ""
		case tea.KeyEnter:
			text := strings.TrimSpace(a.inputBuffer)
			if text == "" {
				a.status = "escribe un valor"
				return a, nil
			}
			mode := a.modal
			a.modal = modalNone
			a.inputBuffer = ""
			switch mode {
			case modalQuickAdd:
				return a, a.quickAddCmd(text)
			case modalIncomeTarget:
				return a, a.setIncomeTargetCmd(text)
			case modalEditAPIKey:
				return a, a.saveAPIKeyCmd(text)
			}
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(a.inputBuffer) > 0 {
				a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
			}
		case tea.KeySpace:
			a.inputBuffer += " "
		case tea.KeyRunes:
			a.inputBuffer += string(m.Runes)
		}
	}
	return a, nil
}

// messages

type refreshMsg struct {
	summary      ledger.FinancialSummary
	breakdown    map[string]float64
	transactions []ledger.Transaction
	goals        []ledger.GoalProgress
	insights     []advisor.Insight
	plan         advisor.ActionPlan
}

type adviceMsg struct {
	result llm.AdviceResult
}

type importDoneMsg struct {
	result statement.ImportResult
}

type statusMsg string

type errMsg struct{ error }

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	fadeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func severityStyle(s advisor.Severity) lipgloss.Style {
	switch s {
	case advisor.SeverityCritical:
		return criticalStyle
	case advisor.SeverityWarning:
		return warnStyle
	default:
		return infoStyle
	}
}

func (a *App) monthTitle() string {
	return fmt.Sprintf("%s %d", ledger.MonthLabel(a.month), a.year)
}

func (a *App) renderDashboard() string {
	title := titleStyle.Render("ClarityCash - " + a.monthTitle())
	s := a.summary
	body := fmt.Sprintf("Ingresos:     %s\nGastos:       %s\nAhorro:       %s\nInversión:    %s\nPago deuda:   %s\nBalance neto: %s",
		advisor.FormatMoney(s.Income), advisor.FormatMoney(s.Expenses), advisor.FormatMoney(s.Savings),
		advisor.FormatMoney(s.Investment), advisor.FormatMoney(s.DebtPayment), advisor.FormatMoney(s.BalanceNet))

	body += "\n\nCuentas:"
	for _, acc := range a.store.Accounts() {
		body += fmt.Sprintf("\n- %-20s %s", acc.Name, advisor.FormatMoney(acc.CurrentBalance))
	}

	type pair struct {
		name  string
		total float64
	}
	var pairs []pair
	for name, total := range a.breakdown {
		pairs = append(pairs, pair{name, total})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].total > pairs[j].total })
	if len(pairs) > 5 {
		pairs = pairs[:5]
	}
	if len(pairs) > 0 {
		body += "\n\nMayores gastos:"
		budgets := a.store.Config().Budgets
		byName := map[string]string{}
		for _, c := range a.store.Categories() {
			byName[c.Name] = c.ID
		}
		for _, p := range pairs {
			line := fmt.Sprintf("\n- %-24s %s", p.name, advisor.FormatMoney(p.total))
			if b := budgets[byName[p.name]]; b > 0 {
				line += fadeStyle.Render(fmt.Sprintf("  (%d%% del presupuesto)", int(p.total/b*100)))
			}
			body += line
		}
	}

	body += "\n\n" + fadeStyle.Render("[t] Transacciones  [g] Metas  [s] Asesor  [i] Importar  [p] Ajustes  [ [ ] ] Mes  [m] Fijos  [q] Salir")
	if a.status != "" {
		body += "\n" + a.status
	}
	return fmt.Sprintf("%s\n%s", title, body)
}

func (a *App) renderTransactions() string {
	title := titleStyle.Render("Transacciones - " + a.monthTitle())
	out := title + "\n"
	if len(a.transactions) == 0 {
		out += "(sin movimientos este mes)\n"
	}
	for i, t := range a.transactions {
		marker := " "
		if i == a.txCursor {
			marker = "▶"
		}
		catName := t.CategoryID
		if cat, ok := a.store.CategoryByID(t.CategoryID); ok {
			catName = cat.Name
		}
		note := t.Note
		if note == "" {
			note = fadeStyle.Render("(sin nota)")
		}
		out += fmt.Sprintf("%s %s  %-12s %14s  %-22s %s\n", marker, t.Date, t.Type, advisor.FormatMoney(t.Amount), catName, note)
	}
	out += fadeStyle.Render("[n] Nueva  [c] Categoría  [x] Eliminar  [d] Panel  [g] Metas  [s] Asesor  [i] Importar  [q] Salir")
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderGoals() string {
	title := titleStyle.Render("Metas")
	out := title + "\n"
	if len(a.goals) == 0 {
		out += "(sin metas definidas)\n"
	}
	for i, g := range a.goals {
		marker := " "
		if i == a.goalCursor {
			marker = "▶"
		}
		pct := 0.0
		if g.TargetAmount > 0 {
			pct = g.CurrentAmount / g.TargetAmount * 100
		}
		out += fmt.Sprintf("%s %-28s %s / %s (%.0f%%)\n", marker, g.Name,
			advisor.FormatMoney(g.CurrentAmount), advisor.FormatMoney(g.TargetAmount), pct)
		if i == a.goalCursor && len(g.RecentContributions) > 0 {
			for _, t := range g.RecentContributions {
				out += fadeStyle.Render(fmt.Sprintf("    %s  %s  %s", t.Date, advisor.FormatMoney(t.Amount), t.Note)) + "\n"
			}
		}
	}
	out += fadeStyle.Render("[d] Panel  [t] Transacciones  [s] Asesor  [q] Salir")
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderInsights() string {
	title := titleStyle.Render("Asesor - " + a.monthTitle())
	out := title + "\n"

	out += fmt.Sprintf("Plan [%s] prioridad %s\n%s\n", a.plan.Status, a.plan.Priority, a.plan.Diagnosis)
	for _, adj := range a.plan.Adjustments {
		out += "  • " + adj + "\n"
	}

	if len(a.insights) > 0 {
		out += "\nAlertas:\n"
		for _, in := range a.insights {
			style := severityStyle(in.Severity)
			out += style.Render("["+string(in.Severity)+"] "+in.Title) + "\n  " + in.Message + "\n"
		}
	}

	if a.adviceText != "" {
		out += "\n" + titleStyle.Render("Consejo del mes") + "\n" + a.adviceText + "\n"
	}

	keys := "[a] Consejo IA  [A] Forzar consejo  [d] Panel  [t] Transacciones  [q] Salir"
	if a.plan.NeedsElaboration {
		keys = "[e] Elaborar plan  " + keys
	}
	out += fadeStyle.Render(keys)
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderImport() string {
	title := titleStyle.Render("Importar extracto")
	body := fmt.Sprintf("Ruta del archivo: %s\nPega el texto del extracto o recibo en un archivo y presiona Enter.\n[enter] Importar  [esc] Volver  [q] Salir", a.importPath)
	if a.lastImport != nil {
		body += fmt.Sprintf("\nÚltima importación: %d movimientos de %d bloques, %d descartados",
			a.lastImport.Imported, a.lastImport.Blocks, a.lastImport.Dropped)
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return fmt.Sprintf("%s\n%s", title, body)
}

func (a *App) renderSettings() string {
	title := titleStyle.Render("Ajustes")
	cfg := a.store.Config()
	out := title + "\n"
	out += fmt.Sprintf("Ingreso mensual objetivo: %s\n", advisor.FormatMoney(cfg.MonthlyIncomeTarget))
	out += fmt.Sprintf("Perfil de gasto: %s\n", cfg.SpendingProfile)
	out += fmt.Sprintf("Deudas declaradas: %v", cfg.HasDebts)
	if cfg.HasDebts {
		out += "  total " + advisor.FormatMoney(cfg.TotalDebt)
	}
	out += "\n"

	if len(cfg.Budgets) > 0 {
		out += "\nPresupuestos:\n"
		type row struct {
			name   string
			amount float64
		}
		var rows []row
		for id, amount := range cfg.Budgets {
			name := id
			if c, ok := a.store.CategoryByID(id); ok {
				name = c.Name
			}
			rows = append(rows, row{name, amount})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].amount > rows[j].amount })
		for _, r := range rows {
			out += fmt.Sprintf("  %-24s %s\n", r.name, advisor.FormatMoney(r.amount))
		}
	}

	apiValue := "(sin definir)"
	if a.apiKeyCache != "" {
		if a.showAPIKey {
			apiValue = a.apiKeyCache
		} else {
			apiValue = strings.Repeat("*", len(a.apiKeyCache))
		}
	}
	out += fmt.Sprintf("\nAPI key (%s): %s\n", a.cfg.LLM.APIKeyEnv, apiValue)
	out += fadeStyle.Render("[m] Ingreso  [f] Perfil  [b] Sugerir presupuesto  [e] API key  [v] Mostrar  [x] Vaciar historial  [d] Panel  [q] Salir")
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalCategoryPicker:
		out := titleStyle.Render("Elegir categoría") + "\n"
		for i, c := range a.store.Categories() {
			marker := " "
			if i == a.categoryCursor {
				marker = "▶"
			}
			out += fmt.Sprintf("%s %s\n", marker, c.Name)
		}
		out += "[enter] Elegir  [esc] Cancelar"
		return out
	case modalQuickAdd:
		return titleStyle.Render("Nuevo gasto (monto nota)") + fmt.Sprintf("\n%s\n[enter] Guardar  [esc] Cancelar", a.inputBuffer)
	case modalIncomeTarget:
		return titleStyle.Render("Ingreso mensual objetivo") + fmt.Sprintf("\n%s\n[enter] Guardar  [esc] Cancelar", a.inputBuffer)
	case modalEditAPIKey:
		return titleStyle.Render("API key del asesor (se guarda en config.toml)") + fmt.Sprintf("\n%s\n[enter] Guardar  [esc] Cancelar", a.inputBuffer)
	case modalConfirmClear:
		return titleStyle.Render("¿Vaciar historial?") + "\nSe eliminan todas las transacciones y se restauran los saldos iniciales.\n[y] Sí  [n] No"
	default:
		return ""
	}
}
