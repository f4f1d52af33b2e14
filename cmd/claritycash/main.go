package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/adri1972/claritycash/internal/advisor"
	"github.com/adri1972/claritycash/internal/config"
	"github.com/adri1972/claritycash/internal/database"
	"github.com/adri1972/claritycash/internal/ledger"
	"github.com/adri1972/claritycash/internal/llm"
	"github.com/adri1972/claritycash/internal/logger"
	"github.com/adri1972/claritycash/internal/statement"
	"github.com/adri1972/claritycash/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	interactive := len(os.Args) < 2
	log := logger.New(cfg.Log.Level, cfg.Log.File)
	if interactive && cfg.Log.File == "" {
		// the TUI owns the terminal
		log = logger.Silent()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatal().Err(err).Msg("create data dir")
	}

	db := database.OpenStore(cfg.Database.Path, log)
	defer db.Close()

	store, err := ledger.NewStore(db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open ledger")
	}

	now := time.Now()
	store.ProcessFixedExpenses(now.Month(), now.Year())

	adv := advisor.New(store)
	imp := statement.NewImporter(store, log)
	advice := llm.NewAdviceService(store, buildClient(ctx, cfg, store, log), llm.NewCache(db), cfg.LLM.Provider, log)

	if !interactive {
		runCommand(ctx, os.Args[1], os.Args[2:], store, adv, imp, advice, now)
		return
	}

	p := tea.NewProgram(tui.New(ctx, cfg, store, adv, imp, advice), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// buildClient resolves the provider API key from env, config file and
// finally the ledger's own stored keys. A missing key leaves the client
// nil; the advice service then serves the NO_KEY fallback.
func buildClient(ctx context.Context, cfg config.Config, store *ledger.Store, log zerolog.Logger) llm.Client {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	apiKey := cfg.LLM.ResolveAPIKey()
	if apiKey == "" {
		lc := store.Config()
		if provider == "openai" {
			apiKey = lc.OpenAIAPIKey
		} else {
			apiKey = lc.GeminiAPIKey
		}
	}

	var (
		client llm.Client
		err    error
	)
	if provider == "openai" {
		client, err = llm.NewOpenAI(apiKey, cfg.LLM.Model)
	} else {
		client, err = llm.NewGemini(ctx, apiKey, cfg.LLM.Model)
	}
	if err != nil {
		log.Warn().Str("provider", provider).Str("kind", string(llm.KindOf(err))).Msg("advice provider unavailable")
		return nil
	}
	return client
}

func runCommand(ctx context.Context, cmd string, args []string, store *ledger.Store, adv *advisor.Advisor, imp *statement.Importer, advice *llm.AdviceService, now time.Time) {
	switch cmd {
	case "import":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "usage: claritycash import <archivo>")
			os.Exit(2)
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "leer %s: %v\n", args[0], err)
			os.Exit(1)
		}
		res, err := imp.Import(string(raw))
		if err != nil {
			fmt.Fprintf(os.Stderr, "importar: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("importados %d movimientos de %d bloques (%d descartados)\n", res.Imported, res.Blocks, res.Dropped)

	case "summary":
		s := store.FinancialSummary(now.Month(), now.Year())
		fmt.Printf("Periodo %s\n", s.Period)
		fmt.Printf("  Ingresos     %s\n", advisor.FormatMoney(s.Income))
		fmt.Printf("  Gastos       %s\n", advisor.FormatMoney(s.Expenses))
		fmt.Printf("  Ahorro       %s\n", advisor.FormatMoney(s.Savings))
		fmt.Printf("  Inversión    %s\n", advisor.FormatMoney(s.Investment))
		fmt.Printf("  Pago deuda   %s\n", advisor.FormatMoney(s.DebtPayment))
		fmt.Printf("  Balance neto %s\n", advisor.FormatMoney(s.BalanceNet))
		for name, total := range store.CategoryBreakdown(now.Month(), now.Year()) {
			fmt.Printf("    %-24s %s\n", name, advisor.FormatMoney(total))
		}

	case "advise":
		force := len(args) > 0 && args[0] == "--force"
		plan := adv.ActionPlan(now.Month(), now.Year())
		fmt.Printf("[%s] %s\n%s\n", plan.Status, plan.Priority, plan.Diagnosis)
		for _, adj := range plan.Adjustments {
			fmt.Println("  • " + adj)
		}
		for _, in := range adv.Analyze(now.Month(), now.Year()) {
			fmt.Printf("[%s] %s: %s\n", in.Severity, in.Title, in.Message)
		}
		res, _ := advice.MonthlyAdvice(ctx, now.Month(), now.Year(), force)
		fmt.Println()
		fmt.Println(res.Text)

	default:
		fmt.Fprintf(os.Stderr, "comando desconocido: %s (import | summary | advise)\n", cmd)
		os.Exit(2)
	}
}
