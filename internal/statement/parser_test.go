package statement

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adri1972/claritycash/internal/database"
	"github.com/adri1972/claritycash/internal/ledger"
)

func TestParseSingleExpenseLine(t *testing.T) {
	t.Parallel()

	report, err := Parse("15/01/2026 RAPPI DOMICILIO 45.000")
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)

	e := report.Entries[0]
	require.Equal(t, "2026-01-15", e.Date)
	require.Equal(t, 45000.0, e.Amount)
	require.Equal(t, "RAPPI DOMICILIO", e.Description)
	require.Equal(t, ledger.TypeGasto, e.Type)
	require.Equal(t, ledger.CatRestaurantes, e.CategoryID)
}

func TestParseDebtPaymentStripsGenericWords(t *testing.T) {
	t.Parallel()

	report, err := Parse("20/01/2026 PAGO TARJETA VISA 250.000")
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)

	e := report.Entries[0]
	require.Equal(t, ledger.TypePagoDeuda, e.Type)
	require.Equal(t, "TARJETA VISA", e.Description)
	require.Equal(t, ledger.CatOtros, e.CategoryID)
}

func TestParseNamedMonthDates(t *testing.T) {
	t.Parallel()

	report, err := Parse("20 ENE 2026 JUMBO CALLE 100 82.500\n22-Feb-26 CINE COLOMBIA 38.000")
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)
	require.Equal(t, "2026-01-20", report.Entries[0].Date)
	require.Equal(t, "2026-02-22", report.Entries[1].Date)
	require.Equal(t, ledger.CatAlimentacion, report.Entries[0].CategoryID)
	require.Equal(t, ledger.CatOcio, report.Entries[1].CategoryID)
}

func TestParseDeduplicatesShadowText(t *testing.T) {
	t.Parallel()

	text := "15/01/2026 RAPPI BOGOTA 45.000\n15/01/2026 RAPPI BOGOTA 45.000"
	report, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	require.Equal(t, 2, report.Blocks)
	require.Equal(t, 1, report.Dropped)
}

func TestParseDropsEntriesOutsideBillingWindow(t *testing.T) {
	t.Parallel()

	// January 1 is 73 days before the statement's newest entry, well past
	// the 45 day cutoff.
	text := "01/01/2026 VIEJA DEUDA 100.000\n15/03/2026 MERCADO CARULLA 80.000"
	report, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	require.Equal(t, "2026-03-15", report.Entries[0].Date)
	require.Equal(t, 1, report.Dropped)
}

func TestParseDropsOCRNoiseAmounts(t *testing.T) {
	t.Parallel()

	// 0,30 is below the minimum and 2.020 reads like a year.
	text := "10/02/2026 PROPINA 0,30\n10/02/2026 ANTIGUEDAD 2.020\n11/02/2026 ALMUERZO WOK 35.000"
	report, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	require.Equal(t, "2026-02-11", report.Entries[0].Date)
	require.Equal(t, ledger.CatRestaurantes, report.Entries[0].CategoryID)
	require.Equal(t, 2, report.Dropped)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse("texto sin fechas por 45.000 pesos")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Contains(t, perr.Reason, "fechas")

	_, err = Parse("15/01/2026 COMPRA SIN MONTO")
	require.ErrorAs(t, err, &perr)
	require.Contains(t, perr.Reason, "montos")
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1.000,50", 1000.50, true},
		{"1,000.50", 1000.50, true},
		{"45.000", 45000, true},
		{"12,34", 12.34, true},
		{"$ 1.234.567", 1234567, true},
		{"2,500,000", 2500000, true},
		{"0", 0, false},
		{"garbage", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.raw)
		require.Equal(t, tc.ok, ok, "raw %q", tc.raw)
		require.Equal(t, tc.want, got, "raw %q", tc.raw)
	}
}

func TestPredictCategoryRuleOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc string
		want string
	}{
		{"NETFLIX PREMIUM", ledger.CatSubs},
		{"UBER EATS BOGOTA", ledger.CatRestaurantes},
		{"UBER BOGOTA", ledger.CatTransporte},
		{"EDS TERPEL AUTOPISTA", ledger.CatTransporte},
		{"CUOTA MANEJO ENERO", ledger.CatIntereses},
		{"ALGO IRRECONOCIBLE", ledger.CatOtros},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, PredictCategory(tc.desc), "desc %q", tc.desc)
	}
}

func TestMatchCategoryFuzzyFallback(t *testing.T) {
	t.Parallel()
	cats := ledger.DefaultSnapshot(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)).Categories

	// One edit away from "Transporte".
	require.Equal(t, ledger.CatTransporte, MatchCategory("trasporte urbano", cats))

	// Keyword hits still win over fuzzy matching.
	require.Equal(t, ledger.CatSubs, MatchCategory("spotify trasporte", cats))
}

func TestImporterAddsEntriesToLedger(t *testing.T) {
	t.Parallel()

	store, err := ledger.NewStore(database.NewMemStore(), zerolog.Nop())
	require.NoError(t, err)
	im := NewImporter(store, zerolog.Nop())

	text := "15/01/2026 RAPPI DOMICILIO 45.000\n20/01/2026 PAGO TARJETA VISA 250.000"
	res, err := im.Import(text)
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)

	txs := store.Transactions()
	require.Len(t, txs, 2)
	for _, tx := range txs {
		require.Equal(t, ledger.AccountPrincipal, tx.AccountID)
	}

	_, err = im.Import("nada que importar")
	require.Error(t, err)
	require.Contains(t, err.Error(), "fechas")
}
