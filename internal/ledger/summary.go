package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthNames = []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// MonthLabel returns the Spanish 3-letter abbreviation for m.
func MonthLabel(m time.Month) string { return monthNames[int(m)-1] }

// txInMonth reports whether the YYYY-MM-DD date string falls in the month.
func txInMonth(date string, month time.Month, year int) bool {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) < 2 {
		return false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return y == year && time.Month(m) == month
}

// FinancialSummary aggregates the month's transactions per type and derives
// the net balance. TARJETA_CREDITO never lands in a bucket.
func (s *Store) FinancialSummary(month time.Month, year int) FinancialSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := FinancialSummary{Period: fmt.Sprintf("%d/%d", int(month), year)}
	for _, t := range s.data.Transactions {
		if !txInMonth(t.Date, month, year) {
			continue
		}
		switch t.Type {
		case TypeIngreso:
			sum.Income += t.Amount
		case TypeGasto:
			sum.Expenses += t.Amount
		case TypeAhorro:
			sum.Savings += t.Amount
		case TypeInversion:
			sum.Investment += t.Amount
		case TypePagoDeuda:
			sum.DebtPayment += t.Amount
		}
	}
	sum.BalanceNet = sum.Income - (sum.Expenses + sum.Savings + sum.Investment + sum.DebtPayment)
	return sum
}

// CategoryBreakdown sums the month's liquid outflow (GASTO and PAGO_DEUDA)
// grouped by category name. Transactions pointing at a deleted category go
// under "Desconocido".
func (s *Store) CategoryBreakdown(month time.Month, year int) map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	breakdown := map[string]float64{}
	for _, t := range s.data.Transactions {
		if t.Type != TypeGasto && t.Type != TypePagoDeuda {
			continue
		}
		if !txInMonth(t.Date, month, year) {
			continue
		}
		name := "Desconocido"
		if cat, ok := s.findCategory(t.CategoryID); ok {
			name = cat.Name
		}
		breakdown[name] += t.Amount
	}
	return breakdown
}

// HistorySummary returns the last n months including the current one,
// oldest first.
func (s *Store) HistorySummary(n int) []HistoryEntry {
	today := s.now()
	history := make([]HistoryEntry, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := time.Date(today.Year(), today.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		sum := s.FinancialSummary(d.Month(), d.Year())
		history = append(history, HistoryEntry{
			Label:    MonthLabel(d.Month()),
			Income:   sum.Income,
			Expenses: sum.Expenses,
			Balance:  sum.BalanceNet,
		})
	}
	return history
}
