// Package statement extracts (date, amount, description) entries from raw
// bank-statement or receipt text. The whole pipeline is best effort: it
// reports what it accepted and dropped instead of guaranteeing a correct
// extraction.
package statement

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adri1972/claritycash/internal/ledger"
)

// Tuning constants for the noise filters. The cutoff assumes a statement
// lists one 30-day billing cycle plus minor historical noise.
const (
	blockCap        = 400 // max chars per transaction block
	cutoffDays      = 45  // entries older than maxDate-cutoff are dropped
	futureTolerance = 5   // entries more than 5 days past maxDate are dropped
	minAmount       = 50  // amounts below this are OCR noise
	yearNoiseMin    = 2000
	yearNoiseMax    = 2035 // integral amounts in this range read like years
	maxNoteLen      = 50
	sampleLen       = 100

	fallbackDescription = "Movimiento Bancario"
)

// Matches "20 ENE 2026", "20/01/2026", "20-Ene-26", "20Ene2026".
var dateRe = regexp.MustCompile(`(?i)\b(\d{1,2})[/\-.\s]?(ENE|JAN|FEB|MAR|ABR|APR|MAY|JUN|JUL|AGO|AUG|SEP|OCT|NOV|DIC|DEC)[A-Za-z]*[/\-.\s]?(\d{2,4})\b|\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})\b`)

// Amounts must carry a separator or a currency symbol, so bare years and
// reference numbers don't qualify.
var amountRe = regexp.MustCompile(`(\$ ?\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{0,2})?)|(\b\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{0,2})?\b)|(\b\d{1,3}[.,]\d{2}\b)`)

var (
	namedDateRe   = regexp.MustCompile(`(\d{1,2})[/\-.\s]?([A-Z]{3,})[/\-.\s]?(\d{2,4})`)
	longDigitsRe  = regexp.MustCompile(`[0-9]{4,}`)
	idDigitsRe    = regexp.MustCompile(`[0-9]{5,}`)
	punctRe       = regexp.MustCompile(`[*\-_$]`)
	spaceRe       = regexp.MustCompile(`\s+`)
	genericWordRe = regexp.MustCompile(`(?i)\b(GASTO|COMPRA|PAGO|ABONO)\b`)
	letterRe      = regexp.MustCompile(`[a-zA-Z]`)
)

var monthNums = map[string]string{
	"ENE": "01", "JAN": "01", "FEB": "02", "MAR": "03", "ABR": "04", "APR": "04",
	"MAY": "05", "JUN": "06", "JUL": "07", "AGO": "08", "AUG": "08", "SEP": "09",
	"OCT": "10", "NOV": "11", "DIC": "12", "DEC": "12",
}

// Entry is one accepted transaction candidate.
type Entry struct {
	Date        string                 `json:"date"`
	Amount      float64                `json:"amount"`
	Description string                 `json:"description"`
	CategoryID  string                 `json:"category_id"`
	Type        ledger.TransactionType `json:"type"`
	RawDate     string                 `json:"raw_date"`
	RawAmount   string                 `json:"raw_amount"`
}

// Report summarizes a parse: the accepted entries plus how many candidate
// blocks were seen and dropped by the filters.
type Report struct {
	Entries []Entry
	Blocks  int
	Dropped int
	Sample  string
}

// ParseError reports that nothing usable was found, carrying a text sample
// for the user-facing message.
type ParseError struct {
	Reason string
	Sample string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (muestra: %q)", e.Reason, e.Sample)
}

func sample(text string) string {
	if len(text) > sampleLen {
		return text[:sampleLen]
	}
	return text
}

type rawEntry struct {
	dateStr   string
	amountStr string
	desc      string
	dateISO   string
	date      time.Time
}

// Parse runs the extraction pipeline over text. It fails only when no
// dates, no amounts, or no surviving entries are found; everything else is
// reported as accepted/dropped counts.
func Parse(text string) (*Report, error) {
	dateLocs := dateRe.FindAllStringIndex(text, -1)
	if len(dateLocs) == 0 {
		return nil, &ParseError{Reason: "no encontramos fechas claras", Sample: sample(text)}
	}
	if !hasValidAmount(amountRe.FindAllString(text, -1)) {
		return nil, &ParseError{Reason: "no encontramos montos claros", Sample: sample(text)}
	}

	report := &Report{Sample: sample(text)}

	var raw []rawEntry
	for i, loc := range dateLocs {
		start := loc[0]
		end := len(text)
		if i+1 < len(dateLocs) {
			end = dateLocs[i+1][0]
		}
		if end > start+blockCap {
			end = start + blockCap
		}
		block := text[start:end]
		report.Blocks++

		dateStr := text[loc[0]:loc[1]]
		amountStr, desc := extractAmountAndDesc(block, dateStr)
		if amountStr == "" {
			report.Dropped++
			continue
		}
		raw = append(raw, rawEntry{dateStr: dateStr, amountStr: amountStr, desc: desc})
	}

	// Resolve dates; entries with unparseable dates are dropped here.
	var parsed []rawEntry
	for _, e := range raw {
		iso, ok := parseDate(e.dateStr)
		if !ok {
			report.Dropped++
			continue
		}
		d, err := time.Parse("2006-01-02", iso)
		if err != nil {
			report.Dropped++
			continue
		}
		e.dateISO = iso
		e.date = d
		parsed = append(parsed, e)
	}
	if len(parsed) == 0 {
		return nil, &ParseError{Reason: "no pudimos procesar fechas válidas", Sample: report.Sample}
	}

	// The statement's as-of date is the max parsed date, not wall clock.
	maxDate := parsed[0].date
	for _, e := range parsed[1:] {
		if e.date.After(maxDate) {
			maxDate = e.date
		}
	}

	seen := map[string]bool{}
	for _, e := range parsed {
		age := maxDate.Sub(e.date).Hours() / 24
		if age > cutoffDays || age < -futureTolerance {
			report.Dropped++
			continue
		}

		amount, ok := ParseAmount(e.amountStr)
		if !ok || amount < minAmount {
			report.Dropped++
			continue
		}
		if amount >= yearNoiseMin && amount <= yearNoiseMax && amount == math.Trunc(amount) {
			report.Dropped++
			continue
		}

		sig := fmt.Sprintf("%s|%d|%s", e.dateISO, int64(math.Round(amount)), descSignature(e.desc))
		if seen[sig] {
			report.Dropped++
			continue
		}
		seen[sig] = true

		desc := finalDescription(e.desc)
		txType := ledger.TypeGasto
		upper := strings.ToUpper(e.desc)
		if strings.Contains(upper, "PAGO") || strings.Contains(upper, "ABONO") {
			txType = ledger.TypePagoDeuda
		}

		report.Entries = append(report.Entries, Entry{
			Date:        e.dateISO,
			Amount:      math.Abs(amount),
			Description: desc,
			CategoryID:  PredictCategory(desc),
			Type:        txType,
			RawDate:     e.dateStr,
			RawAmount:   e.amountStr,
		})
	}

	if len(report.Entries) == 0 {
		return nil, &ParseError{Reason: "no se pudieron confirmar transacciones válidas", Sample: report.Sample}
	}

	sort.SliceStable(report.Entries, func(i, j int) bool {
		return report.Entries[i].Date < report.Entries[j].Date
	})
	return report, nil
}

// extractAmountAndDesc finds the first valid amount in the block and
// derives the description: the text between date and amount when it has
// letters and length, else the text after the amount, else the block with
// date and amount stripped.
func extractAmountAndDesc(block, dateStr string) (string, string) {
	var amountStr string
	for _, a := range amountRe.FindAllString(block, -1) {
		if !yearLike(a) {
			amountStr = a
			break
		}
	}
	if amountStr == "" {
		return "", ""
	}

	dateIdx := strings.Index(block, dateStr)
	amountIdx := strings.Index(block, amountStr)

	var desc string
	if amountIdx > dateIdx {
		between := strings.TrimSpace(block[dateIdx+len(dateStr) : amountIdx])
		if len(between) > 3 && letterRe.MatchString(between) {
			desc = between
		} else {
			desc = strings.TrimSpace(block[amountIdx+len(amountStr):])
		}
	} else {
		desc = strings.Replace(block, dateStr, "", 1)
		desc = strings.Replace(desc, amountStr, "", 1)
	}

	desc = punctRe.ReplaceAllString(strings.ReplaceAll(desc, "\n", " "), " ")
	desc = longDigitsRe.ReplaceAllString(desc, "")
	desc = strings.TrimSpace(spaceRe.ReplaceAllString(desc, " "))
	desc = strings.TrimSpace(strings.Replace(desc, amountStr, "", 1))
	if len(desc) < 3 {
		desc = fallbackDescription
	}
	return amountStr, desc
}

// finalDescription applies the import-time cleanup pass.
func finalDescription(desc string) string {
	d := strings.ReplaceAll(desc, "\n", " ")
	d = punctRe.ReplaceAllString(d, " ")
	d = idDigitsRe.ReplaceAllString(d, "")
	d = genericWordRe.ReplaceAllString(d, "")
	d = strings.TrimSpace(spaceRe.ReplaceAllString(d, " "))
	if len(d) < 3 {
		d = fallbackDescription
	}
	if len(d) > maxNoteLen {
		d = d[:maxNoteLen]
	}
	return d
}

// descSignature keeps the first 5 alphabetic characters, enough to tell two
// same-day same-amount purchases apart while collapsing OCR shadow text.
func descSignature(desc string) string {
	var b strings.Builder
	for _, r := range desc {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
			if b.Len() >= 5 {
				break
			}
		}
	}
	return b.String()
}

func yearLike(amountStr string) bool {
	if strings.Contains(amountStr, "$") {
		return false
	}
	if strings.ContainsAny(amountStr, ".,") {
		return false
	}
	v, err := strconv.Atoi(strings.TrimSpace(amountStr))
	if err != nil {
		return false
	}
	return v >= yearNoiseMin && v <= yearNoiseMax
}

func hasValidAmount(candidates []string) bool {
	for _, a := range candidates {
		if !yearLike(a) {
			return true
		}
	}
	return false
}

// parseDate normalizes a matched date token to YYYY-MM-DD.
func parseDate(dateStr string) (string, bool) {
	upper := strings.ToUpper(dateStr)
	if m := namedDateRe.FindStringSubmatch(upper); m != nil {
		day := m[1]
		if len(day) == 1 {
			day = "0" + day
		}
		month, ok := monthNums[m[2][:3]]
		if !ok {
			return "", false
		}
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return year + "-" + month + "-" + day, true
	}

	parts := strings.FieldsFunc(dateStr, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	if len(parts) != 3 {
		return "", false
	}
	pad := func(s string) string {
		if len(s) == 1 {
			return "0" + s
		}
		return s
	}
	if len(parts[0]) == 4 {
		return parts[0] + "-" + pad(parts[1]) + "-" + pad(parts[2]), true
	}
	year := parts[2]
	if len(year) == 2 {
		year = "20" + year
	}
	return year + "-" + pad(parts[1]) + "-" + pad(parts[0]), true
}

// ParseAmount resolves the locale-ambiguous separators by inspecting which
// one appears last: "1.000,50" and "1,000.50" both come out as 1000.50.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, "$", ""), " ", ""))
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case dots > 0:
		s = strings.ReplaceAll(s, ".", "")
	case commas > 0:
		if i := strings.LastIndex(s, ","); i == len(s)-3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}
