package statement

import (
	"github.com/rs/zerolog"

	"github.com/adri1972/claritycash/internal/ledger"
)

// ImportResult reports one import run.
type ImportResult struct {
	Imported int
	Blocks   int
	Dropped  int
}

// Importer parses statement text and feeds the accepted entries into the
// ledger.
type Importer struct {
	store *ledger.Store
	log   zerolog.Logger
}

func NewImporter(store *ledger.Store, log zerolog.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// Import runs the parser over text and adds every accepted entry as a
// transaction on the main bank account. The category assignment gets a
// fuzzy second pass against the user's own category names.
func (im *Importer) Import(text string) (ImportResult, error) {
	report, err := Parse(text)
	if err != nil {
		return ImportResult{}, err
	}

	cats := im.store.Categories()
	for _, e := range report.Entries {
		catID := e.CategoryID
		if catID == ledger.CatOtros {
			catID = MatchCategory(e.Description, cats)
		}
		im.store.AddTransaction(ledger.TransactionDraft{
			Type:       e.Type,
			Amount:     e.Amount,
			Date:       e.Date,
			CategoryID: catID,
			AccountID:  ledger.AccountPrincipal,
			Note:       e.Description,
		})
	}

	res := ImportResult{
		Imported: len(report.Entries),
		Blocks:   report.Blocks,
		Dropped:  report.Dropped,
	}
	im.log.Info().
		Int("imported", res.Imported).
		Int("dropped", res.Dropped).
		Msg("statement import finished")
	return res, nil
}
