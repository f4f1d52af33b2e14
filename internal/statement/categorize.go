package statement

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/adri1972/claritycash/internal/ledger"
)

// keywordRule maps merchant keywords to a category. Rules are evaluated in
// order; the first hit wins.
type keywordRule struct {
	categoryID string
	keywords   []string
}

var keywordRules = []keywordRule{
	{ledger.CatIntereses, []string{"interes", "manejo", "cuota admin", "gmf", "4x1000", "gravamen", "seguro de vida", "comision"}},
	{ledger.CatSubs, []string{"netflix", "spotify", "youtube", "apple", "hbo", "disney"}},
	{ledger.CatOcio, []string{"cine", "entradas", "bar", "discoteca", "teatro"}},
	{ledger.CatRestaurantes, []string{"rappi", "uber eats", "domicilio", "ifood", "pizza", "burger"}},
	{ledger.CatAlimentacion, []string{"exito", "jumbo", "carulla", "d1", "ara", "mercado", "olimpica"}},
	{ledger.CatRestaurantes, []string{"restaurante", "wok", "crepes", "el corral", "mcdonalds", "kfc"}},
	{ledger.CatSnacks, []string{"starbucks", "tostao", "juan valdez", "oma", "cafe"}},
	{ledger.CatVicios, []string{"licor", "cerveza", "vino", "aguardiente", "ron", "cigarrillo", "tabaco", "vape", "iqos", "coltabaco", "dislicores"}},
	{ledger.CatPersonal, []string{"zara", "h&m", "bershka", "pull&bear", "stradivarius", "koaj", "arturo calle", "studio f", "ela", "mattelsa", "falabella", "adidas", "nike"}},
	{ledger.CatPersonal, []string{"peluqueria", "barberia", "spa", "uñas", "nails", "cosmetico", "maquillaje", "cromantic", "blind", "sephora", "fedco"}},
	{ledger.CatDeporte, []string{"smartfit", "bodytech", "stark", "gym", "gimnasio", "crossfit", "fitness", "cancha", "entrenamiento", "decathlon", "sport"}},
	{ledger.CatTransporte, []string{"uber", "didi", "cabify", "taxi", "peaje", "gasolina", "terpel", "primax", "parqueadero"}},
	{ledger.CatVivienda, []string{"codensa", "enel", "acueducto", "gas", "administracion", "arriendo", "claro", "movistar", "tigo", "etb"}},
	{ledger.CatSalud, []string{"farma", "cruz verde", "medicina", "doctor", "eps", "colsanitas"}},
}

// PredictCategory assigns a category id to a cleaned description by keyword
// lookup, defaulting to Otros.
func PredictCategory(desc string) string {
	d := strings.ToLower(desc)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(d, kw) {
				return rule.categoryID
			}
		}
	}
	return ledger.CatOtros
}

// Fuzzy match cutoff, in edit distance per token.
const fuzzyMaxDistance = 2

// MatchCategory refines a keyword-table miss by fuzzy-matching description
// tokens against the user's category names, so OCR typos like "farmacoa"
// still land somewhere sensible. Falls back to the keyword prediction.
func MatchCategory(desc string, cats []ledger.Category) string {
	if predicted := PredictCategory(desc); predicted != ledger.CatOtros {
		return predicted
	}

	best := ledger.CatOtros
	bestDist := fuzzyMaxDistance + 1
	for _, token := range strings.Fields(strings.ToLower(desc)) {
		if len(token) < 4 {
			continue
		}
		for _, cat := range cats {
			if cat.Group == ledger.GroupIngresos {
				continue
			}
			for _, word := range strings.Fields(strings.ToLower(cat.Name)) {
				if len(word) < 4 {
					continue
				}
				if d := levenshtein.ComputeDistance(token, word); d < bestDist {
					bestDist = d
					best = cat.ID
				}
			}
		}
	}
	return best
}
