// Package budget computes suggested per-category monthly limits from a
// target income and a spending profile.
package budget

import (
	"errors"
	"math"

	"github.com/adri1972/claritycash/internal/ledger"
)

// Weights maps category id to its share of income for one profile.
type Weights map[string]float64

var profileWeights = map[ledger.SpendingProfile]Weights{
	// High savings and debt payoff, minimal wants.
	ledger.ProfileConservador: {
		ledger.CatVivienda:     0.25,
		ledger.CatAlimentacion: 0.15,
		ledger.CatTransporte:   0.05,
		ledger.CatGasolina:     0.05,
		ledger.CatSalud:        0.05,
		ledger.CatEducacion:    0.05,
		ledger.CatOcio:         0.05,
		ledger.CatPersonal:     0.05,
		ledger.CatDeporte:      0.00,
		ledger.CatVicios:       0.00,
		ledger.CatOtros:        0.05,
		ledger.CatAhorro:       0.10,
		ledger.CatInversion:    0.00,
		ledger.CatDeuda:        0.10,
		ledger.CatTarjeta:      0.05,
		ledger.CatRenting:      0.05,
	},
	// 50/30/20 rule.
	ledger.ProfileBalanceado: {
		ledger.CatVivienda:     0.20,
		ledger.CatAlimentacion: 0.15,
		ledger.CatTransporte:   0.05,
		ledger.CatGasolina:     0.05,
		ledger.CatSalud:        0.05,
		ledger.CatOcio:         0.10,
		ledger.CatPersonal:     0.05,
		ledger.CatDeporte:      0.03,
		ledger.CatVicios:       0.02,
		ledger.CatEducacion:    0.05,
		ledger.CatOtros:        0.08,
		ledger.CatAhorro:       0.05,
		ledger.CatInversion:    0.05,
		ledger.CatDeuda:        0.05,
		ledger.CatTarjeta:      0.025,
		ledger.CatRenting:      0.025,
	},
	// Lifestyle-weighted, minimum savings.
	ledger.ProfileFlexible: {
		ledger.CatVivienda:     0.25,
		ledger.CatAlimentacion: 0.10,
		ledger.CatTransporte:   0.05,
		ledger.CatGasolina:     0.05,
		ledger.CatSalud:        0.05,
		ledger.CatOcio:         0.10,
		ledger.CatPersonal:     0.10,
		ledger.CatDeporte:      0.05,
		ledger.CatVicios:       0.05,
		ledger.CatEducacion:    0.05,
		ledger.CatOtros:        0.10,
		ledger.CatAhorro:       0.02,
		ledger.CatInversion:    0.00,
		ledger.CatDeuda:        0.04,
		ledger.CatTarjeta:      0.02,
		ledger.CatRenting:      0.02,
	},
}

// Weight defaults for categories missing from the profile table.
const (
	defaultSuggestWeight  = 0.01
	defaultAllocateWeight = 0.005
)

const roundStep = 5000

// ProfileWeights returns the weight table for profile, falling back to
// BALANCEADO for unknown values.
func ProfileWeights(profile ledger.SpendingProfile) Weights {
	if w, ok := profileWeights[profile]; ok {
		return w
	}
	return profileWeights[ledger.ProfileBalanceado]
}

// budgetable excludes income categories from budget computation.
func budgetable(cats []ledger.Category) []ledger.Category {
	out := make([]ledger.Category, 0, len(cats))
	for _, c := range cats {
		if c.Group != ledger.GroupIngresos {
			out = append(out, c)
		}
	}
	return out
}

// Suggest computes a per-category budget suggestion, each category
// independently against income: max(fixed-expense floor, income*weight
// rounded up to the nearest 5000). The total is not reconciled to income;
// categories whose suggestion is zero are omitted.
func Suggest(income float64, profile ledger.SpendingProfile, cats []ledger.Category, fixed []ledger.FixedExpense) map[string]float64 {
	weights := ProfileWeights(profile)
	floors := ledger.FixedExpenseFloors(fixed)

	out := map[string]float64{}
	for _, cat := range budgetable(cats) {
		pct, ok := weights[cat.ID]
		if !ok {
			pct = defaultSuggestWeight
		}
		v := math.Ceil(income*pct/roundStep) * roundStep
		if floor := floors[cat.ID]; floor > v {
			v = floor
		}
		if v > 0 {
			out[cat.ID] = v
		}
	}
	return out
}

// ErrDeficit is returned by Allocate when fixed expenses exceed income.
var ErrDeficit = errors.New("fixed expenses exceed income")

// Allocate is the reconciling variant: the surplus left after fixed
// obligations is distributed across categories in proportion to each one's
// gap between its ideal share and its floor, every value is rounded to the
// nearest 1000 except the last category, which absorbs the residual so the
// total equals income exactly.
func Allocate(income float64, profile ledger.SpendingProfile, cats []ledger.Category, fixed []ledger.FixedExpense) (map[string]float64, error) {
	active := budgetable(cats)
	if len(active) == 0 {
		return map[string]float64{}, nil
	}

	weights := ProfileWeights(profile)
	floors := ledger.FixedExpenseFloors(fixed)

	var totalFixed float64
	for _, cat := range active {
		totalFixed += floors[cat.ID]
	}
	surplus := income - totalFixed
	if surplus < 0 {
		return nil, ErrDeficit
	}

	weightOf := func(id string) float64 {
		if w, ok := weights[id]; ok {
			return w
		}
		return defaultAllocateWeight
	}

	gaps := make(map[string]float64, len(active))
	var totalGap, sumWeights float64
	for _, cat := range active {
		gap := math.Max(0, income*weightOf(cat.ID)-floors[cat.ID])
		gaps[cat.ID] = gap
		totalGap += gap
		sumWeights += weightOf(cat.ID)
	}

	out := make(map[string]float64, len(active))
	var totalRounded float64
	for i, cat := range active {
		var extra float64
		if totalGap > 0 {
			extra = surplus * (gaps[cat.ID] / totalGap)
		} else {
			extra = surplus * (weightOf(cat.ID) / sumWeights)
		}
		v := floors[cat.ID] + extra
		if i < len(active)-1 {
			v = math.Round(v/1000) * 1000
			totalRounded += v
		}
		out[cat.ID] = v
	}

	last := active[len(active)-1]
	out[last.ID] = math.Max(0, income-totalRounded)
	return out, nil
}
