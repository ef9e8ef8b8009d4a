package risk

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StressResult is the outcome of one named scenario applied to the current
// portfolio value.
type StressResult struct {
	Scenario       string
	PotentialLoss  decimal.Decimal // negative
	Probability    decimal.Decimal
	ImpactedAssets []string
}

type stressScenario struct {
	name        string
	shock       float64 // fixed percentage applied to portfolio value
	probability float64
	impacted    func(symbols []string) []string
}

// Scenario shocks and base occurrence probabilities. The impact rule maps a
// scenario to the symbol classes it hits: a market-wide shock hits
// everything, a currency crisis hits pair-delimited forex symbols, a tech
// bubble hits the large-cap crypto names.
var stressScenarios = []stressScenario{
	{"Market Crash", -0.20, 0.05, func(symbols []string) []string { return symbols }},
	{"Currency Crisis", -0.15, 0.08, matchSymbols(func(s string) bool { return strings.Contains(s, "/") })},
	{"Political Event", -0.10, 0.12, noImpactRule},
	{"Natural Disaster", -0.12, 0.07, noImpactRule},
	{"Tech Bubble", -0.25, 0.10, matchSymbols(func(s string) bool {
		switch s {
		case "BTC", "ETH", "SOL":
			return true
		}
		return false
	})},
	{"Interest Rate Hike", -0.08, 0.15, noImpactRule},
}

func matchSymbols(pred func(string) bool) func([]string) []string {
	return func(symbols []string) []string {
		var matched []string
		for _, s := range symbols {
			if pred(s) {
				matched = append(matched, s)
			}
		}
		return matched
	}
}

func noImpactRule(_ []string) []string { return nil }

func (a *Analyzer) stressTestsLocked(pv decimal.Decimal) []StressResult {
	symbols := a.sortedSymbolsLocked()

	results := make([]StressResult, 0, len(stressScenarios))
	for _, scenario := range stressScenarios {
		results = append(results, StressResult{
			Scenario:       scenario.name,
			PotentialLoss:  pv.Mul(decimal.NewFromFloat(scenario.shock)),
			Probability:    decimal.NewFromFloat(scenario.probability),
			ImpactedAssets: scenario.impacted(symbols),
		})
	}
	return results
}
