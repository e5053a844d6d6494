package ai

import (
	"fmt"
	"time"

	"habitly/internal/core"
	"habitly/internal/habits"
)

const (
	maxSuggestions = 5

	// habitLikelihoodDays scales distinct spending days into a 0..1 habit
	// likelihood before the weekend and trend bonuses.
	habitLikelihoodDays = 10.0
	weekendBonus        = 0.1
	trendBonus          = 0.2

	// trendUpFactor: the last purchase must exceed the first by 25% to count
	// as an upward trend.
	trendUpFactor = 1.25

	// weekendShareLimit: weekend spend above half the category total counts
	// as a weekend spike.
	weekendShareLimit = 0.5

	savingsRate        = 0.3
	cookingSavingsRate = 0.5
)

// LocalAnalyzer is the heuristic analysis used when no remote analyzer is
// configured or reachable. It is deterministic for a fixed expense list and
// reference time.
type LocalAnalyzer struct{}

// Analyze inspects the current month's expenses per category and reports
// insights, suggestions, and headline metrics.
func (LocalAnalyzer) Analyze(expenses []core.Expense, now time.Time) AnalysisResult {
	year, month, _ := now.Date()

	var thisMonth []core.Expense
	for _, e := range expenses {
		if ey, em, _ := e.Date.Date(); ey == year && em == month {
			thisMonth = append(thisMonth, e)
		}
	}

	var impulseSpending float64
	for _, e := range thisMonth {
		if habits.NonEssential(e.Category) && e.Amount > habits.ImpulseAmountThreshold {
			impulseSpending += e.Amount
		}
	}

	// Group by category in first-seen order so output is stable.
	byCategory := make(map[core.Category][]core.Expense)
	var order []core.Category
	for _, e := range thisMonth {
		if _, ok := byCategory[e.Category]; !ok {
			order = append(order, e.Category)
		}
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}

	var result AnalysisResult
	for _, cat := range order {
		list := byCategory[cat]

		days := make(map[string]bool, len(list))
		var total, weekend float64
		for _, e := range list {
			days[core.DayKey(e.Date)] = true
			total += e.Amount
			if wd := e.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				weekend += e.Amount
			}
		}
		distinctDays := len(days)
		avg := total / float64(max(1, distinctDays))
		weekendSpike := weekend > total*weekendShareLimit
		trendUp := len(list) >= 3 && list[len(list)-1].Amount > list[0].Amount*trendUpFactor

		intent := IntentPlanned
		if habits.NonEssential(cat) {
			for _, e := range list {
				if e.Amount > habits.ImpulseAmountThreshold {
					intent = IntentImpulse
					break
				}
			}
		}

		likelihood := float64(distinctDays) / habitLikelihoodDays
		if weekendSpike {
			likelihood += weekendBonus
		}
		if trendUp {
			likelihood += trendBonus
		}
		if likelihood > 1 {
			likelihood = 1
		}

		risk := RiskLow
		switch {
		case trendUp:
			risk = RiskHigh
		case intent == IntentImpulse || weekendSpike:
			risk = RiskMedium
		}

		insight := ExpenseInsight{
			Category:        string(cat),
			Intent:          intent,
			Risk:            risk,
			HabitLikelihood: likelihood,
		}
		if cat == core.CategoryFood {
			insight.SubType = "Online Delivery"
		}
		switch {
		case weekendSpike:
			insight.Reasoning = "Weekend spikes detected"
		case trendUp:
			insight.Reasoning = "Gradual amount increase detected"
		case distinctDays >= 4:
			insight.Reasoning = "Repeated across multiple days"
		default:
			insight.Reasoning = "Typical spending pattern"
		}
		result.Insights = append(result.Insights, insight)

		if risk != RiskLow {
			result.Metrics.BadHabitCount++
			result.Metrics.PotentialSavings += core.RoundUnits(avg * 2 * savingsRate)

			if cat == core.CategoryFood {
				result.Suggestions = append(result.Suggestions, fmt.Sprintf(
					"You've ordered food often this month. Cooking twice this week could save ₹%d.",
					core.RoundUnits(avg*2*cookingSavingsRate)))
			} else {
				result.Suggestions = append(result.Suggestions, fmt.Sprintf("Consider setting a weekly cap for %s.", cat))
			}
			result.ShortExplanations = append(result.ShortExplanations, fmt.Sprintf(
				"Detected patterns in %s spending that may be costly. Consider small habit shifts.", cat))
		}
	}

	result.Metrics.ImpulseSpending = impulseSpending
	if len(result.Suggestions) > maxSuggestions {
		result.Suggestions = result.Suggestions[:maxSuggestions]
	}
	if len(result.ShortExplanations) > maxSuggestions {
		result.ShortExplanations = result.ShortExplanations[:maxSuggestions]
	}
	return result
}

// FallbackReply builds a canned chat response from the first local suggestion.
func (a LocalAnalyzer) FallbackReply(expenses []core.Expense, now time.Time) string {
	analysis := a.Analyze(expenses, now)
	hint := "Track one category closely this week to build awareness."
	if len(analysis.Suggestions) > 0 {
		hint = analysis.Suggestions[0]
	}
	return "Here's a thought: " + hint
}
