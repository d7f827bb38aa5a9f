package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"pocketledger/internal/models"
	"pocketledger/internal/storage"
)

// Savings-rate tiers, in percent.
var (
	savingsExcellent = decimal.NewFromInt(20)
	savingsGood      = decimal.NewFromInt(10)
)

// insightData is everything the insight rules look at, read once per call.
type insightData struct {
	month       models.Period
	current     storage.FlowTotals
	previous    storage.FlowTotals
	categories  map[string]int64
	evaluations []BudgetEvaluation
	goals       []models.Goal
}

// insightRule turns the data into zero or more insights.
type insightRule func(d *insightData) []Insight

// insightRules run in this order; the output order follows it.
var insightRules = []insightRule{
	overspendingRule,
	budgetRule,
	savingsRateRule,
	topExpenseRule,
	expenseTrendRule,
	goalProgressRule,
}

// GenerateInsights evaluates every rule against the current month. The
// output is identical for identical data.
func (s *reportService) GenerateInsights() ([]Insight, error) {
	d, err := s.loadInsightData()
	if err != nil {
		return nil, err
	}

	out := []Insight{}
	for _, rule := range insightRules {
		out = append(out, rule(d)...)
	}
	return out, nil
}

func (s *reportService) loadInsightData() (*insightData, error) {
	month := s.currentPeriod()
	prev := month.Add(-1)

	current, err := s.store.SumFlows(storage.TransactionFilter{From: month.Start(), To: month.End()})
	if err != nil {
		return nil, err
	}
	previous, err := s.store.SumFlows(storage.TransactionFilter{From: prev.Start(), To: prev.End()})
	if err != nil {
		return nil, err
	}
	categories, err := s.ledger.TotalsByCategory(month.Range())
	if err != nil {
		return nil, err
	}
	evaluations, err := s.budgets.EvaluatePeriod(month.Year, month.Month)
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.ListGoals()
	if err != nil {
		return nil, err
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })

	return &insightData{
		month:       month,
		current:     current,
		previous:    previous,
		categories:  categories,
		evaluations: evaluations,
		goals:       goals,
	}, nil
}

func overspendingRule(d *insightData) []Insight {
	if d.current.Expenses <= d.current.Income {
		return nil
	}
	return []Insight{{
		Kind: InsightWarning,
		Rule: "overspending",
		Message: fmt.Sprintf("expenses of %s exceed income of %s in %s",
			models.FormatAmount(d.current.Expenses), models.FormatAmount(d.current.Income), d.month),
	}}
}

func budgetRule(d *insightData) []Insight {
	evals := make([]BudgetEvaluation, len(d.evaluations))
	copy(evals, d.evaluations)
	sort.SliceStable(evals, func(i, j int) bool { return evals[i].Budget.Category < evals[j].Budget.Category })

	var exceeded, warned []Insight
	for _, e := range evals {
		switch e.Status {
		case BudgetStatusExceeded:
			exceeded = append(exceeded, Insight{
				Kind: InsightWarning,
				Rule: "budget_exceeded",
				Message: fmt.Sprintf("category %s exceeded its budget: spent %s of %s",
					e.Budget.Category, models.FormatAmount(e.Spent), models.FormatAmount(e.Budget.Limit)),
			})
		case BudgetStatusWarning:
			warned = append(warned, Insight{
				Kind: InsightWarning,
				Rule: "budget_warning",
				Message: fmt.Sprintf("category %s has used %d%% of its budget",
					e.Budget.Category, percentFloor(e.Spent, e.Budget.Limit)),
			})
		}
	}
	return append(exceeded, warned...)
}

func savingsRateRule(d *insightData) []Insight {
	if d.current.Income <= 0 {
		return nil
	}
	rate := savingsRate(d.current)
	label := rate.StringFixed(1)

	switch {
	case rate.GreaterThanOrEqual(savingsExcellent):
		return []Insight{{Kind: InsightMilestone, Rule: "savings_rate",
			Message: fmt.Sprintf("excellent: you saved %s%% of your income this month", label)}}
	case rate.GreaterThanOrEqual(savingsGood):
		return []Insight{{Kind: InsightMilestone, Rule: "savings_rate",
			Message: fmt.Sprintf("good work: you saved %s%% of your income this month", label)}}
	}
	return []Insight{{Kind: InsightTip, Rule: "savings_rate",
		Message: fmt.Sprintf("try to raise your savings rate (currently %s%%)", label)}}
}

func topExpenseRule(d *insightData) []Insight {
	var top string
	var amount int64
	for name, sum := range d.categories {
		spent := -sum
		if spent <= 0 {
			continue
		}
		if spent > amount || (spent == amount && name < top) {
			top, amount = name, spent
		}
	}
	if top == "" {
		return nil
	}
	return []Insight{{
		Kind: InsightTip,
		Rule: "top_expense_category",
		Message: fmt.Sprintf("your largest expense category this month is %s at %s (%d%% of expenses)",
			top, models.FormatAmount(amount), percentFloor(amount, d.current.Expenses)),
	}}
}

func expenseTrendRule(d *insightData) []Insight {
	prev, cur := d.previous.Expenses, d.current.Expenses
	if prev <= 0 || cur == prev {
		return nil
	}
	if cur > prev {
		return []Insight{{Kind: InsightWarning, Rule: "expense_trend",
			Message: fmt.Sprintf("expenses rose %d%% vs prior month", percentFloor(cur-prev, prev))}}
	}
	return []Insight{{Kind: InsightTip, Rule: "expense_trend",
		Message: fmt.Sprintf("expenses fell %d%% vs prior month", percentFloor(prev-cur, prev))}}
}

func goalProgressRule(d *insightData) []Insight {
	out := make([]Insight, 0, len(d.goals))
	for _, g := range d.goals {
		out = append(out, Insight{
			Kind:    InsightMilestone,
			Rule:    "goal_progress",
			Message: fmt.Sprintf("goal %s is %d%% complete", g.Name, percentFloor(g.Current, g.Target)),
		})
	}
	return out
}
