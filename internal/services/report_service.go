package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
	"pocketledger/internal/storage"
)

// MaxTrendMonths bounds MonthlyTrend.
const MaxTrendMonths = 120

const fullShare = 10000

var (
	hundred    = decimal.NewFromInt(100)
	basisTotal = decimal.NewFromInt(fullShare)
)

// reportService derives read-only aggregates. It never writes.
type reportService struct {
	store   *storage.Store
	ledger  LedgerServicer
	budgets BudgetServicer
	goals   GoalServicer
	now     func() time.Time
}

// NewReportService creates a new ReportServicer. now supplies the current
// time; nil means time.Now.
func NewReportService(store *storage.Store, ledger LedgerServicer, budgets BudgetServicer, goals GoalServicer, now func() time.Time) ReportServicer {
	if now == nil {
		now = time.Now
	}
	return &reportService{store: store, ledger: ledger, budgets: budgets, goals: goals, now: now}
}

func (s *reportService) currentPeriod() models.Period {
	return models.PeriodOf(models.DateOf(s.now()))
}

// CategoryBreakdown splits total expense within r by category. Shares use
// the largest-remainder method on basis points so they add up to exactly
// 100%. The result is ordered by amount, largest first, then by name.
func (s *reportService) CategoryBreakdown(r models.DateRange) ([]CategoryShare, error) {
	totals, err := s.ledger.TotalsByCategory(r)
	if err != nil {
		return nil, err
	}

	shares := make([]CategoryShare, 0, len(totals))
	var total int64
	for name, sum := range totals {
		if sum >= 0 {
			continue
		}
		shares = append(shares, CategoryShare{Category: name, Amount: -sum})
		total += -sum
	}
	if total == 0 {
		return []CategoryShare{}, nil
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount != shares[j].Amount {
			return shares[i].Amount > shares[j].Amount
		}
		return shares[i].Category < shares[j].Category
	})

	allocateBasisPoints(shares, total)
	for i := range shares {
		shares[i].Percent = decimal.New(shares[i].BasisPoints, -2).InexactFloat64()
		shares[i].AmountString = models.FormatAmount(shares[i].Amount)
	}
	return shares, nil
}

// allocateBasisPoints gives each share floor(amount*10000/total) basis
// points, then hands the points lost to rounding to the shares with the
// largest remainders. shares must already be in display order, which breaks
// remainder ties.
func allocateBasisPoints(shares []CategoryShare, total int64) {
	denom := decimal.NewFromInt(total)
	remainders := make([]decimal.Decimal, len(shares))
	var allocated int64
	for i := range shares {
		q, r := decimal.NewFromInt(shares[i].Amount).Mul(basisTotal).QuoRem(denom, 0)
		shares[i].BasisPoints = q.IntPart()
		remainders[i] = r
		allocated += shares[i].BasisPoints
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for k := 0; allocated < fullShare; k++ {
		shares[order[k%len(order)]].BasisPoints++
		allocated++
	}
}

// MonthlyTrend returns income and expense totals for the monthCount calendar
// months ending with the current one, oldest first. Months without
// transactions are present with zero totals.
func (s *reportService) MonthlyTrend(monthCount int) ([]MonthTotals, error) {
	if monthCount < 1 || monthCount > MaxTrendMonths {
		return nil, apperrors.Invalid("months", monthCount, "months must be between 1 and 120")
	}

	end := s.currentPeriod()
	start := end.Add(-(monthCount - 1))
	flows, err := s.store.MonthlyFlows(storage.TransactionFilter{From: start.Start(), To: end.End()})
	if err != nil {
		return nil, err
	}

	out := make([]MonthTotals, 0, monthCount)
	for p := start; len(out) < monthCount; p = p.Add(1) {
		f := flows[p.String()]
		out = append(out, MonthTotals{
			Month:    p,
			Label:    p.String(),
			Income:   f.Income,
			Expenses: f.Expenses,
			Net:      f.Net(),
		})
	}
	return out, nil
}

// MonthlyReport summarizes one month: totals, savings rate, per-category
// sums and a daily series of the days with activity.
func (s *reportService) MonthlyReport(year, month int) (*MonthlyReport, error) {
	period := models.Period{Year: year, Month: month}
	if !period.Valid() {
		return nil, apperrors.Invalid("month", period.String(), "period must be a valid year and month 1-12")
	}
	filter := storage.TransactionFilter{From: period.Start(), To: period.End()}

	flows, err := s.store.SumFlows(filter)
	if err != nil {
		return nil, err
	}
	categories, err := s.ledger.TotalsByCategory(period.Range())
	if err != nil {
		return nil, err
	}
	daily, err := s.store.DailyFlows(filter)
	if err != nil {
		return nil, err
	}

	days := make([]DayTotals, 0, len(daily))
	for key, f := range daily {
		d, err := models.ParseDate(key)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		days = append(days, DayTotals{Date: d, Income: f.Income, Expenses: f.Expenses})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	return &MonthlyReport{
		Month:       period,
		Income:      flows.Income,
		Expenses:    flows.Expenses,
		Savings:     flows.Net(),
		SavingsRate: savingsRate(flows).Round(2).InexactFloat64(),
		Categories:  categories,
		Daily:       days,
	}, nil
}

// savingsRate returns net/income as a percentage, or zero without income.
func savingsRate(f storage.FlowTotals) decimal.Decimal {
	if f.Income <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(f.Net()).Mul(hundred).Div(decimal.NewFromInt(f.Income))
}

// percentFloor returns floor(part*100/whole) without float rounding.
func percentFloor(part, whole int64) int64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole)).Floor().IntPart()
}
