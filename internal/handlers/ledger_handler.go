package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pocketledger/internal/models"
	"pocketledger/internal/services"
)

// LedgerHandler serves the balance views computed from transactions.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
	now           func() time.Time
}

// NewLedgerHandler creates a new LedgerHandler. now supplies "today" when a
// request omits a date; nil means time.Now.
func NewLedgerHandler(ledgerService services.LedgerServicer, now func() time.Time) *LedgerHandler {
	if now == nil {
		now = time.Now
	}
	return &LedgerHandler{ledgerService: ledgerService, now: now}
}

func (h *LedgerHandler) dateOrToday(c *gin.Context, key string) (models.Date, error) {
	d, err := queryDate(c, key)
	if err != nil || !d.IsZero() {
		return d, err
	}
	return models.DateOf(h.now()), nil
}

// NetWorth handles GET /ledger/net-worth?as_of=YYYY-MM-DD.
// @Summary     Get net worth
// @Description Sum of every signed amount up to and including as_of
// @Tags        ledger
// @Produce     json
// @Param       as_of query string false "Date (YYYY-MM-DD, default today)"
// @Success     200 {object} map[string]any
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /ledger/net-worth [get]
func (h *LedgerHandler) NetWorth(c *gin.Context) {
	asOf, err := h.dateOrToday(c, "as_of")
	if err != nil {
		respondWithError(c, err)
		return
	}

	worth, err := h.ledgerService.NetWorth(asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"as_of":          asOf,
		"net_worth":      worth,
		"amount_decimal": models.FormatAmount(worth),
	})
}

// Totals handles GET /ledger/totals?from=&to=, the signed sum per category.
// @Summary     Get totals by category
// @Tags        ledger
// @Produce     json
// @Param       from query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param       to query string false "End date (YYYY-MM-DD, inclusive)"
// @Success     200 {object} map[string]map[string]int64
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /ledger/totals [get]
func (h *LedgerHandler) Totals(c *gin.Context) {
	r, err := queryRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.ledgerService.TotalsByCategory(r)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

// Summary handles GET /ledger/summary?today=YYYY-MM-DD.
// @Summary     Get the balance summary
// @Tags        ledger
// @Produce     json
// @Param       today query string false "Date (YYYY-MM-DD, default today)"
// @Success     200 {object} map[string]services.BalanceSummary
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /ledger/summary [get]
func (h *LedgerHandler) Summary(c *gin.Context) {
	today, err := h.dateOrToday(c, "today")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.ledgerService.BalanceSummary(today)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
