package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pocketledger/internal/services"
)

// ReportHandler serves the read-only reports and insights.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Breakdown handles GET /reports/breakdown?from=&to=.
// @Summary     Expense breakdown by category
// @Description Shares are basis points summing to 10000
// @Tags        reports
// @Produce     json
// @Param       from query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param       to query string false "End date (YYYY-MM-DD, inclusive)"
// @Success     200 {object} map[string][]services.CategoryShare
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /reports/breakdown [get]
func (h *ReportHandler) Breakdown(c *gin.Context) {
	r, err := queryRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	shares, err := h.reportService.CategoryBreakdown(r)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": shares})
}

// Trend handles GET /reports/trend?months=6.
// @Summary     Monthly income and expense trend
// @Tags        reports
// @Produce     json
// @Param       months query int false "Number of months (default 6)"
// @Success     200 {object} map[string][]services.MonthTotals
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /reports/trend [get]
func (h *ReportHandler) Trend(c *gin.Context) {
	months, err := queryInt(c, "months", 6)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trend, err := h.reportService.MonthlyTrend(months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

// Monthly handles GET /reports/monthly?year=&month=.
// @Summary     Monthly report
// @Tags        reports
// @Produce     json
// @Param       year query int true "Year"
// @Param       month query int true "Month (1-12)"
// @Success     200 {object} map[string]services.MonthlyReport
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	year, err := queryInt(c, "year", 0)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, err := queryInt(c, "month", 0)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.MonthlyReport(year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// Insights handles GET /reports/insights.
// @Summary     Generate insights
// @Tags        reports
// @Produce     json
// @Success     200 {object} map[string][]services.Insight
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /reports/insights [get]
func (h *ReportHandler) Insights(c *gin.Context) {
	insights, err := h.reportService.GenerateInsights()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}
