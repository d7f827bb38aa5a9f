package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/services"
)

// MaxUploadBytes bounds an import upload.
const MaxUploadBytes = 10 << 20

// TransferHandler handles CSV and JSON import and export.
type TransferHandler struct {
	transferService services.TransferServicer
	auditService    services.AuditServicer
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferService services.TransferServicer, auditService services.AuditServicer) *TransferHandler {
	return &TransferHandler{transferService: transferService, auditService: auditService}
}

// upload returns the imported document: the multipart "file" field when the
// request is a form upload, the raw body otherwise.
func upload(c *gin.Context) (io.ReadCloser, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, apperrors.Invalid("file", nil, "a file upload named \"file\" is required")
		}
		f, err := header.Open()
		if err != nil {
			return nil, apperrors.Invalid("file", header.Filename, "uploaded file could not be read")
		}
		return f, nil
	}
	return c.Request.Body, nil
}

func attachment(c *gin.Context, contentType, ext string) {
	name := fmt.Sprintf("pocketledger-%s.%s", time.Now().UTC().Format("20060102"), ext)
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

func clearAttachment(c *gin.Context) {
	c.Header("Content-Type", "")
	c.Header("Content-Disposition", "")
}

// ExportCSV handles GET /transfer/export.csv, accepting the transaction filters.
// @Summary     Export transactions as CSV
// @Tags        transfer
// @Produce     text/csv
// @Param       from query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param       to query string false "End date (YYYY-MM-DD, inclusive)"
// @Param       category query string false "Filter by category name"
// @Param       kind query string false "Filter by category kind (income, expense)"
// @Param       tag query string false "Filter by tag"
// @Param       method query string false "Filter by payment method"
// @Param       min_amount query string false "Minimum signed amount (decimal)"
// @Param       max_amount query string false "Maximum signed amount (decimal)"
// @Success     200 {string} string "CSV file"
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /transfer/export.csv [get]
func (h *TransferHandler) ExportCSV(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	attachment(c, "text/csv; charset=utf-8", "csv")
	if _, err := h.transferService.ExportCSV(c.Writer, filter); err != nil {
		if c.Writer.Written() {
			// Headers are gone; all that is left is to cut the stream short.
			_ = c.Error(err)
			return
		}
		clearAttachment(c)
		respondWithError(c, err)
	}
}

// ImportCSV handles POST /transfer/import.csv. Valid rows are recorded even
// when others are rejected; the response lists every rejected row.
// @Summary     Import transactions from CSV
// @Description Each row is validated on its own; rejected rows are reported
// @Tags        transfer
// @Accept      multipart/form-data,text/csv
// @Produce     json
// @Param       file formData file false "CSV file (or send the raw body)"
// @Success     200 {object} map[string]services.ImportSummary
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /transfer/import.csv [post]
func (h *TransferHandler) ImportCSV(c *gin.Context) {
	body, err := upload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer body.Close()

	summary, err := h.transferService.ImportCSV(body)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("IMPORT_CSV", "transaction", "",
		map[string]any{"imported": summary.Imported, "rejected": len(summary.Rejected)})

	c.JSON(http.StatusOK, gin.H{"import": summary})
}

// ExportJSON handles GET /transfer/export.json.
// @Summary     Export a JSON backup
// @Tags        transfer
// @Produce     json
// @Success     200 {object} services.Backup
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /transfer/export.json [get]
func (h *TransferHandler) ExportJSON(c *gin.Context) {
	attachment(c, "application/json; charset=utf-8", "json")
	if err := h.transferService.ExportJSON(c.Writer); err != nil {
		if c.Writer.Written() {
			_ = c.Error(err)
			return
		}
		clearAttachment(c)
		respondWithError(c, err)
	}
}

// ImportJSON handles POST /transfer/import.json. The backup replaces the whole
// ledger, or nothing at all when any part of it is invalid.
// @Summary     Restore a JSON backup
// @Description Replaces the whole ledger, or nothing when the document is invalid
// @Tags        transfer
// @Accept      multipart/form-data,application/json
// @Produce     json
// @Param       file formData file false "Backup file (or send the raw body)"
// @Success     200 {object} map[string]services.RestoreSummary
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     422 {object} middleware.ErrorBody "Unknown category"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /transfer/import.json [post]
func (h *TransferHandler) ImportJSON(c *gin.Context) {
	body, err := upload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer body.Close()

	summary, err := h.transferService.ImportJSON(body)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("RESTORE_BACKUP", "ledger", "",
		map[string]any{
			"categories":   summary.Categories,
			"transactions": summary.Transactions,
			"budgets":      summary.Budgets,
			"goals":        summary.Goals,
		})

	c.JSON(http.StatusOK, gin.H{"restore": summary})
}
