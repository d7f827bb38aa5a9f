package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
	"pocketledger/internal/pagination"
	"pocketledger/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for recording a
// transaction. Amount is in cents and signed: positive income, negative expense.
type CreateTransactionRequest struct {
	Date     models.Date          `json:"date"`
	Amount   int64                `json:"amount" binding:"required"`
	Category string               `json:"category" binding:"required"`
	Tags     []string             `json:"tags" binding:"omitempty,tag_list"`
	Method   models.PaymentMethod `json:"method" binding:"omitempty,payment_method"`
	Note     string               `json:"note" binding:"max=500"`
	Location string               `json:"location" binding:"max=100"`
}

// UpdateTransactionRequest represents the request payload for editing a
// transaction. Omitted fields are left unchanged.
type UpdateTransactionRequest struct {
	Date     *models.Date          `json:"date"`
	Amount   *int64                `json:"amount"`
	Category *string               `json:"category"`
	Tags     *[]string             `json:"tags"`
	Method   *models.PaymentMethod `json:"method" binding:"omitempty,payment_method"`
	Note     *string               `json:"note"`
	Location *string               `json:"location"`
}

// CreateTransaction handles POST /transactions.
// @Summary     Record a transaction
// @Description Amounts are signed cents: positive income, negative expense
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} map[string]models.Transaction "Transaction recorded"
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     422 {object} middleware.ErrorBody "Unknown category"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.ledgerService.RecordTransaction(services.TransactionInput{
		Date:     req.Date,
		Amount:   req.Amount,
		Category: req.Category,
		Tags:     req.Tags,
		Method:   req.Method,
		Note:     req.Note,
		Location: req.Location,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_TRANSACTION", "transaction", strconv.FormatUint(uint64(tx.ID), 10),
		map[string]any{"date": tx.Date.String(), "amount": tx.Amount, "category": tx.Category})

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// ListTransactions handles GET /transactions with filters and pagination.
// @Summary     List transactions
// @Description Newest first, with filters and pagination
// @Tags        transactions
// @Produce     json
// @Param       from query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param       to query string false "End date (YYYY-MM-DD, inclusive)"
// @Param       category query string false "Filter by category name"
// @Param       kind query string false "Filter by category kind (income, expense)"
// @Param       tag query string false "Filter by tag"
// @Param       method query string false "Filter by payment method"
// @Param       min_amount query string false "Minimum signed amount (decimal)"
// @Param       max_amount query string false "Maximum signed amount (decimal)"
// @Param       page query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 500)"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledgerService.ListTransactionsPage(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction handles GET /transactions/:id.
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]models.Transaction
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.ledgerService.GetTransaction(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// UpdateTransaction handles PUT /transactions/:id.
// @Summary     Edit a transaction
// @Description Omitted fields are left unchanged
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Transaction changes"
// @Success     200 {object} map[string]models.Transaction
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     422 {object} middleware.ErrorBody "Unknown category"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.ledgerService.EditTransaction(id, services.TransactionChanges{
		Date:     req.Date,
		Amount:   req.Amount,
		Category: req.Category,
		Tags:     req.Tags,
		Method:   req.Method,
		Note:     req.Note,
		Location: req.Location,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_TRANSACTION", "transaction", strconv.FormatUint(uint64(id), 10),
		map[string]any{"date": tx.Date.String(), "amount": tx.Amount, "category": tx.Category})

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction handles DELETE /transactions/:id.
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction deleted"
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteTransaction(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_TRANSACTION", "transaction", strconv.FormatUint(uint64(id), 10), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
