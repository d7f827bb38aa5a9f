package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/middleware"
	"pocketledger/internal/models"
	"pocketledger/internal/storage"
)

// parsePathID parses a uint path parameter.
// Returns a validation error if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Invalid(param, c.Param(param), "Invalid "+param)
	}
	return uint(id), nil
}

// bindJSON binds the request body, turning binding failures into validation errors.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperrors.WithMessage(apperrors.ErrValidation, err.Error())
	}
	return nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, key string) (models.Date, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, apperrors.Invalid(key, raw, err.Error())
	}
	return d, nil
}

// queryInt parses an optional integer query parameter, returning def when absent.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Invalid(key, raw, key+" must be an integer")
	}
	return n, nil
}

// queryAmount parses an optional decimal amount like -12.50 into cents.
func queryAmount(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	cents, err := models.ParseAmount(raw)
	if err != nil {
		return nil, apperrors.Invalid(key, raw, err.Error())
	}
	return &cents, nil
}

// queryRange reads the from/to query parameters.
func queryRange(c *gin.Context) (models.DateRange, error) {
	from, err := queryDate(c, "from")
	if err != nil {
		return models.DateRange{}, err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return models.DateRange{}, err
	}
	return models.DateRange{From: from, To: to}, nil
}

// parseTransactionFilter reads the transaction filter query parameters:
// from, to, category, kind, tag, method, min_amount, max_amount.
func parseTransactionFilter(c *gin.Context) (storage.TransactionFilter, error) {
	r, err := queryRange(c)
	if err != nil {
		return storage.TransactionFilter{}, err
	}
	minAmount, err := queryAmount(c, "min_amount")
	if err != nil {
		return storage.TransactionFilter{}, err
	}
	maxAmount, err := queryAmount(c, "max_amount")
	if err != nil {
		return storage.TransactionFilter{}, err
	}
	return storage.TransactionFilter{
		From:      r.From,
		To:        r.To,
		Category:  strings.TrimSpace(c.Query("category")),
		Kind:      models.CategoryKind(c.Query("kind")),
		Tag:       strings.TrimSpace(c.Query("tag")),
		Method:    models.PaymentMethod(c.Query("method")),
		MinAmount: minAmount,
		MaxAmount: maxAmount,
	}, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, field and message.
// Otherwise it logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	status, body := middleware.Render(c, err)
	c.JSON(status, gin.H{"error": body})
}
