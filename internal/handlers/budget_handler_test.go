package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
	"pocketledger/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn   func(input services.BudgetInput) (*models.Budget, error)
	getBudgetFn      func(id uint) (*models.Budget, error)
	listBudgetsFn    func(year, month int) ([]models.Budget, error)
	updateBudgetFn   func(id uint, changes services.BudgetChanges) (*models.Budget, error)
	deleteBudgetFn   func(id uint) error
	evaluateFn       func(id uint) (*services.BudgetEvaluation, error)
	evaluatePeriodFn func(year, month int) ([]services.BudgetEvaluation, error)
}

func (m *mockBudgetService) CreateBudget(input services.BudgetInput) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(input)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudget(id uint) (*models.Budget, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(id)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) ListBudgets(year, month int) ([]models.Budget, error) {
	if m.listBudgetsFn != nil {
		return m.listBudgetsFn(year, month)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(id uint, changes services.BudgetChanges) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(id, changes)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(id uint) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(id)
	}
	return nil
}

func (m *mockBudgetService) Evaluate(id uint) (*services.BudgetEvaluation, error) {
	if m.evaluateFn != nil {
		return m.evaluateFn(id)
	}
	return &services.BudgetEvaluation{}, nil
}

func (m *mockBudgetService) EvaluatePeriod(year, month int) ([]services.BudgetEvaluation, error) {
	if m.evaluatePeriodFn != nil {
		return m.evaluatePeriodFn(year, month)
	}
	return []services.BudgetEvaluation{}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	r.POST("/budgets", handler.CreateBudget)
	r.GET("/budgets", handler.ListBudgets)
	r.GET("/budgets/evaluations", handler.EvaluatePeriod)
	r.GET("/budgets/:id", handler.GetBudget)
	r.PUT("/budgets/:id", handler.UpdateBudget)
	r.DELETE("/budgets/:id", handler.DeleteBudget)
	r.GET("/budgets/:id/evaluation", handler.EvaluateBudget)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.BudgetInput
		budgetSvc := &mockBudgetService{
			createBudgetFn: func(input services.BudgetInput) (*models.Budget, error) {
				got = input
				return &models.Budget{
					Base:             models.Base{ID: 1},
					Category:         input.Category,
					Year:             input.Year,
					Month:            input.Month,
					Limit:            input.Limit,
					WarningThreshold: models.DefaultWarningThreshold,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupBudgetRouter(NewBudgetHandler(budgetSvc, audit))

		rec := doRequest(r, "POST", "/budgets", `{"category":"Food","year":2024,"month":6,"limit":40000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.WarningThreshold != 0 {
			t.Errorf("missing threshold should reach the service as 0, got %v", got.WarningThreshold)
		}
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		if budget["limit"] != float64(40000) || budget["warning_threshold"] != 0.8 {
			t.Errorf("unexpected budget %v", budget)
		}
		if len(audit.calls) != 1 || audit.calls[0].changes["period"] != "2024-06" {
			t.Errorf("unexpected audit calls %+v", audit.calls)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing category", `{"year":2024,"month":6,"limit":100}`},
		{"month out of range", `{"category":"Food","year":2024,"month":13,"limit":100}`},
		{"zero limit", `{"category":"Food","year":2024,"month":6,"limit":0}`},
		{"threshold above one", `{"category":"Food","year":2024,"month":6,"limit":100,"warning_threshold":1.5}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/budgets", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
		})
	}

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			createBudgetFn: func(services.BudgetInput) (*models.Budget, error) {
				return nil, apperrors.ErrDuplicateBudget
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(budgetSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/budgets", `{"category":"Food","year":2024,"month":6,"limit":100}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_BUDGET")
	})
}

func TestBudgetHandler_ListBudgets(t *testing.T) {
	t.Run("passes period filter", func(t *testing.T) {
		var gotYear, gotMonth int
		budgetSvc := &mockBudgetService{
			listBudgetsFn: func(year, month int) ([]models.Budget, error) {
				gotYear, gotMonth = year, month
				return []models.Budget{{Category: "Food"}}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(budgetSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budgets?year=2024&month=6", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotYear != 2024 || gotMonth != 6 {
			t.Errorf("expected 2024-06, got %d-%d", gotYear, gotMonth)
		}
	})

	t.Run("returns 400 on non-numeric month", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budgets?month=june", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorField(t, parseJSON(t, rec), "month")
	})
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	var got services.BudgetChanges
	budgetSvc := &mockBudgetService{
		updateBudgetFn: func(id uint, changes services.BudgetChanges) (*models.Budget, error) {
			got = changes
			return &models.Budget{Base: models.Base{ID: id}, Limit: 100, WarningThreshold: *changes.WarningThreshold}, nil
		},
	}
	r := setupBudgetRouter(NewBudgetHandler(budgetSvc, &mockAuditService{}))

	rec := doRequest(r, "PUT", "/budgets/2", `{"warning_threshold":0.5}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Limit != nil || got.WarningThreshold == nil || *got.WarningThreshold != 0.5 {
		t.Errorf("unexpected changes %+v", got)
	}
}

func TestBudgetHandler_DeleteBudget(t *testing.T) {
	budgetSvc := &mockBudgetService{
		deleteBudgetFn: func(uint) error { return apperrors.ErrBudgetNotFound },
	}
	r := setupBudgetRouter(NewBudgetHandler(budgetSvc, &mockAuditService{}))

	rec := doRequest(r, "DELETE", "/budgets/9", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
}

func TestBudgetHandler_Evaluations(t *testing.T) {
	budgetSvc := &mockBudgetService{
		evaluateFn: func(id uint) (*services.BudgetEvaluation, error) {
			return &services.BudgetEvaluation{
				Budget: models.Budget{Base: models.Base{ID: id}, Limit: 10000},
				Spent:  8500, Remaining: 1500, Ratio: 0.85, Status: services.BudgetStatusWarning,
			}, nil
		},
		evaluatePeriodFn: func(year, month int) ([]services.BudgetEvaluation, error) {
			if month != 6 {
				return nil, apperrors.Invalid("month", month, "period must be a valid year and month 1-12")
			}
			return []services.BudgetEvaluation{{Status: services.BudgetStatusOK}}, nil
		},
	}
	r := setupBudgetRouter(NewBudgetHandler(budgetSvc, &mockAuditService{}))

	t.Run("single budget", func(t *testing.T) {
		rec := doRequest(r, "GET", "/budgets/4/evaluation", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		eval := parseJSON(t, rec)["evaluation"].(map[string]interface{})
		if eval["status"] != "warning" || eval["spent"] != float64(8500) {
			t.Errorf("unexpected evaluation %v", eval)
		}
	})

	t.Run("whole period", func(t *testing.T) {
		rec := doRequest(r, "GET", "/budgets/evaluations?year=2024&month=6", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if evals := parseJSON(t, rec)["evaluations"].([]interface{}); len(evals) != 1 {
			t.Errorf("expected 1 evaluation, got %d", len(evals))
		}
	})

	t.Run("invalid period", func(t *testing.T) {
		rec := doRequest(r, "GET", "/budgets/evaluations?year=2024", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
