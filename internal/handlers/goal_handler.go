package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pocketledger/internal/models"
	"pocketledger/internal/services"
)

// GoalHandler handles savings goal requests.
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a goal.
// Amounts are in cents.
type CreateGoalRequest struct {
	Name        string       `json:"name" binding:"required,max=100"`
	Description string       `json:"description" binding:"max=500"`
	Priority    int          `json:"priority" binding:"gte=0"`
	Target      int64        `json:"target" binding:"required,gt=0"`
	Current     int64        `json:"current" binding:"gte=0"`
	Deadline    *models.Date `json:"deadline"`
}

// ContributeRequest represents a contribution to a goal.
type ContributeRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// GoalResponse is a goal together with its progress in [0, 1].
type GoalResponse struct {
	models.Goal
	Progress float64 `json:"progress"`
}

func (h *GoalHandler) respond(goal *models.Goal) GoalResponse {
	return GoalResponse{Goal: *goal, Progress: h.goalService.Progress(goal)}
}

// CreateGoal handles POST /goals.
// @Summary     Create a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} map[string]GoalResponse "Goal created"
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(services.GoalInput{
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		Target:      req.Target,
		Current:     req.Current,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_GOAL", "goal", strconv.FormatUint(uint64(goal.ID), 10),
		map[string]any{"name": goal.Name, "target": goal.Target})

	c.JSON(http.StatusCreated, gin.H{"goal": h.respond(goal)})
}

// ListGoals handles GET /goals.
// @Summary     List goals
// @Description Ordered by priority, then deadline
// @Tags        goals
// @Produce     json
// @Success     200 {object} map[string][]GoalResponse
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	goals, err := h.goalService.ListGoals()
	if err != nil {
		respondWithError(c, err)
		return
	}

	out := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, h.respond(&goals[i]))
	}
	c.JSON(http.StatusOK, gin.H{"goals": out})
}

// GetGoal handles GET /goals/:id.
// @Summary     Get a goal
// @Tags        goals
// @Produce     json
// @Param       id path int true "Goal ID"
// @Success     200 {object} map[string]GoalResponse
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoal(goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": h.respond(goal)})
}

// DeleteGoal handles DELETE /goals/:id.
// @Summary     Delete a goal
// @Tags        goals
// @Produce     json
// @Param       id path int true "Goal ID"
// @Success     200 {object} map[string]string "Goal deleted"
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_GOAL", "goal", strconv.FormatUint(uint64(goalID), 10), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// Contribute handles POST /goals/:id/contributions. A completed goal answers
// 409 GOAL_COMPLETED.
// @Summary     Contribute to a goal
// @Description Adds to the current amount, clamped at the target
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       id path int true "Goal ID"
// @Param       request body ContributeRequest true "Contribution in cents"
// @Success     200 {object} map[string]GoalResponse
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     409 {object} middleware.ErrorBody "Conflict"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /goals/{id}/contributions [post]
func (h *GoalHandler) Contribute(c *gin.Context) {
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributeRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.Contribute(goalID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CONTRIBUTE_GOAL", "goal", strconv.FormatUint(uint64(goalID), 10),
		map[string]any{"amount": req.Amount, "current": goal.Current, "status": goal.Status})

	c.JSON(http.StatusOK, gin.H{"goal": h.respond(goal)})
}
