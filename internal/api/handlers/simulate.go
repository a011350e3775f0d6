package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolio-sim/internal/analysis"
	"portfolio-sim/internal/api/models"
	"portfolio-sim/internal/config"
	"portfolio-sim/internal/data"
	"portfolio-sim/internal/simulation"
)

// SimulationHandler runs the orchestrator and serves stored run results.
type SimulationHandler struct {
	cfg  *config.Config
	orch *simulation.Orchestrator
	runs *data.Cache // uuid -> *models.SimulateResponse
}

func NewSimulationHandler(cfg *config.Config, orch *simulation.Orchestrator, runs *data.Cache) *SimulationHandler {
	return &SimulationHandler{cfg: cfg, orch: orch, runs: runs}
}

// RunSimulations handles GET /api/v1/simulate
func (h *SimulationHandler) RunSimulations(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	params, err := h.buildParams(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_PARAMS",
				Message: err.Error(),
			},
		})
		return
	}

	selected := simulation.SplitTickers(req.Simulations) // same comma-list shape
	results := h.orch.RunSelected(selected, params)

	resp := &models.SimulateResponse{
		ID:       uuid.New().String(),
		Status:   "completed",
		Params:   params,
		Results:  results,
		Rankings: analysis.Rank(results),
	}
	h.runs.Set(resp.ID, resp)

	c.JSON(http.StatusOK, resp)
}

// GetRun handles GET /api/v1/simulate/:id
func (h *SimulationHandler) GetRun(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_RUN_ID",
				Message: fmt.Sprintf("%q is not a valid run id", id),
			},
		})
		return
	}

	cached, ok := h.runs.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RUN_NOT_FOUND",
				Message: "Run not found or expired. Re-run the simulation.",
			},
		})
		return
	}
	c.JSON(http.StatusOK, cached)
}

// ListSimulations handles GET /api/v1/simulations
func (h *SimulationHandler) ListSimulations(c *gin.Context) {
	descriptions := map[string]string{
		"dca_simulation":     "Dollar-cost averaging into each ticker: monthly cash deposits, whole shares bought whenever cash covers the day's close.",
		"bond_simulation":    "Rolling ladder of 3-month bonds bought in $100 increments at the prevailing Treasury rate, reinvested at maturity.",
		"hybrid_simulation":  "Bond ladder plus a synthetic out-of-the-money call overlay funded by bond interest.",
		"savings_simulation": "Plain monthly deposits with no return. Baseline for comparison.",
	}

	infos := make([]models.SimulationInfo, 0)
	for _, name := range h.orch.Names() {
		infos = append(infos, models.SimulationInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}
	c.JSON(http.StatusOK, gin.H{"simulations": infos})
}

// Rank handles GET /api/v1/rank: runs all strategies and returns only the
// comparison ranking.
func (h *SimulationHandler) Rank(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	params, err := h.buildParams(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_PARAMS",
				Message: err.Error(),
			},
		})
		return
	}

	results := h.orch.RunAll(params)
	c.JSON(http.StatusOK, models.RankResponse{
		ID:       uuid.New().String(),
		Rankings: analysis.Rank(results),
	})
}

// buildParams fills omitted amounts/tickers from the configured defaults and
// delegates the strict parsing to the simulation package.
func (h *SimulationHandler) buildParams(req models.SimulateRequest) (simulation.Params, error) {
	raw := map[string]string{
		"start_date":         req.StartDate,
		"end_date":           req.EndDate,
		"initial_investment": req.InitialInvestment,
		"monthly_investment": req.MonthlyInvestment,
		"tickers":            req.Tickers,
	}
	if raw["initial_investment"] == "" {
		raw["initial_investment"] = strconv.Itoa(h.cfg.Defaults.InitialInvestment)
	}
	if raw["monthly_investment"] == "" {
		raw["monthly_investment"] = strconv.Itoa(h.cfg.Defaults.MonthlyInvestment)
	}
	if raw["tickers"] == "" {
		raw["tickers"] = h.cfg.Defaults.Tickers
	}
	return simulation.ParseParams(raw)
}

// fetchErrorStatus maps upstream data errors onto HTTP statuses the way the
// codes demand: auth problems surface as 401, throttling as 429, everything
// else as a 400-class data problem.
func fetchErrorStatus(err error) (int, *data.FetchError) {
	var fe *data.FetchError
	if !errors.As(err, &fe) {
		return http.StatusBadRequest, nil
	}
	switch fe.Code {
	case "INVALID_API_KEY", "MISSING_API_KEY":
		return http.StatusUnauthorized, fe
	case "RATE_LIMIT_EXCEEDED":
		return http.StatusTooManyRequests, fe
	default:
		return http.StatusBadRequest, fe
	}
}
