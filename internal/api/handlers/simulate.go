package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tkmc-personal/hybridsizer/internal/analysis"
	"github.com/tkmc-personal/hybridsizer/internal/api/models"
	"github.com/tkmc-personal/hybridsizer/internal/search"
	"github.com/tkmc-personal/hybridsizer/internal/sim"
)

// SimulateHandler handles single-design simulation requests
type SimulateHandler struct{}

// NewSimulateHandler creates a new simulation handler
func NewSimulateHandler() *SimulateHandler {
	return &SimulateHandler{}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	eval, err := buildEvaluator(req.Plant, req.Resources, defaultMaxShortage)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_PLANT",
				Message: err.Error(),
			},
		})
		return
	}

	design := search.Candidate{
		Cells:    req.Design.Cells,
		Turbines: req.Design.Turbines,
		Modules:  req.Design.Modules,
	}
	windP, err := eval.WindSeries(design.Turbines)
	if err != nil {
		simulationError(c, err)
		return
	}
	solarP, err := eval.SolarSeries(design.Modules)
	if err != nil {
		simulationError(c, err)
		return
	}
	storageP, soc, err := eval.StorageSeries(design.Cells, solarP, windP)
	if err != nil {
		simulationError(c, err)
		return
	}
	shortage, err := sim.CapacityShortage(eval.Load(), windP, solarP, storageP)
	if err != nil {
		simulationError(c, err)
		return
	}
	ledger, err := sim.BuildLedger(eval.Load(), windP, solarP, storageP, soc)
	if err != nil {
		simulationError(c, err)
		return
	}

	resp := models.SimulateResponse{
		ID:       uuid.NewString(),
		Status:   "completed",
		Summary:  toSummary(analysis.Summarize(ledger)),
		Shortage: shortage,
		NPC:      eval.NPC(design),
	}
	if req.Options.IncludeCashFlows {
		cells, turbines, modules := eval.CashFlows(design)
		resp.CashFlows = &models.CashFlows{
			Cells:    toCashFlowRows(cells),
			Turbines: toCashFlowRows(turbines),
			Modules:  toCashFlowRows(modules),
		}
	}
	if req.Options.IncludeLedger {
		resp.Ledger = toLedger(ledger)
	}
	c.JSON(http.StatusOK, resp)
}

func simulationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "SIMULATION_ERROR",
			Message: err.Error(),
		},
	})
}
