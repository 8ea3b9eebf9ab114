package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tkmc-personal/hybridsizer/internal/analysis"
	"github.com/tkmc-personal/hybridsizer/internal/api/models"
	"github.com/tkmc-personal/hybridsizer/internal/search"
)

// SearchHandler handles plant sizing requests
type SearchHandler struct {
	log zerolog.Logger
}

// NewSearchHandler creates a new sizing handler
func NewSearchHandler(log zerolog.Logger) *SearchHandler {
	return &SearchHandler{log: log}
}

// RunGridSearch handles POST /api/v1/search/grid
func (h *SearchHandler) RunGridSearch(c *gin.Context) {
	var req models.GridSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	eval, err := buildEvaluator(req.Plant, req.Resources, req.MaxShortage)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_PLANT",
				Message: err.Error(),
			},
		})
		return
	}

	counts := applyCountDefaults(req.Counts)
	strategy := &search.GridSearch{
		Counts:  search.CountRange(counts.Min, counts.Max, counts.Step),
		Workers: req.Workers,
		Logger:  h.log,
	}

	result, err := strategy.Search(eval)
	if err != nil {
		searchError(c, err)
		return
	}

	ranked := analysis.RankByNPC(result.Feasible)
	resp := models.SearchResponse{
		ID:          uuid.NewString(),
		Status:      "completed",
		Strategy:    strategy.Name(),
		Best:        toDesignResult(result.Best),
		Ranked:      make([]models.DesignResult, len(ranked)),
		Evaluations: result.Evaluations,
	}
	for i, ev := range ranked {
		resp.Ranked[i] = toDesignResult(ev)
	}
	c.JSON(http.StatusOK, resp)
}

// RunEvolveSearch handles POST /api/v1/search/evolve
func (h *SearchHandler) RunEvolveSearch(c *gin.Context) {
	var req models.EvolveSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	eval, err := buildEvaluator(req.Plant, req.Resources, req.MaxShortage)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_PLANT",
				Message: err.Error(),
			},
		})
		return
	}

	bounds := applyCountDefaults(req.Bounds)
	box := [2]float64{bounds.Min, bounds.Max}
	strategy := &search.DifferentialEvolution{
		Bounds:         [3][2]float64{box, box, box},
		PopSize:        req.Evolve.PopSize,
		Mutation:       [2]float64{req.Evolve.MutationMin, req.Evolve.MutationMax},
		CrossoverProb:  req.Evolve.CrossoverProb,
		Tol:            req.Evolve.Tol,
		MaxGenerations: req.Evolve.MaxGenerations,
		Seed:           req.Evolve.Seed,
		Logger:         h.log,
	}

	result, err := strategy.Search(eval)
	if err != nil {
		searchError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SearchResponse{
		ID:          uuid.NewString(),
		Status:      "completed",
		Strategy:    strategy.Name(),
		Best:        toDesignResult(result.Best),
		Evaluations: result.Evaluations,
		Generations: result.Generations,
		Converged:   result.Converged,
	})
}

func applyCountDefaults(c models.CountRange) models.CountRange {
	if c.Max == 0 {
		c.Max = 100
	}
	if c.Step == 0 {
		c.Step = 10
	}
	return c
}

func searchError(c *gin.Context, err error) {
	if errors.Is(err, search.ErrNoFeasibleDesign) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NO_FEASIBLE_DESIGN",
				Message: err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "SEARCH_ERROR",
			Message: err.Error(),
		},
	})
}
