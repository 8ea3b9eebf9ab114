package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkmc-personal/hybridsizer/internal/api/models"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	sh := NewSimulateHandler()
	r.POST("/api/v1/simulate", sh.RunSimulation)
	dh := NewDatasetHandler()
	r.GET("/api/v1/datasets", dh.ListDatasets)
	return r
}

func testPlant() models.PlantSettings {
	return models.PlantSettings{
		Wind: models.WindSettings{
			HubHeightM:        17,
			AnemometerHeightM: 10,
			SurfaceRoughnessM: 0.01,
		},
		PowerCurve: []models.CurvePoint{
			{WindSpeedMS: 0, PowerKW: 0},
			{WindSpeedMS: 20, PowerKW: 5},
		},
		Solar: models.SolarSettings{
			Latitude:         45,
			Slope:            30,
			ModuleCapacityKW: 0.3,
			Albedo:           0.2,
			DeratingFactor:   0.9,
		},
		Storage: models.StorageSettings{
			NominalVoltageV:        6,
			NominalCapacityAh:      167,
			MinSoC:                 20,
			ChargeCurrentLimitA:    167,
			DischargeCurrentLimitA: 500,
			RoundTripEfficiency:    0.95,
		},
		Finance: models.FinanceSettings{
			ProjectLifetimeYears: 25,
			InflationRate:        0.02,
			NominalDiscountRate:  0.08,
			Cells:                models.ComponentCosts{LifetimeYears: 15, CapitalCost: 550, ReplacementCost: 550, OMCostPerYear: 10},
			Turbines:             models.ComponentCosts{LifetimeYears: 20, CapitalCost: 18000, ReplacementCost: 18000, OMCostPerYear: 180},
			Modules:              models.ComponentCosts{LifetimeYears: 20, CapitalCost: 2500, ReplacementCost: 2500, OMCostPerYear: 10},
		},
	}
}

func testResources() models.ResourceData {
	return models.ResourceData{
		Start:       "2017-01-01T00:00:00Z",
		WindSpeedMS: []float64{10, 10, 10},
		Irradiance:  []float64{0, 0, 0},
		LoadKW:      []float64{1, 1, 1},
	}
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRunSimulation(t *testing.T) {
	r := testRouter()
	w := postJSON(t, r, "/api/v1/simulate", models.SimulateRequest{
		Plant:     testPlant(),
		Design:    models.Design{Turbines: 1},
		Resources: testResources(),
		Options:   models.SimulateOptions{IncludeLedger: true, IncludeCashFlows: true},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "completed", resp.Status)
	// One turbine covers a 1 kW load at a steady 10 m/s.
	assert.Zero(t, resp.Shortage)
	assert.Positive(t, resp.NPC)
	assert.Len(t, resp.Ledger, 3)
	require.NotNil(t, resp.CashFlows)
	assert.NotEmpty(t, resp.CashFlows.Turbines)
	assert.Equal(t, 3.0, resp.Summary.TotalLoadKWh)
}

func TestRunSimulationBadRequest(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestRunSimulationMismatchedResources(t *testing.T) {
	r := testRouter()
	res := testResources()
	res.WindSpeedMS = res.WindSpeedMS[:2]

	w := postJSON(t, r, "/api/v1/simulate", models.SimulateRequest{
		Plant:     testPlant(),
		Design:    models.Design{Turbines: 1},
		Resources: res,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_PLANT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "same length")
}

func TestListDatasets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ryd_2017.csv"), []byte("datetime,load\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	t.Setenv("HYBRIDSIZER_DATA_DIR", dir)

	r := testRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Datasets []models.DatasetInfo `json:"datasets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Datasets, 1)
	assert.Equal(t, "ryd_2017", resp.Datasets[0].ID)
	assert.Equal(t, "ryd 2017", resp.Datasets[0].Name)
}

func TestListDatasetsMissingDir(t *testing.T) {
	t.Setenv("HYBRIDSIZER_DATA_DIR", filepath.Join(t.TempDir(), "absent"))

	r := testRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"datasets":[]}`, w.Body.String())
}