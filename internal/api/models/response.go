package models

import "time"

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	Summary   PlantSummary  `json:"summary"`
	Shortage  float64       `json:"shortage"`
	NPC       float64       `json:"npc"`
	CashFlows *CashFlows    `json:"cash_flows,omitempty"`
	Ledger    []LedgerRow   `json:"ledger,omitempty"`
}

// PlantSummary contains aggregated simulation results
type PlantSummary struct {
	Window             TimeWindow `json:"window"`
	Steps              int        `json:"steps"`
	TotalLoadKWh       float64    `json:"total_load_kwh"`
	TotalGenerationKWh float64    `json:"total_generation_kwh"`
	TotalUnmetKWh      float64    `json:"total_unmet_kwh"`
	ShortageFraction   float64    `json:"shortage_fraction"`
	WindShareOfGen     float64    `json:"wind_share_of_gen"`
	SolarShareOfGen    float64    `json:"solar_share_of_gen"`
	PeakUnmetKW        float64    `json:"peak_unmet_kw"`
	UnmetHours         int        `json:"unmet_hours"`
	HoursCharging      int        `json:"hours_charging"`
	HoursDischarging   int        `json:"hours_discharging"`
	HoursIdle          int        `json:"hours_idle"`
	MinSoC             float64    `json:"min_soc"`
	P05SoC             float64    `json:"p05_soc"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LedgerRow represents one timestep in the simulation ledger
type LedgerRow struct {
	Index        int       `json:"index"`
	Timestamp    time.Time `json:"timestamp"`
	LoadKW       float64   `json:"load_kw"`
	WindKW       float64   `json:"wind_kw"`
	SolarKW      float64   `json:"solar_kw"`
	StorageKW    float64   `json:"storage_kw"`
	SoC          float64   `json:"soc"`
	Action       string    `json:"action"` // "CHARGING", "DISCHARGING", "IDLE"
	GenerationKW float64   `json:"generation_kw"`
	UnmetKW      float64   `json:"unmet_kw"`
}

// CashFlows carries the per-technology discounted cash-flow schedules
type CashFlows struct {
	Cells    []CashFlowRow `json:"cells"`
	Turbines []CashFlowRow `json:"turbines"`
	Modules  []CashFlowRow `json:"modules"`
}

// CashFlowRow is one year of the discounted cash-flow schedule
type CashFlowRow struct {
	Year           float64 `json:"year"`
	DiscountFactor float64 `json:"discount_factor"`
	Capital        float64 `json:"capital"`
	Replacement    float64 `json:"replacement"`
	Salvage        float64 `json:"salvage"`
	OM             float64 `json:"om"`
	Total          float64 `json:"total"`
}

// SearchResponse represents the response from a sizing search
type SearchResponse struct {
	ID          string         `json:"id"`
	Status      string         `json:"status"`
	Strategy    string         `json:"strategy"`
	Best        DesignResult   `json:"best"`
	Ranked      []DesignResult `json:"ranked,omitempty"` // feasible designs, cheapest first
	Evaluations int            `json:"evaluations"`
	Generations int            `json:"generations,omitempty"`
	Converged   bool           `json:"converged,omitempty"`
}

// DesignResult is one scored plant design
type DesignResult struct {
	Cells    float64 `json:"cells"`
	Turbines float64 `json:"turbines"`
	Modules  float64 `json:"modules"`
	Shortage float64 `json:"shortage"`
	NPC      float64 `json:"npc"`
	Feasible bool    `json:"feasible"`
}

// DatasetInfo represents one bundled resource dataset
type DatasetInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	File  string `json:"file"`
	Bytes int64  `json:"bytes"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
