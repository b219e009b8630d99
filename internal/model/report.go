package model

// Severity of a historical low-pressure incident.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
)

// Incident is a reading that dropped below the critical threshold.
type Incident struct {
	Date          string   `json:"date"`
	Room          string   `json:"room"`
	GasType       string   `json:"gas_type"`
	Meter         Channel  `json:"meter"`
	PSI           float64  `json:"psi"`
	Severity      Severity `json:"severity"`
	EstimatedCost float64  `json:"estimated_cost"`
}

// RentalWaste describes full cylinders that sat unused for more than a week.
type RentalWaste struct {
	Room             string  `json:"room"`
	Gas              string  `json:"gas"`
	UnusedCylinders  int     `json:"unused_cylinders"`
	DaysUnused       int     `json:"days_unused"`
	WastedRentalCost float64 `json:"wasted_rental_cost"`
}

// ConsumptionPattern is the coarse per-room usage summary.
type ConsumptionPattern struct {
	AvgDailyConsumption float64    `json:"avg_daily_consumption"`
	MaxDailyConsumption float64    `json:"max_daily_consumption"`
	Volatility          Volatility `json:"volatility"`
}

// ProblemSummary aggregates the problem report totals.
type ProblemSummary struct {
	TotalViolations      int     `json:"total_violations"`
	CriticalViolations   int     `json:"critical_violations"`
	TotalIncidentCost    float64 `json:"total_incident_cost"`
	MonthlyRentalWaste   float64 `json:"monthly_rental_waste"`
	TotalPreventableCost float64 `json:"total_preventable_cost"`
}

// ProblemReport is the historical problem analysis document.
type ProblemReport struct {
	Summary             ProblemSummary                `json:"summary"`
	CriticalIncidents   []Incident                    `json:"critical_incidents"`
	RentalWaste         []RentalWaste                 `json:"rental_waste"`
	ConsumptionPatterns map[string]ConsumptionPattern `json:"consumption_patterns"`
	WorstIncident       *Incident                     `json:"worst_incident"`
}

// CurrentLevel is one row of the simplified current-levels sheet.
type CurrentLevel struct {
	Room          string  `json:"room"`
	GasType       string  `json:"gas_type"`
	PSI           float64 `json:"psi"`
	Full          *int    `json:"full,omitempty"`
	Empty         *int    `json:"empty,omitempty"`
	DaysRemaining float64 `json:"days_remaining"`
	LastUpdated   string  `json:"last_updated,omitempty"`
}
