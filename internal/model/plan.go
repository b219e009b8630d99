package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActionKind is what the operator has to do.
type ActionKind string

const (
	ActionSwap  ActionKind = "SWAP"
	ActionOrder ActionKind = "ORDER"
)

// Order days for scheduled purchases.
const (
	OrderDayMonday   = "Monday"
	OrderDayThursday = "Thursday"
)

// OrderAction is a proposed swap or purchase for one room.
type OrderAction struct {
	Action   ActionKind `json:"action"`
	Room     string     `json:"room"`
	GasType  string     `json:"gas_type"`
	Quantity int        `json:"quantity"`
	OrderDay string     `json:"order_day,omitempty"`
	Urgency  Urgency    `json:"urgency"`
	Reason   string     `json:"reason"`
}

// Reallocation proposes moving one full cylinder between rooms.
type Reallocation struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	GasType string  `json:"gas_type"`
	Urgency Urgency `json:"urgency"`
	Reason  string  `json:"reason"`
}

// Savings is the heuristic weekly savings estimate.
type Savings struct {
	PreventedStockouts int             `json:"prevented_stockouts"`
	StockoutSavings    decimal.Decimal `json:"stockout_savings"`
	RentalSavings      decimal.Decimal `json:"rental_savings"`
	BatchSavings       decimal.Decimal `json:"batch_savings"`
	TotalWeeklySavings decimal.Decimal `json:"total_weekly_savings"`
}

// ActionPlan is the Monday action plan document.
type ActionPlan struct {
	GeneratedAt      time.Time      `json:"generated_at"`
	ImmediateActions []OrderAction  `json:"immediate_actions"`
	Reallocations    []Reallocation `json:"reallocations"`
	RoutineOrders    []OrderAction  `json:"routine_orders"`
	Savings          Savings        `json:"savings"`
	MondayChecklist  []string       `json:"monday_checklist"`
}
