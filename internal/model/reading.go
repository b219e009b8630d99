package model

import "time"

// DefaultTotalCapacity is used when no reading of a room has a quantity value.
const DefaultTotalCapacity = 4

// Reading is one row of the cylinder pressure log.
type Reading struct {
	Date          time.Time
	Room          string
	GasType       string
	MeterLeft     *float64 // nil when the cell was empty or not numeric ("OFF", "HALF", ...)
	MeterRight    *float64
	FullCount     *int
	EmptyCount    *int
	TotalCapacity *int
}

// Channel identifies one of the two regulator meters.
type Channel string

const (
	ChannelLeft  Channel = "left"
	ChannelRight Channel = "right"
)

// Channels lists both meters in evaluation order.
var Channels = []Channel{ChannelLeft, ChannelRight}

// Meter returns the reading of the given channel.
func (r Reading) Meter(ch Channel) *float64 {
	if ch == ChannelRight {
		return r.MeterRight
	}
	return r.MeterLeft
}

// InventorySnapshot is the latest known cylinder stock of a room.
type InventorySnapshot struct {
	FullCylinders  int    `json:"full_cylinders"`
	EmptyCylinders int    `json:"empty_cylinders"`
	GasType        string `json:"gas_type"`
	TotalCapacity  int    `json:"total_capacity"`
}
