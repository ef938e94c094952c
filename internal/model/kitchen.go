package model

// KitchenLoad buckets the number of active orders.
type KitchenLoad string

const (
	LoadLow    KitchenLoad = "low"
	LoadMedium KitchenLoad = "medium"
	LoadHigh   KitchenLoad = "high"
)

// Kitchen status bounds. The simulator and order lifecycle both keep
// the counters inside these ranges.
const (
	MinWaitTime     = 5
	MaxWaitTime     = 30
	MinActiveOrders = 0
	MaxActiveOrders = 20
)

// KitchenStatus is the process-wide canteen kitchen snapshot. There is
// exactly one per registry and it resets on restart.
type KitchenStatus struct {
	IsOpen       bool        `json:"isOpen"`
	CurrentLoad  KitchenLoad `json:"currentLoad"`
	AvgWaitTime  int         `json:"avgWaitTime"`
	ActiveOrders int         `json:"activeOrders"`
	Staff        int         `json:"staff"`
	Announcement string      `json:"announcement"`
}

// LoadFor derives the load bucket from an active order count.
func LoadFor(activeOrders int) KitchenLoad {
	switch {
	case activeOrders < 5:
		return LoadLow
	case activeOrders < 12:
		return LoadMedium
	default:
		return LoadHigh
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
