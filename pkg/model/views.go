package model

// SessionView is a session as returned over HTTP, with the fields callers
// derive from it filled in.
type SessionView struct {
	Session
	State          string `json:"state"`
	SlotsRemaining int    `json:"slots_remaining"`
}

type FinalizeRequest struct {
	TotalAmount     float64 `json:"total_amount"`
	IndividualCosts CostMap `json:"individual_costs,omitempty"`
}

// AllocationCheck is the running over/under read-out of a manual split.
type AllocationCheck struct {
	Sum            float64 `json:"sum"`
	Total          float64 `json:"total"`
	Delta          float64 `json:"delta"`
	Matches        bool    `json:"matches"`
	UnknownSlotIDs []int64 `json:"unknown_slot_ids,omitempty"`
}

type CostPreview struct {
	SessionID     string  `json:"session_id"`
	CostPerPerson float64 `json:"cost_per_person"`
	Final         bool    `json:"final"`
}

type ShareLink struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
