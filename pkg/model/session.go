package model

import (
	"sort"
	"time"
)

// SlotID identifies a slot within its session. Values come from the caller's
// id source (a millisecond clock in production).
type SlotID int64

// CostMap holds a per-slot amount keyed by slot id.
type CostMap map[SlotID]float64

// SplitMode records how a finalized session's total was allocated.
type SplitMode string

const (
	SplitEven   SplitMode = "even"
	SplitManual SplitMode = "manual"
)

const (
	VenueGranville = "NBC Granville"
	VenueYennora   = "NBC Yennora"
)

// Venues lists the locations a session can be held at.
var Venues = []string{VenueGranville, VenueYennora}

var venueNames = map[string]string{
	VenueGranville: "NBC Granville",
	VenueYennora:   "Badminton Worx Yennora",
}

const (
	BankCBA     = "CBA"
	BankWestpac = "Westpac"
	BankCustom  = "Custom"
)

type PaymentInfo struct {
	AccountName   string `json:"account_name" bson:"account_name" validate:"required"`
	AccountNumber string `json:"account_number" bson:"account_number" validate:"required"`
	Bank          string `json:"bank" bson:"bank" validate:"required,oneof=CBA Westpac Custom"`
	CustomBank    string `json:"custom_bank,omitempty" bson:"custom_bank,omitempty" validate:"required_if=Bank Custom"`
}

// BankDisplayName returns the bank name as shown to players.
func (p PaymentInfo) BankDisplayName() string {
	switch p.Bank {
	case BankCustom:
		if p.CustomBank != "" {
			return p.CustomBank
		}
		return "Custom Bank"
	case BankCBA:
		return "Commonwealth Bank (CBA)"
	default:
		return p.Bank
	}
}

type Slot struct {
	ID         SlotID `json:"id" bson:"id"`
	PlayerName string `json:"player_name" bson:"player_name"`
	Email      string `json:"email,omitempty" bson:"email,omitempty"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
	StartTime  string `json:"start_time" bson:"start_time"`
	EndTime    string `json:"end_time" bson:"end_time"`
}

type Session struct {
	ID              string      `json:"id,omitempty" bson:"_id,omitempty"`
	Date            string      `json:"date" bson:"date"`
	StartTime       string      `json:"start_time" bson:"start_time"`
	EndTime         string      `json:"end_time" bson:"end_time"`
	Courts          int         `json:"courts" bson:"courts"`
	Location        string      `json:"location" bson:"location"`
	MaxSlots        int         `json:"max_slots" bson:"max_slots"`
	PaymentInfo     PaymentInfo `json:"payment_info" bson:"payment_info"`
	Slots           []Slot      `json:"slots" bson:"slots"`
	TotalAmount     float64     `json:"total_amount" bson:"total_amount"`
	IsPaid          bool        `json:"is_paid" bson:"is_paid"`
	IndividualCosts CostMap     `json:"individual_costs,omitempty" bson:"individual_costs,omitempty"`
	CostPerPerson   *float64    `json:"cost_per_person,omitempty" bson:"cost_per_person,omitempty"`
	SplitMode       SplitMode   `json:"split_mode,omitempty" bson:"split_mode,omitempty"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	FinalizedAt     *time.Time  `json:"finalized_at,omitempty" bson:"finalized_at,omitempty"`
}

// LocationName returns the venue's display name.
func (s Session) LocationName() string {
	if name, ok := venueNames[s.Location]; ok {
		return name
	}
	return s.Location
}

// Clone returns a copy that shares no slices or maps with s.
func (s Session) Clone() Session {
	out := s
	if s.Slots != nil {
		out.Slots = make([]Slot, len(s.Slots))
		copy(out.Slots, s.Slots)
	}
	out.IndividualCosts = s.IndividualCosts.Clone()
	if s.CostPerPerson != nil {
		v := *s.CostPerPerson
		out.CostPerPerson = &v
	}
	if s.FinalizedAt != nil {
		v := *s.FinalizedAt
		out.FinalizedAt = &v
	}
	return out
}

// Clone returns a copy of m; nil stays nil.
func (m CostMap) Clone() CostMap {
	if m == nil {
		return nil
	}
	out := make(CostMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Values returns the amounts ordered by slot id so sums are deterministic.
func (m CostMap) Values() []float64 {
	ids := make([]SlotID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	values := make([]float64, 0, len(ids))
	for _, id := range ids {
		values = append(values, m[id])
	}
	return values
}

// SessionInput is what an organizer submits to open a session.
// Field order is the order validation failures are reported in.
type SessionInput struct {
	Date        string      `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string      `json:"start_time" validate:"required,hhmm"`
	EndTime     string      `json:"end_time" validate:"required,hhmm"`
	Courts      int         `json:"courts" validate:"required,min=1"`
	MaxSlots    int         `json:"max_slots" validate:"required,min=1"`
	Location    string      `json:"location" validate:"required,venue"`
	PaymentInfo PaymentInfo `json:"payment_info"`
}

// SlotInput is what a participant submits to claim a slot. Empty times fall
// back to the session's window.
type SlotInput struct {
	PlayerName string `json:"player_name" validate:"required"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,e164"`
	StartTime  string `json:"start_time,omitempty" validate:"omitempty,hhmm"`
	EndTime    string `json:"end_time,omitempty" validate:"omitempty,hhmm"`
}

// SessionUpdate carries the fields a lifecycle operation changed. Nil
// pointers are left untouched by the store.
type SessionUpdate struct {
	Slots           *[]Slot
	TotalAmount     *float64
	IsPaid          *bool
	IndividualCosts *CostMap
	CostPerPerson   *float64
	SplitMode       *SplitMode
	FinalizedAt     *time.Time
}
