package model

import "time"

const (
	EventSessionFinalized = "session.finalized"
)

// PaymentNotice is one participant's share of a finalized session.
type PaymentNotice struct {
	SlotID     SlotID  `json:"slot_id"`
	PlayerName string  `json:"player_name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone,omitempty"`
	Amount     float64 `json:"amount"`
}

// SessionFinalizedEvent is published once an organizer records the court fee.
// Notices only cover slots that left an email address.
type SessionFinalizedEvent struct {
	SessionID   string          `json:"session_id"`
	Date        string          `json:"date"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Location    string          `json:"location"`
	AccountName string          `json:"account_name"`
	AccountNo   string          `json:"account_number"`
	BankName    string          `json:"bank_name"`
	TotalAmount float64         `json:"total_amount"`
	SplitMode   SplitMode       `json:"split_mode"`
	FinalizedAt time.Time       `json:"finalized_at"`
	Notices     []PaymentNotice `json:"notices"`
}
