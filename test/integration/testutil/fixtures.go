package testutil

import "courtbook/pkg/model"

type SessionInputBuilder struct {
	input model.SessionInput
}

func NewSessionInputBuilder() *SessionInputBuilder {
	return &SessionInputBuilder{
		input: model.SessionInput{
			Date:      "2099-01-10",
			StartTime: "19:00",
			EndTime:   "21:00",
			Courts:    2,
			MaxSlots:  4,
			Location:  model.VenueGranville,
			PaymentInfo: model.PaymentInfo{
				AccountName:   "Jordan Lee",
				AccountNumber: "062-000 1234 5678",
				Bank:          model.BankCBA,
			},
		},
	}
}

func (b *SessionInputBuilder) WithDate(date string) *SessionInputBuilder {
	b.input.Date = date
	return b
}

func (b *SessionInputBuilder) WithMaxSlots(n int) *SessionInputBuilder {
	b.input.MaxSlots = n
	return b
}

func (b *SessionInputBuilder) WithLocation(location string) *SessionInputBuilder {
	b.input.Location = location
	return b
}

func (b *SessionInputBuilder) Build() model.SessionInput {
	return b.input
}

func ValidSessionInput() model.SessionInput {
	return NewSessionInputBuilder().Build()
}

func PastSessionInput() model.SessionInput {
	return NewSessionInputBuilder().WithDate("2020-03-01").Build()
}

func Player(name, email string) model.SlotInput {
	return model.SlotInput{PlayerName: name, Email: email}
}
