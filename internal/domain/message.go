package domain

import "time"

// MessageSender indicates who authored a message.
type MessageSender string

const (
	SenderCustomer MessageSender = "customer"
	SenderAgent    MessageSender = "agent"
	SenderBot      MessageSender = "bot"
)

// Message captures one entry of a ticket thread. Messages are append-only.
type Message struct {
	ID        string        `json:"id"`
	TicketID  string        `json:"ticketId"`
	Sender    MessageSender `json:"sender"`
	Text      string        `json:"text"`
	Timestamp time.Time     `json:"timestamp"`
}
