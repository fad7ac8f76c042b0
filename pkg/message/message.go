// Package message defines the platform-agnostic data contract between
// channels and the view layer.
package message

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sender identifies the author of an inbound message.
// ID and FirstName are always present; the remaining fields are optional
// and empty when the platform did not provide them.
type Sender struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Language  string `json:"language,omitempty"`
}

// DisplayName returns a human-readable identity of the form
// "First Last (id)", omitting the last name when absent.
func (s Sender) DisplayName() string {
	if s.LastName != "" {
		return fmt.Sprintf("%s %s (%d)", s.FirstName, s.LastName, s.ID)
	}
	return fmt.Sprintf("%s (%d)", s.FirstName, s.ID)
}

// Inbound is the canonical representation of a message received from a
// channel. Raw retains the original platform payload for traceability.
type Inbound struct {
	ID        string          `json:"id"`
	Platform  string          `json:"platform"`
	Text      string          `json:"text"`
	Sender    Sender          `json:"sender"`
	Timestamp time.Time       `json:"timestamp"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// Outbound is a message to be delivered through a channel.
type Outbound struct {
	Channel   string `json:"channel"`
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}
