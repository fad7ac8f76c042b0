package telegram

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gfabricio/bottery/pkg/message"
)

// Translation errors. ErrNoMessage covers every update that does not carry
// a new message: edited messages, channel posts, and anything else the Bot
// API may deliver.
var (
	ErrNoMessage = errors.New("telegram: update contains no message")
	ErrNoText    = errors.New("telegram: message has no text")
	ErrNoSender  = errors.New("telegram: message has no sender")
)

// convertInbound transforms a Telegram Update into the canonical inbound
// message. Only the "message" payload is accepted.
func convertInbound(update *Update, channelName string) (*message.Inbound, error) {
	msg := update.Message
	if msg == nil {
		return nil, fmt.Errorf("%w (update %d)", ErrNoMessage, update.UpdateID)
	}
	if msg.Text == "" {
		return nil, fmt.Errorf("%w (update %d)", ErrNoText, update.UpdateID)
	}

	sender, err := convertSender(msg.From)
	if err != nil {
		return nil, fmt.Errorf("%w (update %d)", err, update.UpdateID)
	}

	raw, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("telegram: marshal update: %w", err)
	}

	return &message.Inbound{
		ID:        strconv.Itoa(msg.MessageID),
		Platform:  channelName,
		Text:      msg.Text,
		Sender:    sender,
		Timestamp: time.Unix(int64(msg.Date), 0),
		Raw:       raw,
	}, nil
}

// convertSender maps a Telegram User to the canonical sender. The user id
// and first name are mandatory on the platform side and stay mandatory
// here.
func convertSender(user *User) (message.Sender, error) {
	if user == nil {
		return message.Sender{}, ErrNoSender
	}
	if user.ID == 0 || user.FirstName == "" {
		return message.Sender{}, fmt.Errorf("telegram: sender is missing id or first_name")
	}
	return message.Sender{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Language:  user.LanguageCode,
	}, nil
}
