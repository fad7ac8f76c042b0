package telegram

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestConvertInbound(t *testing.T) {
	update := &Update{
		UpdateID: 100,
		Message: &Message{
			MessageID: 5,
			Date:      1000,
			Text:      "hi",
			Chat:      Chat{ID: 42, Type: "private"},
			From: &User{
				ID:           42,
				FirstName:    "Ada",
				LastName:     "Lovelace",
				Username:     "ada",
				LanguageCode: "en",
			},
		},
	}

	inbound, err := convertInbound(update, "channel.telegram")
	if err != nil {
		t.Fatalf("convertInbound() error: %v", err)
	}

	if inbound.ID != "5" {
		t.Errorf("ID = %q, want %q", inbound.ID, "5")
	}
	if inbound.Platform != "channel.telegram" {
		t.Errorf("Platform = %q", inbound.Platform)
	}
	if inbound.Text != "hi" {
		t.Errorf("Text = %q, want %q", inbound.Text, "hi")
	}
	if inbound.Sender.ID != 42 {
		t.Errorf("Sender.ID = %d, want 42", inbound.Sender.ID)
	}
	if inbound.Sender.FirstName != "Ada" || inbound.Sender.LastName != "Lovelace" {
		t.Errorf("Sender name = %q %q", inbound.Sender.FirstName, inbound.Sender.LastName)
	}
	if inbound.Sender.Username != "ada" || inbound.Sender.Language != "en" {
		t.Errorf("Sender = %+v", inbound.Sender)
	}
	if !inbound.Timestamp.Equal(time.Unix(1000, 0)) {
		t.Errorf("Timestamp = %v, want %v", inbound.Timestamp, time.Unix(1000, 0))
	}

	// Raw must carry the complete original update.
	var raw Update
	if err := json.Unmarshal(inbound.Raw, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw.UpdateID != 100 || raw.Message == nil || raw.Message.MessageID != 5 {
		t.Errorf("raw update = %+v", raw)
	}
}

func TestConvertInboundRejects(t *testing.T) {
	validMsg := func() *Message {
		return &Message{
			MessageID: 1,
			Date:      1000,
			Text:      "hi",
			From:      &User{ID: 7, FirstName: "Bob"},
		}
	}

	tests := []struct {
		name    string
		update  *Update
		wantErr error
	}{
		{
			name:    "empty update",
			update:  &Update{UpdateID: 1},
			wantErr: ErrNoMessage,
		},
		{
			name: "edited message only",
			update: &Update{
				UpdateID:      2,
				EditedMessage: validMsg(),
			},
			wantErr: ErrNoMessage,
		},
		{
			name: "no text",
			update: func() *Update {
				m := validMsg()
				m.Text = ""
				return &Update{UpdateID: 3, Message: m}
			}(),
			wantErr: ErrNoText,
		},
		{
			name: "no sender",
			update: func() *Update {
				m := validMsg()
				m.From = nil
				return &Update{UpdateID: 4, Message: m}
			}(),
			wantErr: ErrNoSender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convertInbound(tt.update, "channel.telegram")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("convertInbound() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvertSenderRequiresIDAndFirstName(t *testing.T) {
	if _, err := convertSender(&User{FirstName: "NoID"}); err == nil {
		t.Error("missing id should be rejected")
	}
	if _, err := convertSender(&User{ID: 9}); err == nil {
		t.Error("missing first_name should be rejected")
	}
	if _, err := convertSender(&User{ID: 9, FirstName: "Ok"}); err != nil {
		t.Errorf("valid sender rejected: %v", err)
	}
}
