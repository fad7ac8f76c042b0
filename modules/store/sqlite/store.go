package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gfabricio/bottery/pkg/message"
)

// archiveStore records canonical inbound messages. It implements
// channel.Archive.
type archiveStore struct {
	db *sql.DB
}

// Record inserts one inbound message, including the raw platform payload.
func (s *archiveStore) Record(ctx context.Context, msg *message.Inbound) error {
	raw := string(msg.Raw)
	if raw == "" {
		raw = "{}"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (platform, message_id, sender_id, sender_name, text, sent_at, raw)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.Platform,
		msg.ID,
		msg.Sender.ID,
		msg.Sender.DisplayName(),
		msg.Text,
		msg.Timestamp.UTC().Format(time.RFC3339),
		raw,
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert message: %w", err)
	}
	return nil
}

// ArchivedMessage is one row of the message archive.
type ArchivedMessage struct {
	Platform   string
	MessageID  string
	SenderID   int64
	SenderName string
	Text       string
	SentAt     time.Time
}

// Recent returns the most recently archived messages, newest first.
func (s *archiveStore) Recent(ctx context.Context, limit int) ([]ArchivedMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, message_id, sender_id, sender_name, text, sent_at
		 FROM messages ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query recent messages: %w", err)
	}
	defer rows.Close()

	var msgs []ArchivedMessage
	for rows.Next() {
		var m ArchivedMessage
		var sentAt string
		if err := rows.Scan(&m.Platform, &m.MessageID, &m.SenderID, &m.SenderName, &m.Text, &sentAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan message: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, sentAt); err == nil {
			m.SentAt = ts
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
