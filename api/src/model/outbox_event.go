package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type OutboxEvent struct {
	Id          int    `gorm:"primaryKey;autoIncrement"`
	EventId     string `gorm:"uniqueIndex;not null"`
	UserId      int64  `gorm:"index"`
	Payload     string
	Retry       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProcessedAt gorm.DeletedAt `gorm:"index"`
}

// OutboxMessage is the wire form of a stored event; the payload is
// forwarded verbatim.
type OutboxMessage struct {
	Payload string
}

func (oe OutboxEvent) Message() OutboxMessage {
	return OutboxMessage{Payload: oe.Payload}
}

func (om OutboxMessage) Serialize() ([]byte, error) {
	return json.RawMessage(om.Payload), nil
}
