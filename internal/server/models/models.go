// Package models defines the server-side ledger records.
package models

import (
	"encoding/json"
	"time"
)

// Invoice is one ledger row. Seq is the numeric invoice sequence the number
// column is derived from; Data holds the full client document verbatim, so
// nothing a client sends is ever lost even when the ledger does not index it.
type Invoice struct {
	Seq        int64
	Number     string
	UUID       string
	TempID     string
	ClientName string
	Total      float64
	CreatedBy  string
	CreatedAt  time.Time
	Data       json.RawMessage
}

// User is an operator account. PasswordHash is a bcrypt hash.
type User struct {
	Username     string
	Name         string
	Role         string
	Status       string
	PasswordHash string
	CreatedAt    time.Time
}

// Product is a catalogue record.
type Product struct {
	ID            string
	Description   string
	DescriptionEn string
	Price         float64
}

// ActivityEntry is one line of the audit trail.
type ActivityEntry struct {
	ID       int64
	At       time.Time
	Username string
	Action   string
	Details  string
}
