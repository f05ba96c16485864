package domain

import (
	"strings"
	"time"
)

// TransactionType distinguishes stock entering and leaving the warehouse
type TransactionType string

const (
	TransactionIncoming TransactionType = "incoming"
	TransactionOutgoing TransactionType = "outgoing"
)

// Transaction is a recorded stock movement
type Transaction struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"itemId"`
	ItemName  string          `json:"itemName"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	Reference string          `json:"reference,omitempty"`
	CreatedBy string          `json:"createdBy,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// TransactionDraft is a transaction without id and timestamp
type TransactionDraft struct {
	ItemID    string          `json:"itemId" validate:"required"`
	ItemName  string          `json:"itemName" validate:"required"`
	Type      TransactionType `json:"type" validate:"required,oneof=incoming outgoing"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Note      string          `json:"note,omitempty"`
	Reference string          `json:"reference,omitempty"`
	CreatedBy string          `json:"createdBy,omitempty"`
}

// Validate trims the draft and checks required fields
func (d *TransactionDraft) Validate() error {
	d.ItemID = strings.TrimSpace(d.ItemID)
	d.ItemName = strings.TrimSpace(d.ItemName)
	d.Note = strings.TrimSpace(d.Note)
	return structErrors(d).OrNil()
}

// ToTransaction builds a local record from the draft
func (d TransactionDraft) ToTransaction(id string, now time.Time) Transaction {
	return Transaction{
		ID:        id,
		ItemID:    d.ItemID,
		ItemName:  d.ItemName,
		Type:      d.Type,
		Quantity:  d.Quantity,
		Note:      d.Note,
		Reference: d.Reference,
		CreatedBy: d.CreatedBy,
		CreatedAt: now,
	}
}

// Draft returns the editable part of the transaction
func (t Transaction) Draft() TransactionDraft {
	return TransactionDraft{
		ItemID:    t.ItemID,
		ItemName:  t.ItemName,
		Type:      t.Type,
		Quantity:  t.Quantity,
		Note:      t.Note,
		Reference: t.Reference,
		CreatedBy: t.CreatedBy,
	}
}
