// Package models defines client-side data models used by the invoicer CLI.
package models

// SyncStatus tracks where a draft is in its local→remote lifecycle.
type SyncStatus string

const (
	// SyncStatusUnsaved means the draft was never saved locally.
	SyncStatusUnsaved SyncStatus = "unsaved"
	// SyncStatusPending means the draft is saved locally but not yet
	// confirmed by the remote store.
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusSynced means the remote store confirmed the draft and
	// assigned its canonical number.
	SyncStatusSynced SyncStatus = "synced"
	// SyncStatusError means the last reconciliation attempt failed; the
	// draft is retriable.
	SyncStatusError SyncStatus = "error"
)

// DocumentType distinguishes invoices from quotes.
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeQuote   DocumentType = "quote"
)

// Item is one line of an invoice.
type Item struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	DescriptionEn string  `json:"descriptionEn,omitempty"`
	Quantity      float64 `json:"quantity"`
	Price         float64 `json:"price"`
}

// Invoice is one invoice/quote document. Field names follow the wire
// contract of the remote store.
//
// Id is a client-generated UUID and never changes. InvoiceNumber moves
// strictly forward over the draft's lifetime: placeholder → temp id →
// server-assigned canonical number.
type Invoice struct {
	Id            string       `json:"id"`
	InvoiceNumber string       `json:"invoiceNumber"`
	TempId        string       `json:"tempId,omitempty"`
	SyncStatus    SyncStatus   `json:"syncStatus"`
	DocumentType  DocumentType `json:"documentType"`

	Language string `json:"language"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	DueDate  string `json:"dueDate"`
	Currency string `json:"currency"`

	SellerName    string `json:"sellerName"`
	SellerEmail   string `json:"sellerEmail"`
	SellerAddress string `json:"sellerAddress"`
	SellerPhone   string `json:"sellerPhone"`

	ClientName    string `json:"clientName"`
	ClientAddress string `json:"clientAddress"`
	ClientPhone   string `json:"clientPhone"`

	Items []Item `json:"items"`
	Notes string `json:"notes"`

	TaxRate   float64 `json:"taxRate"`
	EnableTax bool    `json:"enableTax"`

	CreatedBy     string `json:"createdBy,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
	LastSyncError string `json:"lastSyncError,omitempty"`

	// Total is computed at sync time (the remote store does not re-derive
	// totals) and otherwise left zero.
	Total float64 `json:"total,omitempty"`
}

// ItemsTotal sums quantity × price over all line items. This is the value
// submitted to the remote store.
func (inv *Invoice) ItemsTotal() float64 {
	var sum float64
	for _, it := range inv.Items {
		sum += it.Quantity * it.Price
	}
	return sum
}

// GrandTotal is ItemsTotal plus tax when tax is enabled. Used for display.
func (inv *Invoice) GrandTotal() float64 {
	subtotal := inv.ItemsTotal()
	if inv.EnableTax {
		return subtotal + subtotal*inv.TaxRate/100
	}
	return subtotal
}

// LookupKey is the key the remote store echoes back in its id mapping:
// the temp id when one was assigned, otherwise the current invoice number.
func (inv *Invoice) LookupKey() string {
	if inv.TempId != "" {
		return inv.TempId
	}
	return inv.InvoiceNumber
}
