// Package api defines the wire contract of the remote ledger store. Every
// request is a single JSON POST with an "action" field; every response is
// JSON. Both the client adapter and the server handler build on these types.
package api

import "encoding/json"

// Action names accepted by the store.
const (
	ActionPing              = "PING"
	ActionSyncInvoices      = "SYNC_INVOICES"
	ActionGetAllInvoices    = "GET_ALL_INVOICES"
	ActionGetNextID         = "GET_NEXT_ID"
	ActionGetProducts       = "GET_PRODUCTS"
	ActionSaveProduct       = "SAVE_PRODUCT"
	ActionDeleteProduct     = "DELETE_PRODUCT"
	ActionLogin             = "LOGIN"
	ActionGetUsers          = "GET_USERS"
	ActionCreateUser        = "CREATE_USER"
	ActionUpdateUser        = "UPDATE_USER"
	ActionDeleteUser        = "DELETE_USER"
	ActionGetActivity       = "GET_ACTIVITY"
	ActionGetGlobalDefaults = "GET_GLOBAL_DEFAULTS"
	ActionSaveGlobalDefault = "SAVE_GLOBAL_DEFAULTS"
)

// Response statuses.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusSuspended = "suspended"
)

// Request is the single envelope for all actions. Only the fields relevant
// to the given action are populated.
type Request struct {
	Action string `json:"action"`

	// SYNC_INVOICES: full draft documents, each augmented with a computed
	// total. Kept raw on the server side, which extracts the columns it
	// indexes and stores the document verbatim.
	Invoices []json.RawMessage `json:"invoices,omitempty"`

	// SAVE_PRODUCT / DELETE_PRODUCT
	Product   *Product `json:"product,omitempty"`
	ProductID string   `json:"productId,omitempty"`

	// LOGIN
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// CREATE_USER / UPDATE_USER / DELETE_USER
	User *User `json:"user,omitempty"`

	// SAVE_GLOBAL_DEFAULTS
	Defaults map[string]string `json:"defaults,omitempty"`
}

// Response is the base shape shared by all replies. Message is set when
// Status is "error".
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// SyncResponse answers SYNC_INVOICES. IDMapping maps each submitted draft's
// lookup key (temp id, or invoice number when no temp id was sent) to the
// canonical number the store assigned.
type SyncResponse struct {
	Response
	SyncedCount int               `json:"syncedCount,omitempty"`
	IDMapping   map[string]string `json:"idMapping,omitempty"`
	NextID      int64             `json:"nextId,omitempty"`
}

// InvoicesResponse answers GET_ALL_INVOICES, newest first.
type InvoicesResponse struct {
	Response
	Invoices []json.RawMessage `json:"invoices"`
	MaxID    int64             `json:"maxId"`
	NextID   int64             `json:"nextId"`
}

// NextIDResponse answers GET_NEXT_ID.
type NextIDResponse struct {
	Response
	NextID int64 `json:"nextId"`
}

// Product is a catalogue record.
type Product struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	DescriptionEn string  `json:"descriptionEn,omitempty"`
	Price         float64 `json:"price"`
}

// ProductsResponse answers GET_PRODUCTS and SAVE_PRODUCT.
type ProductsResponse struct {
	Response
	Products []Product `json:"products,omitempty"`
	Product  *Product  `json:"product,omitempty"`
}

// User statuses.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User is an operator account. Password is only ever set on requests; the
// store never returns it.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Status   string `json:"status,omitempty"`
	Password string `json:"password,omitempty"`
}

// LoginResponse answers LOGIN. Status is "success", "error" or "suspended".
type LoginResponse struct {
	Response
	User  *User  `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
}

// UsersResponse answers GET_USERS and the user-mutation actions.
type UsersResponse struct {
	Response
	Users []User `json:"users,omitempty"`
}

// ActivityEntry is one line of the server-side activity log.
type ActivityEntry struct {
	ID       string `json:"id"`
	At       string `json:"at"`
	Username string `json:"username,omitempty"`
	Action   string `json:"action"`
	Details  string `json:"details,omitempty"`
}

// ActivityResponse answers GET_ACTIVITY, newest first.
type ActivityResponse struct {
	Response
	Activity []ActivityEntry `json:"activity"`
}

// DefaultsResponse answers GET_GLOBAL_DEFAULTS and SAVE_GLOBAL_DEFAULTS.
type DefaultsResponse struct {
	Response
	Defaults map[string]string `json:"defaults"`
}
