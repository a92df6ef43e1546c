package settings

import "context"

// Well-known setting keys.
const (
	KeyCurrentDraft  = "current_draft"
	KeyEndpointURL   = "endpoint_url"
	KeyLastSyncAt    = "last_sync_at"
	KeySession       = "session"
	KeyGlobalDefault = "global_defaults"
)

// Repository is a narrow key-value port over the settings table: current
// draft, endpoint URL, last-sync timestamp and the cached login session all
// live here as plain JSON/string blobs.
type Repository interface {
	// Get returns the stored value for key, or common.ErrorNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
