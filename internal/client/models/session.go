package models

// Session is the locally cached login state. Name is what gets stamped into
// a draft's CreatedBy at first save.
type Session struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Token    string `json:"token,omitempty"`
}
