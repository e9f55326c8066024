package domain

// Identity is the verified caller behind a bearer token.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin"`
}
