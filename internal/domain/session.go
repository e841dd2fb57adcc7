package domain

// Session is the server-side state behind a refresh token. Remember records
// the TTL class the session was created with so rotation preserves it.
type Session struct {
	UserID   string `json:"user_id"`
	Remember bool   `json:"remember"`
}
