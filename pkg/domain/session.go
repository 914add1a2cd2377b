package domain

// Session is the authenticated identity held by the client.
// It serialises flat: the user fields followed by the bearer token.
type Session struct {
	User
	Token string `json:"token"`
}

// Valid reports whether the session identifies a user and carries a token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.ID > 0
}
