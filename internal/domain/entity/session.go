package entity

// Session identifies the current authorized user.
// It is passed explicitly into every entry point that needs it.
type Session struct {
	Authenticated bool
	UserID        int64
	UserName      string
}

// Authorized reports whether the session may issue user-scoped operations.
func (s Session) Authorized() bool {
	return s.Authenticated && s.UserID > 0
}
