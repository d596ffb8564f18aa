package entity

// User is an account known to the remote service.
// Password is an opaque credential compared verbatim.
type User struct {
	ID       int64
	Name     string
	Password string
}
