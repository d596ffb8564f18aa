package entity

import "time"

// DateLayout is the calendar date format used for List.CreationDate.
const DateLayout = "2006-01-02"

// List represents a named collection owned by a single user.
type List struct {
	ID           int64
	Name         string
	CreationDate string
	OwnerUserID  int64
}

// FormatDate renders t as a calendar date in the List.CreationDate format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Clone returns a copy of the list.
func (l *List) Clone() *List {
	if l == nil {
		return nil
	}
	out := *l
	return &out
}
