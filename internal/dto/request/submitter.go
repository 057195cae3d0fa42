package request

import "strings"

// UnknownSubmitter is shown to staff when the sender has neither a handle
// nor a name.
const UnknownSubmitter = "Неизвестно"

// Submitter is who sent an update. ID is zero for anonymous senders
// (channel posts).
type Submitter struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// Handle returns "@username" or "".
func (s Submitter) Handle() string {
	if s.Username == "" {
		return ""
	}
	return "@" + s.Username
}

// DisplayName prefers the handle, then the full name.
func (s Submitter) DisplayName() string {
	if h := s.Handle(); h != "" {
		return h
	}
	if name := strings.TrimSpace(s.FirstName + " " + s.LastName); name != "" {
		return name
	}
	return UnknownSubmitter
}

// UserID returns nil for anonymous senders.
func (s Submitter) UserID() *int64 {
	if s.ID == 0 {
		return nil
	}
	id := s.ID
	return &id
}

// UsernamePtr returns nil when the sender has no handle.
func (s Submitter) UsernamePtr() *string {
	if s.Username == "" {
		return nil
	}
	name := s.Username
	return &name
}
