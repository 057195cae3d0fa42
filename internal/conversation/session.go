package conversation

// Session accumulates the answers of one booking dialogue.
type Session struct {
	Key     Key    `json:"key"`
	State   State  `json:"state"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
	Guests  int    `json:"guests,omitempty"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Idle returns the empty session for key.
func Idle(key Key) Session {
	return Session{Key: key, State: StateIdle}
}

// Active reports whether a dialogue is in flight.
func (s Session) Active() bool {
	return s.State != StateIdle
}

// Draft is the full field set handed over on completion.
type Draft struct {
	Date    string
	Time    string
	Guests  int
	Name    string
	Phone   string
	Comment string
}

func (s Session) draft(comment string) Draft {
	return Draft{
		Date:    s.Date,
		Time:    s.Time,
		Guests:  s.Guests,
		Name:    s.Name,
		Phone:   s.Phone,
		Comment: comment,
	}
}
