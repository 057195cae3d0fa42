// Package conversation holds the booking dialogue as a pure state machine.
// Step never performs I/O: it returns the next session and the effects the
// caller has to carry out.
package conversation

import "fmt"

// State is the step the session waits an answer for.
type State int

const (
	StateIdle State = iota
	StateAwaitDate
	StateAwaitTime
	StateAwaitGuests
	StateAwaitName
	StateAwaitPhone
	StateAwaitComment
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StateAwaitDate:    "await_date",
	StateAwaitTime:    "await_time",
	StateAwaitGuests:  "await_guests",
	StateAwaitName:    "await_name",
	StateAwaitPhone:   "await_phone",
	StateAwaitComment: "await_comment",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

// Key identifies one session: the same user in another chat gets another one.
type Key struct {
	UserID int64 `json:"user_id"`
	ChatID int64 `json:"chat_id"`
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.UserID, k.ChatID)
}
