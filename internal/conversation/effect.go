package conversation

// Keyboard tells the transport which inline keyboard goes under a reply.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardBackHome
)

// Effect is an action Step asks the caller to perform.
type Effect interface {
	isEffect()
}

// Reply sends text back to the session's chat.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Complete persists the draft, confirms it to the user and notifies staff.
type Complete struct {
	Draft Draft
}

// ShowHome re-renders the home surface in the session's chat.
type ShowHome struct{}

func (Reply) isEffect()    {}
func (Complete) isEffect() {}
func (ShowHome) isEffect() {}
