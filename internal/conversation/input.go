package conversation

type InputKind int

const (
	InputEnter InputKind = iota + 1
	InputText
	InputCancel
	InputHome
)

// Input is one inbound event routed to a session.
type Input struct {
	Kind InputKind
	Text string
}

func Enter() Input           { return Input{Kind: InputEnter} }
func Text(text string) Input { return Input{Kind: InputText, Text: text} }
func Cancel() Input          { return Input{Kind: InputCancel} }
func Home() Input            { return Input{Kind: InputHome} }
