package conversation

import "errors"

// Step is the transition function of the booking dialogue. It is total:
// every (session, input) pair yields a session and zero or more effects.
// An idle session ignores plain text, which lets the caller route it
// elsewhere.
func Step(s Session, in Input) (Session, []Effect) {
	switch in.Kind {
	case InputEnter:
		next := Idle(s.Key)
		next.State = StateAwaitDate
		return next, []Effect{ask(StateAwaitDate)}
	case InputCancel:
		return Idle(s.Key), []Effect{Reply{Text: CancelAck, Keyboard: KeyboardBackHome}}
	case InputHome:
		return Idle(s.Key), []Effect{ShowHome{}}
	case InputText:
		return answer(s, in.Text)
	default:
		return s, nil
	}
}

func answer(s Session, text string) (Session, []Effect) {
	var err error
	next := s

	switch s.State {
	case StateAwaitDate:
		next.Date, err = ValidateText(FieldDate, text)
		next.State = StateAwaitTime
	case StateAwaitTime:
		next.Time, err = ValidateText(FieldTime, text)
		next.State = StateAwaitGuests
	case StateAwaitGuests:
		next.Guests, err = ValidateGuests(text)
		next.State = StateAwaitName
	case StateAwaitName:
		next.Name, err = ValidateText(FieldName, text)
		next.State = StateAwaitPhone
	case StateAwaitPhone:
		next.Phone, err = ValidateText(FieldPhone, text)
		next.State = StateAwaitComment
	case StateAwaitComment:
		draft := s.draft(NormalizeComment(text))
		return Idle(s.Key), []Effect{Complete{Draft: draft}}
	default:
		// idle or unknown: not ours
		return Idle(s.Key), nil
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return s, []Effect{Reply{Text: retryText(s.State, verr), Keyboard: KeyboardBackHome}}
	}
	return next, []Effect{ask(next.State)}
}

func ask(s State) Reply {
	return Reply{Text: Prompt(s), Keyboard: KeyboardBackHome}
}
