package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownDestination = errors.New("unknown destination")
	ErrNoTransport        = errors.New("no transport for destination")
)

const (
	schemeTelegram = "tg"
	schemeBroker   = "amqp"
)

// ChatSender delivers text to a messaging chat.
type ChatSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Publisher delivers text to a broker exchange.
type Publisher interface {
	Publish(ctx context.Context, exchange, text string) error
}

// Sender delivers text to one destination identifier.
type Sender interface {
	Send(ctx context.Context, destination, text string) error
}

// Destination is a parsed destination identifier. A bare integer or
// "tg:<int>" is a chat, "amqp:<exchange>" is a broker exchange.
type Destination struct {
	Scheme   string
	ChatID   int64
	Exchange string
}

func (d Destination) String() string {
	if d.Scheme == schemeBroker {
		return schemeBroker + ":" + d.Exchange
	}
	return strconv.FormatInt(d.ChatID, 10)
}

func ParseDestination(raw string) (Destination, error) {
	raw = strings.TrimSpace(raw)
	scheme, rest, found := strings.Cut(raw, ":")
	if !found {
		scheme, rest = schemeTelegram, raw
	}

	switch scheme {
	case schemeTelegram:
		id, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
		if err != nil {
			return Destination{}, fmt.Errorf("%w %q", ErrUnknownDestination, raw)
		}
		return Destination{Scheme: schemeTelegram, ChatID: id}, nil
	case schemeBroker:
		exchange := strings.TrimSpace(rest)
		if exchange == "" {
			return Destination{}, fmt.Errorf("%w %q: empty exchange", ErrUnknownDestination, raw)
		}
		return Destination{Scheme: schemeBroker, Exchange: exchange}, nil
	default:
		return Destination{}, fmt.Errorf("%w %q", ErrUnknownDestination, raw)
	}
}

// Canonical maps equivalent spellings ("-100", "tg:-100") to one identifier;
// unparsable input is returned trimmed so it still fails on its own.
func Canonical(raw string) string {
	d, err := ParseDestination(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return d.String()
}

type router struct {
	chat   ChatSender
	broker Publisher
}

// NewRouter sends chat destinations through chat and exchange destinations
// through broker. Either may be nil; its destinations then fail.
func NewRouter(chat ChatSender, broker Publisher) Sender {
	return &router{chat: chat, broker: broker}
}

func (r *router) Send(ctx context.Context, destination, text string) error {
	d, err := ParseDestination(destination)
	if err != nil {
		return err
	}

	switch d.Scheme {
	case schemeBroker:
		if r.broker == nil {
			return fmt.Errorf("%w %s", ErrNoTransport, d)
		}
		return r.broker.Publish(ctx, d.Exchange, text)
	default:
		if r.chat == nil {
			return fmt.Errorf("%w %s", ErrNoTransport, d)
		}
		return r.chat.SendMessage(ctx, d.ChatID, text)
	}
}
