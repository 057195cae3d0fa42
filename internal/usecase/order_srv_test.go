package usecase

import (
	"context"
	"errors"
	"testing"

	"venue-bot/internal/dto/request"
	"venue-bot/internal/notify"
	"venue-bot/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const colaOrder = `{"type":"preorder","phone":"+79991112233","desired_time":"19:30","total":500,"items":[{"name":"Cola","qty":2,"sum":500}]}`

func newOrderService(notifier *fakeBroadcaster, guest *fakeGuest, echo bool) OrderService {
	return NewOrderService(notifier, guest, utils.NotifyConfig{EchoSourceChat: echo, ErrorExcerptLen: 300}, zap.NewNop())
}

var private = Source{ChatID: 42, ChatType: "private"}

func TestIngestForwardsPreorder(t *testing.T) {
	notifier := &fakeBroadcaster{}
	replier := &fakeReplier{}
	svc := newOrderService(notifier, newFakeGuest(), true)

	result := svc.Ingest(context.Background(), ivan, private, colaOrder, replier)

	assert.Equal(t, IngestDelivered, result.Status)
	require.Len(t, notifier.texts, 1)
	for _, want := range []string{"Cola", "2", "500", "+79991112233", "@ivan"} {
		assert.Contains(t, notifier.texts[0], want)
	}
	assert.Empty(t, notifier.extras[0], "private chats are not echoed")
	assert.Equal(t, []string{OrderAcceptedText}, replier.texts)
}

func TestIngestRejectsOtherType(t *testing.T) {
	notifier := &fakeBroadcaster{}
	replier := &fakeReplier{}
	svc := newOrderService(notifier, newFakeGuest(), true)

	result := svc.Ingest(context.Background(), ivan, private, `{"type":"other"}`, replier)

	assert.Equal(t, IngestNotPreorder, result.Status)
	assert.Empty(t, notifier.texts)
	assert.Equal(t, []string{OrderNotPreorderText}, replier.texts)
}

func TestIngestTreatsNonObjectAsOtherType(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `"preorder"`} {
		notifier := &fakeBroadcaster{}
		replier := &fakeReplier{}
		svc := newOrderService(notifier, newFakeGuest(), true)

		result := svc.Ingest(context.Background(), ivan, private, raw, replier)

		assert.Equal(t, IngestNotPreorder, result.Status, raw)
		assert.Empty(t, notifier.texts, raw)
		assert.Equal(t, []string{OrderNotPreorderText}, replier.texts, raw)
	}
}

func TestIngestRejectsMalformed(t *testing.T) {
	notifier := &fakeBroadcaster{}
	replier := &fakeReplier{}
	svc := newOrderService(notifier, newFakeGuest(), true)

	result := svc.Ingest(context.Background(), ivan, private, `{not json`, replier)

	assert.Equal(t, IngestMalformed, result.Status)
	assert.Empty(t, notifier.texts)
	assert.Equal(t, []string{OrderMalformedText}, replier.texts)
	assert.NotEqual(t, OrderMalformedText, OrderNotPreorderText)
}

func TestIngestEchoesSharedSourceChat(t *testing.T) {
	notifier := &fakeBroadcaster{}
	guest := newFakeGuest()
	svc := newOrderService(notifier, guest, true)

	group := Source{ChatID: -100500, ChatType: "supergroup"}
	svc.Ingest(context.Background(), ivan, group, colaOrder, &fakeReplier{})

	require.Len(t, notifier.extras, 1)
	assert.Equal(t, []string{"-100500"}, notifier.extras[0])
	assert.Equal(t, []string{OrderDMText}, guest.messages[42], "guest gets a private acknowledgment")

	notifier = &fakeBroadcaster{}
	svc = newOrderService(notifier, newFakeGuest(), false)
	svc.Ingest(context.Background(), ivan, group, colaOrder, &fakeReplier{})
	assert.Empty(t, notifier.extras[0])
}

func TestIngestPrivateAckFailureIsIgnored(t *testing.T) {
	guest := newFakeGuest()
	guest.err = errors.New("Forbidden: bot can't initiate conversation with a user")
	replier := &fakeReplier{}
	svc := newOrderService(&fakeBroadcaster{}, guest, true)

	result := svc.Ingest(context.Background(), ivan, Source{ChatID: -1, ChatType: "group"}, colaOrder, replier)

	assert.Equal(t, IngestDelivered, result.Status)
	assert.Equal(t, []string{OrderAcceptedText}, replier.texts)
}

func TestIngestNothingDelivered(t *testing.T) {
	notifier := &fakeBroadcaster{result: func([]string) notify.Result {
		return notify.Result{
			Attempted: 2,
			Errors: []notify.DeliveryError{
				{Destination: "-1001", Err: errors.New("Bad Request: chat not found")},
				{Destination: "amqp:staff", Err: errors.New("channel closed")},
			},
		}
	}}
	guest := newFakeGuest()
	replier := &fakeReplier{}
	svc := newOrderService(notifier, guest, true)

	result := svc.Ingest(context.Background(), ivan, Source{ChatID: -5, ChatType: "group"}, colaOrder, replier)

	assert.Equal(t, IngestUndelivered, result.Status)
	require.Len(t, replier.texts, 1)
	assert.Contains(t, replier.texts[0], OrderUndeliveredText)
	assert.Contains(t, replier.texts[0], "chat not found")
	assert.NotEqual(t, OrderMalformedText, replier.texts[0])
	assert.Empty(t, guest.messages)
}

func TestIngestAnonymousSubmitter(t *testing.T) {
	notifier := &fakeBroadcaster{}
	svc := newOrderService(notifier, newFakeGuest(), false)

	svc.Ingest(context.Background(), request.Submitter{}, Source{ChatID: -7, ChatType: "channel"}, colaOrder, &fakeReplier{})

	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "От: "+request.UnknownSubmitter)
}
