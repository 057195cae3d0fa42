package usecase

import (
	"context"
	"testing"
	"time"

	"venue-bot/internal/conversation"
	"venue-bot/internal/data/repository"
	"venue-bot/internal/dto/request"
	"venue-bot/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type conversationFixture struct {
	svc      ConversationService
	sessions repository.SessionRepository
	repo     *fakeBookingRepo
	notifier *fakeBroadcaster
	queue    *fakeEnqueuer
	replier  *fakeReplier
	trace    *events
}

func newConversationFixture(t *testing.T, reminders bool) *conversationFixture {
	t.Helper()
	trace := &events{}
	f := &conversationFixture{
		sessions: repository.NewMemorySessionRepository(),
		repo:     newFakeBookingRepo(trace),
		notifier: &fakeBroadcaster{trace: trace},
		queue:    &fakeEnqueuer{},
		replier:  &fakeReplier{trace: trace},
		trace:    trace,
	}
	log := zap.NewNop()
	booking := NewBookingService(f.repo, f.notifier, log)
	reminder := NewReminderService(f.repo, newFakeGuest(), f.queue,
		utils.ReminderConfig{Enabled: reminders, Delay: 2 * time.Hour}, log)
	f.svc = NewConversationService(f.sessions, booking, reminder, f.notifier, log)
	return f
}

var ivan = request.Submitter{ID: 42, Username: "ivan", FirstName: "Ivan"}

func (f *conversationFixture) feed(t *testing.T, inputs ...conversation.Input) (*Outcome, error) {
	t.Helper()
	var (
		out *Outcome
		err error
	)
	for _, in := range inputs {
		out, err = f.svc.Handle(context.Background(), ivan, 42, in, f.replier)
	}
	return out, err
}

func bookingInputs(comment string) []conversation.Input {
	return []conversation.Input{
		conversation.Enter(),
		conversation.Text("26.01"),
		conversation.Text("19:30"),
		conversation.Text("4"),
		conversation.Text("Ivan"),
		conversation.Text("+79990000000"),
		conversation.Text(comment),
	}
}

func TestConversationCompletesBooking(t *testing.T) {
	f := newConversationFixture(t, false)

	out, err := f.feed(t, bookingInputs("-")...)
	require.NoError(t, err)
	require.True(t, out.Handled)
	assert.Equal(t, int64(1), out.BookingID)

	stored, err := f.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "", stored.Comment)
	assert.Equal(t, 4, stored.Guests)
	assert.Equal(t, "Ivan", stored.Name)
	require.NotNil(t, stored.TgUserID)
	assert.Equal(t, int64(42), *stored.TgUserID)
	assert.Equal(t, 1, f.repo.creates)

	require.Len(t, f.notifier.texts, 1)
	assert.Contains(t, f.notifier.texts[0], "Гостей: 4")
	assert.Contains(t, f.notifier.texts[0], "Имя: Ivan")
	assert.Contains(t, f.notifier.texts[0], "#1")

	assert.Equal(t, conversation.Confirmation(1), f.replier.last())
	assert.Contains(t, f.replier.last(), "#1")

	session, err := f.sessions.Get(context.Background(), conversation.Key{UserID: 42, ChatID: 42})
	require.NoError(t, err)
	assert.False(t, session.Active())
}

func TestConversationStoreThenConfirmThenBroadcast(t *testing.T) {
	f := newConversationFixture(t, false)

	_, err := f.feed(t, bookingInputs("у окна")...)
	require.NoError(t, err)

	trace := f.trace.all()
	require.GreaterOrEqual(t, len(trace), 3)
	assert.Equal(t, []string{"store", "reply:" + conversation.Confirmation(1), "broadcast"}, trace[len(trace)-3:])
}

func TestConversationStoreFailure(t *testing.T) {
	f := newConversationFixture(t, false)
	f.repo.createErr = errStoreDown

	out, err := f.feed(t, bookingInputs("-")...)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookingNotSaved)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Zero(t, out.BookingID)

	assert.Empty(t, f.notifier.texts)
	assert.Equal(t, SaveFailedText, f.replier.last())
	for _, text := range f.replier.texts {
		assert.NotContains(t, text, "Бронь принята")
	}

	session, err := f.sessions.Get(context.Background(), conversation.Key{UserID: 42, ChatID: 42})
	require.NoError(t, err)
	assert.False(t, session.Active())
}

func TestConversationIdleTextIsNotHandled(t *testing.T) {
	f := newConversationFixture(t, false)

	out, err := f.feed(t, conversation.Text("привет"))
	require.NoError(t, err)
	assert.False(t, out.Handled)
	assert.Empty(t, f.replier.texts)
}

func TestConversationCancelAndHome(t *testing.T) {
	f := newConversationFixture(t, false)

	out, err := f.feed(t, conversation.Enter(), conversation.Text("26.01"), conversation.Cancel())
	require.NoError(t, err)
	assert.True(t, out.Handled)
	assert.Equal(t, conversation.CancelAck, f.replier.last())

	out, err = f.feed(t, conversation.Enter(), conversation.Home())
	require.NoError(t, err)
	assert.True(t, out.ShowHome)

	out, err = f.feed(t, conversation.Text("19:30"))
	require.NoError(t, err)
	assert.False(t, out.Handled, "home must leave the session idle")
	assert.Zero(t, f.repo.creates)
}

func TestConversationSessionsAreIsolated(t *testing.T) {
	f := newConversationFixture(t, false)
	ctx := context.Background()
	anna := request.Submitter{ID: 7, FirstName: "Anna"}

	_, err := f.svc.Handle(ctx, ivan, 42, conversation.Enter(), f.replier)
	require.NoError(t, err)

	// same user in a group chat has no dialogue there
	out, err := f.svc.Handle(ctx, ivan, -100, conversation.Text("26.01"), f.replier)
	require.NoError(t, err)
	assert.False(t, out.Handled)

	out, err = f.svc.Handle(ctx, anna, 42, conversation.Text("26.01"), f.replier)
	require.NoError(t, err)
	assert.False(t, out.Handled)

	session, err := f.sessions.Get(ctx, conversation.Key{UserID: 42, ChatID: 42})
	require.NoError(t, err)
	assert.Equal(t, conversation.StateAwaitDate, session.State)
}

func TestConversationSchedulesReminder(t *testing.T) {
	f := newConversationFixture(t, true)

	_, err := f.feed(t, bookingInputs("-")...)
	require.NoError(t, err)

	require.Len(t, f.queue.tasks, 1)
	assert.Equal(t, TypeBookingReminder, f.queue.tasks[0].Type())
}
