package adaptor

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpdateKey(t *testing.T) {
	assert.Equal(t, "42:-100", UpdateKey(textUpdate(42, -100, "hi")))
	assert.Equal(t, "42:42", UpdateKey(callbackUpdate(42, 42, CallbackHome)))
	assert.Equal(t, "0:-200", UpdateKey(&models.Update{ChannelPost: &models.Message{Chat: models.Chat{ID: -200}}}))

	inaccessible := &models.Update{CallbackQuery: &models.CallbackQuery{
		From: models.User{ID: 7},
		Message: models.MaybeInaccessibleMessage{
			Type:                models.MaybeInaccessibleMessageTypeInaccessibleMessage,
			InaccessibleMessage: &models.InaccessibleMessage{Chat: models.Chat{ID: 9}},
		},
	}}
	assert.Equal(t, "7:9", UpdateKey(inaccessible))
}

func TestDispatcherKeepsPerSessionOrder(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[string][]string{}
	)
	d := NewDispatcher(4, func(_ context.Context, u *models.Update) {
		mu.Lock()
		defer mu.Unlock()
		key := UpdateKey(u)
		seen[key] = append(seen[key], u.Message.Text)
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	const perSession = 50
	users := []int64{1, 2, 3, 4, 5}
	for i := 0; i < perSession; i++ {
		for _, u := range users {
			d.Submit(ctx, textUpdate(u, u, strconv.Itoa(i)))
		}
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, u := range users {
			if len(seen[UpdateKey(textUpdate(u, u, ""))]) != perSession {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	for _, u := range users {
		got := seen[UpdateKey(textUpdate(u, u, ""))]
		for i, text := range got {
			assert.Equal(t, strconv.Itoa(i), text, "user %d", u)
		}
	}
}

func TestDispatcherRunsLanesConcurrently(t *testing.T) {
	release := make(chan struct{})
	handled := make(chan int64, 2)

	d := NewDispatcher(8, func(_ context.Context, u *models.Update) {
		if u.Message.From.ID == 1 {
			<-release
		}
		handled <- u.Message.From.ID
	}, zap.NewNop())

	blocked := textUpdate(1, 1, "slow")
	other := blocked
	for id := int64(2); ; id++ {
		other = textUpdate(id, id, "fast")
		if d.lane(other) != d.lane(blocked) {
			break
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	d.Submit(ctx, blocked)
	d.Submit(ctx, other)

	select {
	case id := <-handled:
		assert.Equal(t, other.Message.From.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("second session waited for the first")
	}
	close(release)
	assert.Equal(t, int64(1), <-handled)
}

func TestSubmitReturnsAfterCancel(t *testing.T) {
	d := NewDispatcher(1, func(context.Context, *models.Update) {}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// nothing drains the lane; a full lane must not block a canceled submit
	for i := 0; i < laneBuffer+1; i++ {
		d.Submit(ctx, textUpdate(1, 1, "x"))
	}
}
