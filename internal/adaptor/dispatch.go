package adaptor

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const laneBuffer = 64

// Dispatcher spreads updates over a fixed set of lanes. Updates with the
// same (user, chat) key always land in the same lane, so they are handled
// one at a time and in arrival order.
type Dispatcher struct {
	lanes  []chan *models.Update
	handle func(ctx context.Context, update *models.Update)
	log    *zap.Logger
}

func NewDispatcher(lanes int, handle func(ctx context.Context, update *models.Update), log *zap.Logger) *Dispatcher {
	if lanes < 1 {
		lanes = 1
	}

	d := &Dispatcher{
		lanes:  make([]chan *models.Update, lanes),
		handle: handle,
		log:    log.With(zap.String("component", "dispatcher")),
	}
	for i := range d.lanes {
		d.lanes[i] = make(chan *models.Update, laneBuffer)
	}
	return d
}

// Run works the lanes until ctx is done. Updates still queued at that
// point are dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range d.lanes {
		lane := d.lanes[i]
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case update := <-lane:
					d.handle(ctx, update)
				}
			}
		})
	}

	d.log.Info("Dispatcher started", zap.Int("lanes", len(d.lanes)))
	return g.Wait()
}

// Submit queues update on its lane. It blocks while the lane is full.
func (d *Dispatcher) Submit(ctx context.Context, update *models.Update) {
	select {
	case d.lanes[d.lane(update)] <- update:
	case <-ctx.Done():
	}
}

func (d *Dispatcher) lane(update *models.Update) int {
	return int(xxhash.Sum64String(UpdateKey(update)) % uint64(len(d.lanes)))
}

// UpdateKey identifies the session an update belongs to as "user:chat".
func UpdateKey(update *models.Update) string {
	var userID, chatID int64

	switch {
	case update.Message != nil:
		chatID = update.Message.Chat.ID
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
	case update.CallbackQuery != nil:
		userID = update.CallbackQuery.From.ID
		chatID, _ = callbackChatID(update.CallbackQuery)
	case update.ChannelPost != nil:
		chatID = update.ChannelPost.Chat.ID
	}

	return strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(chatID, 10)
}
