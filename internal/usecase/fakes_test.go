package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"venue-bot/internal/conversation"
	"venue-bot/internal/data/entity"
	"venue-bot/internal/data/repository"
	"venue-bot/internal/notify"

	"github.com/hibiken/asynq"
)

// events is a shared, ordered trace of side effects across fakes.
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, fmt.Sprintf(format, args...))
}

func (e *events) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  map[int64]*entity.Booking
	nextID    int64
	createErr error
	markErr   error
	creates   int
	trace     *events
}

func newFakeBookingRepo(trace *events) *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[int64]*entity.Booking{}, nextID: 1, trace: trace}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *entity.Booking) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.trace != nil {
		r.trace.add("store")
	}
	if r.createErr != nil {
		return 0, r.createErr
	}
	b.ID = r.nextID
	b.CreatedAt = time.Now()
	r.nextID++
	stored := *b
	r.bookings[b.ID] = &stored
	return b.ID, nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id int64) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindPending(_ context.Context, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for id := r.nextID - 1; id > 0; id-- {
		if b, ok := r.bookings[id]; ok && b.Pending() {
			cp := *b
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) CountPending(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.Pending() {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) MarkReminderSent(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	b, ok := r.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	b.ReminderSent = true
	return nil
}

func (r *fakeBookingRepo) MarkCanceled(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	b.Canceled = true
	return nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	texts  []string
	extras [][]string
	result func(extra []string) notify.Result
	trace  *events
}

func (b *fakeBroadcaster) Broadcast(_ context.Context, text string, extra ...string) notify.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.texts = append(b.texts, text)
	b.extras = append(b.extras, extra)
	if b.trace != nil {
		b.trace.add("broadcast")
	}
	if b.result != nil {
		return b.result(extra)
	}
	return notify.Result{Attempted: 1 + len(extra), Delivered: 1 + len(extra)}
}

func (b *fakeBroadcaster) Destinations() []string {
	return []string{"-100"}
}

type fakeReplier struct {
	texts     []string
	keyboards []conversation.Keyboard
	err       error
	trace     *events
}

func (r *fakeReplier) Reply(_ context.Context, text string, keyboard conversation.Keyboard) error {
	r.texts = append(r.texts, text)
	r.keyboards = append(r.keyboards, keyboard)
	if r.trace != nil {
		r.trace.add("reply:%s", text)
	}
	return r.err
}

func (r *fakeReplier) last() string {
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

type fakeGuest struct {
	mu        sync.Mutex
	messages  map[int64][]string
	reminders []int64
	err       error
}

func newFakeGuest() *fakeGuest {
	return &fakeGuest{messages: map[int64][]string{}}
}

func (g *fakeGuest) SendMessage(_ context.Context, chatID int64, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.messages[chatID] = append(g.messages[chatID], text)
	return nil
}

func (g *fakeGuest) SendReminder(_ context.Context, chatID, bookingID int64, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.reminders = append(g.reminders, bookingID)
	g.messages[chatID] = append(g.messages[chatID], text)
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (q *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	q.opts = append(q.opts, opts)
	return &asynq.TaskInfo{ID: fmt.Sprint(len(q.tasks)), Type: task.Type(), NextProcessAt: time.Now()}, nil
}

var errStoreDown = errors.New("store down")
