package adaptor

import (
	"context"
	"sync"
	"time"

	"venue-bot/internal/data/entity"
	"venue-bot/internal/data/repository"
	"venue-bot/internal/notify"

	"github.com/go-telegram/bot/models"
)

type sent struct {
	chatID int64
	kind   string
	text   string
	markup models.ReplyMarkup
}

type fakeMessenger struct {
	mu       sync.Mutex
	sent     []sent
	deleted  []int
	pinned   []int
	answered []string
	nextID   int
	sendErr  error
}

func (m *fakeMessenger) record(chatID int64, kind, text string, markup models.ReplyMarkup) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	m.nextID++
	m.sent = append(m.sent, sent{chatID: chatID, kind: kind, text: text, markup: markup})
	return &models.Message{ID: m.nextID, Chat: models.Chat{ID: chatID}}, nil
}

func (m *fakeMessenger) SendText(_ context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error) {
	return m.record(chatID, "text", text, markup)
}

func (m *fakeMessenger) SendMarkdown(_ context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error) {
	return m.record(chatID, "markdown", text, markup)
}

func (m *fakeMessenger) SendPhoto(_ context.Context, chatID int64, path, caption string, markup models.ReplyMarkup) (*models.Message, error) {
	return m.record(chatID, "photo:"+path, caption, markup)
}

func (m *fakeMessenger) SendDocument(_ context.Context, chatID int64, path string, markup models.ReplyMarkup) error {
	_, err := m.record(chatID, "document", path, markup)
	return err
}

func (m *fakeMessenger) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *fakeMessenger) PinMessage(_ context.Context, _ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pinned = append(m.pinned, messageID)
	return nil
}

func (m *fakeMessenger) AnswerCallback(_ context.Context, callbackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered = append(m.answered, callbackID)
	return nil
}

func (m *fakeMessenger) Username() string {
	return "venue_bot"
}

func (m *fakeMessenger) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, s := range m.sent {
		out = append(out, s.text)
	}
	return out
}

func (m *fakeMessenger) last() sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sent{}
	}
	return m.sent[len(m.sent)-1]
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  map[int64]*entity.Booking
	nextID    int64
	createErr error
	onCreate  func()
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[int64]*entity.Booking{}, nextID: 1}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *entity.Booking) (int64, error) {
	if r.onCreate != nil {
		r.onCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *fakeBookingRepo) put(b entity.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = &b
	if b.ID >= r.nextID {
		r.nextID = b.ID + 1
	}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	texts  []string
	result notify.Result
}

func (b *fakeBroadcaster) Broadcast(_ context.Context, text string, _ ...string) notify.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.texts = append(b.texts, text)
	return b.result
}

func (b *fakeBroadcaster) Destinations() []string {
	return []string{"-100"}
}
