package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hotel-pms/models"
)

// memStore is an in-memory Store. InTx snapshots every table and restores
// it when fn fails, which is enough to observe all-or-nothing writes.
type memStore struct {
	mu sync.Mutex

	rooms    map[uint]models.Room
	guests   map[uint]models.Guest
	plans    map[uint]models.RatePlan
	bookings map[uint]models.Booking
	events   []models.BookingEvent
	checkIns map[uint]models.CheckIn
	nextID   uint

	// duplicateIDs makes CreateCheckIn reject these check-in ids once.
	duplicateIDs map[string]bool
	// locks lists the rows read for update, in order.
	locks []string
}

func newMemStore() *memStore {
	return &memStore{
		rooms:        map[uint]models.Room{},
		guests:       map[uint]models.Guest{},
		plans:        map[uint]models.RatePlan{},
		bookings:     map[uint]models.Booking{},
		checkIns:     map[uint]models.CheckIn{},
		nextID:       100,
		duplicateIDs: map[string]bool{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

type memSnapshot struct {
	rooms    map[uint]models.Room
	bookings map[uint]models.Booking
	checkIns map[uint]models.CheckIn
	events   []models.BookingEvent
}

func (m *memStore) snapshot() memSnapshot {
	s := memSnapshot{
		rooms:    map[uint]models.Room{},
		bookings: map[uint]models.Booking{},
		checkIns: map[uint]models.CheckIn{},
		events:   append([]models.BookingEvent(nil), m.events...),
	}
	for k, v := range m.rooms {
		s.rooms[k] = v
	}
	for k, v := range m.bookings {
		s.bookings[k] = v
	}
	for k, v := range m.checkIns {
		s.checkIns[k] = v
	}
	return s
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	snap := m.snapshot()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.rooms, m.bookings, m.checkIns, m.events = snap.rooms, snap.bookings, snap.checkIns, snap.events
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Room(_ context.Context, id uint, forUpdate bool) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if forUpdate {
		m.locks = append(m.locks, fmt.Sprintf("room:%d", id))
	}
	r, ok := m.rooms[id]
	if !ok {
		return nil, notFound("room", id)
	}
	return &r, nil
}

func (m *memStore) RoomsByStatus(_ context.Context, status models.RoomStatus) ([]models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Room{}
	for _, r := range m.rooms {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) SaveRoom(_ context.Context, room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[room.ID] = *room
	return nil
}

func (m *memStore) Guest(_ context.Context, id uint) (*models.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guests[id]
	if !ok {
		return nil, notFound("guest", id)
	}
	return &g, nil
}

func (m *memStore) RatePlan(_ context.Context, id uint) (*models.RatePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, notFound("rate plan", id)
	}
	return &p, nil
}

func (m *memStore) Booking(_ context.Context, id uint, forUpdate bool) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if forUpdate {
		m.locks = append(m.locks, fmt.Sprintf("booking:%d", id))
	}
	b, ok := m.bookings[id]
	if !ok {
		return nil, notFound("booking", id)
	}
	return &b, nil
}

func (m *memStore) BookingsOverlapping(_ context.Context, roomID uint, r DateRange, statuses []models.BookingStatus) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.bookings {
		if roomID != 0 && b.RoomID != roomID {
			continue
		}
		match := false
		for _, s := range statuses {
			if b.Status == s {
				match = true
			}
		}
		if match && Overlaps(r.From, r.To, b.CheckInDate, b.CheckOutDate) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateBooking(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.id()
	m.bookings[b.ID] = *b
	return nil
}

func (m *memStore) SaveBooking(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = *b
	return nil
}

func (m *memStore) ListBookings(_ context.Context, f BookingFilter) ([]models.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(b.ReferenceCode, f.Search) {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) RecordEvent(_ context.Context, ev *models.BookingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev.ID = m.id()
	m.events = append(m.events, *ev)
	return nil
}

func (m *memStore) BookingEvents(_ context.Context, bookingID uint) ([]models.BookingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.BookingEvent{}
	for _, ev := range m.events {
		if ev.BookingID == bookingID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) ApplyMutation(ctx context.Context, mut *Mutation) error {
	if err := m.SaveBooking(ctx, &mut.Booking); err != nil {
		return err
	}
	if mut.Room != nil {
		if err := m.SaveRoom(ctx, mut.Room); err != nil {
			return err
		}
	}
	return m.RecordEvent(ctx, &mut.Event)
}

func (m *memStore) CheckIn(_ context.Context, id uint) (*models.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.checkIns[id]
	if !ok {
		return nil, notFound("check-in", id)
	}
	return &c, nil
}

func (m *memStore) CheckInByBooking(_ context.Context, bookingID uint) (*models.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.checkIns {
		if c.BookingID != nil && *c.BookingID == bookingID {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memStore) CheckInsOnDay(_ context.Context, roomID uint, day DateRange, excludeID uint) ([]models.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CheckIn{}
	for _, c := range m.checkIns {
		if c.RoomID != roomID || c.ID == excludeID {
			continue
		}
		if !c.ActualCheckInTime.Before(day.From) && c.ActualCheckInTime.Before(day.To) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) CountCheckInIDs(_ context.Context, prefix string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.checkIns {
		if strings.HasPrefix(c.CheckInID, prefix) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateCheckIn(_ context.Context, c *models.CheckIn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.duplicateIDs[c.CheckInID] {
		delete(m.duplicateIDs, c.CheckInID)
		return ErrDuplicateKey
	}
	for _, other := range m.checkIns {
		if other.CheckInID == c.CheckInID {
			return ErrDuplicateKey
		}
	}
	c.ID = m.id()
	m.checkIns[c.ID] = *c
	return nil
}

func (m *memStore) SaveCheckIn(_ context.Context, c *models.CheckIn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkIns[c.ID] = *c
	return nil
}

func (m *memStore) ListCheckIns(_ context.Context, f CheckInFilter) ([]models.CheckIn, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CheckIn{}
	for _, c := range m.checkIns {
		if f.Window != nil && (c.ActualCheckInTime.Before(f.Window.From) || !c.ActualCheckInTime.Before(f.Window.To)) {
			continue
		}
		if f.PaymentStatus != "" && c.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.IDVerified != nil && c.IDProofVerified != *f.IDVerified {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *memStore) CheckInStats(_ context.Context, today DateRange) (*CheckInStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &CheckInStats{TotalCheckIns: int64(len(m.checkIns))}
	for _, c := range m.checkIns {
		if !c.ActualCheckInTime.Before(today.From) && c.ActualCheckInTime.Before(today.To) {
			st.TodaysCheckIns++
		}
		if c.PaymentStatus == models.PaymentPending {
			st.PendingPayments++
		}
		if !c.IDProofVerified {
			st.UnverifiedIDs++
		}
	}
	for _, r := range m.rooms {
		if r.Status == models.RoomAvailable {
			st.AvailableRooms++
		}
	}
	return st, nil
}

// fixture helpers

var testNow = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func day(offset int) time.Time {
	return models.DateOnly(testNow).AddDate(0, 0, offset)
}

func intPtr(v int) *int { return &v }

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []LifecycleMessage
}

func (p *recordingPublisher) Publish(_ context.Context, msg LifecycleMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) events() []models.LifecycleEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.LifecycleEvent, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, m.Event)
	}
	return out
}
