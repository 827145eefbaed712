package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"hearth/internal/bookings/admission"
	bookingserrors "hearth/internal/bookings/errors"
	"hearth/internal/bookings/repository"
	"hearth/internal/bookings/validator"
	"hearth/pkg/config"
	mongotx "hearth/pkg/db/mongo"
	apperrors "hearth/pkg/errors"
	"hearth/pkg/interval"
	"hearth/pkg/logger"
	"hearth/pkg/model"
)

// Mock repository for testing
type mockBookingRepository struct {
	createFunc             func(ctx context.Context, booking *model.Booking) error
	findByIDFunc           func(ctx context.Context, id string) (*model.Booking, error)
	findOverlappingFunc    func(ctx context.Context, iv interval.Interval) (*model.Booking, error)
	findInRangeFunc        func(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	deleteWithTokenFunc    func(ctx context.Context, id string, token string) error
	executeTransactionFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "65f000000000000000000001"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, iv interval.Interval) (*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, iv)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindInRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	if m.findInRangeFunc != nil {
		return m.findInRangeFunc(ctx, from, to)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) DeleteWithToken(ctx context.Context, id string, token string) error {
	if m.deleteWithTokenFunc != nil {
		return m.deleteWithTokenFunc(ctx, id, token)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	return fn(nil)
}

type mockSlotLockRepository struct {
	createFunc func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
}

func (m *mockSlotLockRepository) Create(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockSlotLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

func (m *mockSlotLockRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

type capturingPublisher struct {
	mu        sync.Mutex
	created   []*model.Booking
	cancelled []string
}

func (p *capturingPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, booking)
	return nil
}

func (p *capturingPublisher) BookingCancelled(ctx context.Context, bookingID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, bookingID)
	return nil
}

func (p *capturingPublisher) Close() error {
	return nil
}

// memoryBookingRepository backs the concurrency tests with a real shared
// slice so racing transactions contend over actual state. txMu serializes
// transactions the way the storage engine would.
type memoryBookingRepository struct {
	txMu     sync.Mutex
	dataMu   sync.Mutex
	bookings []*model.Booking
	nextID   int
}

func (m *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	m.nextID++
	booking.ID = fmt.Sprintf("%024d", m.nextID)
	stored := *booking
	m.bookings = append(m.bookings, &stored)
	return nil
}

func (m *memoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			found := *b
			return &found, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *memoryBookingRepository) FindOverlapping(ctx context.Context, iv interval.Interval) (*model.Booking, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	for _, b := range m.bookings {
		if interval.Overlaps(b.Interval(), iv) {
			found := *b
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memoryBookingRepository) FindInRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.StartTime.Before(to) && b.EndTime.After(from) {
			found := *b
			out = append(out, &found)
		}
	}
	return out, nil
}

func (m *memoryBookingRepository) DeleteWithToken(ctx context.Context, id string, token string) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	for i, b := range m.bookings {
		if b.ID == id && b.DeleteToken == token {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return bookingserrors.ErrNotFound
}

func (m *memoryBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(nil)
}

func newTestConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     logger.LevelError,
			Format:    logger.FormatJSON,
			AddSource: false,
			Service:   "test",
		}),
		CreateMaxAttempts:  3,
		CreateRetryBackoff: time.Millisecond,
		SlotLockTTL:        10 * time.Second,
	}
}

func newTestService(t *testing.T, cfg *config.Config, repo repository.BookingRepository, lockRepo repository.SlotLockRepository, limit int) (*bookingService, *capturingPublisher) {
	t.Helper()

	store := admission.NewInMemoryCounterStore(time.Minute, time.Minute)
	t.Cleanup(store.Stop)

	publisher := &capturingPublisher{}
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		admitter:  admission.NewController(store, limit, time.Minute, cfg.Log),
		validator: validator.NewBookingValidator(cfg.Log),
		publisher: publisher,
		cfg:       cfg,
		clock:     time.Now,
	}, publisher
}

func testBooking(start, end time.Time) *model.Booking {
	return &model.Booking{
		Occupant:  "Alice",
		StartTime: start,
		EndTime:   end,
	}
}

func TestCreate_Success(t *testing.T) {
	cfg := newTestConfig()
	repo := &memoryBookingRepository{}
	svc, publisher := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 100)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	booking := testBooking(start, start.Add(time.Hour))
	booking.Occupant = "  Alice   Smith "

	receipt, err := svc.Create(context.Background(), booking, "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ID == "" {
		t.Error("expected receipt to carry a booking id")
	}
	if receipt.DeleteToken == "" {
		t.Error("expected receipt to carry a delete token")
	}
	if booking.Occupant != "Alice Smith" {
		t.Errorf("expected occupant normalized to %q, got %q", "Alice Smith", booking.Occupant)
	}

	if len(publisher.created) != 1 {
		t.Fatalf("expected 1 created event, got %d", len(publisher.created))
	}
}

func TestCreate_OverlapRejected(t *testing.T) {
	cfg := newTestConfig()

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	existing := testBooking(start, start.Add(time.Hour))
	existing.ID = "65f000000000000000000009"

	createCalled := false
	repo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, iv interval.Interval) (*model.Booking, error) {
			return existing, nil
		},
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			createCalled = true
			return nil
		},
	}
	svc, publisher := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 100)

	// Partially overlapping candidate
	_, err := svc.Create(context.Background(), testBooking(start.Add(30*time.Minute), start.Add(90*time.Minute)), "client-1")
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if createCalled {
		t.Error("create must not run once an overlap is found")
	}
	if len(publisher.created) != 0 {
		t.Error("no event may be published for a rejected booking")
	}
}

func TestCreate_AdjacentSlotsAllowed(t *testing.T) {
	cfg := newTestConfig()
	repo := &memoryBookingRepository{}
	svc, _ := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 100)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	if _, err := svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1"); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	// Back-to-back slot sharing only the boundary instant
	if _, err := svc.Create(context.Background(), testBooking(start.Add(time.Hour), start.Add(2*time.Hour)), "client-1"); err != nil {
		t.Fatalf("adjacent booking should be allowed: %v", err)
	}

	if len(repo.bookings) != 2 {
		t.Errorf("expected 2 committed bookings, got %d", len(repo.bookings))
	}
}

func TestCreate_SlotLockHeld(t *testing.T) {
	cfg := newTestConfig()

	lockRepo := &mockSlotLockRepository{
		createFunc: func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrSlotLocked, lock.ID)
		},
	}

	txCalled := false
	repo := &mockBookingRepository{
		executeTransactionFunc: func(ctx context.Context, fn mongotx.TransactionFunc) error {
			txCalled = true
			return fn(nil)
		},
	}
	svc, _ := newTestService(t, cfg, repo, lockRepo, 100)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1")
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict while slot lock is held, got %v", err)
	}
	if txCalled {
		t.Error("transaction must not run when the slot lock is held")
	}
}

func TestCreate_ConcurrentSameSlot(t *testing.T) {
	cfg := newTestConfig()
	repo := &memoryBookingRepository{}
	svc, publisher := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 1000)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	const racers = 8

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1")
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.IsCode(err, apperrors.CodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 winner, got %d", successes)
	}
	if conflicts != racers-1 {
		t.Errorf("expected %d conflicts, got %d", racers-1, conflicts)
	}
	if len(repo.bookings) != 1 {
		t.Errorf("expected exactly 1 committed booking, got %d", len(repo.bookings))
	}
	if len(publisher.created) != 1 {
		t.Errorf("expected exactly 1 created event, got %d", len(publisher.created))
	}
}

func TestCreate_RateLimited(t *testing.T) {
	cfg := newTestConfig()
	repo := &memoryBookingRepository{}
	svc, _ := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 2)

	base := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		start := base.Add(time.Duration(i) * 2 * time.Hour)
		if _, err := svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1"); err != nil {
			t.Fatalf("request %d should be admitted: %v", i+1, err)
		}
	}

	start := base.Add(10 * time.Hour)
	_, err := svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1")
	if !apperrors.IsCode(err, apperrors.CodeRateLimited) {
		t.Fatalf("expected rate limited error, got %v", err)
	}

	appErr := apperrors.AsAppError(err)
	seconds, ok := appErr.Details["retry_after_seconds"].(int)
	if !ok || seconds < 1 {
		t.Errorf("expected positive retry_after_seconds detail, got %v", appErr.Details["retry_after_seconds"])
	}

	// A different client is unaffected
	if _, err := svc.Create(context.Background(), testBooking(start.Add(2*time.Hour), start.Add(3*time.Hour)), "client-2"); err != nil {
		t.Errorf("other client should be admitted: %v", err)
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	cfg := newTestConfig()

	lockCalled := false
	lockRepo := &mockSlotLockRepository{
		createFunc: func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
			lockCalled = true
			return lock, nil
		},
	}
	repo := &memoryBookingRepository{}
	svc, _ := newTestService(t, cfg, repo, lockRepo, 100)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		booking *model.Booking
	}{
		{"empty occupant", &model.Booking{Occupant: "   ", StartTime: start, EndTime: start.Add(time.Hour)}},
		{"end equals start", &model.Booking{Occupant: "Alice", StartTime: start, EndTime: start}},
		{"end before start", &model.Booking{Occupant: "Alice", StartTime: start, EndTime: start.Add(-time.Hour)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.booking, "client-1")
			if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
				t.Fatalf("expected invalid input error, got %v", err)
			}
		})
	}

	if lockCalled {
		t.Error("slot lock must not be acquired for invalid input")
	}
	if len(repo.bookings) != 0 {
		t.Errorf("expected no committed bookings, got %d", len(repo.bookings))
	}
}

func TestCreate_TransientRetrySucceeds(t *testing.T) {
	cfg := newTestConfig()

	attempts := 0
	repo := &mockBookingRepository{
		executeTransactionFunc: func(ctx context.Context, fn mongotx.TransactionFunc) error {
			attempts++
			if attempts == 1 {
				return context.DeadlineExceeded
			}
			return fn(nil)
		},
	}
	svc, _ := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 100)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	receipt, err := svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if receipt == nil || receipt.ID == "" {
		t.Error("expected a receipt after successful retry")
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestCreate_RetriesExhausted(t *testing.T) {
	cfg := newTestConfig()

	attempts := 0
	repo := &mockBookingRepository{
		executeTransactionFunc: func(ctx context.Context, fn mongotx.TransactionFunc) error {
			attempts++
			return context.DeadlineExceeded
		},
	}
	svc, publisher := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 100)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1")
	if !apperrors.IsCode(err, apperrors.CodeUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if attempts != cfg.CreateMaxAttempts {
		t.Errorf("expected %d attempts, got %d", cfg.CreateMaxAttempts, attempts)
	}
	if len(publisher.created) != 0 {
		t.Error("no event may be published for an uncommitted booking")
	}
}

func TestDelete_TokenRoundTrip(t *testing.T) {
	cfg := newTestConfig()
	repo := &memoryBookingRepository{}
	svc, publisher := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 100)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	receipt, err := svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), receipt.ID, receipt.DeleteToken, "client-1"); err != nil {
		t.Fatalf("delete with issued token should succeed: %v", err)
	}
	if len(repo.bookings) != 0 {
		t.Errorf("expected booking removed, %d remain", len(repo.bookings))
	}
	if len(publisher.cancelled) != 1 || publisher.cancelled[0] != receipt.ID {
		t.Errorf("expected 1 cancelled event for %s, got %v", receipt.ID, publisher.cancelled)
	}

	// Second delete of the same id resolves as not found
	err = svc.Delete(context.Background(), receipt.ID, receipt.DeleteToken, "client-1")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found on repeated delete, got %v", err)
	}
}

func TestDelete_WrongToken(t *testing.T) {
	cfg := newTestConfig()
	repo := &memoryBookingRepository{}
	svc, publisher := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 100)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	receipt, err := svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = svc.Delete(context.Background(), receipt.ID, "not-the-token", "client-1")
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if len(repo.bookings) != 1 {
		t.Error("booking must remain after a rejected delete")
	}
	if len(publisher.cancelled) != 0 {
		t.Error("no cancelled event may be published for a rejected delete")
	}
}

func TestDelete_EmptyStoredTokenNeverMatches(t *testing.T) {
	cfg := newTestConfig()

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			// Legacy document without a token
			return &model.Booking{ID: id, Occupant: "Alice", DeleteToken: ""}, nil
		},
	}
	svc, _ := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 100)

	err := svc.Delete(context.Background(), "65f000000000000000000001", "", "client-1")
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for tokenless document, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	cfg := newTestConfig()
	svc, _ := newTestService(t, cfg, &mockBookingRepository{}, &mockSlotLockRepository{}, 100)

	err := svc.Delete(context.Background(), "65f000000000000000000001", "some-token", "client-1")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDelete_EmptyID(t *testing.T) {
	cfg := newTestConfig()
	svc, _ := newTestService(t, cfg, &mockBookingRepository{}, &mockSlotLockRepository{}, 100)

	err := svc.Delete(context.Background(), "", "some-token", "client-1")
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestDelete_RateLimited(t *testing.T) {
	cfg := newTestConfig()
	svc, _ := newTestService(t, cfg, &mockBookingRepository{}, &mockSlotLockRepository{}, 1)

	// First mutation consumes the window's only slot.
	_ = svc.Delete(context.Background(), "65f000000000000000000001", "some-token", "client-1")

	err := svc.Delete(context.Background(), "65f000000000000000000001", "some-token", "client-1")
	if !apperrors.IsCode(err, apperrors.CodeRateLimited) {
		t.Fatalf("expected rate limited error on second delete in window, got %v", err)
	}

	appErr := apperrors.AsAppError(err)
	seconds, ok := appErr.Details["retry_after_seconds"].(int)
	if !ok || seconds < 1 {
		t.Errorf("expected positive retry_after_seconds detail, got %v", appErr.Details["retry_after_seconds"])
	}

	// A different client is unaffected
	err = svc.Delete(context.Background(), "65f000000000000000000001", "some-token", "client-2")
	if apperrors.IsCode(err, apperrors.CodeRateLimited) {
		t.Error("other client should be admitted")
	}
}

func TestMutationsShareAdmissionWindow(t *testing.T) {
	cfg := newTestConfig()
	repo := &memoryBookingRepository{}
	svc, _ := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 1)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	receipt, err := svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Create and delete draw from the same per-client counter.
	err = svc.Delete(context.Background(), receipt.ID, receipt.DeleteToken, "client-1")
	if !apperrors.IsCode(err, apperrors.CodeRateLimited) {
		t.Fatalf("expected delete to be counted in the same window as create, got %v", err)
	}
	if len(repo.bookings) != 1 {
		t.Error("booking must remain after a rate-limited delete")
	}
}

func TestListRange_Validation(t *testing.T) {
	cfg := newTestConfig()
	svc, _ := newTestService(t, cfg, &mockBookingRepository{}, &mockSlotLockRepository{}, 100)

	now := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		from time.Time
		to   time.Time
	}{
		{"zero from", time.Time{}, now},
		{"zero to", now, time.Time{}},
		{"inverted", now.Add(time.Hour), now},
		{"equal", now, now},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ListRange(context.Background(), tc.from, tc.to)
			if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
				t.Fatalf("expected invalid input error, got %v", err)
			}
		})
	}
}

func TestListRange_ReturnsOverlappingBookings(t *testing.T) {
	cfg := newTestConfig()
	repo := &memoryBookingRepository{}
	svc, _ := newTestService(t, cfg, repo, &mockSlotLockRepository{}, 100)

	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * 2 * time.Hour)
		if _, err := svc.Create(context.Background(), testBooking(start, start.Add(time.Hour)), "client-1"); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	// Window covering only the middle booking
	bookings, err := svc.ListRange(context.Background(), base.Add(90*time.Minute), base.Add(210*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking in range, got %d", len(bookings))
	}
	if !bookings[0].StartTime.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("unexpected booking in range: %+v", bookings[0])
	}
}
