package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"hearth/internal/bookings/admission"
	bookingserrors "hearth/internal/bookings/errors"
	"hearth/internal/bookings/events"
	"hearth/internal/bookings/repository"
	"hearth/internal/bookings/validator"
	"hearth/pkg/config"
	mongotx "hearth/pkg/db/mongo"
	apperrors "hearth/pkg/errors"
	"hearth/pkg/model"
	"hearth/pkg/sanitizer"
	"hearth/pkg/token"
)

type BookingService interface {
	// Create runs the booking transaction protocol: admission, input
	// validation, then an atomic overlap-check-and-insert. On success the
	// receipt carries the delete token, returned to the caller exactly
	// once.
	Create(ctx context.Context, booking *model.Booking, clientKey string) (*model.BookingReceipt, error)
	// Delete cancels a booking when the supplied capability token matches
	// the stored one. Like Create, it is a mutation and counts against the
	// caller's admission window.
	Delete(ctx context.Context, id string, suppliedToken string, clientKey string) error
	ListRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	admitter  *admission.Controller
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	clock     func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	admitter *admission.Controller,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		admitter:  admitter,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
		clock:     time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking, clientKey string) (*model.BookingReceipt, error) {
	if decision := s.admitter.Admit(clientKey, s.clock()); !decision.Allowed {
		return nil, apperrors.RateLimited(decision.RetryAfter)
	}

	booking.Occupant = sanitizer.NormalizeOccupant(booking.Occupant)
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.InvalidInput(err.Error())
	}

	booking.DeleteToken = token.Issue()

	// Advisory lock on the slot coordinates serializes creators racing for
	// the identical slot before the transaction runs; overlapping but
	// non-identical slots are caught by the transactional overlap check.
	lockID, err := s.acquireSlotLock(ctx, booking)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	if err := s.commitWithRetry(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.publisher.BookingCreated(ctx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking created event", "id", booking.ID, "error", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)

	return &model.BookingReceipt{
		ID:          booking.ID,
		DeleteToken: booking.DeleteToken,
	}, nil
}

// commitWithRetry executes the check-then-create transaction, retrying a
// bounded number of times with a fixed backoff when the storage layer
// reports a transient failure. A committed overlap is final and is never
// retried.
func (s *bookingService) commitWithRetry(ctx context.Context, booking *model.Booking) error {
	var err error
	for attempt := 1; attempt <= s.cfg.CreateMaxAttempts; attempt++ {
		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			existing, findErr := s.repo.FindOverlapping(sessCtx, booking.Interval())
			if findErr != nil {
				return apperrors.Internal("Failed to check existing bookings", findErr)
			}
			if existing != nil {
				return apperrors.Conflict(fmt.Sprintf(
					"Time slot already booked (%s - %s)",
					existing.StartTime.Format(time.RFC3339),
					existing.EndTime.Format(time.RFC3339),
				))
			}
			if createErr := s.repo.Create(sessCtx, booking); createErr != nil {
				return apperrors.Internal("Failed to create booking", createErr)
			}
			return nil
		})
		if err == nil {
			return nil
		}
		if !mongotx.IsTransient(err) {
			s.cfg.Log.Error("Failed to create booking", "error", err)
			return err
		}
		if attempt < s.cfg.CreateMaxAttempts {
			s.cfg.Log.Warn("Transient failure committing booking, retrying",
				"attempt", attempt,
				"max_attempts", s.cfg.CreateMaxAttempts,
				"error", err,
			)
			time.Sleep(s.cfg.CreateRetryBackoff)
		}
	}

	s.cfg.Log.Error("Booking commit retries exhausted", "attempts", s.cfg.CreateMaxAttempts, "error", err)
	return apperrors.New(apperrors.CodeUnavailable, "Could not commit booking, please try again", 503)
}

func (s *bookingService) Delete(ctx context.Context, id string, suppliedToken string, clientKey string) error {
	if decision := s.admitter.Admit(clientKey, s.clock()); !decision.Allowed {
		return apperrors.RateLimited(decision.RetryAfter)
	}

	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to retrieve booking", err)
	}

	if !token.Match(booking.DeleteToken, suppliedToken) {
		s.cfg.Log.Warn("Booking delete denied, token mismatch", "id", id)
		return apperrors.Unauthorized("Delete token does not match")
	}

	// Compare-and-delete: the filter includes the token, so a concurrent
	// delete of the same id resolves here as not found rather than
	// removing someone else's re-created booking.
	if err := s.repo.DeleteWithToken(ctx, id, booking.DeleteToken); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	if err := s.publisher.BookingCancelled(ctx, id); err != nil {
		s.cfg.Log.Warn("Failed to publish booking cancelled event", "id", id, "error", err)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

func (s *bookingService) ListRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	if from.IsZero() || to.IsZero() {
		return nil, apperrors.InvalidInput("Both range start and range end are required")
	}
	if !from.Before(to) {
		return nil, apperrors.InvalidInput("Range start must be before range end")
	}

	bookings, err := s.repo.FindInRange(ctx, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

// acquireSlotLock creates an advisory lock for the requested slot. Returns
// a conflict error when another request holds the lock.
func (s *bookingService) acquireSlotLock(ctx context.Context, booking *model.Booking) (string, error) {
	lockID := fmt.Sprintf("slot_%d_%d", booking.StartTime.Unix(), booking.EndTime.Unix())

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: s.clock().Add(s.cfg.SlotLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotLocked) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
