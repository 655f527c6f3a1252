package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/officehub/request-service/internal/models"
)

// ExpiryStore is the persistence surface the expiry sweep needs.
// *repository.RequestRepository satisfies it.
type ExpiryStore interface {
	List(ctx context.Context, status *models.RequestStatus) ([]models.Request, error)
	MarkExpired(ctx context.Context, ids []uuid.UUID) error
}

// ExpiryNotifier is told how many requests a sweep expired.
type ExpiryNotifier interface {
	NotifyRequestsExpired(count int)
}

// ExpiryService flags overdue pending requests as expired
type ExpiryService struct {
	store    ExpiryStore
	notifier ExpiryNotifier // optional
}

// NewExpiryService creates a new expiry service
func NewExpiryService(store ExpiryStore, notifier ExpiryNotifier) *ExpiryService {
	return &ExpiryService{store: store, notifier: notifier}
}

// ExpireOverdue scans all requests and expires the pending ones whose
// request date falls strictly before the calendar date of now. All matches
// are persisted as one batch. Running the sweep twice on the same day is a
// no-op the second time: expired requests are no longer pending.
func (s *ExpiryService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	requests, err := s.store.List(ctx, nil)
	if err != nil {
		log.Printf("expiry sweep failed to load requests: %v", err)
		return 0, fmt.Errorf("failed to load requests: %w", err)
	}

	today := calendarDate(now)

	var overdue []uuid.UUID
	for _, request := range requests {
		if request.Status != models.RequestStatusPending || request.RequestDate == nil {
			continue
		}
		if calendarDate(*request.RequestDate).Before(today) {
			overdue = append(overdue, request.ID)
		}
	}

	if len(overdue) == 0 {
		return 0, nil
	}

	if err := s.store.MarkExpired(ctx, overdue); err != nil {
		log.Printf("expiry sweep failed to persist: %v", err)
		return 0, fmt.Errorf("failed to mark requests expired: %w", err)
	}

	return len(overdue), nil
}

// Start launches the periodic sweep. A non-positive interval disables the
// job. The goroutine exits when ctx is cancelled.
func (s *ExpiryService) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				count, err := s.ExpireOverdue(ctx, time.Now())
				if err != nil {
					log.Printf("expiry sweep error: %v", err)
					continue
				}
				if count > 0 {
					log.Printf("expiry sweep expired %d requests", count)
					if s.notifier != nil {
						s.notifier.NotifyRequestsExpired(count)
					}
				}
			}
		}
	}()
}

// calendarDate truncates t to its local calendar date. Request dates carry
// no timezone, so only year, month and day take part in the comparison.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
