// Package service creates and updates people, enforcing field rules and badge uniqueness.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ics-roster/internal/events"
	"ics-roster/internal/logging"
	"ics-roster/internal/person/domain"
	"ics-roster/internal/platform/validation"
)

// ErrPersonNotFound is returned when the person to read or update does not exist.
var ErrPersonNotFound = errors.New("person not found")

// PersonRepo is the person repository needed by the service.
type PersonRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	GetByBadgeID(ctx context.Context, badgeID string) (*domain.Person, error)
	List(ctx context.Context) ([]*domain.Person, error)
	Create(ctx context.Context, p *domain.Person) error
	Update(ctx context.Context, p *domain.Person) error
}

// Service manages person records.
type Service struct {
	repo    PersonRepo
	emitter events.Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewService returns a person service. emitter and logger may be nil.
func NewService(repo PersonRepo, emitter events.Emitter, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		emitter: emitter,
		logger:  logging.OrNop(logger),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create validates p, checks its badge is free, assigns ID and timestamps, and persists it.
// Invalid records are returned as *validation.Errors and nothing is written.
func (s *Service) Create(ctx context.Context, p *domain.Person) error {
	if err := s.validate(ctx, p, ""); err != nil {
		return err
	}
	now := s.now()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	s.logger.Info("person created", zap.String("person_id", p.ID), zap.String("badge_id", p.BadgeID))
	ev := events.New(events.PersonCreated)
	ev.PersonID = p.ID
	events.EmitAsync(s.emitter, s.logger, ev)
	return nil
}

// Update validates p and persists it over the existing record with the same ID.
// The badge may be kept, but not changed to one held by another person.
func (s *Service) Update(ctx context.Context, p *domain.Person) error {
	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("get person: %w", err)
	}
	if current == nil {
		return ErrPersonNotFound
	}
	if err := s.validate(ctx, p, p.ID); err != nil {
		return err
	}
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	ev := events.New(events.PersonUpdated)
	ev.PersonID = p.ID
	events.EmitAsync(s.emitter, s.logger, ev)
	return nil
}

// Valid reports the validation outcome of p without persisting it: nil when p could be
// saved, *validation.Errors otherwise. selfID excludes that person from the badge check.
func (s *Service) Valid(ctx context.Context, p *domain.Person, selfID string) error {
	return s.validate(ctx, p, selfID)
}

// Get returns the person for id, or ErrPersonNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Person, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	if p == nil {
		return nil, ErrPersonNotFound
	}
	return p, nil
}

// GetByBadge returns the person holding badgeID, or ErrPersonNotFound.
func (s *Service) GetByBadge(ctx context.Context, badgeID string) (*domain.Person, error) {
	p, err := s.repo.GetByBadgeID(ctx, strings.TrimSpace(badgeID))
	if err != nil {
		return nil, fmt.Errorf("get person by badge: %w", err)
	}
	if p == nil {
		return nil, ErrPersonNotFound
	}
	return p, nil
}

// List returns every person.
func (s *Service) List(ctx context.Context) ([]*domain.Person, error) {
	return s.repo.List(ctx)
}

func (s *Service) validate(ctx context.Context, p *domain.Person, selfID string) error {
	errs := &validation.Errors{}
	if err := p.Validate(); err != nil {
		v, ok := validation.As(err)
		if !ok {
			return err
		}
		for _, e := range v.All() {
			errs.Add(e)
		}
	}
	if p.BadgeID != "" {
		holder, err := s.repo.GetByBadgeID(ctx, p.BadgeID)
		if err != nil {
			return fmt.Errorf("check badge: %w", err)
		}
		if holder != nil && holder.ID != selfID {
			errs.Add(validation.UniquenessError("badge_id"))
		}
	}
	return errs.Err()
}
