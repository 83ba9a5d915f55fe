// Package service issues certifications and records externally driven status changes.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ics-roster/internal/certification/domain"
	coursedomain "ics-roster/internal/course/domain"
	"ics-roster/internal/events"
	"ics-roster/internal/logging"
	persondomain "ics-roster/internal/person/domain"
	"ics-roster/internal/platform/validation"
)

// Sentinel errors for the certification service.
var (
	ErrPersonNotFound        = errors.New("person not found")
	ErrCourseNotFound        = errors.New("course not found")
	ErrCertificationNotFound = errors.New("certification not found")
)

// CertificationRepo is the certification repository needed by the service.
type CertificationRepo interface {
	Create(ctx context.Context, c *domain.Certification) error
	GetByID(ctx context.Context, id string) (*domain.Certification, error)
	ListByPerson(ctx context.Context, personID string) ([]*domain.Certification, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error
}

// PersonGetter is the minimal person repository needed by the service.
type PersonGetter interface {
	GetByID(ctx context.Context, id string) (*persondomain.Person, error)
}

// CourseGetter is the minimal course repository needed by the service.
type CourseGetter interface {
	GetByID(ctx context.Context, id string) (*coursedomain.Course, error)
}

// Service manages certifications.
type Service struct {
	certs   CertificationRepo
	people  PersonGetter
	courses CourseGetter
	emitter events.Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewService returns a certification service. emitter and logger may be nil.
func NewService(certs CertificationRepo, people PersonGetter, courses CourseGetter, emitter events.Emitter, logger *zap.Logger) *Service {
	return &Service{
		certs:   certs,
		people:  people,
		courses: courses,
		emitter: emitter,
		logger:  logging.OrNop(logger),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Issue records that personID completed courseID. An empty status means Active.
func (s *Service) Issue(ctx context.Context, personID, courseID string, status domain.Status) (*domain.Certification, error) {
	now := s.now()
	c := &domain.Certification{
		ID:        uuid.New().String(),
		PersonID:  personID,
		CourseID:  courseID,
		Status:    status,
		IssuedAt:  now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p, err := s.people.GetByID(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	if p == nil {
		return nil, ErrPersonNotFound
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if err := s.certs.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create certification: %w", err)
	}
	s.logger.Info("certification issued",
		zap.String("certification_id", c.ID),
		zap.String("person_id", personID),
		zap.String("course_id", courseID),
		zap.String("status", string(c.Status)))

	ev := events.New(events.CertificationIssued)
	ev.PersonID = personID
	ev.CertificationID = c.ID
	ev.CourseID = courseID
	ev.Status = string(c.Status)
	events.EmitAsync(s.emitter, s.logger, ev)
	return c, nil
}

// SetStatus changes the status of certification id, e.g. to Expired. The course reference
// is never changed. Setting the current status again is a no-op and emits nothing.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Certification, error) {
	if !status.Valid() {
		return nil, validation.Single(validation.InclusionError("status"))
	}
	c, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get certification: %w", err)
	}
	if c == nil {
		return nil, ErrCertificationNotFound
	}
	if c.Status == status {
		return c, nil
	}
	now := s.now()
	if err := s.certs.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, fmt.Errorf("update certification status: %w", err)
	}
	previous := c.Status
	c.Status = status
	c.UpdatedAt = now
	s.logger.Info("certification status changed",
		zap.String("certification_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))

	ev := events.New(events.CertificationStatusChanged)
	ev.PersonID = c.PersonID
	ev.CertificationID = c.ID
	ev.CourseID = c.CourseID
	ev.Status = string(status)
	events.EmitAsync(s.emitter, s.logger, ev)
	return c, nil
}

// ListForPerson returns every certification the person holds, expired ones included.
func (s *Service) ListForPerson(ctx context.Context, personID string) ([]*domain.Certification, error) {
	return s.certs.ListByPerson(ctx, personID)
}
