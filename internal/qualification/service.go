// Package qualification derives what a person is skilled in and which titles they are
// qualified for from their certifications.
//
// A person is skilled in X when they hold a certification that is not Expired for a course
// teaching X. A person is qualified for a title when they are skilled in every skill the
// title requires; a title requiring nothing is satisfied by anyone. Both predicates are
// total: unknown skills, people and (by default) titles answer false rather than failing.
package qualification

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	certdomain "ics-roster/internal/certification/domain"
	"ics-roster/internal/logging"
	titledomain "ics-roster/internal/title/domain"
)

const instrumentationName = "ics-roster/qualification"

// ErrTitleNotFound is returned by Qualified and Check for an unknown title when the
// service uses MissingTitleError.
var ErrTitleNotFound = errors.New("title not found")

// MissingTitlePolicy decides how an unknown title name is answered.
type MissingTitlePolicy int

const (
	// MissingTitleDeny answers false for an unknown title.
	MissingTitleDeny MissingTitlePolicy = iota
	// MissingTitleError answers ErrTitleNotFound for an unknown title.
	MissingTitleError
)

// CertificationLister is the minimal certification repository needed by the service.
type CertificationLister interface {
	ListByPerson(ctx context.Context, personID string) ([]*certdomain.Certification, error)
}

// CourseSkillLister is the minimal course repository needed by the service.
type CourseSkillLister interface {
	ListSkillNames(ctx context.Context, courseID string) ([]string, error)
}

// TitleFinder is the minimal title repository needed by Qualified.
type TitleFinder interface {
	GetByName(ctx context.Context, name string) (*titledomain.Title, error)
}

// TitleLister is the title repository needed by QualifiedTitles.
type TitleLister interface {
	TitleFinder
	List(ctx context.Context) ([]*titledomain.Title, error)
}

// Result is the detailed answer for one person and title.
type Result struct {
	Title     string
	Found     bool
	Qualified bool
	Missing   []string
}

// Option configures a Service.
type Option func(*Service)

// WithEvaluator replaces the default SetEvaluator.
func WithEvaluator(e Evaluator) Option {
	return func(s *Service) {
		if e != nil {
			s.evaluator = e
		}
	}
}

// WithMissingTitlePolicy sets the answer for unknown titles.
func WithMissingTitlePolicy(p MissingTitlePolicy) Option {
	return func(s *Service) { s.missingTitle = p }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

// Service answers skilled?/qualified? over the current state of the repositories.
// It keeps no cache; every call reads through.
type Service struct {
	certs        CertificationLister
	courses      CourseSkillLister
	titles       TitleLister
	evaluator    Evaluator
	missingTitle MissingTitlePolicy
	logger       *zap.Logger
	tracer       trace.Tracer
	checks       metric.Int64Counter
}

// NewService returns a qualification service. titles may be nil when only Skilled and
// SkillSet are used.
func NewService(certs CertificationLister, courses CourseSkillLister, titles TitleLister, opts ...Option) *Service {
	s := &Service{
		certs:     certs,
		courses:   courses,
		titles:    titles,
		evaluator: SetEvaluator{},
		logger:    zap.NewNop(),
		tracer:    otel.Tracer(instrumentationName),
	}
	for _, o := range opts {
		o(s)
	}
	checks, err := otel.Meter(instrumentationName).Int64Counter(
		"roster.qualification.checks",
		metric.WithDescription("Skilled and qualified checks by kind and result"),
	)
	if err != nil {
		s.logger.Warn("qualification: counter unavailable", zap.Error(err))
	}
	s.checks = checks
	return s
}

// SkillSet returns the names of every skill granted by the person's certifications that
// are not Expired. Courses are resolved once even when several certifications share one.
func (s *Service) SkillSet(ctx context.Context, personID string) (SkillSet, error) {
	certs, err := s.certs.ListByPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("list certifications: %w", err)
	}
	set := NewSkillSet()
	seen := make(map[string]struct{}, len(certs))
	for _, c := range certs {
		if c == nil || !c.Status.Counts() {
			continue
		}
		if _, ok := seen[c.CourseID]; ok {
			continue
		}
		seen[c.CourseID] = struct{}{}
		names, err := s.courses.ListSkillNames(ctx, c.CourseID)
		if err != nil {
			return nil, fmt.Errorf("list skills for course %s: %w", c.CourseID, err)
		}
		for _, n := range names {
			set[n] = struct{}{}
		}
	}
	return set, nil
}

// Skilled reports whether the person holds skillName through a non-expired certification.
// An unknown skill or person answers false.
func (s *Service) Skilled(ctx context.Context, personID, skillName string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "qualification.Skilled", trace.WithAttributes(
		attribute.String("person_id", personID),
		attribute.String("skill", skillName),
	))
	defer span.End()

	set, err := s.SkillSet(ctx, personID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	ok := set.Has(skillName)
	span.SetAttributes(attribute.Bool("skilled", ok))
	s.count(ctx, "skilled", ok)
	return ok, nil
}

// Qualified reports whether the person is skilled in every skill titleName requires.
// An unknown title answers false, or ErrTitleNotFound under MissingTitleError.
func (s *Service) Qualified(ctx context.Context, personID, titleName string) (bool, error) {
	res, err := s.Check(ctx, personID, titleName)
	if err != nil {
		return false, err
	}
	return res.Qualified, nil
}

// Check is Qualified with the missing skills reported.
func (s *Service) Check(ctx context.Context, personID, titleName string) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "qualification.Qualified", trace.WithAttributes(
		attribute.String("person_id", personID),
		attribute.String("title", titleName),
	))
	defer span.End()

	res, err := s.check(ctx, personID, titleName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{Title: titleName}, err
	}
	span.SetAttributes(
		attribute.Bool("title_found", res.Found),
		attribute.Bool("qualified", res.Qualified),
	)
	s.count(ctx, "qualified", res.Qualified)
	return res, nil
}

func (s *Service) check(ctx context.Context, personID, titleName string) (Result, error) {
	res := Result{Title: titleName}
	if s.titles == nil {
		return res, errors.New("qualification: no title repository configured")
	}
	title, err := s.titles.GetByName(ctx, titleName)
	if err != nil {
		return res, fmt.Errorf("get title: %w", err)
	}
	if title == nil {
		s.logger.Debug("qualification: unknown title", zap.String("title", titleName))
		if s.missingTitle == MissingTitleError {
			return res, fmt.Errorf("%w: %q", ErrTitleNotFound, titleName)
		}
		return res, nil
	}
	res.Found = true

	held, err := s.SkillSet(ctx, personID)
	if err != nil {
		return res, err
	}
	d, err := s.evaluator.Evaluate(ctx, title.SkillNames, held)
	if err != nil {
		return res, err
	}
	res.Qualified = d.Qualified
	res.Missing = d.Missing
	return res, nil
}

// QualifiedTitles returns the names of every title the person qualifies for, sorted.
func (s *Service) QualifiedTitles(ctx context.Context, personID string) ([]string, error) {
	if s.titles == nil {
		return nil, errors.New("qualification: no title repository configured")
	}
	titles, err := s.titles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	held, err := s.SkillSet(ctx, personID)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, t := range titles {
		d, err := s.evaluator.Evaluate(ctx, t.SkillNames, held)
		if err != nil {
			return nil, fmt.Errorf("evaluate title %q: %w", t.Name, err)
		}
		if d.Qualified {
			out = append(out, t.Name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Service) count(ctx context.Context, kind string, result bool) {
	if s.checks == nil {
		return
	}
	s.checks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("result", result),
	))
}
