package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	certdomain "ics-roster/internal/certification/domain"
	coursedomain "ics-roster/internal/course/domain"
	"ics-roster/internal/logging"
	persondomain "ics-roster/internal/person/domain"
	personservice "ics-roster/internal/person/service"
	"ics-roster/internal/platform/validation"
	skilldomain "ics-roster/internal/skill/domain"
	titledomain "ics-roster/internal/title/domain"
)

// Catalog is the catalog service surface used by Apply.
type Catalog interface {
	CreateSkill(ctx context.Context, name string) (*skilldomain.Skill, error)
	FindCourse(ctx context.Context, name string) (*coursedomain.Course, error)
	CreateCourse(ctx context.Context, name string, skillNames ...string) (*coursedomain.Course, error)
	AddCourseSkill(ctx context.Context, courseID, skillName string) error
	GetTitle(ctx context.Context, name string) (*titledomain.Title, error)
	CreateTitle(ctx context.Context, name string, skillNames ...string) (*titledomain.Title, error)
	AddTitleSkill(ctx context.Context, titleName, skillName string) error
}

// People is the person service surface used by Apply.
type People interface {
	GetByBadge(ctx context.Context, badgeID string) (*persondomain.Person, error)
	Create(ctx context.Context, p *persondomain.Person) error
}

// Certifications is the certification service surface used by Apply.
type Certifications interface {
	Issue(ctx context.Context, personID, courseID string, status certdomain.Status) (*certdomain.Certification, error)
	ListForPerson(ctx context.Context, personID string) ([]*certdomain.Certification, error)
}

// Report counts what Apply created. Records that already existed are not counted.
type Report struct {
	Skills         int
	Courses        int
	Titles         int
	People         int
	Certifications int
}

// Seeder applies fixtures.
type Seeder struct {
	catalog Catalog
	people  People
	certs   Certifications
	logger  *zap.Logger
}

// New returns a Seeder. logger may be nil.
func New(catalog Catalog, people People, certs Certifications, logger *zap.Logger) *Seeder {
	return &Seeder{catalog: catalog, people: people, certs: certs, logger: logging.OrNop(logger)}
}

// Apply creates whatever in f does not exist yet. Skills and titles are matched by name,
// courses by name, people by badge, and a person's certification by course. Applying the
// same fixture twice creates nothing the second time.
func (s *Seeder) Apply(ctx context.Context, f Fixture) (Report, error) {
	var r Report
	for _, name := range f.Skills {
		_, err := s.catalog.CreateSkill(ctx, name)
		switch {
		case err == nil:
			r.Skills++
		case errors.Is(err, validation.ErrUniqueness):
		default:
			return r, fmt.Errorf("seed skill %q: %w", name, err)
		}
	}

	courses := make(map[string]string, len(f.Courses))
	for _, cf := range f.Courses {
		id, created, err := s.ensureCourse(ctx, cf)
		if err != nil {
			return r, fmt.Errorf("seed course %q: %w", cf.Name, err)
		}
		if created {
			r.Courses++
		}
		courses[cf.Name] = id
	}

	for _, tf := range f.Titles {
		created, err := s.ensureTitle(ctx, tf)
		if err != nil {
			return r, fmt.Errorf("seed title %q: %w", tf.Name, err)
		}
		if created {
			r.Titles++
		}
	}

	for _, pf := range f.People {
		p, created, err := s.ensurePerson(ctx, pf)
		if err != nil {
			return r, fmt.Errorf("seed person %q: %w", pf.BadgeID, err)
		}
		if created {
			r.People++
		}
		n, err := s.ensureCertifications(ctx, p, pf.Certifications, courses)
		r.Certifications += n
		if err != nil {
			return r, fmt.Errorf("seed certifications for %q: %w", pf.BadgeID, err)
		}
	}
	s.logger.Info("seed applied",
		zap.Int("skills", r.Skills),
		zap.Int("courses", r.Courses),
		zap.Int("titles", r.Titles),
		zap.Int("people", r.People),
		zap.Int("certifications", r.Certifications))
	return r, nil
}

func (s *Seeder) ensureCourse(ctx context.Context, cf CourseFixture) (string, bool, error) {
	existing, err := s.catalog.FindCourse(ctx, cf.Name)
	if err != nil {
		return "", false, err
	}
	if existing == nil {
		c, err := s.catalog.CreateCourse(ctx, cf.Name, cf.Skills...)
		if err != nil {
			return "", false, err
		}
		return c.ID, true, nil
	}
	for _, sk := range cf.Skills {
		if err := s.catalog.AddCourseSkill(ctx, existing.ID, sk); err != nil {
			return "", false, err
		}
	}
	return existing.ID, false, nil
}

func (s *Seeder) ensureTitle(ctx context.Context, tf TitleFixture) (bool, error) {
	existing, err := s.catalog.GetTitle(ctx, tf.Name)
	if err != nil {
		return false, err
	}
	if existing == nil {
		_, err := s.catalog.CreateTitle(ctx, tf.Name, tf.Skills...)
		return err == nil, err
	}
	for _, sk := range tf.Skills {
		if err := s.catalog.AddTitleSkill(ctx, tf.Name, sk); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (s *Seeder) ensurePerson(ctx context.Context, pf PersonFixture) (*persondomain.Person, bool, error) {
	existing, err := s.people.GetByBadge(ctx, pf.BadgeID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, personservice.ErrPersonNotFound) {
		return nil, false, err
	}
	p := &persondomain.Person{
		FirstName: pf.FirstName,
		LastName:  pf.LastName,
		City:      pf.City,
		State:     pf.State,
		Zip:       pf.Zip,
		Division1: pf.Division1,
		Division2: pf.Division2,
		BadgeID:   pf.BadgeID,
	}
	if err := s.people.Create(ctx, p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *Seeder) ensureCertifications(ctx context.Context, p *persondomain.Person, entries []CertificationEntry, courses map[string]string) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	held, err := s.certs.ListForPerson(ctx, p.ID)
	if err != nil {
		return 0, err
	}
	have := make(map[string]struct{}, len(held))
	for _, c := range held {
		have[c.CourseID] = struct{}{}
	}
	n := 0
	for _, e := range entries {
		courseID, ok := courses[e.Course]
		if !ok {
			c, err := s.catalog.FindCourse(ctx, e.Course)
			if err != nil {
				return n, err
			}
			if c == nil {
				return n, fmt.Errorf("unknown course %q", e.Course)
			}
			courseID = c.ID
		}
		if _, ok := have[courseID]; ok {
			continue
		}
		if _, err := s.certs.Issue(ctx, p.ID, courseID, certdomain.Status(e.Status)); err != nil {
			return n, err
		}
		have[courseID] = struct{}{}
		n++
	}
	return n, nil
}
