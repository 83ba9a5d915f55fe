// Package service maintains the training catalog: skills, the courses that teach them and
// the titles that require them.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	coursedomain "ics-roster/internal/course/domain"
	"ics-roster/internal/logging"
	skilldomain "ics-roster/internal/skill/domain"
	titledomain "ics-roster/internal/title/domain"
)

// Sentinel errors for the catalog service.
var (
	ErrSkillNotFound  = errors.New("skill not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrTitleNotFound  = errors.New("title not found")
)

// SkillRepo is the skill repository needed by the service.
type SkillRepo interface {
	Create(ctx context.Context, s *skilldomain.Skill) error
	GetByName(ctx context.Context, name string) (*skilldomain.Skill, error)
	List(ctx context.Context) ([]*skilldomain.Skill, error)
}

// CourseRepo is the course repository needed by the service.
type CourseRepo interface {
	Create(ctx context.Context, c *coursedomain.Course) error
	GetByID(ctx context.Context, id string) (*coursedomain.Course, error)
	List(ctx context.Context) ([]*coursedomain.Course, error)
	AddSkill(ctx context.Context, courseID, skillID string) error
}

// TitleRepo is the title repository needed by the service.
type TitleRepo interface {
	Create(ctx context.Context, t *titledomain.Title) error
	GetByName(ctx context.Context, name string) (*titledomain.Title, error)
	List(ctx context.Context) ([]*titledomain.Title, error)
	AddSkill(ctx context.Context, titleID, skillID string) error
}

// Stores are the repositories a multi-row catalog write runs against.
type Stores struct {
	Courses CourseRepo
	Titles  TitleRepo
}

// TxFunc runs fn with stores bound to one transaction. It commits when fn returns nil and
// rolls back otherwise.
type TxFunc func(ctx context.Context, fn func(Stores) error) error

// Service manages the catalog.
type Service struct {
	skills  SkillRepo
	courses CourseRepo
	titles  TitleRepo
	inTx    TxFunc
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithTx makes creating a course or title together with its skill links atomic. Without it
// the writes run directly against the service's repositories.
func WithTx(tx TxFunc) Option {
	return func(s *Service) {
		if tx != nil {
			s.inTx = tx
		}
	}
}

// NewService returns a catalog service. logger may be nil.
func NewService(skills SkillRepo, courses CourseRepo, titles TitleRepo, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		skills:  skills,
		courses: courses,
		titles:  titles,
		logger:  logging.OrNop(logger),
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.inTx = func(ctx context.Context, fn func(Stores) error) error {
		return fn(Stores{Courses: s.courses, Titles: s.titles})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSkill adds a skill. A name already in use fails with a uniqueness error on name.
func (s *Service) CreateSkill(ctx context.Context, name string) (*skilldomain.Skill, error) {
	sk := &skilldomain.Skill{ID: uuid.New().String(), Name: name, CreatedAt: s.now()}
	if err := sk.Validate(); err != nil {
		return nil, err
	}
	if err := s.skills.Create(ctx, sk); err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	s.logger.Info("skill created", zap.String("skill_id", sk.ID), zap.String("name", sk.Name))
	return sk, nil
}

// ListSkills returns every skill ordered by name.
func (s *Service) ListSkills(ctx context.Context) ([]*skilldomain.Skill, error) {
	return s.skills.List(ctx)
}

// CreateCourse adds a course teaching the named skills. Every skill must already exist;
// nothing is written when one is missing.
func (s *Service) CreateCourse(ctx context.Context, name string, skillNames ...string) (*coursedomain.Course, error) {
	c := &coursedomain.Course{ID: uuid.New().String(), Name: name, CreatedAt: s.now()}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	skills, err := s.resolveSkills(ctx, skillNames)
	if err != nil {
		return nil, err
	}
	err = s.inTx(ctx, func(st Stores) error {
		if err := st.Courses.Create(ctx, c); err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		for _, sk := range skills {
			if err := st.Courses.AddSkill(ctx, c.ID, sk.ID); err != nil {
				return fmt.Errorf("add skill %q to course: %w", sk.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.SkillNames = skillNamesOf(skills)
	s.logger.Info("course created", zap.String("course_id", c.ID), zap.String("name", c.Name),
		zap.Strings("skills", c.SkillNames))
	return c, nil
}

// AddCourseSkill appends the named skill to the course. Adding a skill the course already
// teaches is a no-op.
func (s *Service) AddCourseSkill(ctx context.Context, courseID, skillName string) error {
	c, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	if c == nil {
		return ErrCourseNotFound
	}
	sk, err := s.skillByName(ctx, skillName)
	if err != nil {
		return err
	}
	if err := s.courses.AddSkill(ctx, c.ID, sk.ID); err != nil {
		return fmt.Errorf("add skill to course: %w", err)
	}
	s.logger.Info("course skill added", zap.String("course_id", c.ID), zap.String("skill", sk.Name))
	return nil
}

// FindCourse returns the first course with the given name, or nil. Course names are not
// unique; the oldest-listed match wins.
func (s *Service) FindCourse(ctx context.Context, name string) (*coursedomain.Course, error) {
	all, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	for _, c := range all {
		if c.Name == name {
			return s.courses.GetByID(ctx, c.ID)
		}
	}
	return nil, nil
}

// GetCourse returns the course with its skills, or nil.
func (s *Service) GetCourse(ctx context.Context, id string) (*coursedomain.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// ListCourses returns every course ordered by name. Skills are not loaded.
func (s *Service) ListCourses(ctx context.Context) ([]*coursedomain.Course, error) {
	return s.courses.List(ctx)
}

// CreateTitle adds a title requiring the named skills. A title with no skills is allowed and
// is satisfied by anyone.
func (s *Service) CreateTitle(ctx context.Context, name string, skillNames ...string) (*titledomain.Title, error) {
	t := &titledomain.Title{ID: uuid.New().String(), Name: name, CreatedAt: s.now()}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	skills, err := s.resolveSkills(ctx, skillNames)
	if err != nil {
		return nil, err
	}
	err = s.inTx(ctx, func(st Stores) error {
		if err := st.Titles.Create(ctx, t); err != nil {
			return fmt.Errorf("create title: %w", err)
		}
		for _, sk := range skills {
			if err := st.Titles.AddSkill(ctx, t.ID, sk.ID); err != nil {
				return fmt.Errorf("add skill %q to title: %w", sk.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	t.SkillNames = skillNamesOf(skills)
	s.logger.Info("title created", zap.String("title_id", t.ID), zap.String("name", t.Name),
		zap.Strings("skills", t.SkillNames))
	return t, nil
}

// AddTitleSkill adds the named skill to the title's required set.
func (s *Service) AddTitleSkill(ctx context.Context, titleName, skillName string) error {
	t, err := s.titles.GetByName(ctx, titleName)
	if err != nil {
		return fmt.Errorf("get title: %w", err)
	}
	if t == nil {
		return ErrTitleNotFound
	}
	sk, err := s.skillByName(ctx, skillName)
	if err != nil {
		return err
	}
	if err := s.titles.AddSkill(ctx, t.ID, sk.ID); err != nil {
		return fmt.Errorf("add skill to title: %w", err)
	}
	s.logger.Info("title skill added", zap.String("title", t.Name), zap.String("skill", sk.Name))
	return nil
}

// GetTitle returns the title with its required skills, or nil.
func (s *Service) GetTitle(ctx context.Context, name string) (*titledomain.Title, error) {
	return s.titles.GetByName(ctx, name)
}

// ListTitles returns every title with its required skills, ordered by name.
func (s *Service) ListTitles(ctx context.Context) ([]*titledomain.Title, error) {
	return s.titles.List(ctx)
}

func (s *Service) skillByName(ctx context.Context, name string) (*skilldomain.Skill, error) {
	sk, err := s.skills.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}
	if sk == nil {
		return nil, fmt.Errorf("%w: %q", ErrSkillNotFound, name)
	}
	return sk, nil
}

func (s *Service) resolveSkills(ctx context.Context, names []string) ([]*skilldomain.Skill, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]*skilldomain.Skill, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		sk, err := s.skillByName(ctx, n)
		if err != nil {
			return nil, err
		}
		out = append(out, sk)
	}
	return out, nil
}

func skillNamesOf(skills []*skilldomain.Skill) []string {
	if len(skills) == 0 {
		return nil
	}
	names := make([]string, len(skills))
	for i, sk := range skills {
		names[i] = sk.Name
	}
	return names
}
