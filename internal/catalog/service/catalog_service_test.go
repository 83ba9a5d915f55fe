package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	coursedomain "ics-roster/internal/course/domain"
	"ics-roster/internal/platform/validation"
	skilldomain "ics-roster/internal/skill/domain"
	titledomain "ics-roster/internal/title/domain"
)

type mockSkillRepo struct {
	byName map[string]*skilldomain.Skill
}

func (m *mockSkillRepo) Create(ctx context.Context, s *skilldomain.Skill) error {
	if _, ok := m.byName[s.Name]; ok {
		return validation.Single(validation.UniquenessError("name"))
	}
	m.byName[s.Name] = s
	return nil
}

func (m *mockSkillRepo) GetByName(ctx context.Context, name string) (*skilldomain.Skill, error) {
	return m.byName[name], nil
}

func (m *mockSkillRepo) List(ctx context.Context) ([]*skilldomain.Skill, error) {
	var out []*skilldomain.Skill
	for _, s := range m.byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type mockCourseRepo struct {
	byID   map[string]*coursedomain.Course
	order  []string
	skills map[string][]string // course id -> skill ids

	failSkillID string
}

func (m *mockCourseRepo) clone() *mockCourseRepo {
	cp := &mockCourseRepo{
		byID:        make(map[string]*coursedomain.Course, len(m.byID)),
		order:       append([]string(nil), m.order...),
		skills:      make(map[string][]string, len(m.skills)),
		failSkillID: m.failSkillID,
	}
	for k, v := range m.byID {
		cp.byID[k] = v
	}
	for k, v := range m.skills {
		cp.skills[k] = append([]string(nil), v...)
	}
	return cp
}

func (m *mockCourseRepo) Create(ctx context.Context, c *coursedomain.Course) error {
	cp := *c
	m.byID[c.ID] = &cp
	m.order = append(m.order, c.ID)
	return nil
}

func (m *mockCourseRepo) GetByID(ctx context.Context, id string) (*coursedomain.Course, error) {
	return m.byID[id], nil
}

func (m *mockCourseRepo) List(ctx context.Context) ([]*coursedomain.Course, error) {
	out := make([]*coursedomain.Course, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *mockCourseRepo) AddSkill(ctx context.Context, courseID, skillID string) error {
	if skillID == m.failSkillID {
		return errLinkFailed
	}
	for _, id := range m.skills[courseID] {
		if id == skillID {
			return nil
		}
	}
	m.skills[courseID] = append(m.skills[courseID], skillID)
	return nil
}

type mockTitleRepo struct {
	byName map[string]*titledomain.Title
	skills map[string][]string // title id -> skill ids

	failSkillID string
}

func (m *mockTitleRepo) clone() *mockTitleRepo {
	cp := &mockTitleRepo{
		byName:      make(map[string]*titledomain.Title, len(m.byName)),
		skills:      make(map[string][]string, len(m.skills)),
		failSkillID: m.failSkillID,
	}
	for k, v := range m.byName {
		cp.byName[k] = v
	}
	for k, v := range m.skills {
		cp.skills[k] = append([]string(nil), v...)
	}
	return cp
}

func (m *mockTitleRepo) Create(ctx context.Context, t *titledomain.Title) error {
	if _, ok := m.byName[t.Name]; ok {
		return validation.Single(validation.UniquenessError("name"))
	}
	cp := *t
	m.byName[t.Name] = &cp
	return nil
}

func (m *mockTitleRepo) GetByName(ctx context.Context, name string) (*titledomain.Title, error) {
	return m.byName[name], nil
}

func (m *mockTitleRepo) List(ctx context.Context) ([]*titledomain.Title, error) {
	var out []*titledomain.Title
	for _, t := range m.byName {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTitleRepo) AddSkill(ctx context.Context, titleID, skillID string) error {
	if skillID == m.failSkillID {
		return errLinkFailed
	}
	m.skills[titleID] = append(m.skills[titleID], skillID)
	return nil
}

var errLinkFailed = errors.New("connection reset")

// snapshotTx restores the mocks to their state before fn when fn fails.
type snapshotTx struct {
	courses   *mockCourseRepo
	titles    *mockTitleRepo
	commits   int
	rollbacks int
}

func (x *snapshotTx) run(ctx context.Context, fn func(Stores) error) error {
	courses, titles := x.courses.clone(), x.titles.clone()
	if err := fn(Stores{Courses: x.courses, Titles: x.titles}); err != nil {
		*x.courses, *x.titles = *courses, *titles
		x.rollbacks++
		return err
	}
	x.commits++
	return nil
}

func newTestService() (*Service, *mockCourseRepo, *mockTitleRepo) {
	courses := &mockCourseRepo{byID: map[string]*coursedomain.Course{}, skills: map[string][]string{}}
	titles := &mockTitleRepo{byName: map[string]*titledomain.Title{}, skills: map[string][]string{}}
	svc := NewService(&mockSkillRepo{byName: map[string]*skilldomain.Skill{}}, courses, titles, nil)
	return svc, courses, titles
}

func TestCreateSkill(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	sk, err := svc.CreateSkill(ctx, "  Driving ")
	if err != nil {
		t.Fatalf("CreateSkill: %v", err)
	}
	if sk.Name != "Driving" || sk.ID == "" {
		t.Errorf("skill = %+v", sk)
	}
	if _, err := svc.CreateSkill(ctx, "Driving"); !errors.Is(err, validation.ErrUniqueness) {
		t.Errorf("duplicate = %v, want uniqueness error", err)
	}
	if _, err := svc.CreateSkill(ctx, " "); !errors.Is(err, validation.ErrPresence) {
		t.Errorf("blank = %v, want presence error", err)
	}
}

func TestCreateCourse(t *testing.T) {
	svc, courses, _ := newTestService()
	ctx := context.Background()
	for _, n := range []string{"Driving", "Land Navigation"} {
		if _, err := svc.CreateSkill(ctx, n); err != nil {
			t.Fatalf("CreateSkill(%q): %v", n, err)
		}
	}

	c, err := svc.CreateCourse(ctx, "EVOC", "Driving", "Land Navigation", "Driving")
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if diff := cmp.Diff([]string{"Driving", "Land Navigation"}, c.SkillNames); diff != "" {
		t.Errorf("SkillNames mismatch (-want +got):\n%s", diff)
	}
	if got := len(courses.skills[c.ID]); got != 2 {
		t.Errorf("stored %d associations, want 2", got)
	}

	if _, err := svc.CreateCourse(ctx, "Tracking", "Leeching"); !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("unknown skill = %v, want ErrSkillNotFound", err)
	}
	if len(courses.order) != 1 {
		t.Errorf("courses stored = %d, want 1", len(courses.order))
	}
}

func TestAddCourseSkill(t *testing.T) {
	svc, courses, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.CreateSkill(ctx, "Driving"); err != nil {
		t.Fatal(err)
	}
	c, err := svc.CreateCourse(ctx, "EVOC")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		courseID string
		skill    string
		wantErr  error
	}{
		{"adds", c.ID, "Driving", nil},
		{"again is noop", c.ID, "Driving", nil},
		{"unknown course", "nope", "Driving", ErrCourseNotFound},
		{"unknown skill", c.ID, "Leeching", ErrSkillNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AddCourseSkill(ctx, tt.courseID, tt.skill)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddCourseSkill = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if got := len(courses.skills[c.ID]); got != 1 {
		t.Errorf("associations = %d, want 1", got)
	}
}

func TestFindCourse(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	first, err := svc.CreateCourse(ctx, "EVOC")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateCourse(ctx, "EVOC"); err != nil {
		t.Fatal(err)
	}
	got, err := svc.FindCourse(ctx, "EVOC")
	if err != nil {
		t.Fatalf("FindCourse: %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Errorf("FindCourse = %+v, want %s", got, first.ID)
	}
	if got, _ := svc.FindCourse(ctx, "Basic Academy"); got != nil {
		t.Errorf("FindCourse(missing) = %+v, want nil", got)
	}
}

func TestTitles(t *testing.T) {
	svc, _, titles := newTestService()
	ctx := context.Background()
	for _, n := range []string{"Driving", "Land Navigation"} {
		if _, err := svc.CreateSkill(ctx, n); err != nil {
			t.Fatal(err)
		}
	}

	po, err := svc.CreateTitle(ctx, "Police Officer", "Driving")
	if err != nil {
		t.Fatalf("CreateTitle: %v", err)
	}
	if diff := cmp.Diff([]string{"Driving"}, po.SkillNames); diff != "" {
		t.Errorf("SkillNames mismatch (-want +got):\n%s", diff)
	}
	if _, err := svc.CreateTitle(ctx, "Police Officer"); !errors.Is(err, validation.ErrUniqueness) {
		t.Errorf("duplicate = %v, want uniqueness error", err)
	}
	if _, err := svc.CreateTitle(ctx, "Observer"); err != nil {
		t.Errorf("title without skills: %v", err)
	}

	if err := svc.AddTitleSkill(ctx, "Police Officer", "Land Navigation"); err != nil {
		t.Fatalf("AddTitleSkill: %v", err)
	}
	if got := len(titles.skills[po.ID]); got != 2 {
		t.Errorf("required skills = %d, want 2", got)
	}
	if err := svc.AddTitleSkill(ctx, "SAR Team", "Driving"); !errors.Is(err, ErrTitleNotFound) {
		t.Errorf("unknown title = %v, want ErrTitleNotFound", err)
	}
	if err := svc.AddTitleSkill(ctx, "Police Officer", "Leeching"); !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("unknown skill = %v, want ErrSkillNotFound", err)
	}
}

func TestCreateCourseAndTitle_LinkFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	courses := &mockCourseRepo{byID: map[string]*coursedomain.Course{}, skills: map[string][]string{}}
	titles := &mockTitleRepo{byName: map[string]*titledomain.Title{}, skills: map[string][]string{}}
	tx := &snapshotTx{courses: courses, titles: titles}
	svc := NewService(&mockSkillRepo{byName: map[string]*skilldomain.Skill{}}, courses, titles, nil, WithTx(tx.run))

	if _, err := svc.CreateSkill(ctx, "Driving"); err != nil {
		t.Fatal(err)
	}
	landNav, err := svc.CreateSkill(ctx, "Land Navigation")
	if err != nil {
		t.Fatal(err)
	}
	courses.failSkillID = landNav.ID
	titles.failSkillID = landNav.ID

	if _, err := svc.CreateCourse(ctx, "EVOC", "Driving", "Land Navigation"); !errors.Is(err, errLinkFailed) {
		t.Fatalf("CreateCourse = %v, want link error", err)
	}
	if len(courses.order) != 0 || len(courses.skills) != 0 {
		t.Errorf("course writes survived the failure: order=%v skills=%v", courses.order, courses.skills)
	}

	if _, err := svc.CreateTitle(ctx, "Police Officer", "Driving", "Land Navigation"); !errors.Is(err, errLinkFailed) {
		t.Fatalf("CreateTitle = %v, want link error", err)
	}
	if len(titles.byName) != 0 || len(titles.skills) != 0 {
		t.Errorf("title writes survived the failure: titles=%v skills=%v", titles.byName, titles.skills)
	}
	if tx.rollbacks != 2 || tx.commits != 0 {
		t.Errorf("rollbacks=%d commits=%d, want 2 and 0", tx.rollbacks, tx.commits)
	}

	courses.failSkillID, titles.failSkillID = "", ""
	c, err := svc.CreateCourse(ctx, "EVOC", "Driving", "Land Navigation")
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if got := len(courses.skills[c.ID]); got != 2 {
		t.Errorf("associations = %d, want 2", got)
	}
	if tx.commits != 1 {
		t.Errorf("commits = %d, want 1", tx.commits)
	}
}
