package qualification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	certdomain "ics-roster/internal/certification/domain"
	titledomain "ics-roster/internal/title/domain"
)

// fakeRoster implements CertificationLister, CourseSkillLister and TitleLister for tests.
type fakeRoster struct {
	certs        map[string][]*certdomain.Certification // by person
	courseSkills map[string][]string                    // by course
	titles       map[string]*titledomain.Title          // by name
	courseCalls  map[string]int
	certErr      error
	courseErr    error
	titleErr     error
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{
		certs:        make(map[string][]*certdomain.Certification),
		courseSkills: make(map[string][]string),
		titles:       make(map[string]*titledomain.Title),
		courseCalls:  make(map[string]int),
	}
}

func (f *fakeRoster) ListByPerson(ctx context.Context, personID string) ([]*certdomain.Certification, error) {
	if f.certErr != nil {
		return nil, f.certErr
	}
	return f.certs[personID], nil
}

func (f *fakeRoster) ListSkillNames(ctx context.Context, courseID string) ([]string, error) {
	if f.courseErr != nil {
		return nil, f.courseErr
	}
	f.courseCalls[courseID]++
	return f.courseSkills[courseID], nil
}

func (f *fakeRoster) GetByName(ctx context.Context, name string) (*titledomain.Title, error) {
	if f.titleErr != nil {
		return nil, f.titleErr
	}
	return f.titles[name], nil
}

func (f *fakeRoster) List(ctx context.Context) ([]*titledomain.Title, error) {
	if f.titleErr != nil {
		return nil, f.titleErr
	}
	var out []*titledomain.Title
	for _, t := range f.titles {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRoster) course(id string, skills ...string) {
	f.courseSkills[id] = skills
}

func (f *fakeRoster) title(name string, skills ...string) {
	f.titles[name] = &titledomain.Title{ID: "t-" + name, Name: name, SkillNames: skills}
}

func (f *fakeRoster) cert(personID, courseID string, status certdomain.Status) {
	f.certs[personID] = append(f.certs[personID], &certdomain.Certification{
		ID:       personID + "-" + courseID,
		PersonID: personID,
		CourseID: courseID,
		Status:   status,
	})
}

func newService(f *fakeRoster, opts ...Option) *Service {
	return NewService(f, f, f, opts...)
}

func TestSkilled_ActiveCertificationGrantsCourseSkills(t *testing.T) {
	f := newFakeRoster()
	f.course("evoc", "Driving")
	f.cert("p-1", "evoc", certdomain.StatusActive)

	ok, err := newService(f).Skilled(context.Background(), "p-1", "Driving")
	if err != nil {
		t.Fatalf("Skilled: %v", err)
	}
	if !ok {
		t.Error("Skilled(Driving) = false, want true")
	}
}

func TestSkilled_ExpiredCertificationDoesNotCount(t *testing.T) {
	f := newFakeRoster()
	f.course("evoc", "Driving")
	f.cert("p-1", "evoc", certdomain.StatusExpired)

	ok, err := newService(f).Skilled(context.Background(), "p-1", "Driving")
	if err != nil {
		t.Fatalf("Skilled: %v", err)
	}
	if ok {
		t.Error("Skilled(Driving) = true with only an expired certification")
	}
}

func TestSkilled_ExpiredAndActiveForSameSkill(t *testing.T) {
	f := newFakeRoster()
	f.course("evoc-2019", "Driving")
	f.course("evoc-2024", "Driving")
	f.cert("p-1", "evoc-2019", certdomain.StatusExpired)
	f.cert("p-1", "evoc-2024", certdomain.StatusActive)

	ok, err := newService(f).Skilled(context.Background(), "p-1", "Driving")
	if err != nil {
		t.Fatalf("Skilled: %v", err)
	}
	if !ok {
		t.Error("an active certification should grant the skill despite an expired one")
	}
}

func TestSkilled_UnheldOrUnknownSkillIsFalse(t *testing.T) {
	f := newFakeRoster()
	f.course("evoc", "Driving")
	f.cert("p-1", "evoc", certdomain.StatusActive)
	svc := newService(f)
	ctx := context.Background()

	testCases := []struct {
		name     string
		personID string
		skill    string
	}{
		{"skill exists but not taught", "p-1", "Leeching"},
		{"person without certifications", "p-2", "Driving"},
		{"empty skill name", "p-1", ""},
		{"case differs", "p-1", "driving"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := svc.Skilled(ctx, tc.personID, tc.skill)
			if err != nil {
				t.Fatalf("Skilled: %v", err)
			}
			if ok {
				t.Errorf("Skilled(%q, %q) = true, want false", tc.personID, tc.skill)
			}
		})
	}
}

func TestSkillSet_UnionAcrossCoursesAndCourseResolvedOnce(t *testing.T) {
	f := newFakeRoster()
	f.course("evoc", "Driving")
	f.course("sar-101", "Land Navigation", "First Aid")
	f.course("old", "Rappelling")
	f.cert("p-1", "evoc", certdomain.StatusActive)
	f.cert("p-1", "sar-101", certdomain.StatusActive)
	f.cert("p-1", "sar-101", certdomain.StatusActive)
	f.cert("p-1", "old", certdomain.StatusExpired)

	set, err := newService(f).SkillSet(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("SkillSet: %v", err)
	}
	want := []string{"Driving", "First Aid", "Land Navigation"}
	if diff := cmp.Diff(want, set.Names()); diff != "" {
		t.Errorf("SkillSet mismatch (-want +got):\n%s", diff)
	}
	if f.courseCalls["sar-101"] != 1 {
		t.Errorf("sar-101 resolved %d times, want 1", f.courseCalls["sar-101"])
	}
	if f.courseCalls["old"] != 0 {
		t.Error("expired certification's course should not be resolved")
	}
}

func TestQualified_PoliceOfficer(t *testing.T) {
	f := newFakeRoster()
	f.title("Police Officer", "Driving")
	f.course("evoc", "Driving")
	f.cert("p-1", "evoc", certdomain.StatusActive)
	svc := newService(f)
	ctx := context.Background()

	skilled, err := svc.Skilled(ctx, "p-1", "Driving")
	if err != nil || !skilled {
		t.Fatalf("Skilled(Driving) = %v, %v; want true, nil", skilled, err)
	}
	ok, err := svc.Qualified(ctx, "p-1", "Police Officer")
	if err != nil {
		t.Fatalf("Qualified: %v", err)
	}
	if !ok {
		t.Error("Qualified(Police Officer) = false, want true")
	}
}

func TestQualified_SARTeamMissingLandNavigation(t *testing.T) {
	f := newFakeRoster()
	f.title("SAR Team", "Land Navigation")
	f.course("evoc", "Driving")
	f.cert("p-1", "evoc", certdomain.StatusActive)

	res, err := newService(f).Check(context.Background(), "p-1", "SAR Team")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Qualified {
		t.Error("Qualified(SAR Team) = true, want false")
	}
	if !res.Found {
		t.Error("Found = false, want true")
	}
	if diff := cmp.Diff([]string{"Land Navigation"}, res.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
}

func TestQualified_PartialCoverageIsFalse(t *testing.T) {
	f := newFakeRoster()
	f.title("Strike Team Leader", "Driving", "Radio")
	f.course("evoc", "Driving")
	f.cert("p-1", "evoc", certdomain.StatusActive)

	ok, err := newService(f).Qualified(context.Background(), "p-1", "Strike Team Leader")
	if err != nil {
		t.Fatalf("Qualified: %v", err)
	}
	if ok {
		t.Error("Qualified = true with one of two required skills")
	}
}

func TestQualified_ExpiredCertificationRemovesQualification(t *testing.T) {
	f := newFakeRoster()
	f.title("Police Officer", "Driving")
	f.course("evoc", "Driving")
	f.cert("p-1", "evoc", certdomain.StatusExpired)

	ok, err := newService(f).Qualified(context.Background(), "p-1", "Police Officer")
	if err != nil {
		t.Fatalf("Qualified: %v", err)
	}
	if ok {
		t.Error("Qualified = true with only an expired certification")
	}
}

func TestQualified_EmptyRequiredSetIsVacuouslyTrue(t *testing.T) {
	f := newFakeRoster()
	f.title("Volunteer")

	ok, err := newService(f).Qualified(context.Background(), "p-nobody", "Volunteer")
	if err != nil {
		t.Fatalf("Qualified: %v", err)
	}
	if !ok {
		t.Error("Qualified(Volunteer) = false, want true for a title with no required skills")
	}
}

func TestQualified_MissingTitle(t *testing.T) {
	f := newFakeRoster()
	f.course("evoc", "Driving")
	f.cert("p-1", "evoc", certdomain.StatusActive)
	ctx := context.Background()

	ok, err := newService(f).Qualified(ctx, "p-1", "Astronaut")
	if err != nil {
		t.Fatalf("Qualified with deny policy: %v", err)
	}
	if ok {
		t.Error("Qualified(unknown title) = true, want false")
	}

	_, err = newService(f, WithMissingTitlePolicy(MissingTitleError)).Qualified(ctx, "p-1", "Astronaut")
	if !errors.Is(err, ErrTitleNotFound) {
		t.Errorf("Qualified with error policy = %v, want ErrTitleNotFound", err)
	}
}

func TestQualified_RepositoryErrorsPropagate(t *testing.T) {
	boom := errors.New("db down")
	ctx := context.Background()

	f := newFakeRoster()
	f.title("Police Officer", "Driving")
	f.certErr = boom
	if _, err := newService(f).Qualified(ctx, "p-1", "Police Officer"); !errors.Is(err, boom) {
		t.Errorf("cert error = %v, want %v", err, boom)
	}

	f = newFakeRoster()
	f.titleErr = boom
	if _, err := newService(f).Qualified(ctx, "p-1", "Police Officer"); !errors.Is(err, boom) {
		t.Errorf("title error = %v, want %v", err, boom)
	}

	f = newFakeRoster()
	f.course("evoc", "Driving")
	f.cert("p-1", "evoc", certdomain.StatusActive)
	f.courseErr = boom
	if _, err := newService(f).Skilled(ctx, "p-1", "Driving"); !errors.Is(err, boom) {
		t.Errorf("course error = %v, want %v", err, boom)
	}
}

func TestQualified_NoTitleRepository(t *testing.T) {
	f := newFakeRoster()
	svc := NewService(f, f, nil)
	if _, err := svc.Qualified(context.Background(), "p-1", "Police Officer"); err == nil {
		t.Error("Qualified without a title repository should fail")
	}
}

func TestQualifiedTitles(t *testing.T) {
	f := newFakeRoster()
	f.title("Police Officer", "Driving")
	f.title("SAR Team", "Land Navigation")
	f.title("Volunteer")
	f.title("Driver Trainer", "Driving", "Instruction")
	f.course("evoc", "Driving")
	f.cert("p-1", "evoc", certdomain.StatusActive)

	got, err := newService(f).QualifiedTitles(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("QualifiedTitles: %v", err)
	}
	want := []string{"Police Officer", "Volunteer"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("QualifiedTitles mismatch (-want +got):\n%s", diff)
	}
}

type failingEvaluator struct{ err error }

func (e failingEvaluator) Evaluate(context.Context, []string, SkillSet) (Decision, error) {
	return Decision{}, e.err
}

func TestQualified_EvaluatorErrorPropagates(t *testing.T) {
	boom := errors.New("policy broken")
	f := newFakeRoster()
	f.title("Police Officer", "Driving")
	svc := newService(f, WithEvaluator(failingEvaluator{err: boom}))
	if _, err := svc.Qualified(context.Background(), "p-1", "Police Officer"); !errors.Is(err, boom) {
		t.Errorf("Qualified = %v, want %v", err, boom)
	}
}
