// Package seed loads roster fixtures from YAML and applies them through the services.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFixture []byte

// Fixture is a roster snapshot to load.
type Fixture struct {
	Skills  []string        `yaml:"skills"`
	Courses []CourseFixture `yaml:"courses"`
	Titles  []TitleFixture  `yaml:"titles"`
	People  []PersonFixture `yaml:"people"`
}

// CourseFixture is a course and the skill names it teaches.
type CourseFixture struct {
	Name   string   `yaml:"name"`
	Skills []string `yaml:"skills"`
}

// TitleFixture is a title and the skill names it requires.
type TitleFixture struct {
	Name   string   `yaml:"name"`
	Skills []string `yaml:"skills"`
}

// PersonFixture is a person keyed by badge, with certifications by course name.
type PersonFixture struct {
	FirstName      string               `yaml:"first_name"`
	LastName       string               `yaml:"last_name"`
	City           string               `yaml:"city"`
	State          string               `yaml:"state"`
	Zip            string               `yaml:"zip"`
	Division1      string               `yaml:"division1"`
	Division2      string               `yaml:"division2"`
	BadgeID        string               `yaml:"badge_id"`
	Certifications []CertificationEntry `yaml:"certifications"`
}

// CertificationEntry names a course; an empty status means Active.
type CertificationEntry struct {
	Course string `yaml:"course"`
	Status string `yaml:"status"`
}

// Default returns the embedded sample fixture.
func Default() (Fixture, error) {
	return Parse(defaultFixture)
}

// Parse decodes a fixture. Unknown keys are rejected.
func Parse(data []byte) (Fixture, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Fixture{}, fmt.Errorf("seed: fixture is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return Fixture{}, fmt.Errorf("seed: decode fixture: %w", err)
	}
	return f, nil
}

// LoadFile reads and parses the fixture at path.
func LoadFile(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return Fixture{}, fmt.Errorf("seed: %s: %w", path, err)
	}
	return f, nil
}
