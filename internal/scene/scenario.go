package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trickstertwo/xintersect"
)

// Scenario is a scripted run: a viewport, elements, observers and per-tick moves.
type Scenario struct {
	Document  string          `yaml:"document"`
	Viewport  xintersect.Rect `yaml:"viewport"`
	Elements  []ElementSpec   `yaml:"elements"`
	Observers []ObserverSpec  `yaml:"observers"`
	Ticks     []Tick          `yaml:"ticks"`
}

type ElementSpec struct {
	Name string          `yaml:"name"`
	Rect xintersect.Rect `yaml:"rect"`
}

type ObserverSpec struct {
	Name string `yaml:"name"`
	// Root names an element; empty means the viewport.
	Root    string   `yaml:"root"`
	Targets []string `yaml:"targets"`

	xintersect.ObserverConfig `yaml:",inline"`
}

// Tick lists the changes applied before one update cycle.
type Tick struct {
	Moves     map[string]xintersect.Rect `yaml:"moves"`
	Dispose   []string                   `yaml:"dispose"`
	Unobserve []Pair                     `yaml:"unobserve"`
}

type Pair struct {
	Observer string `yaml:"observer"`
	Target   string `yaml:"target"`
}

// LoadFile reads a YAML scenario file.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and checks a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Document == "" {
		s.Document = "document"
	}
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		s.Viewport = xintersect.Rect{Width: 1280, Height: 720}
	}
}

func (s *Scenario) validate() error {
	names := map[string]bool{ViewportName: true}
	for _, e := range s.Elements {
		if e.Name == "" {
			return fmt.Errorf("scene: element without name")
		}
		if names[e.Name] {
			return fmt.Errorf("scene: duplicate element %q", e.Name)
		}
		names[e.Name] = true
	}
	for _, o := range s.Observers {
		if o.Root != "" && !names[o.Root] {
			return fmt.Errorf("scene: observer %q: unknown root %q", o.Name, o.Root)
		}
		for _, t := range o.Targets {
			if !names[t] {
				return fmt.Errorf("scene: observer %q: unknown target %q", o.Name, t)
			}
		}
	}
	for i, t := range s.Ticks {
		for n := range t.Moves {
			if !names[n] {
				return fmt.Errorf("scene: tick %d: unknown element %q", i, n)
			}
		}
	}
	return nil
}
