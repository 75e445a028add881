package wizard

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/olehluchkiv/epwizard/internal/catalog"
	"github.com/olehluchkiv/epwizard/internal/pages"
)

// State is the position of a session in the wizard.
type State int

const (
	Idle State = iota
	FilterChosen
	ComponentChosen
	TypeDerived
	SchemaResolving
	PagesBuilt
	Paging
	Committed
	Error
)

var stateNames = [...]string{
	Idle:            "idle",
	FilterChosen:    "filter-chosen",
	ComponentChosen: "component-chosen",
	TypeDerived:     "type-derived",
	SchemaResolving: "schema-resolving",
	PagesBuilt:      "pages-built",
	Paging:          "paging",
	Committed:       "committed",
	Error:           "error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown wizard state %q", text)
}

// buildSnapshot records the selector values pages were built from.
type buildSnapshot struct {
	Component    string
	Filter       string
	EndpointType string
}

// Session is the state of one wizard run.
type Session struct {
	ID      string
	State   State
	Project string

	Filter              string
	ComponentChoices    []string
	ComponentName       string
	Component           *catalog.ComponentDescriptor
	EndpointType        string
	EndpointTypeChoices []string
	InstanceName        string
	TargetChoices       []string
	TargetReference     string

	// Page is the index into Steps while State is Paging.
	Page  int
	Steps []pages.Step

	// Values holds entered field values keyed by field key. It survives
	// navigation cache hits.
	Values map[string]string

	// Err is the failure that moved the session to Error.
	Err error

	cache *NavigationCache
	built *buildSnapshot
}

// NewSession creates an idle session for project with its own navigation
// cache.
func NewSession(project string) *Session {
	return &Session{
		ID:                  uuid.NewString(),
		State:               Idle,
		Project:             project,
		Filter:              catalog.AllFilter,
		EndpointType:        AnyEndpointType,
		EndpointTypeChoices: DeriveEndpointTypeChoices(nil).Values,
		Values:              make(map[string]string),
		cache:               &NavigationCache{},
	}
}

// Cache returns the session's navigation cache.
func (s *Session) Cache() *NavigationCache { return s.cache }

// CurrentStep returns the page being shown, if any.
func (s *Session) CurrentStep() (pages.Step, bool) {
	if s.State != Paging || s.Page < 0 || s.Page >= len(s.Steps) {
		return pages.Step{}, false
	}
	return s.Steps[s.Page], true
}

// Stale reports whether the filter or endpoint type differ from the values
// the current pages were built with.
func (s *Session) Stale() bool {
	if s.built == nil || s.built.Component != s.ComponentName {
		return false
	}
	return s.built.Filter != s.Filter || s.built.EndpointType != s.EndpointType
}

// CollectedValues returns the non-empty values of every field in the page
// set, keyed by field key.
func (s *Session) CollectedValues() map[string]string {
	out := make(map[string]string)
	if len(s.Steps) == 0 {
		return out
	}
	for _, f := range s.Steps[0].AllFields {
		if v := s.Values[f.Key]; v != "" {
			out[f.Key] = v
		}
	}
	return out
}

