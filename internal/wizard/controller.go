package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/olehluchkiv/epwizard/internal/catalog"
	"github.com/olehluchkiv/epwizard/internal/options"
	"github.com/olehluchkiv/epwizard/internal/pages"
)

// MaxOptions is the default number of fields shown on one page.
const MaxOptions = 20

// Config wires a Controller to its collaborators. Catalog is required;
// Grouper and Paginator default to the built-in implementations and a nil
// Observer is a no-op. Targets, Installer and Sink are optional.
type Config struct {
	Catalog          Catalog
	Grouper          options.Grouper
	Paginator        pages.Paginator
	Targets          TargetEnumerator
	Installer        DependencyInstaller
	Sink             CommitSink
	Observer         Observer
	MaxFieldsPerPage int
}

// Controller drives wizard sessions. It keeps no per-session state, so one
// Controller can serve many sessions as long as each session is used by
// one goroutine at a time.
type Controller struct {
	cfg    Config
	logger *slog.Logger
}

// NewController validates cfg and fills in defaults.
func NewController(cfg Config, logger *slog.Logger) (*Controller, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("wizard: catalog is required")
	}
	if cfg.Grouper == nil {
		cfg.Grouper = options.NewDefaultGrouper()
	}
	if cfg.Paginator == nil {
		cfg.Paginator = pages.Default
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.MaxFieldsPerPage == 0 {
		cfg.MaxFieldsPerPage = MaxOptions
	}
	if cfg.MaxFieldsPerPage < 0 {
		return nil, fmt.Errorf("wizard: %w", options.ErrInvalidPageSize)
	}
	return &Controller{
		cfg:    cfg,
		logger: logger.With("component", "wizard"),
	}, nil
}

// MaxFieldsPerPage returns the page cap in use.
func (c *Controller) MaxFieldsPerPage() int { return c.cfg.MaxFieldsPerPage }

// Start creates a session for project and returns the effects that set up
// the initial form: filter choices defaulting to all components, the
// component list, the three-way endpoint type and the candidate targets.
func (c *Controller) Start(ctx context.Context, project string) (*Session, []Effect, error) {
	s := NewSession(project)

	filters, err := c.cfg.Catalog.Filters(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("starting wizard: %w", err)
	}
	names, err := c.cfg.Catalog.ComponentNames(ctx, s.Filter)
	if err != nil {
		return nil, nil, fmt.Errorf("starting wizard: %w", err)
	}
	s.ComponentChoices = names

	var effects []Effect
	effects = append(effects, choicesEffects(SelectorFilter, Choices{Values: filters, Default: catalog.AllFilter})...)
	effects = append(effects,
		Effect{Kind: SetValue, Target: SelectorFilter, Value: s.Filter},
		Effect{Kind: SetValueChoices, Target: SelectorComponent, Choices: names},
	)
	effects = append(effects, choicesEffects(SelectorEndpointType, DeriveEndpointTypeChoices(nil))...)

	if c.cfg.Targets != nil {
		targets, err := c.cfg.Targets.ListCandidateTargets(ctx, project)
		if err != nil {
			return nil, nil, fmt.Errorf("listing targets: %w", err)
		}
		s.TargetChoices = targets
		effects = append(effects, Effect{Kind: SetValueChoices, Target: SelectorTarget, Choices: targets})
		if len(targets) > 0 {
			s.TargetReference = targets[0]
			effects = append(effects, Effect{Kind: SetDefaultValue, Target: SelectorTarget, Value: targets[0]})
		}
	}

	s.State = FilterChosen
	c.logger.Info("wizard started", "session", s.ID, "project", project, "components", len(names))
	return s, effects, nil
}

// Handle applies a selector change to s.
func (c *Controller) Handle(ctx context.Context, s *Session, ev Event) []Effect {
	before := s.EndpointType
	next, effects := Transition(ctx, *s, ev, c.cfg.Catalog)

	if next.EndpointType != before && (ev.Selector != SelectorEndpointType || next.EndpointType != ev.Value) {
		c.logger.Debug("endpoint type corrected", "session", s.ID, "from", before, "to", next.EndpointType)
	}
	if next.State == Error && next.Err != s.Err {
		if errors.Is(next.Err, ErrCatalogMiss) {
			c.cfg.Observer.CatalogMissed()
		}
		c.logger.Warn("component selection failed", "session", s.ID, "component", next.ComponentName, "error", next.Err)
	}
	*s = next
	return effects
}

// Next resolves the schema of the selected component and enters the first
// page. Pages come from the session's navigation cache when the component
// is unchanged; a change of filter or endpoint type since the last build
// bypasses the cache.
func (c *Controller) Next(ctx context.Context, s *Session) error {
	if s.State != TypeDerived {
		return invalidTransition("next", s.State)
	}
	if s.InstanceName == "" {
		return fmt.Errorf("next: %w", multierror.Append(nil, &MissingFieldError{Key: string(SelectorInstanceName)}))
	}

	snapshot := buildSnapshot{Component: s.ComponentName, Filter: s.Filter, EndpointType: s.EndpointType}
	s.State = SchemaResolving
	build := func() ([]pages.Step, error) { return c.buildSteps(ctx, snapshot) }

	var (
		steps  []pages.Step
		result string
		err    error
	)
	if s.Stale() {
		result = "rebuild"
		steps, err = s.cache.Rebuild(snapshot.Component, build)
	} else {
		var hit bool
		steps, hit, err = s.cache.GetOrBuild(snapshot.Component, build)
		result = "miss"
		if hit {
			result = "hit"
		}
	}
	if err != nil {
		c.cfg.Observer.NavigationBuilt("error")
		if errors.Is(err, ErrCatalogMiss) {
			c.cfg.Observer.CatalogMissed()
		}
		s.State, s.Err, s.Steps, s.Page = Error, err, nil, 0
		c.logger.Error("building pages failed", "session", s.ID, "component", snapshot.Component, "error", err)
		return err
	}
	c.cfg.Observer.NavigationBuilt(result)

	if s.built == nil || s.built.Component != snapshot.Component {
		s.Values = make(map[string]string)
	}
	s.built = &snapshot
	s.Steps = steps
	s.Page = 0
	s.State = Paging

	c.logger.Info("pages ready", "session", s.ID, "component", snapshot.Component,
		"pages", len(steps), "result", result, "generation", s.cache.Generation())
	return nil
}

func (c *Controller) buildSteps(ctx context.Context, snap buildSnapshot) ([]pages.Step, error) {
	schema, err := c.cfg.Catalog.ResolveSchema(ctx, snap.Component)
	if err != nil {
		return nil, catalogMiss(snap.Component, err)
	}
	consumerOnly, producerOnly := directionFlags(snap.EndpointType)
	groups, err := c.cfg.Grouper.Group(schema, c.cfg.MaxFieldsPerPage, consumerOnly, producerOnly)
	if err != nil {
		return nil, fmt.Errorf("grouping options of %q: %w", snap.Component, err)
	}
	steps, err := c.cfg.Paginator.Paginate(groups, c.cfg.MaxFieldsPerPage)
	if err != nil {
		return nil, fmt.Errorf("paginating options of %q: %w", snap.Component, err)
	}
	return steps, nil
}

// Preview returns the pages Next would build for component and
// endpointType without touching any session, together with the endpoint
// type used. An empty endpointType means the component's default.
func (c *Controller) Preview(ctx context.Context, component, endpointType string) ([]pages.Step, string, error) {
	d, err := c.cfg.Catalog.ResolveCapabilities(ctx, component)
	if err != nil {
		c.cfg.Observer.CatalogMissed()
		return nil, "", catalogMiss(component, err)
	}
	choices := DeriveEndpointTypeChoices(&d)
	if endpointType == "" {
		endpointType = choices.Default
	}
	if !choices.Contains(endpointType) {
		return nil, "", fmt.Errorf("endpoint type %q not supported by %q (choices: %v)", endpointType, component, choices.Values)
	}
	steps, err := c.buildSteps(ctx, buildSnapshot{Component: component, EndpointType: endpointType})
	if err != nil {
		return nil, "", err
	}
	return steps, endpointType, nil
}

// SetValue stores the value of a field of the current page set. An empty
// value clears the field.
func (c *Controller) SetValue(s *Session, key, value string) error {
	if s.State != Paging && s.State != Error {
		return invalidTransition("set value", s.State)
	}
	if len(s.Steps) == 0 || !hasField(s.Steps[0].AllFields, key) {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	if value == "" {
		delete(s.Values, key)
		return nil
	}
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	s.Values[key] = value
	return nil
}

// Advance moves to the next page once the required fields of the current
// page are filled. On the last page it commits.
func (c *Controller) Advance(ctx context.Context, s *Session) error {
	step, ok := s.CurrentStep()
	if !ok {
		return invalidTransition("advance", s.State)
	}
	if err := checkRequired(step.PageFields, s.Values); err != nil {
		return fmt.Errorf("page %d: %w", step.Index+1, err)
	}
	if step.IsLast {
		return c.Commit(ctx, s)
	}
	s.Page++
	return nil
}

// Back moves to the previous page. From the first page it returns to the
// selector form; the navigation cache and entered values are kept.
func (c *Controller) Back(s *Session) error {
	if s.State != Paging {
		return invalidTransition("back", s.State)
	}
	if s.Page > 0 {
		s.Page--
		return nil
	}
	s.State = TypeDerived
	return nil
}

// Commit hands the collected values to the commit sink after installing
// the component dependency. Required fields are checked and the sink
// validates the request first, so a rejected commit writes nothing. Any
// failure leaves the session in Error with its values intact; Commit may
// then be retried.
func (c *Controller) Commit(ctx context.Context, s *Session) error {
	switch {
	case s.State == Paging && s.Page == len(s.Steps)-1:
	case s.State == Error && len(s.Steps) > 0 && !s.Stale():
	default:
		return invalidTransition("commit", s.State)
	}

	if err := checkRequired(s.Steps[0].AllFields, s.Values); err != nil {
		c.cfg.Observer.CommitFinished("invalid")
		return fmt.Errorf("commit: %w", err)
	}

	req := CommitRequest{
		Project:         s.Project,
		ComponentName:   s.ComponentName,
		InstanceName:    s.InstanceName,
		TargetReference: s.TargetReference,
		Mode:            ModeAdd,
		Kind:            KindJava,
		Fields:          s.CollectedValues(),
	}

	if c.cfg.Sink != nil {
		if err := c.cfg.Sink.Validate(ctx, req); err != nil {
			return c.commitFailed(s, fmt.Errorf("committing %q: %w", s.InstanceName, err))
		}
	}
	if c.cfg.Installer != nil {
		if err := c.cfg.Installer.EnsureDependency(ctx, s.Project, s.ComponentName); err != nil {
			return c.commitFailed(s, fmt.Errorf("installing %q: %w", s.ComponentName, err))
		}
	}
	if c.cfg.Sink != nil {
		if err := c.cfg.Sink.Commit(ctx, req); err != nil {
			return c.commitFailed(s, fmt.Errorf("committing %q: %w", s.InstanceName, err))
		}
	}

	s.State = Committed
	s.Err = nil
	c.cfg.Observer.CommitFinished("ok")
	c.logger.Info("endpoint committed", "session", s.ID, "component", s.ComponentName,
		"instance", s.InstanceName, "target", s.TargetReference, "fields", len(req.Fields))
	return nil
}

func (c *Controller) commitFailed(s *Session, err error) error {
	s.State = Error
	s.Err = err
	c.cfg.Observer.CommitFinished("error")
	c.logger.Error("commit failed", "session", s.ID, "error", err)
	return err
}

func hasField(fields []options.FieldDescriptor, key string) bool {
	for _, f := range fields {
		if f.Key == key {
			return true
		}
	}
	return false
}
