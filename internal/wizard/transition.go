package wizard

import (
	"context"
	"slices"

	"github.com/olehluchkiv/epwizard/internal/catalog"
)

// Transition applies one selector change to s and returns the updated
// session together with the UI effects the change causes. The input
// session is not modified. Catalog reads go through caps.
//
// Filter and component changes cascade: the component list is
// re-enumerated, a component no longer offered is cleared, and the
// endpoint type choices are re-derived. A change of filter, component or
// endpoint type away from the values the pages were built with sends the
// session back to TypeDerived so the next build sees the new selection,
// also when it sits in Error after a failed commit.
// Instance name and target changes never touch the pages, and neither does
// re-selecting the values the pages were built from.
func Transition(ctx context.Context, s Session, ev Event, caps CapabilityResolver) (Session, []Effect) {
	var effects []Effect
	prev, prevErr := s.State, s.Err

	switch ev.Selector {
	case SelectorFilter:
		s.Filter = ev.Value
		if s.Filter == "" {
			s.Filter = catalog.AllFilter
		}
		names, err := caps.ComponentNames(ctx, s.Filter)
		if err != nil {
			return s, []Effect{{Kind: SetNote, Target: SelectorFilter, Value: err.Error()}}
		}
		s.ComponentChoices = names
		effects = append(effects, Effect{Kind: SetValueChoices, Target: SelectorComponent, Choices: names})
		if s.ComponentName != "" && !slices.Contains(names, s.ComponentName) {
			s.ComponentName = ""
			s.Component = nil
			effects = append(effects,
				Effect{Kind: SetValue, Target: SelectorComponent, Value: ""},
				Effect{Kind: SetNote, Target: SelectorComponent, Value: ""},
			)
			s, effects = deriveEndpointType(s, effects)
		}
		if s.State < ComponentChosen || s.ComponentName == "" {
			s.State = FilterChosen
		}

	case SelectorComponent:
		s.Err = nil
		s.ComponentName = ev.Value
		s.Component = nil
		if s.ComponentName == "" {
			s.State = FilterChosen
			effects = append(effects, Effect{Kind: SetNote, Target: SelectorComponent, Value: ""})
			s, effects = deriveEndpointType(s, effects)
			break
		}
		s.State = ComponentChosen
		d, err := caps.ResolveCapabilities(ctx, s.ComponentName)
		if err != nil {
			s.State = Error
			s.Err = catalogMiss(s.ComponentName, err)
			s.Steps = nil
			s.Page = 0
			effects = append(effects, Effect{Kind: SetNote, Target: SelectorComponent, Value: s.Err.Error()})
			break
		}
		s.Component = &d
		effects = append(effects, Effect{Kind: SetNote, Target: SelectorComponent, Value: caps.Description(ctx, s.ComponentName)})
		s, effects = deriveEndpointType(s, effects)
		s.State = TypeDerived

	case SelectorEndpointType:
		valid := Choices{Values: s.EndpointTypeChoices, Default: DeriveEndpointTypeChoices(s.Component).Default}
		if valid.Contains(ev.Value) {
			s.EndpointType = ev.Value
		} else {
			s.EndpointType = valid.Default
			effects = append(effects, Effect{Kind: SetValue, Target: SelectorEndpointType, Value: s.EndpointType})
		}

	case SelectorInstanceName:
		s.InstanceName = ev.Value
		return s, nil

	case SelectorTarget:
		s.TargetReference = ev.Value
		return s, nil

	default:
		return s, nil
	}

	// A failed commit keeps its pages, so Error is checked like Paging.
	if (prev == PagesBuilt || prev == Paging || prev == Error) && len(s.Steps) > 0 {
		switch {
		case s.built != nil && s.built.Component == s.ComponentName && !s.Stale():
			s.State, s.Err = prev, prevErr
		case s.ComponentName == "":
			s.State, s.Steps, s.Page, s.Err = FilterChosen, nil, 0, nil
		default:
			s.State, s.Steps, s.Page, s.Err = TypeDerived, nil, 0, nil
		}
	}
	return s, effects
}

// deriveEndpointType replaces the endpoint type choices for the current
// component. The current value is reset to the new default only when it is
// not a member of the new choices.
func deriveEndpointType(s Session, effects []Effect) (Session, []Effect) {
	c := DeriveEndpointTypeChoices(s.Component)
	s.EndpointTypeChoices = c.Values
	effects = append(effects, choicesEffects(SelectorEndpointType, c)...)
	if !c.Contains(s.EndpointType) {
		s.EndpointType = c.Default
		effects = append(effects, Effect{Kind: SetValue, Target: SelectorEndpointType, Value: c.Default})
	}
	return s, effects
}
