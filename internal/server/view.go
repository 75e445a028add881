package server

import (
	"github.com/olehluchkiv/epwizard/internal/options"
	"github.com/olehluchkiv/epwizard/internal/wizard"
)

const redacted = "[REDACTED]"

type sessionView struct {
	ID                  string            `json:"id"`
	State               wizard.State      `json:"state"`
	Project             string            `json:"project"`
	Filter              string            `json:"filter"`
	ComponentChoices    []string          `json:"componentChoices"`
	ComponentName       string            `json:"componentName,omitempty"`
	EndpointType        string            `json:"endpointType"`
	EndpointTypeChoices []string          `json:"endpointTypeChoices"`
	InstanceName        string            `json:"instanceName,omitempty"`
	TargetChoices       []string          `json:"targetChoices,omitempty"`
	TargetReference     string            `json:"targetReference,omitempty"`
	Stale               bool              `json:"stale"`
	Page                *pageView         `json:"page,omitempty"`
	Values              map[string]string `json:"values"`
	Error               string            `json:"error,omitempty"`
}

type pageView struct {
	Index      int         `json:"index"`
	TotalPages int         `json:"totalPages"`
	GroupName  string      `json:"groupName"`
	IsLast     bool        `json:"isLast"`
	Fields     []fieldView `json:"fields"`
}

type fieldView struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Default     string   `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Secret      bool     `json:"secret,omitempty"`
	Value       string   `json:"value,omitempty"`
}

// viewOf renders a session for the API. Values of secret fields are masked.
func viewOf(s *wizard.Session) sessionView {
	v := sessionView{
		ID:                  s.ID,
		State:               s.State,
		Project:             s.Project,
		Filter:              s.Filter,
		ComponentChoices:    s.ComponentChoices,
		ComponentName:       s.ComponentName,
		EndpointType:        s.EndpointType,
		EndpointTypeChoices: s.EndpointTypeChoices,
		InstanceName:        s.InstanceName,
		TargetChoices:       s.TargetChoices,
		TargetReference:     s.TargetReference,
		Stale:               s.Stale(),
		Values:              make(map[string]string, len(s.Values)),
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}

	secret := make(map[string]bool)
	if len(s.Steps) > 0 {
		for _, f := range s.Steps[0].AllFields {
			if f.Secret {
				secret[f.Key] = true
			}
		}
	}
	for k, val := range s.Values {
		if secret[k] {
			val = redacted
		}
		v.Values[k] = val
	}

	if step, ok := s.CurrentStep(); ok {
		pv := &pageView{
			Index:      step.Index,
			TotalPages: step.TotalPages,
			GroupName:  step.GroupName,
			IsLast:     step.IsLast,
			Fields:     make([]fieldView, 0, len(step.PageFields)),
		}
		for _, f := range step.PageFields {
			pv.Fields = append(pv.Fields, fieldViewOf(f, v.Values[f.Key]))
		}
		v.Page = pv
	}
	return v
}

func fieldViewOf(f options.FieldDescriptor, value string) fieldView {
	def, _ := f.DefaultValue()
	return fieldView{
		Key:         f.Key,
		Label:       f.Label,
		Type:        f.Type,
		Required:    f.Required,
		Default:     def,
		Description: f.Description,
		Enum:        f.Enum,
		Secret:      f.Secret,
		Value:       value,
	}
}
