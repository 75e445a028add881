package wizard

// Selector names a top-level input of the wizard form.
type Selector string

const (
	SelectorFilter       Selector = "filter"
	SelectorComponent    Selector = "componentName"
	SelectorEndpointType Selector = "endpointType"
	SelectorInstanceName Selector = "instanceName"
	SelectorTarget       Selector = "targetReference"
)

// EffectKind is the host UI primitive an Effect drives.
type EffectKind string

const (
	SetValueChoices EffectKind = "setValueChoices"
	SetValue        EffectKind = "setValue"
	SetDefaultValue EffectKind = "setDefaultValue"
	SetNote         EffectKind = "setNote"
)

// Effect is an instruction to the host UI.
type Effect struct {
	Kind    EffectKind `json:"kind"`
	Target  Selector   `json:"target"`
	Choices []string   `json:"choices,omitempty"`
	Value   string     `json:"value,omitempty"`
}

// Event is a value change of one selector.
type Event struct {
	Selector Selector `json:"selector"`
	Value    string   `json:"value"`
}

func choicesEffects(target Selector, c Choices) []Effect {
	return []Effect{
		{Kind: SetValueChoices, Target: target, Choices: c.Values},
		{Kind: SetDefaultValue, Target: target, Value: c.Default},
	}
}
