package diagram

import (
	"github.com/olehluchkiv/epwizard/internal/pages"
)

// Plan is the page sequence the wizard would show for one component and
// endpoint type.
type Plan struct {
	Component        string
	EndpointType     string
	MaxFieldsPerPage int
	Steps            []pages.Step
}

// FieldCount returns the number of fields across all pages.
func (p Plan) FieldCount() int {
	if len(p.Steps) == 0 {
		return 0
	}
	return len(p.Steps[0].AllFields)
}
