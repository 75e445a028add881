package targets

import (
	"context"
	"log/slog"
)

// Enumerator lists route builder references in a project directory.
type Enumerator struct {
	opts   Options
	logger *slog.Logger
}

// NewEnumerator creates an Enumerator.
func NewEnumerator(opts Options, logger *slog.Logger) *Enumerator {
	return &Enumerator{opts: opts, logger: logger.With("component", "targets")}
}

// ListCandidateTargets returns the unique "pkg.Type" references of the
// types in project implementing the configured interface.
func (e *Enumerator) ListCandidateTargets(ctx context.Context, project string) ([]string, error) {
	found, err := Discover(ctx, project, e.opts, e.logger)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(found))
	for _, t := range found {
		ref := t.Reference()
		if len(out) > 0 && out[len(out)-1] == ref {
			continue
		}
		out = append(out, ref)
	}
	return out, nil
}
