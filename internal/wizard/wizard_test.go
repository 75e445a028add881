package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/olehluchkiv/epwizard/internal/catalog"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// timerJSON has 25 common fields (the first one required) and 3 advanced.
func timerJSON() string {
	var b strings.Builder
	b.WriteString(`{"component": {"name": "timer", "label": "core", "consumerOnly": true, "description": "Fires events"}, "properties": {`)
	b.WriteString(`"c00": {"kind": "path", "group": "common", "required": true},`)
	for i := 1; i < 25; i++ {
		fmt.Fprintf(&b, `"c%02d": {"group": "common"},`, i)
	}
	b.WriteString(`"a0": {"group": "advanced"}, "a1": {"group": "advanced"}, "a2": {"group": "advanced", "defaultValue": 5}}}`)
	return b.String()
}

const (
	logJSON = `{"component": {"name": "log", "label": "core,monitoring", "producerOnly": true},
 "properties": {
  "loggerName": {"kind": "path", "group": "common", "required": true},
  "level": {"group": "producer", "defaultValue": "INFO", "enum": ["INFO", "WARN"]}}}`
	kafkaJSON = `{"component": {"name": "kafka", "label": "messaging"},
 "properties": {
  "topic": {"kind": "path", "group": "common", "required": true},
  "groupId": {"group": "consumer"},
  "acks": {"group": "producer"}}}`
	ghostJSON = `{"component": {"name": "ghost", "label": "core"}}`
)

// countingService counts schema lookups and can pretend schemas are missing.
type countingService struct {
	catalog.Service
	schemaCalls map[string]int
	missing     map[string]bool
}

func (c *countingService) Schema(ctx context.Context, name string) (*catalog.Schema, error) {
	c.schemaCalls[name]++
	if c.missing[name] {
		return nil, catalog.ErrNotFound
	}
	return c.Service.Schema(ctx, name)
}

func newTestCatalog(t *testing.T) (*catalog.Client, *countingService) {
	t.Helper()
	files, err := catalog.LoadFS(fstest.MapFS{
		"timer.json": {Data: []byte(timerJSON())},
		"log.json":   {Data: []byte(logJSON)},
		"kafka.json": {Data: []byte(kafkaJSON)},
		"ghost.json": {Data: []byte(ghostJSON)},
	})
	require.NoError(t, err)
	svc := &countingService{
		Service:     files,
		schemaCalls: make(map[string]int),
		missing:     map[string]bool{"ghost": true},
	}
	return catalog.NewClient(svc, testLogger()), svc
}

type fakeTargets []string

func (f fakeTargets) ListCandidateTargets(context.Context, string) ([]string, error) {
	return f, nil
}

type fakeInstaller struct {
	calls []string
	err   error
}

func (f *fakeInstaller) EnsureDependency(_ context.Context, _, componentName string) error {
	f.calls = append(f.calls, componentName)
	return f.err
}

type recordingSink struct {
	reqs      []CommitRequest
	err       error
	rejectErr error
}

func (r *recordingSink) Validate(context.Context, CommitRequest) error { return r.rejectErr }

func (r *recordingSink) Commit(_ context.Context, req CommitRequest) error {
	if r.err != nil {
		return r.err
	}
	r.reqs = append(r.reqs, req)
	return nil
}

type recordingObserver struct {
	builds  []string
	commits []string
	misses  int
}

func (r *recordingObserver) NavigationBuilt(result string) { r.builds = append(r.builds, result) }
func (r *recordingObserver) CommitFinished(status string)  { r.commits = append(r.commits, status) }
func (r *recordingObserver) CatalogMissed()                { r.misses++ }

type fixture struct {
	ctrl      *Controller
	svc       *countingService
	installer *fakeInstaller
	sink      *recordingSink
	observer  *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client, svc := newTestCatalog(t)
	f := &fixture{
		svc:       svc,
		installer: &fakeInstaller{},
		sink:      &recordingSink{},
		observer:  &recordingObserver{},
	}
	ctrl, err := NewController(Config{
		Catalog:          client,
		Targets:          fakeTargets{"routes.OrderRoutes", "routes.TimerRoutes"},
		Installer:        f.installer,
		Sink:             f.sink,
		Observer:         f.observer,
		MaxFieldsPerPage: 20,
	}, testLogger())
	require.NoError(t, err)
	f.ctrl = ctrl
	return f
}

// open starts a session, selects component and names the instance.
func (f *fixture) open(t *testing.T, component string) *Session {
	t.Helper()
	ctx := context.Background()
	s, _, err := f.ctrl.Start(ctx, "/tmp/project")
	require.NoError(t, err)
	f.ctrl.Handle(ctx, s, Event{Selector: SelectorComponent, Value: component})
	f.ctrl.Handle(ctx, s, Event{Selector: SelectorInstanceName, Value: "ep1"})
	return s
}
