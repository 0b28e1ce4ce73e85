package registrar

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/xcmcp/xcmcp/internal/logger"
	"github.com/xcmcp/xcmcp/internal/manifest"
	"github.com/xcmcp/xcmcp/internal/tools"
)

// ErrNilHandle is returned when an engine is asked to activate workflows
// without a host handle.
var ErrNilHandle = errors.New("no host handle")

// Engine activates workflows: it resolves each workflow's tools through
// the manifest, loads the owning module's bundle, and registers the tools
// on the host. Activation is idempotent per tool wire name.
type Engine struct {
	manifest *manifest.Manifest
	handle   *Handle
	tracker  *Tracker

	mu      sync.Mutex
	loaders map[string]tools.Loader  // by module name
	bundles map[string]*tools.Bundle // loaded bundle cache
}

func NewEngine(m *manifest.Manifest, handle *Handle) *Engine {
	return &Engine{
		manifest: m,
		handle:   handle,
		tracker:  NewTracker(),
		loaders:  make(map[string]tools.Loader),
		bundles:  make(map[string]*tools.Bundle),
	}
}

// SetLoaders installs the module loader table. Called once during wiring,
// before any activation.
func (e *Engine) SetLoaders(loaders map[string]tools.Loader) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loaders = loaders
}

// Manifest returns the manifest the engine was built from.
func (e *Engine) Manifest() *manifest.Manifest { return e.manifest }

// EnabledWorkflows returns the currently enabled workflows in activation
// order.
func (e *Engine) EnabledWorkflows() []string { return e.tracker.EnabledWorkflows() }

// AvailableWorkflows returns every workflow the manifest declares.
func (e *Engine) AvailableWorkflows() []string { return e.manifest.WorkflowIDs() }

// WorkflowDescriptions renders the manifest's workflow summary.
func (e *Engine) WorkflowDescriptions() string { return e.manifest.WorkflowDescriptions() }

// IsWorkflowEnabled reports whether a workflow is currently enabled.
func (e *Engine) IsWorkflowEnabled(id string) bool { return e.tracker.IsWorkflowEnabled(id) }

// EnableDefaults activates every workflow the manifest marks
// default-enabled, plus the auto-include set. Used at startup.
func (e *Engine) EnableDefaults(ctx context.Context) error {
	var names []string
	for _, wid := range e.manifest.WorkflowIDs() {
		if e.manifest.Workflows[wid].DefaultEnabled() {
			names = append(names, wid)
		}
	}
	return e.EnableWorkflows(ctx, names, true)
}

// EnableWorkflows activates the named workflows. In additive mode the new
// tools join whatever is already registered; otherwise the current set is
// cleared first. Auto-include workflows are appended to every request.
// Unknown workflows, failed module loads and malformed tool references are
// logged and skipped; they never abort the rest of the request. Activation
// calls are serialized, so a replace's clear-then-add sequence cannot
// interleave with another activation.
func (e *Engine) EnableWorkflows(ctx context.Context, names []string, additive bool) error {
	if e.handle == nil {
		return ErrNilHandle
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cleared := 0
	if !additive {
		stale := e.tracker.Reset()
		cleared = len(stale)
		if cleared == 0 {
			logger.Debugf("No tools tracked; nothing to clear")
		} else if !e.handle.Delete(stale) {
			logger.Warnf("Host cannot delete tools; %d stale entries remain: %s",
				cleared, strings.Join(stale, ", "))
		}
	}

	requested := e.withAutoIncluded(names)

	type pending struct {
		name     string
		workflow string
	}
	var (
		batch    []server.ServerTool
		pendings []pending
		enabled  []string
		seen     = make(map[string]bool)
	)

	for _, wid := range requested {
		w, ok := e.manifest.Workflows[wid]
		if !ok {
			logger.Warnf("Unknown workflow %q requested; skipping", wid)
			continue
		}
		if len(w.Tools) == 0 {
			logger.Warnf("Workflow %q has no tools", wid)
		}

		resolved := 0
		loadFailed := 0
		for _, entry := range e.manifest.WorkflowTools(wid) {
			if !entry.ExposedViaMCP() {
				continue
			}
			wireName := entry.Names.MCP
			if seen[wireName] || e.tracker.IsToolRegistered(wireName) {
				resolved++
				continue
			}

			bundle, err := e.loadBundle(entry.Module)
			if err != nil {
				logger.Errorf("Workflow %q: loading module %q failed: %v", wid, entry.Module, err)
				loadFailed++
				continue
			}
			tool := bundle.Find(entry.ID)
			if tool == nil || tool.Def.Name == "" || tool.Handler == nil {
				logger.Warnf("Workflow %q: module %q has no usable tool %q", wid, entry.Module, entry.ID)
				continue
			}

			resolved++
			seen[wireName] = true
			batch = append(batch, server.ServerTool{Tool: tool.Def, Handler: Adapt(tool.Handler)})
			pendings = append(pendings, pending{name: wireName, workflow: wid})
		}

		// A workflow whose tools all failed to load was not activated; one
		// that resolved (even to zero new tools) was.
		if loadFailed > 0 && resolved == 0 {
			continue
		}
		e.tracker.MarkWorkflow(wid)
		enabled = append(enabled, wid)
	}

	hostNotified := e.handle.AddBatch(batch)
	for _, p := range pendings {
		e.tracker.Record(p.name, p.workflow)
	}

	// One notification per activation call; the bulk add already sent one.
	if !hostNotified {
		e.handle.NotifyListChanged()
	}

	logger.Infof("Enabled workflows [%s]: %d tools registered, %d cleared",
		strings.Join(enabled, ", "), len(batch), cleared)
	return nil
}

// withAutoIncluded appends the manifest's auto-include workflows to the
// request, preserving request order and de-duplicating.
func (e *Engine) withAutoIncluded(names []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, wid := range e.manifest.WorkflowIDs() {
		if e.manifest.Workflows[wid].AutoInclude() && !seen[wid] {
			seen[wid] = true
			out = append(out, wid)
		}
	}
	return out
}

func (e *Engine) loadBundle(module string) (*tools.Bundle, error) {
	if b, ok := e.bundles[module]; ok {
		return b, nil
	}
	load, ok := e.loaders[module]
	if !ok {
		return nil, errors.New("no loader registered")
	}
	b, err := load()
	if err != nil {
		return nil, err
	}
	e.bundles[module] = b
	return b, nil
}
