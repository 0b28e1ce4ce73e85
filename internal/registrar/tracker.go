// Package registrar turns manifest workflows into live tool registrations
// on an MCP host. The engine resolves workflows to tools, the handle
// abstracts over host capabilities, and the tracker remembers what has
// already been registered so repeat activations are idempotent.
package registrar

import "sync"

// Tracker records which tools are registered and which workflows are
// enabled. One tracker per engine; two engines never share state.
type Tracker struct {
	mu        sync.RWMutex
	toolOwner map[string]string // wire name -> workflow id that registered it
	workflows []string          // enabled workflows in activation order
}

func NewTracker() *Tracker {
	return &Tracker{toolOwner: make(map[string]string)}
}

// IsToolRegistered reports whether a tool wire name is already live.
func (t *Tracker) IsToolRegistered(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.toolOwner[name]
	return ok
}

// Record marks a tool as registered on behalf of a workflow. Recording an
// already-tracked name reassigns ownership.
func (t *Tracker) Record(name, workflow string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.toolOwner[name] = workflow
}

// MarkWorkflow records a workflow as enabled. Re-marking is a no-op.
func (t *Tracker) MarkWorkflow(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, w := range t.workflows {
		if w == id {
			return
		}
	}
	t.workflows = append(t.workflows, id)
}

// IsWorkflowEnabled reports whether a workflow has been marked.
func (t *Tracker) IsWorkflowEnabled(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, w := range t.workflows {
		if w == id {
			return true
		}
	}
	return false
}

// EnabledWorkflows returns the enabled workflows in activation order.
func (t *Tracker) EnabledWorkflows() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	res := make([]string, len(t.workflows))
	copy(res, t.workflows)
	return res
}

// RegisteredTools returns the wire names of all registered tools, in no
// particular order.
func (t *Tracker) RegisteredTools() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.toolOwner))
	for name := range t.toolOwner {
		names = append(names, name)
	}
	return names
}

// Reset clears all state and returns the wire names that were registered,
// so the caller can remove them from the host.
func (t *Tracker) Reset() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.toolOwner))
	for name := range t.toolOwner {
		names = append(names, name)
	}
	t.toolOwner = make(map[string]string)
	t.workflows = nil
	return names
}
