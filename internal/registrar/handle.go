package registrar

import (
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// BulkToolAdder registers a batch of tools in one call. Hosts with this
// capability emit their own tools/list_changed notification afterwards.
type BulkToolAdder interface {
	AddTools(tools ...server.ServerTool)
}

// ToolAdder registers one tool at a time without notifying clients.
type ToolAdder interface {
	AddTool(tool mcp.Tool, handler server.ToolHandlerFunc)
}

// LegacyToolAdder is the pre-batch registration surface some embedding
// hosts still expose.
type LegacyToolAdder interface {
	RegisterTool(name, description string, handler server.ToolHandlerFunc)
}

// ToolDeleter removes registered tools by wire name.
type ToolDeleter interface {
	DeleteTools(names ...string)
}

// ListChangedNotifier broadcasts a notification to all connected clients.
type ListChangedNotifier interface {
	SendNotificationToAllClients(method string, params map[string]any)
}

const listChangedMethod = "notifications/tools/list_changed"

// ErrNoRegistration is returned when a host exposes none of the known
// tool-registration surfaces.
var ErrNoRegistration = errors.New("host supports no tool registration interface")

// Handle wraps a host behind its strongest available capabilities. The
// interface assertions happen once, at construction.
type Handle struct {
	bulk     BulkToolAdder
	single   ToolAdder
	legacy   LegacyToolAdder
	deleter  ToolDeleter
	notifier ListChangedNotifier
}

// NewHandle probes the host for registration, deletion and notification
// capabilities. It fails only when no registration path exists at all.
func NewHandle(host any) (*Handle, error) {
	h := &Handle{}
	if b, ok := host.(BulkToolAdder); ok {
		h.bulk = b
	}
	if s, ok := host.(ToolAdder); ok {
		h.single = s
	}
	if l, ok := host.(LegacyToolAdder); ok {
		h.legacy = l
	}
	if d, ok := host.(ToolDeleter); ok {
		h.deleter = d
	}
	if n, ok := host.(ListChangedNotifier); ok {
		h.notifier = n
	}
	if h.bulk == nil && h.single == nil && h.legacy == nil {
		return nil, ErrNoRegistration
	}
	return h, nil
}

// CanDelete reports whether the host supports removing tools.
func (h *Handle) CanDelete() bool { return h.deleter != nil }

// AddBatch registers the given tools through the strongest capability the
// host offers. The returned flag reports whether the host already notified
// clients itself, so the caller knows not to send a second notification.
func (h *Handle) AddBatch(batch []server.ServerTool) (hostNotified bool) {
	if len(batch) == 0 {
		return false
	}
	switch {
	case h.bulk != nil:
		h.bulk.AddTools(batch...)
		return true
	case h.single != nil:
		for _, t := range batch {
			h.single.AddTool(t.Tool, t.Handler)
		}
	default:
		for _, t := range batch {
			h.legacy.RegisterTool(t.Tool.Name, t.Tool.Description, t.Handler)
		}
	}
	return false
}

// Delete removes tools by wire name. Returns false when the host cannot
// delete; the caller decides how to report the stale entries.
func (h *Handle) Delete(names []string) bool {
	if h.deleter == nil {
		return false
	}
	if len(names) > 0 {
		h.deleter.DeleteTools(names...)
	}
	return true
}

// NotifyListChanged tells connected clients the tool list changed. No-op
// when the host cannot notify.
func (h *Handle) NotifyListChanged() {
	if h.notifier != nil {
		h.notifier.SendNotificationToAllClients(listChangedMethod, nil)
	}
}
