// Package modules implements the Module Host: named groups of tools
// with an on-load/on-unload lifecycle, registered atomically against
// the shared tool registry.
package modules

import (
	"fmt"
	"sync"

	"github.com/revittco/mcptoolkit/internal/kernel"
)

// Descriptor identifies a module to the host.
type Descriptor struct {
	Name        string
	Version     string
	Description string
}

// ToolFactory builds the module's tools. It is called once, from
// Initialize, after OnLoad has run.
type ToolFactory func() ([]*kernel.Tool, error)

// Module bundles a descriptor with lifecycle hooks and a tool factory.
// OnLoad and OnUnload are optional; a nil hook is a no-op.
type Module struct {
	Descriptor Descriptor
	OnLoad     func() error
	OnUnload   func() error
	Tools      ToolFactory

	mu          sync.Mutex
	initialized bool
}

// Initialize runs OnLoad then registers every tool the factory returns
// against registry. Fails if called more than once for this module, or
// if any tool name collides with one already registered.
func (m *Module) Initialize(registry *kernel.Registry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return fmt.Errorf("module %q already initialized", m.Descriptor.Name)
	}

	if m.OnLoad != nil {
		if err := m.OnLoad(); err != nil {
			return fmt.Errorf("module %q on_load: %w", m.Descriptor.Name, err)
		}
	}

	tools, err := m.Tools()
	if err != nil {
		return fmt.Errorf("module %q: build tools: %w", m.Descriptor.Name, err)
	}

	// Check every name before registering any, so a collision leaves
	// none of this module's tools in the registry.
	seen := make(map[string]bool, len(tools))
	for _, t := range tools {
		if _, exists := registry.Get(t.Name); exists || seen[t.Name] {
			return fmt.Errorf("module %q: tool %q already registered", m.Descriptor.Name, t.Name)
		}
		seen[t.Name] = true
	}

	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("module %q: %w", m.Descriptor.Name, err)
		}
	}

	m.initialized = true
	return nil
}

// Unload runs OnUnload. Tools registered by this module are
// deliberately left in the registry — the kernel has no unregister path
// on the hot path, only the registry's wholesale Clear at shutdown.
func (m *Module) Unload() error {
	if m.OnUnload == nil {
		return nil
	}
	return m.OnUnload()
}

// Host owns the set of modules discovered at startup and drives their
// lifecycle against one shared registry.
type Host struct {
	registry *kernel.Registry
	modules  []*Module
}

// NewHost builds a Host bound to registry.
func NewHost(registry *kernel.Registry) *Host {
	return &Host{registry: registry}
}

// Add registers a module with the host without initializing it.
func (h *Host) Add(m *Module) {
	h.modules = append(h.modules, m)
}

// InitializeAll initializes every added module. The iteration order is
// an implementation detail; modules must not depend on one another's
// initialization order.
func (h *Host) InitializeAll() error {
	for _, m := range h.modules {
		if err := m.Initialize(h.registry); err != nil {
			return err
		}
	}
	return nil
}

// UnloadAll unloads every added module, collecting but not stopping on
// individual failures, and returns the first error encountered (if any)
// after every module has had a chance to unload.
func (h *Host) UnloadAll() error {
	var firstErr error
	for _, m := range h.modules {
		if err := m.Unload(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
