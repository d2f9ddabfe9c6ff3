// Package registry maintains the set of known block types, the
// unknown-type fallback configuration, and the legacy-name migration
// table. A registry is populated before parsing begins and is read-only
// during a parse pass; passing it explicitly keeps parses deterministic
// and testable against synthetic registries.
package registry

import (
	"regexp"
	"sort"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/errors"
)

// DefaultUnknownType is the fallback type used when a region's declared
// type cannot be resolved.
const DefaultUnknownType = "core/raw"

// blockNameRe validates canonical namespaced block type names.
var blockNameRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*/[a-z][a-z0-9_-]*$`)

// MetricsSink receives fire-and-forget notifications about parse-time
// events. Implementations must be cheap; failures or panics in a sink
// never affect parsing.
type MetricsSink interface {
	// BlockMigrated is invoked once per applied legacy-name migration.
	BlockMigrated(from, to string)
}

// MetricsSinkFunc adapts a plain function to the MetricsSink interface.
type MetricsSinkFunc func(from, to string)

// BlockMigrated implements MetricsSink.
func (f MetricsSinkFunc) BlockMigrated(from, to string) { f(from, to) }

// Registry maps block type names to their definitions.
type Registry struct {
	types       map[string]*blocks.BlockType
	migrations  map[string]string
	unknownType string
	metrics     MetricsSink
}

// New creates an empty registry with the default unknown-type fallback
// name configured.
func New() *Registry {
	return &Registry{
		types:       map[string]*blocks.BlockType{},
		migrations:  map[string]string{},
		unknownType: DefaultUnknownType,
	}
}

// Register adds a block type to the registry. The name must be a
// canonical "namespace/name" and must not already be registered.
func (r *Registry) Register(t *blocks.BlockType) error {
	if t == nil {
		return errors.NewValidation("type", "block type is nil")
	}
	if !blockNameRe.MatchString(t.Name) {
		return errors.NewValidation("name", "block type name must be lowercase namespace/name")
	}
	if _, ok := r.types[t.Name]; ok {
		return errors.NewAlreadyExists("block type", t.Name)
	}
	r.types[t.Name] = t
	return nil
}

// Lookup returns the block type registered under name, or nil.
func (r *Registry) Lookup(name string) *blocks.BlockType {
	return r.types[name]
}

// Names returns all registered type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownType returns the configured unknown-type fallback name.
func (r *Registry) UnknownType() string {
	return r.unknownType
}

// SetUnknownType configures the unknown-type fallback name.
func (r *Registry) SetUnknownType(name string) {
	r.unknownType = name
}

// AddMigration records a legacy-name migration: regions declaring the
// deprecated name resolve to its successor.
func (r *Registry) AddMigration(deprecated, successor string) {
	r.migrations[deprecated] = successor
}

// Migration returns the successor for a deprecated name, if one is
// recorded.
func (r *Registry) Migration(name string) (string, bool) {
	to, ok := r.migrations[name]
	return to, ok
}

// SetMetricsSink installs the sink notified of migration events.
func (r *Registry) SetMetricsSink(s MetricsSink) {
	r.metrics = s
}

// NotifyMigration reports an applied migration to the metrics sink.
// A panicking sink is swallowed; telemetry must never break a parse.
func (r *Registry) NotifyMigration(from, to string) {
	if r.metrics == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	r.metrics.BlockMigrated(from, to)
}
