package dispatch

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RouteSnapshot is a serialized view of a route registry, written after
// the first build and reloaded on later starts to skip re-registration.
//
// The on-disk format is plain YAML holding strings only. Loading never
// reconstructs executable objects: handler references are resolved through
// the dispatcher's controller table, so a tampered snapshot can at worst
// point at an already-registered controller.
type RouteSnapshot struct {
	BuiltAt time.Time       `yaml:"built_at"`
	Routes  []SnapshotRoute `yaml:"routes"`
}

// SnapshotRoute is one serialized route.
type SnapshotRoute struct {
	Method  string   `yaml:"method"`
	Pattern string   `yaml:"pattern"`
	Handler string   `yaml:"handler"`
	Hooks   []string `yaml:"hooks,omitempty"`
	Params  []string `yaml:"params,omitempty"`
}

// Snapshot serializes the registry. Only routes registered via RegisterRef
// can be snapshotted; a direct handler closure has no serializable form
// and yields ErrNotSnapshotable.
func (r *Registry) Snapshot() (*RouteSnapshot, error) {
	snap := &RouteSnapshot{
		BuiltAt: time.Now().UTC(),
		Routes:  make([]SnapshotRoute, 0, len(r.routes)),
	}

	for _, rt := range r.routes {
		if rt.handlerRef == "" {
			return nil, fmt.Errorf("dispatch: route %s %s: %w", rt.method, rt.effective, ErrNotSnapshotable)
		}

		var hooks, params []string
		if len(rt.hookNames) > 0 {
			hooks = rt.HookNames()
		}
		if len(rt.compiled.names) > 0 {
			params = rt.ParamNames()
		}

		snap.Routes = append(snap.Routes, SnapshotRoute{
			Method:  rt.method,
			Pattern: rt.effective,
			Handler: rt.handlerRef,
			Hooks:   hooks,
			Params:  params,
		})
	}

	return snap, nil
}

// RestoreSnapshot re-registers every snapshotted route, recompiling
// patterns through the compile cache. Group prefixes were already folded
// into the stored patterns at snapshot time, so restore runs outside any
// group context.
func (r *Registry) RestoreSnapshot(snap *RouteSnapshot) error {
	if r.groups.depth() != 0 {
		return fmt.Errorf("dispatch: snapshot restore inside a group")
	}

	for _, sr := range snap.Routes {
		handle := r.RegisterRef(sr.Method, sr.Pattern, sr.Handler)
		if err := handle.Err(); err != nil {
			return fmt.Errorf("dispatch: restoring %s %s: %w", sr.Method, sr.Pattern, err)
		}
		handle.AttachHooks(sr.Hooks...)
	}

	return nil
}

// WriteSnapshotFile writes the snapshot to path as YAML.
func WriteSnapshotFile(path string, snap *RouteSnapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("dispatch: encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dispatch: writing snapshot: %w", err)
	}

	return nil
}

// LoadSnapshotFile reads a snapshot from path. sourcesModified is the
// latest modification time of the route sources the snapshot was built
// from; a snapshot written before that moment is rejected with
// ErrSnapshotStale and must be rebuilt.
func LoadSnapshotFile(path string, sourcesModified time.Time) (*RouteSnapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dispatch: reading snapshot: %w", err)
	}

	if !sourcesModified.IsZero() && info.ModTime().Before(sourcesModified) {
		return nil, fmt.Errorf("dispatch: snapshot %s: %w", path, ErrSnapshotStale)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dispatch: reading snapshot: %w", err)
	}

	var snap RouteSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("dispatch: decoding snapshot: %w", err)
	}

	return &snap, nil
}
