package obstacle

import (
	"math/rand"
	"sync"

	"github.com/edaniels/golog"

	"github.com/starfield-nav/starplan/spatialmath"
)

// Manager owns the bounds and current obstacle set for one planning session.
// Generation replaces the held set; Obstacles returns a snapshot so callers
// never observe a set mutating mid-plan.
type Manager struct {
	logger golog.Logger

	mu     sync.RWMutex
	bounds spatialmath.Bounds
	set    Set
	rnd    *rand.Rand
}

// NewManager validates bounds and seeds the manager's random source so that
// the fields it generates are reproducible for a given seed.
func NewManager(bounds spatialmath.Bounds, seed int64, logger golog.Logger) (*Manager, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	//nolint:gosec
	return &Manager{
		logger: logger,
		bounds: bounds,
		set:    Set{},
		rnd:    rand.New(rand.NewSource(seed)),
	}, nil
}

// GeneratePreset replaces the held set with the named preset field and
// returns a copy of it.
func (m *Manager) GeneratePreset(name string) (Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := normalizePreset(name); !ok {
		m.logger.Warnw("unknown obstacle preset, using default scatter", "preset", name)
	}
	set, err := GeneratePreset(name, m.bounds, m.rnd)
	if err != nil {
		return nil, err
	}
	m.set = set
	m.logger.Debugw("generated obstacle field", "preset", name, "obstacles", len(set))
	return set.Clone(), nil
}

// GenerateCustom replaces the held set with a custom field and returns a
// copy of it.
func (m *Manager) GenerateCustom(count int, minSize, maxSize float64, dist Distribution) (Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, err := GenerateCustom(count, minSize, maxSize, dist, m.bounds, m.rnd)
	if err != nil {
		return nil, err
	}
	m.set = set
	m.logger.Debugw("generated obstacle field",
		"distribution", dist, "obstacles", len(set), "min_size", minSize, "max_size", maxSize)
	return set.Clone(), nil
}

// Obstacles returns a copy of the current set.
func (m *Manager) Obstacles() Set {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.Clone()
}

// Bounds returns the planning volume.
func (m *Manager) Bounds() spatialmath.Bounds {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bounds
}

// SetObstacles replaces the held set after validating it against the bounds.
func (m *Manager) SetObstacles(set Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := set.Validate(m.bounds); err != nil {
		return err
	}
	m.set = set.Clone()
	return nil
}
