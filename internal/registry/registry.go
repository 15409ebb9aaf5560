// Package registry provides a global registry of staves.
// Staves register themselves in init() functions, allowing the simulation
// and the menus to discover them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// Shot is everything a staff needs to fire once.
type Shot struct {
	Player *world.Player
	Aim    core.Vec // target point in world coordinates
	RNG    *core.SimpleRNG
	Now    float64
	Speed  float64 // base player projectile speed
}

// Volley is the outcome of one trigger pull.
type Volley struct {
	Projectiles []*world.Projectile

	// Bolts is the number of sky bolts to call down on the aim point.
	Bolts int

	// AegisWisp asks the orchestrator to add one shield orb.
	AegisWisp bool
}

// Staff is the interface every equippable weapon implements.
// Staves are pure: they build projectiles but never touch the world.
type Staff interface {
	// ID returns a unique identifier (e.g., "wizard_staff").
	// Used for unlock storage and CLI flags.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Weapon returns the base cadence and damage the player starts with.
	Weapon() world.Weapon

	// Fire builds the volley for one shot.
	Fire(s Shot) Volley
}

// StaffInfo contains metadata about a registered staff.
type StaffInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a staff.
type Factory func() Staff

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a staff factory to the registry.
// Panics if a staff with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: staff %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered staves, sorted by ID.
func List() []StaffInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]StaffInfo, 0, len(factories))
	for id := range factories {
		result = append(result, StaffInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a staff by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Staff, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown staff %q", id)
	}

	return f(), nil
}

// Exists checks if a staff with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
