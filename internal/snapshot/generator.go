// Package snapshot produces the per-session farm inventory figures.
package snapshot

import (
	"math/rand"
	"sync"

	"github.com/jaswdr/faker"

	"pig-logistics/internal/domain"
)

// Ranges of the random snapshot, inclusive.
const (
	MinInventory = 1000
	MaxInventory = 2999
	MinPigsReady = 0
	MaxPigsReady = 149
)

// Generator builds a snapshot for every farm.
type Generator interface {
	Generate(farms []domain.Farm) map[string]domain.FarmSnapshot
}

// RandomGenerator draws inventory and readiness uniformly at random.
type RandomGenerator struct {
	mu   sync.Mutex
	fake faker.Faker
}

// NewRandomGenerator creates a generator seeded with seed.
func NewRandomGenerator(seed int64) *RandomGenerator {
	return &RandomGenerator{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

// Generate returns one random snapshot per farm.
func (g *RandomGenerator) Generate(farms []domain.Farm) map[string]domain.FarmSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := make(map[string]domain.FarmSnapshot, len(farms))
	for _, f := range farms {
		result[f.ID] = domain.FarmSnapshot{
			ID:        f.ID,
			Lat:       f.Lat,
			Lon:       f.Lon,
			Inventory: g.fake.IntBetween(MinInventory, MaxInventory),
			PigsReady: g.fake.IntBetween(MinPigsReady, MaxPigsReady),
		}
	}
	return result
}

// Figures are the inventory values of one farm.
type Figures struct {
	Inventory int
	PigsReady int
}

// FixedGenerator returns supplied figures. Farms without an entry get Default.
type FixedGenerator struct {
	Values  map[string]Figures
	Default Figures
}

// Generate returns the fixed snapshot.
func (g FixedGenerator) Generate(farms []domain.Farm) map[string]domain.FarmSnapshot {
	result := make(map[string]domain.FarmSnapshot, len(farms))
	for _, f := range farms {
		v, ok := g.Values[f.ID]
		if !ok {
			v = g.Default
		}
		result[f.ID] = domain.FarmSnapshot{
			ID:        f.ID,
			Lat:       f.Lat,
			Lon:       f.Lon,
			Inventory: v.Inventory,
			PigsReady: v.PigsReady,
		}
	}
	return result
}
