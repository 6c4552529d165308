package encounter

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"emberfall/combat"
	"emberfall/domain"
)

// DomainSupplier draws monsters from a weighted spawn pool.
type DomainSupplier struct {
	area    domain.DomainArea
	catalog domain.Catalog
	rng     *rand.Rand
}

// NewDomainSupplier returns a supplier for the given open area.
// A nil rng falls back to a time-seeded source.
func NewDomainSupplier(area domain.DomainArea, catalog domain.Catalog, rng *rand.Rand) *DomainSupplier {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DomainSupplier{area: area, catalog: catalog, rng: rng}
}

// Next は重み付きランダムでプールから1体選びます。
func (s *DomainSupplier) Next(ctx context.Context, playerID string) (domain.Monster, error) {
	pool := s.area.Pool
	if len(pool) == 0 {
		return domain.Monster{}, fmt.Errorf("%w: %s", ErrEmptyPool, s.area.ID)
	}

	total := 0.0
	for _, entry := range pool {
		total += entry.Weight
	}

	draw := s.rng.Float64() * total
	acc := 0.0
	for _, entry := range pool {
		acc += entry.Weight
		if draw <= acc {
			return s.lookup(ctx, entry.MonsterID)
		}
	}
	// Floating-point rounding can leave draw marginally above the final
	// accumulated weight; fall back to the last entry.
	return s.lookup(ctx, pool[len(pool)-1].MonsterID)
}

func (s *DomainSupplier) lookup(ctx context.Context, monsterID string) (domain.Monster, error) {
	monster, err := s.catalog.Monster(ctx, monsterID)
	if err != nil {
		return domain.Monster{}, err
	}
	monster = monster.Clone()
	monster.Combat.Cooldown = combat.Cooldown(monster.Combat.AttackSpeed)
	monster.Combat.RestoreFull()
	return monster, nil
}

// Advance does nothing: domains have no per-player progression.
func (s *DomainSupplier) Advance(ctx context.Context, playerID string) error { return nil }

// RecordDamage does nothing: damage tracking is a dungeon feature.
func (s *DomainSupplier) RecordDamage(ctx context.Context, playerID string, dealt, taken int) error {
	return nil
}

// Finish reports that no run state was tracked.
func (s *DomainSupplier) Finish(ctx context.Context, playerID string) (domain.DungeonRunState, bool, error) {
	return domain.DungeonRunState{}, false, nil
}

var _ Supplier = (*DomainSupplier)(nil)
