package encounter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"emberfall/combat"
	"emberfall/domain"
)

// DungeonSupplier walks a dungeon's ordered sequence, scaling every
// monster by the floor growth multiplier and tracking per-player run
// state through a RunStore.
type DungeonSupplier struct {
	dungeon domain.DungeonArea
	catalog domain.Catalog
	runs    RunStore
	clock   func() time.Time
}

// NewDungeonSupplier returns a supplier for the given dungeon.
func NewDungeonSupplier(dungeon domain.DungeonArea, catalog domain.Catalog, runs RunStore) *DungeonSupplier {
	return &DungeonSupplier{
		dungeon: dungeon,
		catalog: catalog,
		runs:    runs,
		clock:   time.Now,
	}
}

// WithClock はテスト用に時間ソースを差し替えます。
func (s *DungeonSupplier) WithClock(clock func() time.Time) *DungeonSupplier {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// Next はシーケンス上の現在位置のモンスターを階層倍率で強化して返します。
// 初回呼び出しでランを開始します。
func (s *DungeonSupplier) Next(ctx context.Context, playerID string) (domain.Monster, error) {
	run, err := s.currentRun(ctx, playerID)
	if err != nil {
		return domain.Monster{}, err
	}
	if run.Index < 0 || run.Index >= len(s.dungeon.Sequence) {
		return domain.Monster{}, fmt.Errorf("%w: index=%d len=%d dungeon=%s",
			ErrIndexOutOfRange, run.Index, len(s.dungeon.Sequence), s.dungeon.ID)
	}

	monster, err := s.catalog.Monster(ctx, s.dungeon.Sequence[run.Index])
	if err != nil {
		return domain.Monster{}, err
	}
	monster = monster.Clone()
	scaleMonster(&monster, s.growthMultiplier(run.Floor))
	return monster, nil
}

// Advance moves the sequence index after a kill; clearing the last index
// wraps to 0 and increments the floor.
func (s *DungeonSupplier) Advance(ctx context.Context, playerID string) error {
	run, err := s.runs.Run(ctx, playerID)
	if err != nil {
		return err
	}
	run.Index++
	if run.Index >= len(s.dungeon.Sequence) {
		run.Index = 0
		run.Floor++
	}
	return s.runs.Put(ctx, run)
}

// RecordDamage accumulates absorbed damage into the run counters.
func (s *DungeonSupplier) RecordDamage(ctx context.Context, playerID string, dealt, taken int) error {
	if dealt == 0 && taken == 0 {
		return nil
	}
	run, err := s.runs.Run(ctx, playerID)
	if err != nil {
		return err
	}
	run.DamageDealt += int64(dealt)
	run.DamageTaken += int64(taken)
	return s.runs.Put(ctx, run)
}

// Finish removes and returns the run state for leaderboard submission.
// A second Finish for the same player reports tracked=false, which keeps
// leaderboard submission exactly-once across racing termination paths.
func (s *DungeonSupplier) Finish(ctx context.Context, playerID string) (domain.DungeonRunState, bool, error) {
	run, err := s.runs.Run(ctx, playerID)
	if err != nil {
		if errors.Is(err, ErrNoActiveRun) {
			return domain.DungeonRunState{}, false, nil
		}
		return domain.DungeonRunState{}, false, err
	}
	if err := s.runs.Delete(ctx, playerID); err != nil {
		return domain.DungeonRunState{}, false, err
	}
	return run, true, nil
}

func (s *DungeonSupplier) currentRun(ctx context.Context, playerID string) (domain.DungeonRunState, error) {
	run, err := s.runs.Run(ctx, playerID)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, ErrNoActiveRun) {
		return domain.DungeonRunState{}, err
	}
	run = domain.NewDungeonRunState(playerID, s.dungeon.ID, s.clock())
	if err := s.runs.Put(ctx, run); err != nil {
		return domain.DungeonRunState{}, err
	}
	return run, nil
}

func (s *DungeonSupplier) growthMultiplier(floor int) float64 {
	exp := floor - 1
	if exp < 1 {
		exp = 1
	}
	return math.Pow(s.dungeon.GrowthFactor, float64(exp))
}

// scaleMonster applies ceil(stat*mult) to the monster's numeric combat
// stats, rederives the cooldown from the scaled attack speed and resets
// HP to the scaled max. Probabilities, multipliers and the
// triangle/element leanings are shape parameters and stay untouched.
func scaleMonster(m *domain.Monster, mult float64) {
	c := &m.Combat
	c.MaxHP = ceilScaleInt(c.MaxHP, mult)
	c.AttackSpeed = ceilScale(c.AttackSpeed, mult)
	c.Accuracy = ceilScale(c.Accuracy, mult)
	c.Evasion = ceilScale(c.Evasion, mult)
	c.MaxDamageMelee = ceilScale(c.MaxDamageMelee, mult)
	c.MaxDamageRanged = ceilScale(c.MaxDamageRanged, mult)
	c.MaxDamageMagic = ceilScale(c.MaxDamageMagic, mult)
	c.PhysicalReduction = ceilScale(c.PhysicalReduction, mult)
	c.MagicReduction = ceilScale(c.MagicReduction, mult)
	c.RegenAmount = ceilScale(c.RegenAmount, mult)
	c.Cooldown = combat.Cooldown(c.AttackSpeed)
	c.RestoreFull()
}

func ceilScale(v, mult float64) float64 {
	if v == 0 {
		return 0
	}
	return math.Ceil(v * mult)
}

func ceilScaleInt(v int, mult float64) int {
	if v == 0 {
		return 0
	}
	return int(math.Ceil(float64(v) * mult))
}

var _ Supplier = (*DungeonSupplier)(nil)
