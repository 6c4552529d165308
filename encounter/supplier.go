// Package encounter selects the next monster for a combat area: weighted
// random draws for open domains, ordered floor-scaled sequences for
// dungeons.
package encounter

import (
	"context"
	"errors"

	"emberfall/domain"
)

var (
	// ErrEmptyPool is returned when a domain area has no spawn entries.
	ErrEmptyPool = errors.New("encounter: domain has no monsters")
	// ErrIndexOutOfRange indicates a dungeon run state pointing outside
	// the sequence; it is a data or state bug, not a runtime condition.
	ErrIndexOutOfRange = errors.New("encounter: dungeon sequence index out of range")
	// ErrNoActiveRun is returned by RunStore lookups without a run.
	ErrNoActiveRun = errors.New("encounter: no active dungeon run")
)

// Supplier は1つの戦闘エリアに束縛されたモンスター供給です。
// Battle とオフラインシミュレータの両方から同じ実装が使われます。
type Supplier interface {
	// Next returns the monster for the player's current position in the
	// area. Dungeon suppliers create the run state on first call.
	Next(ctx context.Context, playerID string) (domain.Monster, error)
	// Advance records a kill. Dungeon suppliers move the sequence index
	// and wrap to the next floor; domain suppliers do nothing.
	Advance(ctx context.Context, playerID string) error
	// RecordDamage accumulates absorbed damage into the run state when
	// tracking is enabled (dungeons). Overkill must already be excluded.
	RecordDamage(ctx context.Context, playerID string, dealt, taken int) error
	// Finish tears down per-player run tracking. The returned bool is
	// false when nothing was tracked (domains, or already finished).
	Finish(ctx context.Context, playerID string) (domain.DungeonRunState, bool, error)
}

// RunStore はダンジョンラン状態の保管境界です。
type RunStore interface {
	Run(ctx context.Context, playerID string) (domain.DungeonRunState, error)
	Put(ctx context.Context, run domain.DungeonRunState) error
	Delete(ctx context.Context, playerID string) error
}
