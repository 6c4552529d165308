package domain

import "context"

//go:generate go tool mockgen -source=ports.go -destination=mocks/ports.go -package=mocks

// Catalog は静的定義の読み取り専用ルックアップです。
// キャッシュ/DBのティアリングは実装側の責務で、コアは関知しません。
type Catalog interface {
	Monster(ctx context.Context, id string) (Monster, error)
	Domain(ctx context.Context, id string) (DomainArea, error)
	Dungeon(ctx context.Context, id string) (DungeonArea, error)
}

// LevelUpResult is returned by ApplyExperience. When LeveledUp is true,
// Attributes carries the freshly derived combat state; the battle must
// swap it in and recompute cooldowns immediately.
type LevelUpResult struct {
	LeveledUp  bool
	Attributes *CombatantState
}

// CombatStore はプレイヤー戦闘状態の永続化境界です。
type CombatStore interface {
	Combat(ctx context.Context, playerID string) (CombatantState, error)
	SetHP(ctx context.Context, playerID string, hp int) error
	ApplyExperience(ctx context.Context, playerID string, exp int64) (LevelUpResult, error)
}

// RewardSink credits battle rewards. Failures are logged and never roll
// back combat state: the battle outcome is authoritative.
type RewardSink interface {
	CreditGold(ctx context.Context, playerID string, amount int64) error
	CreditToken(ctx context.Context, playerID string, amount int64) error
	MintDrop(ctx context.Context, playerID, refID string, kind DropKind, qty int) error
}

// Notifier は fire-and-forget の通知シンクです。配送失敗は戦闘を
// 失敗させてはならないため、エラーを返しません。
type Notifier interface {
	Emit(ctx context.Context, playerID, event string, payload any)
}

// Leaderboard receives the final state of a dungeon run, once per run
// termination (death or explicit stop).
type Leaderboard interface {
	SubmitDungeonRun(ctx context.Context, playerID string, run DungeonRunState) error
}

// ActivityLog persists combat-activity entries.
type ActivityLog interface {
	RecordKill(ctx context.Context, playerID, monsterID, areaID string) error
}

// MissionTracker advances kill-based mission progress.
type MissionTracker interface {
	RecordProgress(ctx context.Context, playerID, monsterID string, count int) error
}
