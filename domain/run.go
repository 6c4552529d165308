package domain

import "time"

// DungeonRunState は1プレイヤーの進行中ダンジョンランの状態です。
// キルごと、またダメージトラッキング有効時は攻撃ごとに更新されます。
type DungeonRunState struct {
	PlayerID  string
	DungeonID string

	// Floor starts at 1. Index points into the dungeon sequence and
	// wraps to 0 when a floor is cleared.
	Floor int
	Index int

	DamageDealt int64
	DamageTaken int64

	StartedAt time.Time
}

// NewDungeonRunState returns a fresh run at floor 1, index 0.
func NewDungeonRunState(playerID, dungeonID string, startedAt time.Time) DungeonRunState {
	return DungeonRunState{
		PlayerID:  playerID,
		DungeonID: dungeonID,
		Floor:     1,
		Index:     0,
		StartedAt: startedAt,
	}
}
