package domain

// 通知イベント名。Notifier.Emit の eventName に使用します。
const (
	EventBattleStarted = "battle.started"
	EventBattleStopped = "battle.stopped"
	EventHPChanged     = "battle.hp"
	EventPlayerDied    = "battle.death"
	EventReward        = "battle.reward"
)

// BattleStartedEvent is emitted when a battle's tick loop is armed.
type BattleStartedEvent struct {
	BattleID    string `json:"battleId"`
	AreaID      string `json:"areaId"`
	MonsterID   string `json:"monsterId"`
	MonsterName string `json:"monsterName"`
	MonsterHP   int    `json:"monsterHp"`
	MonsterMax  int    `json:"monsterMaxHp"`
}

// BattleStoppedEvent is emitted exactly once per battle chain termination.
type BattleStoppedEvent struct {
	BattleID string `json:"battleId"`
	Reason   string `json:"reason"`
}

// HPChangedEvent is emitted after every landed attack and every regen heal.
type HPChangedEvent struct {
	BattleID   string `json:"battleId"`
	Actor      string `json:"actor"` // "player" or "monster"
	Damage     int    `json:"damage"`
	Healed     int    `json:"healed"`
	Crit       bool   `json:"crit"`
	PlayerHP   int    `json:"playerHp"`
	PlayerMax  int    `json:"playerMaxHp"`
	MonsterHP  int    `json:"monsterHp"`
	MonsterMax int    `json:"monsterMaxHp"`
}

// PlayerDiedEvent is emitted when the player's HP reaches zero.
type PlayerDiedEvent struct {
	BattleID  string `json:"battleId"`
	MonsterID string `json:"monsterId"`
}

// RewardEvent is emitted after a monster kill's rewards were applied.
type RewardEvent struct {
	BattleID   string   `json:"battleId"`
	MonsterID  string   `json:"monsterId"`
	Experience int64    `json:"experience"`
	Gold       int64    `json:"gold"`
	Token      int64    `json:"token"`
	LeveledUp  bool     `json:"leveledUp"`
	Drops      []string `json:"drops,omitempty"`
}
