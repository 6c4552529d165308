package memory

import (
	"context"
	"sync"
	"time"

	"emberfall/domain"
)

// RewardLedger は経済シンクのインメモリ実装です。残高と発行済み
// ドロップを集計するだけで、実際の経済処理は外部システムの責務です。
type RewardLedger struct {
	mu     sync.Mutex
	gold   map[string]int64
	tokens map[string]int64
	drops  map[string]map[string]int
}

func NewRewardLedger() *RewardLedger {
	return &RewardLedger{
		gold:   make(map[string]int64),
		tokens: make(map[string]int64),
		drops:  make(map[string]map[string]int),
	}
}

func (l *RewardLedger) CreditGold(ctx context.Context, playerID string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gold[playerID] += amount
	return nil
}

func (l *RewardLedger) CreditToken(ctx context.Context, playerID string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens[playerID] += amount
	return nil
}

func (l *RewardLedger) MintDrop(ctx context.Context, playerID, refID string, kind domain.DropKind, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	byRef := l.drops[playerID]
	if byRef == nil {
		byRef = make(map[string]int)
		l.drops[playerID] = byRef
	}
	byRef[refID] += qty
	return nil
}

// Balances returns the player's accumulated gold and tokens.
func (l *RewardLedger) Balances(playerID string) (gold, tokens int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gold[playerID], l.tokens[playerID]
}

// Drops returns a copy of the player's minted drops.
func (l *RewardLedger) Drops(playerID string) map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.drops[playerID]))
	for k, v := range l.drops[playerID] {
		out[k] = v
	}
	return out
}

var _ domain.RewardSink = (*RewardLedger)(nil)

// KillEntry is one combat-activity log record.
type KillEntry struct {
	PlayerID  string
	MonsterID string
	AreaID    string
	At        time.Time
}

// ActivityLog は戦闘アクティビティログのインメモリ実装です。
type ActivityLog struct {
	mu      sync.Mutex
	entries []KillEntry
	clock   func() time.Time
}

func NewActivityLog() *ActivityLog {
	return &ActivityLog{clock: time.Now}
}

func (a *ActivityLog) RecordKill(ctx context.Context, playerID, monsterID, areaID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, KillEntry{
		PlayerID:  playerID,
		MonsterID: monsterID,
		AreaID:    areaID,
		At:        a.clock(),
	})
	return nil
}

// Entries returns a copy of all recorded kills.
func (a *ActivityLog) Entries() []KillEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]KillEntry(nil), a.entries...)
}

var _ domain.ActivityLog = (*ActivityLog)(nil)

// MissionTracker はミッション進捗のインメモリ実装です。
type MissionTracker struct {
	mu       sync.Mutex
	progress map[string]map[string]int
}

func NewMissionTracker() *MissionTracker {
	return &MissionTracker{progress: make(map[string]map[string]int)}
}

func (m *MissionTracker) RecordProgress(ctx context.Context, playerID, monsterID string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byMonster := m.progress[playerID]
	if byMonster == nil {
		byMonster = make(map[string]int)
		m.progress[playerID] = byMonster
	}
	byMonster[monsterID] += count
	return nil
}

// Progress returns the player's kill count for a monster.
func (m *MissionTracker) Progress(playerID, monsterID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress[playerID][monsterID]
}

var _ domain.MissionTracker = (*MissionTracker)(nil)

// Leaderboard はダンジョンランリーダーボードのインメモリ実装です。
type Leaderboard struct {
	mu   sync.Mutex
	runs []domain.DungeonRunState
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{}
}

func (l *Leaderboard) SubmitDungeonRun(ctx context.Context, playerID string, run domain.DungeonRunState) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs = append(l.runs, run)
	return nil
}

// Runs returns a copy of every submitted run.
func (l *Leaderboard) Runs() []domain.DungeonRunState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.DungeonRunState(nil), l.runs...)
}

var _ domain.Leaderboard = (*Leaderboard)(nil)
