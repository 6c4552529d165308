// Package memory provides in-memory implementations of the combat core's
// port interfaces, used by tests and the demo binaries. Production
// deployments substitute persistence-backed implementations.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"emberfall/domain"
)

var (
	ErrMonsterNotFound = errors.New("memory: monster not found")
	ErrDomainNotFound  = errors.New("memory: domain not found")
	ErrDungeonNotFound = errors.New("memory: dungeon not found")
)

// Catalog はモンスター・ドメイン・ダンジョン定義のインメモリカタログです。
// 読み取り専用のため初期化後のロックは不要です。
type Catalog struct {
	monsters map[string]domain.Monster
	domains  map[string]domain.DomainArea
	dungeons map[string]domain.DungeonArea
}

// NewCatalog copies the definitions into the catalog.
func NewCatalog(monsters []domain.Monster, domains []domain.DomainArea, dungeons []domain.DungeonArea) *Catalog {
	c := &Catalog{
		monsters: make(map[string]domain.Monster, len(monsters)),
		domains:  make(map[string]domain.DomainArea, len(domains)),
		dungeons: make(map[string]domain.DungeonArea, len(dungeons)),
	}
	for _, m := range monsters {
		c.monsters[m.ID] = m.Clone()
	}
	for _, d := range domains {
		cp := d
		cp.Pool = append([]domain.SpawnEntry(nil), d.Pool...)
		c.domains[d.ID] = cp
	}
	for _, d := range dungeons {
		cp := d
		cp.Sequence = append([]string(nil), d.Sequence...)
		c.dungeons[d.ID] = cp
	}
	return c
}

func (c *Catalog) Monster(ctx context.Context, id string) (domain.Monster, error) {
	m, ok := c.monsters[id]
	if !ok {
		return domain.Monster{}, fmt.Errorf("%w: %s", ErrMonsterNotFound, id)
	}
	return m.Clone(), nil
}

func (c *Catalog) Domain(ctx context.Context, id string) (domain.DomainArea, error) {
	d, ok := c.domains[id]
	if !ok {
		return domain.DomainArea{}, fmt.Errorf("%w: %s", ErrDomainNotFound, id)
	}
	cp := d
	cp.Pool = append([]domain.SpawnEntry(nil), d.Pool...)
	return cp, nil
}

func (c *Catalog) Dungeon(ctx context.Context, id string) (domain.DungeonArea, error) {
	d, ok := c.dungeons[id]
	if !ok {
		return domain.DungeonArea{}, fmt.Errorf("%w: %s", ErrDungeonNotFound, id)
	}
	cp := d
	cp.Sequence = append([]string(nil), d.Sequence...)
	return cp, nil
}

var _ domain.Catalog = (*Catalog)(nil)

// 以降はプレイヤー状態系のストア。こちらは書き込みがあるためロックを持つ。
var ErrPlayerNotFound = errors.New("memory: player not found")

type playerRecord struct {
	combat     domain.CombatantState
	experience int64
}

// CombatStore はプレイヤー戦闘状態のインメモリ実装です。
type CombatStore struct {
	mu      sync.RWMutex
	players map[string]*playerRecord

	// nextLevelExp returns the cumulative experience required for the
	// next level. Progression derivation is out of scope here, so the
	// curve is injectable.
	nextLevelExp func(level int) int64
	// onLevelUp derives the attributes for the new level.
	onLevelUp func(level int, c domain.CombatantState) domain.CombatantState
}

// NewCombatStore seeds the store with initial combat states.
func NewCombatStore(players map[string]domain.CombatantState) *CombatStore {
	s := &CombatStore{
		players: make(map[string]*playerRecord, len(players)),
		nextLevelExp: func(level int) int64 {
			return int64(level) * 1000
		},
		onLevelUp: func(level int, c domain.CombatantState) domain.CombatantState {
			return c
		},
	}
	for id, c := range players {
		s.players[id] = &playerRecord{combat: c}
	}
	return s
}

// WithLevelCurve replaces the experience threshold function.
func (s *CombatStore) WithLevelCurve(fn func(level int) int64) *CombatStore {
	if fn != nil {
		s.nextLevelExp = fn
	}
	return s
}

// WithLevelUp replaces the attribute derivation applied on level-up.
func (s *CombatStore) WithLevelUp(fn func(level int, c domain.CombatantState) domain.CombatantState) *CombatStore {
	if fn != nil {
		s.onLevelUp = fn
	}
	return s
}

func (s *CombatStore) Combat(ctx context.Context, playerID string) (domain.CombatantState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.players[playerID]
	if !ok {
		return domain.CombatantState{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return rec.combat, nil
}

func (s *CombatStore) SetHP(ctx context.Context, playerID string, hp int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.players[playerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if hp < 0 {
		hp = 0
	}
	if hp > rec.combat.MaxHP {
		hp = rec.combat.MaxHP
	}
	rec.combat.HP = hp
	return nil
}

func (s *CombatStore) ApplyExperience(ctx context.Context, playerID string, exp int64) (domain.LevelUpResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.players[playerID]
	if !ok {
		return domain.LevelUpResult{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	rec.experience += exp

	leveled := false
	for rec.experience >= s.nextLevelExp(rec.combat.Level) {
		rec.experience -= s.nextLevelExp(rec.combat.Level)
		rec.combat.Level++
		rec.combat = s.onLevelUp(rec.combat.Level, rec.combat)
		leveled = true
	}
	if !leveled {
		return domain.LevelUpResult{}, nil
	}
	attrs := rec.combat
	return domain.LevelUpResult{LeveledUp: true, Attributes: &attrs}, nil
}

var _ domain.CombatStore = (*CombatStore)(nil)
