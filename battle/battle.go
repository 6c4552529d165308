// Package battle owns live encounters: the per-player tick loop and the
// lifecycle coordination around starting, chaining and stopping battles.
package battle

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"emberfall/combat"
	"emberfall/domain"
	"emberfall/encounter"
)

var (
	// ErrNotReady is returned when acting on a battle that was never armed.
	ErrNotReady = errors.New("battle: not armed")
	// ErrAlreadyEnded marks idempotent no-ops on a finished battle.
	ErrAlreadyEnded = errors.New("battle: already ended")
)

// State は戦闘のライフサイクル状態です。
// Created → Running → Ending → Ended の一方向にのみ遷移します。
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateEnding
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateEnding:
		return "ending"
	default:
		return "ended"
	}
}

// EndReason records why a battle left the Running state.
type EndReason int

const (
	EndNone EndReason = iota
	EndMonsterDefeated
	EndPlayerDied
	EndStopped
	EndFault
)

func (r EndReason) String() string {
	switch r {
	case EndMonsterDefeated:
		return "monster_defeated"
	case EndPlayerDied:
		return "player_died"
	case EndStopped:
		return "stopped"
	case EndFault:
		return "fault"
	default:
		return "none"
	}
}

// Deps are the external collaborators a battle writes through.
type Deps struct {
	Combat   domain.CombatStore
	Rewards  domain.RewardSink
	Notifier domain.Notifier
	Activity domain.ActivityLog
	Missions domain.MissionTracker
}

// Hooks are listeners registered once at construction. Cancellation is a
// state check inside the battle, never a mutation of these fields.
type Hooks struct {
	// MonsterDefeated fires after a natural win with rewards applied,
	// unless a stop was requested before the battle ended.
	MonsterDefeated func(b *Battle)
	// Ended fires exactly once per battle, for every end reason.
	Ended func(b *Battle, reason EndReason)
}

// Params bundles the construction inputs of a battle.
type Params struct {
	PlayerID string
	Area     domain.CombatArea
	Player   domain.CombatantState
	Monster  domain.Monster

	Resolver *combat.Resolver
	Supplier encounter.Supplier
	RNG      *rand.Rand

	Deps  Deps
	Hooks Hooks
}

// Battle は1つのライブ遭遇(プレイヤー1体 vs モンスター1体)を所有します。
// インスタンスは使い捨てで、Ended後に再利用されることはありません。
type Battle struct {
	ID       string
	PlayerID string
	Area     domain.CombatArea

	player  domain.CombatantState
	monster domain.Monster
	timers  combat.Timers

	resolver *combat.Resolver
	supplier encounter.Supplier
	rng      *rand.Rand

	deps  Deps
	hooks Hooks

	state         atomic.Int32
	stopRequested atomic.Bool

	// reason is written exactly once before done closes.
	reason EndReason
	done   chan struct{}
}

// New creates a battle in the Created state. The player snapshot is
// copied; the battle owns its combat state exclusively from here on.
func New(p Params) *Battle {
	player := p.Player
	player.Cooldown = combat.Cooldown(player.AttackSpeed)
	rng := p.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	resolver := p.Resolver
	if resolver == nil {
		resolver = combat.NewResolver(rng)
	}
	return &Battle{
		ID:       uuid.NewString(),
		PlayerID: p.PlayerID,
		Area:     p.Area,
		player:   player,
		monster:  p.Monster,
		resolver: resolver,
		supplier: p.Supplier,
		rng:      rng,
		deps:     p.Deps,
		hooks:    p.Hooks,
		done:     make(chan struct{}),
	}
}

func (b *Battle) State() State {
	return State(b.state.Load())
}

// Done is closed when the battle reaches Ended.
func (b *Battle) Done() <-chan struct{} {
	return b.done
}

// Reason is valid once Done is closed.
func (b *Battle) Reason() EndReason {
	select {
	case <-b.done:
		return b.reason
	default:
		return EndNone
	}
}

// RequestStop flags the battle for cooperative shutdown. Ticks observe
// the flag and stop making progress; the actual End is driven by the
// coordinator's stop protocol.
func (b *Battle) RequestStop() {
	b.stopRequested.Store(true)
}

func (b *Battle) StopRequested() bool {
	return b.stopRequested.Load()
}

// Player returns a copy of the battle's current player state.
func (b *Battle) Player() domain.CombatantState {
	return b.player
}

// Monster returns a copy of the battle's current monster.
func (b *Battle) Monster() domain.Monster {
	return b.monster.Clone()
}

// Arm は Created→Running 遷移を行い、タイマーを装填して開始通知を
// 発行します。停止とレースして既に終了していた場合は ErrAlreadyEnded。
func (b *Battle) Arm(ctx context.Context) error {
	if !b.state.CompareAndSwap(int32(StateCreated), int32(StateRunning)) {
		if b.State() >= StateEnding {
			return ErrAlreadyEnded
		}
		return ErrNotReady
	}
	if b.stopRequested.Load() {
		_ = b.End(ctx, EndStopped)
		return ErrAlreadyEnded
	}
	b.timers = combat.NewTimers(&b.player, &b.monster.Combat)
	b.deps.Notifier.Emit(ctx, b.PlayerID, domain.EventBattleStarted, domain.BattleStartedEvent{
		BattleID:    b.ID,
		AreaID:      b.Area.ID,
		MonsterID:   b.monster.ID,
		MonsterName: b.monster.Name,
		MonsterHP:   b.monster.Combat.HP,
		MonsterMax:  b.monster.Combat.MaxHP,
	})
	slog.InfoContext(ctx, "battle armed",
		"battleId", b.ID, "playerId", b.PlayerID, "monsterId", b.monster.ID, "areaId", b.Area.ID)
	return nil
}

// Run drives the 100ms tick loop until the battle ends or ctx is
// cancelled. It must be called after a successful Arm.
func (b *Battle) Run(ctx context.Context) error {
	if b.State() != StateRunning {
		return ErrNotReady
	}
	ticker := time.NewTicker(combat.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = b.End(context.WithoutCancel(ctx), EndStopped)
			return nil
		case <-b.done:
			return nil
		case <-ticker.C:
			b.safeTick(ctx)
		}
	}
}

// safeTick contains tick failures to this battle: a panic ends it with
// EndFault and never reaches the scheduler driving other players.
func (b *Battle) safeTick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "battle tick panic",
				"battleId", b.ID, "playerId", b.PlayerID, "panic", rec)
			_ = b.End(ctx, EndFault)
		}
	}()
	b.tick(ctx)
}

// tick advances one simulation step and attaches side effects.
func (b *Battle) tick(ctx context.Context) {
	if b.State() != StateRunning || b.stopRequested.Load() {
		return
	}

	rep := combat.Step(&b.player, &b.monster.Combat, &b.timers, b.resolver)

	dealt, taken := 0, 0
	if s := rep.PlayerStrike; s != nil {
		dealt = s.Absorbed
		b.emitHP(ctx, "player", s.Hit.Damage, 0, s.Hit.Crit)
	}
	if s := rep.MonsterStrike; s != nil {
		taken = s.Absorbed
		b.persistPlayerHP(ctx)
		b.emitHP(ctx, "monster", s.Hit.Damage, 0, s.Hit.Crit)
	}
	if err := b.supplier.RecordDamage(ctx, b.PlayerID, dealt, taken); err != nil {
		slog.WarnContext(ctx, "damage tracking failed", "battleId", b.ID, "err", err)
	}

	if rep.MonsterDied {
		b.handleMonsterDeath(ctx)
		return
	}
	if rep.PlayerDied {
		b.handlePlayerDeath(ctx)
		return
	}

	if rep.PlayerHealed > 0 {
		b.persistPlayerHP(ctx)
		b.emitHP(ctx, "player", 0, rep.PlayerHealed, false)
	}
	if rep.MonsterHealed > 0 {
		b.emitHP(ctx, "monster", 0, rep.MonsterHealed, false)
	}
}

// handleMonsterDeath applies rewards, records the kill and hands off to
// the next encounter. Reward failures are logged, never rolled back:
// the combat outcome is authoritative.
func (b *Battle) handleMonsterDeath(ctx context.Context) {
	b.applyRewards(ctx)

	if err := b.deps.Activity.RecordKill(ctx, b.PlayerID, b.monster.ID, b.Area.ID); err != nil {
		slog.WarnContext(ctx, "activity log failed", "battleId", b.ID, "err", err)
	}
	if err := b.deps.Missions.RecordProgress(ctx, b.PlayerID, b.monster.ID, 1); err != nil {
		slog.WarnContext(ctx, "mission progress failed", "battleId", b.ID, "err", err)
	}
	if err := b.supplier.Advance(ctx, b.PlayerID); err != nil {
		slog.WarnContext(ctx, "encounter advance failed", "battleId", b.ID, "err", err)
	}

	_ = b.End(ctx, EndMonsterDefeated)
}

// handlePlayerDeath restores the player fully; death carries no penalty
// beyond ending the run.
func (b *Battle) handlePlayerDeath(ctx context.Context) {
	b.player.RestoreFull()
	b.persistPlayerHP(ctx)
	b.deps.Notifier.Emit(ctx, b.PlayerID, domain.EventPlayerDied, domain.PlayerDiedEvent{
		BattleID:  b.ID,
		MonsterID: b.monster.ID,
	})
	_ = b.End(ctx, EndPlayerDied)
}

func (b *Battle) applyRewards(ctx context.Context) {
	m := b.monster
	ev := domain.RewardEvent{
		BattleID:   b.ID,
		MonsterID:  m.ID,
		Experience: m.Experience,
		Gold:       m.Gold,
		Token:      m.Token,
	}

	res, err := b.deps.Combat.ApplyExperience(ctx, b.PlayerID, m.Experience)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "experience credit failed", "battleId", b.ID, "err", err)
	case res.LeveledUp && res.Attributes != nil:
		b.refreshAttributes(*res.Attributes)
		ev.LeveledUp = true
	}

	if m.Gold > 0 {
		if err := b.deps.Rewards.CreditGold(ctx, b.PlayerID, m.Gold); err != nil {
			slog.WarnContext(ctx, "gold credit failed", "battleId", b.ID, "err", err)
		}
	}
	if m.Token > 0 {
		if err := b.deps.Rewards.CreditToken(ctx, b.PlayerID, m.Token); err != nil {
			slog.WarnContext(ctx, "token credit failed", "battleId", b.ID, "err", err)
		}
	}

	for _, drop := range m.Drops {
		if b.rng.Float64() >= drop.Probability {
			continue
		}
		if err := b.deps.Rewards.MintDrop(ctx, b.PlayerID, drop.RefID, drop.Kind, drop.Qty); err != nil {
			slog.WarnContext(ctx, "drop mint failed", "battleId", b.ID, "refId", drop.RefID, "err", err)
			continue
		}
		ev.Drops = append(ev.Drops, drop.RefID)
	}

	b.deps.Notifier.Emit(ctx, b.PlayerID, domain.EventReward, ev)
}

// refreshAttributes swaps in newly derived attributes after a level-up
// and recomputes the cached cooldown immediately. Current HP survives,
// clamped to the new max.
func (b *Battle) refreshAttributes(attrs domain.CombatantState) {
	hp := b.player.HP
	b.player = attrs
	if hp > b.player.MaxHP {
		hp = b.player.MaxHP
	}
	b.player.HP = hp
	b.player.Cooldown = combat.Cooldown(b.player.AttackSpeed)
}

// End は Ending→Ended 終端遷移を行います。終了済みなら ErrAlreadyEnded
// を返すだけの冪等な操作です。
func (b *Battle) End(ctx context.Context, reason EndReason) error {
	for {
		s := b.State()
		if s == StateEnding || s == StateEnded {
			return ErrAlreadyEnded
		}
		if b.state.CompareAndSwap(int32(s), int32(StateEnding)) {
			break
		}
	}

	b.reason = reason
	switch reason {
	case EndPlayerDied, EndStopped:
		b.deps.Notifier.Emit(ctx, b.PlayerID, domain.EventBattleStopped, domain.BattleStoppedEvent{
			BattleID: b.ID,
			Reason:   reason.String(),
		})
	case EndMonsterDefeated, EndFault:
		// Natural wins chain silently; faults surface in logs only.
	}

	b.state.Store(int32(StateEnded))
	close(b.done)
	slog.InfoContext(ctx, "battle ended",
		"battleId", b.ID, "playerId", b.PlayerID, "reason", reason.String())

	if b.hooks.Ended != nil {
		b.hooks.Ended(b, reason)
	}
	if reason == EndMonsterDefeated && !b.stopRequested.Load() && b.hooks.MonsterDefeated != nil {
		b.hooks.MonsterDefeated(b)
	}
	return nil
}

func (b *Battle) persistPlayerHP(ctx context.Context) {
	if err := b.deps.Combat.SetHP(ctx, b.PlayerID, b.player.HP); err != nil {
		slog.WarnContext(ctx, "hp persist failed", "battleId", b.ID, "err", err)
	}
}

func (b *Battle) emitHP(ctx context.Context, actor string, damage, healed int, crit bool) {
	b.deps.Notifier.Emit(ctx, b.PlayerID, domain.EventHPChanged, domain.HPChangedEvent{
		BattleID:   b.ID,
		Actor:      actor,
		Damage:     damage,
		Healed:     healed,
		Crit:       crit,
		PlayerHP:   b.player.HP,
		PlayerMax:  b.player.MaxHP,
		MonsterHP:  b.monster.Combat.HP,
		MonsterMax: b.monster.Combat.MaxHP,
	})
}
