package battle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"emberfall/combat"
	"emberfall/domain"
	"emberfall/encounter"
)

var (
	// ErrCombatActive is returned when starting combat for a player who
	// already has a live battle.
	ErrCombatActive = errors.New("battle: combat already active")
	// ErrLevelTooLow is the user-visible refusal to start combat.
	ErrLevelTooLow = errors.New("battle: level requirement not met")
)

// Config は調停のタイミングパラメータです。遅延はクライアント側の
// 遷移アニメーションに合わせた猶予で、正しさの要件ではありません。
type Config struct {
	// TransitionDelay is the window between a kill and arming the next
	// battle, during which a stop can still land.
	TransitionDelay time.Duration
	// StopGrace is a final short window re-checked immediately before
	// arming.
	StopGrace time.Duration
}

// DefaultConfig mirrors the client transition animation timing.
func DefaultConfig() Config {
	return Config{
		TransitionDelay: 800 * time.Millisecond,
		StopGrace:       10 * time.Millisecond,
	}
}

// CoordinatorDeps bundles every external collaborator the lifecycle
// coordination needs.
type CoordinatorDeps struct {
	Catalog     domain.Catalog
	Combat      domain.CombatStore
	Rewards     domain.RewardSink
	Notifier    domain.Notifier
	Activity    domain.ActivityLog
	Missions    domain.MissionTracker
	Leaderboard domain.Leaderboard
	Runs        encounter.RunStore
}

// Coordinator はプレイヤーごとに高々1つのアクティブ戦闘を保証し、
// start / stop / auto-advance / natural end の4種の要求を
// single-flight レジストリで直列化します。
type Coordinator struct {
	cfg  Config
	deps CoordinatorDeps

	// newRNG supplies each battle its own goroutine-confined source.
	newRNG func() *rand.Rand

	mu      sync.Mutex
	players map[string]*playerCombat

	ops *registry
}

// playerCombat is the per-player slice of coordinator state. stopPending
// persists across the gap between a kill and the next battle arming and
// is reset only when a new chain starts.
type playerCombat struct {
	mu          sync.Mutex
	battle      *Battle
	supplier    encounter.Supplier
	stopPending bool
}

func (ps *playerCombat) activeBattle() *Battle {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.battle
}

func (ps *playerCombat) setBattle(b *Battle) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.battle = b
}

// clearBattle detaches b only if it is still the active battle.
func (ps *playerCombat) clearBattle(b *Battle) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.battle == b {
		ps.battle = nil
	}
}

func (ps *playerCombat) beginChain(sup encounter.Supplier) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.supplier = sup
	ps.stopPending = false
}

func (ps *playerCombat) setStopPending() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.stopPending = true
}

func (ps *playerCombat) isStopPending() bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.stopPending
}

func (ps *playerCombat) currentSupplier() encounter.Supplier {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.supplier
}

// chain returns the registered battle and its supplier under a single
// lock acquisition, so a handoff cannot pair a battle with a supplier
// that a newer chain swapped in.
func (ps *playerCombat) chain() (*Battle, encounter.Supplier) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.battle, ps.supplier
}

// replaceBattle installs next only while prev is still the registered
// battle and no stop is pending. A false return means another chain or
// a stop claimed the slot and the caller must step aside.
func (ps *playerCombat) replaceBattle(prev, next *Battle) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.battle != prev || ps.stopPending {
		return false
	}
	ps.battle = next
	return true
}

// NewCoordinator returns a coordinator with no active battles.
func NewCoordinator(cfg Config, deps CoordinatorDeps) *Coordinator {
	if cfg.TransitionDelay <= 0 {
		cfg.TransitionDelay = DefaultConfig().TransitionDelay
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = DefaultConfig().StopGrace
	}
	return &Coordinator{
		cfg:  cfg,
		deps: deps,
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		players: make(map[string]*playerCombat),
		ops:     newRegistry(),
	}
}

// WithRNG はテスト用に乱数ソース供給を差し替えます。
func (c *Coordinator) WithRNG(newRNG func() *rand.Rand) *Coordinator {
	if newRNG != nil {
		c.newRNG = newRNG
	}
	return c
}

// ActiveBattle returns the player's current battle, or nil.
func (c *Coordinator) ActiveBattle(playerID string) *Battle {
	return c.playerCombat(playerID).activeBattle()
}

// awaitSettled blocks until any in-flight stop or advance for the
// player has completed, so a start never interleaves with the chain's
// teardown or with a kill-to-respawn handoff.
func (c *Coordinator) awaitSettled(ctx context.Context, playerID string) error {
	for _, class := range []opClass{opStop, opAdvance} {
		if h, ok := c.ops.InFlight(playerID, class); ok {
			select {
			case <-h.Done():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// StartCombat begins a new battle chain in the given area. Concurrent
// duplicate starts coalesce; a start racing a stop or an auto-advance
// awaits it first.
func (c *Coordinator) StartCombat(ctx context.Context, playerID string, area domain.CombatArea) error {
	return c.ops.Do(playerID, opStart, func() error {
		if err := c.awaitSettled(ctx, playerID); err != nil {
			return err
		}
		state, err := c.deps.Combat.Combat(ctx, playerID)
		if err != nil {
			return fmt.Errorf("load combat state: %w", err)
		}
		sup, minLevel, err := c.buildSupplier(ctx, area)
		if err != nil {
			return err
		}
		if state.Level < minLevel {
			return fmt.Errorf("%w: have %d, need %d", ErrLevelTooLow, state.Level, minLevel)
		}
		monster, err := sup.Next(ctx, playerID)
		if err != nil {
			return err
		}
		return c.startChain(ctx, playerID, area, state, monster, sup)
	})
}

// Resume hands control back after an offline catch-up: the surviving
// snapshot and the next monster skip the catalog round trip.
func (c *Coordinator) Resume(ctx context.Context, playerID string, area domain.CombatArea, snapshot domain.CombatantState, monster domain.Monster) error {
	return c.ops.Do(playerID, opStart, func() error {
		if err := c.awaitSettled(ctx, playerID); err != nil {
			return err
		}
		sup, _, err := c.buildSupplier(ctx, area)
		if err != nil {
			return err
		}
		return c.startChain(ctx, playerID, area, snapshot, monster, sup)
	})
}

func (c *Coordinator) startChain(ctx context.Context, playerID string, area domain.CombatArea, state domain.CombatantState, monster domain.Monster, sup encounter.Supplier) error {
	ps := c.playerCombat(playerID)
	if b := ps.activeBattle(); b != nil && b.State() < StateEnding {
		return ErrCombatActive
	}
	ps.beginChain(sup)
	b := c.newBattle(playerID, area, state, monster, sup)
	ps.setBattle(b)
	if err := b.Arm(ctx); err != nil {
		ps.clearBattle(b)
		return err
	}
	go func() {
		if err := b.Run(context.WithoutCancel(ctx)); err != nil {
			slog.ErrorContext(ctx, "battle loop failed", "battleId", b.ID, "err", err)
		}
	}()
	return nil
}

// Stop terminates the player's battle chain. Concurrent stops coalesce
// into one execution; a stop racing an auto-advance awaits it, then
// force-ends whatever battle is registered. Exactly one battle-stopped
// notification is emitted per chain termination.
func (c *Coordinator) Stop(ctx context.Context, playerID string) error {
	return c.ops.Do(playerID, opStop, func() error {
		ps := c.playerCombat(playerID)
		ps.setStopPending()

		// Once the pending flag is set the stop owns teardown and must
		// finish it even if the caller's context dies, or an in-flight
		// advance could arm a battle nothing would ever end. The advance
		// wait is bounded by the transition delay plus grace.
		ctx := context.WithoutCancel(ctx)
		if h, ok := c.ops.InFlight(playerID, opAdvance); ok {
			<-h.Done()
		}

		b := ps.activeBattle()
		if b == nil {
			return nil
		}
		b.RequestStop()

		err := b.End(ctx, EndStopped)
		if err == nil {
			// End emitted the stop notification and the Ended hook
			// finalized the run.
			return nil
		}
		if !errors.Is(err, ErrAlreadyEnded) {
			return err
		}

		// The battle ended naturally before the stop landed. A win ends
		// silently, so the stop notification is emitted manually here.
		<-b.Done()
		if b.Reason() == EndMonsterDefeated {
			c.deps.Notifier.Emit(ctx, playerID, domain.EventBattleStopped, domain.BattleStoppedEvent{
				BattleID: b.ID,
				Reason:   EndStopped.String(),
			})
			c.finalizeRun(ctx, playerID, ps)
			ps.clearBattle(b)
		}
		return nil
	})
}

// onMonsterDefeated chains to the next encounter off the battle
// goroutine. Registered once at battle construction.
func (c *Coordinator) onMonsterDefeated(prev *Battle) {
	go func() {
		_ = c.ops.Do(prev.PlayerID, opAdvance, func() error {
			return c.advance(context.Background(), prev)
		})
	}()
}

// advance spawns the next battle after a kill. It never blocks on an
// in-flight stop: when one is found the stop owns teardown and advance
// returns early, which keeps stop-awaits-advance free of cycles.
func (c *Coordinator) advance(ctx context.Context, prev *Battle) error {
	playerID := prev.PlayerID
	ps := c.playerCombat(playerID)

	if _, ok := c.ops.InFlight(playerID, opStop); ok {
		return nil
	}
	if ps.isStopPending() {
		return nil
	}
	b, sup := ps.chain()
	if b != prev {
		return nil
	}

	state, err := c.deps.Combat.Combat(ctx, playerID)
	if err != nil {
		return c.abortChain(ctx, ps, prev, err)
	}
	monster, err := sup.Next(ctx, playerID)
	if err != nil {
		return c.abortChain(ctx, ps, prev, err)
	}

	next := c.newBattle(playerID, prev.Area, state, monster, sup)
	// A start or a stop may have claimed the slot during the store and
	// catalog round trips above; whoever did owns the chain now.
	if !ps.replaceBattle(prev, next) {
		return nil
	}

	// Client-side transition animation window; a stop arriving here is
	// observed by the re-checks below and finalized by the stop op.
	c.sleep(ctx, c.cfg.TransitionDelay)
	if ps.isStopPending() || next.StopRequested() {
		return nil
	}
	c.sleep(ctx, c.cfg.StopGrace)
	if ps.isStopPending() {
		return nil
	}

	if err := next.Arm(ctx); err != nil {
		// A stop ended the battle between the re-check and arming.
		return nil
	}
	go func() {
		if err := next.Run(ctx); err != nil {
			slog.ErrorContext(ctx, "battle loop failed", "battleId", next.ID, "err", err)
		}
	}()
	return nil
}

// abortChain terminates a chain that cannot continue (empty pool, bad
// dungeon state, store failure). The chain ends visibly with a stop
// notification.
func (c *Coordinator) abortChain(ctx context.Context, ps *playerCombat, prev *Battle, cause error) error {
	slog.ErrorContext(ctx, "battle chain aborted",
		"battleId", prev.ID, "playerId", prev.PlayerID, "err", cause)
	c.deps.Notifier.Emit(ctx, prev.PlayerID, domain.EventBattleStopped, domain.BattleStoppedEvent{
		BattleID: prev.ID,
		Reason:   EndFault.String(),
	})
	c.finalizeRun(ctx, prev.PlayerID, ps)
	ps.clearBattle(prev)
	return cause
}

// onEnded is the single cleanup listener for every battle. Natural wins
// keep the chain alive; every other reason tears it down.
func (c *Coordinator) onEnded(b *Battle, reason EndReason) {
	if reason == EndMonsterDefeated {
		return
	}
	ctx := context.Background()
	ps := c.playerCombat(b.PlayerID)
	c.finalizeRun(ctx, b.PlayerID, ps)
	ps.clearBattle(b)
}

// finalizeRun submits the dungeon run to the leaderboard, at most once
// per run thanks to Finish's delete semantics.
func (c *Coordinator) finalizeRun(ctx context.Context, playerID string, ps *playerCombat) {
	sup := ps.currentSupplier()
	if sup == nil {
		return
	}
	run, tracked, err := sup.Finish(ctx, playerID)
	if err != nil {
		slog.WarnContext(ctx, "dungeon run teardown failed", "playerId", playerID, "err", err)
		return
	}
	if !tracked {
		return
	}
	if err := c.deps.Leaderboard.SubmitDungeonRun(ctx, playerID, run); err != nil {
		slog.WarnContext(ctx, "leaderboard submit failed", "playerId", playerID, "err", err)
	}
}

func (c *Coordinator) buildSupplier(ctx context.Context, area domain.CombatArea) (encounter.Supplier, int, error) {
	switch area.Kind {
	case domain.AreaDungeon:
		dungeon, err := c.deps.Catalog.Dungeon(ctx, area.ID)
		if err != nil {
			return nil, 0, err
		}
		return encounter.NewDungeonSupplier(dungeon, c.deps.Catalog, c.deps.Runs), dungeon.RequiredLevel, nil
	default:
		open, err := c.deps.Catalog.Domain(ctx, area.ID)
		if err != nil {
			return nil, 0, err
		}
		return encounter.NewDomainSupplier(open, c.deps.Catalog, c.newRNG()), open.MinLevel, nil
	}
}

func (c *Coordinator) newBattle(playerID string, area domain.CombatArea, state domain.CombatantState, monster domain.Monster, sup encounter.Supplier) *Battle {
	rng := c.newRNG()
	return New(Params{
		PlayerID: playerID,
		Area:     area,
		Player:   state,
		Monster:  monster,
		Resolver: combat.NewResolver(rng),
		RNG:      rng,
		Supplier: sup,
		Deps: Deps{
			Combat:   c.deps.Combat,
			Rewards:  c.deps.Rewards,
			Notifier: c.deps.Notifier,
			Activity: c.deps.Activity,
			Missions: c.deps.Missions,
		},
		Hooks: Hooks{
			MonsterDefeated: c.onMonsterDefeated,
			Ended:           c.onEnded,
		},
	})
}

func (c *Coordinator) playerCombat(playerID string) *playerCombat {
	c.mu.Lock()
	defer c.mu.Unlock()
	ps := c.players[playerID]
	if ps == nil {
		ps = &playerCombat{}
		c.players[playerID] = ps
	}
	return ps
}

func (c *Coordinator) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
