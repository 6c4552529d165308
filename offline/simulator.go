// Package offline replays the live tick algorithm without real-time
// delay to catch up a reconnecting player's elapsed absence.
package offline

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"emberfall/combat"
	"emberfall/domain"
	"emberfall/encounter"
)

// Config は補完シミュレーションの上限と各種ナーフ係数です。
// 放置プレイはアクティブプレイより非効率であるべき、という設計です。
type Config struct {
	// MaxElapsed caps the simulated duration, bounding worst-case CPU.
	MaxElapsed time.Duration
	// StatNerf scales the player's combat attributes during simulation.
	StatNerf float64
	// RewardNerf scales experience/gold/token yields.
	RewardNerf float64
	// DropNerf scales every drop probability.
	DropNerf float64
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		MaxElapsed: 12 * time.Hour,
		StatNerf:   0.8,
		RewardNerf: 0.5,
		DropNerf:   0.5,
	}
}

// Simulator replays combat for one player synchronously: no per-tick
// notifications, no real-time delay, only a final aggregate. It runs at
// most once per login, before any live battle exists for the player.
type Simulator struct {
	supplier    encounter.Supplier
	resolver    *combat.Resolver
	leaderboard domain.Leaderboard
	rng         *rand.Rand
	cfg         Config
}

// New returns a simulator bound to one area's supplier. A nil rng falls
// back to a time-seeded source.
func New(supplier encounter.Supplier, rng *rand.Rand, leaderboard domain.Leaderboard, cfg Config) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		supplier:    supplier,
		resolver:    combat.NewResolver(rng),
		leaderboard: leaderboard,
		rng:         rng,
		cfg:         cfg,
	}
}

// CatchUp simulates the elapsed absence, clamped to the configured cap.
// Anything above the cap produces identical results to passing exactly
// the cap.
func (s *Simulator) CatchUp(ctx context.Context, playerID string, snapshot domain.CombatantState, elapsed time.Duration) (domain.OfflineReport, error) {
	if elapsed > s.cfg.MaxElapsed {
		elapsed = s.cfg.MaxElapsed
	}
	ticks := int(elapsed / combat.TickInterval)

	report := domain.OfflineReport{
		Elapsed: time.Duration(ticks) * combat.TickInterval,
		Kills:   make(map[string]int),
		Drops:   make(map[string]int),
	}

	player := nerfCombatant(snapshot, s.cfg.StatNerf)
	monster, err := s.supplier.Next(ctx, playerID)
	if err != nil {
		return report, err
	}
	timers := combat.NewTimers(&player, &monster.Combat)

	for i := 0; i < ticks; i++ {
		rep := combat.Step(&player, &monster.Combat, &timers, s.resolver)

		dealt, taken := 0, 0
		if rep.PlayerStrike != nil {
			dealt = rep.PlayerStrike.Absorbed
		}
		if rep.MonsterStrike != nil {
			taken = rep.MonsterStrike.Absorbed
		}
		if err := s.supplier.RecordDamage(ctx, playerID, dealt, taken); err != nil {
			slog.WarnContext(ctx, "offline damage tracking failed", "playerId", playerID, "err", err)
		}

		if rep.MonsterDied {
			s.collectKill(&report, monster)
			if err := s.supplier.Advance(ctx, playerID); err != nil {
				return report, err
			}
			monster, err = s.supplier.Next(ctx, playerID)
			if err != nil {
				return report, err
			}
			timers = combat.NewTimers(&player, &monster.Combat)
			continue
		}
		if rep.PlayerDied {
			report.Died = true
			s.finalizeRun(ctx, playerID)
			return report, nil
		}
	}

	// Survived the whole window: restore the un-nerfed attributes with
	// the HP the simulation ended on, so the live loop resumes seamlessly.
	resume := snapshot
	resume.HP = player.HP
	if resume.HP > resume.MaxHP {
		resume.HP = resume.MaxHP
	}
	resume.Cooldown = combat.Cooldown(resume.AttackSpeed)
	report.Resume = &resume
	report.NextMonster = &monster
	return report, nil
}

func (s *Simulator) collectKill(report *domain.OfflineReport, monster domain.Monster) {
	report.Kills[monster.ID]++
	report.Experience += nerfAmount(monster.Experience, s.cfg.RewardNerf)
	report.Gold += nerfAmount(monster.Gold, s.cfg.RewardNerf)
	report.Token += nerfAmount(monster.Token, s.cfg.RewardNerf)
	for _, drop := range monster.Drops {
		if s.rng.Float64() < drop.Probability*s.cfg.DropNerf {
			report.Drops[drop.RefID] += drop.Qty
		}
	}
}

func (s *Simulator) finalizeRun(ctx context.Context, playerID string) {
	run, tracked, err := s.supplier.Finish(ctx, playerID)
	if err != nil {
		slog.WarnContext(ctx, "offline run teardown failed", "playerId", playerID, "err", err)
		return
	}
	if !tracked {
		return
	}
	if err := s.leaderboard.SubmitDungeonRun(ctx, playerID, run); err != nil {
		slog.WarnContext(ctx, "offline leaderboard submit failed", "playerId", playerID, "err", err)
	}
}

// nerfCombatant scales the offensive and defensive attributes uniformly
// and recomputes the cooldown from the nerfed attack speed.
func nerfCombatant(c domain.CombatantState, nerf float64) domain.CombatantState {
	c.Accuracy *= nerf
	c.Evasion *= nerf
	c.MaxDamageMelee *= nerf
	c.MaxDamageRanged *= nerf
	c.MaxDamageMagic *= nerf
	c.CritChance *= nerf
	c.RegenAmount *= nerf
	c.AttackSpeed *= nerf
	c.Cooldown = combat.Cooldown(c.AttackSpeed)
	return c
}

func nerfAmount(v int64, nerf float64) int64 {
	return int64(math.Floor(float64(v) * nerf))
}
