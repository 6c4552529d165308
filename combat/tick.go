package combat

import (
	"math"
	"time"

	"emberfall/domain"
)

// Timers holds the four per-encounter countdowns, in simulated time.
// Values may go negative; a timer is due when it is <= 0.
type Timers struct {
	PlayerAttack  time.Duration
	MonsterAttack time.Duration
	PlayerRegen   time.Duration
	MonsterRegen  time.Duration
}

// NewTimers arms fresh countdowns from the combatants' cached cooldowns.
func NewTimers(player, monster *domain.CombatantState) Timers {
	return Timers{
		PlayerAttack:  player.Cooldown,
		MonsterAttack: monster.Cooldown,
		PlayerRegen:   player.RegenInterval,
		MonsterRegen:  monster.RegenInterval,
	}
}

// Strike は1tick内で実行された1回の攻撃です。Absorbed は相手が実際に
// 吸収したダメージで、オーバーキル分を含みません。
type Strike struct {
	Hit      Hit
	Absorbed int
}

// StepReport は1tick分の進行結果です。副作用(通知・報酬)は呼び出し側が
// 付与します。ライブ戦闘とオフライン補完が同じ Step を共有します。
type StepReport struct {
	PlayerStrike  *Strike
	MonsterStrike *Strike

	PlayerHealed  int
	MonsterHealed int

	MonsterDied bool
	PlayerDied  bool
}

// Step advances one 100ms tick. Ordering is load-bearing: player attack,
// monster attack, death check, then regen; a death ends the tick before
// regen is applied.
func Step(player, monster *domain.CombatantState, t *Timers, r *Resolver) StepReport {
	var rep StepReport

	if player.Alive() && t.PlayerAttack <= 0 {
		hit := r.Resolve(player, monster)
		rep.PlayerStrike = &Strike{
			Hit:      hit,
			Absorbed: monster.ApplyDamage(hit.Damage),
		}
		t.PlayerAttack = player.Cooldown
	}

	if monster.Alive() && t.MonsterAttack <= 0 {
		hit := r.Resolve(monster, player)
		rep.MonsterStrike = &Strike{
			Hit:      hit,
			Absorbed: player.ApplyDamage(hit.Damage),
		}
		t.MonsterAttack = monster.Cooldown
	}

	rep.MonsterDied = !monster.Alive()
	rep.PlayerDied = !player.Alive()
	if rep.MonsterDied || rep.PlayerDied {
		return rep
	}

	if player.Alive() && t.PlayerRegen <= 0 {
		rep.PlayerHealed = player.Heal(int(math.Floor(player.RegenAmount)))
		t.PlayerRegen = player.RegenInterval
	}
	if monster.Alive() && t.MonsterRegen <= 0 {
		rep.MonsterHealed = monster.Heal(int(math.Floor(monster.RegenAmount)))
		t.MonsterRegen = monster.RegenInterval
	}

	t.PlayerAttack -= TickInterval
	t.MonsterAttack -= TickInterval
	t.PlayerRegen -= TickInterval
	t.MonsterRegen -= TickInterval

	return rep
}
