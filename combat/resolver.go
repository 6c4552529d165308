package combat

import (
	"math"
	"math/rand"
	"time"

	"emberfall/domain"
)

// Hit は1回の攻撃解決の結果です。ミス時は Damage=0, Crit=false。
type Hit struct {
	Damage int
	Crit   bool
}

// Resolver resolves single attacks between two combatant snapshots.
// It is pure apart from the injected random source; callers that need
// reproducible sequences pass a seeded *rand.Rand.
type Resolver struct {
	rng *rand.Rand
}

// NewResolver returns a resolver using the provided random source.
// A nil rng falls back to a time-seeded source.
func NewResolver(rng *rand.Rand) *Resolver {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Resolver{rng: rng}
}

// Resolve は attacker から defender への1攻撃を解決します。
// 処理順は hit → base → crit → triangle → elemental → mitigation で固定。
// この順序を変えると結果の分布が変わるため入れ替え禁止。
func (r *Resolver) Resolve(attacker, defender *domain.CombatantState) Hit {
	if r.rng.Float64() >= HitChance(attacker.Accuracy, defender.Evasion) {
		return Hit{}
	}

	// Average of two uniform draws biases damage toward the midpoint.
	roll := (r.rng.Float64() + r.rng.Float64()) / 2
	maxDmg := attacker.MaxDamageFor(attacker.AttackType)
	damage := (0.4 + 0.6*roll) * maxDmg

	crit := false
	if r.rng.Float64() < attacker.CritChance {
		damage *= attacker.CritMultiplier
		crit = true
	}

	damage *= TriangleModifier(attacker.AttackType, defender)
	damage *= ElementalModifier(attacker, defender)
	damage *= mitigation(attacker.AttackType, defender)

	final := int(math.Floor(damage))
	if final < 0 {
		final = 0
	}
	return Hit{Damage: final, Crit: crit}
}

// HitChance returns the clamped probability of an attack landing.
func HitChance(accuracy, evasion float64) float64 {
	chance := 0.5
	if total := accuracy + evasion; total > 0 {
		chance = 0.5 + (accuracy-evasion)/(2*total)
	}
	return clamp(chance, 0.20, 0.95)
}

// TriangleModifier computes the combat-triangle damage multiplier from
// the defender's type leanings. The defender's leaning toward the type
// the attacker beats works against it; the leaning toward the type that
// beats the attacker works for it.
func TriangleModifier(attackType domain.AttackType, defender *domain.CombatantState) float64 {
	weak := defender.TriangleFactor(attackType.Beats())
	strong := defender.TriangleFactor(attackType.BeatenBy())
	mod := 1 + 0.5*(weak-strong)/(defender.TriangleSum()+1)
	return clamp(mod, 0.7, 1.3)
}

// ElementalModifier computes the four-element cyclic advantage multiplier.
func ElementalModifier(attacker, defender *domain.CombatantState) float64 {
	net := 0.0
	for _, e := range domain.Elements {
		beater := e.BeatenBy()
		net += (attacker.ElementValue(beater) - defender.ElementValue(e)) -
			(defender.ElementValue(beater) - attacker.ElementValue(e))
	}
	return clamp(1+0.05*net, 0.75, 1.25)
}

func mitigation(attackType domain.AttackType, defender *domain.CombatantState) float64 {
	reduction := defender.PhysicalReduction
	if attackType == domain.AttackMagic {
		reduction = defender.MagicReduction
	}
	return 1 / (1 + reduction/5000)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
