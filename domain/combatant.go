package domain

import "time"

// AttackType はコンバットトライアングルを構成する攻撃タイプです。
type AttackType int

const (
	AttackMelee AttackType = iota
	AttackRanged
	AttackMagic
)

func (t AttackType) String() string {
	switch t {
	case AttackMelee:
		return "melee"
	case AttackRanged:
		return "ranged"
	case AttackMagic:
		return "magic"
	default:
		return "unknown"
	}
}

// Beats returns the attack type t has the triangle advantage over.
// Melee beats Ranged, Ranged beats Magic, Magic beats Melee.
func (t AttackType) Beats() AttackType {
	switch t {
	case AttackMelee:
		return AttackRanged
	case AttackRanged:
		return AttackMagic
	default:
		return AttackMelee
	}
}

// BeatenBy returns the attack type that has the triangle advantage over t.
func (t AttackType) BeatenBy() AttackType {
	switch t {
	case AttackMelee:
		return AttackMagic
	case AttackRanged:
		return AttackMelee
	default:
		return AttackRanged
	}
}

// Element は属性強化の4元素です。
type Element int

const (
	ElementWater Element = iota
	ElementFire
	ElementAir
	ElementEarth
)

// Elements lists all four elements in cycle order.
var Elements = [4]Element{ElementWater, ElementFire, ElementAir, ElementEarth}

func (e Element) String() string {
	switch e {
	case ElementWater:
		return "water"
	case ElementFire:
		return "fire"
	case ElementAir:
		return "air"
	default:
		return "earth"
	}
}

// Beats returns the element e has the cyclic advantage over.
// Water beats Fire, Fire beats Air, Air beats Earth, Earth beats Water.
func (e Element) Beats() Element {
	switch e {
	case ElementWater:
		return ElementFire
	case ElementFire:
		return ElementAir
	case ElementAir:
		return ElementEarth
	default:
		return ElementWater
	}
}

// BeatenBy returns the element that has the cyclic advantage over e.
func (e Element) BeatenBy() Element {
	switch e {
	case ElementWater:
		return ElementEarth
	case ElementFire:
		return ElementWater
	case ElementAir:
		return ElementFire
	default:
		return ElementAir
	}
}

// CombatantState は1体の戦闘参加者の派生済みステータスを保持します。
// 進行システム側で計算済みの値を受け取るだけで、この構造体は再計算しません。
// HPは常に 0 <= HP <= MaxHP を満たします。
type CombatantState struct {
	Level int

	HP    int
	MaxHP int

	AttackType  AttackType
	AttackSpeed float64
	// Cooldown is derived from AttackSpeed via combat.Cooldown and cached
	// here so the tick loop never recomputes it mid-fight.
	Cooldown time.Duration

	Accuracy float64
	Evasion  float64

	MaxDamageMelee  float64
	MaxDamageRanged float64
	MaxDamageMagic  float64

	CritChance     float64
	CritMultiplier float64

	PhysicalReduction float64
	MagicReduction    float64

	TriangleMelee  float64
	TriangleRanged float64
	TriangleMagic  float64

	ElementWater float64
	ElementFire  float64
	ElementAir   float64
	ElementEarth float64

	// RegenInterval is the time between heals, RegenAmount the HP restored
	// per heal (floored on application).
	RegenInterval time.Duration
	RegenAmount   float64
}

// MaxDamageFor returns the max damage stat matching the attack type.
func (c *CombatantState) MaxDamageFor(t AttackType) float64 {
	switch t {
	case AttackMelee:
		return c.MaxDamageMelee
	case AttackRanged:
		return c.MaxDamageRanged
	default:
		return c.MaxDamageMagic
	}
}

// TriangleFactor returns the combatant's leaning toward the given attack type.
func (c *CombatantState) TriangleFactor(t AttackType) float64 {
	switch t {
	case AttackMelee:
		return c.TriangleMelee
	case AttackRanged:
		return c.TriangleRanged
	default:
		return c.TriangleMagic
	}
}

// TriangleSum returns the sum of all three triangle factors.
func (c *CombatantState) TriangleSum() float64 {
	return c.TriangleMelee + c.TriangleRanged + c.TriangleMagic
}

// ElementValue returns the reinforcement value for the given element.
func (c *CombatantState) ElementValue(e Element) float64 {
	switch e {
	case ElementWater:
		return c.ElementWater
	case ElementFire:
		return c.ElementFire
	case ElementAir:
		return c.ElementAir
	default:
		return c.ElementEarth
	}
}

// ApplyDamage はダメージを適用し、実際に吸収された量を返します。
// オーバーキル分は吸収量に含まれません。HPは0未満になりません。
func (c *CombatantState) ApplyDamage(damage int) int {
	if damage <= 0 {
		return 0
	}
	absorbed := damage
	if absorbed > c.HP {
		absorbed = c.HP
	}
	c.HP -= absorbed
	return absorbed
}

// Heal はHPを回復します。MaxHPを超えません。
func (c *CombatantState) Heal(amount int) int {
	if amount <= 0 || c.HP >= c.MaxHP {
		return 0
	}
	healed := amount
	if c.HP+healed > c.MaxHP {
		healed = c.MaxHP - c.HP
	}
	c.HP += healed
	return healed
}

// RestoreFull はHPを全回復します。
func (c *CombatantState) RestoreFull() {
	c.HP = c.MaxHP
}

func (c *CombatantState) Alive() bool {
	return c.HP > 0
}
