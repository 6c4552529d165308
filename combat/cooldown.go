package combat

import (
	"math"
	"time"
)

// TickInterval is the fixed simulation step shared by the live battle
// loop and the offline catch-up simulator.
const TickInterval = 100 * time.Millisecond

// 攻撃速度→クールダウンの折れ線カーブ。区間内は線形補間。
var cooldownCurve = []struct {
	speed   float64
	seconds float64
}{
	{10, 4.0},
	{500, 3.5},
	{2000, 2.5},
	{5000, 1.5},
	{10000, 1.0},
}

// Cooldown converts an attack-speed value into the delay between attacks.
// Below the first breakpoint the cooldown is clamped to 4.0s; beyond the
// last it decays toward an asymptote of 0.85s and never reaches it.
func Cooldown(attackSpeed float64) time.Duration {
	return time.Duration(cooldownSeconds(attackSpeed) * float64(time.Second))
}

func cooldownSeconds(speed float64) float64 {
	first := cooldownCurve[0]
	if speed <= first.speed {
		return first.seconds
	}
	for i := 1; i < len(cooldownCurve); i++ {
		hi := cooldownCurve[i]
		if speed <= hi.speed {
			lo := cooldownCurve[i-1]
			frac := (speed - lo.speed) / (hi.speed - lo.speed)
			return lo.seconds + frac*(hi.seconds-lo.seconds)
		}
	}
	last := cooldownCurve[len(cooldownCurve)-1]
	return 0.85 + 0.15*math.Exp(-0.001*(speed-last.speed))
}
