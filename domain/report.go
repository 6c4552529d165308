package domain

import "time"

// OfflineReport はオフライン補完シミュレーションの集計結果です。
type OfflineReport struct {
	// Elapsed is the simulated duration after clamping to the cap.
	Elapsed time.Duration

	Experience int64
	Gold       int64
	Token      int64

	// Kills maps monster ID to kill count.
	Kills map[string]int
	// Drops maps drop reference ID to total quantity.
	Drops map[string]int

	Died bool

	// Resume carries the un-nerfed combatant snapshot with the HP the
	// simulation ended on. Nil when Died is true.
	Resume *CombatantState
	// NextMonster is the encounter to hand back to the live loop.
	// Nil when Died is true.
	NextMonster *Monster
}
