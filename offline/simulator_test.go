package offline_test

import (
	"context"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"emberfall/combat"
	"emberfall/domain"
	"emberfall/encounter"
	"emberfall/offline"
	"emberfall/state/memory"
)

func simCatalog() *memory.Catalog {
	monsters := []domain.Monster{
		{
			ID: "wolf", Name: "Dire Wolf", Level: 3,
			Combat: domain.CombatantState{
				Level: 3, HP: 50, MaxHP: 50,
				AttackType: domain.AttackMelee, AttackSpeed: 500,
				Accuracy: 40, Evasion: 20, MaxDamageMelee: 8,
				RegenInterval: 10 * time.Second, RegenAmount: 1,
			},
			Experience: 35, Gold: 14, Token: 1,
			Drops: []domain.Drop{
				{RefID: "wolf-pelt", Kind: domain.DropItem, Qty: 1, Probability: 0.5},
			},
		},
	}
	domains := []domain.DomainArea{
		{ID: "plains", Name: "Plains", MinLevel: 1, MaxLevel: 20,
			Pool: []domain.SpawnEntry{{MonsterID: "wolf", Weight: 1}}},
	}
	dungeons := []domain.DungeonArea{
		{ID: "crypt", Name: "Crypt", RequiredLevel: 5, GrowthFactor: 1.1,
			Sequence: []string{"wolf"}},
	}
	return memory.NewCatalog(monsters, domains, dungeons)
}

func simPlayer() domain.CombatantState {
	// 回避と再生を盛って、1時間の放置でも死なないようにしてある
	return domain.CombatantState{
		Level: 10, HP: 200, MaxHP: 200,
		AttackType: domain.AttackMelee, AttackSpeed: 2000,
		Accuracy: 120, Evasion: 8000, MaxDamageMelee: 30,
		RegenInterval: 2 * time.Second, RegenAmount: 4,
	}
}

func newDomainSim(seed int64, cfg offline.Config) *offline.Simulator {
	catalog := simCatalog()
	area, _ := catalog.Domain(context.Background(), "plains")
	sup := encounter.NewDomainSupplier(area, catalog, rand.New(rand.NewSource(seed)))
	return offline.New(sup, rand.New(rand.NewSource(seed)), memory.NewLeaderboard(), cfg)
}

func TestCatchUp_AccumulatesRewards(t *testing.T) {
	sim := newDomainSim(1, offline.DefaultConfig())

	report, err := sim.CatchUp(context.Background(), "p1", simPlayer(), time.Hour)
	if err != nil {
		t.Fatalf("CatchUp: %v", err)
	}
	if report.Kills["wolf"] == 0 {
		t.Fatal("an hour of fighting wolves produced no kills")
	}
	if report.Experience == 0 || report.Gold == 0 {
		t.Fatalf("rewards missing: %+v", report)
	}
	// 半減ナーフ: floor(35*0.5)=17/kill を超えない
	if max := int64(report.Kills["wolf"]) * 17; report.Experience > max {
		t.Fatalf("experience %d exceeds nerfed maximum %d", report.Experience, max)
	}
	if report.Elapsed != time.Hour {
		t.Fatalf("elapsed = %v, want the full hour", report.Elapsed)
	}
}

func TestCatchUp_CapClampIsIdentical(t *testing.T) {
	cfg := offline.DefaultConfig()
	cfg.MaxElapsed = 30 * time.Minute

	// 上限超過は上限ちょうどと同一の結果になる
	atCap, err := newDomainSim(7, cfg).CatchUp(context.Background(), "p1", simPlayer(), 30*time.Minute)
	if err != nil {
		t.Fatalf("CatchUp at cap: %v", err)
	}
	overCap, err := newDomainSim(7, cfg).CatchUp(context.Background(), "p1", simPlayer(), 8*time.Hour)
	if err != nil {
		t.Fatalf("CatchUp over cap: %v", err)
	}
	if !reflect.DeepEqual(atCap, overCap) {
		t.Fatalf("clamped reports differ:\n at cap: %+v\nover cap: %+v", atCap, overCap)
	}
}

func TestCatchUp_SurvivorResumesUnnerfed(t *testing.T) {
	snapshot := simPlayer()
	sim := newDomainSim(3, offline.DefaultConfig())

	report, err := sim.CatchUp(context.Background(), "p1", snapshot, time.Hour)
	if err != nil {
		t.Fatalf("CatchUp: %v", err)
	}
	if report.Died {
		t.Fatal("player should have survived the wolves")
	}
	if report.Resume == nil || report.NextMonster == nil {
		t.Fatalf("survivor must get a resume snapshot and next monster: %+v", report)
	}
	// 復帰スナップショットはナーフ前の属性に戻っている
	if report.Resume.Accuracy != snapshot.Accuracy || report.Resume.AttackSpeed != snapshot.AttackSpeed {
		t.Fatalf("resume attributes still nerfed: %+v", report.Resume)
	}
	if report.Resume.HP <= 0 || report.Resume.HP > report.Resume.MaxHP {
		t.Fatalf("resume HP %d outside (0, %d]", report.Resume.HP, report.Resume.MaxHP)
	}
	if report.Resume.Cooldown != combat.Cooldown(snapshot.AttackSpeed) {
		t.Fatalf("resume cooldown = %v, want derived from un-nerfed speed", report.Resume.Cooldown)
	}
}

func TestCatchUp_DeathEndsSimulationAndSubmitsRun(t *testing.T) {
	catalog := simCatalog()
	dungeon, _ := catalog.Dungeon(context.Background(), "crypt")
	leaderboard := memory.NewLeaderboard()
	sup := encounter.NewDungeonSupplier(dungeon, catalog, memory.NewRunStore())
	sim := offline.New(sup, rand.New(rand.NewSource(5)), leaderboard, offline.DefaultConfig())

	// 攻撃手段を持たない1HPのプレイヤーは最初の被弾で死ぬ
	doomed := domain.CombatantState{
		Level: 1, HP: 1, MaxHP: 1,
		AttackType: domain.AttackMelee, AttackSpeed: 100,
	}
	report, err := sim.CatchUp(context.Background(), "p1", doomed, time.Hour)
	if err != nil {
		t.Fatalf("CatchUp: %v", err)
	}
	if !report.Died {
		t.Fatal("doomed player survived")
	}
	if report.Resume != nil {
		t.Fatal("dead player must not get a resume snapshot")
	}
	if len(report.Kills) != 0 {
		t.Fatalf("dead-on-arrival player recorded kills: %v", report.Kills)
	}

	runs := leaderboard.Runs()
	if len(runs) != 1 {
		t.Fatalf("leaderboard runs = %d, want 1", len(runs))
	}
	if runs[0].DungeonID != "crypt" {
		t.Fatalf("run dungeon = %s, want crypt", runs[0].DungeonID)
	}
}

func TestCatchUp_ZeroElapsed(t *testing.T) {
	sim := newDomainSim(1, offline.DefaultConfig())
	report, err := sim.CatchUp(context.Background(), "p1", simPlayer(), 0)
	if err != nil {
		t.Fatalf("CatchUp: %v", err)
	}
	if report.Died || len(report.Kills) != 0 || report.Experience != 0 {
		t.Fatalf("zero elapsed produced activity: %+v", report)
	}
	if report.Resume == nil {
		t.Fatal("zero elapsed must still return a resume snapshot")
	}
	if report.Resume.HP != simPlayer().HP {
		t.Fatalf("resume HP = %d, want untouched %d", report.Resume.HP, simPlayer().HP)
	}
}
