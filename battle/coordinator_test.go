package battle_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"emberfall/battle"
	"emberfall/domain"
	"emberfall/state/memory"
)

type coordFixture struct {
	coord       *battle.Coordinator
	notifier    *eventRecorder
	ledger      *memory.RewardLedger
	leaderboard *memory.Leaderboard
	missions    *memory.MissionTracker
}

func newCoordFixture(t *testing.T, cfg battle.Config) *coordFixture {
	t.Helper()
	store := memory.NewCombatStore(map[string]domain.CombatantState{"p1": strongPlayer()})
	return newCoordFixtureWith(t, cfg, store)
}

func newCoordFixtureWith(t *testing.T, cfg battle.Config, store domain.CombatStore) *coordFixture {
	t.Helper()

	fodder := domain.CombatantState{
		Level: 3, HP: 50, MaxHP: 50,
		AttackType: domain.AttackMelee, MaxDamageMelee: 5,
	}
	monsters := []domain.Monster{
		{ID: "wolf", Name: "Dire Wolf", Level: 3, Combat: fodder, Experience: 35, Gold: 14},
		{
			ID: "golem", Name: "Iron Golem", Level: 5,
			// 誰も削れない持久戦用
			Combat: domain.CombatantState{
				Level: 5, HP: 1 << 20, MaxHP: 1 << 20,
				AttackType: domain.AttackMelee,
			},
			Experience: 1, Gold: 1,
		},
	}
	domains := []domain.DomainArea{
		{ID: "plains", Name: "Plains", MinLevel: 1, MaxLevel: 20,
			Pool: []domain.SpawnEntry{{MonsterID: "wolf", Weight: 1}}},
		{ID: "forge", Name: "Forge", MinLevel: 1, MaxLevel: 20,
			Pool: []domain.SpawnEntry{{MonsterID: "golem", Weight: 1}}},
	}
	dungeons := []domain.DungeonArea{
		{ID: "crypt", Name: "Crypt", RequiredLevel: 5, GrowthFactor: 1.1,
			Sequence: []string{"wolf"}},
		{ID: "abyss", Name: "Abyss", RequiredLevel: 99, GrowthFactor: 1.2,
			Sequence: []string{"wolf"}},
	}

	notifier := &eventRecorder{}
	ledger := memory.NewRewardLedger()
	leaderboard := memory.NewLeaderboard()
	missions := memory.NewMissionTracker()

	coord := battle.NewCoordinator(cfg, battle.CoordinatorDeps{
		Catalog:     memory.NewCatalog(monsters, domains, dungeons),
		Combat:      store,
		Rewards:     ledger,
		Notifier:    notifier,
		Activity:    memory.NewActivityLog(),
		Missions:    missions,
		Leaderboard: leaderboard,
		Runs:        memory.NewRunStore(),
	})
	return &coordFixture{
		coord:       coord,
		notifier:    notifier,
		ledger:      ledger,
		leaderboard: leaderboard,
		missions:    missions,
	}
}

// gatedCombatStore holds Combat lookups from the gateFrom-th call
// onward until released, freezing a kill-to-respawn handoff at its
// store round trip.
type gatedCombatStore struct {
	inner domain.CombatStore

	mu       sync.Mutex
	calls    int
	gateFrom int

	held    chan struct{}
	release chan struct{}
}

func newGatedCombatStore(inner domain.CombatStore, gateFrom int) *gatedCombatStore {
	return &gatedCombatStore{
		inner:    inner,
		gateFrom: gateFrom,
		held:     make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
}

func (s *gatedCombatStore) Combat(ctx context.Context, playerID string) (domain.CombatantState, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()
	if n >= s.gateFrom {
		select {
		case s.held <- struct{}{}:
		default:
		}
		<-s.release
	}
	return s.inner.Combat(ctx, playerID)
}

func (s *gatedCombatStore) SetHP(ctx context.Context, playerID string, hp int) error {
	return s.inner.SetHP(ctx, playerID, hp)
}

func (s *gatedCombatStore) ApplyExperience(ctx context.Context, playerID string, exp int64) (domain.LevelUpResult, error) {
	return s.inner.ApplyExperience(ctx, playerID, exp)
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestCoordinator_StopDuringTransitionWindow(t *testing.T) {
	fx := newCoordFixture(t, battle.Config{
		TransitionDelay: 500 * time.Millisecond,
		StopGrace:       10 * time.Millisecond,
	})
	ctx := context.Background()
	area := domain.CombatArea{Kind: domain.AreaDomain, ID: "plains"}

	if err := fx.coord.StartCombat(ctx, "p1", area); err != nil {
		t.Fatalf("StartCombat: %v", err)
	}

	// 最初の討伐を待ってから、遷移ウィンドウ内で停止する
	waitFor(t, 30*time.Second, func() bool {
		gold, _ := fx.ledger.Balances("p1")
		return gold > 0
	}, "first kill never happened")

	if err := fx.coord.Stop(ctx, "p1"); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// 次の戦闘は決して武装されない
	time.Sleep(700 * time.Millisecond)
	if got := fx.notifier.count(domain.EventBattleStarted); got != 1 {
		t.Fatalf("battle.started events = %d, want 1 (next battle must not arm)", got)
	}
	if got := fx.notifier.count(domain.EventBattleStopped); got != 1 {
		t.Fatalf("battle.stopped events = %d, want exactly 1", got)
	}
	if b := fx.coord.ActiveBattle("p1"); b != nil {
		t.Fatalf("battle still registered after stop: %v", b.ID)
	}
}

func TestCoordinator_AutoAdvanceChainsKills(t *testing.T) {
	fx := newCoordFixture(t, battle.Config{
		TransitionDelay: 20 * time.Millisecond,
		StopGrace:       5 * time.Millisecond,
	})
	ctx := context.Background()
	area := domain.CombatArea{Kind: domain.AreaDomain, ID: "plains"}

	if err := fx.coord.StartCombat(ctx, "p1", area); err != nil {
		t.Fatalf("StartCombat: %v", err)
	}

	// 連鎖で2体目以降も自動で倒される
	waitFor(t, 60*time.Second, func() bool {
		return fx.missions.Progress("p1", "wolf") >= 2
	}, "battle chain never advanced past the first kill")

	if err := fx.coord.Stop(ctx, "p1"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := fx.notifier.count(domain.EventBattleStopped); got != 1 {
		t.Fatalf("battle.stopped events = %d, want exactly 1", got)
	}
}

func TestCoordinator_RejectsSecondStart(t *testing.T) {
	fx := newCoordFixture(t, battle.Config{})
	ctx := context.Background()
	forge := domain.CombatArea{Kind: domain.AreaDomain, ID: "forge"}

	if err := fx.coord.StartCombat(ctx, "p1", forge); err != nil {
		t.Fatalf("StartCombat: %v", err)
	}
	defer func() { _ = fx.coord.Stop(ctx, "p1") }()

	err := fx.coord.StartCombat(ctx, "p1", forge)
	if !errors.Is(err, battle.ErrCombatActive) {
		t.Fatalf("second start = %v, want ErrCombatActive", err)
	}
}

func TestCoordinator_ConcurrentStartsCoalesce(t *testing.T) {
	fx := newCoordFixture(t, battle.Config{})
	ctx := context.Background()
	forge := domain.CombatArea{Kind: domain.AreaDomain, ID: "forge"}

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fx.coord.StartCombat(ctx, "p1", forge)
		}()
	}
	wg.Wait()
	defer func() { _ = fx.coord.Stop(ctx, "p1") }()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, battle.ErrCombatActive):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded == 0 {
		t.Fatal("no start succeeded")
	}
	if got := fx.notifier.count(domain.EventBattleStarted); got != 1 {
		t.Fatalf("battle.started events = %d, want 1", got)
	}
}

func TestCoordinator_LevelGate(t *testing.T) {
	fx := newCoordFixture(t, battle.Config{})
	err := fx.coord.StartCombat(context.Background(), "p1",
		domain.CombatArea{Kind: domain.AreaDungeon, ID: "abyss"})
	if !errors.Is(err, battle.ErrLevelTooLow) {
		t.Fatalf("err = %v, want ErrLevelTooLow", err)
	}
	if got := fx.notifier.count(domain.EventBattleStarted); got != 0 {
		t.Fatalf("battle.started events = %d, want 0", got)
	}
}

func TestCoordinator_DungeonRunSubmittedOnce(t *testing.T) {
	fx := newCoordFixture(t, battle.Config{
		TransitionDelay: 20 * time.Millisecond,
		StopGrace:       5 * time.Millisecond,
	})
	ctx := context.Background()
	crypt := domain.CombatArea{Kind: domain.AreaDungeon, ID: "crypt"}

	if err := fx.coord.StartCombat(ctx, "p1", crypt); err != nil {
		t.Fatalf("StartCombat: %v", err)
	}
	waitFor(t, 60*time.Second, func() bool {
		return fx.missions.Progress("p1", "wolf") >= 2
	}, "dungeon chain never advanced")

	if err := fx.coord.Stop(ctx, "p1"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	// 停止の余波(advance側のfinalize)があっても二重送信しない
	time.Sleep(100 * time.Millisecond)

	runs := fx.leaderboard.Runs()
	if len(runs) != 1 {
		t.Fatalf("leaderboard runs = %d, want exactly 1", len(runs))
	}
	run := runs[0]
	if run.PlayerID != "p1" || run.DungeonID != "crypt" {
		t.Fatalf("unexpected run identity: %+v", run)
	}
	if run.DamageDealt == 0 {
		t.Fatal("run damage dealt never accumulated")
	}

	// 停止済みプレイヤーへの再停止は何もしない
	if err := fx.coord.Stop(ctx, "p1"); err != nil {
		t.Fatalf("idempotent Stop: %v", err)
	}
	if got := len(fx.leaderboard.Runs()); got != 1 {
		t.Fatalf("leaderboard runs after second stop = %d, want 1", got)
	}
}

func TestCoordinator_StartDuringAdvanceKeepsOneBattle(t *testing.T) {
	// 2回目のCombat読み込みはキル後のadvanceが行うので、そこで凍結する
	store := newGatedCombatStore(
		memory.NewCombatStore(map[string]domain.CombatantState{"p1": strongPlayer()}), 2)
	fx := newCoordFixtureWith(t, battle.Config{
		TransitionDelay: 50 * time.Millisecond,
		StopGrace:       5 * time.Millisecond,
	}, store)
	ctx := context.Background()

	if err := fx.coord.StartCombat(ctx, "p1", domain.CombatArea{Kind: domain.AreaDomain, ID: "plains"}); err != nil {
		t.Fatalf("StartCombat: %v", err)
	}
	select {
	case <-store.held:
	case <-time.After(30 * time.Second):
		t.Fatal("advance never reached the combat store")
	}

	// ハンドオフが止まっている最中に別エリアへのstartを差し込む
	startErr := make(chan error, 1)
	go func() {
		startErr <- fx.coord.StartCombat(ctx, "p1", domain.CombatArea{Kind: domain.AreaDomain, ID: "forge"})
	}()
	time.Sleep(50 * time.Millisecond)
	close(store.release)

	select {
	case err := <-startErr:
		if err != nil && !errors.Is(err, battle.ErrCombatActive) {
			t.Fatalf("interleaved start = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("interleaved start never returned")
	}

	if err := fx.coord.Stop(ctx, "p1"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if b := fx.coord.ActiveBattle("p1"); b != nil {
		t.Fatalf("battle still registered after stop: %v", b.ID)
	}
	if got := fx.notifier.count(domain.EventBattleStopped); got != 1 {
		t.Fatalf("battle.stopped events = %d, want exactly 1", got)
	}

	// 停止解決後も打撃通知を出し続ける戦闘が残っていてはならない
	before := fx.notifier.count(domain.EventHPChanged)
	time.Sleep(2 * time.Second)
	if after := fx.notifier.count(domain.EventHPChanged); after != before {
		t.Fatalf("hp events still flowing after stop: %d -> %d", before, after)
	}
}

func TestCoordinator_StopSurvivesCallerCancellation(t *testing.T) {
	store := newGatedCombatStore(
		memory.NewCombatStore(map[string]domain.CombatantState{"p1": strongPlayer()}), 2)
	fx := newCoordFixtureWith(t, battle.Config{
		TransitionDelay: 50 * time.Millisecond,
		StopGrace:       5 * time.Millisecond,
	}, store)

	if err := fx.coord.StartCombat(context.Background(), "p1", domain.CombatArea{Kind: domain.AreaDomain, ID: "plains"}); err != nil {
		t.Fatalf("StartCombat: %v", err)
	}
	select {
	case <-store.held:
	case <-time.After(30 * time.Second):
		t.Fatal("advance never reached the combat store")
	}

	// 失効済みctxでの停止でも、advance完了を待ってteardownを完遂する
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	stopErr := make(chan error, 1)
	go func() {
		stopErr <- fx.coord.Stop(cancelled, "p1")
	}()
	time.Sleep(50 * time.Millisecond)
	close(store.release)

	select {
	case err := <-stopErr:
		if err != nil {
			t.Fatalf("Stop = %v, want completed teardown", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Stop never resolved")
	}

	if b := fx.coord.ActiveBattle("p1"); b != nil {
		t.Fatalf("battle still registered after stop: %v", b.ID)
	}
	if got := fx.notifier.count(domain.EventBattleStopped); got != 1 {
		t.Fatalf("battle.stopped events = %d, want exactly 1", got)
	}
}
