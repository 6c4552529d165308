package battle_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"emberfall/battle"
	"emberfall/domain"
	"emberfall/domain/mocks"
	"emberfall/state/memory"
)

// eventRecorder は通知をプレイヤー別に記録するハンドメイドのダブルです。
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	event   string
	payload any
}

func (r *eventRecorder) Emit(ctx context.Context, playerID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{event: event, payload: payload})
}

func (r *eventRecorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.event == event {
			n++
		}
	}
	return n
}

var _ domain.Notifier = (*eventRecorder)(nil)

// stubSupplier は固定のモンスターを配り続ける供給ダブルです。
type stubSupplier struct {
	mu       sync.Mutex
	monster  domain.Monster
	advances int
	dealt    int64
	taken    int64
}

func (s *stubSupplier) Next(ctx context.Context, playerID string) (domain.Monster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monster.Clone(), nil
}

func (s *stubSupplier) Advance(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advances++
	return nil
}

func (s *stubSupplier) RecordDamage(ctx context.Context, playerID string, dealt, taken int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dealt += int64(dealt)
	s.taken += int64(taken)
	return nil
}

func (s *stubSupplier) Finish(ctx context.Context, playerID string) (domain.DungeonRunState, bool, error) {
	return domain.DungeonRunState{}, false, nil
}

func (s *stubSupplier) advanceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advances
}

func strongPlayer() domain.CombatantState {
	return domain.CombatantState{
		Level: 10, HP: 1000, MaxHP: 1000,
		AttackType: domain.AttackMelee, AttackSpeed: 1e6,
		Accuracy: 1e6, MaxDamageMelee: 10000,
		RegenInterval: time.Hour,
	}
}

func fodderMonster() domain.Monster {
	return domain.Monster{
		ID: "wolf", Name: "Dire Wolf", Level: 3,
		Combat: domain.CombatantState{
			Level: 3, HP: 50, MaxHP: 50,
			AttackType: domain.AttackMelee,
			Cooldown:   time.Hour, RegenInterval: time.Hour,
		},
		Experience: 35, Gold: 14, Token: 1,
		Drops: []domain.Drop{
			{RefID: "wolf-pelt", Kind: domain.DropItem, Qty: 2, Probability: 1.0},
			{RefID: "fang-blade", Kind: domain.DropEquipment, Qty: 1, Probability: 0.0},
		},
	}
}

func awaitEnd(t *testing.T, b *battle.Battle) battle.EndReason {
	t.Helper()
	select {
	case <-b.Done():
		return b.Reason()
	case <-time.After(30 * time.Second):
		t.Fatal("battle never ended")
		return battle.EndNone
	}
}

func TestBattle_PlayerDefeatsMonster(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := &eventRecorder{}
	store := memory.NewCombatStore(map[string]domain.CombatantState{"p1": strongPlayer()})
	ledger := memory.NewRewardLedger()
	sup := &stubSupplier{monster: fodderMonster()}

	activity := mocks.NewMockActivityLog(ctrl)
	activity.EXPECT().RecordKill(gomock.Any(), "p1", "wolf", "plains").Return(nil).Times(1)
	missions := mocks.NewMockMissionTracker(ctrl)
	missions.EXPECT().RecordProgress(gomock.Any(), "p1", "wolf", 1).Return(nil).Times(1)

	defeated := make(chan *battle.Battle, 1)
	b := battle.New(battle.Params{
		PlayerID: "p1",
		Area:     domain.CombatArea{Kind: domain.AreaDomain, ID: "plains"},
		Player:   strongPlayer(),
		Monster:  fodderMonster(),
		RNG:      rand.New(rand.NewSource(11)),
		Supplier: sup,
		Deps: battle.Deps{
			Combat:   store,
			Rewards:  ledger,
			Notifier: notifier,
			Activity: activity,
			Missions: missions,
		},
		Hooks: battle.Hooks{
			MonsterDefeated: func(b *battle.Battle) { defeated <- b },
		},
	})

	ctx := context.Background()
	if err := b.Arm(ctx); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	go func() { _ = b.Run(ctx) }()

	if reason := awaitEnd(t, b); reason != battle.EndMonsterDefeated {
		t.Fatalf("end reason = %v, want monster_defeated", reason)
	}
	select {
	case <-defeated:
	case <-time.After(time.Second):
		t.Fatal("MonsterDefeated hook never fired")
	}

	if got := notifier.count(domain.EventBattleStarted); got != 1 {
		t.Fatalf("battle.started events = %d, want 1", got)
	}
	if got := notifier.count(domain.EventReward); got != 1 {
		t.Fatalf("battle.reward events = %d, want 1", got)
	}
	// 自然勝利はサイレントに次へ繋ぐ
	if got := notifier.count(domain.EventBattleStopped); got != 0 {
		t.Fatalf("battle.stopped events = %d, want 0 on a natural win", got)
	}
	if notifier.count(domain.EventHPChanged) == 0 {
		t.Fatal("no hp events emitted")
	}

	gold, tokens := ledger.Balances("p1")
	if gold != 14 || tokens != 1 {
		t.Fatalf("balances = %d gold %d tokens, want 14/1", gold, tokens)
	}
	drops := ledger.Drops("p1")
	if drops["wolf-pelt"] != 2 {
		t.Fatalf("wolf-pelt qty = %d, want 2", drops["wolf-pelt"])
	}
	if _, ok := drops["fang-blade"]; ok {
		t.Fatal("zero-probability drop was minted")
	}
	if got := sup.advanceCount(); got != 1 {
		t.Fatalf("supplier advances = %d, want 1", got)
	}
}

func TestBattle_PlayerDies(t *testing.T) {
	notifier := &eventRecorder{}
	player := domain.CombatantState{
		Level: 1, HP: 30, MaxHP: 30,
		AttackType: domain.AttackMelee, AttackSpeed: 1e6,
		RegenInterval: time.Hour,
	}
	killer := domain.Monster{
		ID: "reaper", Name: "Reaper", Level: 50,
		Combat: domain.CombatantState{
			Level: 50, HP: 5000, MaxHP: 5000,
			AttackType: domain.AttackMelee, Accuracy: 1e6,
			MaxDamageMelee: 10000,
			Cooldown:       100 * time.Millisecond,
			RegenInterval:  time.Hour,
		},
	}
	store := memory.NewCombatStore(map[string]domain.CombatantState{"p1": player})

	b := battle.New(battle.Params{
		PlayerID: "p1",
		Area:     domain.CombatArea{Kind: domain.AreaDomain, ID: "plains"},
		Player:   player,
		Monster:  killer,
		RNG:      rand.New(rand.NewSource(3)),
		Supplier: &stubSupplier{monster: killer},
		Deps: battle.Deps{
			Combat:   store,
			Rewards:  memory.NewRewardLedger(),
			Notifier: notifier,
			Activity: memory.NewActivityLog(),
			Missions: memory.NewMissionTracker(),
		},
	})

	ctx := context.Background()
	if err := b.Arm(ctx); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	go func() { _ = b.Run(ctx) }()

	if reason := awaitEnd(t, b); reason != battle.EndPlayerDied {
		t.Fatalf("end reason = %v, want player_died", reason)
	}
	if got := notifier.count(domain.EventPlayerDied); got != 1 {
		t.Fatalf("battle.death events = %d, want 1", got)
	}
	if got := notifier.count(domain.EventBattleStopped); got != 1 {
		t.Fatalf("battle.stopped events = %d, want 1", got)
	}

	// 死亡ペナルティなし: 全快で持ち場へ戻る
	saved, err := store.Combat(ctx, "p1")
	if err != nil {
		t.Fatalf("Combat: %v", err)
	}
	if saved.HP != saved.MaxHP {
		t.Fatalf("persisted HP = %d/%d, want full restore", saved.HP, saved.MaxHP)
	}
}

func TestBattle_ArmAfterStopRequest(t *testing.T) {
	notifier := &eventRecorder{}
	var endedReason battle.EndReason
	ended := make(chan struct{})

	b := battle.New(battle.Params{
		PlayerID: "p1",
		Player:   strongPlayer(),
		Monster:  fodderMonster(),
		Supplier: &stubSupplier{monster: fodderMonster()},
		Deps: battle.Deps{
			Combat:   memory.NewCombatStore(map[string]domain.CombatantState{"p1": strongPlayer()}),
			Rewards:  memory.NewRewardLedger(),
			Notifier: notifier,
			Activity: memory.NewActivityLog(),
			Missions: memory.NewMissionTracker(),
		},
		Hooks: battle.Hooks{
			Ended: func(b *battle.Battle, reason battle.EndReason) {
				endedReason = reason
				close(ended)
			},
		},
	})

	b.RequestStop()
	err := b.Arm(context.Background())
	if !errors.Is(err, battle.ErrAlreadyEnded) {
		t.Fatalf("Arm after stop = %v, want ErrAlreadyEnded", err)
	}

	<-ended
	if endedReason != battle.EndStopped {
		t.Fatalf("Ended hook reason = %v, want stopped", endedReason)
	}
	if got := notifier.count(domain.EventBattleStopped); got != 1 {
		t.Fatalf("battle.stopped events = %d, want 1", got)
	}
	if got := notifier.count(domain.EventBattleStarted); got != 0 {
		t.Fatalf("battle.started events = %d, want 0", got)
	}
}

func TestBattle_EndIsIdempotent(t *testing.T) {
	b := battle.New(battle.Params{
		PlayerID: "p1",
		Player:   strongPlayer(),
		Monster:  fodderMonster(),
		Supplier: &stubSupplier{monster: fodderMonster()},
		Deps: battle.Deps{
			Combat:   memory.NewCombatStore(map[string]domain.CombatantState{"p1": strongPlayer()}),
			Rewards:  memory.NewRewardLedger(),
			Notifier: &eventRecorder{},
			Activity: memory.NewActivityLog(),
			Missions: memory.NewMissionTracker(),
		},
	})

	ctx := context.Background()
	if err := b.End(ctx, battle.EndStopped); err != nil {
		t.Fatalf("first End: %v", err)
	}
	if err := b.End(ctx, battle.EndPlayerDied); !errors.Is(err, battle.ErrAlreadyEnded) {
		t.Fatalf("second End = %v, want ErrAlreadyEnded", err)
	}
	if got := b.Reason(); got != battle.EndStopped {
		t.Fatalf("reason = %v, first writer must win", got)
	}
}

func TestBattle_RunRequiresArm(t *testing.T) {
	b := battle.New(battle.Params{
		PlayerID: "p1",
		Player:   strongPlayer(),
		Monster:  fodderMonster(),
		Supplier: &stubSupplier{monster: fodderMonster()},
		Deps: battle.Deps{
			Notifier: &eventRecorder{},
		},
	})
	if err := b.Run(context.Background()); !errors.Is(err, battle.ErrNotReady) {
		t.Fatalf("Run without Arm = %v, want ErrNotReady", err)
	}
}
