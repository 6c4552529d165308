package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emberfall/battle"
	"emberfall/domain"
	"emberfall/internal/config"
	"emberfall/server"
	"emberfall/state/memory"
	"emberfall/utils"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := utils.GetEnvDefault("ADDR", "localhost")
	port := utils.GetEnvDefault("PORT", "9090")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	hub := server.NewHub()
	coord := battle.NewCoordinator(battle.Config{
		TransitionDelay: cfg.TransitionDelay,
		StopGrace:       cfg.StopGrace,
	}, battle.CoordinatorDeps{
		Catalog:     seedCatalog(),
		Combat:      seedPlayers(),
		Rewards:     memory.NewRewardLedger(),
		Notifier:    hub,
		Activity:    memory.NewActivityLog(),
		Missions:    memory.NewMissionTracker(),
		Leaderboard: memory.NewLeaderboard(),
		Runs:        memory.NewRunStore(),
	})

	mux := server.Route(hub)
	mux.HandleFunc("POST /combat/start", startHandler(coord))
	mux.HandleFunc("POST /combat/stop", stopHandler(coord))

	s := server.NewServer(fmt.Sprintf("%s:%s", addr, port), mux)

	go func() {
		if err := s.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()
	slog.InfoContext(ctx, "combat engine listening", "addr", addr+":"+port)

	<-ctx.Done()
	slog.InfoContext(ctx, "shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "graceful shutdown failed", "error", err)
		if err := s.Close(); err != nil {
			slog.ErrorContext(ctx, "forced close failed", "error", err)
		}
	}
	slog.InfoContext(ctx, "server shutdown complete")
}

func startHandler(coord *battle.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("player")
		areaID := r.URL.Query().Get("area")
		if playerID == "" || areaID == "" {
			http.Error(w, "missing player or area", http.StatusBadRequest)
			return
		}
		kind := domain.AreaDomain
		if r.URL.Query().Get("kind") == "dungeon" {
			kind = domain.AreaDungeon
		}
		err := coord.StartCombat(r.Context(), playerID, domain.CombatArea{Kind: kind, ID: areaID})
		switch {
		case err == nil:
			w.WriteHeader(http.StatusAccepted)
		case errors.Is(err, battle.ErrCombatActive):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, battle.ErrLevelTooLow):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			slog.ErrorContext(r.Context(), "start combat failed", "playerId", playerID, "err", err)
			http.Error(w, "start failed", http.StatusInternalServerError)
		}
	}
}

func stopHandler(coord *battle.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("player")
		if playerID == "" {
			http.Error(w, "missing player", http.StatusBadRequest)
			return
		}
		if err := coord.Stop(r.Context(), playerID); err != nil {
			slog.ErrorContext(r.Context(), "stop combat failed", "playerId", playerID, "err", err)
			http.Error(w, "stop failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

// Placeholder seed data; replace with config-driven loaders if needed.
func seedCatalog() *memory.Catalog {
	monsters := []domain.Monster{
		{
			ID: "slime", Name: "Slime", Level: 2,
			Combat: domain.CombatantState{
				Level: 2, HP: 40, MaxHP: 40,
				AttackType: domain.AttackMelee, AttackSpeed: 5,
				Accuracy: 30, Evasion: 10,
				MaxDamageMelee: 6, MaxDamageRanged: 4, MaxDamageMagic: 4,
				CritChance: 0.02, CritMultiplier: 1.5,
				TriangleMelee: 1, TriangleRanged: 0, TriangleMagic: 0,
				RegenInterval: 10 * time.Second, RegenAmount: 1,
			},
			Experience: 12, Gold: 5,
			Drops: []domain.Drop{
				{RefID: "slime-gel", Kind: domain.DropItem, Qty: 1, Probability: 0.4},
			},
		},
		{
			ID: "wolf", Name: "Dire Wolf", Level: 5,
			Combat: domain.CombatantState{
				Level: 5, HP: 80, MaxHP: 80,
				AttackType: domain.AttackMelee, AttackSpeed: 30,
				Accuracy: 55, Evasion: 35,
				MaxDamageMelee: 12, MaxDamageRanged: 8, MaxDamageMagic: 6,
				CritChance: 0.05, CritMultiplier: 1.5,
				TriangleMelee: 1, TriangleRanged: 0, TriangleMagic: 0,
				RegenInterval: 8 * time.Second, RegenAmount: 2,
			},
			Experience: 35, Gold: 14,
			Drops: []domain.Drop{
				{RefID: "wolf-pelt", Kind: domain.DropItem, Qty: 1, Probability: 0.25},
				{RefID: "fang-blade", Kind: domain.DropEquipment, Qty: 1, Probability: 0.02},
			},
		},
		{
			ID: "warden", Name: "Crypt Warden", Level: 12,
			Combat: domain.CombatantState{
				Level: 12, HP: 220, MaxHP: 220,
				AttackType: domain.AttackMagic, AttackSpeed: 120,
				Accuracy: 110, Evasion: 60,
				MaxDamageMelee: 10, MaxDamageRanged: 10, MaxDamageMagic: 28,
				CritChance: 0.08, CritMultiplier: 1.5,
				PhysicalReduction: 200, MagicReduction: 400,
				TriangleMagic: 1, ElementFire: 40,
				RegenInterval: 6 * time.Second, RegenAmount: 4,
			},
			Experience: 140, Gold: 60, Token: 2,
			Drops: []domain.Drop{
				{RefID: "warden-sigil", Kind: domain.DropItem, Qty: 1, Probability: 0.5},
			},
		},
	}
	domains := []domain.DomainArea{
		{
			ID: "verdant-plains", Name: "Verdant Plains", MinLevel: 1, MaxLevel: 10,
			Pool: []domain.SpawnEntry{
				{MonsterID: "slime", Weight: 3},
				{MonsterID: "wolf", Weight: 1},
			},
		},
	}
	dungeons := []domain.DungeonArea{
		{
			ID: "sunken-crypt", Name: "Sunken Crypt", RequiredLevel: 10,
			GrowthFactor: 1.1,
			Sequence:     []string{"wolf", "wolf", "warden"},
		},
	}
	return memory.NewCatalog(monsters, domains, dungeons)
}

func seedPlayers() *memory.CombatStore {
	return memory.NewCombatStore(map[string]domain.CombatantState{
		"player-1": {
			Level: 10, HP: 150, MaxHP: 150,
			AttackType: domain.AttackMelee, AttackSpeed: 100,
			Accuracy: 90, Evasion: 70,
			MaxDamageMelee: 20, MaxDamageRanged: 14, MaxDamageMagic: 10,
			CritChance: 0.1, CritMultiplier: 1.5,
			PhysicalReduction: 300, MagicReduction: 150,
			TriangleMelee: 1, ElementWater: 25,
			RegenInterval: 5 * time.Second, RegenAmount: 2,
		},
	})
}
