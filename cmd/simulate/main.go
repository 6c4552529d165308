// Command simulate runs the offline catch-up simulation for a batch of
// synthetic players and prints the aggregated reports. It doubles as a
// balancing tool: sweep the elapsed window and nerf factors to see what
// an absence is worth.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"emberfall/domain"
	"emberfall/encounter"
	"emberfall/internal/config"
	"emberfall/offline"
	"emberfall/state/memory"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	players := flag.Int("players", 4, "number of synthetic players")
	elapsed := flag.Duration("elapsed", 2*time.Hour, "absence to simulate per player")
	dungeon := flag.Bool("dungeon", false, "simulate the dungeon instead of the open area")
	seed := flag.Int64("seed", 1, "rng seed base, player i uses seed+i")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	simCfg := offline.Config{
		MaxElapsed: cfg.OfflineCap,
		StatNerf:   cfg.OfflineStatNerf,
		RewardNerf: cfg.OfflineRewardNerf,
		DropNerf:   cfg.OfflineDropNerf,
	}

	catalog := seedCatalog()
	leaderboard := memory.NewLeaderboard()
	runs := memory.NewRunStore()

	reports := make([]domain.OfflineReport, *players)
	eg, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < *players; i++ {
		i := i
		eg.Go(func() error {
			playerID := fmt.Sprintf("player-%d", i+1)
			rng := rand.New(rand.NewSource(*seed + int64(i)))

			var sup encounter.Supplier
			if *dungeon {
				area, err := catalog.Dungeon(ctx, "sunken-crypt")
				if err != nil {
					return err
				}
				sup = encounter.NewDungeonSupplier(area, catalog, runs)
			} else {
				area, err := catalog.Domain(ctx, "verdant-plains")
				if err != nil {
					return err
				}
				sup = encounter.NewDomainSupplier(area, catalog, rng)
			}

			sim := offline.New(sup, rng, leaderboard, simCfg)
			report, err := sim.CatchUp(ctx, playerID, seedSnapshot(), *elapsed)
			if err != nil {
				return fmt.Errorf("%s: %w", playerID, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	for i, r := range reports {
		printReport(fmt.Sprintf("player-%d", i+1), r)
	}
	if n := len(leaderboard.Runs()); n > 0 {
		fmt.Printf("dungeon runs submitted: %d\n", n)
	}
}

func printReport(playerID string, r domain.OfflineReport) {
	fmt.Printf("%s simulated %s: exp=%d gold=%d token=%d died=%v\n",
		playerID, r.Elapsed, r.Experience, r.Gold, r.Token, r.Died)
	for _, id := range sortedKeys(r.Kills) {
		fmt.Printf("  killed %s x%d\n", id, r.Kills[id])
	}
	for _, id := range sortedKeys(r.Drops) {
		fmt.Printf("  dropped %s x%d\n", id, r.Drops[id])
	}
	if r.Resume != nil {
		fmt.Printf("  resume hp=%d/%d\n", r.Resume.HP, r.Resume.MaxHP)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func seedSnapshot() domain.CombatantState {
	return domain.CombatantState{
		Level: 10, HP: 150, MaxHP: 150,
		AttackType: domain.AttackMelee, AttackSpeed: 100,
		Accuracy: 90, Evasion: 70,
		MaxDamageMelee: 20, MaxDamageRanged: 14, MaxDamageMagic: 10,
		CritChance: 0.1, CritMultiplier: 1.5,
		PhysicalReduction: 300, MagicReduction: 150,
		TriangleMelee: 1, ElementWater: 25,
		RegenInterval: 5 * time.Second, RegenAmount: 2,
	}
}

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
				TriangleMelee: 1,
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
				TriangleMelee: 1,
				RegenInterval: 8 * time.Second, RegenAmount: 2,
			},
			Experience: 35, Gold: 14,
			Drops: []domain.Drop{
				{RefID: "wolf-pelt", Kind: domain.DropItem, Qty: 1, Probability: 0.25},
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
