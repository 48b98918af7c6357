package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/config"
	pg "github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/db/postgres"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/usecase"
)

func main() {
	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect Postgres
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	catalogUC := usecase.NewCatalogUseCase(pg.NewPostgresPackageRepo(pool))

	// If packages already exist, do nothing
	pkgs, err := catalogUC.List(ctx)
	if err != nil {
		log.Fatalf("list packages: %v", err)
	}
	if len(pkgs) > 0 {
		fmt.Printf("%d packages already present. No changes.\n", len(pkgs))
		for _, p := range pkgs {
			fmt.Printf("  - %s (KShs %d, %d Mbps, %d hours)\n", p.Name, p.PriceKES, p.SpeedMbps, p.DurationHours)
		}
		return
	}

	// Seed the standard hotspot catalog
	seed := []struct {
		Name    string
		Price   int64
		Speed   int
		Hours   int
		Desc    string
		Popular bool
	}{
		{"Basic Starter", 20, 10, 8, "Perfect for browsing and social media", false},
		{"Standard", 35, 15, 6, "Great for streaming and downloads", false},
		{"Premium", 50, 25, 12, "High-speed for heavy usage", true},
		{"Ultra Fast", 80, 35, 24, "Maximum speed all day", false},
		{"Business", 120, 50, 48, "Two full days of top-tier speed", false},
		{"Student Special", 15, 8, 4, "Budget option for quick tasks", false},
		{"Night Owl", 30, 20, 10, "Evening and overnight browsing", false},
	}

	for _, s := range seed {
		p, err := catalogUC.Create(ctx, s.Name, s.Price, s.Speed, s.Hours, s.Desc, s.Popular)
		if err != nil {
			log.Fatalf("create package %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, KShs %d, %d Mbps, %d hours)\n", p.Name, p.ID, p.PriceKES, p.SpeedMbps, p.DurationHours)
	}

	fmt.Println("✅ Seeding complete.")
}
