package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/albarami/ImpactOS-sub000/internal/assumption"
	"github.com/albarami/ImpactOS-sub000/internal/learning"
	"github.com/albarami/ImpactOS-sub000/internal/library"
	"github.com/albarami/ImpactOS-sub000/internal/mapping"
	"github.com/albarami/ImpactOS-sub000/internal/pattern"
	"github.com/albarami/ImpactOS-sub000/internal/publication"
	"github.com/albarami/ImpactOS-sub000/internal/workforce"
)

// #region config

type config struct {
	DBPath    string `env:"FLYWHEEL_DB" envDefault:"flywheel.db"`
	Publisher string `env:"FLYWHEEL_PUBLISHER" envDefault:"publish-tool"`
}

// #endregion config

// #region main

// publish runs one publication cycle against the flywheel database:
// load recorded analyst overrides from a JSON file, build and gate the
// drafts, publish whatever changed, and print the cycle summary plus the
// post-cycle health snapshot.
func main() {
	overridesPath := flag.String("overrides", "", "path to JSON file of analyst overrides")
	approved := flag.Bool("approved", false, "mark the cycle as steward approved")
	flag.Parse()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	if err := run(cfg, *overridesPath, *approved); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, overridesPath string, approved bool) error {
	mappingStore, err := library.OpenSQLite(cfg.DBPath, "mapping", mapping.DecodeVersion)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer mappingStore.Close()

	// The assumption and pattern stores share the mapping store's handle;
	// each migrates its own tables.
	assumptionStore, err := library.NewSQLiteStoreWithDB(mappingStore.DB(), "assumption", assumption.DecodeVersion)
	if err != nil {
		return fmt.Errorf("open assumption store: %w", err)
	}
	patternStore, err := pattern.NewSQLiteStoreWithDB(mappingStore.DB())
	if err != nil {
		return fmt.Errorf("open pattern store: %w", err)
	}

	mappingMgr, err := mapping.ResumeManager(mappingStore)
	if err != nil {
		return fmt.Errorf("resume mapping manager: %w", err)
	}
	assumptionMgr, err := assumption.ResumeManager(assumptionStore)
	if err != nil {
		return fmt.Errorf("resume assumption manager: %w", err)
	}
	patterns, err := patternStore.Load()
	if err != nil {
		return fmt.Errorf("load patterns: %w", err)
	}

	loop, err := loadLoop(overridesPath)
	if err != nil {
		return err
	}

	svc := publication.NewService(mappingMgr, assumptionMgr, patterns, workforce.NewBridgeRefinement())
	gate := publication.DefaultQualityGate()

	res, err := svc.PublishCycle(cfg.Publisher, time.Time{}, loop, approved, &gate)
	if err != nil {
		return fmt.Errorf("publish cycle: %w", err)
	}

	fmt.Println(res.Summary)
	if res.NewPatterns > 0 || res.UpdatedPatterns > 0 {
		fmt.Printf("Learning: %d new patterns, %d rescored entries\n", res.NewPatterns, res.UpdatedPatterns)
	}

	health, err := svc.FlywheelHealth()
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	fmt.Printf("Health: mapping v%d | assumptions v%d | %d scenario patterns\n",
		health.MappingVersion, health.AssumptionVersion, health.PatternCount)
	return nil
}

// #endregion main

// #region overrides

// loadLoop reads analyst overrides from a JSON array file into a fresh
// learning loop. An empty path yields a nil loop: the cycle then rebuilds
// drafts without any learning signal.
func loadLoop(path string) (mapping.LearningLoop, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides %s: %w", path, err)
	}
	var overrides []mapping.Override
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}

	loop := learning.NewLoop()
	for _, o := range overrides {
		loop.RecordOverride(o)
	}
	log.Printf("[PUB] loaded %d overrides from %s", loop.TotalOverrides(), path)
	return loop, nil
}

// #endregion overrides
