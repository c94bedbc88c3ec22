package main

import (
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/albarami/ImpactOS-sub000/internal/assumption"
	"github.com/albarami/ImpactOS-sub000/internal/library"
)

// #region config

type config struct {
	DBPath    string `env:"FLYWHEEL_DB" envDefault:"flywheel.db"`
	Publisher string `env:"FLYWHEEL_PUBLISHER" envDefault:"seed-tool"`
}

// #endregion config

// #region main

// seed publishes the benchmark assumption defaults into the flywheel
// database. Re-running adds only the defaults not already present, keyed by
// (kind, sector, name), so the tool is safe to run on a live database.
func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	store, err := library.OpenSQLite(cfg.DBPath, "assumption", assumption.DecodeVersion)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	mgr, err := assumption.ResumeManager(store)
	if err != nil {
		log.Fatalf("resume manager: %v", err)
	}

	active, err := mgr.ActiveVersion()
	if err != nil {
		log.Fatalf("get active version: %v", err)
	}
	baseID := ""
	if active != nil {
		baseID = active.ID()
	}

	draft, err := mgr.BuildDraft(baseID)
	if err != nil {
		log.Fatalf("build draft: %v", err)
	}

	added := appendMissingDefaults(&draft)
	if added == 0 {
		log.Printf("[SEED] %s already seeded (%d defaults)", cfg.DBPath, len(draft.Defaults))
		return
	}

	version, err := mgr.Publish(draft, cfg.Publisher)
	if err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("[SEED] published assumption library v%d with %d defaults (%d added)",
		version.Number(), version.DefaultCount(), added)
}

// #endregion main

// #region dedupe

type defaultKey struct {
	kind   assumption.Kind
	sector string
	name   string
}

// appendMissingDefaults adds each seed default the draft does not already
// carry and returns how many were added.
func appendMissingDefaults(draft *assumption.Draft) int {
	existing := make(map[defaultKey]bool, len(draft.Defaults))
	for _, d := range draft.Defaults {
		existing[defaultKey{d.Kind, d.SectorCode, d.Name}] = true
	}

	added := 0
	for _, d := range assumption.SeedDefaults() {
		k := defaultKey{d.Kind, d.SectorCode, d.Name}
		if existing[k] {
			continue
		}
		draft.Defaults = append(draft.Defaults, d)
		existing[k] = true
		added++
	}
	return added
}

// #endregion dedupe
