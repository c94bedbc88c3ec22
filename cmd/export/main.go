package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/albarami/ImpactOS-sub000/internal/assumption"
	"github.com/albarami/ImpactOS-sub000/internal/library"
	"github.com/albarami/ImpactOS-sub000/internal/mapping"
	"github.com/albarami/ImpactOS-sub000/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to flywheel.db")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: export --db path/to/flywheel.db --out path/to/fixture.json")
		os.Exit(2)
	}

	if err := run(*dbPath, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

// run exports the active library state as a replay fixture baseline. The
// fixture carries the active mapping entries and assumption defaults as its
// start state with no cycles; analysts append override cycles and expected
// results by hand to turn it into a regression fixture.
func run(dbPath, outPath string) error {
	mappingStore, err := library.OpenSQLite(dbPath, "mapping", mapping.DecodeVersion)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer mappingStore.Close()

	assumptionStore, err := library.NewSQLiteStoreWithDB(mappingStore.DB(), "assumption", assumption.DecodeVersion)
	if err != nil {
		return fmt.Errorf("open assumption store: %w", err)
	}

	activeMapping, err := mappingStore.Active()
	if err != nil {
		return fmt.Errorf("get active mapping version: %w", err)
	}
	activeAssumption, err := assumptionStore.Active()
	if err != nil {
		return fmt.Errorf("get active assumption version: %w", err)
	}
	if activeMapping == nil && activeAssumption == nil {
		return fmt.Errorf("no active versions in %s", dbPath)
	}

	fixture := replay.Fixture{
		Description: fmt.Sprintf("Baseline export from %s", dbPath),
		Cycles:      []replay.FixtureCycle{},
	}
	if activeMapping != nil {
		fixture.Start.MappingEntries = activeMapping.Entries()
		fixture.Description = fmt.Sprintf("%s (mapping v%d)", fixture.Description, activeMapping.Number())
	}
	if activeAssumption != nil {
		fixture.Start.AssumptionDefaults = activeAssumption.Defaults()
	}

	return writeFixture(fixture, outPath)
}

// #endregion extract

// #region output

func writeFixture(fixture replay.Fixture, outPath string) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote fixture to %s (%d bytes, %d entries, %d defaults)\n",
		outPath, len(data), len(fixture.Start.MappingEntries), len(fixture.Start.AssumptionDefaults))
	return nil
}

// #endregion output
