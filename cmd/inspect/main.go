package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/albarami/ImpactOS-sub000/internal/assumption"
	"github.com/albarami/ImpactOS-sub000/internal/library"
	"github.com/albarami/ImpactOS-sub000/internal/mapping"
	"github.com/albarami/ImpactOS-sub000/internal/pattern"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to flywheel.db")
	domain := flag.String("domain", "mapping", "knowledge domain: mapping | assumption | patterns")
	last := flag.Int("last", 20, "show N most recent versions")
	version := flag.String("version", "", "show single version detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/flywheel.db [--domain mapping|assumption|patterns] [--last N] [--version id] [--json]")
		os.Exit(2)
	}

	var err error
	switch *domain {
	case "mapping":
		err = inspectMapping(*dbPath, *last, *version, *jsonOut)
	case "assumption":
		err = inspectAssumption(*dbPath, *last, *version, *jsonOut)
	case "patterns":
		err = inspectPatterns(*dbPath, *jsonOut)
	default:
		fmt.Fprintf(os.Stderr, "unknown domain %q\n", *domain)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region library-modes

type versionRow struct {
	VersionID   string   `json:"version_id"`
	Number      int      `json:"version_number"`
	PublishedAt string   `json:"published_at"`
	PublishedBy string   `json:"published_by"`
	Count       int      `json:"count"`
	Active      bool     `json:"active"`
	ChangeLog   []string `json:"changes_from_parent,omitempty"`
}

func inspectMapping(dbPath string, last int, versionID string, jsonOut bool) error {
	store, err := library.OpenSQLite(dbPath, "mapping", mapping.DecodeVersion)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if versionID != "" {
		v, err := store.Get(versionID)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("version %s not found", versionID)
		}
		return printVersionDetail(mappingRow(*v, false), jsonOut)
	}

	versions, err := store.List()
	if err != nil {
		return err
	}
	active, err := store.Active()
	if err != nil {
		return err
	}
	activeID := ""
	if active != nil {
		activeID = active.ID()
	}

	rows := make([]versionRow, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, mappingRow(v, v.ID() == activeID))
	}
	return printVersionList(tail(rows, last), "Entries", jsonOut)
}

func inspectAssumption(dbPath string, last int, versionID string, jsonOut bool) error {
	store, err := library.OpenSQLite(dbPath, "assumption", assumption.DecodeVersion)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if versionID != "" {
		v, err := store.Get(versionID)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("version %s not found", versionID)
		}
		return printVersionDetail(assumptionRow(*v, false), jsonOut)
	}

	versions, err := store.List()
	if err != nil {
		return err
	}
	active, err := store.Active()
	if err != nil {
		return err
	}
	activeID := ""
	if active != nil {
		activeID = active.ID()
	}

	rows := make([]versionRow, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, assumptionRow(v, v.ID() == activeID))
	}
	return printVersionList(tail(rows, last), "Defaults", jsonOut)
}

func mappingRow(v mapping.Version, active bool) versionRow {
	return versionRow{
		VersionID:   v.ID(),
		Number:      v.Number(),
		PublishedAt: v.PublishedAt().Format("2006-01-02T15:04:05Z"),
		PublishedBy: v.PublishedBy(),
		Count:       v.EntryCount(),
		Active:      active,
		ChangeLog:   v.ChangeLog(),
	}
}

func assumptionRow(v assumption.Version, active bool) versionRow {
	return versionRow{
		VersionID:   v.ID(),
		Number:      v.Number(),
		PublishedAt: v.PublishedAt().Format("2006-01-02T15:04:05Z"),
		PublishedBy: v.PublishedBy(),
		Count:       v.DefaultCount(),
		Active:      active,
		ChangeLog:   v.ChangeLog(),
	}
}

// #endregion library-modes

// #region pattern-mode

type patternRow struct {
	PatternID   string `json:"pattern_id"`
	Name        string `json:"name"`
	ProjectType string `json:"project_type"`
	Engagements int    `json:"engagement_count"`
	Confidence  string `json:"confidence"`
	Sectors     string `json:"sectors"`
}

func inspectPatterns(dbPath string, jsonOut bool) error {
	store, err := pattern.OpenSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	patterns, err := store.List()
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		fmt.Fprintln(os.Stderr, "no patterns found")
		return nil
	}

	rows := make([]patternRow, len(patterns))
	for i, p := range patterns {
		sectors := make([]string, 0, len(p.TypicalSectorShares))
		for code := range p.TypicalSectorShares {
			sectors = append(sectors, code)
		}
		sort.Strings(sectors)
		rows[i] = patternRow{
			PatternID:   p.ID,
			Name:        p.Name,
			ProjectType: p.ProjectType,
			Engagements: p.EngagementCount,
			Confidence:  p.Confidence,
			Sectors:     strings.Join(sectors, ","),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-12s  %-28s  %-16s  %11s  %-8s  %s\n",
		"Pattern", "Name", "Project Type", "Engagements", "Conf", "Sectors")
	for _, r := range rows {
		fmt.Printf("%-12s  %-28s  %-16s  %11d  %-8s  %s\n",
			shortID(r.PatternID), truncate(r.Name, 28), r.ProjectType, r.Engagements, r.Confidence, r.Sectors)
	}
	return nil
}

// #endregion pattern-mode

// #region output

func printVersionList(rows []versionRow, countLabel string, jsonOut bool) error {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no versions found")
		return nil
	}
	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-12s  %4s  %-20s  %-16s  %8s  %s\n",
		"Version", "Num", "Published", "By", countLabel, "Active")
	for _, r := range rows {
		marker := ""
		if r.Active {
			marker = "*"
		}
		fmt.Printf("%-12s  %4d  %-20s  %-16s  %8d  %s\n",
			shortID(r.VersionID), r.Number, r.PublishedAt, r.PublishedBy, r.Count, marker)
	}
	return nil
}

func printVersionDetail(row versionRow, jsonOut bool) error {
	if jsonOut {
		return printJSON(row)
	}
	fmt.Printf("Version:   %s\n", row.VersionID)
	fmt.Printf("Number:    %d\n", row.Number)
	fmt.Printf("Published: %s by %s\n", row.PublishedAt, row.PublishedBy)
	fmt.Printf("Count:     %d\n", row.Count)
	if len(row.ChangeLog) > 0 {
		fmt.Printf("\nChanges from parent:\n")
		for _, c := range row.ChangeLog {
			fmt.Printf("  %s\n", c)
		}
	}
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func tail(rows []versionRow, n int) []versionRow {
	if n > 0 && len(rows) > n {
		return rows[len(rows)-n:]
	}
	return rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-1] + "…"
	}
	return s
}

// #endregion output
