package assumption

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestSeedDefaultsShape(t *testing.T) {
	seeds := SeedDefaults()
	if len(seeds) != 7 {
		t.Fatalf("expected 7 seed defaults, got %d", len(seeds))
	}

	kinds := map[Kind]int{}
	for _, d := range seeds {
		kinds[d.Kind]++
		if d.ID == "" {
			t.Fatalf("seed %q missing id", d.Name)
		}
		if d.Confidence != "medium" {
			t.Fatalf("seed %q: expected medium confidence, got %q", d.Name, d.Confidence)
		}
	}
	if kinds[KindImportShare] != 3 || kinds[KindJobsCoeff] != 2 || kinds[KindPhasing] != 1 || kinds[KindDeflator] != 1 {
		t.Fatalf("unexpected kind distribution: %v", kinds)
	}
}

func TestSeedNumericRangesBracketValues(t *testing.T) {
	for _, d := range SeedDefaults() {
		if d.ValueType != ValueNumeric {
			continue
		}
		if d.NumericValue == nil || d.NumericRange == nil {
			t.Fatalf("numeric seed %q missing value or range", d.Name)
		}
		v, r := *d.NumericValue, *d.NumericRange
		if v < r[0] || v > r[1] {
			t.Fatalf("seed %q: value %f outside range [%f, %f]", d.Name, v, r[0], r[1])
		}
	}
}

func TestSeedCategoricalPhasing(t *testing.T) {
	var phasing *Default
	for _, d := range SeedDefaults() {
		if d.Kind == KindPhasing {
			phasing = &d
			break
		}
	}
	if phasing == nil {
		t.Fatal("expected a phasing seed")
	}
	if phasing.ValueType != ValueCategorical {
		t.Fatalf("expected categorical phasing, got %s", phasing.ValueType)
	}
	if phasing.TextValue != "even" {
		t.Fatalf("expected default \"even\", got %q", phasing.TextValue)
	}
	want := []string{"front", "even", "back"}
	if !reflect.DeepEqual(phasing.AllowedValues, want) {
		t.Fatalf("expected allowed values %v, got %v", want, phasing.AllowedValues)
	}
	if phasing.SectorCode != "" {
		t.Fatalf("expected economy-wide phasing, got sector %q", phasing.SectorCode)
	}
}

func TestVersionJSONRoundTrip(t *testing.T) {
	v := newVersion(Draft{
		ID:       uuid.New().String(),
		Defaults: SeedDefaults(),
		Status:   "DRAFT",
	}, 2, "steward")

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := DecodeVersion(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(v, got) {
		t.Fatalf("round trip mismatch:\n  want %+v\n  got  %+v", v, got)
	}
}

func TestVersionDefaultsAccessorCopies(t *testing.T) {
	v := newVersion(Draft{ID: uuid.New().String(), Defaults: SeedDefaults(), Status: "DRAFT"}, 1, "steward")

	ds := v.Defaults()
	ds[0].Name = "tampered"
	if v.Defaults()[0].Name == "tampered" {
		t.Fatal("version mutated through accessor copy")
	}
}
