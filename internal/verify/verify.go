package verify

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/albarami/ImpactOS-sub000/internal/library"
)

// #region types
// Check is one named audit check with its outcome.
type Check struct {
	Name   string
	Pass   bool
	Detail string
}

// Result is the outcome of auditing one versioned store.
type Result struct {
	Passed bool
	Checks []Check
	Reason string
}
// #endregion types

// #region audit
// AuditStore validates the publication invariants of a store whose versions
// were published through a library manager:
//
//   - numbering: version numbers are exactly 1..N with no gaps or repeats;
//   - active pointer: a non-empty store resolves its active pointer to a
//     saved version;
//   - round trip: every listed version is deep-equal to what Get returns for
//     its id.
//
// An empty store passes trivially.
func AuditStore[V library.Snapshot](store library.Store[V]) (Result, error) {
	versions, err := store.List()
	if err != nil {
		return Result{}, fmt.Errorf("list versions: %w", err)
	}

	var checks []Check
	passed := true
	var failReasons []string

	fail := func(name, detail string) {
		checks = append(checks, Check{Name: name, Pass: false, Detail: detail})
		passed = false
		failReasons = append(failReasons, detail)
	}
	pass := func(name string) {
		checks = append(checks, Check{Name: name, Pass: true})
	}

	// 1. Monotonic numbering 1..N.
	numbers := make([]int, len(versions))
	for i, v := range versions {
		numbers[i] = v.SnapshotNumber()
	}
	sort.Ints(numbers)
	numberingOK := true
	for i, n := range numbers {
		if n != i+1 {
			fail("numbering", fmt.Sprintf("expected version number %d, found %d", i+1, n))
			numberingOK = false
			break
		}
	}
	if numberingOK {
		pass("numbering")
	}

	// 2. Active pointer resolves.
	active, err := store.Active()
	if err != nil {
		return Result{}, fmt.Errorf("get active version: %w", err)
	}
	switch {
	case len(versions) == 0 && active != nil:
		fail("active_pointer", "empty store reports an active version")
	case len(versions) > 0 && active == nil:
		fail("active_pointer", "store has versions but no resolvable active pointer")
	default:
		pass("active_pointer")
	}

	// 3. Round-trip deep equality per version.
	roundTripOK := true
	for _, v := range versions {
		got, err := store.Get(v.SnapshotID())
		if err != nil {
			return Result{}, fmt.Errorf("get version %s: %w", v.SnapshotID(), err)
		}
		if got == nil {
			fail("round_trip", fmt.Sprintf("listed version %s not retrievable", v.SnapshotID()))
			roundTripOK = false
			break
		}
		if !reflect.DeepEqual(*got, v) {
			fail("round_trip", fmt.Sprintf("version %s differs between List and Get", v.SnapshotID()))
			roundTripOK = false
			break
		}
	}
	if roundTripOK {
		pass("round_trip")
	}

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("audit failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("audit failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return Result{Passed: passed, Checks: checks, Reason: reason}, nil
}
// #endregion audit
