package diag

import (
	"testing"
)

func TestSeverityPriorityOrder(t *testing.T) {
	if SevBreaking.Priority() != 0 {
		t.Fatalf("breaking priority = %d, want 0", SevBreaking.Priority())
	}
	if SevRuntime.Priority() != 1 {
		t.Fatalf("runtime priority = %d, want 1", SevRuntime.Priority())
	}
	if SevFormatting.Priority() != 2 {
		t.Fatalf("formatting priority = %d, want 2", SevFormatting.Priority())
	}
}

func TestParseSeverityRoundTrip(t *testing.T) {
	for _, sev := range []Severity{SevBreaking, SevRuntime, SevFormatting} {
		got, ok := ParseSeverity(sev.String())
		if !ok || got != sev {
			t.Fatalf("ParseSeverity(%q) = %v, %v", sev.String(), got, ok)
		}
	}
	if _, ok := ParseSeverity("fatal"); ok {
		t.Fatalf("ParseSeverity accepted unknown keyword")
	}
}

func TestSortedLocationsJointOrder(t *testing.T) {
	d := New(SevBreaking, CodeMultipleDefs, NameMultipleDefs, "x defined twice").
		WithLocation(10, 5).
		WithLocation(2, 9).
		WithLocation(2, 1)

	locs := d.SortedLocations()
	want := []Location{{2, 1}, {2, 9}, {10, 5}}
	if len(locs) != len(want) {
		t.Fatalf("got %d locations, want %d", len(locs), len(want))
	}
	for i := range want {
		if locs[i] != want[i] {
			t.Fatalf("locs[%d] = %v, want %v", i, locs[i], want[i])
		}
	}
	// original order untouched
	if d.Lines[0] != 10 || d.Cols[0] != 5 {
		t.Fatalf("SortedLocations mutated the diagnostic: %v %v", d.Lines, d.Cols)
	}
}

func TestSortStableKeepsInsertionOrderWithinSeverity(t *testing.T) {
	ds := []Diagnostic{
		New(SevFormatting, CodeGeneralFormatting, NameGeneralFormatting, "f1"),
		New(SevBreaking, CodeMultipleDefs, NameMultipleDefs, "b1"),
		New(SevFormatting, CodeGeneralFormatting, NameGeneralFormatting, "f2"),
		New(SevBreaking, CodeCycleDependencies, NameCycleDependencies, "b2"),
		New(SevRuntime, CodeParseStdout, NameParseStdout, "r1"),
	}
	SortStable(ds)

	wantMsgs := []string{"b1", "b2", "r1", "f1", "f2"}
	for i, want := range wantMsgs {
		if ds[i].Message != want {
			t.Fatalf("ds[%d].Message = %q, want %q", i, ds[i].Message, want)
		}
	}
}

func TestFixableString(t *testing.T) {
	cases := []struct {
		f    Fixable
		want string
	}{
		{FixableNo, "false"},
		{FixableYes, "true"},
		{FixableUnsafe, "unsafe"},
	}
	for _, tc := range cases {
		if got := tc.f.String(); got != tc.want {
			t.Fatalf("Fixable(%d).String() = %q, want %q", tc.f, got, tc.want)
		}
	}
}
