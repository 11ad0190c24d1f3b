package placeholder

import (
	"strings"
	"testing"
)

func TestProtectRestore_RoundTrip(t *testing.T) {
	cases := []string{
		"§eHolds %s items",
		"Produces %1$d RF/t from ${fuel_type}",
		"Plain text with nothing to protect",
		"%s%s back to back",
	}
	for _, src := range cases {
		protected, markers := Protect(src)
		if got := Restore(protected, markers); got != src {
			t.Errorf("round trip of %q = %q", src, got)
		}
	}
}

func TestProtect_RemovesTokens(t *testing.T) {
	protected, markers := Protect("§eHolds %s items from ${source}")
	if len(markers) != 3 {
		t.Fatalf("expected 3 captured tokens, got %d", len(markers))
	}
	for _, bad := range []string{"§e", "%s", "${source}"} {
		if strings.Contains(protected, bad) {
			t.Errorf("expected %q removed from protected text %q", bad, protected)
		}
	}
}

func TestRestore_MarkersSurviveReordering(t *testing.T) {
	// Template variables are captured before format specifiers, so
	// ${bonus} is PH0 and %s is PH1.
	_, markers := Protect("%s gives ${bonus}")

	// Providers may reorder markers to fit target grammar.
	got := Restore("[PH0] даёт [PH1]", markers)
	if got != "${bonus} даёт %s" {
		t.Errorf("unexpected restore result %q", got)
	}
}

func TestRestore_UnknownIndexLeftAlone(t *testing.T) {
	got := Restore("text [PH7] here", []string{"%s"})
	if got != "text [PH7] here" {
		t.Errorf("expected out-of-range marker kept, got %q", got)
	}
}
