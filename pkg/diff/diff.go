// Package diff renders a readable struct diff for test failures.
package diff

import (
	"strings"
	"testing"

	"github.com/k0kubun/pp/v3"
	"github.com/kylelemons/godebug/diff"
)

// DiffExportedOnly pretty-prints both values (exported fields only) and
// diffs them line by line. Empty string means equal.
func DiffExportedOnly[T any](want T, got T) string {
	printer := pp.New()
	printer.SetExportedOnly(true)
	printer.SetColoringEnabled(false)
	d := diff.Diff(printer.Sprint(got), printer.Sprint(want))
	if d == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nto convert ACTUAL to EXPECTED:\n\n")
	sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(d, "\n-", "\n[remove] "), "\n+", "\n[add] "))
	return sb.String()
}

// RequireKnownValueEqual fails the test when the two values differ on their
// exported fields.
func RequireKnownValueEqual[T any](t testing.TB, want T, got T) {
	t.Helper()
	if d := DiffExportedOnly(want, got); d != "" {
		t.Fatalf("unexpected value%s", d)
	}
}
