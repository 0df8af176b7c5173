package test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/evanw/csscolor/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%v != %v", observed, expected)
	}
}

func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		stringA, okA := observed.(string)
		stringB, okB := expected.(string)
		if okA && okB {
			t.Fatal(Diff(stringB, stringA, logger.HasColorEscapes()))
		}
		t.Fatalf("%v != %v", observed, expected)
	}
}

// AssertDeepEqual compares structured values such as color tuples. Floats
// within 1e-9 of each other are considered equal.
func AssertDeepEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if diff := cmp.Diff(expected, observed, cmpopts.EquateApprox(0, 1e-9), cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("mismatch (-expected +observed):\n%s", diff)
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:      0,
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}
