package repositories

import (
	"testing"

	"github.com/JackLockhart04/course-genius/internal/pkg/nullable"
)

func TestBuildSetSkipsAbsentFields(t *testing.T) {
	set, args := buildSet(
		change{"title", nullable.Field[string]{}},
		change{"weight", nullable.From(40.0)},
		change{"score", nullable.Null[float64]()},
	)

	if set != "weight = $1, score = $2" {
		t.Errorf("set = %q", set)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v, want 2 entries", args)
	}
	if args[0] != 40.0 {
		t.Errorf("args[0] = %v, want 40.0", args[0])
	}
	if args[1] != nil {
		t.Errorf("args[1] = %v, want nil for explicit null", args[1])
	}
}

func TestBuildSetEmpty(t *testing.T) {
	set, args := buildSet(
		change{"title", nullable.Field[string]{}},
		change{"weight", nullable.Field[float64]{}},
	)

	if set != "" {
		t.Errorf("set = %q, want empty", set)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuildSetNumbersPlaceholdersInOrder(t *testing.T) {
	set, _ := buildSet(
		change{"name", nullable.From("Physics")},
		change{"credits", nullable.From(4.0)},
		change{"semester", nullable.From("Fall 2026")},
	)

	want := "name = $1, credits = $2, semester = $3"
	if set != want {
		t.Errorf("set = %q, want %q", set, want)
	}
}
