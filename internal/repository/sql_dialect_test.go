package repository

import (
	"testing"
)

func TestBuildLikeConditionByDialect(t *testing.T) {
	cases := []struct {
		dialect string
		want    string
	}{
		{dialect: "sqlite", want: "name LIKE ? OR category LIKE ?"},
		{dialect: "postgres", want: "name ILIKE ? OR category ILIKE ?"},
	}
	for _, tc := range cases {
		got, count := buildLikeConditionByDialect(tc.dialect, []string{"name", " ", "category"})
		if got != tc.want {
			t.Fatalf("%s: want %q got %q", tc.dialect, tc.want, got)
		}
		if count != 2 {
			t.Fatalf("%s: arg count want 2 got %d", tc.dialect, count)
		}
	}
}

func TestBuildLikeConditionNilDBDefaultsToSQLite(t *testing.T) {
	got, _ := buildLikeCondition(nil, []string{"slug"})
	if got != "slug LIKE ?" {
		t.Fatalf("unexpected condition: %s", got)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%ring%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%ring%" {
			t.Fatalf("args[%d] want %%ring%% got %v", idx, arg)
		}
	}
}
