package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestCompareMigrations(t *testing.T) {
	for _, tc := range []struct {
		name     string
		wanted   []string
		existing []string
		exp      []string
		expErr   bool
	}{
		{
			name:   "empty database",
			wanted: []string{"a", "b"},
			exp:    []string{"a", "b"},
		},
		{
			name:     "partially applied",
			wanted:   []string{"a", "b", "c"},
			existing: []string{"a"},
			exp:      []string{"b", "c"},
		},
		{
			name:     "up to date",
			wanted:   []string{"a", "b"},
			existing: []string{"a", "b"},
			exp:      []string{},
		},
		{
			name:     "database ahead",
			wanted:   []string{"a"},
			existing: []string{"a", "b"},
			expErr:   true,
		},
		{
			name:     "changed migration",
			wanted:   []string{"a", "x"},
			existing: []string{"a", "b"},
			expErr:   true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			act, err := compareMigrations(tc.wanted, tc.existing)
			if tc.expErr {
				if err == nil {
					t.Errorf("exp error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("exp nil, got %v", err)
			}
			if len(act) != len(tc.exp) {
				t.Fatalf("exp %v, got %v", tc.exp, act)
			}
			for i := range act {
				if act[i] != tc.exp[i] {
					t.Errorf("exp %v, got %v", tc.exp, act)
				}
			}
		})
	}
}

func TestMigrationsApplyCleanly(t *testing.T) {
	missing, err := compareMigrations(pgMigration, nil)
	if err != nil {
		t.Fatalf("exp nil, got %v", err)
	}
	if len(missing) != len(pgMigration) {
		t.Errorf("exp %d migrations, got %d", len(pgMigration), len(missing))
	}
}

func TestNewPostgresUsesContext(t *testing.T) {
	db, err := sql.Open("postgres", "postgres://ytharvest@localhost:1/ytharvest?sslmode=disable")
	if err != nil {
		t.Fatalf("exp nil, got %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewPostgres(ctx, db); !errors.Is(err, context.Canceled) {
		t.Errorf("exp %v, got %v", context.Canceled, err)
	}
	if _, err := OpenPostgres(ctx, PostgresInfo{URL: "postgres://ytharvest@localhost:1/ytharvest?sslmode=disable"}); !errors.Is(err, context.Canceled) {
		t.Errorf("exp %v, got %v", context.Canceled, err)
	}
}
