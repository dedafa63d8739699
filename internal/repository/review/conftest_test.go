package review

import (
	"strings"
	"testing"

	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kailas-cloud/gigmarket/internal/db/postgres"
)

type recorded struct {
	sql  string
	vars []any
}

// recorder captures statements built by a dry-run session.
type recorder struct {
	stmts []recorded
}

func (r *recorder) capture(d *gorm.DB) {
	r.stmts = append(r.stmts, recorded{
		sql:  d.Statement.SQL.String(),
		vars: append([]any(nil), d.Statement.Vars...),
	})
}

func (r *recorder) find(t *testing.T, fragment string) recorded {
	t.Helper()
	for _, s := range r.stmts {
		if strings.Contains(s.sql, fragment) {
			return s
		}
	}
	t.Fatalf("no statement contains %q; got %v", fragment, r.stmts)
	return recorded{}
}

func newDryRunRepo(t *testing.T) (*Repo, *recorder) {
	t.Helper()
	gdb, err := gorm.Open(
		pgdriver.New(pgdriver.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true, SkipDefaultTransaction: true},
	)
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	rec := &recorder{}
	must := func(err error) {
		if err != nil {
			t.Fatalf("register callback: %v", err)
		}
	}
	must(gdb.Callback().Query().After("gorm:query").Register("test:capture_query", rec.capture))
	must(gdb.Callback().Create().After("gorm:create").Register("test:capture_create", rec.capture))
	must(gdb.Callback().Update().After("gorm:update").Register("test:capture_update", rec.capture))
	must(gdb.Callback().Delete().After("gorm:delete").Register("test:capture_delete", rec.capture))

	return New(postgres.NewClientForTest(gdb)), rec
}

func assertContains(t *testing.T, sql string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(sql, f) {
			t.Errorf("sql %q missing %q", sql, f)
		}
	}
}

func hasVar(vars []any, want any) bool {
	for _, v := range vars {
		if v == want {
			return true
		}
	}
	return false
}
