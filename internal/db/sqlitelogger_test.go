package db

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// captureHandler keeps every record so tests can assert on level and attrs.
type captureHandler struct {
	mu      sync.Mutex
	records []capturedRecord
}

type capturedRecord struct {
	level slog.Level
	msg   string
	attrs map[string]slog.Value
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	rec := capturedRecord{level: r.Level, msg: r.Message, attrs: make(map[string]slog.Value)}
	r.Attrs(func(a slog.Attr) bool {
		rec.attrs[a.Key] = a.Value
		return true
	})
	h.records = append(h.records, rec)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) sqlRecords() []capturedRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []capturedRecord
	for _, r := range h.records {
		if r.msg == "sql" {
			out = append(out, r)
		}
	}
	return out
}

func (h *captureHandler) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}

func openLogged(t *testing.T, slow time.Duration) (*sql.DB, *captureHandler) {
	t.Helper()
	h := &captureHandler{}
	connector, err := NewLoggingConnector(":memory:", slog.New(h), slow)
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	db := sql.OpenDB(connector)
	// :memory: is per connection
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db, h
}

func findSQL(recs []capturedRecord, op, fragment string) (capturedRecord, bool) {
	for _, r := range recs {
		if r.attrs["op"].String() == op && strings.Contains(r.attrs["sql"].String(), fragment) {
			return r, true
		}
	}
	return capturedRecord{}, false
}

func TestNewLoggingConnector_defaults(t *testing.T) {
	c, err := NewLoggingConnector(":memory:", nil, 0)
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	lc := c.(*loggingConnector)
	if lc.logger == nil {
		t.Error("logger is nil; want slog.Default()")
	}
	if lc.slow != DefaultSlowStatement {
		t.Errorf("slow = %v; want %v", lc.slow, DefaultSlowStatement)
	}
}

func TestLoggingConnector_execAndQueryLogged(t *testing.T) {
	db, h := openLogged(t, time.Hour)

	if _, err := db.Exec(`CREATE TABLE alerts (id TEXT PRIMARY KEY, level TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO alerts (id, level) VALUES (?, ?)`, "a1", "High"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var level string
	if err := db.QueryRow(`SELECT level FROM alerts WHERE id = ?`, "a1").Scan(&level); err != nil {
		t.Fatalf("select: %v", err)
	}
	if level != "High" {
		t.Fatalf("level = %q; want High", level)
	}

	recs := h.sqlRecords()
	if _, ok := findSQL(recs, "exec", "CREATE TABLE alerts"); !ok {
		t.Error("no exec record for CREATE TABLE")
	}
	ins, ok := findSQL(recs, "exec", "INSERT INTO alerts")
	if !ok {
		t.Fatal("no exec record for INSERT")
	}
	if got := ins.attrs["args"].String(); !strings.Contains(got, "a1") || !strings.Contains(got, "High") {
		t.Errorf("insert args = %s; want a1 and High", got)
	}
	if ins.level != slog.LevelDebug {
		t.Errorf("insert level = %v; want debug", ins.level)
	}
	if _, ok := ins.attrs["duration_ms"]; !ok {
		t.Error("insert record has no duration_ms")
	}
	if _, ok := findSQL(recs, "query", "SELECT level FROM alerts"); !ok {
		t.Error("no query record for SELECT")
	}
}

func TestLoggingConnector_multiStatementExecRunsAll(t *testing.T) {
	db, _ := openLogged(t, time.Hour)

	script := `CREATE TABLE a (id INTEGER); CREATE TABLE b (id INTEGER);`
	if _, err := db.Exec(script); err != nil {
		t.Fatalf("exec script: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO b (id) VALUES (1)`); err != nil {
		t.Fatalf("second table missing: %v", err)
	}
}

func TestLoggingConnector_preparedStatementLogged(t *testing.T) {
	db, h := openLogged(t, time.Hour)
	if _, err := db.Exec(`CREATE TABLE t (n INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	h.reset()

	stmt, err := db.Prepare(`INSERT INTO t (n) VALUES (?)`)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	defer func() { _ = stmt.Close() }()
	for i := range 3 {
		if _, err := stmt.Exec(i); err != nil {
			t.Fatalf("exec %d: %v", i, err)
		}
	}

	n := 0
	for _, r := range h.sqlRecords() {
		if r.attrs["op"].String() == "exec" {
			n++
		}
	}
	if n != 3 {
		t.Errorf("exec records = %d; want 3", n)
	}
}

func TestLoggingConnector_errorsLoggedAtWarn(t *testing.T) {
	db, h := openLogged(t, time.Hour)

	if _, err := db.Exec(`INSERT INTO missing (id) VALUES (1)`); err == nil {
		t.Fatal("insert into missing table succeeded")
	}
	rec, ok := findSQL(h.sqlRecords(), "exec", "INSERT INTO missing")
	if !ok {
		t.Fatal("failed statement not logged")
	}
	if rec.level != slog.LevelWarn {
		t.Errorf("level = %v; want warn", rec.level)
	}
	if _, ok := rec.attrs["error"]; !ok {
		t.Error("record has no error attr")
	}
}

func TestLoggingConnector_slowStatementsLoggedAtWarn(t *testing.T) {
	db, h := openLogged(t, time.Nanosecond)

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	rec, ok := findSQL(h.sqlRecords(), "exec", "CREATE TABLE t")
	if !ok {
		t.Fatal("statement not logged")
	}
	if rec.level != slog.LevelWarn || !rec.attrs["slow"].Bool() {
		t.Errorf("level = %v slow = %v; want warn, true", rec.level, rec.attrs["slow"])
	}
}

func TestLoggingConnector_pingAndTx(t *testing.T) {
	db, _ := openLogged(t, time.Hour)
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := tx.Exec(`INSERT INTO t (id) VALUES (1)`); err != nil {
		t.Fatalf("tx insert: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count after rollback = %d; want 0", n)
	}
}

func TestLoggingDriver_openRejected(t *testing.T) {
	if _, err := (&loggingDriver{}).Open("x"); err == nil {
		t.Error("Open succeeded; want error")
	}
}

func TestFormatArg(t *testing.T) {
	ts := time.Date(2024, 7, 1, 12, 0, 0, 0, time.FixedZone("IST", 19800))
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{[]byte("raw"), "raw"},
		{int64(7), "7"},
		{2.5, "2.5"},
		{ts, "2024-07-01T06:30:00Z"},
	}
	for _, tt := range tests {
		if got := formatArg(tt.in); got != tt.want {
			t.Errorf("formatArg(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
