package dbtools

import (
	"context"
	"testing"
)

func connectMemory(t *testing.T, mgr *Manager, connID string) {
	t.Helper()
	cfg := DatabaseConfig{Type: "sqlite", File: ":memory:"}
	if err := mgr.Connect(context.Background(), connID, cfg); err != nil {
		t.Fatalf("Connect: %v", err)
	}
}

func TestConnectAndDisconnect(t *testing.T) {
	mgr := NewManager()
	connectMemory(t, mgr, "c1")

	if _, err := mgr.get("c1"); err != nil {
		t.Fatalf("get after connect: %v", err)
	}

	found, err := mgr.Disconnect("c1")
	if err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if !found {
		t.Fatal("expected Disconnect to report found=true")
	}

	if _, err := mgr.get("c1"); err == nil {
		t.Fatal("expected get to fail after disconnect")
	}
}

func TestDisconnectUnknownIsIdempotent(t *testing.T) {
	mgr := NewManager()
	found, err := mgr.Disconnect("nope")
	if err != nil {
		t.Fatalf("Disconnect unknown: %v", err)
	}
	if found {
		t.Fatal("expected found=false for unknown connection")
	}
}

func TestConnectDuplicateIDFails(t *testing.T) {
	mgr := NewManager()
	connectMemory(t, mgr, "c1")

	err := mgr.Connect(context.Background(), "c1", DatabaseConfig{Type: "sqlite", File: ":memory:"})
	if err == nil {
		t.Fatal("expected duplicate connect to fail")
	}
	if mgr.Metrics().ActiveConnections != 1 {
		t.Fatalf("ActiveConnections = %d, want 1", mgr.Metrics().ActiveConnections)
	}
}

func TestExecuteQueryCreateInsertSelect(t *testing.T) {
	mgr := NewManager()
	connectMemory(t, mgr, "c1")
	ctx := context.Background()

	if _, err := mgr.ExecuteQuery(ctx, "c1", "CREATE TABLE t(id INTEGER PRIMARY KEY, name TEXT)", nil, 1000); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := mgr.ExecuteQuery(ctx, "c1", "INSERT INTO t(id, name) VALUES (?, ?)", []any{1, "alice"}, 1000); err != nil {
		t.Fatalf("insert: %v", err)
	}

	result, err := mgr.ExecuteQuery(ctx, "c1", "SELECT * FROM t", nil, 1000)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if result.RowCount != 1 {
		t.Fatalf("RowCount = %d, want 1", result.RowCount)
	}
	if result.Rows[0]["name"] != "alice" {
		t.Fatalf("rows[0].name = %v, want alice", result.Rows[0]["name"])
	}
}

func TestExecuteQueryRespectsLimit(t *testing.T) {
	mgr := NewManager()
	connectMemory(t, mgr, "c1")
	ctx := context.Background()

	mgr.ExecuteQuery(ctx, "c1", "CREATE TABLE t(id INTEGER)", nil, 1) //nolint:errcheck
	for i := 0; i < 5; i++ {
		mgr.ExecuteQuery(ctx, "c1", "INSERT INTO t(id) VALUES (?)", []any{i}, 1) //nolint:errcheck
	}

	result, err := mgr.ExecuteQuery(ctx, "c1", "SELECT * FROM t", nil, 3)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if result.RowCount != 3 {
		t.Fatalf("RowCount = %d, want 3", result.RowCount)
	}
}

func TestExecuteTransactionRollsBackOnFailure(t *testing.T) {
	mgr := NewManager()
	connectMemory(t, mgr, "c1")
	ctx := context.Background()

	if _, err := mgr.ExecuteQuery(ctx, "c1", "CREATE TABLE t(id INTEGER PRIMARY KEY, name TEXT)", nil, 1); err != nil {
		t.Fatalf("create table: %v", err)
	}

	_, err := mgr.ExecuteTransaction(ctx, "c1", []TxStatement{
		{Query: "INSERT INTO t(id, name) VALUES (?, ?)", Params: []any{1, "a"}},
		{Query: "INSERT INTO nonexistent VALUES (?)", Params: []any{"x"}},
	})
	if err == nil {
		t.Fatal("expected transaction to fail")
	}

	result, err := mgr.ExecuteQuery(ctx, "c1", "SELECT COUNT(*) AS c FROM t", nil, 10)
	if err != nil {
		t.Fatalf("count query: %v", err)
	}
	if result.Rows[0]["c"] != int64(0) {
		t.Fatalf("count = %v, want 0 (rollback should have reverted the insert)", result.Rows[0]["c"])
	}
}

func TestInsertDataRejectsEmptyMap(t *testing.T) {
	mgr := NewManager()
	connectMemory(t, mgr, "c1")
	ctx := context.Background()
	mgr.ExecuteQuery(ctx, "c1", "CREATE TABLE t(id INTEGER)", nil, 1) //nolint:errcheck

	if _, err := mgr.InsertData(ctx, "c1", "t", map[string]any{}); err == nil {
		t.Fatal("expected insert_data to fail on empty data map")
	}
}

func TestListTablesAndGetTableSchema(t *testing.T) {
	mgr := NewManager()
	connectMemory(t, mgr, "c1")
	ctx := context.Background()
	mgr.ExecuteQuery(ctx, "c1", "CREATE TABLE t(id INTEGER PRIMARY KEY, name TEXT NOT NULL)", nil, 1) //nolint:errcheck

	tables, err := mgr.ListTables(ctx, "c1")
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	found := false
	for _, tbl := range tables {
		if tbl.Name == "t" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected table t in %+v", tables)
	}

	cols, err := mgr.GetTableSchema(ctx, "c1", "t")
	if err != nil {
		t.Fatalf("GetTableSchema: %v", err)
	}
	if len(cols) != 2 {
		t.Fatalf("len(cols) = %d, want 2", len(cols))
	}
	var idCol *ColumnInfo
	for i := range cols {
		if cols[i].Name == "id" {
			idCol = &cols[i]
		}
	}
	if idCol == nil || !idCol.IsPrimaryKey {
		t.Fatalf("expected id column to be primary key, got %+v", cols)
	}
}

func TestMetricsCountQueriesAndErrors(t *testing.T) {
	mgr := NewManager()
	connectMemory(t, mgr, "c1")
	ctx := context.Background()

	before := mgr.Metrics()
	mgr.ExecuteQuery(ctx, "c1", "CREATE TABLE t(id INTEGER)", nil, 1)   //nolint:errcheck
	mgr.ExecuteQuery(ctx, "c1", "SELECT * FROM nonexistent", nil, 1) //nolint:errcheck
	after := mgr.Metrics()

	if after.TotalQueries <= before.TotalQueries {
		t.Fatal("expected total_queries to increase")
	}
	if after.TotalErrors <= before.TotalErrors {
		t.Fatal("expected total_errors to increase")
	}
}
