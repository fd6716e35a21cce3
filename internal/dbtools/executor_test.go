package dbtools

import "testing"

func TestRebindPlaceholdersLeavesSqliteAndMysqlAlone(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ?"
	if got := rebindPlaceholders("sqlite", q); got != q {
		t.Fatalf("sqlite: got %q, want unchanged", got)
	}
	if got := rebindPlaceholders("mysql", q); got != q {
		t.Fatalf("mysql: got %q, want unchanged", got)
	}
}

func TestRebindPlaceholdersNumbersForPostgres(t *testing.T) {
	got := rebindPlaceholders("postgresql", "SELECT * FROM t WHERE a = ? AND b = ?")
	want := "SELECT * FROM t WHERE a = $1 AND b = $2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRebindPlaceholdersNoopWithoutPlaceholders(t *testing.T) {
	q := "SELECT * FROM t"
	if got := rebindPlaceholders("postgresql", q); got != q {
		t.Fatalf("got %q, want unchanged", got)
	}
}
