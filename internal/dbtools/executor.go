package dbtools

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// QueryResult is the materialised shape of a query, matching the
// envelope payload rendered for execute_query and the per-statement
// entries of a transaction.
type QueryResult struct {
	RowCount     int              `json:"rowCount"`
	Columns      []string         `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	AffectedRows int64            `json:"affectedRows"`
}

// dangerousVerbs trigger a WARN log (not a rejection) when present in
// the upper-cased query text.
var dangerousVerbs = []string{"DROP ", "TRUNCATE ", "ALTER ", "CREATE "}

func warnIfDangerous(connID, query string) {
	upper := strings.ToUpper(query)
	for _, verb := range dangerousVerbs {
		if strings.Contains(upper, verb) {
			slog.Warn("potentially destructive statement", "connectionId", connID, "query", truncateForLog(query))
			return
		}
	}
}

func truncateForLog(q string) string {
	if len(q) <= 100 {
		return q
	}
	return q[:100] + "…"
}

// ExecuteQuery runs one parameterised query against connID and returns
// its materialised result, bounded to limit rows for a result set.
func (m *Manager) ExecuteQuery(ctx context.Context, connID, query string, params []any, limit int) (QueryResult, error) {
	start := time.Now()
	c, err := m.get(connID)
	if err != nil {
		m.recordError()
		return QueryResult{}, err
	}

	warnIfDangerous(connID, query)

	result, err := runStatement(ctx, c.db, c.dbType, query, params, limit)

	m.recordQuery()
	if err != nil {
		m.recordError()
		slog.Error("query failed", "connectionId", connID, "duration_ms", time.Since(start).Milliseconds(),
			"query", truncateForLog(query), "error", err)
		return QueryResult{}, queryFailure(c.dbType, connID, err)
	}

	slog.Debug("query succeeded", "connectionId", connID, "duration_ms", time.Since(start).Milliseconds(),
		"query", truncateForLog(query), "resultCount", result.RowCount)
	return result, nil
}

// queryer abstracts *sql.DB and *sql.Tx for shared execution code.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// rebindPlaceholders rewrites the sqlite/mysql-style "?" placeholders
// callers write into whatever the dialect actually accepts: pgx has no
// "?" rebind like the other two drivers, so every "?" becomes "$1",
// "$2", ... in positional order. sqlite and mysql pass through
// unchanged.
func rebindPlaceholders(dbType, query string) string {
	if dbType != "postgresql" || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func runStatement(ctx context.Context, q queryer, dbType, query string, params []any, limit int) (QueryResult, error) {
	query = rebindPlaceholders(dbType, query)
	if looksLikeSelect(query) {
		rows, err := q.QueryContext(ctx, query, params...)
		if err != nil {
			return QueryResult{}, err
		}
		defer rows.Close()
		return materialize(rows, limit)
	}

	res, err := q.ExecContext(ctx, query, params...)
	if err != nil {
		return QueryResult{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return QueryResult{Columns: []string{}, Rows: []map[string]any{}, AffectedRows: affected}, nil
}

// looksLikeSelect decides whether a statement produces a result set.
// The executor doesn't have driver-level introspection into statement
// kind, so it dispatches on the leading keyword the way the source's
// JDBC-backed executor does via prepared-statement metadata.
func looksLikeSelect(query string) bool {
	trimmed := strings.TrimSpace(query)
	upper := strings.ToUpper(trimmed)
	return strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "PRAGMA") || strings.HasPrefix(upper, "WITH") || strings.HasPrefix(upper, "SHOW")
}

func materialize(rows *sql.Rows, limit int) (QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return QueryResult{}, err
	}

	out := make([]map[string]any, 0, limit)
	for rows.Next() {
		if len(out) >= limit {
			break
		}
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return QueryResult{}, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return QueryResult{}, err
	}

	return QueryResult{
		RowCount:     len(out),
		Columns:      columns,
		Rows:         out,
		AffectedRows: 0,
	}, nil
}

// normalizeValue renders driver-native scalars into their JSON-facing
// form: timestamps as ISO-8601, byte slices as strings, everything else
// unchanged.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case []byte:
		return string(t)
	default:
		return t
	}
}

// TxStatement is one statement of a transaction request.
type TxStatement struct {
	Query  string `json:"query"`
	Params []any  `json:"params,omitempty"`
}

// ExecuteTransaction runs every statement on one connection with
// autocommit disabled, committing only if all statements succeed and
// rolling back otherwise. The original failing cause is preserved in
// the returned error.
func (m *Manager) ExecuteTransaction(ctx context.Context, connID string, stmts []TxStatement) ([]QueryResult, error) {
	c, err := m.get(connID)
	if err != nil {
		m.recordError()
		return nil, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		m.recordError()
		return nil, queryFailure(c.dbType, connID, err)
	}

	results := make([]QueryResult, 0, len(stmts))
	for _, st := range stmts {
		warnIfDangerous(connID, st.Query)
		res, err := runStatement(ctx, tx, c.dbType, st.Query, st.Params, 1000)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			m.recordError()
			return nil, queryFailure(c.dbType, connID, err)
		}
		results = append(results, res)
	}

	if err := tx.Commit(); err != nil {
		m.recordError()
		return nil, queryFailure(c.dbType, connID, err)
	}

	m.recordQuery()
	return results, nil
}
