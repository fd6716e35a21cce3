package dbtools

import (
	"context"
	"fmt"
)

// TableInfo is one entry of list_tables.
type TableInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Schema  string `json:"schema,omitempty"`
	Catalog string `json:"catalog,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

// ColumnInfo is one entry of get_table_schema.
type ColumnInfo struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Size          int    `json:"size"`
	Nullable      bool   `json:"nullable"`
	DefaultValue  any    `json:"defaultValue"`
	Precision     int    `json:"precision"`
	Scale         int    `json:"scale"`
	AutoIncrement bool   `json:"autoIncrement"`
	IsPrimaryKey  bool   `json:"isPrimaryKey"`
}

// ListTables enumerates user tables for connID, dispatching the
// catalog query by backend dialect.
func (m *Manager) ListTables(ctx context.Context, connID string) ([]TableInfo, error) {
	c, err := m.get(connID)
	if err != nil {
		m.recordError()
		return nil, err
	}

	var query string
	switch c.dbType {
	case "sqlite":
		query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'"
	case "mysql":
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'"
	case "postgresql":
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_type = 'BASE TABLE'"
	default:
		query = "SELECT name FROM sqlite_master WHERE type = 'table'"
	}

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		m.recordError()
		return nil, queryFailure(c.dbType, connID, err)
	}
	defer rows.Close()

	var out []TableInfo
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			m.recordError()
			return nil, queryFailure(c.dbType, connID, err)
		}
		out = append(out, TableInfo{Name: name, Type: "TABLE"})
	}
	if err := rows.Err(); err != nil {
		m.recordError()
		return nil, queryFailure(c.dbType, connID, err)
	}

	m.recordQuery()
	return out, nil
}

// GetTableSchema enumerates columns for table, computing the primary
// key flags by intersecting the column list with the backend's
// reported primary-key set.
func (m *Manager) GetTableSchema(ctx context.Context, connID, table string) ([]ColumnInfo, error) {
	c, err := m.get(connID)
	if err != nil {
		m.recordError()
		return nil, err
	}

	var cols []ColumnInfo
	switch c.dbType {
	case "sqlite":
		cols, err = sqliteColumns(ctx, c.db, table)
	case "mysql":
		cols, err = informationSchemaColumns(ctx, c.db, c.dbType, table, "DATABASE()")
	case "postgresql":
		cols, err = informationSchemaColumns(ctx, c.db, c.dbType, table, "'public'")
	default:
		cols, err = sqliteColumns(ctx, c.db, table)
	}
	if err != nil {
		m.recordError()
		return nil, queryFailure(c.dbType, connID, err)
	}

	m.recordQuery()
	return cols, nil
}

func sqliteColumns(ctx context.Context, db queryer, table string) ([]ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ColumnInfo
	for rows.Next() {
		var cid int
		var name, ctype string
		var notNull, pk int
		var dflt any
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		out = append(out, ColumnInfo{
			Name:         name,
			Type:         ctype,
			Nullable:     notNull == 0,
			DefaultValue: dflt,
			IsPrimaryKey: pk > 0,
		})
	}
	return out, rows.Err()
}

func informationSchemaColumns(ctx context.Context, db queryer, dbType, table, schemaExpr string) ([]ColumnInfo, error) {
	query := fmt.Sprintf(`
		SELECT column_name, data_type, is_nullable, column_default,
		       COALESCE(character_maximum_length, 0),
		       COALESCE(numeric_precision, 0),
		       COALESCE(numeric_scale, 0)
		FROM information_schema.columns
		WHERE table_name = ? AND table_schema = %s
		ORDER BY ordinal_position`, schemaExpr)
	query = rebindPlaceholders(dbType, query)

	rows, err := db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pks, err := primaryKeyColumns(ctx, db, dbType, table, schemaExpr)
	if err != nil {
		return nil, err
	}

	var out []ColumnInfo
	for rows.Next() {
		var name, dtype, nullable string
		var dflt any
		var size, precision, scale int
		if err := rows.Scan(&name, &dtype, &nullable, &dflt, &size, &precision, &scale); err != nil {
			return nil, err
		}
		out = append(out, ColumnInfo{
			Name:         name,
			Type:         dtype,
			Size:         size,
			Nullable:     nullable == "YES",
			DefaultValue: dflt,
			Precision:    precision,
			Scale:        scale,
			IsPrimaryKey: pks[name],
		})
	}
	return out, rows.Err()
}

func primaryKeyColumns(ctx context.Context, db queryer, dbType, table, schemaExpr string) (map[string]bool, error) {
	query := fmt.Sprintf(`
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_name = ? AND tc.table_schema = %s`, schemaExpr)
	query = rebindPlaceholders(dbType, query)

	rows, err := db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}
