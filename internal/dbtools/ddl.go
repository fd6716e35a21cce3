package dbtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/revittco/mcptoolkit/internal/kernel"
)

// ColumnDef is one column of a create_table/alter_table request.
type ColumnDef struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PrimaryKey   bool   `json:"primaryKey,omitempty"`
	NotNull      bool   `json:"notNull,omitempty"`
	DefaultValue any    `json:"defaultValue,omitempty"`
}

func (c ColumnDef) render() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString(" ")
	b.WriteString(c.Type)
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.DefaultValue != nil {
		fmt.Fprintf(&b, " DEFAULT %s", sqlLiteral(c.DefaultValue))
	}
	return b.String()
}

func sqlLiteral(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(t, "'", "''") + "'"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CreateTable builds and executes a CREATE TABLE statement from
// structured column definitions.
func (m *Manager) CreateTable(ctx context.Context, connID, table string, columns []ColumnDef) error {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = c.render()
	}
	query := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
	_, err := m.ExecuteQuery(ctx, connID, query, nil, 1)
	return err
}

// DropTable builds and executes a DROP TABLE statement.
func (m *Manager) DropTable(ctx context.Context, connID, table string) error {
	query := fmt.Sprintf("DROP TABLE %s", table)
	_, err := m.ExecuteQuery(ctx, connID, query, nil, 1)
	return err
}

// AlterTable adds or drops a single column. action must be
// "add_column" or "drop_column"; columnDefinition is required for
// add_column, columnName for drop_column.
func (m *Manager) AlterTable(ctx context.Context, connID, table, action string, columnDefinition *ColumnDef, columnName string) error {
	var query string
	switch action {
	case "add_column":
		if columnDefinition == nil {
			return kernel.Domainf("alter_table add_column requires columnDefinition")
		}
		query = fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, columnDefinition.render())
	case "drop_column":
		if columnName == "" {
			return kernel.Domainf("alter_table drop_column requires columnName")
		}
		query = fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", table, columnName)
	default:
		return kernel.Domainf("invalid alter_table action: %s", action)
	}
	_, err := m.ExecuteQuery(ctx, connID, query, nil, 1)
	return err
}

// InsertData builds and executes a parameterised INSERT from a
// column->value map. Fails before execution if data is empty.
func (m *Manager) InsertData(ctx context.Context, connID, table string, data map[string]any) (QueryResult, error) {
	if len(data) == 0 {
		return QueryResult{}, kernel.Domainf("insert_data requires a non-empty data map")
	}

	cols := make([]string, 0, len(data))
	placeholders := make([]string, 0, len(data))
	params := make([]any, 0, len(data))
	for col, val := range data {
		cols = append(cols, col)
		placeholders = append(placeholders, "?")
		params = append(params, val)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return m.ExecuteQuery(ctx, connID, query, params, 1)
}

// UpdateData builds and executes a parameterised UPDATE from a
// column->value map plus an optional WHERE clause and its own params.
// Fails before execution if data is empty.
func (m *Manager) UpdateData(ctx context.Context, connID, table string, data map[string]any, where string, whereParams []any) (QueryResult, error) {
	if len(data) == 0 {
		return QueryResult{}, kernel.Domainf("update_data requires a non-empty data map")
	}

	sets := make([]string, 0, len(data))
	params := make([]any, 0, len(data)+len(whereParams))
	for col, val := range data {
		sets = append(sets, col+" = ?")
		params = append(params, val)
	}
	params = append(params, whereParams...)

	query := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(sets, ", "))
	if where != "" {
		query += " WHERE " + where
	}
	return m.ExecuteQuery(ctx, connID, query, params, 1)
}

// DeleteData builds and executes a parameterised DELETE with an
// optional WHERE clause and its own params.
func (m *Manager) DeleteData(ctx context.Context, connID, table, where string, whereParams []any) (QueryResult, error) {
	query := fmt.Sprintf("DELETE FROM %s", table)
	if where != "" {
		query += " WHERE " + where
	}
	return m.ExecuteQuery(ctx, connID, query, whereParams, 1)
}
