package dbtools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/revittco/mcptoolkit/internal/kernel"
	"github.com/revittco/mcptoolkit/internal/modules"
)

// Module builds the database tool family as a lifecycle-managed module
// bound to a freshly created Connection Manager. Callers hold on to the
// returned *Manager to wire it into the startup orchestrator's shutdown
// hook (CloseAll).
func Module() (*modules.Module, *Manager) {
	mgr := NewManager()

	m := &modules.Module{
		Descriptor: modules.Descriptor{
			Name:        "database",
			Version:     "1.0.0",
			Description: "Connection pooling, parameterised queries, transactions, and schema introspection over SQLite, MySQL, and PostgreSQL.",
		},
		Tools: func() ([]*kernel.Tool, error) {
			return buildTools(mgr)
		},
	}
	return m, mgr
}

func buildTools(mgr *Manager) ([]*kernel.Tool, error) {
	defs := []struct {
		name, desc string
		schema     json.RawMessage
		handler    kernel.Handler
	}{
		{"connect_database", "Open and validate a pooled connection to a SQLite, MySQL, or PostgreSQL database.", connectDatabaseSchema, handleConnect(mgr)},
		{"disconnect_database", "Close and remove a previously opened database connection.", disconnectDatabaseSchema, handleDisconnect(mgr)},
		{"execute_query", "Execute a parameterised SQL query or statement against an open connection.", executeQuerySchema, handleExecuteQuery(mgr)},
		{"execute_transaction", "Execute an ordered sequence of statements as a single transaction, rolling back on any failure.", executeTransactionSchema, handleExecuteTransaction(mgr)},
		{"list_tables", "List the tables visible on an open connection.", listTablesSchema, handleListTables(mgr)},
		{"get_table_schema", "Describe the columns of a table on an open connection.", getTableSchemaSchema, handleGetTableSchema(mgr)},
		{"get_database_metrics", "Report process-lifetime query counters and per-connection pool statistics.", getDatabaseMetricsSchema, handleMetrics(mgr)},
		{"insert_data", "Insert one row built from a column-to-value map.", insertDataSchema, handleInsertData(mgr)},
		{"update_data", "Update rows matching an optional WHERE clause with a column-to-value map.", updateDataSchema, handleUpdateData(mgr)},
		{"delete_data", "Delete rows matching an optional WHERE clause.", deleteDataSchema, handleDeleteData(mgr)},
		{"create_table", "Create a table from structured column definitions.", createTableSchema, handleCreateTable(mgr)},
		{"drop_table", "Drop a table.", dropTableSchema, handleDropTable(mgr)},
		{"alter_table", "Add or drop a single column on an existing table.", alterTableSchema, handleAlterTable(mgr)},
	}

	tools := make([]*kernel.Tool, 0, len(defs))
	for _, d := range defs {
		t, err := kernel.NewTool(d.name, d.desc, d.schema, d.handler)
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", d.name, err)
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func handleConnect(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string         `json:"connectionId"`
			Config       DatabaseConfig `json:"config"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		if err := mgr.Connect(ctx, req.ConnectionID, req.Config); err != nil {
			return kernel.Envelope{}, err
		}
		return kernel.Text(fmt.Sprintf("Connected: %s", req.ConnectionID)), nil
	}
}

func handleDisconnect(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string `json:"connectionId"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		found, err := mgr.Disconnect(req.ConnectionID)
		if err != nil {
			return kernel.Envelope{}, err
		}
		if !found {
			slog.Info("disconnect: no such connection", "connectionId", req.ConnectionID)
			return kernel.Text(fmt.Sprintf("No such connection: %s", req.ConnectionID)), nil
		}
		return kernel.Text(fmt.Sprintf("Disconnected: %s", req.ConnectionID)), nil
	}
}

func handleExecuteQuery(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string `json:"connectionId"`
			Query        string `json:"query"`
			Params       []any  `json:"params"`
			Limit        int    `json:"limit"`
		}
		req.Limit = 1000
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		result, err := mgr.ExecuteQuery(ctx, req.ConnectionID, req.Query, req.Params, req.Limit)
		if err != nil {
			return kernel.Envelope{}, err
		}
		return jsonEnvelope(result)
	}
}

func handleExecuteTransaction(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string        `json:"connectionId"`
			Queries      []TxStatement `json:"queries"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		results, err := mgr.ExecuteTransaction(ctx, req.ConnectionID, req.Queries)
		if err != nil {
			return kernel.Envelope{}, err
		}
		return jsonEnvelope(results)
	}
}

func handleListTables(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string `json:"connectionId"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		tables, err := mgr.ListTables(ctx, req.ConnectionID)
		if err != nil {
			return kernel.Envelope{}, err
		}
		return jsonEnvelope(tables)
	}
}

func handleGetTableSchema(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string `json:"connectionId"`
			Table        string `json:"table"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		cols, err := mgr.GetTableSchema(ctx, req.ConnectionID, req.Table)
		if err != nil {
			return kernel.Envelope{}, err
		}
		return jsonEnvelope(cols)
	}
}

func handleMetrics(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		return jsonEnvelope(mgr.Metrics())
	}
}

func handleInsertData(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string         `json:"connectionId"`
			Table        string         `json:"table"`
			Data         map[string]any `json:"data"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		result, err := mgr.InsertData(ctx, req.ConnectionID, req.Table, req.Data)
		if err != nil {
			return kernel.Envelope{}, err
		}
		return jsonEnvelope(result)
	}
}

func handleUpdateData(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string         `json:"connectionId"`
			Table        string         `json:"table"`
			Data         map[string]any `json:"data"`
			Where        string         `json:"where"`
			WhereParams  []any          `json:"whereParams"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		result, err := mgr.UpdateData(ctx, req.ConnectionID, req.Table, req.Data, req.Where, req.WhereParams)
		if err != nil {
			return kernel.Envelope{}, err
		}
		return jsonEnvelope(result)
	}
}

func handleDeleteData(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string `json:"connectionId"`
			Table        string `json:"table"`
			Where        string `json:"where"`
			WhereParams  []any  `json:"whereParams"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		result, err := mgr.DeleteData(ctx, req.ConnectionID, req.Table, req.Where, req.WhereParams)
		if err != nil {
			return kernel.Envelope{}, err
		}
		return jsonEnvelope(result)
	}
}

func handleCreateTable(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string      `json:"connectionId"`
			Table        string      `json:"table"`
			Columns      []ColumnDef `json:"columns"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		if err := mgr.CreateTable(ctx, req.ConnectionID, req.Table, req.Columns); err != nil {
			return kernel.Envelope{}, err
		}
		return kernel.Text(fmt.Sprintf("Table created: %s", req.Table)), nil
	}
}

func handleDropTable(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID string `json:"connectionId"`
			Table        string `json:"table"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		if err := mgr.DropTable(ctx, req.ConnectionID, req.Table); err != nil {
			return kernel.Envelope{}, err
		}
		return kernel.Text(fmt.Sprintf("Table dropped: %s", req.Table)), nil
	}
}

func handleAlterTable(mgr *Manager) kernel.Handler {
	return func(ctx context.Context, args json.RawMessage) (kernel.Envelope, error) {
		var req struct {
			ConnectionID     string     `json:"connectionId"`
			Table            string     `json:"table"`
			Action           string     `json:"action"`
			ColumnDefinition *ColumnDef `json:"columnDefinition"`
			ColumnName       string     `json:"columnName"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return kernel.Envelope{}, kernel.Domainf("invalid arguments: %s", err.Error())
		}
		if err := mgr.AlterTable(ctx, req.ConnectionID, req.Table, req.Action, req.ColumnDefinition, req.ColumnName); err != nil {
			return kernel.Envelope{}, err
		}
		return kernel.Text(fmt.Sprintf("Table altered: %s", req.Table)), nil
	}
}

func jsonEnvelope(v any) (kernel.Envelope, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return kernel.Envelope{}, fmt.Errorf("marshal result: %w", err)
	}
	return kernel.Text(string(data)), nil
}
