package dbtools

import "encoding/json"

// Schema fragments shared across tool definitions. connectionIDPattern
// is the wire contract's binding constraint on connection ids.
const (
	connectionIDPattern = `^[A-Za-z0-9_-]+$`
)

func rawSchema(doc string) json.RawMessage {
	return json.RawMessage(doc)
}

var connectDatabaseSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId", "config"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"},
		"config": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"type": {"type": "string", "enum": ["sqlite", "mysql", "postgresql"]},
				"file": {"type": "string"},
				"host": {"type": "string"},
				"port": {"type": "integer"},
				"database": {"type": "string"},
				"username": {"type": "string"},
				"password": {"type": "string"}
			}
		}
	}
}`)

var disconnectDatabaseSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"}
	}
}`)

var executeQuerySchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId", "query"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"},
		"query": {"type": "string", "minLength": 1},
		"params": {"type": "array"},
		"limit": {"type": "integer", "minimum": 1, "maximum": 10000, "default": 1000}
	}
}`)

var executeTransactionSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId", "queries"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"},
		"queries": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["query"],
				"properties": {
					"query": {"type": "string", "minLength": 1},
					"params": {"type": "array"}
				}
			}
		}
	}
}`)

var listTablesSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"}
	}
}`)

var getTableSchemaSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId", "table"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"},
		"table": {"type": "string", "minLength": 1}
	}
}`)

var getDatabaseMetricsSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {}
}`)

var insertDataSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId", "table", "data"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"},
		"table": {"type": "string", "minLength": 1},
		"data": {"type": "object"}
	}
}`)

var updateDataSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId", "table", "data"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"},
		"table": {"type": "string", "minLength": 1},
		"data": {"type": "object"},
		"where": {"type": "string"},
		"whereParams": {"type": "array"}
	}
}`)

var deleteDataSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId", "table"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"},
		"table": {"type": "string", "minLength": 1},
		"where": {"type": "string"},
		"whereParams": {"type": "array"}
	}
}`)

var columnDefSchema = `{
	"type": "object",
	"required": ["name", "type"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"type": {"type": "string", "minLength": 1},
		"primaryKey": {"type": "boolean"},
		"notNull": {"type": "boolean"},
		"defaultValue": {}
	}
}`

var createTableSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId", "table", "columns"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"},
		"table": {"type": "string", "minLength": 1},
		"columns": {"type": "array", "minItems": 1, "items": ` + columnDefSchema + `}
	}
}`)

var dropTableSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId", "table"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"},
		"table": {"type": "string", "minLength": 1}
	}
}`)

var alterTableSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["connectionId", "table", "action"],
	"properties": {
		"connectionId": {"type": "string", "pattern": "` + connectionIDPattern + `"},
		"table": {"type": "string", "minLength": 1},
		"action": {"type": "string", "enum": ["add_column", "drop_column"]},
		"columnDefinition": ` + columnDefSchema + `,
		"columnName": {"type": "string"}
	},
	"oneOf": [
		{
			"properties": {"action": {"const": "add_column"}},
			"required": ["columnDefinition"]
		},
		{
			"properties": {"action": {"const": "drop_column"}},
			"required": ["columnName"]
		}
	]
}`)
