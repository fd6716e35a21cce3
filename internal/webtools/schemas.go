package webtools

import "encoding/json"

func rawSchema(doc string) json.RawMessage { return json.RawMessage(doc) }

var fetchURLSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["url"],
	"properties": {
		"url": {"type": "string", "minLength": 1},
		"timeout_ms": {"type": "integer", "minimum": 1},
		"user_agent": {"type": "string"},
		"follow_redirects": {"type": "boolean"},
		"include_headers": {"type": "boolean"},
		"text_only": {"type": "boolean"},
		"max_length": {"type": "integer", "minimum": 1}
	}
}`)

var fetchMultipleURLsSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["urls"],
	"properties": {
		"urls": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
		"include_failures": {"type": "boolean"}
	}
}`)

var extractLinksSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["url"],
	"properties": {
		"url": {"type": "string", "minLength": 1},
		"filter": {"type": "string", "enum": ["all", "internal", "external"]},
		"include_text": {"type": "boolean"},
		"unique": {"type": "boolean"},
		"max_links": {"type": "integer", "minimum": 1}
	}
}`)

var analyzeWebpageSchema = rawSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["url"],
	"properties": {
		"url": {"type": "string", "minLength": 1},
		"sections": {
			"type": "array",
			"items": {"type": "string", "enum": ["metadata", "structure", "images", "performance"]}
		}
	}
}`)
