package reviewlog

import _ "embed"

// SchemaJSON is the JSON Schema describing a JSON dataset document.
// The validate command checks candidate inputs against it before loading.
//
//go:embed schema.json
var SchemaJSON string
