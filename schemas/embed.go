// Package schemas holds the JSON Schemas for every artifact the parser writes
// and for the structured responses it accepts from the language model.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
