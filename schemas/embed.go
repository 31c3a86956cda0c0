// Package schemas embeds the JSON Schemas for offline recommendation inputs.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory
//
//go:embed *.schema.json
var FS embed.FS
