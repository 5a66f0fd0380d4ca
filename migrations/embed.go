// Package migrations holds the goose SQL migrations embedded into the binary
// so the service can bring its own schema up on start.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
