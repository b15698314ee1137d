// Package db embeds the goose migration files so binaries can run them
// without a checkout of the repository on disk.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
