// Package migrations содержит SQL миграции схемы сессий бота
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
