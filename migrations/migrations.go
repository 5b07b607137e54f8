// Package migrations nhúng các file SQL schema vào binary của cmd/migrate
package migrations

import "embed"

// FS chứa các file NNNN_name.sql, apply theo thứ tự tên file
//
//go:embed *.sql
var FS embed.FS
