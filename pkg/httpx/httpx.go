// Package httpx содержит обвязку для исходящих HTTP-запросов (уведомления в Telegram).
package httpx

import "transfer_scanner/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
