// Package logging builds the server's slog loggers and the attribute helpers
// shared by the other packages.
//
// Bearer tokens never reach a log line. Call sites correlate callers with
// Caller / TokenHash, and NewLogger redacts any attribute keyed like a
// credential (token, authorization, x-auth-token, ...) as a backstop.
//
//	logger, err := logging.NewLogger(os.Stderr, slog.LevelInfo, logging.FormatJSON)
//	logger.Warn("graph request failed", logging.Operation(op), logging.Err(err))
//
// SlogAdapter bridges slog to the printf-style logger the mcp-go transports
// accept.
package logging
