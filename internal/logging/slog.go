package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Attribute keys shared by the server packages.
const (
	KeyOperation = "operation"
	KeyCaller    = "caller"
	KeyError     = "error"
	KeyTool      = "tool"
)

// Log formats accepted by NewLogger.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// redactedValue replaces the value of any credential-looking attribute.
const redactedValue = "[REDACTED]"

// secretKeys are attribute keys whose values are never written, whatever
// the call site passes. Matching is case-insensitive.
var secretKeys = map[string]bool{
	"token":          true,
	"access_token":   true,
	"authorization":  true,
	"x-auth-token":   true,
	"bearer":         true,
	"onedrive_token": true,
}

// Operation is the Graph operation attribute.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool is the MCP tool name attribute.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Err is the error attribute. A nil error yields an empty group, which slog
// drops, so Err(maybeNil) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// TokenHash returns a short, stable identifier for a bearer token so lines
// from the same caller can be correlated. It is "" for an empty token.
func TokenHash(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return "caller:" + hex.EncodeToString(sum[:6])
}

// Caller is the caller attribute: the token hash, never the token.
func Caller(token string) slog.Attr {
	return slog.String(KeyCaller, TokenHash(token))
}

// ParseLevel maps a level name to a slog.Level. WARNING and CRITICAL are
// accepted as aliases for WARN and ERROR; empty means INFO.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR", "CRITICAL":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// NewLogger builds a text or JSON logger writing to w (os.Stderr when nil).
// Attributes keyed like a credential are redacted.
func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: redactSecrets}

	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q, must be one of: text, json", format)
}

func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redactedValue)
	}
	return a
}
