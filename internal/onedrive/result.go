package onedrive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind tags the variant held by a Result.
type Kind int

const (
	// KindOK is a successful remote call
	KindOK Kind = iota
	// KindConflictSkipped is a create-file skipped under the "error" policy
	KindConflictSkipped
	// KindRemoteError is a non-success response from Graph
	KindRemoteError
	// KindClientError is a local failure: missing credential, bad argument, transport error
	KindClientError
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindConflictSkipped:
		return "conflict_skipped"
	case KindRemoteError:
		return "remote_error"
	case KindClientError:
		return "client_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// unauthenticatedMessage is the text every operation returns without a credential.
const unauthenticatedMessage = "Could not get OneDrive client"

// Result is the outcome of one facade operation. Only the fields of its Kind are set.
type Result struct {
	Kind Kind

	// Status is the leading status line: "Renamed successfully:" for Ok,
	// "Error:" or "Error creating file:" for RemoteError. Empty for bare payloads.
	Status string

	// Payload is the JSON body of an Ok result. Text is used instead for raw content.
	Payload json.RawMessage
	Text    string

	// Code and Body describe a RemoteError.
	Code int
	Body string

	// Message describes a ConflictSkipped or ClientError; Err is the cause.
	Message string
	Err     error
}

// OK returns a successful result carrying a JSON payload.
func OK(status string, payload []byte) Result {
	return Result{Kind: KindOK, Status: status, Payload: json.RawMessage(payload)}
}

// OKText returns a successful result carrying raw text.
func OKText(text string) Result {
	return Result{Kind: KindOK, Text: text}
}

// ConflictSkipped returns a result for a write that was not attempted.
func ConflictSkipped(message string) Result {
	return Result{Kind: KindConflictSkipped, Message: message}
}

// RemoteError returns a result for a non-success Graph response.
func RemoteError(status string, code int, body string) Result {
	return Result{Kind: KindRemoteError, Status: status, Code: code, Body: body}
}

// ClientError returns a result for a local failure.
func ClientError(message string, err error) Result {
	return Result{Kind: KindClientError, Message: message, Err: err}
}

// Unauthenticated returns the result for a call without a credential.
func Unauthenticated() Result {
	return ClientError(unauthenticatedMessage, ErrUnauthenticated)
}

// Unauthenticated reports whether r is the missing-credential result.
func (r Result) Unauthenticated() bool {
	return r.Kind == KindClientError && errors.Is(r.Err, ErrUnauthenticated)
}

// IsError reports whether r is a RemoteError or ClientError.
func (r Result) IsError() bool {
	return r.Kind == KindRemoteError || r.Kind == KindClientError
}

// Decode unmarshals the payload of an Ok result into v.
func (r Result) Decode(v any) error {
	if r.Kind != KindOK {
		return fmt.Errorf("cannot decode %s result", r.Kind)
	}
	if len(r.Payload) == 0 {
		return errors.New("result has no JSON payload")
	}
	return json.Unmarshal(r.Payload, v)
}

// Render formats r as the text returned to the tool caller.
func (r Result) Render() string {
	switch r.Kind {
	case KindOK:
		if len(r.Payload) == 0 {
			return r.Text
		}
		payload := indentJSON(r.Payload)
		if r.Status == "" {
			return payload
		}
		return r.Status + "\n" + payload
	case KindConflictSkipped:
		return r.Message
	case KindRemoteError:
		status := r.Status
		if status == "" {
			status = "Error:"
		}
		return fmt.Sprintf("%s %d\n%s", status, r.Code, r.Body)
	case KindClientError:
		if r.Err == nil || r.Unauthenticated() {
			return r.Message
		}
		return strings.TrimSpace(r.Message + " " + r.Err.Error())
	default:
		return ""
	}
}

func indentJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
