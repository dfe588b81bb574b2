package instrumentation

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Item ids and raw status codes must never be used as labels directly.

// StatusClass collapses an HTTP status code into its class.
//
// Example:
//
//	StatusClass(204)  // "2xx"
//	StatusClass(409)  // "4xx"
//	StatusClass(0)    // "transport_error"
func StatusClass(code int) string {
	switch {
	case code == 0:
		return "transport_error"
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return StatusUnknown
	}
}

// Graph operation names used for metrics and span names.
const (
	OperationRename       = "rename"
	OperationMove         = "move"
	OperationDelete       = "delete"
	OperationReadContent  = "read_content"
	OperationWriteContent = "write_content"
	OperationListChildren = "list_children"
	OperationSearch       = "search"
	OperationGetItem      = "get_item"
	OperationListShared   = "list_shared"
	OperationCreateLink   = "create_link"
	OperationCreateFolder = "create_folder"
)
