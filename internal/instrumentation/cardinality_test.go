package instrumentation

import "testing"

func TestStatusClass(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{0, "transport_error"},
		{101, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{204, "2xx"},
		{302, "3xx"},
		{401, "4xx"},
		{409, "4xx"},
		{503, "5xx"},
		{-1, StatusUnknown},
		{700, StatusUnknown},
	}

	for _, tt := range tests {
		if got := StatusClass(tt.code); got != tt.expected {
			t.Errorf("StatusClass(%d) = %q, want %q", tt.code, got, tt.expected)
		}
	}
}

func TestOperationConstants(t *testing.T) {
	operations := map[string]string{
		OperationRename:       "rename",
		OperationMove:         "move",
		OperationDelete:       "delete",
		OperationReadContent:  "read_content",
		OperationWriteContent: "write_content",
		OperationListChildren: "list_children",
		OperationSearch:       "search",
		OperationGetItem:      "get_item",
		OperationListShared:   "list_shared",
		OperationCreateLink:   "create_link",
		OperationCreateFolder: "create_folder",
	}

	for constant, expected := range operations {
		if constant != expected {
			t.Errorf("Operation constant = %q, want %q", constant, expected)
		}
	}
}
