package onedrive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Render(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name:   "ok with status",
			result: OK("Files:", []byte(`{"value":[]}`)),
			want:   "Files:\n{\n  \"value\": []\n}",
		},
		{
			name:   "bare payload",
			result: OK("", []byte(`{"id":"1"}`)),
			want:   "{\n  \"id\": \"1\"\n}",
		},
		{
			name:   "raw text",
			result: OKText("hello"),
			want:   "hello",
		},
		{
			name:   "conflict skipped",
			result: ConflictSkipped("File 'a' already exists. Aborting."),
			want:   "File 'a' already exists. Aborting.",
		},
		{
			name:   "remote error",
			result: RemoteError("Error creating file:", 409, "conflict"),
			want:   "Error creating file: 409\nconflict",
		},
		{
			name:   "remote error default label",
			result: RemoteError("", 500, "oops"),
			want:   "Error: 500\noops",
		},
		{
			name:   "client error with cause",
			result: ClientError("Error:", errors.New("dial tcp: refused")),
			want:   "Error: dial tcp: refused",
		},
		{
			name:   "client error without cause",
			result: ClientError("Missing required argument: file_id", nil),
			want:   "Missing required argument: file_id",
		},
		{
			name:   "unauthenticated",
			result: Unauthenticated(),
			want:   "Could not get OneDrive client",
		},
		{
			name:   "invalid json payload passes through",
			result: OK("Files:", []byte(`not json`)),
			want:   "Files:\nnot json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Render())
		})
	}
}

func TestResult_Classification(t *testing.T) {
	assert.False(t, OK("", []byte(`{}`)).IsError())
	assert.False(t, ConflictSkipped("x").IsError())
	assert.True(t, RemoteError("Error:", 404, "").IsError())
	assert.True(t, ClientError("x", nil).IsError())

	assert.True(t, Unauthenticated().Unauthenticated())
	assert.False(t, ClientError("Error:", errors.New("x")).Unauthenticated())
	assert.False(t, RemoteError("Error:", 401, "").Unauthenticated())
}

func TestResult_Decode(t *testing.T) {
	var item DriveItem
	assert.NoError(t, OK("", []byte(`{"id":"1","name":"a"}`)).Decode(&item))
	assert.Equal(t, "a", item.Name)

	assert.Error(t, OKText("plain").Decode(&item))
	assert.Error(t, RemoteError("Error:", 500, "").Decode(&item))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "ok", KindOK.String())
	assert.Equal(t, "conflict_skipped", KindConflictSkipped.String())
	assert.Equal(t, "remote_error", KindRemoteError.String())
	assert.Equal(t, "client_error", KindClientError.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
