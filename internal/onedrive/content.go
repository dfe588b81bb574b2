package onedrive

import (
	"context"
	"net/http"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
)

const textContentType = "text/plain; charset=utf-8"

// ReadContent downloads a file and returns its body as text.
func (c *Client) ReadContent(ctx context.Context, fileID string) Result {
	resp, err := c.send(ctx, graphRequest{
		operation: instrumentation.OperationReadContent,
		method:    http.MethodGet,
		path:      itemPath(fileID) + "/content",
	})
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error:", resp.statusCode, string(resp.body))
	}
	return OKText(string(resp.body))
}

// OverwriteContent replaces the body of an existing file in one PUT.
func (c *Client) OverwriteContent(ctx context.Context, fileID, content string) Result {
	resp, err := c.send(ctx, graphRequest{
		operation:   instrumentation.OperationWriteContent,
		method:      http.MethodPut,
		path:        itemPath(fileID) + "/content",
		body:        []byte(content),
		contentType: textContentType,
	})
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error:", resp.statusCode, string(resp.body))
	}
	return OK("File overwritten successfully:", resp.body)
}

// CreateFile writes a new file named name under parentFolderID, resolving a
// name clash with policy.
func (c *Client) CreateFile(ctx context.Context, parentFolderID, name, data string, policy ConflictPolicy) Result {
	return c.createFile(ctx, folderScope(parentFolderID), name, data, policy)
}

// CreateFileInRoot writes a new file in the drive root, resolving a name clash
// with policy.
func (c *Client) CreateFileInRoot(ctx context.Context, name, data string, policy ConflictPolicy) Result {
	return c.createFile(ctx, rootScope(), name, data, policy)
}
