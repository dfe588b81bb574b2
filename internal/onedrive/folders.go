package onedrive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
)

type createFolderRequest struct {
	Name             string                 `json:"name"`
	Folder           struct{}               `json:"folder"`
	ConflictBehavior FolderConflictBehavior `json:"@microsoft.graph.conflictBehavior"`
}

// CreateFolder creates a folder under parentFolderID. Name conflicts are
// resolved by Graph according to behavior.
func (c *Client) CreateFolder(ctx context.Context, parentFolderID, name string, behavior FolderConflictBehavior) Result {
	resp, err := c.createFolder(ctx, itemPath(parentFolderID)+"/children", name, behavior)
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error:", resp.statusCode, string(resp.body))
	}
	return OK("Folder created successfully:", resp.body)
}

// CreateFolderInRoot creates a folder in the drive root, always renaming on
// conflict. The new folder is returned bare.
func (c *Client) CreateFolderInRoot(ctx context.Context, name string) Result {
	resp, err := c.createFolder(ctx, rootChildrenPath, name, FolderRename)
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error creating folder:", resp.statusCode, string(resp.body))
	}
	return OK("", resp.body)
}

func (c *Client) createFolder(ctx context.Context, path, name string, behavior FolderConflictBehavior) (*graphResponse, error) {
	body, err := json.Marshal(createFolderRequest{Name: name, ConflictBehavior: behavior})
	if err != nil {
		return nil, fmt.Errorf("failed to encode create folder request: %w", err)
	}

	return c.send(ctx, graphRequest{
		operation:   instrumentation.OperationCreateFolder,
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
	})
}
