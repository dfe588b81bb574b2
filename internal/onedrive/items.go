package onedrive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
)

// Rename changes the name of an item.
func (c *Client) Rename(ctx context.Context, fileID, newName string) Result {
	body, err := json.Marshal(map[string]string{"name": newName})
	if err != nil {
		return ClientError("Error:", fmt.Errorf("failed to encode rename request: %w", err))
	}

	resp, err := c.send(ctx, graphRequest{
		operation:   instrumentation.OperationRename,
		method:      http.MethodPatch,
		path:        itemPath(fileID),
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error:", resp.statusCode, string(resp.body))
	}
	return OK("Renamed successfully:", resp.body)
}

// Move reparents an item under newParentID.
func (c *Client) Move(ctx context.Context, itemID, newParentID string) Result {
	body, err := json.Marshal(map[string]ItemReference{"parentReference": {ID: newParentID}})
	if err != nil {
		return ClientError("Error:", fmt.Errorf("failed to encode move request: %w", err))
	}

	resp, err := c.send(ctx, graphRequest{
		operation:   instrumentation.OperationMove,
		method:      http.MethodPatch,
		path:        itemPath(itemID),
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error:", resp.statusCode, string(resp.body))
	}
	return OK("Item moved:", resp.body)
}

// Delete removes an item. Only 204 No Content counts as success.
func (c *Client) Delete(ctx context.Context, itemID string) Result {
	resp, err := c.send(ctx, graphRequest{
		operation: instrumentation.OperationDelete,
		method:    http.MethodDelete,
		path:      itemPath(itemID),
	})
	if err != nil {
		return failure(err)
	}
	if resp.statusCode != http.StatusNoContent {
		return RemoteError("Error:", resp.statusCode, string(resp.body))
	}
	return OKText(fmt.Sprintf("Item %s deleted.", itemID))
}

// GetItem fetches the metadata of an item. The payload is returned bare.
func (c *Client) GetItem(ctx context.Context, itemID string) Result {
	resp, err := c.send(ctx, graphRequest{
		operation: instrumentation.OperationGetItem,
		method:    http.MethodGet,
		path:      itemPath(itemID),
	})
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error:", resp.statusCode, string(resp.body))
	}
	return OK("", resp.body)
}
