package onedrive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
)

// CreateShareLink creates a sharing link for an item. The permission payload
// is returned bare.
func (c *Client) CreateShareLink(ctx context.Context, itemID string, linkType LinkType, scope LinkScope) Result {
	body, err := json.Marshal(map[string]string{
		"type":  string(linkType),
		"scope": string(scope),
	})
	if err != nil {
		return ClientError("Error:", fmt.Errorf("failed to encode createLink request: %w", err))
	}

	resp, err := c.send(ctx, graphRequest{
		operation:   instrumentation.OperationCreateLink,
		method:      http.MethodPost,
		path:        itemPath(itemID) + "/createLink",
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error:", resp.statusCode, string(resp.body))
	}
	return OK("", resp.body)
}
