package onedrive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
)

const rootChildrenPath = "me/drive/root/children"

// ListRoot lists the children of the drive root.
func (c *Client) ListRoot(ctx context.Context) Result {
	return c.listing(ctx, instrumentation.OperationListChildren, rootChildrenPath, "Files:")
}

// ListFolder lists the children of a folder.
func (c *Client) ListFolder(ctx context.Context, folderID string) Result {
	return c.listing(ctx, instrumentation.OperationListChildren, itemPath(folderID)+"/children", "Items inside folder:")
}

// SearchItems runs a drive-wide name search.
func (c *Client) SearchItems(ctx context.Context, name string) Result {
	return c.listing(ctx, instrumentation.OperationSearch, searchPath(name), "Found items:")
}

// ListSharedWithMe lists items other users shared with the caller.
func (c *Client) ListSharedWithMe(ctx context.Context) Result {
	return c.listing(ctx, instrumentation.OperationListShared, "me/drive/sharedWithMe", "Items shared with me:")
}

// SearchFolders runs the same search as SearchItems and keeps only entries with
// a folder facet. Graph is not asked to filter; the whole match set is fetched.
func (c *Client) SearchFolders(ctx context.Context, name string) Result {
	resp, err := c.send(ctx, graphRequest{
		operation: instrumentation.OperationSearch,
		method:    http.MethodGet,
		path:      searchPath(name),
	})
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error:", resp.statusCode, string(resp.body))
	}

	folders, err := filterFolders(resp.body)
	if err != nil {
		return ClientError("Error:", err)
	}
	return OK("Found folders:", folders)
}

func (c *Client) listing(ctx context.Context, operation, path, status string) Result {
	resp, err := c.send(ctx, graphRequest{
		operation: operation,
		method:    http.MethodGet,
		path:      path,
	})
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error:", resp.statusCode, string(resp.body))
	}
	return OK(status, resp.body)
}

// searchPath builds root/search(q='...'). Single quotes are doubled as OData
// requires, then the term is path-escaped.
func searchPath(term string) string {
	quoted := strings.ReplaceAll(term, "'", "''")
	return "me/drive/root/search(q='" + url.PathEscape(quoted) + "')"
}

// filterFolders returns a JSON array of the entries in a Graph collection that
// have a "folder" key. Entries are kept byte-for-byte.
func filterFolders(body []byte) ([]byte, error) {
	var page struct {
		Value []json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	folders := make([]json.RawMessage, 0, len(page.Value))
	for _, raw := range page.Value {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode search entry: %w", err)
		}
		if _, ok := fields["folder"]; ok {
			folders = append(folders, raw)
		}
	}

	out, err := json.Marshal(folders)
	if err != nil {
		return nil, fmt.Errorf("failed to encode folders: %w", err)
	}
	return out, nil
}
