package onedrive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
)

// writeScope is where create-file lists siblings and writes content.
type writeScope struct {
	childrenPath string
	// prefix is joined with ":/<name>:/content"
	prefix string
	// listFailure labels a failed sibling listing
	listFailure string
}

func folderScope(folderID string) writeScope {
	return writeScope{
		childrenPath: itemPath(folderID) + "/children",
		prefix:       itemPath(folderID),
		listFailure:  "Could not list folder contents:",
	}
}

func rootScope() writeScope {
	return writeScope{
		childrenPath: rootChildrenPath,
		prefix:       "me/drive/root",
		listFailure:  "Could not list root contents:",
	}
}

func (s writeScope) contentPath(name string) string {
	return s.prefix + ":/" + url.PathEscape(name) + ":/content"
}

// createFile lists the scope once, decides the final name, and issues at most
// one PUT. List and write are not atomic: a sibling created in between is
// overwritten under ConflictReplace, and under ConflictRename the write asks
// Graph to fail rather than overwrite, so a collision surfaces as a 409.
func (c *Client) createFile(ctx context.Context, scope writeScope, name, data string, policy ConflictPolicy) Result {
	policy, err := ParseConflictPolicy(string(policy))
	if err != nil {
		return ClientError("Invalid if_exists option.", err)
	}

	siblings, res, ok := c.siblingNames(ctx, scope)
	if !ok {
		return res
	}

	finalName := name
	var query url.Values
	if _, taken := siblings[name]; taken {
		switch policy {
		case ConflictError:
			return ConflictSkipped(fmt.Sprintf("File '%s' already exists. Aborting.", name))
		case ConflictRename:
			finalName = c.alternateName(name)
			query = url.Values{"@microsoft.graph.conflictBehavior": {"fail"}}
		case ConflictReplace:
			// same name; Graph overwrites in place
		}
	}

	resp, err := c.send(ctx, graphRequest{
		operation:   instrumentation.OperationWriteContent,
		method:      http.MethodPut,
		path:        scope.contentPath(finalName),
		query:       query,
		body:        []byte(data),
		contentType: textContentType,
	})
	if err != nil {
		return failure(err)
	}
	if !resp.ok() {
		return RemoteError("Error creating file:", resp.statusCode, string(resp.body))
	}
	return OK("File created:", resp.body)
}

// siblingNames lists the children of scope. On failure it returns the Result to
// hand back and false.
func (c *Client) siblingNames(ctx context.Context, scope writeScope) (map[string]struct{}, Result, bool) {
	resp, err := c.send(ctx, graphRequest{
		operation: instrumentation.OperationListChildren,
		method:    http.MethodGet,
		path:      scope.childrenPath,
	})
	if err != nil {
		return nil, failure(err), false
	}
	if !resp.ok() {
		return nil, RemoteError(scope.listFailure, resp.statusCode, string(resp.body)), false
	}

	var page DriveItemList
	if err := json.Unmarshal(resp.body, &page); err != nil {
		return nil, ClientError("Error:", fmt.Errorf("failed to decode folder listing: %w", err)), false
	}

	names := make(map[string]struct{}, len(page.Value))
	for _, item := range page.Value {
		names[item.Name] = struct{}{}
	}
	return names, Result{}, true
}

// alternateName returns <stem>_<suffix><ext>.
func (c *Client) alternateName(name string) string {
	stem, ext := splitExt(name)
	return stem + "_" + c.newSuffix() + ext
}

// randomSuffix returns 32 lowercase hex characters.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// splitExt splits name at its last dot. Leading dots belong to the stem, so
// ".bashrc" has no extension and "archive.tar.gz" has extension ".gz".
func splitExt(name string) (stem, ext string) {
	dot := strings.LastIndex(name, ".")
	sep := strings.LastIndex(name, "/")
	if dot <= sep {
		return name, ""
	}
	for i := sep + 1; i < dot; i++ {
		if name[i] != '.' {
			return name[:dot], name[dot:]
		}
	}
	return name, ""
}
