package drive_tools

import (
	"context"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
	"github.com/teemow/onedrive-mcp/internal/onedrive"
)

// shareTools returns the sharing tools.
func shareTools() []toolDef {
	return []toolDef{
		{
			spec: toolSpec{
				name:        "onedrive_list_shared_items",
				description: "List all items shared with the current user in OneDrive.",
				operation:   instrumentation.OperationListShared,
				readOnly:    true,
			},
			handler: func(ctx context.Context, c *onedrive.Client, _ arguments) onedrive.Result {
				return c.ListSharedWithMe(ctx)
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_create_share_link",
				description: "Create a sharing link for a OneDrive item.",
				operation:   instrumentation.OperationCreateLink,
				args: []argSpec{
					required("item_id", "ID of the item to share"),
					enumerated("link_type",
						"Link permissions: 'view' (read-only), 'edit' (read-write), 'embed' (embeddable)",
						onedrive.LinkTypes(), string(onedrive.LinkView)),
					enumerated("scope",
						"Link audience: 'anonymous' (anyone), 'organization' (company only)",
						onedrive.LinkScopes(), string(onedrive.ScopeAnonymous)),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.CreateShareLink(ctx,
					args.get("item_id"),
					onedrive.LinkType(args.get("link_type")),
					onedrive.LinkScope(args.get("scope")))
			},
		},
	}
}
