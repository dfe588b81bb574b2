package drive_tools

import (
	"context"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
	"github.com/teemow/onedrive-mcp/internal/onedrive"
)

// itemTools returns the tools that act on a single item by id.
func itemTools() []toolDef {
	return []toolDef{
		{
			spec: toolSpec{
				name:        "onedrive_rename_item",
				description: "Rename a file or folder in OneDrive by its ID.",
				operation:   instrumentation.OperationRename,
				args: []argSpec{
					required("file_id", "ID of the file/folder to rename"),
					required("new_name", "New name for the item"),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.Rename(ctx, args.get("file_id"), args.get("new_name"))
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_move_item",
				description: "Move an item to a different folder in OneDrive.",
				operation:   instrumentation.OperationMove,
				args: []argSpec{
					required("item_id", "ID of the item to move"),
					required("new_parent_id", "ID of the destination folder"),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.Move(ctx, args.get("item_id"), args.get("new_parent_id"))
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_delete_item",
				description: "Delete an item from OneDrive by its ID.",
				operation:   instrumentation.OperationDelete,
				args: []argSpec{
					required("item_id", "ID of the item to delete"),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.Delete(ctx, args.get("item_id"))
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_get_item_by_id",
				description: "Get item details by its ID.",
				operation:   instrumentation.OperationGetItem,
				readOnly:    true,
				args: []argSpec{
					required("item_id", "ID of the item to retrieve"),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.GetItem(ctx, args.get("item_id"))
			},
		},
	}
}
