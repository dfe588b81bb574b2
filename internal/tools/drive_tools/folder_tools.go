package drive_tools

import (
	"context"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
	"github.com/teemow/onedrive-mcp/internal/onedrive"
)

// folderTools returns folder creation, listing and search tools.
func folderTools() []toolDef {
	return []toolDef{
		{
			spec: toolSpec{
				name:        "onedrive_create_folder",
				description: "Create a new folder in a specific OneDrive parent folder.",
				operation:   instrumentation.OperationCreateFolder,
				args: []argSpec{
					required("parent_folder_id", "ID of the parent folder"),
					required("new_folder_name", "Name for the new folder"),
					enumerated("behavior",
						"Conflict resolution: 'fail' (return error), 'replace' (overwrite), 'rename' (unique name)",
						onedrive.FolderConflictBehaviors(), string(onedrive.FolderFail)),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.CreateFolder(ctx,
					args.get("parent_folder_id"),
					args.get("new_folder_name"),
					onedrive.FolderConflictBehavior(args.get("behavior")))
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_create_folder_in_root",
				description: "Create a new folder in the root of OneDrive. An existing name gets a unique suffix.",
				operation:   instrumentation.OperationCreateFolder,
				args: []argSpec{
					required("folder_name", "Name for the new folder"),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.CreateFolderInRoot(ctx, args.get("folder_name"))
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_list_root_files_folders",
				description: "List all files and folders in the root of OneDrive.",
				operation:   instrumentation.OperationListChildren,
				readOnly:    true,
			},
			handler: func(ctx context.Context, c *onedrive.Client, _ arguments) onedrive.Result {
				return c.ListRoot(ctx)
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_list_inside_folder",
				description: "List all items inside a specific folder.",
				operation:   instrumentation.OperationListChildren,
				readOnly:    true,
				args: []argSpec{
					required("folder_id", "ID of the folder to list"),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.ListFolder(ctx, args.get("folder_id"))
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_search_item_by_name",
				description: "Search for items by name in OneDrive.",
				operation:   instrumentation.OperationSearch,
				readOnly:    true,
				args: []argSpec{
					required("itemname", "Name or partial name to search for"),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.SearchItems(ctx, args.get("itemname"))
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_search_folder_by_name",
				description: "Search for folders by name in OneDrive.",
				operation:   instrumentation.OperationSearch,
				readOnly:    true,
				args: []argSpec{
					required("folder_name", "Name or partial name to search for"),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.SearchFolders(ctx, args.get("folder_name"))
			},
		},
	}
}
