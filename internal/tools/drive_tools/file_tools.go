package drive_tools

import (
	"context"

	"github.com/teemow/onedrive-mcp/internal/instrumentation"
	"github.com/teemow/onedrive-mcp/internal/onedrive"
)

const ifExistsDescription = "Behavior when file exists: 'error' (abort), 'rename' (create unique name), 'replace' (overwrite)"

// fileTools returns the content tools: read, overwrite and create.
func fileTools() []toolDef {
	return []toolDef{
		{
			spec: toolSpec{
				name:        "onedrive_read_file_content",
				description: "Read the content of a file from OneDrive by its ID.",
				operation:   instrumentation.OperationReadContent,
				readOnly:    true,
				args: []argSpec{
					required("file_id", "ID of the file to read"),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.ReadContent(ctx, args.get("file_id"))
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_overwrite_file_by_id",
				description: "Overwrite the content of an existing file in OneDrive.",
				operation:   instrumentation.OperationWriteContent,
				args: []argSpec{
					required("file_id", "ID of the file to overwrite"),
					required("new_content", "New content for the file"),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.OverwriteContent(ctx, args.get("file_id"), args.get("new_content"))
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_create_file",
				description: "Create a new file in a specific OneDrive folder.",
				operation:   instrumentation.OperationWriteContent,
				args: []argSpec{
					required("parent_folder_id", "ID of the parent folder"),
					required("new_file_name", "Name for the new file"),
					optional("data", "Content for the new file (optional)"),
					enumerated("if_exists", ifExistsDescription, onedrive.ConflictPolicies(), string(onedrive.ConflictError)),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.CreateFile(ctx,
					args.get("parent_folder_id"),
					args.get("new_file_name"),
					args.get("data"),
					onedrive.ConflictPolicy(args.get("if_exists")))
			},
		},
		{
			spec: toolSpec{
				name:        "onedrive_create_file_in_root",
				description: "Create a new file in the root of OneDrive.",
				operation:   instrumentation.OperationWriteContent,
				args: []argSpec{
					required("new_file_name", "Name for the new file"),
					optional("data", "Content for the new file (optional)"),
					enumerated("if_exists", ifExistsDescription, onedrive.ConflictPolicies(), string(onedrive.ConflictError)),
				},
			},
			handler: func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result {
				return c.CreateFileInRoot(ctx,
					args.get("new_file_name"),
					args.get("data"),
					onedrive.ConflictPolicy(args.get("if_exists")))
			},
		},
	}
}
