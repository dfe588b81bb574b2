// Package drive_tools exposes OneDrive operations as MCP tools.
//
// A Dispatcher holds a name to {schema, handler} table that is validated once
// at startup. Every call opens a credential scope from the transport token,
// binds and validates its arguments without I/O, runs the handler against
// Microsoft Graph and renders the tagged Result as text.
//
// Available tools:
//   - onedrive_rename_item, onedrive_move_item, onedrive_delete_item, onedrive_get_item_by_id
//   - onedrive_read_file_content, onedrive_overwrite_file_by_id
//   - onedrive_create_file, onedrive_create_file_in_root (if_exists: error, rename, replace)
//   - onedrive_create_folder (behavior: fail, replace, rename), onedrive_create_folder_in_root
//   - onedrive_list_root_files_folders, onedrive_list_inside_folder
//   - onedrive_search_item_by_name, onedrive_search_folder_by_name
//   - onedrive_list_shared_items, onedrive_create_share_link (link_type, scope)
//
// Example tool usage:
//
//	onedrive_create_file({
//	  parent_folder_id: "01ABCDEF",
//	  new_file_name: "notes.txt",
//	  data: "hello",
//	  if_exists: "rename"
//	})
package drive_tools
