// Package renderctx builds the values that service templates are rendered with.
//
// Build is pure: the same configuration document always yields the same
// Context, so re-running the pipeline re-renders byte-identical files. Every
// optional value gets its default here and nowhere else:
//
//	max_upload_size_mb   50
//	primary_color        #4A90D9
//	admin_username       admin
//	fluffychat_domain    "" (never absent)
//
// Rooms flagged auto_join become "#<id>:<domain>" aliases in auto_join_rooms.
// The full room list is passed through unchanged as rooms.
package renderctx
