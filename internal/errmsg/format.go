// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playlist operations
	OpPlaylistCreate Op = "create playlist"
	OpPlaylistRename Op = "rename playlist"
	OpPlaylistDelete Op = "delete playlist"
	OpPlaylistLoad   Op = "load playlist"
	OpPlaylistSave   Op = "save playlist"

	// Video operations
	OpVideoAdd    Op = "add video to playlist"
	OpVideoRemove Op = "remove video from playlist"
	OpVideoMove   Op = "move video"
	OpVideoSwap   Op = "swap videos"

	// Navigation operations
	OpSetIndex    Op = "set current video"
	OpSetPlayMode Op = "change play mode"

	// Scan operations
	OpScanFolder Op = "scan folder for videos"

	// Backup operations
	OpBackupCreate  Op = "create backup"
	OpBackupCleanup Op = "clean up backups"
	OpBackupRestore Op = "restore from backup"

	// Registry operations
	OpRegistryLoad   Op = "load playlists"
	OpRegistrySave   Op = "save playlists"
	OpConfigLoad     Op = "load configuration"
	OpConfigSave     Op = "save configuration"
	OpSetActive      Op = "switch active playlist"
	OpMissingCleanup Op = "remove missing files"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
