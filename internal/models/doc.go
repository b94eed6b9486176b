// Package models defines the record types the console reads from and writes
// to the Roost platform APIs.
//
// Two product lines share one wire convention (JSON resources under a common
// base URL):
//
// 1. Farm operations: [Farm], [Facility], [Chicken], plus the directory
// records [User] and [Role] backing role assignment.
//
// 2. Studio (presentation production): [Presentation], [MediaItem],
// [Playlist] with ordered [PlaylistItem] entries, [Stream] and the
// marketplace [Template].
//
// The server owns the canonical shape of every record; these structs carry
// only the fields the console renders or submits. Unknown response fields are
// ignored on decode.
package models
