// Package services defines the typed endpoint surfaces of the Roost platform
// API, one service per product area.
//
// [FarmService] covers the farm operations console: farms, facilities with
// user assignment, and chicken records. [DirectoryService] covers users,
// roles and the role-assignment relationship. [StudioService] covers the
// presentation production suite: presentations, the media library, playlists
// with item reordering, live streams and the template marketplace.
//
// Services hold no view state; they translate method calls into requests on
// an [api.Client] and hand typed records back. The binding of lists to views
// happens in package collection, via the controller constructors each service
// exposes.
package services
