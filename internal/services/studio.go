package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/roosthq/roost/internal/api"
	"github.com/roosthq/roost/internal/collection"
	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/shared"
)

// StudioService exposes the presentation production endpoints.
type StudioService struct {
	client *api.Client
}

// NewStudioService creates a studio service on the given client.
func NewStudioService(client *api.Client) *StudioService {
	return &StudioService{client: client}
}

// Presentations lists presentations. Supported query parameters: search, tag, author.
func (s *StudioService) Presentations(ctx context.Context, query url.Values) ([]models.Presentation, error) {
	var presentations []models.Presentation
	if err := s.client.Get(ctx, "/presentations", query, &presentations); err != nil {
		return nil, err
	}
	return presentations, nil
}

// CreatePresentation creates a presentation.
func (s *StudioService) CreatePresentation(ctx context.Context, payload map[string]any) error {
	return s.client.Post(ctx, "/presentations", payload, nil)
}

// UpdatePresentation updates a presentation.
func (s *StudioService) UpdatePresentation(ctx context.Context, id string, payload map[string]any) error {
	return s.client.Put(ctx, "/presentations/"+id, payload, nil)
}

// DeletePresentation deletes a presentation.
func (s *StudioService) DeletePresentation(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/presentations/"+id)
}

// Media lists media library entries. Supported query parameters: type, search.
func (s *StudioService) Media(ctx context.Context, query url.Values) ([]models.MediaItem, error) {
	var media []models.MediaItem
	if err := s.client.Get(ctx, "/media", query, &media); err != nil {
		return nil, err
	}
	return media, nil
}

// DeleteMedia removes a media library entry.
func (s *StudioService) DeleteMedia(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/media/"+id)
}

// Playlists lists playlists.
func (s *StudioService) Playlists(ctx context.Context, query url.Values) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := s.client.Get(ctx, "/playlists", query, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Playlist retrieves a single playlist with its ordered items.
func (s *StudioService) Playlist(ctx context.Context, id string) (*models.Playlist, error) {
	playlist := new(models.Playlist)
	if err := s.client.Get(ctx, "/playlists/"+id, nil, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// AddPlaylistItem appends an entry to a playlist.
func (s *StudioService) AddPlaylistItem(ctx context.Context, playlistID string, payload map[string]any) error {
	return s.client.Post(ctx, fmt.Sprintf("/playlists/%s/items", playlistID), payload, nil)
}

// RemovePlaylistItem removes an entry from a playlist.
func (s *StudioService) RemovePlaylistItem(ctx context.Context, playlistID, itemID string) error {
	return s.client.Delete(ctx, fmt.Sprintf("/playlists/%s/items/%s", playlistID, itemID))
}

// MoveItem reorders a playlist locally (splice from -> to) and persists the
// resulting order. The caller re-fetches the playlist afterwards; on failure
// the server order stands and nothing local was kept.
func (s *StudioService) MoveItem(ctx context.Context, playlist *models.Playlist, from, to int) error {
	reordered, err := Reorder(playlist.Items, from, to)
	if err != nil {
		return err
	}

	ids := make([]string, len(reordered))
	for i, item := range reordered {
		ids[i] = item.ID
	}

	return s.client.Put(ctx, fmt.Sprintf("/playlists/%s/items", playlist.ID), map[string]any{"itemIds": ids}, nil)
}

// Reorder returns a copy of items with the element at from spliced in before
// position to, positions renumbered from zero.
func Reorder(items []models.PlaylistItem, from, to int) ([]models.PlaylistItem, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, fmt.Errorf("%w: move %d -> %d out of range for %d items", shared.ErrInvalidArgument, from, to, len(items))
	}

	out := make([]models.PlaylistItem, 0, len(items))
	out = append(out, items...)

	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]models.PlaylistItem{moved}, out[to:]...)...)

	for i := range out {
		out[i].Position = i
	}
	return out, nil
}

// Streams lists live output streams. Supported query parameter: status.
func (s *StudioService) Streams(ctx context.Context, query url.Values) ([]models.Stream, error) {
	var streams []models.Stream
	if err := s.client.Get(ctx, "/streams", query, &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// StartStream transitions a stream to live.
func (s *StudioService) StartStream(ctx context.Context, id string) error {
	return s.client.Post(ctx, fmt.Sprintf("/streams/%s/start", id), nil, nil)
}

// StopStream ends a live stream.
func (s *StudioService) StopStream(ctx context.Context, id string) error {
	return s.client.Post(ctx, fmt.Sprintf("/streams/%s/stop", id), nil, nil)
}

// Templates lists marketplace templates. Supported query parameters:
// category, search, sort.
func (s *StudioService) Templates(ctx context.Context, query url.Values) ([]models.Template, error) {
	var templates []models.Template
	if err := s.client.Get(ctx, "/templates", query, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// LikeTemplate registers a like for a marketplace template.
func (s *StudioService) LikeTemplate(ctx context.Context, id string) error {
	return s.client.Post(ctx, fmt.Sprintf("/templates/%s/like", id), nil, nil)
}

// RateTemplate submits a 1-5 rating for a marketplace template.
func (s *StudioService) RateTemplate(ctx context.Context, id string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be 1-5, got %d", shared.ErrInvalidArgument, rating)
	}
	return s.client.Post(ctx, fmt.Sprintf("/templates/%s/rate", id), map[string]int{"rating": rating}, nil)
}

// DownloadTemplate records a download and returns the template document.
func (s *StudioService) DownloadTemplate(ctx context.Context, id string) (map[string]any, error) {
	var doc map[string]any
	if err := s.client.Post(ctx, fmt.Sprintf("/templates/%s/download", id), nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// PresentationController binds a collection controller to the presentation list.
func (s *StudioService) PresentationController() *collection.Controller[models.Presentation] {
	return collection.NewController(s.Presentations)
}

// MediaController binds a collection controller to the media library.
func (s *StudioService) MediaController() *collection.Controller[models.MediaItem] {
	return collection.NewController(s.Media)
}

// PlaylistController binds a collection controller to the playlist list.
func (s *StudioService) PlaylistController() *collection.Controller[models.Playlist] {
	return collection.NewController(s.Playlists)
}

// StreamController binds a collection controller to the stream list.
func (s *StudioService) StreamController() *collection.Controller[models.Stream] {
	return collection.NewController(s.Streams)
}

// TemplateController binds a collection controller to the marketplace list.
func (s *StudioService) TemplateController() *collection.Controller[models.Template] {
	return collection.NewController(s.Templates)
}

// PresentationFields is the mutation dialog schema for presentations.
func PresentationFields() []collection.Field {
	return []collection.Field{
		{Name: "title", Required: true},
		{Name: "author"},
		{Name: "tags"},
	}
}
