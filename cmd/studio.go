package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/roosthq/roost/internal/collection"
	"github.com/roosthq/roost/internal/services"
	"github.com/roosthq/roost/internal/shared"
	"github.com/urfave/cli/v3"
)

// StudioPresentationsList lists presentations with optional search and tag filters.
func (r *Runner) StudioPresentationsList(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.studio.PresentationController()
	if s := cmd.String("search"); s != "" {
		ctrl.SetFilter("search", s)
	}
	if tag := cmd.String("tag"); tag != "" {
		ctrl.SetFilter("tag", tag)
	}

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load presentations: %w", err)
	}

	snap := ctrl.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Presentations (%d)", len(snap.Items)))
	for _, p := range snap.Items {
		r.writePlain("%s  %s  by %s  %d slides\n", p.ID, p.Title, p.Author, p.SlideCount)
	}
	return nil
}

// StudioPresentationsCreate creates a presentation.
func (r *Runner) StudioPresentationsCreate(ctx context.Context, cmd *cli.Command) error {
	mut := collection.NewMutator(nil, services.PresentationFields(), r.studio.CreatePresentation, r.studio.DeletePresentation, nil)

	draft := map[string]string{
		"title":  cmd.String("title"),
		"author": cmd.String("author"),
	}
	if err := mut.Submit(ctx, draft); err != nil {
		return fmt.Errorf("failed to create presentation: %w", err)
	}

	r.writePlain("✓ Presentation created: %s\n", cmd.String("title"))
	return nil
}

// StudioPresentationsDelete removes a presentation after confirmation.
func (r *Runner) StudioPresentationsDelete(ctx context.Context, cmd *cli.Command) error {
	mut := collection.NewMutator(nil, nil, nil, r.studio.DeletePresentation, r.confirmFunc(cmd))

	if err := mut.Remove(ctx, cmd.StringArg("id")); err != nil {
		return r.reportDeclined(err)
	}

	r.writePlain("✓ Presentation deleted\n")
	return nil
}

// StudioMediaList lists the media library.
func (r *Runner) StudioMediaList(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.studio.MediaController()

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load media: %w", err)
	}

	snap := ctrl.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Media (%d)", len(snap.Items)))
	for _, m := range snap.Items {
		r.writePlain("%s  %s  %s  %d bytes\n", m.ID, m.Name, m.Type, m.SizeBytes)
	}
	return nil
}

// StudioMediaDelete removes a media item after confirmation.
func (r *Runner) StudioMediaDelete(ctx context.Context, cmd *cli.Command) error {
	mut := collection.NewMutator(nil, nil, nil, r.studio.DeleteMedia, r.confirmFunc(cmd))

	if err := mut.Remove(ctx, cmd.StringArg("id")); err != nil {
		return r.reportDeclined(err)
	}

	r.writePlain("✓ Media deleted\n")
	return nil
}

// StudioPlaylistsList lists playlists.
func (r *Runner) StudioPlaylistsList(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.studio.PlaylistController()

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load playlists: %w", err)
	}

	snap := ctrl.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(snap.Items)))
	for _, pl := range snap.Items {
		r.writePlain("%s  %s  %d items\n", pl.ID, pl.Name, len(pl.Items))
	}
	return nil
}

// StudioPlaylistsShow prints a playlist's items in position order.
func (r *Runner) StudioPlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	playlist, err := r.studio.Playlist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	items := make([]int, len(playlist.Items))
	for i := range playlist.Items {
		items[i] = i
	}
	sort.Slice(items, func(a, b int) bool {
		return playlist.Items[items[a]].Position < playlist.Items[items[b]].Position
	})

	r.writePlainHeader(fmt.Sprintf("%s (%d items)", playlist.Name, len(playlist.Items)))
	for _, i := range items {
		item := playlist.Items[i]
		r.writePlain("%d. %s  [%s]  %s\n", item.Position+1, item.Title, item.Kind, item.ID)
	}
	return nil
}

// StudioPlaylistsAdd appends an entry to a playlist.
func (r *Runner) StudioPlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	payload := map[string]any{
		"refId": cmd.String("ref"),
		"kind":  cmd.String("kind"),
	}
	if err := r.studio.AddPlaylistItem(ctx, id, payload); err != nil {
		return fmt.Errorf("failed to add playlist item: %w", err)
	}

	r.writePlain("✓ Added %s to %s\n", cmd.String("ref"), id)
	return nil
}

// StudioPlaylistsRemove removes an entry from a playlist.
func (r *Runner) StudioPlaylistsRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	if err := r.studio.RemovePlaylistItem(ctx, id, cmd.String("item")); err != nil {
		return fmt.Errorf("failed to remove playlist item: %w", err)
	}

	r.writePlain("✓ Removed %s from %s\n", cmd.String("item"), id)
	return nil
}

// StudioPlaylistsMove reorders one playlist item.
func (r *Runner) StudioPlaylistsMove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	playlist, err := r.studio.Playlist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	from, to := int(cmd.Int("from")), int(cmd.Int("to"))
	if err := r.studio.MoveItem(ctx, playlist, from, to); err != nil {
		return fmt.Errorf("failed to move playlist item: %w", err)
	}

	r.writePlain("✓ Moved item %d → %d in %s\n", from, to, playlist.Name)
	return nil
}

// StudioStreamsList lists output streams.
func (r *Runner) StudioStreamsList(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.studio.StreamController()

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load streams: %w", err)
	}

	snap := ctrl.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Streams (%d)", len(snap.Items)))
	for _, s := range snap.Items {
		r.writePlain("%s  %s  %s  %d viewers\n", s.ID, s.Title, s.Status, s.Viewers)
	}
	return nil
}

// StudioStreamsStart starts a stream.
func (r *Runner) StudioStreamsStart(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: stream id", shared.ErrMissingArgument)
	}

	if err := r.studio.StartStream(ctx, id); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}

	r.writePlain("✓ Stream started: %s\n", id)
	return nil
}

// StudioStreamsStop stops a stream.
func (r *Runner) StudioStreamsStop(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: stream id", shared.ErrMissingArgument)
	}

	if err := r.studio.StopStream(ctx, id); err != nil {
		return fmt.Errorf("failed to stop stream: %w", err)
	}

	r.writePlain("✓ Stream stopped: %s\n", id)
	return nil
}

// StudioTemplatesList lists marketplace templates.
func (r *Runner) StudioTemplatesList(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.studio.TemplateController()
	if c := cmd.String("category"); c != "" {
		ctrl.SetFilter("category", c)
	}

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	snap := ctrl.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Templates (%d)", len(snap.Items)))
	for _, t := range snap.Items {
		r.writePlain("%s  %s  by %s  ★%.1f  %d downloads\n", t.ID, t.Name, t.Author, t.Rating, t.Downloads)
	}
	return nil
}

// StudioTemplatesLike likes a template.
func (r *Runner) StudioTemplatesLike(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: template id", shared.ErrMissingArgument)
	}

	if err := r.studio.LikeTemplate(ctx, id); err != nil {
		return fmt.Errorf("failed to like template: %w", err)
	}

	r.writePlain("✓ Liked %s\n", id)
	return nil
}

// StudioTemplatesRate rates a template from 1 to 5.
func (r *Runner) StudioTemplatesRate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: template id", shared.ErrMissingArgument)
	}

	if err := r.studio.RateTemplate(ctx, id, int(cmd.Int("stars"))); err != nil {
		return fmt.Errorf("failed to rate template: %w", err)
	}

	r.writePlain("✓ Rated %s: %d stars\n", id, cmd.Int("stars"))
	return nil
}

// StudioTemplatesDownload fetches a template document, printing it or saving
// to a file.
func (r *Runner) StudioTemplatesDownload(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: template id", shared.ErrMissingArgument)
	}

	doc, err := r.studio.DownloadTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to download template: %w", err)
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		return r.writeJSON(doc, true)
	}

	data, err := shared.MarshalJSON(doc, true)
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}

	r.writePlain("✓ Template saved to %s\n", outputPath)
	return nil
}
