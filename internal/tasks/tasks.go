// package tasks implements background playlist operations.
package tasks

import (
	"context"

	"github.com/desertthunder/openmusic/internal/formatter"
	"github.com/desertthunder/openmusic/internal/models"
)

// PlaylistExporter loads a playlist with its full song records.
type PlaylistExporter interface {
	ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error)
}

// Engine runs playlist tasks against an exporter.
type Engine struct {
	exporter PlaylistExporter
}

// NewEngine creates an Engine backed by exporter.
func NewEngine(exporter PlaylistExporter) *Engine {
	return &Engine{exporter: exporter}
}

// PlaylistExportJob is a loaded playlist waiting to be written.
type PlaylistExportJob struct {
	PlaylistID string
	Export     *models.PlaylistExport
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   string
	PlaylistName string
	Success      bool
	Files        []string
	Error        error
}

// BulkExportResult aggregates a bulk export run.
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []PlaylistExportResult
}

// Manifest converts the result into its on-disk summary.
func (r *BulkExportResult) Manifest(format formatter.Format) *formatter.ExportManifest {
	manifest := &formatter.ExportManifest{
		Format:            format,
		TotalPlaylists:    r.TotalPlaylists,
		SuccessfulExports: r.SuccessfulExports,
		FailedExports:     r.FailedExports,
		Playlists:         make([]formatter.ManifestEntry, 0, len(r.Results)),
	}

	for _, res := range r.Results {
		entry := formatter.ManifestEntry{
			PlaylistID:   res.PlaylistID,
			PlaylistName: res.PlaylistName,
			Status:       "success",
			Files:        res.Files,
		}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		manifest.Playlists = append(manifest.Playlists, entry)
	}
	return manifest
}
