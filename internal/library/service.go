package library

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"learnsync-go/internal/youtube"
)

// Service owns the import flow and folder/playlist management.
type Service interface {
	CreateFolder(ctx context.Context, userID uuid.UUID, name, icon, color, description string) (*Folder, error)
	ListFolders(ctx context.Context, userID uuid.UUID) ([]Folder, error)
	UpdateFolder(ctx context.Context, userID, folderID uuid.UUID, upd FolderUpdate) (*Folder, error)
	DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error

	ImportPlaylist(ctx context.Context, userID, folderID uuid.UUID, playlistURL string) (*Playlist, error)
	ListPlaylists(ctx context.Context, userID, folderID uuid.UUID) ([]Playlist, error)
	GetPlaylistWithVideos(ctx context.Context, userID, playlistID uuid.UUID) (*Playlist, []Video, error)
	DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error
}

type service struct {
	store   Store
	youtube youtube.Client
	logger  *slog.Logger
}

func NewService(store Store, yt youtube.Client, logger *slog.Logger) Service {
	return &service{store: store, youtube: yt, logger: logger}
}

func (s *service) CreateFolder(ctx context.Context, userID uuid.UUID, name, icon, color, description string) (*Folder, error) {
	folder := &Folder{
		UserID:      userID,
		Name:        name,
		Icon:        icon,
		Color:       color,
		Description: description,
	}
	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *service) ListFolders(ctx context.Context, userID uuid.UUID) ([]Folder, error) {
	return s.store.ListFolders(ctx, userID)
}

func (s *service) UpdateFolder(ctx context.Context, userID, folderID uuid.UUID, upd FolderUpdate) (*Folder, error) {
	return s.store.UpdateFolder(ctx, userID, folderID, upd)
}

func (s *service) DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error {
	return s.store.DeleteFolder(ctx, userID, folderID)
}

// ImportPlaylist resolves the URL, pulls the playlist and every video from
// the YouTube API, and stores the whole set in one transaction.
func (s *service) ImportPlaylist(ctx context.Context, userID, folderID uuid.UUID, playlistURL string) (*Playlist, error) {
	ytID, err := youtube.ExtractPlaylistID(playlistURL)
	if err != nil {
		return nil, err
	}

	fetched, err := s.youtube.GetPlaylist(ctx, ytID)
	if err != nil {
		return nil, err
	}

	totalDuration := 0
	videos := make([]Video, 0, len(fetched.Videos))
	for _, v := range fetched.Videos {
		totalDuration += v.Duration
		videos = append(videos, Video{
			YouTubeID:    v.ID,
			Title:        v.Title,
			Description:  v.Description,
			ThumbnailURL: v.ThumbnailURL,
			Duration:     v.Duration,
			URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s&list=%s", v.ID, ytID),
			Position:     v.Position,
		})
	}

	playlist := &Playlist{
		FolderID:      folderID,
		YouTubeID:     ytID,
		Title:         fetched.Title,
		Description:   fetched.Description,
		ThumbnailURL:  fetched.ThumbnailURL,
		ChannelTitle:  fetched.ChannelTitle,
		VideoCount:    len(videos),
		TotalDuration: totalDuration,
		URL:           "https://www.youtube.com/playlist?list=" + ytID,
	}

	if err := s.store.InsertPlaylist(ctx, userID, playlist, videos); err != nil {
		return nil, err
	}

	s.logger.Info("playlist imported",
		"user_id", userID, "playlist_id", playlist.ID, "videos", len(videos))
	return playlist, nil
}

func (s *service) ListPlaylists(ctx context.Context, userID, folderID uuid.UUID) ([]Playlist, error) {
	return s.store.ListPlaylists(ctx, userID, folderID)
}

func (s *service) GetPlaylistWithVideos(ctx context.Context, userID, playlistID uuid.UUID) (*Playlist, []Video, error) {
	playlist, err := s.store.GetPlaylist(ctx, userID, playlistID)
	if err != nil {
		return nil, nil, err
	}
	videos, err := s.store.ListVideos(ctx, userID, playlistID)
	if err != nil {
		return nil, nil, err
	}
	return playlist, videos, nil
}

func (s *service) DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error {
	return s.store.DeletePlaylist(ctx, userID, playlistID)
}
