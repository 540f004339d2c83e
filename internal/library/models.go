package library

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a user's top-level grouping of playlists.
type Folder struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Icon        string    `json:"icon" db:"icon"`
	Color       string    `json:"color" db:"color"`
	Description string    `json:"description" db:"description"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// PlaylistCount is populated on list queries.
	PlaylistCount int `json:"playlist_count" db:"playlist_count"`
}

// FolderUpdate is a partial folder edit; nil fields keep their current value.
type FolderUpdate struct {
	Name        *string `json:"name"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

// Playlist is an imported YouTube playlist. TotalDuration is in seconds.
type Playlist struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FolderID      uuid.UUID `json:"folder_id" db:"folder_id"`
	YouTubeID     string    `json:"youtube_id" db:"youtube_id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	ThumbnailURL  string    `json:"thumbnail_url" db:"thumbnail_url"`
	ChannelTitle  string    `json:"channel_title" db:"channel_title"`
	ChannelID     string    `json:"channel_id" db:"channel_id"`
	VideoCount    int       `json:"video_count" db:"video_count"`
	TotalDuration int       `json:"total_duration" db:"total_duration"`
	URL           string    `json:"url" db:"url"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	// CompletedCount is the caller's completed videos in this playlist,
	// populated on list queries.
	CompletedCount int `json:"completed_count" db:"completed_count"`
}

// Video is one entry of an imported playlist. Duration is in seconds.
type Video struct {
	ID           uuid.UUID `json:"id" db:"id"`
	PlaylistID   uuid.UUID `json:"playlist_id" db:"playlist_id"`
	YouTubeID    string    `json:"youtube_id" db:"youtube_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	ThumbnailURL string    `json:"thumbnail_url" db:"thumbnail_url"`
	Duration     int       `json:"duration" db:"duration"`
	URL          string    `json:"url" db:"url"`
	Position     int       `json:"position" db:"position"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Completed reflects the caller's progress, populated on list queries.
	Completed bool `json:"completed" db:"completed"`
}
