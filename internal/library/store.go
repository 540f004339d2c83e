package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFolderNotFound     = errors.New("folder not found")
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store persists the folder/playlist/video hierarchy. Ownership is enforced
// in SQL: every read and write is scoped to the calling user.
type Store interface {
	CreateFolder(ctx context.Context, folder *Folder) error
	ListFolders(ctx context.Context, userID uuid.UUID) ([]Folder, error)
	UpdateFolder(ctx context.Context, userID, folderID uuid.UUID, upd FolderUpdate) (*Folder, error)
	DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error

	InsertPlaylist(ctx context.Context, userID uuid.UUID, playlist *Playlist, videos []Video) error
	ListPlaylists(ctx context.Context, userID, folderID uuid.UUID) ([]Playlist, error)
	GetPlaylist(ctx context.Context, userID, playlistID uuid.UUID) (*Playlist, error)
	ListVideos(ctx context.Context, userID, playlistID uuid.UUID) ([]Video, error)
	DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error
}

type postgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStorageUnavailable)
}

func (s *postgresStore) CreateFolder(ctx context.Context, folder *Folder) error {
	err := s.db.GetContext(ctx, folder, `
		INSERT INTO folders (user_id, name, icon, color, description, position)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM folders WHERE user_id = $1))
		RETURNING *, 0 AS playlist_count`,
		folder.UserID, folder.Name, folder.Icon, folder.Color, folder.Description)
	if err != nil {
		return storageErr("create folder", err)
	}
	return nil
}

func (s *postgresStore) ListFolders(ctx context.Context, userID uuid.UUID) ([]Folder, error) {
	folders := []Folder{}
	err := s.db.SelectContext(ctx, &folders, `
		SELECT f.*, COUNT(p.id) AS playlist_count
		FROM folders f
		LEFT JOIN playlists p ON p.folder_id = f.id
		WHERE f.user_id = $1
		GROUP BY f.id
		ORDER BY f.position`, userID)
	if err != nil {
		return nil, storageErr("list folders", err)
	}
	return folders, nil
}

// UpdateFolder applies a partial edit; nil fields are left untouched.
func (s *postgresStore) UpdateFolder(ctx context.Context, userID, folderID uuid.UUID, upd FolderUpdate) (*Folder, error) {
	folder := &Folder{}
	err := s.db.GetContext(ctx, folder, `
		UPDATE folders
		SET name        = COALESCE($3, name),
			icon        = COALESCE($4, icon),
			color       = COALESCE($5, color),
			description = COALESCE($6, description),
			updated_at  = now()
		WHERE id = $1 AND user_id = $2
		RETURNING *, 0 AS playlist_count`,
		folderID, userID, upd.Name, upd.Icon, upd.Color, upd.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrFolderNotFound
		}
		return nil, storageErr("update folder", err)
	}
	return folder, nil
}

func (s *postgresStore) DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM folders WHERE id = $1 AND user_id = $2`, folderID, userID)
	if err != nil {
		return storageErr("delete folder", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete folder", err)
	}
	if rows == 0 {
		return ErrFolderNotFound
	}
	return nil
}

// InsertPlaylist writes the playlist and all of its videos in one
// transaction, after verifying the target folder belongs to the user.
func (s *postgresStore) InsertPlaylist(ctx context.Context, userID uuid.UUID, playlist *Playlist, videos []Video) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("import playlist", err)
	}
	defer tx.Rollback()

	var owned bool
	err = tx.GetContext(ctx, &owned, `
		SELECT EXISTS(SELECT 1 FROM folders WHERE id = $1 AND user_id = $2)`,
		playlist.FolderID, userID)
	if err != nil {
		return storageErr("import playlist", err)
	}
	if !owned {
		return ErrFolderNotFound
	}

	err = tx.GetContext(ctx, playlist, `
		INSERT INTO playlists (folder_id, youtube_id, title, description,
			thumbnail_url, channel_title, channel_id, video_count, total_duration, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING *, 0 AS completed_count`,
		playlist.FolderID, playlist.YouTubeID, playlist.Title, playlist.Description,
		playlist.ThumbnailURL, playlist.ChannelTitle, playlist.ChannelID,
		playlist.VideoCount, playlist.TotalDuration, playlist.URL)
	if err != nil {
		return storageErr("import playlist", err)
	}

	for i := range videos {
		videos[i].PlaylistID = playlist.ID
		err = tx.GetContext(ctx, &videos[i], `
			INSERT INTO videos (playlist_id, youtube_id, title, description,
				thumbnail_url, duration, url, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *, FALSE AS completed`,
			videos[i].PlaylistID, videos[i].YouTubeID, videos[i].Title,
			videos[i].Description, videos[i].ThumbnailURL, videos[i].Duration,
			videos[i].URL, videos[i].Position)
		if err != nil {
			return storageErr("import playlist videos", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("import playlist", err)
	}
	return nil
}

func (s *postgresStore) ListPlaylists(ctx context.Context, userID, folderID uuid.UUID) ([]Playlist, error) {
	playlists := []Playlist{}
	err := s.db.SelectContext(ctx, &playlists, `
		SELECT p.*,
			COUNT(up.video_id) FILTER (WHERE up.completed) AS completed_count
		FROM playlists p
		JOIN folders f ON f.id = p.folder_id
		LEFT JOIN videos v ON v.playlist_id = p.id
		LEFT JOIN user_progress up
			ON up.video_id = v.id AND up.user_id = $1
		WHERE p.folder_id = $2 AND f.user_id = $1
		GROUP BY p.id
		ORDER BY p.created_at`, userID, folderID)
	if err != nil {
		return nil, storageErr("list playlists", err)
	}
	return playlists, nil
}

func (s *postgresStore) GetPlaylist(ctx context.Context, userID, playlistID uuid.UUID) (*Playlist, error) {
	playlist := &Playlist{}
	err := s.db.GetContext(ctx, playlist, `
		SELECT p.*,
			COUNT(up.video_id) FILTER (WHERE up.completed) AS completed_count
		FROM playlists p
		JOIN folders f ON f.id = p.folder_id
		LEFT JOIN videos v ON v.playlist_id = p.id
		LEFT JOIN user_progress up
			ON up.video_id = v.id AND up.user_id = $1
		WHERE p.id = $2 AND f.user_id = $1
		GROUP BY p.id`, userID, playlistID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlaylistNotFound
		}
		return nil, storageErr("get playlist", err)
	}
	return playlist, nil
}

func (s *postgresStore) ListVideos(ctx context.Context, userID, playlistID uuid.UUID) ([]Video, error) {
	videos := []Video{}
	err := s.db.SelectContext(ctx, &videos, `
		SELECT v.*, COALESCE(up.completed, FALSE) AS completed
		FROM videos v
		JOIN playlists p ON p.id = v.playlist_id
		JOIN folders f ON f.id = p.folder_id
		LEFT JOIN user_progress up
			ON up.video_id = v.id AND up.user_id = $1
		WHERE v.playlist_id = $2 AND f.user_id = $1
		ORDER BY v.position`, userID, playlistID)
	if err != nil {
		return nil, storageErr("list videos", err)
	}
	return videos, nil
}

func (s *postgresStore) DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM playlists p
		USING folders f
		WHERE p.id = $1 AND f.id = p.folder_id AND f.user_id = $2`,
		playlistID, userID)
	if err != nil {
		return storageErr("delete playlist", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete playlist", err)
	}
	if rows == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}
