package library

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"learnsync-go/internal/youtube"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateFolder(ctx context.Context, folder *Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockStore) ListFolders(ctx context.Context, userID uuid.UUID) ([]Folder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Folder), args.Error(1)
}

func (m *MockStore) UpdateFolder(ctx context.Context, userID, folderID uuid.UUID, upd FolderUpdate) (*Folder, error) {
	args := m.Called(ctx, userID, folderID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Folder), args.Error(1)
}

func (m *MockStore) DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error {
	args := m.Called(ctx, userID, folderID)
	return args.Error(0)
}

func (m *MockStore) InsertPlaylist(ctx context.Context, userID uuid.UUID, playlist *Playlist, videos []Video) error {
	args := m.Called(ctx, userID, playlist, videos)
	return args.Error(0)
}

func (m *MockStore) ListPlaylists(ctx context.Context, userID, folderID uuid.UUID) ([]Playlist, error) {
	args := m.Called(ctx, userID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Playlist), args.Error(1)
}

func (m *MockStore) GetPlaylist(ctx context.Context, userID, playlistID uuid.UUID) (*Playlist, error) {
	args := m.Called(ctx, userID, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Playlist), args.Error(1)
}

func (m *MockStore) ListVideos(ctx context.Context, userID, playlistID uuid.UUID) ([]Video, error) {
	args := m.Called(ctx, userID, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Video), args.Error(1)
}

func (m *MockStore) DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error {
	args := m.Called(ctx, userID, playlistID)
	return args.Error(0)
}

// MockYouTubeClient is a mock implementation of youtube.Client
type MockYouTubeClient struct {
	mock.Mock
}

func (m *MockYouTubeClient) GetPlaylist(ctx context.Context, playlistID string) (*youtube.Playlist, error) {
	args := m.Called(ctx, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*youtube.Playlist), args.Error(1)
}
