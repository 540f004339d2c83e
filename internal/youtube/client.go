package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrInvalidURL       = errors.New("not a recognizable playlist url")
)

const (
	apiBase = "https://www.googleapis.com/youtube/v3"

	// The Data API caps page size at 50.
	pageSize = 50
)

// Playlist is the imported metadata for one public playlist.
type Playlist struct {
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	ThumbnailURL string
	Videos       []Video
}

// Video is one playlist entry. Duration is in seconds.
type Video struct {
	ID           string
	Title        string
	Description  string
	ThumbnailURL string
	Position     int
	Duration     int
	PublishedAt  time.Time
}

// Client fetches public playlist data from the YouTube Data API v3.
type Client interface {
	GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error)
}

type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) Client {
	return &client{
		apiKey:  apiKey,
		baseURL: apiBase,
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

var playlistURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/playlist/([A-Za-z0-9_-]+)`),
}

// ExtractPlaylistID pulls the playlist ID out of a watch or playlist URL. A
// bare ID passes through unchanged.
func ExtractPlaylistID(raw string) (string, error) {
	for _, pattern := range playlistURLPatterns {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			return m[1], nil
		}
	}
	if regexp.MustCompile(`^[A-Za-z0-9_-]+$`).MatchString(raw) {
		return raw, nil
	}
	return "", ErrInvalidURL
}

type playlistResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string     `json:"title"`
			Description  string     `json:"description"`
			ChannelTitle string     `json:"channelTitle"`
			Thumbnails   thumbnails `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title       string     `json:"title"`
			Description string     `json:"description"`
			Position    int        `json:"position"`
			PublishedAt time.Time  `json:"publishedAt"`
			Thumbnails  thumbnails `json:"thumbnails"`
			ResourceID  struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type thumbnails struct {
	Medium struct {
		URL string `json:"url"`
	} `json:"medium"`
	Default struct {
		URL string `json:"url"`
	} `json:"default"`
}

func (t thumbnails) best() string {
	if t.Medium.URL != "" {
		return t.Medium.URL
	}
	return t.Default.URL
}

// GetPlaylist fetches the playlist metadata, every item across pages, and the
// duration of each video.
func (c *client) GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	var meta playlistResponse
	err := c.get(ctx, "/playlists", url.Values{
		"part": {"snippet"},
		"id":   {playlistID},
	}, &meta)
	if err != nil {
		return nil, err
	}
	if len(meta.Items) == 0 {
		return nil, ErrPlaylistNotFound
	}

	playlist := &Playlist{
		ID:           meta.Items[0].ID,
		Title:        meta.Items[0].Snippet.Title,
		Description:  meta.Items[0].Snippet.Description,
		ChannelTitle: meta.Items[0].Snippet.ChannelTitle,
		ThumbnailURL: meta.Items[0].Snippet.Thumbnails.best(),
	}

	pageToken := ""
	for {
		var page playlistItemsResponse
		params := url.Values{
			"part":       {"snippet"},
			"playlistId": {playlistID},
			"maxResults": {strconv.Itoa(pageSize)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}
		if err := c.get(ctx, "/playlistItems", params, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			// Deleted and private entries come back with no video ID.
			if item.Snippet.ResourceID.VideoID == "" {
				continue
			}
			playlist.Videos = append(playlist.Videos, Video{
				ID:           item.Snippet.ResourceID.VideoID,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				ThumbnailURL: item.Snippet.Thumbnails.best(),
				Position:     item.Snippet.Position,
				PublishedAt:  item.Snippet.PublishedAt,
			})
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if err := c.fillDurations(ctx, playlist.Videos); err != nil {
		return nil, err
	}
	return playlist, nil
}

// fillDurations resolves video durations in batches of 50 IDs per call. A
// video can appear more than once in a playlist, so positions are tracked per
// ID and every occurrence gets the duration.
func (c *client) fillDurations(ctx context.Context, videos []Video) error {
	positions := make(map[string][]int, len(videos))
	ids := make([]string, 0, len(videos))
	for i := range videos {
		if _, seen := positions[videos[i].ID]; !seen {
			ids = append(ids, videos[i].ID)
		}
		positions[videos[i].ID] = append(positions[videos[i].ID], i)
	}

	for start := 0; start < len(ids); start += pageSize {
		end := start + pageSize
		if end > len(ids) {
			end = len(ids)
		}

		var resp videosResponse
		err := c.get(ctx, "/videos", url.Values{
			"part": {"contentDetails"},
			"id":   {strings.Join(ids[start:end], ",")},
		}, &resp)
		if err != nil {
			return err
		}

		for _, item := range resp.Items {
			for _, i := range positions[item.ID] {
				videos[i].Duration = ParseDuration(item.ContentDetails.Duration)
			}
		}
	}
	return nil
}

func (c *client) get(ctx context.Context, path string, params url.Values, dest any) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call youtube api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube api request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts an ISO 8601 duration like PT1H23M45S to seconds.
// Unparseable input yields zero.
func ParseDuration(iso string) int {
	m := durationPattern.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}

	atoi := func(s string) int {
		if s == "" {
			return 0
		}
		n, _ := strconv.Atoi(s)
		return n
	}
	return atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3])
}
