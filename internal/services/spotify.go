// Spotify API implementation of [ArtworkSource]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/akoval/topspin/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album. Images are ordered largest-first,
// per the API's convention.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

// spotifySearchResponse is the album slice of a search response.
type spotifySearchResponse struct {
	Albums struct {
		Items []SpotifyAlbum `json:"items"`
	} `json:"albums"`
}

// SpotifyService implements [ArtworkSource] using the client-credentials flow.
// No user authorization is involved; the search endpoint only needs an app token.
type SpotifyService struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a new Spotify artwork source with the given credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id in credentials", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret in credentials", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyService{
		config:  config,
		baseURL: spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate exchanges the client credentials for an app token and installs a
// token-refreshing HTTP client.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	if _, err := s.config.Token(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	s.httpClient = s.config.Client(ctx)
	return nil
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, result any) error {
	if s.httpClient == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := s.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchAlbum searches for one album by name and artist. An empty artist
// searches by album name alone. Returns nil without error when Spotify has
// no match.
func (s *SpotifyService) SearchAlbum(ctx context.Context, album, artist string) (*ArtworkMatch, error) {
	query := fmt.Sprintf("album:%s", album)
	if artist != "" {
		query += fmt.Sprintf(" artist:%s", artist)
	}
	endpoint := fmt.Sprintf("/search?q=%s&type=album&limit=1", url.QueryEscape(query))

	var response spotifySearchResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, &response); err != nil {
		return nil, err
	}

	if len(response.Albums.Items) == 0 {
		return nil, nil
	}

	found := response.Albums.Items[0]
	match := &ArtworkMatch{AlbumName: found.Name}

	if len(found.Artists) > 0 {
		match.ArtistName = found.Artists[0].Name
	}

	if len(found.Images) > 0 {
		match.CoverURL = found.Images[0].URL
		match.IconURL = found.Images[len(found.Images)-1].URL
	}

	return match, nil
}
