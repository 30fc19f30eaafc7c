// Package omdb wraps the OMDb movie metadata API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
)

// ErrNotFound means the API answered but matched no title. It is signaled
// in the response body, not via an HTTP status.
var ErrNotFound = errors.New("omdb: title not found")

// requestTimeout caps one outbound call so a slow API cannot hang the
// triggering request indefinitely.
const requestTimeout = 8 * time.Second

// Movie is the normalized OMDb result.
type Movie struct {
	IMDbID         string
	Title          string
	Year           string
	Rated          string
	Released       string
	Runtime        string
	Genre          string
	Director       string
	Writer         string
	Actors         string
	Plot           string
	Language       string
	Country        string
	Awards         string
	PosterURL      string
	IMDbRating     *float64
	RottenTomatoes string
	Metacritic     string
	Type           string
	BoxOffice      string
	Production     string
	Website        string
}

// Client is the OMDb API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new OMDb API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// FetchByTitle looks a movie up by title and, when non-zero, release year.
func (c *Client) FetchByTitle(ctx context.Context, title string, year int) (*Movie, error) {
	params := url.Values{}
	params.Set("t", title)
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}
	return c.fetch(ctx, params)
}

// FetchByID looks a movie up by its IMDb ID.
func (c *Client) FetchByID(ctx context.Context, imdbID string) (*Movie, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	return c.fetch(ctx, params)
}

// payload mirrors the flat OMDb response. A failed lookup arrives as
// Response == "False" with an Error message, alongside HTTP 200.
type payload struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`

	IMDbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Language   string `json:"Language"`
	Country    string `json:"Country"`
	Awards     string `json:"Awards"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
	Metascore  string `json:"Metascore"`
	Type       string `json:"Type"`
	BoxOffice  string `json:"BoxOffice"`
	Production string `json:"Production"`
	Website    string `json:"Website"`
	Ratings    []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

func (c *Client) fetch(ctx context.Context, params url.Values) (*Movie, error) {
	params.Set("apikey", c.apiKey)
	params.Set("plot", "full")
	reqURL := c.baseURL + "?" + params.Encode()

	var result *Movie
	err := retry.Do(
		func() error {
			m, err := c.doRequest(ctx, reqURL)
			if err != nil {
				return err
			}
			result = m
			return nil
		},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		// A clean "not found" answer is final; only transport-level
		// failures are worth retrying.
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrNotFound)
		}),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*Movie, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("omdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb returned status %d", resp.StatusCode)
	}

	var p payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode omdb response: %w", err)
	}

	if p.Response == "False" {
		slog.Warn("omdb lookup missed", "reason", p.Error)
		return nil, ErrNotFound
	}

	return p.normalize(), nil
}

func (p *payload) normalize() *Movie {
	m := &Movie{
		IMDbID:     clean(p.IMDbID),
		Title:      clean(p.Title),
		Year:       clean(p.Year),
		Rated:      clean(p.Rated),
		Released:   clean(p.Released),
		Runtime:    clean(p.Runtime),
		Genre:      clean(p.Genre),
		Director:   clean(p.Director),
		Writer:     clean(p.Writer),
		Actors:     clean(p.Actors),
		Plot:       clean(p.Plot),
		Language:   clean(p.Language),
		Country:    clean(p.Country),
		Awards:     clean(p.Awards),
		PosterURL:  clean(p.Poster),
		Metacritic: clean(p.Metascore),
		Type:       clean(p.Type),
		BoxOffice:  clean(p.BoxOffice),
		Production: clean(p.Production),
		Website:    clean(p.Website),
	}

	if v, err := strconv.ParseFloat(p.IMDbRating, 64); err == nil {
		m.IMDbRating = &v
	}

	for _, r := range p.Ratings {
		if r.Source == "Rotten Tomatoes" {
			m.RottenTomatoes = r.Value
			break
		}
	}

	return m
}

// clean maps OMDb's "N/A" placeholder to an empty string.
func clean(s string) string {
	if s == "N/A" {
		return ""
	}
	return s
}
