// README: OneMap search client. Geocodes free-text queries against the
// Singapore Land Authority's OneMap elastic search endpoint.
package onemap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

const DefaultBaseURL = "https://www.onemap.gov.sg"

var ErrNotFound = errors.New("onemap: no results for query")

type Client struct {
	baseURL string
	tokens  *TokenManager
	client  *http.Client
}

func NewClient(baseURL string, tokens *TokenManager, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, tokens: tokens, client: client}
}

type searchResponse struct {
	Found   int `json:"found"`
	Results []struct {
		SearchVal string `json:"SEARCHVAL"`
		Latitude  string `json:"LATITUDE"`
		Longitude string `json:"LONGITUDE"`
	} `json:"results"`
}

// Geocode resolves a query like "bugis junction" to a point, taking the top
// search hit.
func (c *Client) Geocode(ctx context.Context, query string) (types.Point, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return types.Point{}, err
	}

	q := url.Values{}
	q.Set("searchVal", query)
	q.Set("returnGeom", "Y")
	q.Set("getAddrDetails", "Y")
	q.Set("pageNum", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/common/elastic/search?"+q.Encode(), nil)
	if err != nil {
		return types.Point{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Point{}, fmt.Errorf("onemap search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Point{}, fmt.Errorf("onemap search: status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return types.Point{}, fmt.Errorf("onemap search response: %w", err)
	}
	if len(sr.Results) == 0 {
		return types.Point{}, ErrNotFound
	}

	top := sr.Results[0]
	lat, err := strconv.ParseFloat(top.Latitude, 64)
	if err != nil {
		return types.Point{}, fmt.Errorf("onemap search response: bad latitude %q", top.Latitude)
	}
	lng, err := strconv.ParseFloat(top.Longitude, 64)
	if err != nil {
		return types.Point{}, fmt.Errorf("onemap search response: bad longitude %q", top.Longitude)
	}
	return types.Point{Lat: lat, Lng: lng}, nil
}
