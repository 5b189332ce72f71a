// README: URA carpark-availability poller (URA data service, token-gated).
package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	uraBaseURL = "https://www.ura.gov.sg/uraDataService"
	// URA tokens are issued per day; refresh a little early.
	uraTokenTTL = 23 * time.Hour
)

type URAPoller struct {
	avail     *Service
	httpc     *http.Client
	baseURL   string
	accessKey string
	now       func() time.Time

	mu      sync.Mutex
	token   string
	tokenAt time.Time
}

func NewURAPoller(avail *Service, accessKey string) *URAPoller {
	return &URAPoller{
		avail:     avail,
		httpc:     &http.Client{Timeout: 15 * time.Second},
		baseURL:   uraBaseURL,
		accessKey: accessKey,
		now:       time.Now,
	}
}

func (p *URAPoller) RunPoller(ctx context.Context, interval time.Duration) {
	if err := p.pollOnce(ctx); err != nil {
		log.Printf("availability: ura poll: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.pollOnce(ctx); err != nil {
				log.Printf("availability: ura poll: %v", err)
			}
		}
	}
}

func (p *URAPoller) pollOnce(ctx context.Context) error {
	token, err := p.currentToken(ctx)
	if err != nil {
		return err
	}

	url := p.baseURL + "/invokeUraDS?service=Car_Park_Availability"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("AccessKey", p.accessKey)
	req.Header.Set("Token", token)

	resp, err := p.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ura feed returned %s", resp.Status)
	}

	updates, err := parseURAFeed(resp.Body)
	if err != nil {
		return err
	}
	p.avail.Apply(ctx, SourceURA, updates)
	return nil
}

// currentToken returns the cached daily token, requesting a fresh one when
// the cached token is near expiry.
func (p *URAPoller) currentToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" && p.now().Sub(p.tokenAt) < uraTokenTTL {
		return p.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/insertNewToken.action", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("AccessKey", p.accessKey)

	resp, err := p.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("ura token request: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"Status"`
		Result string `json:"Result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode ura token: %w", err)
	}
	if body.Status != "Success" || body.Result == "" {
		return "", fmt.Errorf("ura token request failed: status %q", body.Status)
	}

	p.token = body.Result
	p.tokenAt = p.now()
	return p.token, nil
}

// The URA feed publishes available lots only; Total stays 0 and readers use
// the registry's static capacity.
type uraFeed struct {
	Status string `json:"Status"`
	Result []struct {
		CarparkNo     string `json:"carparkNo"`
		LotsAvailable string `json:"lotsAvailable"`
		LotType       string `json:"lotType"`
	} `json:"Result"`
}

func parseURAFeed(r io.Reader) (map[string]Lots, error) {
	var feed uraFeed
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode ura feed: %w", err)
	}
	if feed.Status != "Success" {
		return nil, fmt.Errorf("ura feed status %q", feed.Status)
	}

	updates := make(map[string]Lots)
	for _, entry := range feed.Result {
		lots := updates[entry.CarparkNo]
		if n, err := strconv.Atoi(entry.LotsAvailable); err == nil {
			lots.Available += n
		}
		updates[entry.CarparkNo] = lots
	}
	return updates, nil
}
