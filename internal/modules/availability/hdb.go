// README: HDB carpark-availability poller (data.gov.sg feed).
package availability

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"encoding/json"
)

const hdbFeedURL = "https://api.data.gov.sg/v1/transport/carpark-availability"

type HDBPoller struct {
	avail *Service
	httpc *http.Client
	url   string
}

func NewHDBPoller(avail *Service) *HDBPoller {
	return &HDBPoller{
		avail: avail,
		httpc: &http.Client{Timeout: 15 * time.Second},
		url:   hdbFeedURL,
	}
}

// RunPoller refreshes the HDB view on a fixed interval until the context is
// cancelled. Feed errors are logged and retried next tick.
func (p *HDBPoller) RunPoller(ctx context.Context, interval time.Duration) {
	if err := p.pollOnce(ctx); err != nil {
		log.Printf("availability: hdb poll: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.pollOnce(ctx); err != nil {
				log.Printf("availability: hdb poll: %v", err)
			}
		}
	}
}

func (p *HDBPoller) pollOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}
	resp, err := p.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hdb feed returned %s", resp.Status)
	}

	updates, err := parseHDBFeed(resp.Body)
	if err != nil {
		return err
	}
	p.avail.Apply(ctx, SourceHDB, updates)
	return nil
}

// The feed publishes counts as strings, one carpark_info entry per lot type.
type hdbFeed struct {
	Items []struct {
		CarparkData []struct {
			CarparkNumber string `json:"carpark_number"`
			CarparkInfo   []struct {
				TotalLots     string `json:"total_lots"`
				LotsAvailable string `json:"lots_available"`
				LotType       string `json:"lot_type"`
			} `json:"carpark_info"`
		} `json:"carpark_data"`
	} `json:"items"`
}

// parseHDBFeed sums counts across lot types per carpark.
func parseHDBFeed(r io.Reader) (map[string]Lots, error) {
	var feed hdbFeed
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode hdb feed: %w", err)
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("hdb feed has no items")
	}

	updates := make(map[string]Lots)
	for _, cp := range feed.Items[0].CarparkData {
		var lots Lots
		for _, info := range cp.CarparkInfo {
			if n, err := strconv.Atoi(info.TotalLots); err == nil {
				lots.Total += n
			}
			if n, err := strconv.Atoi(info.LotsAvailable); err == nil {
				lots.Available += n
			}
		}
		updates[cp.CarparkNumber] = lots
	}
	return updates, nil
}
