// README: URA carpark registry loader (GeoJSON with HTML property tables).
package carpark

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

type uraFeatureCollection struct {
	Type     string       `json:"type"`
	Features []uraFeature `json:"features"`
}

type uraFeature struct {
	Properties struct {
		Name        string `json:"Name"`
		Description string `json:"Description"`
	} `json:"properties"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

// LoadURARegistry reads the URA parking lot GeoJSON export. Each feature is
// one lot; features sharing a PP_CODE collapse into a single carpark whose
// total lot count is the number of features.
func LoadURARegistry(path string) ([]*Carpark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ura registry: %w", err)
	}
	defer f.Close()
	return ParseURARegistry(f)
}

func ParseURARegistry(r io.Reader) ([]*Carpark, error) {
	var fc uraFeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode ura geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("ura registry is not a FeatureCollection (got %q)", fc.Type)
	}

	byCode := make(map[string]*Carpark)
	var order []string
	for _, feat := range fc.Features {
		props := parseDescriptionTable(feat.Properties.Description)
		code := props["PP_CODE"]
		if code == "" {
			continue
		}
		if cp, ok := byCode[code]; ok {
			cp.TotalLots++
			continue
		}
		pos, ok := featurePosition(feat)
		if !ok {
			continue
		}
		cp := &Carpark{
			Code:      code,
			Address:   props["PARKING_PL"],
			Type:      TypeURA,
			Position:  pos,
			TotalLots: 1,
		}
		if cp.Address == "" {
			cp.Address = "N/A"
		}
		byCode[code] = cp
		order = append(order, code)
	}

	carparks := make([]*Carpark, 0, len(order))
	for _, code := range order {
		carparks = append(carparks, byCode[code])
	}
	return carparks, nil
}

// featurePosition extracts a representative point: the first point of a
// Polygon's outer ring, or the Point itself. GeoJSON orders coordinates
// [lng, lat].
func featurePosition(feat uraFeature) (types.Point, bool) {
	switch feat.Geometry.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(feat.Geometry.Coordinates, &rings); err != nil {
			return types.Point{}, false
		}
		if len(rings) == 0 || len(rings[0]) == 0 || len(rings[0][0]) < 2 {
			return types.Point{}, false
		}
		return types.Point{Lat: rings[0][0][1], Lng: rings[0][0][0]}, true
	case "Point":
		var coords []float64
		if err := json.Unmarshal(feat.Geometry.Coordinates, &coords); err != nil {
			return types.Point{}, false
		}
		if len(coords) < 2 {
			return types.Point{}, false
		}
		return types.Point{Lat: coords[1], Lng: coords[0]}, true
	}
	return types.Point{}, false
}

// parseDescriptionTable walks the HTML table embedded in a feature's
// Description property and returns its th/td key-value rows.
func parseDescriptionTable(desc string) map[string]string {
	props := make(map[string]string)
	if desc == "" {
		return props
	}
	doc, err := html.Parse(strings.NewReader(desc))
	if err != nil {
		return props
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cells := rowCells(n)
			if len(cells) == 2 {
				props[cells[0]] = cells[1]
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return props
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "th" || c.Data == "td") {
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
