// README: HDB carpark registry loader (CSV).
package carpark

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

// LoadHDBRegistry reads the HDB carpark information CSV
// (car_park_no, address, x_coord, y_coord, ...). Coordinates are taken as
// published by the registry; the data prep step is responsible for any
// datum conversion before the combined dataset is written.
func LoadHDBRegistry(path string) ([]*Carpark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hdb registry: %w", err)
	}
	defer f.Close()
	return ParseHDBRegistry(f)
}

func ParseHDBRegistry(r io.Reader) ([]*Carpark, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read hdb header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"car_park_no", "address", "x_coord", "y_coord"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("hdb registry missing column %q", required)
		}
	}

	var carparks []*Carpark
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read hdb row: %w", err)
		}
		x, err := strconv.ParseFloat(row[col["x_coord"]], 64)
		if err != nil {
			return nil, fmt.Errorf("carpark %s: bad x_coord: %w", row[col["car_park_no"]], err)
		}
		y, err := strconv.ParseFloat(row[col["y_coord"]], 64)
		if err != nil {
			return nil, fmt.Errorf("carpark %s: bad y_coord: %w", row[col["car_park_no"]], err)
		}
		carparks = append(carparks, &Carpark{
			Code:     row[col["car_park_no"]],
			Address:  row[col["address"]],
			Type:     TypeHDB,
			Position: types.Point{Lat: y, Lng: x},
		})
	}
	return carparks, nil
}
