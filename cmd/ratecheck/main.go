// README: CLI that prices a parking stay against the combined dataset;
// useful for sanity-checking tariff data without running the server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/carpark"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/tariff"
)

func main() {
	var (
		dataFile     = flag.String("data", envOrDefault("CARPARK_DATA_FILE", "data/combined_carpark_data.json"), "Combined carpark dataset path")
		holidaysFile = flag.String("holidays", envOrDefault("CARPARK_HOLIDAYS_FILE", ""), "Public holiday JSON path (optional)")
		code         = flag.String("carpark", "", "Carpark code, e.g. P0023")
		startStr     = flag.String("start", "", "Stay start, e.g. 2025-07-07T09:00")
		endStr       = flag.String("end", "", "Stay end, e.g. 2025-07-07T11:30")
	)
	flag.Parse()

	if *code == "" || *startStr == "" || *endStr == "" {
		fmt.Fprintln(os.Stderr, "usage: ratecheck -carpark CODE -start TIME -end TIME [-data FILE] [-holidays FILE]")
		os.Exit(2)
	}

	start, err := parseTime(*startStr)
	if err != nil {
		fatalf("bad -start: %v", err)
	}
	end, err := parseTime(*endStr)
	if err != nil {
		fatalf("bad -end: %v", err)
	}

	registry, err := carpark.LoadDataset(*dataFile)
	if err != nil {
		fatalf("load dataset: %v", err)
	}

	var holidays tariff.HolidaySet
	if *holidaysFile != "" {
		holidays, err = tariff.LoadHolidays(*holidaysFile)
		if err != nil {
			fatalf("load holidays: %v", err)
		}
	}

	cp, ok := registry.Get(*code)
	if !ok {
		fatalf("carpark %s not in dataset", *code)
	}

	cost, err := tariff.NewEngine(0).Cost(cp.Schedule, holidays, start, end)
	if err != nil {
		fatalf("estimate: %v", err)
	}

	fmt.Printf("%s  %s\n", cp.Code, cp.Address)
	fmt.Printf("%s -> %s (%s): %s\n", start.Format("Mon 2006-01-02 15:04"), end.Format("Mon 2006-01-02 15:04"), end.Sub(start), cost)
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
