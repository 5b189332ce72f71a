// README: Entry point; loads config, wires services, starts HTTP server and
// background availability pollers.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/ai"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/config"
	httptransport "github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/http"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/infra"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/maps"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/availability"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/carpark"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/locator"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/tariff"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/onemap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := carpark.LoadDataset(cfg.Data.CarparksFile)
	if err != nil {
		log.Fatalf("load carpark data: %v", err)
	}
	log.Printf("loaded %d carparks from %s", registry.Len(), cfg.Data.CarparksFile)

	var holidays tariff.HolidaySet
	if cfg.Data.HolidaysFile != "" {
		holidays, err = tariff.LoadHolidays(cfg.Data.HolidaysFile)
		if err != nil {
			log.Fatalf("load holidays: %v", err)
		}
	}

	engine := tariff.NewEngine(time.Duration(cfg.Tariff.MaxStayDays) * 24 * time.Hour)

	var availStore *availability.Store
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("postgres init: %v", err)
		}
		carparkStore := carpark.NewStore(dbPool)
		if err := carparkStore.UpsertAll(ctx, registry.All()); err != nil {
			log.Printf("persist carparks: %v", err)
		}
		availStore = availability.NewStore(dbPool)
	}

	availSvc := availability.NewService(availStore)
	go availability.NewHDBPoller(availSvc).RunPoller(ctx, cfg.Availability.HDBPollInterval)
	if cfg.Availability.URAAccessKey != "" {
		go availability.NewURAPoller(availSvc, cfg.Availability.URAAccessKey).RunPoller(ctx, cfg.Availability.URAPollInterval)
	} else {
		log.Print("URA_ACCESS_KEY not set; URA availability disabled")
	}

	var nearby locator.Nearby
	if cfg.Redis.Addr != "" {
		geoStore := locator.NewStore(infra.NewRedis(cfg.Redis.Addr))
		if err := geoStore.Index(ctx, registry.All()); err != nil {
			log.Printf("redis geo index: %v; falling back to in-process scan", err)
		} else {
			nearby = geoStore
		}
	}

	geocoder, err := newGeocoder(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var planner ai.Planner
	if cfg.AI.GeminiKey != "" {
		gp, err := ai.NewGeminiPlanner(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gp.Close()
		planner = gp
	} else {
		log.Print("GEMINI_API_KEY not set; smart search disabled")
	}

	locatorSvc := locator.NewService(registry, geocoder, nearby, availSvc, engine, holidays)

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: httptransport.NewRouter(locatorSvc, planner)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// newGeocoder prefers OneMap and falls back to Google Maps.
func newGeocoder(cfg config.Config) (locator.Geocoder, error) {
	if cfg.OneMap.Email != "" && cfg.OneMap.Password != "" {
		tokens := onemap.NewTokenManager(cfg.OneMap.Email, cfg.OneMap.Password, onemap.DefaultBaseURL, nil)
		return onemap.NewClient(onemap.DefaultBaseURL, tokens, nil), nil
	}
	if cfg.Maps.APIKey != "" {
		return maps.NewGeocoder(cfg.Maps.APIKey)
	}
	return nil, errNoGeocoder
}

var errNoGeocoder = errors.New("no geocoder configured: set ONEMAP_EMAIL/ONEMAP_PASSWORD or MAPS_API_KEY")
