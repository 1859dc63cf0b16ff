package launches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"launch-booking/internal/metrics"
	"launch-booking/internal/models"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	// Environment variables
	_ "github.com/joho/godotenv/autoload"
)

// Service is the read-only source of launch data.
type Service interface {
	GetAllLaunches(ctx context.Context) ([]models.Launch, error)
	GetLaunchByID(ctx context.Context, id string) (*models.Launch, error)
	GetLaunchesByIDs(ctx context.Context, ids []string) ([]models.Launch, error)
}

// ErrUpstream is returned when the launch API answers with a non-2xx status.
var ErrUpstream = errors.New("launch api error")

const (
	defaultURL      = "https://api.spacexdata.com/v2/launches"
	defaultCacheTTL = 5 * time.Minute
	fetchTimeout    = 10 * time.Second
	maxFanOut       = 8
)

var (
	SpaceXAPIURL = os.Getenv("SPACEXAPIURL")
	cacheTTL     = os.Getenv("LAUNCH_CACHE_TTL")
)

// launchRecord is the subset of the SpaceX v2 launch document the API exposes.
type launchRecord struct {
	FlightNumber int    `json:"flight_number"`
	MissionName  string `json:"mission_name"`
	Rocket       struct {
		RocketID   string `json:"rocket_id"`
		RocketName string `json:"rocket_name"`
		RocketType string `json:"rocket_type"`
	} `json:"rocket"`
	LaunchSite struct {
		SiteName string `json:"site_name"`
	} `json:"launch_site"`
	Links struct {
		MissionPatch      string `json:"mission_patch"`
		MissionPatchSmall string `json:"mission_patch_small"`
	} `json:"links"`
}

type API struct {
	baseURL string
	client  *http.Client
	cache   *ttlcache.Cache[string, []launchRecord]
	group   singleflight.Group
}

// New builds an API from the SPACEXAPIURL and LAUNCH_CACHE_TTL environment variables.
func New() *API {
	base := SpaceXAPIURL
	if base == "" {
		base = defaultURL
	}
	ttl := defaultCacheTTL
	if cacheTTL != "" {
		d, err := time.ParseDuration(cacheTTL)
		if err != nil {
			log.Printf("Invalid LAUNCH_CACHE_TTL %q, using %s: %v", cacheTTL, defaultCacheTTL, err)
		} else {
			ttl = d
		}
	}
	return NewAPI(base, &http.Client{Timeout: 10 * time.Second}, ttl)
}

func NewAPI(baseURL string, client *http.Client, ttl time.Duration) *API {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []launchRecord](ttl),
		ttlcache.WithDisableTouchOnHit[string, []launchRecord](),
	)
	go cache.Start()

	return &API{
		baseURL: baseURL,
		client:  client,
		cache:   cache,
	}
}

// Close stops the cache janitor.
func (a *API) Close() {
	a.cache.Stop()
}

func (a *API) GetAllLaunches(ctx context.Context) ([]models.Launch, error) {
	records, err := a.fetch(ctx, a.baseURL)
	if err != nil {
		return nil, err
	}
	launches := make([]models.Launch, 0, len(records))
	for _, rec := range records {
		launches = append(launches, reduce(rec))
	}
	return launches, nil
}

// GetLaunchByID returns nil without error when no launch has the given flight number.
func (a *API) GetLaunchByID(ctx context.Context, id string) (*models.Launch, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return nil, nil
	}
	records, err := a.fetch(ctx, a.baseURL+"?flight_number="+url.QueryEscape(id))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	launch := reduce(records[0])
	return &launch, nil
}

// GetLaunchesByIDs fetches launches concurrently. Order follows ids; unknown ids are skipped.
func (a *API) GetLaunchesByIDs(ctx context.Context, ids []string) ([]models.Launch, error) {
	found := make([]*models.Launch, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanOut)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			launch, err := a.GetLaunchByID(gctx, id)
			if err != nil {
				return fmt.Errorf("launch %s: %w", id, err)
			}
			found[i] = launch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	launches := make([]models.Launch, 0, len(ids))
	for _, launch := range found {
		if launch != nil {
			launches = append(launches, *launch)
		}
	}
	return launches, nil
}

// fetch serves u from the cache or collapses concurrent misses into one upstream call.
// The shared call runs detached from any single caller's cancellation; each caller
// still returns as soon as its own ctx is done.
func (a *API) fetch(ctx context.Context, u string) ([]launchRecord, error) {
	if item := a.cache.Get(u); item != nil {
		metrics.LaunchFetches.WithLabelValues(metrics.FetchHit).Inc()
		return item.Value(), nil
	}

	var leader bool
	ch := a.group.DoChan(u, func() (interface{}, error) {
		leader = true
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		records, err := a.get(fetchCtx, u)
		if err != nil {
			metrics.LaunchFetches.WithLabelValues(metrics.FetchError).Inc()
			return nil, err
		}
		metrics.LaunchFetches.WithLabelValues(metrics.FetchMiss).Inc()
		a.cache.Set(u, records, ttlcache.DefaultTTL)
		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if !leader {
			metrics.LaunchFetches.WithLabelValues(metrics.FetchShared).Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]launchRecord), nil
	}
}

func (a *API) get(ctx context.Context, u string) ([]launchRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrUpstream, u, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var records []launchRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode launches: %w", err)
	}
	log.Printf("Received %d launches from %s", len(records), u)
	return records, nil
}

func reduce(rec launchRecord) models.Launch {
	return models.Launch{
		ID:   strconv.Itoa(rec.FlightNumber),
		Site: rec.LaunchSite.SiteName,
		Mission: models.Mission{
			Name:              rec.MissionName,
			MissionPatchSmall: rec.Links.MissionPatchSmall,
			MissionPatchLarge: rec.Links.MissionPatch,
		},
		Rocket: models.Rocket{
			ID:   rec.Rocket.RocketID,
			Name: rec.Rocket.RocketName,
			Type: rec.Rocket.RocketType,
		},
	}
}
