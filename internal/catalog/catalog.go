package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// Source provides the five catalog snapshot reads. The Postgres store
// implements it; tests substitute a fake.
type Source interface {
	Clients(ctx context.Context) ([]model.Client, error)
	Campaigns(ctx context.Context) ([]model.Campaign, error)
	Verticals(ctx context.Context) ([]string, error)
	Zipcodes(ctx context.Context) ([]string, error)
	AdIDs(ctx context.Context) ([]string, error)
}

// Catalog is one immutable snapshot of the filter options. Campaigns created
// after the snapshot was taken are invisible until the loader refreshes it.
type Catalog struct {
	Clients   map[string]int64 // client display name -> id
	Campaigns []model.Campaign
	Verticals []string
	Zipcodes  []string
	AdIDs     []string
	GeoIndex  map[string][]string // city -> matching raw campaign names
	LoadedAt  time.Time

	campaignIDs map[string]int64 // raw campaign name -> id
}

// CampaignID resolves a raw campaign name to its identifier.
func (c *Catalog) CampaignID(name string) (int64, bool) {
	id, ok := c.campaignIDs[name]
	return id, ok
}

// Cities returns the selectable city tokens in sorted order.
func (c *Catalog) Cities() []string {
	cities := make([]string, 0, len(c.GeoIndex))
	for city := range c.GeoIndex {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

// Loader fetches catalog snapshots from a Source and reuses them within a
// bounded time window. Readers during a refresh may observe the stale or the
// fresh snapshot; staleness inside the TTL is tolerated.
type Loader struct {
	src    Source
	ttl    time.Duration
	cities []string
	now    func() time.Time

	mu     sync.Mutex
	cached *Catalog
}

// NewLoader creates a catalog loader. cities is the configured list of
// location tokens used to build the geo index.
func NewLoader(src Source, ttl time.Duration, cities []string) *Loader {
	return &Loader{src: src, ttl: ttl, cities: cities, now: time.Now}
}

// Get returns the cached snapshot when it is still within the TTL, loading a
// fresh one otherwise.
func (l *Loader) Get(ctx context.Context) (*Catalog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil && l.now().Sub(l.cached.LoadedAt) < l.ttl {
		return l.cached, nil
	}

	cat, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	l.cached = cat
	return cat, nil
}

func (l *Loader) load(ctx context.Context) (*Catalog, error) {
	clients, err := l.src.Clients(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load clients")
	}
	campaigns, err := l.src.Campaigns(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load campaigns")
	}
	verticals, err := l.src.Verticals(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load verticals")
	}
	zipcodes, err := l.src.Zipcodes(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load zipcodes")
	}
	adIDs, err := l.src.AdIDs(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load ad ids")
	}

	clientIndex := make(map[string]int64, len(clients))
	for _, cl := range clients {
		clientIndex[cl.Name] = cl.ID
	}

	campaignIDs := make(map[string]int64, len(campaigns))
	names := make([]string, 0, len(campaigns))
	for i := range campaigns {
		campaigns[i].CleanName = cleanNamePtr(campaigns[i].Name, campaigns[i].VerticalName)
		campaignIDs[campaigns[i].Name] = campaigns[i].ID
		names = append(names, campaigns[i].Name)
	}

	return &Catalog{
		Clients:     clientIndex,
		Campaigns:   campaigns,
		Verticals:   verticals,
		Zipcodes:    zipcodes,
		AdIDs:       adIDs,
		GeoIndex:    BuildGeoIndex(names, l.cities),
		LoadedAt:    l.now(),
		campaignIDs: campaignIDs,
	}, nil
}
