package pipeline

import (
	"sync"
	"time"

	"citrusflow/config"
	"citrusflow/internal/analytics"
	"citrusflow/internal/clean"
	"citrusflow/internal/ingest"
	"citrusflow/internal/memo"
	"citrusflow/logger"
)

// Pipeline owns the current dataset and the memoized analysis views over
// it. Load replaces the dataset; views computed against the old dataset
// stay in the cache but become unreachable because every key includes the
// dataset fingerprint.
type Pipeline struct {
	cfg   *config.Config
	cache *memo.Cache
	log   *logger.Entry

	mu sync.RWMutex
	ds *analytics.Dataset
}

// New builds a pipeline for the configured input. Call Load before
// requesting views.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		cache: memo.NewCache(),
		log:   logger.GetLogger().WithComponent("pipeline"),
	}
}

// Load reads the configured CSV, cleans it, and annotates global
// repurchase counts. Safe to call again to pick up a changed input file.
func (p *Pipeline) Load() error {
	started := time.Now()

	table, err := ingest.ReadFile(p.cfg.Input.Path)
	if err != nil {
		return err
	}

	ds := clean.Clean(table)
	analytics.AnnotateRepurchase(ds)

	p.mu.Lock()
	p.ds = ds
	p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"rows":        len(ds.Orders),
		"fields":      len(ds.Fields()),
		"fingerprint": ds.Fingerprint[:12],
		"duration":    time.Since(started).String(),
	}).Info("dataset loaded")
	return nil
}

// Dataset returns the currently loaded dataset, or nil before Load.
func (p *Pipeline) Dataset() *analytics.Dataset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ds
}

// CacheStats reports the view cache hit and miss counters.
func (p *Pipeline) CacheStats() (hits, misses uint64) {
	return p.cache.Stats()
}

func (p *Pipeline) view(name string, params interface{}, fn func(*analytics.Dataset) interface{}) (interface{}, error) {
	ds := p.Dataset()
	if ds == nil {
		return nil, ingest.ErrNoInput
	}
	return p.cache.Get(memo.Key(ds.Fingerprint, name, params), func() (interface{}, error) {
		return fn(ds), nil
	})
}

// Overview returns the dataset-wide scorecard.
func (p *Pipeline) Overview() (analytics.OverviewReport, error) {
	v, err := p.view("overview", nil, func(ds *analytics.Dataset) interface{} {
		return analytics.Overview(ds)
	})
	if err != nil {
		return analytics.OverviewReport{}, err
	}
	return v.(analytics.OverviewReport), nil
}

// Sellers returns per-seller scorecards, total revenue descending, with
// the configured active-window flag applied.
func (p *Pipeline) Sellers() ([]analytics.SellerSummary, error) {
	window := p.cfg.Analysis.ActiveWindowDays
	v, err := p.view("sellers", window, func(ds *analytics.Dataset) interface{} {
		summaries := analytics.SellerSummaries(ds)
		analytics.MarkActive(summaries, window)
		return summaries
	})
	if err != nil {
		return nil, err
	}
	return v.([]analytics.SellerSummary), nil
}

// SellerRepurchase ranks sellers by distinct-date repurchase rate over
// the configured minimum customer count.
func (p *Pipeline) SellerRepurchase() ([]analytics.SellerSummary, error) {
	minCustomers := p.cfg.Analysis.MinSellerCustomers
	v, err := p.view("seller_repurchase", minCustomers, func(ds *analytics.Dataset) interface{} {
		return analytics.SellerRepurchaseByDate(ds, minCustomers)
	})
	if err != nil {
		return nil, err
	}
	return v.([]analytics.SellerSummary), nil
}

// Regions returns per-region stats with the configured high-revenue
// seller quantile.
func (p *Pipeline) Regions() (analytics.RegionReport, error) {
	q := p.cfg.Analysis.HighRevenueQuantile
	v, err := p.view("regions", q, func(ds *analytics.Dataset) interface{} {
		return analytics.RegionStats(ds, q)
	})
	if err != nil {
		return analytics.RegionReport{}, err
	}
	return v.(analytics.RegionReport), nil
}

// Trends returns the daily, channel, hourly, and weekday views.
func (p *Pipeline) Trends() (analytics.TrendReport, error) {
	v, err := p.view("trends", nil, func(ds *analytics.Dataset) interface{} {
		return analytics.Trends(ds)
	})
	if err != nil {
		return analytics.TrendReport{}, err
	}
	return v.(analytics.TrendReport), nil
}

// Products returns the product-planning views.
func (p *Pipeline) Products() (analytics.ProductReport, error) {
	topN := p.cfg.Analysis.TopN
	v, err := p.view("products", topN, func(ds *analytics.Dataset) interface{} {
		return analytics.ProductStats(ds, topN)
	})
	if err != nil {
		return analytics.ProductReport{}, err
	}
	return v.(analytics.ProductReport), nil
}

// Cancellations ranks products by cancellation rate over the configured
// minimum order count.
func (p *Pipeline) Cancellations() ([]analytics.ProductCancellation, error) {
	params := struct {
		MinOrders int `json:"min_orders"`
		TopN      int `json:"top_n"`
	}{p.cfg.Analysis.MinProductOrders, p.cfg.Analysis.TopN}
	v, err := p.view("cancellations", params, func(ds *analytics.Dataset) interface{} {
		return analytics.CancellationRates(ds, params.MinOrders, params.TopN)
	})
	if err != nil {
		return nil, err
	}
	return v.([]analytics.ProductCancellation), nil
}
