// Package refresh periodically re-runs the valuation pass over items whose
// market data never got a live source, so a catalogue or analyzer outage at
// import time heals on its own.
package refresh

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"cratepricer/internal/model"
	"cratepricer/internal/pipeline"
	"cratepricer/internal/store"
)

// Options configures the refresh schedule.
type Options struct {
	Schedule string // cron expression
	Limit    int    // max items refreshed per run, 0 for no limit
}

func DefaultOptions() Options {
	return Options{
		Schedule: "0 3 * * *",
		Limit:    50,
	}
}

// Daemon owns the cron schedule and the refresh pass it triggers.
type Daemon struct {
	store  *store.Store
	valuer *pipeline.Valuer
	opts   Options
	cron   *cron.Cron
}

func NewDaemon(st *store.Store, v *pipeline.Valuer, opts Options) *Daemon {
	if opts.Schedule == "" {
		opts.Schedule = DefaultOptions().Schedule
	}
	return &Daemon{
		store:  st,
		valuer: v,
		opts:   opts,
		cron:   cron.New(),
	}
}

// Start registers the schedule and begins running passes in the background.
func (d *Daemon) Start() error {
	_, err := d.cron.AddFunc(d.opts.Schedule, func() {
		n, err := d.RunOnce(context.Background())
		if err != nil {
			log.Printf("refresh pass failed: %v", err)
			return
		}
		log.Printf("refresh pass complete: %d item(s) re-enriched", n)
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", d.opts.Schedule, err)
	}
	d.cron.Start()
	return nil
}

// Stop halts the schedule. Any in-flight pass runs to completion.
func (d *Daemon) Stop() {
	<-d.cron.Stop().Done()
}

// RunOnce revalues every item still waiting on a live source, up to the
// configured limit, and saves the collection once at the end. Items that
// already have live-sourced data are left alone.
func (d *Daemon) RunOnce(ctx context.Context) (int, error) {
	items, err := d.store.Load()
	if err != nil {
		return 0, fmt.Errorf("loading collection: %w", err)
	}

	refreshed := 0
	for i := range items {
		if !needsRefresh(&items[i]) {
			continue
		}
		if d.opts.Limit > 0 && refreshed >= d.opts.Limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		d.valuer.Revalue(ctx, &items[i])
		refreshed++
	}

	if refreshed == 0 {
		return 0, nil
	}
	if err := d.store.Save(items); err != nil {
		return refreshed, fmt.Errorf("saving collection: %w", err)
	}
	return refreshed, nil
}

func needsRefresh(it *model.Item) bool {
	if it.Status == model.StatusSold {
		return false
	}
	return it.NeedsEnrichment || it.EnrichmentStatus == "" || it.EnrichmentStatus == model.EnrichmentPending
}
