package refresh

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cratepricer/internal/catalogue"
	"cratepricer/internal/marketdata"
	"cratepricer/internal/model"
	"cratepricer/internal/pipeline"
	"cratepricer/internal/store"
)

func fptr(v float64) *float64 { return &v }

func testDaemon(t *testing.T, items []model.Item, opts Options) (*Daemon, *store.Store, *catalogue.MockProvider) {
	t.Helper()

	st := store.New(filepath.Join(t.TempDir(), "collection.json"))
	if err := st.Save(items); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	cat := catalogue.NewMockProvider()
	cat.SearchID = "r1"
	cat.Releases["r1"] = &catalogue.Details{MedianPrice: fptr(20)}

	synth := marketdata.NewSynthesizer(cat, nil, nil)
	valuer := &pipeline.Valuer{Synth: synth, Now: time.Now}
	return NewDaemon(st, valuer, opts), st, cat
}

func TestRunOnceRefreshesPendingItems(t *testing.T) {
	staleEst := 999
	items := []model.Item{
		{
			ID: "pending", Artist: "A", Title: "One",
			ConditionVinyl: model.GradeVGPlus, ConditionSleeve: model.GradeVGPlus,
			NeedsEnrichment: true, EnrichmentStatus: model.EnrichmentPartial,
		},
		{
			ID: "done", Artist: "B", Title: "Two",
			EnrichmentStatus: model.EnrichmentComplete,
			EstimatedValue:   &staleEst,
		},
	}

	d, st, cat := testDaemon(t, items, Options{})

	n, err := d.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 1 {
		t.Fatalf("refreshed %d items, want 1", n)
	}
	if cat.Searches != 1 {
		t.Errorf("catalogue searched %d times, want 1", cat.Searches)
	}

	saved, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, it := range saved {
		switch it.ID {
		case "pending":
			if it.NeedsEnrichment || it.EnrichmentStatus != model.EnrichmentComplete {
				t.Errorf("pending item not enriched: %+v", it)
			}
			if it.EstimatedValue == nil {
				t.Error("pending item has no estimate after refresh")
			}
		case "done":
			if it.EstimatedValue == nil || *it.EstimatedValue != 999 {
				t.Errorf("already-complete item was touched: %+v", it.EstimatedValue)
			}
		}
	}
}

func TestRunOnceHonorsLimit(t *testing.T) {
	var items []model.Item
	for _, id := range []string{"a", "b", "c"} {
		items = append(items, model.Item{
			ID: id, Artist: "X", Title: id,
			ConditionVinyl: model.GradeVGPlus, ConditionSleeve: model.GradeVGPlus,
			NeedsEnrichment: true,
		})
	}

	d, _, _ := testDaemon(t, items, Options{Limit: 2})

	n, err := d.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 2 {
		t.Errorf("refreshed %d items, want 2", n)
	}
}

func TestRunOnceNothingToDo(t *testing.T) {
	items := []model.Item{
		{ID: "sold", Status: model.StatusSold, NeedsEnrichment: true},
		{ID: "done", EnrichmentStatus: model.EnrichmentComplete},
	}

	d, _, cat := testDaemon(t, items, Options{})

	n, err := d.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 0 {
		t.Errorf("refreshed %d items, want 0", n)
	}
	if cat.Searches != 0 {
		t.Errorf("catalogue searched %d times for nothing", cat.Searches)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	d, _, _ := testDaemon(t, nil, Options{Schedule: "not a schedule"})
	if err := d.Start(); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}
