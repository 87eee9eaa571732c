// cratepricer catalogues a vinyl record collection, estimates what each
// item would fetch, and drafts eBay listings for the ones worth selling.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"cratepricer/internal/ai"
	"cratepricer/internal/cache"
	"cratepricer/internal/catalogue"
	"cratepricer/internal/currency"
	"cratepricer/internal/ebay"
	"cratepricer/internal/imagehost"
	"cratepricer/internal/importer"
	"cratepricer/internal/listings"
	"cratepricer/internal/marketdata"
	"cratepricer/internal/model"
	"cratepricer/internal/pipeline"
	"cratepricer/internal/refresh"
	"cratepricer/internal/report"
	"cratepricer/internal/store"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: cratepricer <command> [flags]

Commands:
  import   load items from a CSV or XLSX export and value them
  value    re-run the valuation pass over the collection
  list     print the collection with estimates and suggested prices
  content  print the eBay title, tags and description for one item
  export   write the collection to a CSV file, estimates included
  photo    upload a photo for one item
  daemon   run scheduled re-enrichment in the foreground

Environment (a .env file is honored):
  DISCOGS_TOKEN, GEMINI_API_KEY, IMGBB_API_KEY,
  MARKET_REGION (uk/us/eu), COLLECTION_PATH, CACHE_PATH, EBAY_LISTINGS
`)
	os.Exit(2)
}

type app struct {
	store  *store.Store
	valuer *pipeline.Valuer
	host   imagehost.Host
	region string
}

func newApp() (*app, error) {
	c, err := cache.New(envDefault("CACHE_PATH", "data/cache.json"))
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	var cat catalogue.Provider
	if token := os.Getenv("DISCOGS_TOKEN"); token != "" {
		cat = catalogue.NewClient(token, c)
	}
	var analyzer ai.Analyzer
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		analyzer = ai.NewGeminiAnalyzer(key)
	}
	scraper := listings.NewScraper(os.Getenv("EBAY_LISTINGS") != "", c)

	return &app{
		store:  store.New(envDefault("COLLECTION_PATH", "data/collection.json")),
		valuer: pipeline.NewValuer(marketdata.NewSynthesizer(cat, analyzer, scraper)),
		host:   imagehost.New(os.Getenv("IMGBB_API_KEY")),
		region: envDefault("MARKET_REGION", "uk"),
	}, nil
}

func main() {
	godotenv.Load()
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
	}

	a, err := newApp()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "import":
		err = a.runImport(ctx, os.Args[2:])
	case "value":
		err = a.runValue(ctx, os.Args[2:])
	case "list":
		err = a.runList(os.Args[2:])
	case "content":
		err = a.runContent(os.Args[2:])
	case "export":
		err = a.runExport(os.Args[2:])
	case "photo":
		err = a.runPhoto(ctx, os.Args[2:])
	case "daemon":
		err = a.runDaemon(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func (a *app) runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "CSV or XLSX export to import")
	skipValue := fs.Bool("skip-value", false, "import without running the valuation pass")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("import: -file is required")
	}

	imported, err := importer.FromFile(*file)
	if err != nil {
		return fmt.Errorf("importing %s: %w", *file, err)
	}
	if len(imported) == 0 {
		return fmt.Errorf("no items found in %s", *file)
	}

	if !*skipValue {
		a.valuer.RevalueAll(ctx, imported)
	}

	items, err := a.store.Load()
	if err != nil {
		log.Printf("warning: %v", err)
	}
	items = append(items, imported...)
	if err := a.store.Save(items); err != nil {
		return err
	}

	log.Printf("imported %d item(s), collection now holds %d", len(imported), len(items))
	return nil
}

func (a *app) runValue(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("value", flag.ExitOnError)
	id := fs.String("id", "", "value a single item")
	pending := fs.Bool("pending", false, "only items still waiting on a live source")
	fs.Parse(args)

	items, err := a.store.Load()
	if err != nil {
		return err
	}

	valued := 0
	for i := range items {
		if *id != "" && items[i].ID != *id {
			continue
		}
		if *pending && !items[i].NeedsEnrichment {
			continue
		}
		a.valuer.Revalue(ctx, &items[i])
		valued++
	}
	if *id != "" && valued == 0 {
		return fmt.Errorf("no item with id %s", *id)
	}

	if err := a.store.Save(items); err != nil {
		return err
	}
	log.Printf("valued %d item(s)", valued)
	return nil
}

func (a *app) runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "filter by status (owned/listed/sold)")
	fs.Parse(args)

	items, err := a.store.Load()
	if err != nil {
		return err
	}

	sym := currency.Symbol(a.region)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tARTIST\tTITLE\tCOND\tEST\tASK\tROI\tSTATUS")
	for _, it := range items {
		if *status != "" && string(it.Status) != *status {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.DisplayArtist(), it.DisplayTitle(),
			orDash(string(it.ConditionVinyl)), orDash(string(it.ConditionSleeve)),
			intMoney(it.EstimatedValue, sym), intMoney(it.SuggestedListingPrice, sym),
			pct(it.ROI), it.Status)
	}
	return w.Flush()
}

func (a *app) runContent(args []string) error {
	fs := flag.NewFlagSet("content", flag.ExitOnError)
	id := fs.String("id", "", "item to draft a listing for")
	shipping := fs.Float64("shipping", 4.50, "shipping cost for the fee breakdown")
	packing := fs.Float64("packing", 1.00, "packing materials cost for the fee breakdown")
	fs.Parse(args)

	it, err := a.findItem(*id)
	if err != nil {
		return err
	}

	desc, err := ebay.RenderDescription(it, a.region)
	if err != nil {
		return err
	}

	fmt.Printf("Title: %s\n", ebay.BuildTitle(it))
	fmt.Printf("Tags:  %v\n", ebay.BuildTags(it))
	if it.SuggestedListingPrice != nil {
		fees := ebay.CalculateFees(it.PurchasePrice, float64(*it.SuggestedListingPrice), *shipping, *packing)
		sym := currency.Symbol(a.region)
		fmt.Printf("Ask %s%d  fees %s  break-even %s  floor %s%d\n",
			sym, *it.SuggestedListingPrice,
			currency.Format(fees.TotalFees, a.region),
			currency.Format(fees.BreakEven, a.region),
			sym, fees.SafeFloor)
	}
	if it.EbayStrategy != nil {
		fmt.Printf("Strategy: %+v\n", *it.EbayStrategy)
	}
	fmt.Println()
	fmt.Println(desc)
	return nil
}

func (a *app) runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	file := fs.String("file", "", "destination CSV file (stdout when omitted)")
	fs.Parse(args)

	items, err := a.store.Load()
	if err != nil {
		return err
	}

	out := os.Stdout
	if *file != "" {
		out, err = os.Create(*file)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	return report.ExportCSV(out, items)
}

func (a *app) runPhoto(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("photo", flag.ExitOnError)
	id := fs.String("id", "", "item the photo belongs to")
	file := fs.String("file", "", "image file to upload")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("photo: -file is required")
	}

	items, err := a.store.Load()
	if err != nil {
		return err
	}
	idx := -1
	for i := range items {
		if items[i].ID == *id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no item with id %s", *id)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	photo, err := a.host.Upload(ctx, *file, data)
	if err != nil {
		return err
	}
	items[idx].Photos = append(items[idx].Photos, *photo)

	if err := a.store.Save(items); err != nil {
		return err
	}
	if photo.URL != "" {
		log.Printf("uploaded %s", photo.URL)
	} else {
		log.Printf("stored %s inline (no image host configured)", *file)
	}
	return nil
}

func (a *app) runDaemon(args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	opts := refresh.DefaultOptions()
	fs.StringVar(&opts.Schedule, "schedule", opts.Schedule, "cron schedule for refresh passes")
	fs.IntVar(&opts.Limit, "limit", opts.Limit, "max items refreshed per pass")
	fs.Parse(args)

	d := refresh.NewDaemon(a.store, a.valuer, opts)
	if err := d.Start(); err != nil {
		return err
	}
	log.Printf("refresh daemon running on schedule %q", opts.Schedule)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Print("shutting down")
	d.Stop()
	return nil
}

func (a *app) findItem(id string) (*model.Item, error) {
	if id == "" {
		return nil, fmt.Errorf("-id is required")
	}
	items, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("no item with id %s", id)
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func intMoney(v *int, sym string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%s%d", sym, *v)
}

func pct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *v)
}
