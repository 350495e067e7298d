// Command hexgen generates a hex terrain map, records the run, and can
// serve the result over HTTP.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexmap/internal/api"
	"github.com/talgya/hexmap/internal/logging"
	"github.com/talgya/hexmap/internal/mapgen"
	"github.com/talgya/hexmap/internal/navigation"
	"github.com/talgya/hexmap/internal/persistence"
	"github.com/talgya/hexmap/internal/world"
)

func main() {
	configPath := flag.String("config", envOrDefault("HEXMAP_CONFIG", "hexmap.yaml"), "YAML generation profile")
	size := flag.String("size", envOrDefault("HEXMAP_SIZE", "small"), "preset map size: small, medium or large")
	width := flag.Int("width", envIntOrDefault("HEXMAP_WIDTH", 0), "map width in cells, overrides -size")
	height := flag.Int("height", envIntOrDefault("HEXMAP_HEIGHT", 0), "map height in cells, overrides -size")
	seed := flag.Int64("seed", -1, "fixed seed, overrides the profile (-1 keeps it)")
	dbPath := flag.String("db", envOrDefault("HEXMAP_DB", "data/hexmap.db"), "run ledger path, empty disables it")
	history := flag.Int("history", 0, "list this many recent runs and exit")
	preview := flag.Bool("preview", true, "print an ASCII preview of the map")
	serve := flag.Bool("serve", false, "serve the query API after generating")
	port := flag.Int("port", envIntOrDefault("HEXMAP_PORT", 8080), "API port")
	searchRate := flag.Int("search-rate", envIntOrDefault("HEXMAP_SEARCH_RATE", 600), "path/visibility queries per client per minute")
	trustProxy := flag.Bool("trust-proxy", envBoolOrDefault("HEXMAP_TRUST_PROXY", false), "key rate limits by X-Forwarded-For (only behind a reverse proxy)")
	logFile := flag.String("log-file", os.Getenv("HEXMAP_LOG_FILE"), "also log to this rotated file")
	logLevel := flag.String("log-level", envOrDefault("HEXMAP_LOG_LEVEL", "INFO"), "DEBUG, INFO, WARN or ERROR")
	logFormat := flag.String("log-format", envOrDefault("HEXMAP_LOG_FORMAT", "text"), "console log format: text or json")
	flag.Parse()

	logOpts := logging.DefaultOptions()
	logOpts.Level = *logLevel
	logOpts.Format = *logFormat
	logOpts.FilePath = *logFile
	logger, logCloser := logging.New(logOpts)
	defer logCloser.Close()
	slog.SetDefault(logger)

	if err := run(options{
		configPath: *configPath,
		size:       *size,
		width:      *width,
		height:     *height,
		seed:       *seed,
		dbPath:     *dbPath,
		history:    *history,
		preview:    *preview,
		serve:      *serve,
		port:       *port,
		searchRate: *searchRate,
		trustProxy: *trustProxy,
	}); err != nil {
		slog.Error("hexgen failed", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

type options struct {
	configPath    string
	size          string
	width, height int
	seed          int64
	dbPath        string
	history       int
	preview       bool
	serve         bool
	port          int
	searchRate    int
	trustProxy    bool
}

func run(opts options) error {
	// ── Run ledger ───────────────────────────────────────────────────
	var db *persistence.DB
	if opts.dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.dbPath), 0755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
		var err error
		db, err = persistence.Open(opts.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		slog.Debug("run ledger opened", "path", opts.dbPath)
	}

	if opts.history > 0 {
		if db == nil {
			return fmt.Errorf("-history needs a run ledger")
		}
		return printHistory(db, opts.history)
	}

	// ── Generation ───────────────────────────────────────────────────
	cfg, err := mapgen.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.seed >= 0 {
		cfg.Seed = opts.seed
		cfg.UseFixedSeed = true
	}
	width, height, err := mapDimensions(opts)
	if err != nil {
		return err
	}

	gen, err := mapgen.NewGenerator(cfg)
	if err != nil {
		return err
	}
	slog.Info("generating map", "width", width, "height", height, "fixed_seed", cfg.UseFixedSeed)
	grid, report, err := gen.Generate(width, height)
	if err != nil {
		return err
	}

	land, underwater := world.TerrainCounts(grid)
	for _, t := range world.TerrainTypes {
		slog.Info("terrain", "type", t, "land", land[t], "underwater", underwater[t])
	}
	slog.Info("map generated",
		"seed", report.Seed,
		"cells", humanize.Comma(int64(grid.CellCount())),
		"land", humanize.Comma(int64(report.LandCells)),
		"river_cells", report.RiverCells,
		"duration", report.Duration,
	)

	if db != nil {
		rec, err := db.SaveRun(report, cfg, grid)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		if err := db.SaveMeta("last_run", rec.ID); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	if opts.preview {
		fmt.Print(renderPreview(grid))
	}
	fmt.Printf("\nSeed %d: %s cells, %s land (%s), %d river cells.\n",
		report.Seed,
		humanize.Comma(int64(grid.CellCount())),
		humanize.Comma(int64(report.LandCells)),
		percent(report.LandCells, grid.CellCount()),
		report.RiverCells,
	)
	for _, w := range report.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	if !opts.serve {
		return nil
	}

	// ── HTTP API ─────────────────────────────────────────────────────
	server := &api.Server{
		Grid:       grid,
		Paths:      navigation.New(grid, gen.Searcher()),
		Report:     report,
		DB:         db,
		Port:       opts.port,
		SearchRate: opts.searchRate,
		TrustProxy: opts.trustProxy,
	}
	server.Start()
	fmt.Printf("API: http://localhost:%d/api/v1/status (Ctrl+C to stop)\n", opts.port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
	return nil
}

// mapDimensions resolves the preset size and explicit overrides.
func mapDimensions(opts options) (int, int, error) {
	preset, ok := mapgen.LookupMapSize(opts.size)
	if !ok {
		return 0, 0, fmt.Errorf("unknown map size %q", opts.size)
	}
	width, height := preset.Width, preset.Height
	if opts.width > 0 {
		width = opts.width
	}
	if opts.height > 0 {
		height = opts.height
	}
	return width, height, nil
}

func printHistory(db *persistence.DB, limit int) error {
	runs, err := db.RecentRuns(limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  seed %-20d %3dx%-3d land %-6s rivers %-5d %s\n",
			r.ID, r.Seed, r.Width, r.Height,
			humanize.Comma(int64(r.LandCells)), r.RiverCells,
			humanize.Time(r.Created()),
		)
	}
	return nil
}

func percent(part, whole int) string {
	if whole == 0 {
		return "0%"
	}
	return humanize.FtoaWithDigits(100*float64(part)/float64(whole), 1) + "%"
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envBoolOrDefault(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
