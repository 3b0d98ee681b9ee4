package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seb1232/cppindex-mcp/config"
	"github.com/seb1232/cppindex-mcp/extract"
	"github.com/seb1232/cppindex-mcp/ignore"
	"github.com/seb1232/cppindex-mcp/index"
	"github.com/seb1232/cppindex-mcp/register"
	"github.com/seb1232/cppindex-mcp/search"
	"github.com/seb1232/cppindex-mcp/server"
	"github.com/seb1232/cppindex-mcp/tools"
	"github.com/seb1232/cppindex-mcp/watcher"
)

// excludeList is a repeatable -exclude flag.
type excludeList []string

func (e *excludeList) String() string { return strings.Join(*e, ", ") }
func (e *excludeList) Set(value string) error {
	*e = append(*e, value)
	return nil
}

func main() {
	// `register` writes a client config entry and exits; it takes no server
	// flags, so it dispatches before flag parsing.
	if len(os.Args) > 1 && os.Args[1] == "register" {
		register.Run(register.DeriveServerName(os.Args[0]), os.Args[2:])
		return
	}

	// .env values become environment defaults for the layers below.
	_ = godotenv.Load()

	var (
		rootDir      string
		configPath   string
		maxFileSize  int64
		maxResults   int
		debounceSecs float64
		syncSecs     float64
		logLevel     string
		logFile      string
		noWatch      bool
		excludes     excludeList
	)

	flag.StringVar(&rootDir, "root", "", "project root directory (default: current working directory)")
	flag.Var(&excludes, "exclude", "extra excluded path-segment prefix (repeatable)")
	flag.StringVar(&configPath, "config", "", "config file path (default: <root>/"+config.FileName+")")
	flag.Int64Var(&maxFileSize, "max-file-size", 0, "maximum file size in bytes (default: 1MB)")
	flag.IntVar(&maxResults, "max-results", 0, "default result cap for tools (default: 50)")
	flag.Float64Var(&debounceSecs, "debounce", 0, "change coalescing window in seconds (default: 2)")
	flag.Float64Var(&syncSecs, "sync-interval", 0, "disk consistency sweep interval in seconds (0 disables)")
	flag.StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "log file path (default: <root>/cppindex-mcp.log)")
	flag.BoolVar(&noWatch, "no-watch", false, "disable the file watcher")
	flag.Parse()

	if rootDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving working directory: %v\n", err)
			os.Exit(1)
		}
		rootDir = cwd
	}
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving root directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(rootDir, configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Environment sits between the config file and the flags.
	if v := os.Getenv("CPPINDEX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CPPINDEX_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}

	// Flags given on the command line win over everything.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "exclude":
			cfg.ExcludePrefixes = append(cfg.ExcludePrefixes, excludes...)
		case "max-file-size":
			cfg.MaxFileSizeBytes = maxFileSize
		case "max-results":
			cfg.MaxResults = maxResults
		case "debounce":
			cfg.DebounceSeconds = debounceSecs
		case "sync-interval":
			cfg.SyncSeconds = syncSecs
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-file":
			cfg.LogFile = logFile
		case "no-watch":
			cfg.Watch = !noWatch
		}
	})

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(rootDir, "cppindex-mcp.log")
	}

	// Logging goes to a file or stderr, never stdout: stdout carries the
	// MCP stdio transport.
	logger := setupLogger(cfg.LogLevel, cfg.LogFile)

	logger.Info("starting cppindex-mcp",
		"root", rootDir,
		"maxFileSize", cfg.MaxFileSizeBytes,
		"maxResults", cfg.MaxResults,
		"watch", cfg.Watch,
	)

	startTime := time.Now()

	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:          rootDir,
		Extensions:       cfg.Extensions,
		ExcludePrefixes:  cfg.ExcludePrefixes,
		MaxFileSizeBytes: cfg.MaxFileSizeBytes,
	})

	store, err := index.NewStore(rootDir, matcher, extract.NewRegexExtractor(), logger)
	if err != nil {
		logger.Error("failed to create index store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	indexedCount, totalSize := performIndexing(rootDir, store, matcher, logger)
	logger.Info("initial indexing complete",
		"files", indexedCount,
		"totalSize", totalSize,
		"duration", time.Since(startTime),
	)

	if cfg.Watch {
		fileWatcher, err := watcher.NewWatcher(rootDir, matcher, logger)
		if err != nil {
			logger.Warn("failed to start file watcher, continuing without live updates", "error", err)
		} else {
			monitor := watcher.NewMonitor(fileWatcher, store, matcher, cfg.Debounce(), logger)
			go fileWatcher.Start()
			go monitor.Run()
			defer fileWatcher.Close()
		}
	}

	if interval := cfg.SyncInterval(); interval > 0 {
		stop := make(chan struct{})
		defer close(stop)
		go runPeriodicSync(interval, rootDir, store, matcher, logger, stop)
	}

	engine := search.NewEngine(store, search.EngineOptions{
		CacheSize:      cfg.CacheSize,
		SnippetContext: cfg.SnippetContext,
		MaxResults:     cfg.MaxResults,
	}, logger)

	searchHandler := &tools.SearchHandler{Engine: engine, Logger: logger}
	depsHandler := &tools.DepsHandler{Store: store, Logger: logger}
	relatedHandler := &tools.RelatedHandler{Engine: engine, Store: store, Logger: logger}
	usageHandler := &tools.UsageHandler{Engine: engine, Store: store, DefaultMax: cfg.MaxUsageExamples, Logger: logger}
	filesHandler := &tools.FilesHandler{Store: store, DefaultMax: cfg.MaxResults, Logger: logger}
	readHandler := &tools.ReadHandler{Store: store, Logger: logger}
	statusHandler := &tools.StatusHandler{Store: store, StartTime: startTime, Logger: logger}
	reindexHandler := &tools.ReindexHandler{
		Logger: logger,
		DoReindex: func() (int, int64, string, error) {
			start := time.Now()
			if err := store.Clear(); err != nil {
				return 0, 0, "", fmt.Errorf("clearing index: %w", err)
			}
			// Pick up .gitignore edits that happened while the old index was live.
			matcher.Reload()
			count, size := performIndexing(rootDir, store, matcher, logger)
			elapsed := time.Since(start).Round(time.Millisecond).String()
			return count, size, elapsed, nil
		},
	}

	mcpServer := server.Setup(
		searchHandler,
		depsHandler,
		relatedHandler,
		usageHandler,
		filesHandler,
		readHandler,
		statusHandler,
		reindexHandler,
	)

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// setupLogger creates an slog.Logger writing to the given file, falling back
// to stderr when the file cannot be opened.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
