// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/importer"
	"github.com/ammerola/stockroom/internal/pkg/config"
	"github.com/ammerola/stockroom/internal/pkg/logger"
)

// seederState records the files already pushed to the backend
type seederState struct {
	ProcessedFiles []string  `json:"processed_files"`
	ProcessedCount int       `json:"processed_count"`
	LastUpdate     time.Time `json:"last_update"`
}

func main() {
	// Parse flags
	var (
		source    = flag.String("source", "./seed", "File or directory of .xlsx workbooks and .pdf delivery notes")
		stateFile = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		threshold = flag.Int("low-stock", domain.DefaultLowStockThreshold, "Low stock threshold used to derive item status")
		dryRun    = flag.Bool("dry-run", false, "Parse files without creating items")
		force     = flag.Bool("force", false, "Reprocess all files")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "json", "stockroom-seeder")

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	files, err := collectFiles(*source)
	if err != nil {
		slogger.Error("failed to find seed files", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	imp := importer.New(cfg.Files.ExcelMaxSizeMB, cfg.Files.PDFMaxSizeMB, *threshold, slogger.Logger)

	var (
		inventory importer.Creator
		existing  = map[string]bool{}
	)
	if !*dryRun {
		inv, err := connect(ctx, cfg, slogger.Logger)
		if err != nil {
			slogger.Error("failed to connect to backend", slog.String("error", err.Error()))
			os.Exit(1)
		}
		items, err := inv.List(ctx)
		if err != nil {
			slogger.Error("failed to list inventory", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for _, item := range items {
			existing[strings.ToLower(item.SKU)] = true
		}
		inventory = inv
	}

	var state seederState
	if !*force {
		if data, err := os.ReadFile(*stateFile); err == nil {
			if err := json.Unmarshal(data, &state); err != nil {
				slogger.Warn("ignoring unreadable state file", slog.String("error", err.Error()))
			}
		}
	}

	totalProcessed := 0
	totalCreated := 0
	totalSkipped := 0
	failedFiles := []string{}
	successDetails := map[string]int{}

	for i, path := range files {
		name := filepath.Base(path)
		fmt.Printf("PROGRESS: Processing %d/%d: %s\n", i+1, len(files), name)

		if !*force && slices.Contains(state.ProcessedFiles, name) {
			slogger.Info("skipping already processed file", slog.String("file", name))
			continue
		}

		res, err := imp.ReadFile(ctx, path)
		if err != nil {
			slogger.Error("failed to read file", slog.String("file", name), slog.String("error", err.Error()))
			failedFiles = append(failedFiles, name)
			fmt.Printf("ERROR: Failed to read %s - %v\n", name, err)
			continue
		}
		for _, rowErr := range res.Errors {
			fmt.Printf("WARNING: %s %v\n", name, rowErr)
		}
		if len(res.Drafts) == 0 {
			fmt.Printf("WARNING: No items found in %s\n", name)
			failedFiles = append(failedFiles, fmt.Sprintf("%s (0 items)", name))
			continue
		}

		drafts := make([]domain.InventoryDraft, 0, len(res.Drafts))
		for _, d := range res.Drafts {
			if existing[strings.ToLower(d.SKU)] {
				totalSkipped++
				continue
			}
			drafts = append(drafts, d)
		}

		created := len(drafts)
		if !*dryRun {
			summary, err := imp.Apply(ctx, inventory, drafts)
			if err != nil {
				slogger.Error("failed to create items", slog.String("file", name), slog.String("error", err.Error()))
				failedFiles = append(failedFiles, name)
				fmt.Printf("ERROR: Failed to seed %s - %v\n", name, err)
				continue
			}
			for _, rowErr := range summary.Failed {
				fmt.Printf("WARNING: %s %s rejected - %v\n", name, drafts[rowErr.Row-1].SKU, rowErr.Err)
			}
			created = summary.Created
		}
		for _, d := range drafts {
			existing[strings.ToLower(d.SKU)] = true
		}

		fmt.Printf("SUCCESS: Processed %s - %d items\n", name, created)
		successDetails[name] = created
		totalProcessed++
		totalCreated += created

		state.ProcessedFiles = append(state.ProcessedFiles, name)
		state.ProcessedCount = len(state.ProcessedFiles)
		state.LastUpdate = time.Now()
	}

	if !*dryRun {
		if err := saveState(*stateFile, state); err != nil {
			slogger.Error("failed to save state", slog.String("error", err.Error()))
		}
	}

	// Summary
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Files Processed: %d\n", totalProcessed)
	fmt.Printf("Items Created: %d\n", totalCreated)
	fmt.Printf("Existing SKUs Skipped: %d\n", totalSkipped)

	if len(successDetails) > 0 {
		fmt.Printf("\nProcessed (%d files):\n", len(successDetails))
		for file, count := range successDetails {
			fmt.Printf("  - %s: %d items\n", file, count)
		}
	}
	if len(failedFiles) > 0 {
		fmt.Printf("\nFailed/Empty Files (%d):\n", len(failedFiles))
		for _, file := range failedFiles {
			fmt.Printf("  - %s\n", file)
		}
	}

	slogger.Info("seed operation completed",
		slog.Int("files_processed", totalProcessed),
		slog.Int("items_created", totalCreated),
		slog.Int("failed_files", len(failedFiles)))

	if *dryRun {
		fmt.Println("\n[DRY RUN] No changes were made to the backend")
	}
}

// connect signs the worker account in and returns the inventory client
func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*api.Resource[domain.InventoryItem, domain.InventoryDraft], error) {
	secrets, err := config.NewSecretsProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := config.ResolveWorkerCredentials(ctx, cfg, secrets); err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.ClientConfig{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		RateLimit:       cfg.API.RateLimit,
		RateBurst:       cfg.API.RateBurst,
		RequestIDHeader: cfg.API.RequestIDHeader,
		UserAgent:       "stockroom-seeder",
	}, nil, logger)
	if err != nil {
		return nil, err
	}

	creds := domain.Credentials{Email: cfg.Worker.Email, Password: cfg.Worker.Password}
	if _, err := api.NewAuthClient(client).Login(ctx, creds); err != nil {
		return nil, fmt.Errorf("sign in as %s: %w", cfg.Worker.Email, err)
	}
	return api.NewInventoryAPI(client), nil
}

// collectFiles expands source into the importable files it names
func collectFiles(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{source}, nil
	}

	var files []string
	for _, pattern := range []string{"*.xlsx", "*.pdf"} {
		matches, err := filepath.Glob(filepath.Join(source, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return files, nil
}

func saveState(path string, state seederState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
