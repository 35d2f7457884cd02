package importer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/oilscope/oilscope/internal/core"
	"github.com/oilscope/oilscope/internal/store"
)

// Summary reports what a single import did.
type Summary struct {
	Total             int
	New               int
	SkippedDuplicates int
}

type Importer struct {
	store        *store.Store
	locationID   int
	tankCapacity float64
	logf         func(format string, args ...any)
}

func New(s *store.Store, locationID int, tankCapacity float64) *Importer {
	if tankCapacity <= 0 {
		tankCapacity = core.DefaultTankCapacityGallons
	}
	return &Importer{
		store:        s,
		locationID:   locationID,
		tankCapacity: tankCapacity,
		logf:         log.Printf,
	}
}

// ImportFile parses one CSV export, classifies the readings, and caches them.
func (i *Importer) ImportFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("importer: opening %s: %w", path, err)
	}
	defer f.Close()

	readings, err := ParseReadingsCSV(f)
	if err != nil {
		return Summary{}, err
	}
	if len(readings) == 0 {
		return Summary{}, nil
	}

	flagged := core.FlagReadings(readings, i.tankCapacity)
	inserted, skipped, err := i.store.UpsertReadings(ctx, i.locationID, flagged)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Total: len(flagged), New: inserted, SkippedDuplicates: skipped}, nil
}

// Watch imports every CSV dropped into dir until ctx is cancelled. Files
// already present when the watch starts are imported once up front, so a
// restart never misses a drop.
func (i *Importer) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("importer: creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("importer: watching %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("importer: listing %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && isCSV(e.Name()) {
			i.importAndLog(ctx, filepath.Join(dir, e.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isCSV(event.Name) {
				continue
			}
			i.importAndLog(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			i.logf("importer: watch error: %v", err)
		}
	}
}

func (i *Importer) importAndLog(ctx context.Context, path string) {
	summary, err := i.ImportFile(ctx, path)
	if err != nil {
		i.logf("importer: %s: %v", filepath.Base(path), err)
		return
	}
	i.logf("importer: %s: %d new, %d duplicates skipped",
		filepath.Base(path), summary.New, summary.SkippedDuplicates)
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
