package media

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

const scanConcurrency = 4

// Scan lists the media files of dir (non-recursive), sorted by name, and
// warms their metadata concurrently. Metadata failures are not fatal; the
// item keeps its file-name title.
func Scan(ctx context.Context, dir string) ([]*FileItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var items []*FileItem
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := KindOf(e.Name()); !ok {
			continue
		}
		item, err := NewFileItem(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Name() < items[j].Name()
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for _, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, _ = item.Metadata(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}
