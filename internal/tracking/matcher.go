package tracking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"backend-roadcover/internal/coverage"
	"backend-roadcover/internal/network"
	"backend-roadcover/internal/shared/geo"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidFix marks a fix with missing or non-finite coordinates. The fix
// is dropped; no store state changes.
var ErrInvalidFix = errors.New("invalid position fix")

// matchShards bounds the fan-out of the per-fix network scan.
const matchShards = 4

type match struct {
	segmentID string
	first     bool
}

// ProcessFix matches one fix against the whole network and records every
// in-range segment in the store. The threshold is inclusive. Returns the ids
// that transitioned to covered on this fix, sorted.
func ProcessFix(ctx context.Context, index *network.Index, store *coverage.Store, fix PositionFix, thresholdM float64) ([]string, error) {
	matches, err := matchFix(ctx, index, store, fix, thresholdM)
	if err != nil {
		return nil, err
	}
	return newlyCovered(matches), nil
}

// matchFix is the full-network scan. Segments the operator marked complete
// are skipped; auto-covered segments keep accumulating passes. The scan is
// sharded across workers; the match set does not depend on shard order.
func matchFix(ctx context.Context, index *network.Index, store *coverage.Store, fix PositionFix, thresholdM float64) ([]match, error) {
	if !geo.FinitePosition(fix.Lat, fix.Lon) {
		return nil, fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidFix, fix.Lat, fix.Lon)
	}

	segments := index.All()

	var mu sync.Mutex
	var matches []match

	g, ctx := errgroup.WithContext(ctx)
	for shard := 0; shard < matchShards; shard++ {
		g.Go(func() error {
			for i := shard; i < len(segments); i += matchShards {
				if err := ctx.Err(); err != nil {
					return err
				}
				seg := segments[i]

				status, err := store.DisplayStatus(seg.ID)
				if err != nil {
					return err
				}
				if status == coverage.StatusComplete {
					continue
				}

				if geo.DistancePointToPolylineM(fix.Lat, fix.Lon, seg.Geometry) > thresholdM {
					continue
				}

				first, err := store.MarkAutoCovered(seg.ID, fix.Ts, fix.Lat, fix.Lon, fix.Accuracy)
				if err != nil {
					return err
				}
				mu.Lock()
				matches = append(matches, match{segmentID: seg.ID, first: first})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].segmentID < matches[j].segmentID })
	return matches, nil
}

func newlyCovered(matches []match) []string {
	var ids []string
	for _, m := range matches {
		if m.first {
			ids = append(ids, m.segmentID)
		}
	}
	return ids
}
