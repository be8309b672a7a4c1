package selection

import (
	"errors"

	"github.com/Matheuslarroque/pesquisador-junior/internal/scraper"
	"github.com/Matheuslarroque/pesquisador-junior/logger"
	pkgerrors "github.com/Matheuslarroque/pesquisador-junior/pkg/errors"
	"github.com/Matheuslarroque/pesquisador-junior/services/state"
)

// ErrCompleted reports that every configured day has already run; the
// orchestrator performs no selection and the state must stay untouched.
var ErrCompleted = errors.New("all configured days completed")

// Options configures a selection run.
type Options struct {
	Categories  []string
	TotalDays   int
	PerDay      int
	SoldMin     int
	RatingMin   float64
	SearchLimit int
}

// Orchestrator drives the harvester across categories until the daily batch
// is full, coordinating filtering, ranking and dedup state.
type Orchestrator struct {
	harvester scraper.Harvester
	opts      Options
	log       *logger.Logger
}

// NewOrchestrator creates a selection orchestrator.
func NewOrchestrator(harvester scraper.Harvester, opts Options) *Orchestrator {
	return &Orchestrator{
		harvester: harvester,
		opts:      opts,
		log:       logger.ForSelector(),
	}
}

// RunSelection executes one daily run against the given state and returns the
// picks plus the updated state to persist. On any error the input state is
// returned unchanged and must not be persisted.
//
// Categories are scanned in configured order; scanning stops as soon as the
// batch is full. Ending the scan with fewer than PerDay picks is a loud
// failure: downstream consumers expect a fixed batch size, so a short batch
// is worse than no batch.
func (o *Orchestrator) RunSelection(st state.SelectionState) ([]scraper.ProductRecord, state.SelectionState, error) {
	dayIndex := st.DayIndex + 1
	if dayIndex > o.opts.TotalDays {
		return nil, st, ErrCompleted
	}

	usedIDs := st.IDSet()
	usedKeys := st.KeySet()
	batchKeys := make(map[string]bool)

	var picks []scraper.ProductRecord
	for _, category := range o.opts.Categories {
		if len(picks) >= o.opts.PerDay {
			break
		}

		query := category + " shopee"
		results, err := o.harvester.Search(query, o.opts.SearchLimit)
		if err != nil {
			// One unreachable category must not abort the run; later
			// categories may still fill the batch
			o.log.Warn().Str("category", category).Err(err).Msg("category search failed, skipping")
			continue
		}

		accepted := Select(results, Criteria{
			Category:  category,
			SoldMin:   o.opts.SoldMin,
			RatingMin: o.opts.RatingMin,
			UsedIDs:   usedIDs,
			UsedKeys:  usedKeys,
			BatchKeys: batchKeys,
		})

		o.log.Info().
			Str("category", category).
			Int("raw", len(results)).
			Int("accepted", len(accepted)).
			Msg("category harvested")

		for _, pick := range accepted {
			if len(picks) >= o.opts.PerDay {
				break
			}
			picks = append(picks, pick)
			batchKeys[pick.SimilarityKey] = true
			// A later category must not rediscover the same URL
			usedIDs[pick.URL] = true
		}
	}

	if len(picks) < o.opts.PerDay {
		return nil, st, pkgerrors.NewInventory(len(picks), o.opts.PerDay)
	}

	updated := state.SelectionState{
		DayIndex:           dayIndex,
		UsedProductIDs:     append(append([]string(nil), st.UsedProductIDs...), urls(picks)...),
		UsedSimilarityKeys: append(append([]string(nil), st.UsedSimilarityKeys...), keys(picks)...),
	}

	return picks, updated, nil
}

func urls(picks []scraper.ProductRecord) []string {
	out := make([]string, len(picks))
	for i, p := range picks {
		out[i] = p.URL
	}
	return out
}

func keys(picks []scraper.ProductRecord) []string {
	out := make([]string, len(picks))
	for i, p := range picks {
		out[i] = p.SimilarityKey
	}
	return out
}
