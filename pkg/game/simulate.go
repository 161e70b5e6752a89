package game

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yourusername/bgmovegen/pkg/engine"
)

// confidence is the two-sided level of the reported win-rate interval.
const confidence = 0.99

// SimulateOptions configures Simulate.
type SimulateOptions struct {
	Games       int    // Number of games
	Workers     int    // Concurrent games (0 = GOMAXPROCS)
	Seed        uint64 // Seed of the first game; game i uses Seed+i (0 = random)
	MaxTurns    int    // Per-game turn limit (0 = DefaultMaxTurns)
	KeepRecords bool   // Return full records with plies
}

// Summary aggregates a batch of self-play games.
type Summary struct {
	Games        int           `json:"games" yaml:"games"`
	WhiteWins    int           `json:"white_wins" yaml:"white_wins"`
	BlackWins    int           `json:"black_wins" yaml:"black_wins"`
	Unfinished   int           `json:"unfinished" yaml:"unfinished"`
	WhiteWinRate float64       `json:"white_win_rate" yaml:"white_win_rate"`
	WinRateLow   float64       `json:"win_rate_low" yaml:"win_rate_low"`
	WinRateHigh  float64       `json:"win_rate_high" yaml:"win_rate_high"`
	MeanTurns    float64       `json:"mean_turns" yaml:"mean_turns"`
	StdDevTurns  float64       `json:"stddev_turns" yaml:"stddev_turns"`
	MeanLegal    float64       `json:"mean_legal" yaml:"mean_legal"`
	StdDevLegal  float64       `json:"stddev_legal" yaml:"stddev_legal"`
	MaxLegal     int           `json:"max_legal" yaml:"max_legal"`
	Elapsed      time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Simulate plays opts.Games random games concurrently and summarizes them.
// Records are returned in game order when opts.KeepRecords is set.
func Simulate(ctx context.Context, eng *engine.Engine, opts SimulateOptions) (*Summary, []*Record, error) {
	if opts.Games < 0 {
		return nil, nil, &engine.InputError{Reason: fmt.Sprintf("negative game count %d", opts.Games)}
	}
	start := time.Now()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = RandomSeed()
	}

	records := make([]*Record, opts.Games)
	legal := make([][]float64, opts.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.Games; i++ {
		g.Go(func() error {
			var counts []float64
			rec, err := Play(ctx, eng, Options{
				Seed:         seed + uint64(i),
				MaxTurns:     opts.MaxTurns,
				DiscardPlies: !opts.KeepRecords,
				OnPly: func(p Ply) error {
					counts = append(counts, float64(p.Legal))
					return nil
				},
			})
			if err != nil {
				return err
			}
			records[i] = rec
			legal[i] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sum := summarize(records, legal)
	sum.Elapsed = time.Since(start)

	if !opts.KeepRecords {
		records = nil
	}
	return sum, records, nil
}

// summarize computes win counts and the turn and branching statistics.
func summarize(records []*Record, legal [][]float64) *Summary {
	sum := &Summary{Games: len(records)}

	turns := make([]float64, 0, len(records))
	var all []float64
	for i, rec := range records {
		turns = append(turns, float64(rec.Turns))
		all = append(all, legal[i]...)

		switch {
		case !rec.Finished:
			sum.Unfinished++
		case rec.Winner == engine.White.String():
			sum.WhiteWins++
		default:
			sum.BlackWins++
		}
	}

	if len(turns) > 1 {
		sum.MeanTurns, sum.StdDevTurns = stat.MeanStdDev(turns, nil)
	} else if len(turns) == 1 {
		sum.MeanTurns = turns[0]
	}
	if len(all) > 1 {
		sum.MeanLegal, sum.StdDevLegal = stat.MeanStdDev(all, nil)
	} else if len(all) == 1 {
		sum.MeanLegal = all[0]
	}
	if len(all) > 0 {
		sum.MaxLegal = int(floats.Max(all))
	}

	if n := sum.WhiteWins + sum.BlackWins; n > 0 {
		p := float64(sum.WhiteWins) / float64(n)
		z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
		half := z * math.Sqrt(p*(1-p)/float64(n))
		sum.WhiteWinRate = p
		sum.WinRateLow = math.Max(0, p-half)
		sum.WinRateHigh = math.Min(1, p+half)
	}
	return sum
}
