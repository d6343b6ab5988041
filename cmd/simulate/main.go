package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/bot"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository/memory"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository/sqlite"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/service"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

func main() {
	var (
		numGames   int
		workers    int
		variant    string
		rounds     int
		seed       uint64
		bots       string
		dbPath     string
		maxActions int
		jsonOut    bool
		debug      bool
	)

	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel games)")
	flag.StringVar(&variant, "variant", string(conquest.Tiny), "Map variant")
	flag.IntVar(&rounds, "rounds", 30, "Round limit per game (0 = until one player is left)")
	flag.Uint64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.StringVar(&bots, "bots", "greedy,random", "Comma separated strategy per seat")
	flag.StringVar(&dbPath, "db", "", "SQLite file for the event log and results (empty = in memory)")
	flag.IntVar(&maxActions, "max-actions", bot.DefaultMaxActions, "Action budget per game")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	if _, err := conquest.Lookup(conquest.Variant(variant)); err != nil {
		log.Fatal().Err(err).Msg("Invalid variant")
	}
	// Validate the lineup once before spawning workers.
	lineup, err := bot.ParseStrategies(bots, 1)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid strategies")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	d := service.NewDispatcher(memory.NewStore(), nil)
	var db *sqlite.Store
	if dbPath != "" {
		db, err = sqlite.Open(dbPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", dbPath).Msg("SQLite open failed")
		}
		defer db.Close()
		d.SetEventLog(db.Events)
		d.SetResultRepo(db.Results)
	}
	games := service.NewGameService(d, nil, conquest.Variant(variant))
	play := service.NewPlayService(d)

	results := make([]*bot.MatchResult, numGames)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, max(workers, 1))
	errCount := 0

	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			gameSeed := seed
			if seed != 0 {
				gameSeed = seed + uint64(idx)
			}
			// Strategies keep per-match state, so every game gets its own.
			strategies, err := bot.ParseStrategies(bots, gameSeed+uint64(idx))
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Msg("Invalid strategies")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			result, err := bot.RunMatch(ctx, games, play, bot.MatchConfig{
				Name:       fmt.Sprintf("simulate-%d", idx+1),
				Variant:    conquest.Variant(variant),
				Seed:       gameSeed,
				RoundLimit: rounds,
				Strategies: strategies,
				MaxActions: maxActions,
				Evict:      true,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Msg("Game failed")
				errCount++
				return
			}
			results[idx] = result
			log.Info().Int("game", idx+1).Int("winner", result.Winner).Int("rounds", result.Rounds).Msg("Game completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(results, numGames, errCount)
		return
	}
	printSummary(results, lineup, variant, rounds, errCount)
	if db != nil {
		printLeaderboard(ctx, db)
	}
}

func printSummary(results []*bot.MatchResult, lineup []bot.Strategy, variant string, rounds, errCount int) {
	type stats struct {
		wins      int
		territory int
	}
	bySeat := make([]stats, len(lineup))
	completed, draws, truncated, totalRounds := 0, 0, 0, 0
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		totalRounds += r.Rounds
		switch {
		case r.Truncated:
			truncated++
		case r.Winner == conquest.NoWinner:
			draws++
		default:
			bySeat[r.Winner].wins++
		}
		for _, s := range r.Standings {
			bySeat[s.Player].territory += s.Territories
		}
	}

	fmt.Printf("\nResults (%d games on %s, round limit %d):\n", completed, variant, rounds)
	if errCount > 0 {
		fmt.Printf("  (%d games failed)\n", errCount)
	}
	for seat, s := range bySeat {
		avg := 0.0
		if completed > 0 {
			avg = float64(s.territory) / float64(completed)
		}
		fmt.Printf("  seat %d %-8s  %d wins  -- avg territories: %.1f\n", seat, lineup[seat].Name(), s.wins, avg)
	}
	if completed > 0 {
		fmt.Printf("  draws: %d, truncated: %d, avg rounds: %.1f\n", draws, truncated, float64(totalRounds)/float64(completed))
	}
}

func printLeaderboard(ctx context.Context, db *sqlite.Store) {
	wins, err := db.Results.Wins(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read leaderboard")
		return
	}
	identities := make([]string, 0, len(wins))
	for id := range wins {
		identities = append(identities, id)
	}
	sort.Slice(identities, func(i, j int) bool {
		if wins[identities[i]] != wins[identities[j]] {
			return wins[identities[i]] > wins[identities[j]]
		}
		return identities[i] < identities[j]
	})
	fmt.Printf("\nAll-time wins in the database:\n")
	for _, id := range identities {
		fmt.Printf("  %-10s %d\n", id, wins[id])
	}
}

func printJSON(results []*bot.MatchResult, total, errCount int) {
	out := struct {
		Total   int                `json:"total"`
		Errors  int                `json:"errors"`
		Results []*bot.MatchResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
