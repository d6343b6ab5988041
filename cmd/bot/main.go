package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/bot"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

func main() {
	url := flag.String("url", "http://localhost:8009", "server base URL")
	bots := flag.String("bots", "greedy,random", "comma separated strategy per seat (greedy, random, passive)")
	variant := flag.String("variant", string(conquest.Tiny), "map variant")
	rounds := flag.Int("rounds", 30, "round limit (0 = until one player is left)")
	seed := flag.Uint64("seed", 0, "seed for the random strategies")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	strategies, err := bot.ParseStrategies(*bots, *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid strategies")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	orch := bot.NewOrchestrator(*url, strategies, conquest.Variant(*variant), *rounds)
	gameID, err := orch.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Bot orchestrator failed")
	}
	log.Info().Str("gameId", gameID).Msg("Bot game completed successfully")
}
