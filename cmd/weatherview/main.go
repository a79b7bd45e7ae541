package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/i474232898/weather-view/internal/config"
	"github.com/i474232898/weather-view/internal/render"
	"github.com/i474232898/weather-view/internal/store"
	"github.com/i474232898/weather-view/internal/weather"
	"github.com/i474232898/weather-view/internal/weather/providers"
)

func main() {
	city := flag.String("city", "", "fetch once for this city and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cache, err := store.Open(store.Config{
		Backend: cfg.CacheBackend,
		Path:    cfg.CachePath,
		Addr:    cfg.ValkeyAddr,
	})
	if err != nil {
		log.Fatalf("failed to open cache store: %v", err)
	}
	defer cache.Close()

	client, err := providers.New(cfg.APIShape, &http.Client{Timeout: cfg.HTTPTimeout}, cfg.APIBase)
	if err != nil {
		log.Fatalf("failed to build weather client: %v", err)
	}

	svc := weather.NewService(client, cache, weather.WithCacheKey(cfg.CacheKey))
	opts := render.Options{Location: cfg.DisplayZone}
	svc.Subscribe(func(st weather.State) {
		if err := render.Text(os.Stdout, render.Build(st, opts)); err != nil {
			log.Printf("ERROR: render: %v", err)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *city != "" {
		if err := svc.Fetch(ctx, *city); err != nil {
			cache.Close()
			os.Exit(1)
		}
		return
	}

	fmt.Println("Weather Forecast")
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("city> ")
		if !in.Scan() {
			fmt.Println()
			return
		}
		err := svc.Fetch(ctx, in.Text())
		if errors.Is(err, weather.ErrEmptyQuery) {
			fmt.Println("Enter a city name.")
		}
		if ctx.Err() != nil {
			return
		}
	}
}
