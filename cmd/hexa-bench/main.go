package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Pallinder/go-randomdata"

	"github.com/aretw0/hexa"
	"github.com/aretw0/hexa/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of orders to place per adapter")
	adapters := flag.String("adapters", "memory,fs,sqlite,bolt,badger", "Comma separated adapters to measure")
	redisAddr := flag.String("redis", "", "Also measure the redis adapter at this address")
	keep := flag.Bool("keep", false, "Keep the benchmark stores after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "hexa_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	orders := generate(*count)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	names := strings.Split(*adapters, ",")
	if *redisAddr != "" {
		names = append(names, hexa.AdapterRedis)
	}

	fmt.Printf("%-8s %12s %12s %12s\n", "adapter", "place", "list cold", "list warm")
	for _, name := range names {
		uri := benchDir + "/" + name
		switch name {
		case hexa.AdapterBadger:
			uri = ""
		case hexa.AdapterRedis:
			uri = *redisAddr
		}

		r, err := run(name, uri, orders, logger)
		if err != nil {
			fmt.Printf("%-8s error: %v\n", name, err)
			continue
		}
		fmt.Printf("%-8s %12v %12v %12v\n", name, r.place, r.cold, r.warm)
	}
}

type result struct {
	place, cold, warm time.Duration
}

func generate(n int) [][]core.LineItem {
	out := make([][]core.LineItem, n)
	for i := range out {
		items := make([]core.LineItem, 1+randomdata.Number(4))
		for j := range items {
			items[j] = core.LineItem{
				Name:  randomdata.SillyName(),
				Price: core.Money(randomdata.Number(100, 50000)),
			}
		}
		out[i] = items
	}
	return out
}

func open(ctx context.Context, adapter, uri string, logger *slog.Logger) (*hexa.Instance, error) {
	return hexa.New(ctx, uri,
		hexa.WithAdapter(adapter),
		hexa.WithLogger(logger),
		hexa.WithPaymentProvider(hexa.ProviderNone),
		hexa.WithNotifierProvider(hexa.ProviderNone),
		hexa.WithDevSafety(false),
	)
}

func run(adapter, uri string, orders [][]core.LineItem, logger *slog.Logger) (result, error) {
	ctx := context.Background()
	var r result

	inst, err := open(ctx, adapter, uri, logger)
	if err != nil {
		return r, err
	}

	start := time.Now()
	for _, items := range orders {
		if _, err := inst.Service.PlaceOrder(ctx, items); err != nil {
			inst.Close()
			return r, err
		}
	}
	r.place = time.Since(start)

	start = time.Now()
	if _, err := inst.Service.ListOrders(ctx); err != nil {
		inst.Close()
		return r, err
	}
	r.cold = time.Since(start)

	// Persistent stores are reopened to measure what a fresh process sees
	// (for fs, the index cache on disk).
	if adapter != hexa.AdapterMemory && adapter != hexa.AdapterBadger {
		if err := inst.Close(); err != nil {
			return r, err
		}
		if inst, err = open(ctx, adapter, uri, logger); err != nil {
			return r, err
		}
	}
	defer inst.Close()

	start = time.Now()
	if _, err := inst.Service.ListOrders(ctx); err != nil {
		return r, err
	}
	r.warm = time.Since(start)
	return r, nil
}
