// Command simulate runs a single Monte Carlo simulation from the command
// line and prints a summary report, without needing the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/aristath/foresight/internal/montecarlo"
	"github.com/aristath/foresight/pkg/formulas"
	"github.com/aristath/foresight/pkg/logger"
)

func main() {
	var (
		paths      = flag.Int("paths", 10000, "number of simulated price paths")
		days       = flag.Int("days", 252, "horizon in trading days")
		price      = flag.Float64("price", 100, "current price of the asset")
		mu         = flag.Float64("mu", 0.0003, "mean daily log return")
		sigma      = flag.Float64("sigma", 0.02, "daily volatility of log returns")
		investment = flag.Float64("investment", 100000, "initial investment amount")
		seed       = flag.Int64("seed", 42, "random seed")
		workers    = flag.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
		logLevel   = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
		asJSON     = flag.Bool("json", false, "print the full result as JSON")
	)
	flag.Parse()

	log := logger.New(logger.Config{Level: *logLevel, Pretty: true})

	simulator := montecarlo.NewSimulator(log)
	result, err := simulator.Simulate(context.Background(),
		montecarlo.Config{
			Paths:             *paths,
			HorizonDays:       *days,
			InitialInvestment: *investment,
			Seed:              *seed,
			IncludePaths:      true,
			Workers:           *workers,
		},
		montecarlo.HistoricalStats{
			CurrentPrice:    *price,
			MeanDailyReturn: *mu,
			DailyVolatility: *sigma,
		},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printReport(result)
}

func printReport(r *montecarlo.Result) {
	fmt.Printf("Monte Carlo simulation: %d paths over %d trading days\n",
		r.Config.Paths, r.Config.HorizonDays)
	fmt.Printf("Start price %.2f, investment %.2f (%.4f shares), seed %d\n\n",
		r.Stats.CurrentPrice, r.Config.InitialInvestment, r.InitialShares, r.Config.Seed)

	fmt.Println("Terminal portfolio value")
	fmt.Printf("  expected  %14.2f\n", r.Summary.ExpectedValue)
	fmt.Printf("  minimum   %14.2f\n", r.Summary.MinValue)
	fmt.Printf("  maximum   %14.2f\n", r.Summary.MaxValue)

	fmt.Println("\nTerminal price percentiles")
	lastDay := len(r.Bands[0].Values) - 1
	for _, band := range r.Bands {
		fmt.Printf("  p%-3.0f  %14.2f\n", band.Level, band.Values[lastDay])
	}

	fmt.Println("\nRisk")
	fmt.Printf("  mean return         %8.2f%%\n", r.Risk.MeanReturn*100)
	fmt.Printf("  median return       %8.2f%%\n", r.Risk.MedianReturn*100)
	fmt.Printf("  best return         %8.2f%%\n", r.Summary.BestReturn*100)
	fmt.Printf("  worst return        %8.2f%%\n", r.Summary.WorstReturn*100)
	fmt.Printf("  volatility          %8.2f%%\n", r.Risk.Volatility*100)
	fmt.Printf("  P(loss)             %8.2f%%\n", r.Risk.ProbabilityOfLoss*100)
	fmt.Printf("  VaR 5%%              %8.2f%%\n", r.Risk.ValueAtRisk5*100)
	fmt.Printf("  VaR 1%%              %8.2f%%\n", r.Risk.ValueAtRisk1*100)
	fmt.Printf("  CVaR 5%%             %8.2f%%\n", r.Risk.ConditionalVaR5*100)
	for _, band := range r.Bands {
		if band.Level == 50 {
			fmt.Printf("  median path drawdown%8.2f%%\n", formulas.MaxDrawdown(band.Values)*100)
		}
	}
}
