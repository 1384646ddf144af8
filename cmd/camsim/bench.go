package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/camsim-dev/camsim/backend/cpu"
	"github.com/camsim-dev/camsim/cam"
	"github.com/camsim-dev/camsim/internal/logger"
	"github.com/camsim-dev/camsim/tensor"
)

type benchReport struct {
	RunID      string  `json:"run_id"`
	Variant    string  `json:"variant"`
	Metric     string  `json:"metric"`
	Rows       int     `json:"rows"`
	Columns    int     `json:"columns"`
	Queries    int     `json:"queries"`
	Arrays     int     `json:"arrays"`
	Runs       int     `json:"runs"`
	MeanMillis float64 `json:"mean_ms"`
	SearchesPS float64 `json:"searches_per_second"`
}

func benchCmd() *cli.Command {
	var (
		variantName string
		metricName  string
		rows        int64
		columns     int64
		numQueries  int64
		numArrays   int64
		warmup      int64
		runs        int64
		seed        int64
		asJSON      bool
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Measure search throughput on synthetic arrays",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "variant", Value: "ternary", Usage: "array variant (binary, ternary, analog)", Destination: &variantName},
			&cli.StringFlag{Name: "metric", Value: "exact", Usage: "match metric (exact, euclidean, manhattan, dot)", Destination: &metricName},
			&cli.Int64Flag{Name: "rows", Value: 1024, Usage: "rows per array", Destination: &rows},
			&cli.Int64Flag{Name: "cols", Value: 64, Usage: "columns per array", Destination: &columns},
			&cli.Int64Flag{Name: "queries", Value: 256, Usage: "queries per array", Destination: &numQueries},
			&cli.Int64Flag{Name: "arrays", Value: 1, Usage: "number of arrays (batched when > 1)", Destination: &numArrays},
			&cli.Int64Flag{Name: "warmup", Value: 1, Usage: "warmup runs", Destination: &warmup},
			&cli.Int64Flag{Name: "runs", Value: 5, Usage: "timed runs", Destination: &runs},
			&cli.Int64Flag{Name: "seed", Value: 42, Usage: "seed for synthetic data", Destination: &seed},
			&cli.BoolFlag{Name: "json", Usage: "emit the report as JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			variant, err := cam.ParseVariant(variantName)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			metric, err := cam.ParseMetric(metricName)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if rows <= 0 || columns <= 0 || numQueries <= 0 || numArrays <= 0 || runs <= 0 {
				return cli.Exit("error: rows, cols, queries, arrays and runs must be positive", 1)
			}

			backend := cpu.New()
			rng := rand.New(rand.NewSource(seed))

			arrays := make([]*cam.Array[*cpu.Backend], numArrays)
			queries := make([]*tensor.Tensor[float32, *cpu.Backend], numArrays)
			for i := range arrays {
				arr, err := synthArray(variant, int(rows), int(columns), backend, rng)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: build array: %v", err), 1)
				}
				q, err := synthQueries(variant, int(numQueries), int(columns), backend, rng)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: build queries: %v", err), 1)
				}
				arrays[i] = arr
				queries[i] = q
			}

			log.Info("benchmark configured",
				"run_id", uuid.NewString(),
				"variant", variant.String(),
				"metric", metric.String(),
				"rows", rows, "cols", columns,
				"queries", numQueries, "arrays", numArrays,
				"cpus", runtime.NumCPU())

			search := func() error {
				if numArrays == 1 {
					_, err := arrays[0].Match(queries[0], metric)
					return err
				}
				_, err := cam.BatchMatch(arrays, queries, metric)
				return err
			}

			for i := range int(warmup) {
				log.Debug("warmup run", "run", i+1)
				if err := search(); err != nil {
					return cli.Exit(fmt.Sprintf("error: warmup run %d: %v", i+1, err), 1)
				}
			}

			var total time.Duration
			for i := range int(runs) {
				start := time.Now()
				if err := search(); err != nil {
					return cli.Exit(fmt.Sprintf("error: timed run %d: %v", i+1, err), 1)
				}
				elapsed := time.Since(start)
				total += elapsed
				log.Debug("timed run", "run", i+1, "elapsed", elapsed.Round(time.Microsecond))
			}

			mean := total / time.Duration(runs)
			searches := float64(numQueries*numArrays) / mean.Seconds()
			report := benchReport{
				RunID:      uuid.NewString(),
				Variant:    variant.String(),
				Metric:     metric.String(),
				Rows:       int(rows),
				Columns:    int(columns),
				Queries:    int(numQueries),
				Arrays:     int(numArrays),
				Runs:       int(runs),
				MeanMillis: float64(mean.Microseconds()) / 1000,
				SearchesPS: searches,
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Printf("%-8s %-10s %8s %6s %8s %7s %12s %14s\n",
				"variant", "metric", "rows", "cols", "queries", "arrays", "mean", "searches/s")
			fmt.Printf("%-8s %-10s %8d %6d %8d %7d %12s %14.0f\n",
				report.Variant, report.Metric, report.Rows, report.Columns,
				report.Queries, report.Arrays, mean.Round(time.Microsecond), searches)
			return nil
		},
	}
}

// synthArray builds an array filled with variant-appropriate random rows.
func synthArray(variant cam.Variant, rows, columns int, b *cpu.Backend, rng *rand.Rand) (*cam.Array[*cpu.Backend], error) {
	arr, err := cam.NewArray(variant, rows, columns, b)
	if err != nil {
		return nil, err
	}
	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}
	data := make([]float32, rows*columns)
	for i := range data {
		switch variant {
		case cam.Binary:
			data[i] = float32(rng.Intn(2))
		case cam.Ternary:
			// Roughly one cell in four is a wildcard.
			if rng.Intn(4) == 0 {
				data[i] = cam.DontCare
			} else {
				data[i] = float32(rng.Intn(2))
			}
		default:
			data[i] = rng.Float32()
		}
	}
	t, err := tensor.FromSlice(data, tensor.Shape{rows, columns}, b)
	if err != nil {
		return nil, err
	}
	if err := arr.Write(indices, t, nil); err != nil {
		return nil, err
	}
	return arr, nil
}

func synthQueries(variant cam.Variant, numQueries, columns int, b *cpu.Backend, rng *rand.Rand) (*tensor.Tensor[float32, *cpu.Backend], error) {
	data := make([]float32, numQueries*columns)
	for i := range data {
		if variant == cam.Analog {
			data[i] = rng.Float32()
		} else {
			data[i] = float32(rng.Intn(2))
		}
	}
	return tensor.FromSlice(data, tensor.Shape{numQueries, columns}, b)
}
