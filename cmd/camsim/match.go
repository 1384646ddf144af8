package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/camsim-dev/camsim/backend/cpu"
	"github.com/camsim-dev/camsim/cam"
	"github.com/camsim-dev/camsim/internal/logger"
	"github.com/camsim-dev/camsim/tensor"
)

// analogRowsFile is the optional interval form of an analog data file.
type analogRowsFile struct {
	Low  [][]float32 `json:"low"`
	High [][]float32 `json:"high"`
}

type matchReport struct {
	Variant   string      `json:"variant"`
	Metric    string      `json:"metric"`
	Queries   int         `json:"queries"`
	Rows      int         `json:"rows"`
	Matches   [][]bool    `json:"matches,omitempty"`
	Scores    [][]float32 `json:"scores,omitempty"`
	BestIndex []int64     `json:"best_index,omitempty"`
	BestScore []float32   `json:"best_score,omitempty"`
}

func matchCmd() *cli.Command {
	var (
		variantName string
		metricName  string
		arrayPath   string
		queryPath   string
		profilePath string
	)

	return &cli.Command{
		Name:  "match",
		Usage: "Search an array loaded from data files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "variant", Value: "ternary", Usage: "array variant (binary, ternary, analog)", Destination: &variantName},
			&cli.StringFlag{Name: "metric", Value: "exact", Usage: "match metric (exact, euclidean, manhattan, dot)", Destination: &metricName},
			&cli.StringFlag{Name: "array", Usage: "JSON file with stored rows", Required: true, Destination: &arrayPath},
			&cli.StringFlag{Name: "queries", Usage: "JSON file with query rows", Required: true, Destination: &queryPath},
			&cli.StringFlag{Name: "profile", Usage: "device profile file (YAML or JSON)", Destination: &profilePath},
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

			var profile *cam.DeviceProfile
			if profilePath != "" {
				profile, err = cam.LoadProfile(profilePath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: load profile: %v", err), 1)
				}
				log.Info("device profile loaded", "path", profilePath,
					"noise", string(profile.Noise), "quantization_levels", profile.QuantLevels)
			}

			backend := cpu.New()
			arr, err := loadArray(variant, arrayPath, profile, backend)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load array: %v", err), 1)
			}
			queries, err := loadRows(queryPath, backend)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load queries: %v", err), 1)
			}

			log.Info("searching", "variant", variant.String(), "metric", metric.String(),
				"rows", arr.Rows(), "cols", arr.Columns(), "queries", queries.Shape()[0])

			result, err := arr.Match(queries, metric)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: match: %v", err), 1)
			}

			report := matchReport{
				Variant:   variant.String(),
				Metric:    metric.String(),
				Queries:   result.NumQueries(),
				Rows:      arr.Rows(),
				BestIndex: result.BestIndex,
				BestScore: result.BestScore,
			}
			if result.Matches != nil {
				report.Matches = boolGrid(result.Matches.Data(), arr.Rows())
			}
			if result.Scores != nil {
				report.Scores = floatGrid(result.Scores.Data(), arr.Rows())
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}

// loadArray reads a data file and programs a fresh array with its rows.
// Analog files may carry explicit {low, high} intervals.
func loadArray(variant cam.Variant, path string, profile *cam.DeviceProfile, b *cpu.Backend) (*cam.Array[*cpu.Backend], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if variant == cam.Analog {
		var intervals analogRowsFile
		if err := json.Unmarshal(raw, &intervals); err == nil && len(intervals.Low) > 0 {
			low, err := gridTensor(intervals.Low, b)
			if err != nil {
				return nil, err
			}
			high, err := gridTensor(intervals.High, b)
			if err != nil {
				return nil, err
			}
			arr, err := cam.NewArray(variant, len(intervals.Low), len(intervals.Low[0]), b)
			if err != nil {
				return nil, err
			}
			if err := arr.WriteBounds(allRows(arr.Rows()), low, high, profile); err != nil {
				return nil, err
			}
			return arr, nil
		}
	}

	var grid [][]float32
	if err := json.Unmarshal(raw, &grid); err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("data file %q holds no rows", path)
	}
	rows, err := gridTensor(grid, b)
	if err != nil {
		return nil, err
	}
	arr, err := cam.NewArray(variant, len(grid), len(grid[0]), b)
	if err != nil {
		return nil, err
	}
	if err := arr.Write(allRows(len(grid)), rows, profile); err != nil {
		return nil, err
	}
	return arr, nil
}

func loadRows(path string, b *cpu.Backend) (*tensor.Tensor[float32, *cpu.Backend], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var grid [][]float32
	if err := json.Unmarshal(raw, &grid); err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("data file %q holds no rows", path)
	}
	return gridTensor(grid, b)
}

func gridTensor(grid [][]float32, b *cpu.Backend) (*tensor.Tensor[float32, *cpu.Backend], error) {
	cols := len(grid[0])
	flat := make([]float32, 0, len(grid)*cols)
	for i, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return tensor.FromSlice(flat, tensor.Shape{len(grid), cols}, b)
}

func allRows(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

func boolGrid(flat []bool, cols int) [][]bool {
	out := make([][]bool, 0, len(flat)/max(cols, 1))
	for i := 0; i+cols <= len(flat); i += cols {
		out = append(out, flat[i:i+cols])
	}
	return out
}

func floatGrid(flat []float32, cols int) [][]float32 {
	out := make([][]float32, 0, len(flat)/max(cols, 1))
	for i := 0; i+cols <= len(flat); i += cols {
		out = append(out, flat[i:i+cols])
	}
	return out
}
