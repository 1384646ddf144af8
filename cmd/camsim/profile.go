package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/camsim-dev/camsim/cam"
	"github.com/camsim-dev/camsim/internal/logger"
)

func profileCmd() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Device profile utilities",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Check a device profile file",
				ArgsUsage: "<profile file>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					log := logger.FromContext(ctx)
					if cmd.Args().Len() != 1 {
						return cli.Exit("error: expected exactly one profile file", 1)
					}
					path := cmd.Args().First()
					profile, err := cam.LoadProfile(path)
					if err != nil {
						return cli.Exit(fmt.Sprintf("error: %v", err), 1)
					}
					log.Info("profile is valid", "path", path,
						"noise", string(profile.Noise),
						"noise_scale", profile.NoiseScale,
						"quantization_levels", profile.QuantLevels,
						"stuck_at_rate", profile.StuckAtRate,
						"seed", profile.Seed)
					return nil
				},
			},
		},
	}
}
