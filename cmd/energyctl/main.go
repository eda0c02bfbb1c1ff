// energyctl - offline companion for the energy predictor
//
// Usage:
//
//	energyctl predict --model models/best_model.json --household-size 4 --temperature 25 --ac yes --peak 3.5
//	energyctl inspect --model models/best_model.json
//	energyctl publish --model models/best_model.json --database-url postgres://...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/smartcity/energy/internal/domain"
	"github.com/smartcity/energy/internal/logging"
	"github.com/smartcity/energy/internal/metrics"
	"github.com/smartcity/energy/internal/model"
	"github.com/smartcity/energy/internal/repository/filesystem"
	"github.com/smartcity/energy/internal/repository/postgres"
	"github.com/smartcity/energy/internal/service"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "energyctl",
		Usage:   "Household energy consumption predictor - offline tools",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Value:   "models/best_model.json",
				Usage:   "Path to the model artifact",
				EnvVars: []string{"MODEL_PATH"},
			},
		},
		Commands: []*cli.Command{
			predictCommand(),
			inspectCommand(),
			publishCommand(),
		},
	}
}

// =============================================================================
// PREDICT COMMAND
// =============================================================================

func predictCommand() *cli.Command {
	def := domain.DefaultPredictionRequest()
	return &cli.Command{
		Name:  "predict",
		Usage: "Predict daily consumption and cost for one household",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "household-size",
				Value: def.HouseholdSize,
				Usage: fmt.Sprintf("Number of people living in the household (%d-%d)", domain.MinHouseholdSize, domain.MaxHouseholdSize),
			},
			&cli.Float64Flag{
				Name:  "temperature",
				Value: def.AvgTemperatureC,
				Usage: "Average daily temperature in Celsius",
			},
			&cli.StringFlag{
				Name:  "ac",
				Value: domain.YesNo(def.HasAC),
				Usage: "Does the household have AC? (yes, no)",
			},
			&cli.Float64Flag{
				Name:  "peak",
				Value: def.PeakHoursUsageKWh,
				Usage: "Energy consumed during peak hours in kWh",
			},
			&cli.StringFlag{
				Name:    "rate",
				Value:   service.DefaultCostPerKWh.String(),
				Usage:   "Cost per kWh in dollars",
				EnvVars: []string{"COST_PER_KWH"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, json)",
			},
		},
		Action: runPredict,
	}
}

func runPredict(c *cli.Context) error {
	hasAC, err := parseYesNo(c.String("ac"))
	if err != nil {
		return err
	}
	rate, err := decimal.NewFromString(c.String("rate"))
	if err != nil {
		return fmt.Errorf("invalid --rate: %w", err)
	}
	if err := service.ValidateRate(rate); err != nil {
		return fmt.Errorf("invalid --rate: %w", err)
	}

	req := domain.PredictionRequest{
		HouseholdSize:     c.Int("household-size"),
		AvgTemperatureC:   c.Float64("temperature"),
		HasAC:             hasAC,
		PeakHoursUsageKWh: c.Float64("peak"),
	}.Clamped()

	logger, err := logging.New(logging.Options{Level: c.String("log-level")})
	if err != nil {
		return err
	}
	defer logger.Sync()

	mtr := metrics.New()
	m, loadErr := service.NewModelLoader(filesystem.NewFileSource(""), mtr, logger).Load(c.Context, c.String("model"))
	if loadErr != nil {
		return loadErr
	}

	svc := service.NewPredictionService(m, nil, service.NewPresenter(rate), mtr, logger)
	estimate, err := svc.Predict(c.Context, req)
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(estimate)
	}
	printEstimate(c.App.Writer, estimate)
	return nil
}

func printEstimate(w io.Writer, est domain.Estimate) {
	fmt.Fprintf(w, "Predicted Daily Consumption: %s\n", est.Display.Consumption)
	fmt.Fprintf(w, "Household Size:              %s\n", est.Insights.Household)
	fmt.Fprintf(w, "Temperature:                 %s\n", est.Insights.Temperature)
	fmt.Fprintf(w, "Peak Usage:                  %s\n", est.Insights.PeakUsage)
	fmt.Fprintf(w, "Estimated Daily Cost:        %s (at %s)\n", est.Display.DailyCost, est.Display.Rate)
	fmt.Fprintf(w, "Monthly Estimate:            %s\n", est.Display.MonthlyCost)
}

func parseYesNo(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true":
		return true, nil
	case "no", "n", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid --ac %q: want yes or no", v)
}

// =============================================================================
// INSPECT COMMAND
// =============================================================================

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Show model artifact metadata and schema compatibility",
		Action: func(c *cli.Context) error {
			payload, err := filesystem.NewFileSource("").Fetch(c.Context, c.String("model"))
			if err != nil {
				return err
			}
			m, err := model.Decode(payload)
			if err != nil {
				return err
			}

			meta := m.Metadata()
			compatible := m.Artifact().CheckSchema(domain.FeatureSchema()) == nil

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				model.Metadata
				SchemaCompatible bool `json:"schema_compatible"`
			}{meta, compatible})
		},
	}
}

// =============================================================================
// PUBLISH COMMAND
// =============================================================================

func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Register a model artifact in the Postgres model registry",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "PostgreSQL connection string",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Registry name (defaults to the artifact's name)",
			},
		},
		Action: runPublish,
	}
}

// registry is the write side of the Postgres model source
type registry interface {
	Migrate(ctx context.Context) error
	Save(ctx context.Context, name, version string, payload []byte) error
}

func runPublish(c *cli.Context) error {
	payload, err := filesystem.NewFileSource("").Fetch(c.Context, c.String("model"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	pool, err := pgxpool.New(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	defer pool.Close()

	meta, err := publish(ctx, postgres.NewPostgresSource(pool), payload, c.String("name"))
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: c.String("log-level")})
	if err != nil {
		return err
	}
	logger.Info("Model published", zap.String("name", meta.Name), zap.String("version", meta.Version))
	fmt.Fprintf(c.App.Writer, "published %s version %s\n", meta.Name, meta.Version)
	return nil
}

// publish validates payload and stores it under name, or under the
// artifact's own name when name is empty.
func publish(ctx context.Context, reg registry, payload []byte, name string) (model.Metadata, error) {
	m, err := model.Decode(payload)
	if err != nil {
		return model.Metadata{}, err
	}
	if err := m.Artifact().CheckSchema(domain.FeatureSchema()); err != nil {
		return model.Metadata{}, err
	}

	meta := m.Metadata()
	if name != "" {
		meta.Name = name
	}
	if meta.Name == "" {
		return model.Metadata{}, errors.New("artifact has no name, pass --name")
	}

	if err := reg.Migrate(ctx); err != nil {
		return model.Metadata{}, err
	}
	if err := reg.Save(ctx, meta.Name, meta.Version, payload); err != nil {
		return model.Metadata{}, err
	}
	return meta, nil
}
