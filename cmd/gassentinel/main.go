// GasSentinel - compressed-gas cylinder forecasting and ordering.
//
// Usage:
//
//	gassentinel analyze --readings readings.xlsx --output-dir out/
//	gassentinel forecast --readings readings.xlsx --rooms 292,310
//	gassentinel plan --readings readings.xlsx
//	gassentinel levels --file current_levels.csv
//	gassentinel run
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"GasSentinel/internal/collector"
	"GasSentinel/internal/config"
	"GasSentinel/internal/notifier"
	"GasSentinel/internal/pipeline"
	"GasSentinel/internal/store"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	app := &cli.App{
		Name:    "gassentinel",
		Usage:   "Forecast gas cylinder depletion and plan weekly orders",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "configs/config.yaml",
				Usage:   "Path to YAML config",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			analyzeCommand(),
			forecastCommand(),
			planCommand(),
			levelsCommand(),
			runCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "readings",
			Aliases: []string{"r"},
			Usage:   "Reading log (.xlsx or .csv); defaults to data.readings_path",
		},
		&cli.StringFlag{
			Name:  "rooms",
			Usage: "Comma-separated rooms to forecast, in priority order",
		},
		&cli.IntFlag{
			Name:  "horizon",
			Usage: "Forecast horizon in days",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "json",
			Usage:   "Output format (json, text)",
		},
	}
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Run the full analysis and write the JSON documents",
		Flags: append(pipelineFlags(),
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "Directory for weekly_forecast.json, monday_action_plan.json and problem_report.json",
			},
		),
		Action: func(c *cli.Context) error {
			cfg, res, err := runPipeline(c)
			if err != nil {
				return err
			}
			dir := c.String("output-dir")
			if dir == "" {
				dir = cfg.Output.Dir
			}
			if err := store.New(dir).SaveAll(res.Bundle, res.Plan, res.Report); err != nil {
				return err
			}
			fmt.Println(notifier.FormatForecastSummary(res.Bundle))
			fmt.Println(notifier.FormatActionPlan(res.Plan))
			fmt.Println(notifier.FormatProblemSummary(res.Report))
			fmt.Fprintf(os.Stderr, "documents written to %s\n", dir)
			return nil
		},
	}
}

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Print the forecast bundle",
		Flags: pipelineFlags(),
		Action: func(c *cli.Context) error {
			_, res, err := runPipeline(c)
			if err != nil {
				return err
			}
			if c.String("format") == "text" {
				fmt.Println(notifier.FormatForecastSummary(res.Bundle))
				return nil
			}
			return printJSON(res.Bundle)
		},
	}
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Print the Monday action plan",
		Flags: pipelineFlags(),
		Action: func(c *cli.Context) error {
			_, res, err := runPipeline(c)
			if err != nil {
				return err
			}
			if c.String("format") == "text" {
				fmt.Println(notifier.FormatActionPlan(res.Plan))
				return nil
			}
			return printJSON(res.Plan)
		},
	}
}

func levelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "levels",
		Usage: "Print a current-levels snapshot file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "Current levels file (.xlsx or .csv); defaults to data.levels_path",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			path := c.String("file")
			if path == "" {
				path = cfg.Data.LevelsPath
			}
			if path == "" {
				return fmt.Errorf("no levels file: pass --file or set data.levels_path")
			}
			levels, err := collector.LoadLevels(path)
			if err != nil {
				return err
			}
			return printJSON(levels)
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// runPipeline applies flag overrides to the config and analyses the readings once.
func runPipeline(c *cli.Context) (*config.Config, *pipeline.Result, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	if v := c.String("readings"); v != "" {
		cfg.Data.ReadingsPath = v
	}
	if v := c.String("rooms"); v != "" {
		cfg.Forecast.Rooms = splitRooms(v)
	}
	if v := c.Int("horizon"); v > 0 {
		cfg.Forecast.Horizon = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation: %w", err)
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := p.RunFile(cfg.Data.ReadingsPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, res, nil
}

func newPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	costs, err := cfg.OptimizerCosts()
	if err != nil {
		return nil, err
	}
	return pipeline.New(pipeline.Options{
		Horizon:      cfg.Forecast.Horizon,
		Rooms:        cfg.Forecast.Rooms,
		Costs:        costs,
		RentalPerDay: cfg.RentalPerDay(),
	}), nil
}

func splitRooms(v string) []string {
	var rooms []string
	for _, r := range strings.Split(v, ",") {
		if r = strings.TrimSpace(r); r != "" {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
