// Command pipeline runs the county health data pipeline: import, clean,
// featurize, split, train, and evaluate, persisting model artifacts to the
// application database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/clean"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/config"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/database"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/featurize"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/model"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/monitoring"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/places"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

var (
	configPath string
	dataDir    string
)

func main() {
	logger := monitoring.NewLogger(slog.LevelInfo)
	slog.SetDefault(logger.Logger)

	root := &cobra.Command{
		Use:   "pipeline",
		Short: "County health survey model pipeline",
		Long:  "Imports the county health survey extract, builds model features, fits the general health model, and persists its parameters for serving.",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "pipeline YAML config (defaults built in)")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "application database directory")

	root.AddCommand(
		migrateCmd(),
		seedMeasuresCmd(),
		cleanCmd(),
		featurizeCmd(),
		splitCmd(),
		trainCmd(),
		evaluateCmd(),
		resetPredictionsCmd(),
	)

	if err := root.Execute(); err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

func openRepo() (*database.DB, *database.Repository, error) {
	db, err := database.NewDB(dataDir)
	if err != nil {
		return nil, nil, err
	}
	return db, database.NewRepository(db), nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the application database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openRepo()
			if err != nil {
				return err
			}
			defer db.Close()
			return db.Migrate()
		},
	}
}

func seedMeasuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-measures",
		Short: "Load the measure reference table",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, repo, err := openRepo()
			if err != nil {
				return err
			}
			defer db.Close()
			return repo.SeedMeasures(cmd.Context())
		},
	}
}

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Validate the raw extract and pivot it to one row per county",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPipeline(configPath)
			if err != nil {
				return err
			}

			raw, err := table.ReadCSV(cfg.RawPath, places.RawColumns)
			if err != nil {
				return err
			}
			if err := clean.Validate(raw, places.RawSchema); err != nil {
				return err
			}

			wide, err := clean.Pivot(raw, places.PivotIndex, places.ColMeasureID, places.ColDataValue)
			if err != nil {
				return err
			}
			clean.DropColumns(wide, cfg.InvalidDrop)

			wide, removed, err := clean.DropNullResponses(wide, cfg.Response)
			if err != nil {
				return err
			}

			if err := table.WriteCSV(wide, cfg.CleanPath); err != nil {
				return err
			}
			fmt.Printf("cleaned %d counties (%d without a response dropped) -> %s\n", wide.NumRows(), removed, cfg.CleanPath)
			return nil
		},
	}
}

func featurizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "featurize",
		Short: "Build model features and persist scaling ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPipeline(configPath)
			if err != nil {
				return err
			}
			db, repo, err := openRepo()
			if err != nil {
				return err
			}
			defer db.Close()

			t, err := table.ReadCSV(cfg.CleanPath, nil)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := buildFeatures(ctx, t, cfg, repo); err != nil {
				return err
			}

			if err := table.WriteCSV(t, cfg.FeaturesPath); err != nil {
				return err
			}
			fmt.Printf("featurized %d counties -> %s\n", t.NumRows(), cfg.FeaturesPath)
			return nil
		},
	}
}

// buildFeatures applies the featurization stages in order: proportion
// rescaling, the log-odds response, population scaling, and region
// encoding.
func buildFeatures(ctx context.Context, t *table.Table, cfg config.Pipeline, store featurize.RangeStore) error {
	if err := featurize.Proportions(t, cfg.Proportions); err != nil {
		return err
	}
	if err := featurize.Logit(t, cfg.Response, "logit_"+cfg.Response); err != nil {
		return err
	}
	if err := featurize.MinMaxScale(ctx, t, []string{places.ColPopulation}, store); err != nil {
		return err
	}
	unmapped, err := featurize.EncodeRegions(t, featurize.RegionOptions{
		Column:    places.ColState,
		Mapping:   cfg.StateRegions,
		Reference: cfg.Reference,
		Strict:    cfg.StrictRegions,
	})
	if err != nil {
		return err
	}
	if len(unmapped) > 0 {
		slog.Warn("states without a region mapping", "states", unmapped)
	}
	return nil
}

func splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split",
		Short: "Assign counties to the training and test partitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPipeline(configPath)
			if err != nil {
				return err
			}

			t, err := table.ReadCSV(cfg.FeaturesPath, nil)
			if err != nil {
				return err
			}
			if err := model.Split(t, cfg.TestFraction, cfg.Seed); err != nil {
				return err
			}
			if err := table.WriteCSV(t, cfg.FeaturesPath); err != nil {
				return err
			}
			fmt.Printf("split %d counties (test fraction %g, seed %d)\n", t.NumRows(), cfg.TestFraction, cfg.Seed)
			return nil
		},
	}
}

func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Fit the general health model and store its parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPipeline(configPath)
			if err != nil {
				return err
			}
			db, repo, err := openRepo()
			if err != nil {
				return err
			}
			defer db.Close()

			t, err := table.ReadCSV(cfg.FeaturesPath, nil)
			if err != nil {
				return err
			}
			train, err := model.TrainingRows(t, true)
			if err != nil {
				return err
			}

			params, _, err := model.Fit(train, cfg.Features, "logit_"+cfg.Response, model.Options{FitIntercept: cfg.FitIntercept})
			if err != nil {
				return err
			}
			if err := repo.PutParameters(cmd.Context(), params); err != nil {
				return err
			}
			fmt.Printf("trained on %d counties, stored %d coefficients\n", train.NumRows(), len(params.Coefficients))
			return nil
		},
	}
}

func evaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Score the stored model on the test partition",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPipeline(configPath)
			if err != nil {
				return err
			}
			db, repo, err := openRepo()
			if err != nil {
				return err
			}
			defer db.Close()

			t, err := table.ReadCSV(cfg.FeaturesPath, nil)
			if err != nil {
				return err
			}
			test, err := model.TrainingRows(t, false)
			if err != nil {
				return err
			}

			params, err := repo.LatestParameters(cmd.Context())
			if err != nil {
				return err
			}
			m, err := model.NewModel(params, cfg.Features)
			if err != nil {
				return err
			}

			response := "logit_" + cfg.Response
			predicted := "predicted_" + response
			if err := m.PredictTable(test, predicted); err != nil {
				return err
			}

			rmse, err := model.RMSE(test, response, predicted, true)
			if err != nil {
				return err
			}
			if err := model.ScatterSVG(test, response, predicted, cfg.PlotPath, true); err != nil {
				return err
			}
			fmt.Printf("test RMSE (proportion scale): %.5f, plot -> %s\n", rmse, cfg.PlotPath)
			return nil
		},
	}
}

func resetPredictionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-predictions",
		Short: "Delete all stored predictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, repo, err := openRepo()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := repo.DeleteAllPredictions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d predictions\n", n)
			return nil
		},
	}
}
