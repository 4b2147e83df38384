package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"ballistix/adapters/excel"
	"ballistix/app"
	"ballistix/domain/ballistics"
	"ballistix/internal/config"
	"ballistix/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// sampleVelocities is a reference chronograph series for a 6 mm / 0.20 g BB
var sampleVelocities = []float64{125.4, 126.1, 124.8, 125.9, 127.2, 126.5, 125.0, 124.5, 126.8, 125.5}

// maxConcurrentFiles bounds parallel file analyses
const maxConcurrentFiles = 4

type cliOptions struct {
	diameter float64
	weight   float64
	preset   string
	report   bool
	asJSON   bool
}

type containerLoader func() (*container.Container, error)

func main() {
	if err := newRootCmd(loadContainer).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadContainer() (*container.Container, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

func newRootCmd(load containerLoader) *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "ballistix-cli",
		Short:         "Appraise projectile lethality from chronograph readings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.Float64Var(&opts.diameter, "diameter", 0, "Projectile diameter in mm (overrides --preset)")
	flags.Float64Var(&opts.weight, "weight", 0, "Projectile weight in grams (overrides --preset)")
	flags.StringVar(&opts.preset, "preset", "", "Named projectile preset (see 'presets')")
	flags.BoolVar(&opts.report, "report", false, "Generate the forensic report (requires OPENAI_API_KEY)")
	flags.BoolVar(&opts.asJSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newAnalyzeCmd(load, opts),
		newVelocitiesCmd(load, opts),
		newPresetsCmd(load),
	)

	return rootCmd
}

func newAnalyzeCmd(load containerLoader, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Appraise one batch per spreadsheet (.xlsx) or CSV file",
		Long: `Appraise shot sheets. Each file needs a velocity column and may carry
diameter_mm and weight_grams columns; missing values fall back to the projectile flags.

Example: ballistix-cli analyze session1.xlsx session2.csv --preset "6mm BB 0.25g"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load()
			if err != nil {
				return err
			}
			params, err := opts.projectile(c.Presets)
			if err != nil {
				return err
			}

			results, err := analyzeFiles(cmd.Context(), c.Service, args, params, !opts.report)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), args, results, opts.asJSON)
		},
	}
}

func newVelocitiesCmd(load containerLoader, opts *cliOptions) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "velocities [v1 v2 ...]",
		Short: "Appraise velocities (m/s) fired with one projectile",
		Long: `Appraise a single-ammunition batch given on the command line.

Example: ballistix-cli velocities 125.4 126.1 124.8 --diameter 6 --weight 0.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			velocities := sampleVelocities
			if !demo {
				if len(args) == 0 {
					return fmt.Errorf("provide at least one velocity or use --demo")
				}
				var err error
				velocities, err = parseArgs(args)
				if err != nil {
					return err
				}
			}

			c, err := load()
			if err != nil {
				return err
			}
			params, err := opts.projectile(c.Presets)
			if err != nil {
				return err
			}

			result, err := c.Service.AnalyzeVelocities(cmd.Context(), velocities, params, !opts.report)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), []string{"velocities"}, []*app.AppraisalResult{result}, opts.asJSON)
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Use a built-in reference series instead of arguments")
	return cmd
}

func newPresetsCmd(load containerLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List projectile presets as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(map[string]interface{}{"presets": c.Presets.Presets()})
		},
	}
}

// projectile resolves the flags against the presets
func (o *cliOptions) projectile(presets *config.PresetStore) (ballistics.ProjectileParams, error) {
	var explicit *ballistics.ProjectileParams
	if o.diameter != 0 || o.weight != 0 {
		p := ballistics.DefaultProjectile
		if o.diameter != 0 {
			p.DiameterMm = o.diameter
		}
		if o.weight != 0 {
			p.WeightGrams = o.weight
		}
		explicit = &p
	}
	return presets.Resolve(o.preset, explicit)
}

// analyzeFiles appraises each file concurrently; results keep argument order.
// The first failing file cancels the rest.
func analyzeFiles(ctx context.Context, svc *app.AppraisalService, files []string, params ballistics.ProjectileParams, skipReport bool) ([]*app.AppraisalResult, error) {
	results := make([]*app.AppraisalResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)

	for i, file := range files {
		g.Go(func() error {
			shots, err := excel.NewShotReader(file).ReadShots(params)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			result, err := svc.Analyze(gctx, app.AppraisalRequest{Shots: shots, Params: params, SkipReport: skipReport})
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseArgs(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("velocity %d: %q is not a number", i+1, a)
		}
		out[i] = v
	}
	return out, nil
}
