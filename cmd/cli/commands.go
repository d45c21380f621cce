package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"jsonprof/adapters/api"
	"jsonprof/adapters/mcpserver"
	"jsonprof/app"
	"jsonprof/domain/jsonvalue"
	"jsonprof/internal"
	"jsonprof/internal/config"
	"jsonprof/internal/testkit"
)

// loadConfig reads configuration and applies the configured log level
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if level, ok := internal.ParseLogLevel(cfg.Logging.Level); ok {
		internal.SetDefaultLevel(level)
	}
	return cfg, nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		file       string
		jsonText   string
		useSample  bool
		zThreshold float64
		maxDepth   int
		truncate   bool
		output     string
		format     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one JSON document",
		Long: `Analyze a JSON document from a file, an inline string or the built-in sample.

Files ending in .xlsx, .xlsm or .csv are read as row objects; .pprof, .prof
and .pb.gz files are summarized as profiles first.

Example: jsonprof analyze -f metrics.json -z 2.5 --format yaml -o report.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("z-threshold") {
				cfg.Analyzer.ZThreshold = zThreshold
			}
			if cmd.Flags().Changed("max-depth") {
				cfg.Analyzer.MaxDepth = maxDepth
			}
			if cmd.Flags().Changed("truncate-deep") {
				cfg.Analyzer.TruncateDeep = truncate
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if jsonOutput {
				format = string(app.FormatJSON)
			}
			outFormat, err := app.ParseFormat(format)
			if err != nil {
				return err
			}

			service := app.NewAnalysisServiceFromConfig(cfg)
			ctx := cmd.Context()

			var run *app.Run
			switch {
			case file != "":
				run, err = service.AnalyzeFile(ctx, file)
			case jsonText != "":
				run, err = service.AnalyzeBytes(ctx, []byte(jsonText))
			default:
				run, err = service.AnalyzeDocument(ctx, "sample", testkit.SampleDocument())
			}
			if err != nil {
				return err
			}

			rendered, err := app.Render(run, outFormat)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, rendered)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON, spreadsheet or pprof file to analyze")
	cmd.Flags().StringVarP(&jsonText, "json", "j", "", "Inline JSON document")
	cmd.Flags().BoolVar(&useSample, "sample", false, "Analyze the built-in sample document")
	cmd.Flags().Float64VarP(&zThreshold, "z-threshold", "z", config.DefaultZThreshold, "Absolute z-score above which an element is an anomaly")
	cmd.Flags().IntVar(&maxDepth, "max-depth", config.DefaultMaxDepth, "Maximum nesting depth")
	cmd.Flags().BoolVar(&truncate, "truncate-deep", false, "Replace subtrees beyond --max-depth instead of failing")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of stdout")
	cmd.Flags().StringVar(&format, "format", string(app.FormatText), "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&jsonOutput, "json-output", false, "Emit the full stats tree as JSON (same as --format json)")

	cmd.MarkFlagsMutuallyExclusive("file", "json", "sample")
	cmd.MarkFlagsOneRequired("file", "json", "sample")
	cmd.MarkFlagsMutuallyExclusive("json-output", "format")

	return cmd
}

func newBatchCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Analyze several files concurrently",
		Long: `Analyze every file and print one summary line per file, in argument order.
The command fails if any file could not be analyzed.

Example: jsonprof batch logs/*.json --concurrency 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Batch.Concurrency = concurrency
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			batch, err := app.NewAnalysisServiceFromConfig(cfg).AnalyzeFiles(cmd.Context(), args)
			if batch != nil {
				out := cmd.OutOrStdout()
				for _, r := range batch.Results {
					if r.Err != nil {
						fmt.Fprintf(out, "%s: error: %v\n", r.Path, r.Err)
						continue
					}
					fmt.Fprintf(out, "%s: %d anomalies, %d arrays (run %s)\n",
						r.Path, len(r.Run.Analysis.Anomalies), len(r.Run.Analysis.Boundaries), r.Run.ID)
				}
				fmt.Fprintf(out, "%d succeeded, %d failed in %s\n", batch.Succeeded, batch.Failed, batch.Duration)
			}
			if err != nil {
				return err
			}
			if batch.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", batch.Failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", config.DefaultConcurrency, "Number of files analyzed at once")

	return cmd
}

func newSampleCmd() *cobra.Command {
	var (
		output    string
		synthetic bool
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a sample document",
		Long: `Write the built-in sample document, or with --synthetic a generated set of
noisy series with planted spikes.

Example: jsonprof sample --synthetic --seed 7 -o series.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if synthetic {
				genCfg := testkit.DefaultSeriesConfig()
				genCfg.Seed = seed
				generator := testkit.NewSeriesGenerator(genCfg)

				if output != "" {
					generated, err := generator.WriteToFile(output)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s with %d planted spikes\n", output, len(generated.Planted))
					return nil
				}
				generated, err := generator.Generate()
				if err != nil {
					return err
				}
				return printDocument(cmd, "", generated.Document)
			}

			return printDocument(cmd, output, testkit.SampleDocument())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to this file instead of stdout")
	cmd.Flags().BoolVar(&synthetic, "synthetic", false, "Generate noisy series with planted spikes")
	cmd.Flags().Int64Var(&seed, "seed", testkit.DefaultSeriesConfig().Seed, "Random seed for --synthetic")

	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(app.NewAnalysisServiceFromConfig(cfg), cfg.Server)
			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")

	return cmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analyze_json tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return mcpserver.NewServer(app.NewAnalysisServiceFromConfig(cfg)).ServeStdio()
		},
	}
}

func printDocument(cmd *cobra.Command, path string, doc *jsonvalue.Value) error {
	data, err := jsonvalue.MarshalIndent(doc)
	if err != nil {
		return err
	}
	return writeOutput(cmd, path, string(data))
}

// writeOutput prints to stdout when path is empty, otherwise writes the file
func writeOutput(cmd *cobra.Command, path, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}
