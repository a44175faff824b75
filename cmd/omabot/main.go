package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"omabot/internal/config"
	"omabot/internal/logging"
	"omabot/internal/oma"
	"omabot/internal/pipeline"
	"omabot/internal/wikidata"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "omabot",
		Short: "Import gene ortholog pairs from the OMA database into Wikidata",
	}
	cfgPath    string
	writeMode  bool
	numWorkers int
	dataDir    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "Path to the YAML configuration file")

	runCmd.Flags().BoolVar(&writeMode, "write", false, "Enable write mode which requires login and password (default: dry run)")
	runCmd.Flags().IntVar(&numWorkers, "workers", 0, "Worker count for parallel row processing (0 = number of CPUs, 1 = sequential)")
	runCmd.Flags().StringVar(&dataDir, "data-dir", "", "Working directory for OMA files, logs and output (overrides config)")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process OMA ortholog pairs and emit confirmed ortholog statements",
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		ctx := context.Background()

		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			fatal("Failed to load config: %v", err)
		}
		if dataDir != "" {
			cfg.Data.Dir = dataDir
		}
		if numWorkers <= 0 {
			numWorkers = runtime.NumCPU()
		}

		log, closeLog, err := logging.Setup(cfg.Data.Dir)
		if err != nil {
			fatal("Failed to set up logging: %v", err)
		}
		defer closeLog()

		// --- Setup phase: credentials, login, maps, bootstrap data. Any
		// failure here is fatal and aborts before a single file is read.

		kb := wikidata.NewClient(cfg.Wikidata.APIURL, cfg.Wikidata.SPARQLURL, nil)

		var writer pipeline.StatementSubmitter
		if writeMode {
			if err := cfg.RequireWriteCredentials(); err != nil {
				fatal("%v", err)
			}
			session, err := wikidata.Login(ctx, cfg.Wikidata.APIURL, cfg.Wikidata.User, cfg.Wikidata.Password, nil)
			if err != nil {
				fatal("Wikidata login failed: %v", err)
			}
			writer = wikidata.NewWriter(session)
			log.Info().Str("user", cfg.Wikidata.User).Msg("write mode enabled")
		}

		genes, err := pipeline.BuildIdentifierMap(ctx, kb, []string{
			wikidata.PropEntrezGeneID,
			wikidata.PropEnsemblGeneID,
		})
		if err != nil {
			fatal("Failed to build gene identifier map: %v", err)
		}
		fmt.Printf("🔢 %d gene IDs found in Wikidata\n", len(genes))

		var taxa map[string]string
		if writeMode {
			taxa, err = pipeline.BuildTaxonMap(ctx, kb)
			if err != nil {
				fatal("Failed to build taxon map: %v", err)
			}
		}

		omaDir, err := oma.EnsureData(ctx, cfg.Data.Dir, cfg.OMA.ArchiveURL)
		if err != nil {
			fatal("Failed to acquire OMA files: %v", err)
		}

		// --- Process phase

		processor := pipeline.NewProcessor(genes,
			pipeline.NewResolver(kb),
			pipeline.NewURLValidator(&http.Client{Timeout: 5 * time.Second}))
		runner := pipeline.NewRunner(log, genes, taxa, processor, writer, numWorkers)

		fmt.Printf("🚀 Processing OMA orthologs files in %s (workers: %d)\n", omaDir, numWorkers)
		report, err := runner.Run(ctx, omaDir)
		if err != nil {
			fatal("Run failed: %v", err)
		}

		// --- Report phase

		outPath := "valid_ortholog_pairs.csv"
		if err := pipeline.WriteAuditCSV(outPath, report.Pairs, writeMode); err != nil {
			fatal("Failed to write audit CSV: %v", err)
		}

		for _, bucket := range report.Buckets.Names() {
			fmt.Printf("⚠️ %s: %d\n", bucket, report.Buckets.Count(bucket))
		}
		fmt.Printf("✅ %d orthologs pairs found with proper OMA URL\n", len(report.Pairs))
		fmt.Printf("⏱️ Total time taken: %.2f minutes\n", time.Since(start).Minutes())
	},
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "❌ "+format+"\n", args...)
	os.Exit(1)
}
