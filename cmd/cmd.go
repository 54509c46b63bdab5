// Package cmd defines the command-line interface for codemetrics.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(locCmd)
	rootCmd.AddCommand(agesCmd)
	rootCmd.AddCommand(hotspotsCmd)
	rootCmd.AddCommand(cochangesCmd)
	rootCmd.AddCommand(masschangesCmd)
	rootCmd.AddCommand(complexityCmd)
	rootCmd.AddCommand(componentsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("scm", string(schema.GitSCM), "Version control tool: git or svn")
	rootCmd.PersistentFlags().String("after", "", "Only include commits after this date (ISO8601 or time ago)")
	rootCmd.PersistentFlags().String("before", "", "Only include commits before this date (ISO8601 or time ago)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display (0 = unlimited)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or chart")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or bolt or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.NoneBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("cloc-bin", "cloc", "Path to the cloc executable")
	rootCmd.PersistentFlags().String("lizard-bin", "lizard", "Path to the lizard executable")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emoji markers in progress output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Per-command flags are bound to Viper by sharedSetup when the command
	// runs, so commands sharing a flag name never shadow each other.
	hotspotsCmd.Flags().String("join", string(schema.OuterJoin), "Join policy for paths in only one table: outer or inner")

	cochangesCmd.Flags().Float64("min-coupling", 0.0, "Drop pairs with coupling below this value")
	cochangesCmd.Flags().Bool("group-components", false, "Group paths into guessed components before pairing")
	cochangesCmd.Flags().Int("clusters", contract.DefaultClusters, "Number of components to guess when grouping")
	cochangesCmd.Flags().String("stop-words", "", "Comma-separated directory terms to ignore when grouping")

	masschangesCmd.Flags().Int("min-changes", contract.DefaultMinChanges, "Minimum files a revision must touch")

	componentsCmd.Flags().Int("clusters", contract.DefaultClusters, "Number of components to guess")
	componentsCmd.Flags().String("stop-words", "", "Comma-separated directory terms to ignore")

	complexityCmd.Flags().String("rev", "", "Revision to analyze (defaults to HEAD)")

	checkCmd.Flags().Float64("max-score", contract.DefaultMaxScore, "Fail when any hot-spot score exceeds this value")
	checkCmd.Flags().Float64("max-coupling", contract.DefaultMaxCoupling, "Fail when any coupling ratio exceeds this value")

	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
