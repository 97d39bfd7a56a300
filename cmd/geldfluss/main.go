package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/geldfluss/geldfluss/pkg/categorizer"
	"github.com/geldfluss/geldfluss/pkg/config"
	"github.com/geldfluss/geldfluss/pkg/pipeline"
)

var (
	cfgFile string
	dump    bool
)

var rootCmd = &cobra.Command{
	Use:   "geldfluss",
	Short: "Normalize, anonymize and classify bank-transaction exports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var processCmd = &cobra.Command{
	Use:   "process [flags] <export_file>",
	Short: "Run the full pipeline on one bank export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		level := log.InfoLevel
		if cfg.Debug {
			level = log.DebugLevel
		}
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "geldfluss",
			Level:           level,
		})

		session, err := buildSession(logger, cfg)
		if err != nil {
			return err
		}

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		result, err := session.Process(data, path)
		if err != nil {
			return err
		}

		if dump {
			pp.Fprintln(os.Stderr, result)
		}

		switch cfg.Output {
		case "json":
			return result.WriteJSON(os.Stdout)
		case "summary":
			summary := pipeline.Summarize(result.Transactions)
			pp.Fprintln(os.Stdout, summary)
			return nil
		default:
			return result.WriteCSV(os.Stdout)
		}
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the canonical category vocabulary",
	Run: func(_ *cobra.Command, _ []string) {
		for _, c := range categorizer.Categories {
			fmt.Println(c)
		}
	},
}

// buildSession wires the configuration tables into a fresh pipeline session.
func buildSession(logger *log.Logger, cfg *config.Config) (*pipeline.Session, error) {
	opts := []pipeline.Option{
		pipeline.WithAnonymization(cfg.Anonymize),
	}

	catOpts := []categorizer.Option{}
	if len(cfg.Rules) > 0 {
		rules, err := categorizer.CompileRules(cfg.Rules)
		if err != nil {
			return nil, err
		}
		catOpts = append(catOpts, categorizer.WithRules(rules))
	}
	if len(cfg.Translations) > 0 {
		catOpts = append(catOpts, categorizer.WithTranslations(cfg.Translations))
	}
	if len(cfg.TransferKeywords) > 0 {
		catOpts = append(catOpts, categorizer.WithTransferKeywords(cfg.TransferKeywords))
		opts = append(opts, pipeline.WithTransferKeywords(cfg.TransferKeywords))
	}
	if len(cfg.LearnedMappings) > 0 {
		catOpts = append(catOpts, categorizer.WithLearned(categorizer.NewLearnedTable(cfg.LearnedMappings)))
	}
	if len(catOpts) > 0 {
		opts = append(opts, pipeline.WithCategorizer(categorizer.New(logger, catOpts...)))
	}
	if len(cfg.Businesses) > 0 {
		opts = append(opts, pipeline.WithBusinesses(cfg.Businesses))
	}

	return pipeline.NewSession(logger, opts...), nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is geldfluss.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	processCmd.Flags().Bool("anonymize", true, "Anonymize personal data before classification")
	processCmd.Flags().StringP("output", "o", "csv", "Output format: csv, json or summary")
	processCmd.Flags().BoolVar(&dump, "dump", false, "Pretty-print the full result to stderr")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func main() {
	_ = gotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
