package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smspocoredondo/DashUPA/common/logger"
	"github.com/smspocoredondo/DashUPA/internal/config"
	"github.com/smspocoredondo/DashUPA/internal/normalizer"
	"github.com/smspocoredondo/DashUPA/internal/report"
	"github.com/smspocoredondo/DashUPA/internal/service"
)

type analyzeOptions struct {
	schema       string
	scoring      string
	keywords     string
	profilesFile string
	filters      []string
	dateFrom     string
	dateTo       string
	hours        string
	topN         int
	output       string
	unitName     string
	logLevel     string
}

func analyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Normalize xlsx exports, print metrics as JSON and optionally write the report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.schema, "schema", "header", "Column layout: header or positional")
	f.StringVar(&opts.scoring, "scoring", "resolution-weighted", "Scoring profile name")
	f.StringVar(&opts.keywords, "keywords", "strict", "Keyword profile name")
	f.StringVar(&opts.profilesFile, "profiles", "", "Optional YAML file with extra profiles")
	f.StringArrayVar(&opts.filters, "filter", nil, "Column filter col=value (repeatable)")
	f.StringVar(&opts.dateFrom, "from", "", "First day, YYYY-MM-DD")
	f.StringVar(&opts.dateTo, "to", "", "Last day, YYYY-MM-DD")
	f.StringVar(&opts.hours, "hours", "", "Hour range, e.g. 7-18 or 22-5")
	f.IntVar(&opts.topN, "top", 10, "Number of items in top-N lists")
	f.StringVarP(&opts.output, "output", "o", "", "Write the xlsx report to this path")
	f.StringVar(&opts.unitName, "unit", "UPA 24H", "Unit name used in the report title")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	log, err := logger.NewLogger(opts.logLevel, "console", "dashupa-report")
	if err != nil {
		return err
	}
	defer log.Sync()

	schema, err := normalizer.ParseSchema(opts.schema)
	if err != nil {
		return err
	}
	profiles, err := config.LoadProfiles(opts.profilesFile)
	if err != nil {
		return err
	}
	registry := config.NewProfileRegistry(profiles, log)
	scoring, err := registry.Scoring(opts.scoring)
	if err != nil {
		return err
	}
	keywords, err := registry.Keywords(opts.keywords)
	if err != nil {
		return err
	}
	flt, err := buildFilter(opts.filters, opts.dateFrom, opts.dateTo, opts.hours)
	if err != nil {
		return err
	}

	inputs := make([]normalizer.Input, 0, len(args))
	for _, path := range args {
		fh, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer fh.Close()
		inputs = append(inputs, normalizer.Input{Name: filepath.Base(path), Reader: fh})
	}

	records, files := normalizer.NewNormalizer(schema, log).LoadAll(inputs)
	for _, f := range files {
		if f.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Name, f.Err)
		} else if len(f.MissingColumns) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: missing columns %v\n", f.Name, f.MissingColumns)
		}
	}

	result, err := service.RunPipeline(records, service.PipelineOptions{
		Filter:                 flt,
		Scoring:                scoring,
		Keywords:               keywords,
		ProfessionalCategories: registry.ProfessionalCategories(),
		TopN:                   opts.topN,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}

	if opts.output == "" {
		return nil
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	r := report.Build(report.Input{
		UnitName:       opts.unitName,
		Metrics:        result.Metrics,
		Breakdown:      result.Breakdown,
		Filter:         flt,
		Profile:        scoring,
		KeywordProfile: keywords.Name,
		SourceFiles:    names,
	})
	out, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.output, err)
	}
	defer out.Close()
	if err := report.WriteXLSX(r, out); err != nil {
		return err
	}
	log.Info("Report written", zap.String("path", opts.output))
	return nil
}
