package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"recipe-importer/internal/core/parser"
	"recipe-importer/internal/core/queue"
	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	jsonOutput         bool
	strict             bool
	maxRows            int
	placeholderBaseURL string
	logLevel           string
	workers            int
}

// errStrict 嚴格模式下結果含警告或不完整
var errStrict = errors.New("recipe has warnings")

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "recipeparse [file...]",
		Short: "Parse recipe spreadsheet exports into recipe JSON",
		Long: "Parse a tab-separated block copied from a recipe spreadsheet.\n" +
			"Reads stdin when no file is given or the file is \"-\".",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			common.InitConsoleLogger(opts.logLevel)
			defer common.Sync()

			p := parser.New(parser.Options{
				MaxRows:            opts.maxRows,
				PlaceholderBaseURL: opts.placeholderBaseURL,
			})
			if len(args) <= 1 {
				name := "-"
				if len(args) == 1 {
					name = args[0]
				}
				return runSingle(cmd, opts, p, name)
			}
			return runMany(cmd, opts, p, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.jsonOutput, "json", false, "Always output JSON, even on a terminal")
	flags.BoolVar(&opts.strict, "strict", false, "Exit non-zero when any warning is produced or the recipe is incomplete")
	flags.IntVar(&opts.maxRows, "max-rows", 0, "Reject input with more rows than this (0 = unlimited)")
	flags.StringVar(&opts.placeholderBaseURL, "placeholder-base-url", parser.DefaultPlaceholderBaseURL, "Prefix for generated placeholder image URLs")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.IntVar(&opts.workers, "workers", 4, "Files parsed in parallel when several are given")

	return cmd
}

func runSingle(cmd *cobra.Command, opts *options, p *parser.Parser, name string) error {
	text, err := readInput(cmd, name)
	if err != nil {
		return err
	}

	res, err := p.Parse(text)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(name), err)
	}
	common.LogDebug("解析完成",
		zap.String("input", displayName(name)),
		zap.Int("rows", res.Stats.Rows),
		zap.Int("warnings", len(res.Warnings)),
	)

	out := cmd.OutOrStdout()
	if opts.jsonOutput || !isTerminal(out) {
		if err := writeJSON(cmd, recipe.NewImportResponse(res, false)); err != nil {
			return err
		}
	} else {
		printResult(out, res)
	}

	if opts.strict && (len(res.Warnings) > 0 || res.Incomplete) {
		return fmt.Errorf("%w: %d warning(s), incomplete=%t", errStrict, len(res.Warnings), res.Incomplete)
	}
	return nil
}

// fileResult 多檔模式下單一檔案的輸出
type fileResult struct {
	File   string                 `json:"file"`
	Result *recipe.ImportResponse `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

func runMany(cmd *cobra.Command, opts *options, p *parser.Parser, files []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workers := opts.workers
	if workers < 1 {
		workers = 1
	}
	q := queue.NewManager(config.QueueConfig{Workers: workers, MaxSize: len(files)}, func(_ context.Context, text string) (*parser.Result, error) {
		return p.Parse(text)
	})
	defer q.Close()

	results := make([]fileResult, len(files))
	pending := make([]<-chan queue.Result, len(files))
	for i, name := range files {
		results[i].File = name
		text, err := readInput(cmd, name)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		ch, err := q.Enqueue(ctx, text)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		pending[i] = ch
	}

	failed := 0
	for i, ch := range pending {
		if ch != nil {
			select {
			case r := <-ch:
				if r.Error != nil {
					results[i].Error = r.Error.Error()
				} else {
					results[i].Result = recipe.NewImportResponse(r.Result, false)
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if results[i].Error != "" {
			failed++
		} else if opts.strict && (len(results[i].Result.Warnings) > 0 || results[i].Result.Incomplete) {
			failed++
		}
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput || !isTerminal(out) {
		if err := writeJSON(cmd, results); err != nil {
			return err
		}
	} else {
		printSummary(out, results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(files))
	}
	return nil
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", displayName(name), err)
	}
	return string(data), nil
}

func displayName(name string) string {
	if name == "-" {
		return "stdin"
	}
	return name
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := common.ToIndentedJSON(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), data)
	return err
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
