package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsforge/tsforge/compiler/gen"
	"github.com/tsforge/tsforge/compiler/load"
	"github.com/tsforge/tsforge/logger"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate TypeScript files from a type-model document",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Cleanup()
		model := viper.GetString("model")
		if model == "" {
			return fmt.Errorf("--model is required")
		}
		if viper.GetBool("watch") {
			return watchAndGenerate(cmd.Context(), model)
		}
		return generateOnce(cmd.Context(), model)
	},
}

func init() {
	flags := generateCmd.Flags()
	flags.String("model", "", "path to the type-model document (.json, .yaml)")
	flags.String("out", ".", "output root directory")
	flags.Int("tab-width", 4, "spaces per indentation stop (0 for hard tabs)")
	flags.Bool("single-quotes", false, "use single quotes in generated code")
	flags.Bool("const-enums", false, "render enums with the const modifier")
	flags.Bool("index", false, "generate an index.ts barrel file")
	flags.Int("workers", 0, "parallel generation workers (0 for GOMAXPROCS)")
	flags.String("file-names", "camel", "file name style: camel, pascal, kebab, snake, title")
	flags.String("member-names", "camel", "property name style: camel, pascal, kebab, snake, title, identity")
	flags.Bool("watch", false, "regenerate whenever the model document changes")
	cobra.CheckErr(viper.BindPFlags(flags))
	rootCmd.AddCommand(generateCmd)
}

// buildConfig assembles the generator configuration from flags and the
// optional tsforge.yaml config file.
func buildConfig() (*gen.Config, error) {
	fileConv, err := gen.LookupConverter(viper.GetString("file-names"))
	if err != nil {
		return nil, err
	}
	memberConv, err := gen.LookupConverter(viper.GetString("member-names"))
	if err != nil {
		return nil, err
	}
	opts := []gen.Option{
		gen.WithTarget(viper.GetString("out")),
		gen.WithTabWidth(viper.GetInt("tab-width")),
		gen.WithFileNameConverter(fileConv),
		gen.WithMemberNameConverter(memberConv),
	}
	if viper.GetBool("single-quotes") {
		opts = append(opts, gen.WithSingleQuotes())
	}
	if viper.GetBool("const-enums") {
		opts = append(opts, gen.WithConstEnums())
	}
	if viper.GetBool("index") {
		opts = append(opts, gen.WithIndexFile())
	}
	return gen.NewConfig(opts...)
}

// generateOnce runs one full generation pass, stamped with a run ID for
// log correlation.
func generateOnce(ctx context.Context, model string) error {
	runID := uuid.NewString()
	doc, err := load.LoadFile(model)
	if err != nil {
		return err
	}
	config, err := buildConfig()
	if err != nil {
		return err
	}
	graph, err := gen.NewGraph(config, doc.Types...)
	if err != nil {
		return err
	}
	merger := gen.NewMerger(config.Options).WithWarnFunc(func(w *gen.PreservationWarning) {
		logger.Warnw("custom region dropped",
			logger.FieldRunID, runID,
			logger.FieldFile, w.File,
			"tag", w.Tag,
			logger.FieldError, w.Message)
	})
	generator := gen.NewGenerator(graph).WithMerger(merger)
	if n := viper.GetInt("workers"); n > 0 {
		generator = generator.WithWorkers(n)
	}
	err = generator.Generate(ctx)
	if err != nil {
		logger.Errorw("generation finished with failures",
			logger.FieldRunID, runID,
			logger.FieldModel, model,
			logger.FieldError, err)
		return err
	}
	logger.Infow("generation complete",
		logger.FieldRunID, runID,
		logger.FieldModel, model,
		logger.FieldCount, len(graph.Nodes))
	return nil
}

// watchAndGenerate regenerates on every change to the model document until
// the process is interrupted. Editors often replace files on save, so both
// the file and its directory are watched.
func watchAndGenerate(ctx context.Context, model string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := generateOnce(ctx, model); err != nil {
		logger.Errorw("initial generation failed", logger.FieldError, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(model)); err != nil {
		return fmt.Errorf("watch %s: %w", model, err)
	}
	logger.Infow("watching model document", logger.FieldModel, model)

	abs, err := filepath.Abs(model)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			changed, _ := filepath.Abs(event.Name)
			if changed != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := generateOnce(ctx, model); err != nil {
				logger.Errorw("regeneration failed", logger.FieldError, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watcher error", logger.FieldError, err)
		}
	}
}
