package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsforge/tsforge/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tsforge",
	Short: "tsforge - TypeScript source generation from type-model documents",
	Long: `tsforge generates TypeScript source files from a type-model document,
preserving hand-written code placed inside //<custom-head> and
//<custom-body> marker regions across regenerations.

Examples:
  tsforge generate --model model.json --out web/src/model
  tsforge generate --model model.yaml --out web/src/model --watch`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(viper.GetBool("json-logs"), viper.GetBool("verbose")); err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json-logs", false, "emit structured JSON logs")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))

	viper.SetConfigName("tsforge")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("TSFORGE")
	viper.AutomaticEnv()
	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}
