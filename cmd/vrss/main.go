// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vrss CLI.
//
// Run without a subcommand, vrss reads a JSON array of scenario records
// from stdin and prints one "x_b y_b v_b a_b x_f y_f v_f a_f" line per
// record that has a preceding vehicle in the subject's lane.
package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vrss/internal/extract"
	"github.com/pdiddy/vrss/internal/scenario"
	"github.com/pdiddy/vrss/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// log writes diagnostics to stderr; stdout carries only data.
var log = logrus.New()

// rootCmd is the base command for the vrss CLI.
var rootCmd = &cobra.Command{
	Use:   "vrss",
	Short: "Extract preceding-vehicle signals from simulation scenarios",
	Long: `vrss reads vehicle-simulation scenario records and pairs each subject
vehicle with the first agent ahead of it in the same lane corridor.

Without a subcommand it acts as a filter: a JSON array of records on stdin,
one "x_b y_b v_b a_b x_f y_f v_f a_f" line per matched record on stdout.
The extract, predicates, and runs subcommands add file input, structured
output, RSS predicate evaluation, and a SQLite run history.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFilter,
}

func runFilter(cmd *cobra.Command, args []string) error {
	records, err := scenario.Decode(cmd.InOrStdin(), scenario.FormatJSON)
	if err != nil {
		return err
	}

	// The bare filter ignores config files and the environment.
	signals := extract.Extract(records, types.ExtractConfig{LateralWidth: types.DefaultLateralWidth})
	log.WithFields(logrus.Fields{
		"records": len(records),
		"matched": len(signals),
	}).Debug("extraction complete")

	return writeOutput(cmd, func(w io.Writer) error {
		return extract.Write(w, signals, extract.FormatText)
	})
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vrss.yaml or ~/.config/vrss/vrss.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level: debug, info, warn, error (default warn)")
	rootCmd.PersistentFlags().String("db", "", "SQLite run database (default vrss.db)")
}

func initConfig() {
	setDefaults()
	viper.BindPFlag("store.db", rootCmd.PersistentFlags().Lookup("db"))

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vrss")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vrss"))
		}
	}

	viper.SetEnvPrefix("VRSS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configErr := viper.ReadInConfig()
	setupLogging()

	if configErr == nil {
		log.WithField("file", viper.ConfigFileUsed()).Info("using config file")
	} else if cfgFile != "" {
		log.WithError(configErr).Warn("could not read config file")
	}
}

func setDefaults() {
	def := types.DefaultConfig()
	viper.SetDefault("extract.lateral_width", def.Extract.LateralWidth)
	viper.SetDefault("rss.rho", def.RSS.Rho)
	viper.SetDefault("rss.a_max_acc", def.RSS.AMaxAcc)
	viper.SetDefault("rss.a_max_br", def.RSS.AMaxBr)
	viper.SetDefault("rss.a_min_br", def.RSS.AMinBr)
	viper.SetDefault("rss.d_lat", def.RSS.DLat)
	viper.SetDefault("store.db", def.Store.DBPath)
	viper.SetDefault("log_level", def.LogLevel)
}

func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})

	levelName, _ := rootCmd.PersistentFlags().GetString("log-level")
	if levelName == "" {
		levelName = viper.GetString("log_level")
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		log.SetLevel(logrus.WarnLevel)
		log.WithField("level", levelName).Warn("unknown log level, using warn")
		return
	}
	log.SetLevel(level)
}

// loadConfig assembles the effective configuration from defaults, the
// config file, VRSS_* environment variables, and bound flags.
func loadConfig() types.Config {
	return types.Config{
		Extract: types.ExtractConfig{
			LateralWidth: viper.GetFloat64("extract.lateral_width"),
		},
		RSS: types.RSSConfig{
			Rho:     viper.GetFloat64("rss.rho"),
			AMaxAcc: viper.GetFloat64("rss.a_max_acc"),
			AMaxBr:  viper.GetFloat64("rss.a_max_br"),
			AMinBr:  viper.GetFloat64("rss.a_min_br"),
			DLat:    viper.GetFloat64("rss.d_lat"),
		},
		Store:    types.StoreConfig{DBPath: viper.GetString("store.db")},
		LogLevel: viper.GetString("log_level"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
