package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/makesnake/internal/ui"
)

// version is the generator version recorded in every project it writes.
var version = "0.6.0"

// errUsage signals that help was printed instead of doing any work.
var errUsage = errors.New("usage")

var rootCmd = &cobra.Command{
	Use:   "makesnake [flags] SCRIPT...",
	Short: "Scaffold a Snakemake pipeline from annotated scripts",
	Long: `makesnake reads input, output, params, log and threads annotations from the
comments of each script and writes a Snakemake project: a Snakefile with one
rule per script, config and cluster config files, conda environment skeletons
and a snakerun wrapper named after the pipeline.

Annotations look like:

    # input counts: <data/counts.csv>
    # output table: <tables/summary.csv>
    # params alpha: <0.05>
    # threads: <4>`,
	Version:       version,
	RunE:          runGenerate,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errUsage) {
			ui.New().Error(err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .makesnake.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".makesnake")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("MAKESNAKE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
