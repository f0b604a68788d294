// Command snakerun runs a generated makesnake pipeline and its helpers.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/makesnake/internal/config"
	"github.com/papapumpkin/makesnake/internal/logging"
	"github.com/papapumpkin/makesnake/internal/runner"
	"github.com/papapumpkin/makesnake/internal/tui"
	"github.com/papapumpkin/makesnake/internal/ui"
)

// errUsage signals that help was printed instead of doing any work.
var errUsage = errors.New("usage")

var rootCmd = &cobra.Command{
	Use:   "snakerun",
	Short: "Run a makesnake pipeline and its helpers",
	Long: `snakerun runs the Snakemake pipeline of a makesnake project, locally or on an
LSF cluster, and manages the working directories and cluster logs around it.
The wrapper script in each project calls it with --project set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_ = cmd.Help()
		return errUsage
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	os.Exit(execute(rootCmd))
}

// execute runs cmd and returns the process exit status. A failed child
// passes its own status through.
func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if errors.Is(err, errUsage) {
		return 1
	}
	ui.New().Error(err.Error())
	var ee *runner.ExitError
	if errors.As(err, &ee) && ee.Code > 0 {
		return ee.Code
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("project", "", "project directory (default $SNAKERUN_PROJECT or .)")
	rootCmd.PersistentFlags().String("config", "", "config file (default .snakerun.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".snakerun")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("SNAKERUN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// newRunner loads the project and layers run overrides over its manifest.
func newRunner() (*runner.Runner, func(), error) {
	dir := viper.GetString("project")
	if dir == "" {
		dir = "."
	}
	proj, err := runner.LoadProject(dir)
	if err != nil {
		return nil, nil, err
	}
	run, err := config.LoadRun(proj.Manifest.Run)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(viper.GetBool("verbose"))
	if err != nil {
		return nil, nil, err
	}

	r := runner.New(proj, run, runner.NewShellExecutor(logger), tui.DefaultPrompter(), ui.New(), logger)
	return r, func() { _ = logger.Sync() }, nil
}

// signalContext is canceled on SIGTERM. Interrupts are left to the running
// child, or end the process when nothing runs.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM)
}
