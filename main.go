package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/logger"
	"github.com/pcfscope/server/settings"
)

var version = "dev"

// flagKeys maps command-line flags onto settings keys. Only flags that were
// set on the command line override the config file and environment.
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"log-format": "log_format",
	"log-file":   "log_file",
	"backend":    "backend_url",
	"verify":     "verify_enabled",
	"digits":     "display_digits",
	"listen":     "listen_addr",
	"token":      "auth_token",
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configFile string
	envFile    string

	viper    *viper.Viper
	settings settings.Settings
	catalog  *catalog.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{catalog: catalog.Default()}

	root := &cobra.Command{
		Use:   "pcfscope",
		Short: "Explore polynomial continued fractions",
		Long: `pcfscope sends a pair of recurrence polynomials a(n), b(n) to an analysis
backend, follows the convergence series it streams back, and shows the
limit together with any closed forms that were identified for it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./pcfscope.yaml or ~/.config/pcfscope/pcfscope.yaml)")
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file to load (default .env)")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (text|json)")
	pf.String("log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newAnalyzeCmd(a),
		newFormatCmd(a),
		newNormalizeCmd(a),
		newRelationCmd(a),
		newCatalogCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// init loads .env and the merged settings, then installs the logger.
func (a *app) init(cmd *cobra.Command) error {
	if err := settings.LoadDotEnv(a.envFile); err != nil {
		return err
	}

	a.viper = settings.NewViper(a.configFile)
	if err := bindFlags(a.viper, cmd.Flags()); err != nil {
		return err
	}

	s, err := settings.Load(a.viper)
	if err != nil {
		return err
	}
	a.settings = s

	logger.Init(logger.Config{Level: s.LogLevel, Format: s.LogFormat, File: s.LogFile})
	return nil
}

// configPath returns the config file in use, if any.
func (a *app) configPath() string {
	if a.viper == nil {
		return a.configFile
	}
	return a.viper.ConfigFileUsed()
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("bind --%s: %w", f.Name, bindErr)
		}
	})
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pcfscope %s\n", version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
