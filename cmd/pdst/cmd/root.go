package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aweris/pdst/internal/display"
	"github.com/aweris/pdst/internal/log"
	"github.com/aweris/pdst/internal/remote"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// errFailed marks a command whose outcome was already reported as Failed.
var errFailed = errors.New("operation failed")

var rootCmd = &cobra.Command{
	Use:           "pdst [name]",
	Short:         "Private Data Storage Tool",
	Long:          "Take files into custody, release them again, and search what is kept.",
	Version:       Version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	err := rootCmd.ExecuteContext(ctx)
	log.Sync()
	if err == nil {
		return
	}
	if !errors.Is(err, errFailed) {
		display.New(os.Stderr).Error("Error: %v", err)
	}
	stop()
	os.Exit(1)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), display.HelpText())
	})
	rootCmd.SetVersionTemplate("pdst {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ~/.config/pdst/config.yaml)")
	flags.String("server", "", "custody service base URL (default: "+remote.DefaultBaseURL+")")
	flags.String("backend", "", "custody backend: http or oci (default: http)")
	flags.Duration("timeout", 0, "timeout of every custody call (default: 10s)")
	flags.String("work-dir", "", "directory to operate on (default: current directory)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default: warn)")
	flags.Bool("verbose", false, "log every step (same as --log-level=debug)")

	viper.BindPFlag("server", flags.Lookup("server"))
	viper.BindPFlag("backend", flags.Lookup("backend"))
	viper.BindPFlag("timeout", flags.Lookup("timeout"))
	viper.BindPFlag("work_dir", flags.Lookup("work-dir"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PDST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	viper.ReadInConfig()

	level := viper.GetString("log_level")
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		level = "debug"
	}
	if !log.SetLevel(level) {
		log.L().Warn("unknown log level, keeping default", zap.String("log_level", level))
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server", remote.DefaultBaseURL)
	v.SetDefault("backend", backendHTTP)
	v.SetDefault("timeout", remote.DefaultTimeout)
	v.SetDefault("compress", false)
	v.SetDefault("concurrency", remote.DefaultConcurrency)
	v.SetDefault("log_level", "warn")
	v.SetDefault("oci.insecure", false)
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pdst")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "pdst")
	}
	return ".pdst"
}

// runRoot handles invocations without a command: the banner, or the word
// fallback where every token is a search and "help" prints help.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		p := display.New(cmd.OutOrStdout())
		p.Banner()
		p.Info("To see passable arguments use --help or -h")
		return nil
	}
	if len(args) > 2 {
		return fmt.Errorf("too many arguments: at most two are accepted, got %d", len(args))
	}

	var (
		s      *session
		failed bool
	)
	for _, w := range splitWords(args) {
		if strings.EqualFold(w, "help") {
			fmt.Fprint(cmd.OutOrStdout(), display.HelpText())
			continue
		}
		if s == nil {
			var err error
			if s, err = newSession(cmd); err != nil {
				return err
			}
			defer s.Close()
		}
		if err := s.run(cmd, searchOp(w)); err != nil {
			failed = true
		}
	}
	if failed {
		return errFailed
	}
	return nil
}
