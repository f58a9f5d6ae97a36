package cmd

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yesetoda/graylog_query/internal/logger"
)

// Config holds the CLI settings read from flags, the config file and GRAYLOGQ_* env vars.
type Config struct {
	Log LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	Version string
	Commit  string

	RootCmd = &cobra.Command{
		Use:   "graylogq",
		Short: "Build Graylog search queries from definition files",
		Long: "graylogq renders Graylog search queries from YAML or JSON query definitions " +
			"and escapes literal values for use in hand written queries.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.SetLogLevel(config.Log.Level, config.Log.Format); err != nil {
				return errors.Wrap(err, "cannot configure logger")
			}
			return nil
		},
	}
	cfgFile string
	config  = &Config{}
)

func Execute() error {
	return RootCmd.Execute()
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				Commit = setting.Value
			}
		}
	}
	RootCmd.Version = strings.TrimSpace(fmt.Sprintf("%s %s", Version, Commit))

	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	RootCmd.PersistentFlags().String("log-format", logger.LogFormatTextValue, "logging format [text|json]")
	RootCmd.PersistentFlags().String("log-level", zerolog.LevelInfoValue,
		fmt.Sprintf(
			"logging level %s|%s|%s",
			zerolog.LevelDebugValue,
			zerolog.LevelInfoValue,
			zerolog.LevelWarnValue,
		),
	)

	RootCmd.AddCommand(buildCmd)
	RootCmd.AddCommand(escapeCmd)

	if err := bindFlags(); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}

func bindFlags() error {
	if err := viper.BindPFlag("log.format", RootCmd.PersistentFlags().Lookup("log-format")); err != nil {
		return err
	}
	return viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal().Err(err).Msg("error reading from config file")
		}
	}

	viper.SetEnvPrefix("graylogq")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	decoderCfg := func(cfg *mapstructure.DecoderConfig) {
		cfg.DecodeHook = normalizeStringHookFunc()
	}

	if err := viper.Unmarshal(config, decoderCfg); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}

// normalizeStringHookFunc lowercases and trims string settings so GRAYLOGQ_LOG_LEVEL=DEBUG works.
func normalizeStringHookFunc() mapstructure.DecodeHookFuncKind {
	return func(f reflect.Kind, t reflect.Kind, data interface{}) (interface{}, error) {
		if f != reflect.String || t != reflect.String {
			return data, nil
		}
		return strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())), nil
	}
}
