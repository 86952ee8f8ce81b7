package cmd

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/language"
	"github.com/cmmoran/clientgen/pkg/logging"
)

var (
	configFiles    []string
	level, version string
	jsonLogs       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "clientgen",
	Short:         "generate API clients",
	Long:          "Generate strongly-typed API clients for several languages from one API description",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logging.Logger.Error("command failed", zap.Error(err))
		if hints := errors.FlattenHints(err); hints != "" {
			rootCmd.PrintErrln("hint:", hints)
		}
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}

// SetVersion records the build version reported by the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&level, "level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "log as JSON")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("level"))
	_ = viper.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.SetDefault("log.level", "info")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/clientgen")
		viper.SetConfigType("yaml")
		viper.SetConfigName("clientgen")
	}

	viper.SetEnvPrefix("CLIENTGEN")
	viper.AutomaticEnv() // read in environment variables that match

	// The logger depends on the merged configuration, so report once it exists.
	readErr := viper.ReadInConfig()
	var merged, failed []string
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			if configBytes, err := os.ReadFile(file); err == nil {
				if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
					failed = append(failed, file)
				} else {
					merged = append(merged, file)
				}
			} else {
				failed = append(failed, file)
			}
		}
	}
	if len(version) > 0 {
		viper.Set("version", version)
	}

	if err := logging.Initialize(viper.GetString("log.level"), viper.GetBool("log.json")); err != nil {
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
	l := logging.Named("cli")
	if readErr == nil {
		l.Info("using config file(s)", zap.String("config", viper.ConfigFileUsed()))
	} else {
		l.Debug("unable to use config file(s)", zap.Error(readErr), zap.String("config", viper.ConfigFileUsed()))
	}
	for _, file := range merged {
		l.Info("merged config file", zap.String("file", file))
	}
	for _, file := range failed {
		l.Warn("failed to merge config file", zap.String("file", file))
	}
}

// generationConfig decodes the generation settings from viper, flags included.
func generationConfig() (*config.GenerationConfiguration, error) {
	cfg := config.New()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode configuration"), errors.ErrInvalidInput)
	}
	return cfg, nil
}

// generationFlags registers the generation settings shared by the commands
// that run a generation. Flags reach viper in bindGenerationFlags, called when
// the command runs, since several commands bind the same keys.
func generationFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringP("description", "d", "", "API description to generate from")
	f.StringSliceP("language", "l", nil, "target language(s) ("+languageNames()+", all)")
	f.StringP("output", "o", config.DefaultOutputPath, "output directory")
	f.String("client-class", config.DefaultClientClass, "name of the client class")
	f.StringP("namespace", "n", config.DefaultNamespace, "client namespace")
	f.String("import-path", "", "go module path of the generated client (go only)")
	f.Bool("backing-store", false, "route model property access through a backing store")
	f.StringSlice("serializer", nil, "serialization writer factories the client registers")
	f.StringSlice("deserializer", nil, "parse node factories the client registers")
}

var generationKeys = map[string]string{
	"description_path":      "description",
	"output_path":           "output",
	"client_class_name":     "client-class",
	"client_namespace_name": "namespace",
	"import_path":           "import-path",
	"uses_backing_store":    "backing-store",
	"serializers":           "serializer",
	"deserializers":         "deserializer",
}

// bindGenerationFlags decodes the configuration of c from viper and its
// flags. The languages are returned apart: one selects cfg.Language, several
// form a multi-language run.
func bindGenerationFlags(c *cobra.Command) (*config.GenerationConfiguration, []language.Language, error) {
	f := c.Flags()
	for key, name := range generationKeys {
		if err := viper.BindPFlag(key, f.Lookup(name)); err != nil {
			return nil, nil, errors.Wrapf(err, "bind --%s", name)
		}
	}
	cfg, err := generationConfig()
	if err != nil {
		return nil, nil, err
	}
	if !f.Changed("language") {
		return cfg, nil, nil
	}
	values, err := f.GetStringSlice("language")
	if err != nil {
		return nil, nil, err
	}
	langs, err := parseLanguages(values)
	if err != nil {
		return nil, nil, err
	}
	if len(langs) == 1 {
		cfg.Language = langs[0].String()
		return cfg, nil, nil
	}
	return cfg, langs, nil
}

func languageNames() string {
	names := make([]string, 0, len(language.All()))
	for _, l := range language.All() {
		names = append(names, l.String())
	}
	return strings.Join(names, ", ")
}

// parseLanguages turns --language values into targets.
func parseLanguages(values []string) ([]language.Language, error) {
	out := make([]language.Language, 0, len(values))
	for _, v := range values {
		if v == "all" {
			return language.All(), nil
		}
		l, err := language.Parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
