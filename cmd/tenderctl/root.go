package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tender-backend/internal/shared/config"
)

// newRootCmd builds the command tree with its own viper instance so flags,
// environment and an optional config file layer over config.Load.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:          "tenderctl",
		Short:        "Operator tools for the tender backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("database-url", "", "Postgres connection string")
	flags.String("object-store", "", "object store: local, s3 or gcs")
	flags.String("llm-provider", "", "LLM provider: gemini, openai or none")
	flags.String("env", "", "environment name")
	for _, name := range []string{"database-url", "object-store", "llm-provider", "env"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newClassifyCmd(), newIngestCmd(v), newMigrateCmd(v))
	return root
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	return nil
}

// loadConfig starts from the service configuration and applies any values set
// through flags, environment or the config file.
func loadConfig(v *viper.Viper) config.Config {
	return applyOverrides(config.Load(), v)
}

func applyOverrides(cfg config.Config, v *viper.Viper) config.Config {
	if s := v.GetString("database-url"); s != "" {
		cfg.DatabaseURL = s
	}
	if s := v.GetString("object-store"); s != "" {
		cfg.ObjectStoreType = strings.ToLower(s)
	}
	if s := v.GetString("llm-provider"); s != "" {
		cfg.LLMProvider = strings.ToLower(s)
	}
	if s := v.GetString("env"); s != "" {
		cfg.Env = strings.ToLower(s)
	}
	return cfg
}
