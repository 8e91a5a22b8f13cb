package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "inkline",
	Short: "Send branching conversations to LLM providers",
	Long: `inkline resolves a branch of a conversation tree, materializes its
attachments, and sends it to the configured provider, streaming the reply
when the protocol allows it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func initConfig(cmd *cobra.Command) error {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}
	viper.SetEnvPrefix("INKLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

func main() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("provider", "claude", "provider protocol (openai, claude, responses, gemini)")
	flags.String("model", "", "model name")
	flags.Int("max-tokens", 0, "maximum reply tokens")
	flags.String("system", "", "system prompt")
	flags.String("effort", "", "reasoning effort (minimal, low, medium, high)")
	flags.String("verbosity", "", "reply verbosity (low, medium, high)")
	flags.Bool("web-search", false, "enable the provider's web search tool")
	flags.String("image-detail", "auto", "image detail hint (low, high, auto)")
	for _, p := range []string{"openai", "claude", "responses", "gemini"} {
		flags.String(p+"-api-key", "", p+" API key")
		flags.String(p+"-base-url", "", p+" base URL override")
	}
	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd.AddCommand(newSendCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
