package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"adventune/skrivpost/config"
	"adventune/skrivpost/layout"
	"adventune/skrivpost/post"
)

var (
	configPath string
	debug      bool

	// cfg is loaded before any subcommand runs
	cfg *config.File
)

var rootCmd = &cobra.Command{
	Use:   "skrivpost",
	Short: "skrivpost compiles Markdown blog posts into static HTML",
	Long: `skrivpost compiles Markdown blog posts with TOML frontmatter into static HTML documents
and writes their canonical Markdown source back out.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set the log level
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		log.Debug().Msg("Debug logging has been enabled")

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a TOML configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Sets log level to debug")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPostCompiler() *post.Compiler {
	return post.NewCompiler(layout.NewRegistry(cfg.LayoutSite()))
}
