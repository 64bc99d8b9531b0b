package cmd

import (
	"github.com/spf13/cobra"

	"adventune/skrivpost/builder"
)

var (
	buildDrafts     bool
	buildContentDir string
	buildOutputDir  string
)

func init() {
	buildCmd.Flags().BoolVar(&buildDrafts, "drafts", false, "Build draft posts too")
	buildCmd.Flags().StringVar(&buildContentDir, "content", "", "Path to the content directory")
	buildCmd.Flags().StringVar(&buildOutputDir, "out", "", "Path to the build directory")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build every post of the content directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newBuilder(cmd).Build()
	},
}

// newBuilder applies the command line flags over the configuration file.
func newBuilder(cmd *cobra.Command) *builder.Builder {
	opts := builder.Options{
		ContentDir: cfg.Content.Dir,
		BuildDir:   cfg.Content.BuildDir,
		SourceDir:  cfg.Content.SourceDir,
		Drafts:     cfg.Content.Drafts,
	}
	if cmd.Flags().Changed("drafts") {
		opts.Drafts = buildDrafts
	}
	if buildContentDir != "" {
		opts.ContentDir = buildContentDir
	}
	if buildOutputDir != "" {
		opts.BuildDir = buildOutputDir
	}
	return builder.New(opts, newPostCompiler())
}
