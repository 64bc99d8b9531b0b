package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"adventune/skrivpost/builder"
	"adventune/skrivpost/parse"
	"adventune/skrivpost/post"
	"adventune/skrivpost/postast"
)

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(sourceCmd)
}

var compileCmd = &cobra.Command{
	Use:   "compile FILE",
	Short: "Print the HTML document of one post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ast, err := loadPost(args[0])
		if err != nil {
			return err
		}
		rendered, err := newPostCompiler().Compile(ast)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered.HTML)
		return nil
	},
}

var sourceCmd = &cobra.Command{
	Use:   "source FILE",
	Short: "Print the canonical Markdown source of one post",
	Long: `Print the canonical Markdown source of one post: legacy metadata is converted to TOML
frontmatter and the Markdown is normalized. The path of the source in the repository is
printed to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ast, err := loadPost(args[0])
		if err != nil {
			return err
		}
		source, err := post.RenderSource(ast)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), source.Content)
		fmt.Fprintln(cmd.ErrOrStderr(), source.RelativePath)
		return nil
	},
}

func loadPost(path string) (*postast.PostAST, error) {
	text, _, err := builder.ReadContent(path)
	if err != nil {
		return nil, err
	}
	tree, err := parse.Parse(text)
	if err != nil {
		return nil, err
	}
	return postast.FromMarkdownTree(tree)
}
