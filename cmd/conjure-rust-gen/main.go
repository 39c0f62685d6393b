package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	cli "github.com/conjure-dev/conjure-rust-gen/internal/cli"
)

func main() {
	root := &cobra.Command{
		Use:   "conjure-rust-gen",
		Short: "Generate Rust bindings from Conjure IR documents",
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var configPath string
	var verbose bool
	var input string
	var outDir string
	var exhaustive bool
	var stripPrefix string
	var stagedBuilders bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Rust type and service bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cli.RunGenerateParams{
				ConfigPath: configPath,
				Verbose:    verbose,
				Fallback: cli.FallbackParams{
					IR:             input,
					OutDir:         outDir,
					Exhaustive:     exhaustive,
					StripPrefix:    stripPrefix,
					StagedBuilders: stagedBuilders,
				},
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to conjuregen.yaml config")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	// Fallback single-target flags
	cmd.Flags().StringVar(&input, "input", "", "Conjure IR document (json)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory")
	cmd.Flags().BoolVar(&exhaustive, "exhaustive", false, "Disable the unknown enum/union carrier variants")
	cmd.Flags().StringVar(&stripPrefix, "strip-prefix", "", "Dotted package prefix stripped from module paths")
	cmd.Flags().BoolVar(&stagedBuilders, "staged-builders", false, "Emit one builder stage per required object field")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a Conjure IR document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Conjure IR document (json)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
