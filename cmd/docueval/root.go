package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbenito/docueval/internal/api"
	"github.com/mbenito/docueval/internal/config"
	"github.com/mbenito/docueval/internal/home"
	"github.com/mbenito/docueval/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "docueval",
	Short: "Document evaluation with LLM-generated structured reports",
	Long: `Docueval evaluates uploaded PDF documents with a generative model and
produces structured reports that can be reviewed, edited section by
section, and saved to an external persistence API.

The workflow:
  - Upload a PDF with a document type
  - The model fills a response schema resolved for that type
  - Review and edit the report sections
  - Save the final report, or discard it`,
	Version: version.GitRelease,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the home directory and a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if h.ConfigExists() {
			fmt.Printf("config already exists at %s\n", h.ConfigPath())
			return nil
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("wrote default config to %s\n", h.ConfigPath())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ~/.docueval/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "docueval home directory (default: ~/.docueval)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
