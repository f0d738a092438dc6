package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/charvel/ankivocab/internal/cli"
	"codeberg.org/charvel/ankivocab/internal/processor"
)

func main() {
	flags := cli.NewFlags()

	rootCmd := cli.CreateRootCommand(flags)
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return processor.NewProcessor(flags).RunSync(cmd.Context())
	}

	importCmd := &cobra.Command{
		Use:   "import <word-list> <note-file>",
		Short: "Enrich a local word-list file into an Anki note file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return processor.NewProcessor(flags).RunImport(cmd.Context(), args[0], args[1])
		},
	}

	speakCmd := &cobra.Command{
		Use:   "speak <text-file> <audio-file>",
		Short: "Synthesize speech for a text file (use - to play instead)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return processor.NewProcessor(flags).RunSpeak(cmd.Context(), args[0], args[1])
		},
	}

	rootCmd.AddCommand(importCmd, speakCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
