package main

import (
	"os"

	"github.com/spf13/cobra"

	"sicasm/assembler"
)

var (
	outDir  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sicasm sourceFile",
	Short: "A two-pass SIC/XE assembler",
	Long: `Sicasm translates a SIC/XE assembly source file into a linkable
object program in the standard Header/Text/Modification/End record
format. Pass 1 assigns locations and builds the symbol table, pass 2
resolves addressing and emits the object records.

Listings for both passes, the symbol table and the object program are
written into the output directory.`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return assembler.AssembleFile(args[0], outDir, verbose)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "output", "directory for listings and the object program")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "dump assembler state while running")
	rootCmd.SilenceErrors = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
