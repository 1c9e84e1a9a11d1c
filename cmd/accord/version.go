package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/identropy/accord"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of accord",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("accord version %s\n", accord.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
