package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "accord",
	Short: "Accord is a compensation-based identity lifecycle orchestrator",
	Long: `Accord coordinates user provisioning across an identity provider and a
relational store using sagas: every side-effecting step registers a reversal,
and a failure unwinds all completed steps before surfacing.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the accord configuration file")
}
