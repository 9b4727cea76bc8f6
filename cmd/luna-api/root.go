package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "luna-api",
	Short: "Luna health API server",
	Long:  `A REST API server for the Luna personal health tracking application.`,
}

func init() {
	// Load .env for local development; deployments set real env vars.
	_ = godotenv.Load()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
