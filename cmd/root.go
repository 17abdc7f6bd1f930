package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "classwatch",
	Short: "Automatic face recognition attendance for class sections",
	Long: `Classwatch watches a camera feed and records class attendance
automatically. It derives the active attendance window from the imported
section schedules, recognizes enrolled students through an external face
embedding service and writes each student at most once per class session.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
