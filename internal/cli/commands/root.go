package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rigel-registry",
	Short: "rigel-registry - deploy container images to a registry",
	Long: `rigel-registry tags a locally built container image, authenticates
against a container registry (AWS ECR, GitLab or DockerHub) and pushes the image.

Core Flow:
  Local image → Tag → Authenticate → Push`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
