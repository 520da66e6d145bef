package commands

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rigel-ros/rigel-registry-plugin/internal/docker"
	"github.com/rigel-ros/rigel-registry-plugin/internal/plugin"
	"github.com/rigel-ros/rigel-registry-plugin/pkg/config"
)

var (
	deployRegistry   string
	deployImage      string
	deployLocalImage string
	deployAccount    int
	deployRegion     string
	deployEndpoint   string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Tag, authenticate and push an image to the configured registry",
	Long: `Deploy tags the locally built image with its registry reference,
authenticates against the configured registry and pushes the image.
Flags override values from the config file and environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyDeployFlags(cmd, cfg)
		setLogLevel(cfg.LogLevel)

		engine, err := docker.NewClient()
		if err != nil {
			return err
		}

		p, err := plugin.New(cfg, engine)
		if err != nil {
			_ = engine.Close()
			return err
		}
		defer p.Stop()

		if err := p.Run(cmd.Context()); err != nil {
			log.Error().Err(err).Msg("Image deployment failed")
			return err
		}
		return nil
	},
}

// setLogLevel sets the global log level
func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// applyDeployFlags overrides loaded configuration with flags that were set
func applyDeployFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("registry") {
		cfg.Registry = deployRegistry
	}
	if cmd.Flags().Changed("image") {
		cfg.Image = deployImage
	}
	if cmd.Flags().Changed("local-image") {
		cfg.LocalImage = deployLocalImage
	}
	if cmd.Flags().Changed("account") {
		cfg.Account = deployAccount
	}
	if cmd.Flags().Changed("region") {
		cfg.Region = deployRegion
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.RegistryEndpoint = deployEndpoint
	}
}

func init() {
	deployCmd.Flags().StringVar(&deployRegistry, "registry", "", "registry kind: ecr, gitlab or dockerhub")
	deployCmd.Flags().StringVar(&deployImage, "image", "", "target image reference (name or name:tag)")
	deployCmd.Flags().StringVar(&deployLocalImage, "local-image", "", "local image reference to push")
	deployCmd.Flags().IntVar(&deployAccount, "account", 0, "AWS account ID (ecr only)")
	deployCmd.Flags().StringVar(&deployRegion, "region", "", "AWS region (ecr only)")
	deployCmd.Flags().StringVar(&deployEndpoint, "endpoint", "", "registry endpoint (generic registries)")
}
