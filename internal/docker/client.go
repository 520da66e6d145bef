package docker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/docker/docker/api/types/image"
	dockerregistry "github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/rs/zerolog/log"
)

// Client wraps the Docker Engine API with the operations the deployment
// workflow needs: tag, login and push.
type Client struct {
	api *client.Client
}

// NewClient creates a Docker engine client from the environment
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &Client{api: cli}, nil
}

// Tag tags an existing local image with a new reference
func (c *Client) Tag(ctx context.Context, source, target string) error {
	log.Info().
		Str("source", source).
		Str("target", target).
		Msg("Tagging image")

	if err := c.api.ImageTag(ctx, source, target); err != nil {
		if errdefs.IsNotFound(err) {
			return ErrImageNotFound{Image: source}
		}
		return fmt.Errorf("failed to tag image: %w", err)
	}

	return nil
}

// Login authenticates against a registry at the engine level
func (c *Client) Login(ctx context.Context, registryHost, username, password string) error {
	log.Info().
		Str("registry", registryHost).
		Str("username", username).
		Msg("Logging in to registry")

	auth := dockerregistry.AuthConfig{
		Username:      username,
		Password:      password,
		ServerAddress: registryHost,
	}

	if _, err := c.api.RegistryLogin(ctx, auth); err != nil {
		return fmt.Errorf("registry login failed: %w", err)
	}

	return nil
}

// Push pushes an image to its registry, streaming engine progress records
// to the logger. A terminal record carrying an error field fails the push.
func (c *Client) Push(ctx context.Context, ref, username, password string) error {
	log.Info().Str("image", ref).Msg("Pushing image")

	encodedAuth, err := encodeAuthConfig(dockerregistry.AuthConfig{
		Username: username,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to encode auth config: %w", err)
	}

	pushResponse, err := c.api.ImagePush(ctx, ref, image.PushOptions{
		RegistryAuth: encodedAuth,
	})
	if err != nil {
		return fmt.Errorf("failed to push image: %w", err)
	}
	defer pushResponse.Close()

	if err := streamPushOutput(ctx, pushResponse); err != nil {
		return err
	}

	log.Info().Str("image", ref).Msg("Image pushed successfully")
	return nil
}

// encodeAuthConfig encodes auth config for Docker registry authentication
func encodeAuthConfig(authConfig dockerregistry.AuthConfig) (string, error) {
	authJSON, err := json.Marshal(authConfig)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(authJSON), nil
}

// Close closes the Docker client connection. Safe to call more than once.
func (c *Client) Close() error {
	if c.api != nil {
		api := c.api
		c.api = nil
		return api.Close()
	}
	return nil
}

// ErrImageNotFound is returned when a tag operation references a local image
// that does not exist in the engine
type ErrImageNotFound struct {
	Image string
}

func (e ErrImageNotFound) Error() string {
	return "image not found: '" + e.Image + "'"
}

// ErrPushFailed is returned when the push stream terminates with an error record
type ErrPushFailed struct {
	Message string
}

func (e ErrPushFailed) Error() string {
	return "failed to push image: " + e.Message
}
