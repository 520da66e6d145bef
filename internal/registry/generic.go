package registry

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/rigel-ros/rigel-registry-plugin/pkg/config"
	"github.com/rigel-ros/rigel-registry-plugin/pkg/imageref"
)

// defaultEndpoints maps generic registry kinds to their registry hosts.
var defaultEndpoints = map[Kind]string{
	KindDockerHub: "docker.io",
	KindGitLab:    "registry.gitlab.com",
}

// GenericBackend deploys images to a registry authenticating with a static
// username/password pair (DockerHub, GitLab container registry).
type GenericBackend struct {
	cfg    *config.Config
	engine Engine

	lookupEnv func(string) (string, bool)

	endpoint string
	ref      imageref.Reference

	// username and password are resolved at authenticate time and live only
	// for the duration of one run.
	username string
	password string

	phase phase
}

// NewGenericBackend validates the configuration and creates a backend for
// the given generic registry kind. An explicit registry endpoint overrides
// the kind's default host.
func NewGenericBackend(cfg *config.Config, engine Engine, kind Kind) (*GenericBackend, error) {
	if err := cfg.ValidateGeneric(); err != nil {
		return nil, err
	}

	endpoint := cfg.RegistryEndpoint
	if endpoint == "" {
		endpoint = defaultEndpoints[kind]
	}
	if endpoint == "" {
		return nil, config.ErrMissingRequiredField{Field: "registry_endpoint"}
	}

	return &GenericBackend{
		cfg:       cfg,
		engine:    engine,
		lookupEnv: os.LookupEnv,
		endpoint:  endpoint,
	}, nil
}

// Endpoint returns the registry host this backend targets
func (b *GenericBackend) Endpoint() string {
	return b.endpoint
}

// Tag tags the local image with the target registry reference
func (b *GenericBackend) Tag(ctx context.Context) error {
	if err := requirePhase(b.phase, phaseCreated, "tag"); err != nil {
		return err
	}

	ref, err := imageref.Parse(b.cfg.Image)
	if err != nil {
		return err
	}
	b.ref = ref

	if err := b.engine.Tag(ctx, b.cfg.LocalImage, b.targetRef()); err != nil {
		return err
	}

	b.phase = phaseTagged
	return nil
}

// Authenticate resolves the username/password pair from the environment and
// logs in to the registry. No token exchange step.
func (b *GenericBackend) Authenticate(ctx context.Context) error {
	if err := requirePhase(b.phase, phaseTagged, "authenticate"); err != nil {
		return err
	}

	username, err := b.resolveEnv(b.cfg.Credentials.Username)
	if err != nil {
		return err
	}
	password, err := b.resolveEnv(b.cfg.Credentials.Password)
	if err != nil {
		return err
	}
	b.username = username
	b.password = password

	if err := b.engine.Login(ctx, b.endpoint, b.username, b.password); err != nil {
		return ErrInvalidRegistry{Registry: b.endpoint, Err: err}
	}

	b.phase = phaseAuthenticated
	return nil
}

// Deploy pushes the tagged image to the registry
func (b *GenericBackend) Deploy(ctx context.Context) error {
	if err := requirePhase(b.phase, phaseAuthenticated, "deploy"); err != nil {
		return err
	}

	if err := b.engine.Push(ctx, b.targetRef(), b.username, b.password); err != nil {
		return err
	}

	b.phase = phaseDeployed
	return nil
}

// Run executes the full workflow: tag, authenticate, deploy
func (b *GenericBackend) Run(ctx context.Context) error {
	if err := b.Tag(ctx); err != nil {
		return err
	}
	log.Info().
		Str("localImage", b.cfg.LocalImage).
		Str("image", b.targetRef()).
		Msg("Tagged local image for registry")

	if err := b.Authenticate(ctx); err != nil {
		return err
	}
	log.Info().
		Str("registry", b.endpoint).
		Msg("Authenticated with registry")

	if err := b.Deploy(ctx); err != nil {
		return err
	}
	log.Info().
		Str("image", b.targetRef()).
		Msg("Image pushed successfully to registry")

	return nil
}

// Stop releases backend resources; nothing to release.
func (b *GenericBackend) Stop() {}

// Reference returns the full target image reference, empty until tagged
func (b *GenericBackend) Reference() string {
	if b.phase < phaseTagged {
		return ""
	}
	return b.targetRef()
}

func (b *GenericBackend) targetRef() string {
	return b.endpoint + "/" + b.ref.String()
}

func (b *GenericBackend) resolveEnv(name string) (string, error) {
	value, ok := b.lookupEnv(name)
	if !ok {
		return "", ErrUndefinedEnvVar{Name: name}
	}
	return value, nil
}
