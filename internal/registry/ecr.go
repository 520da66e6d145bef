package registry

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/rs/zerolog/log"

	"github.com/rigel-ros/rigel-registry-plugin/pkg/config"
	"github.com/rigel-ros/rigel-registry-plugin/pkg/imageref"
)

// ecrTokenPrefix is the fixed literal prefixed to the password inside the
// base64-encoded ECR authorization token.
const ecrTokenPrefix = "AWS:"

// TokenSource exchanges an access/secret key pair for a registry
// authorization token. Implemented against AWS ECR; faked in tests.
type TokenSource interface {
	AuthorizationToken(ctx context.Context, accessKey, secretKey string) (string, error)
}

// awsTokenSource obtains authorization tokens from the AWS ECR API using
// static credentials scoped to one region.
type awsTokenSource struct {
	region string
}

func (s awsTokenSource) AuthorizationToken(ctx context.Context, accessKey, secretKey string) (string, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx,
		awscfg.WithRegion(s.region),
		awscfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return "", err
	}

	out, err := ecr.NewFromConfig(cfg).GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return "", err
	}
	if len(out.AuthorizationData) == 0 {
		return "", fmt.Errorf("no authorization data in response")
	}

	return aws.ToString(out.AuthorizationData[0].AuthorizationToken), nil
}

// ECRBackend deploys images to AWS Elastic Container Registry. The registry
// host is derived from the configured account and region.
type ECRBackend struct {
	cfg    *config.Config
	engine Engine
	tokens TokenSource

	// lookupEnv resolves credential env var names at authenticate time.
	lookupEnv func(string) (string, bool)

	registryHost string
	ref          imageref.Reference

	// password holds the decoded authorization token for the duration of
	// one run. In-memory only, never logged.
	password string

	phase phase
}

// NewECRBackend validates the ECR configuration and creates the backend
func NewECRBackend(cfg *config.Config, engine Engine) (*ECRBackend, error) {
	if err := cfg.ValidateECR(); err != nil {
		return nil, err
	}

	return &ECRBackend{
		cfg:          cfg,
		engine:       engine,
		tokens:       awsTokenSource{region: cfg.Region},
		lookupEnv:    os.LookupEnv,
		registryHost: fmt.Sprintf("%d.dkr.ecr.%s.amazonaws.com", cfg.Account, cfg.Region),
	}, nil
}

// RegistryHost returns the derived ECR registry hostname
func (b *ECRBackend) RegistryHost() string {
	return b.registryHost
}

// Tag tags the local image with the derived ECR reference
func (b *ECRBackend) Tag(ctx context.Context) error {
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

// Authenticate resolves the AWS key pair from the environment, exchanges it
// for an authorization token and logs in to the registry.
func (b *ECRBackend) Authenticate(ctx context.Context) error {
	if err := requirePhase(b.phase, phaseTagged, "authenticate"); err != nil {
		return err
	}

	accessKey, err := b.resolveEnv(b.cfg.Credentials.AccessKey)
	if err != nil {
		return err
	}
	secretKey, err := b.resolveEnv(b.cfg.Credentials.SecretAccessKey)
	if err != nil {
		return err
	}

	token, err := b.tokens.AuthorizationToken(ctx, accessKey, secretKey)
	if err != nil {
		return ErrInvalidCredentials{Err: err}
	}

	password, err := decodeAuthorizationToken(token)
	if err != nil {
		return ErrInvalidCredentials{Err: err}
	}
	b.password = password

	if err := b.engine.Login(ctx, b.registryHost, b.cfg.User, b.password); err != nil {
		return ErrInvalidRegistry{Registry: b.registryHost, Err: err}
	}

	b.phase = phaseAuthenticated
	return nil
}

// Deploy pushes the tagged image to ECR
func (b *ECRBackend) Deploy(ctx context.Context) error {
	if err := requirePhase(b.phase, phaseAuthenticated, "deploy"); err != nil {
		return err
	}

	if err := b.engine.Push(ctx, b.targetRef(), b.cfg.User, b.password); err != nil {
		return err
	}

	b.phase = phaseDeployed
	return nil
}

// Run executes the full workflow: tag, authenticate, deploy
func (b *ECRBackend) Run(ctx context.Context) error {
	if err := b.Tag(ctx); err != nil {
		return err
	}
	log.Info().
		Str("localImage", b.cfg.LocalImage).
		Str("image", b.targetRef()).
		Msg("Tagged local image for ECR")

	if err := b.Authenticate(ctx); err != nil {
		return err
	}
	log.Info().
		Str("registry", b.registryHost).
		Msg("Authenticated with AWS ECR")

	if err := b.Deploy(ctx); err != nil {
		return err
	}
	log.Info().
		Str("image", b.targetRef()).
		Msg("Image pushed successfully to AWS ECR")

	return nil
}

// Stop releases backend resources. The token is dropped with the instance;
// there is nothing else to release.
func (b *ECRBackend) Stop() {}

// Reference returns the full target image reference, empty until tagged
func (b *ECRBackend) Reference() string {
	if b.phase < phaseTagged {
		return ""
	}
	return b.targetRef()
}

func (b *ECRBackend) targetRef() string {
	return b.registryHost + "/" + b.ref.String()
}

func (b *ECRBackend) resolveEnv(name string) (string, error) {
	value, ok := b.lookupEnv(name)
	if !ok {
		return "", ErrUndefinedEnvVar{Name: name}
	}
	return value, nil
}

// decodeAuthorizationToken base64-decodes an ECR authorization token and
// strips the fixed "AWS:" user prefix, yielding the registry password.
func decodeAuthorizationToken(token string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("failed to decode authorization token: %w", err)
	}
	return strings.TrimPrefix(string(decoded), ecrTokenPrefix), nil
}
