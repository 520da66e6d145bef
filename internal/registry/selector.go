package registry

import (
	"strings"

	"github.com/rigel-ros/rigel-registry-plugin/pkg/config"
)

// Kind identifies the registry family a backend targets
type Kind string

const (
	KindECR       Kind = "ecr"
	KindGitLab    Kind = "gitlab"
	KindDockerHub Kind = "dockerhub"
)

// ParseKind maps a declared registry value to a backend kind. Matching is
// case-insensitive and an empty value defaults to a DockerHub-style generic
// registry.
func ParseKind(registry string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(registry)) {
	case "":
		return KindDockerHub, nil
	case "ecr":
		return KindECR, nil
	case "gitlab":
		return KindGitLab, nil
	case "dockerhub":
		return KindDockerHub, nil
	default:
		return "", ErrUnsupportedRegistry{Registry: registry}
	}
}

// BackendFactory creates registry backends based on configuration
type BackendFactory struct{}

// NewBackendFactory creates a new backend factory
func NewBackendFactory() *BackendFactory {
	return &BackendFactory{}
}

// CreateBackend selects and constructs the backend for the configured
// registry kind, validating the kind-specific configuration on the way.
func (f *BackendFactory) CreateBackend(cfg *config.Config, engine Engine) (Backend, error) {
	kind, err := ParseKind(cfg.Registry)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindECR:
		return NewECRBackend(cfg, engine)
	case KindGitLab, KindDockerHub:
		return NewGenericBackend(cfg, engine, kind)
	default:
		return nil, ErrUnsupportedRegistry{Registry: cfg.Registry}
	}
}
