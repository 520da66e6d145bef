package registry

import (
	"context"
	"fmt"
)

// Engine is the container engine client a backend drives. Implemented by
// internal/docker; faked in tests.
type Engine interface {
	// Tag tags an existing local image with a new reference
	Tag(ctx context.Context, source, target string) error

	// Login authenticates against a registry at the engine level
	Login(ctx context.Context, registryHost, username, password string) error

	// Push pushes an image reference to its registry
	Push(ctx context.Context, ref, username, password string) error
}

// Backend handles the tag/authenticate/deploy workflow for one registry family
type Backend interface {
	// Tag tags the local image with the target registry reference
	Tag(ctx context.Context) error

	// Authenticate resolves credentials and logs in to the registry
	Authenticate(ctx context.Context) error

	// Deploy pushes the tagged image to the registry
	Deploy(ctx context.Context) error

	// Run executes tag, authenticate and deploy in strict sequence
	Run(ctx context.Context) error

	// Reference returns the full target image reference. Empty until the
	// image has been tagged.
	Reference() string

	// Stop releases backend resources. Safe to call when there is nothing to release.
	Stop()
}

// phase tracks the strictly sequential backend state machine:
// created -> tagged -> authenticated -> deployed. No back-transitions.
type phase int

const (
	phaseCreated phase = iota
	phaseTagged
	phaseAuthenticated
	phaseDeployed
)

func (p phase) String() string {
	switch p {
	case phaseCreated:
		return "created"
	case phaseTagged:
		return "tagged"
	case phaseAuthenticated:
		return "authenticated"
	case phaseDeployed:
		return "deployed"
	default:
		return "unknown"
	}
}

// requirePhase checks that an operation runs exactly once, in order.
func requirePhase(current, required phase, operation string) error {
	if current != required {
		return fmt.Errorf("%s requires backend state %q, current state is %q", operation, required, current)
	}
	return nil
}
