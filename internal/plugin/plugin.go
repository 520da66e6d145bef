package plugin

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rigel-ros/rigel-registry-plugin/internal/registry"
	"github.com/rigel-ros/rigel-registry-plugin/pkg/config"
)

// Plugin dispatches one image deployment: it selects the backend for the
// configured registry kind and drives the tag, authenticate and deploy
// workflow against the injected container engine client.
//
// A Plugin handles a single deployment attempt and is discarded afterwards;
// there is no state shared across invocations.
type Plugin struct {
	cfg     *config.Config
	backend registry.Backend
	engine  registry.Engine

	// id labels all log lines of one deployment attempt.
	id string
}

// New validates the configuration, selects the backend for the configured
// registry kind and wires it to the given engine client.
func New(cfg *config.Config, engine registry.Engine) (*Plugin, error) {
	backend, err := registry.NewBackendFactory().CreateBackend(cfg, engine)
	if err != nil {
		return nil, err
	}

	return &Plugin{
		cfg:     cfg,
		backend: backend,
		engine:  engine,
		id:      uuid.NewString(),
	}, nil
}

// Run executes the deployment workflow. Any failure is propagated unmodified
// to the caller; there is no local recovery.
func (p *Plugin) Run(ctx context.Context) error {
	log.Info().
		Str("deploymentID", p.id).
		Str("registry", p.cfg.Registry).
		Str("image", p.cfg.Image).
		Str("localImage", p.cfg.LocalImage).
		Msg("Starting image deployment")

	if err := p.backend.Run(ctx); err != nil {
		return err
	}

	log.Info().
		Str("deploymentID", p.id).
		Str("image", p.backend.Reference()).
		Msg("Image deployment completed successfully")

	return nil
}

// Stop releases plugin resources. Idempotent; a no-op when there is nothing
// left to release.
func (p *Plugin) Stop() {
	p.backend.Stop()

	if closer, ok := p.engine.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close engine client")
		}
	}
}
