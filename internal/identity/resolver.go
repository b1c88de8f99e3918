package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
	"github.com/kitbuilder587/osint-gateway/internal/repository"
)

// Resolver turns the caller-supplied token (cookie or header) into a
// backed ClientIdentity, minting a fresh token when none was sent.
type Resolver struct {
	clients      repository.ClientRepository
	defaultQuota int
	logger       *zap.Logger
}

func NewResolver(clients repository.ClientRepository, defaultQuota int, logger *zap.Logger) *Resolver {
	return &Resolver{
		clients:      clients,
		defaultQuota: defaultQuota,
		logger:       logger,
	}
}

// Resolve guarantees a persisted identity for the returned token. The
// second return value reports whether a new token was minted, so the
// HTTP layer knows to set the cookie.
func (r *Resolver) Resolve(ctx context.Context, token, ip, userAgent string) (*domain.ClientIdentity, bool, error) {
	minted := false
	if token == "" {
		token = uuid.NewString()
		minted = true
	}

	client, err := r.clients.GetOrCreate(ctx, token, ip, userAgent, r.defaultQuota)
	if err != nil {
		return nil, false, fmt.Errorf("resolve identity: %w", err)
	}

	if minted {
		r.logger.Info("new client identity created",
			zap.String("token", token),
			zap.String("ip", ip),
		)
	}

	return client, minted, nil
}
