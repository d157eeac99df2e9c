package biz

import (
	"trimlink/internal/conf"
	"trimlink/internal/domain"
	"trimlink/internal/domain/valueobject"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewCodeGenerator,
	NewLinkUsecase,
	NewClickRecorder,
	NewClickUsecase,
)

// NewCodeGenerator builds the crypto/rand backed generator at the configured
// length.
func NewCodeGenerator(c *conf.Link) *domain.CodeGenerator {
	return domain.NewCodeGenerator(valueobject.WithLength(c.CodeLength))
}
