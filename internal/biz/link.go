package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trimlink/internal/conf"
	"trimlink/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const qrContentType = "image/png"

// CreateLinkInput is what an owner submits to create a link.
type CreateLinkInput struct {
	OwnerID     string
	Title       string
	OriginalURL string
	// CustomAlias is optional.
	CustomAlias string
	// QRImage is an optional PNG rendered by the client.
	QRImage []byte
}

// CreateLinkResult is a created link plus the outcome of the QR upload.
// QRErr non-nil means the link exists without a QR reference.
type CreateLinkResult struct {
	Link  *domain.ShortLink
	QRErr error
}

// QRStored reports whether the QR image was uploaded.
func (r *CreateLinkResult) QRStored() bool {
	return r.Link != nil && r.Link.QRAssetRef() != ""
}

// LinkUsecase registers, resolves and removes short links.
type LinkUsecase struct {
	repo        domain.LinkRepository
	assets      domain.AssetStore
	codes       *domain.CodeGenerator
	maxAttempts int
	log         *log.Helper
}

// NewLinkUsecase creates a new LinkUsecase.
func NewLinkUsecase(repo domain.LinkRepository, assets domain.AssetStore, codes *domain.CodeGenerator, c *conf.Link, logger log.Logger) *LinkUsecase {
	maxAttempts := c.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = conf.DefaultMaxAttempts
	}
	return &LinkUsecase{
		repo:        repo,
		assets:      assets,
		codes:       codes,
		maxAttempts: maxAttempts,
		log:         log.NewHelper(logger),
	}
}

// Exists reports whether candidate is already a short code or custom alias.
// It is a fast path only; the store's unique constraint is authoritative.
func (uc *LinkUsecase) Exists(ctx context.Context, candidate string) (bool, error) {
	return uc.repo.Exists(ctx, candidate)
}

// CreateLink validates the input, reserves identifiers and persists the link.
func (uc *LinkUsecase) CreateLink(ctx context.Context, in CreateLinkInput) (*CreateLinkResult, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.OriginalURL = strings.TrimSpace(in.OriginalURL)
	in.CustomAlias = strings.TrimSpace(in.CustomAlias)

	if err := validateCreateLink(in); err != nil {
		return nil, err
	}
	originalURL, err := domain.NewOriginalURL(in.OriginalURL)
	if err != nil {
		return nil, err
	}

	if in.CustomAlias != "" {
		taken, err := uc.repo.Exists(ctx, in.CustomAlias)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("alias %q: %w", in.CustomAlias, domain.ErrConflict)
		}
	}

	id := domain.NewLinkID()
	qrKey := qrAssetKey(id)
	qrRef, qrErr := uc.storeQR(ctx, qrKey, in.QRImage)

	link, err := uc.insert(ctx, id, in, originalURL, qrRef)
	if err != nil {
		if qrRef != "" {
			uc.discardQR(ctx, qrKey)
		}
		return nil, err
	}

	uc.log.WithContext(ctx).Infof("CreateLink: %s -> %s", link.Identifier(), originalURL.Host())
	return &CreateLinkResult{Link: link, QRErr: qrErr}, nil
}

// insert generates codes until one is stored or attempts run out.
func (uc *LinkUsecase) insert(ctx context.Context, id string, in CreateLinkInput, originalURL domain.OriginalURL, qrRef string) (*domain.ShortLink, error) {
	for attempt := 0; attempt < uc.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		code, err := uc.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate short code: %w", err)
		}
		if code == in.CustomAlias {
			continue
		}
		taken, err := uc.repo.Exists(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			uc.log.WithContext(ctx).Debugf("short code %s taken, retrying", code)
			continue
		}

		link := domain.NewShortLink(id, in.OwnerID, in.Title, originalURL, code, in.CustomAlias, qrRef)
		err = uc.repo.Create(ctx, link)

		var dup *domain.DuplicateKeyError
		switch {
		case err == nil:
			return link, nil
		case errors.As(err, &dup) && in.CustomAlias != "" && dup.Key == in.CustomAlias:
			return nil, fmt.Errorf("alias %q: %w", in.CustomAlias, domain.ErrConflict)
		case errors.As(err, &dup):
			// Lost a race for the generated code.
			continue
		default:
			return nil, err
		}
	}

	uc.log.WithContext(ctx).Warnf("no free short code after %d attempts", uc.maxAttempts)
	return nil, domain.ErrResourceExhausted
}

func validateCreateLink(in CreateLinkInput) error {
	errs := validation.Errors{
		"owner_id":     validation.Validate(in.OwnerID, validation.Required.Error("owner is required")),
		"title":        domain.ValidateTitle(in.Title),
		"original_url": domain.ValidateOriginalURL(in.OriginalURL),
		"custom_alias": domain.ValidateAlias(in.CustomAlias),
	}
	if verr := domain.NewValidationError(errs); verr != nil {
		return verr
	}
	return nil
}

func qrAssetKey(linkID string) string {
	return "qr-" + linkID + ".png"
}

// storeQR uploads the image and returns its reference. Failures are returned
// for the caller to report; they never abort link creation.
func (uc *LinkUsecase) storeQR(ctx context.Context, key string, image []byte) (string, error) {
	if len(image) == 0 {
		return "", nil
	}
	ref, err := uc.assets.Put(ctx, key, qrContentType, image)
	if err != nil {
		uc.log.WithContext(ctx).Warnf("QR image %s not stored: %v", key, err)
		return "", err
	}
	return ref, nil
}

// discardQR removes an image uploaded for a link that was never created.
func (uc *LinkUsecase) discardQR(ctx context.Context, key string) {
	if err := uc.assets.Delete(context.WithoutCancel(ctx), key); err != nil {
		uc.log.WithContext(ctx).Errorf("orphaned QR image %s not removed: %v", key, err)
	}
}

// Resolve finds the link answering to identifier, by short code or alias.
func (uc *LinkUsecase) Resolve(ctx context.Context, identifier string) (*domain.ShortLink, error) {
	if identifier == "" {
		return nil, domain.ErrNotFound
	}
	return uc.repo.FindByIdentifier(ctx, identifier)
}

// GetLink returns the owner's link. Links of other owners are reported as
// not found.
func (uc *LinkUsecase) GetLink(ctx context.Context, id, ownerID string) (*domain.ShortLink, error) {
	link, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !link.OwnedBy(ownerID) {
		return nil, domain.ErrNotFound
	}
	return link, nil
}

// ListLinks returns every link of the owner, newest first.
func (uc *LinkUsecase) ListLinks(ctx context.Context, ownerID string) ([]*domain.ShortLink, error) {
	return uc.repo.ListByOwner(ctx, ownerID)
}

// DeleteLink removes the link with its identifiers and clicks.
func (uc *LinkUsecase) DeleteLink(ctx context.Context, id, ownerID string) error {
	link, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !link.OwnedBy(ownerID) {
		return domain.ErrForbidden
	}
	if err := uc.repo.Delete(ctx, link); err != nil {
		return err
	}
	uc.log.WithContext(ctx).Infof("DeleteLink: %s", link.ID())
	return nil
}
