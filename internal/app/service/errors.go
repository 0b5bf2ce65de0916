package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	apperrors "github.com/geekcommerce/geek-commerce-backend/internal/errors"
	"github.com/geekcommerce/geek-commerce-backend/pkg/util"
	"gorm.io/gorm"
)

// Error classes. Every service error wraps at least one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrReferenced = errors.New("still referenced")
)

var (
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrBrandNotFound    = fmt.Errorf("brand %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrVariantNotFound  = fmt.Errorf("variant %w", ErrNotFound)
	ErrImageNotFound    = fmt.Errorf("image %w", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrSlugConflict            = fmt.Errorf("%w: slug already in use", ErrConflict)
	ErrSKUConflict             = fmt.Errorf("%w: sku already in use", ErrConflict)
	ErrInvalidStatusTransition = fmt.Errorf("%w: status transition not allowed", ErrConflict)
	ErrOrderNotEditable        = fmt.Errorf("%w: order is no longer pending", ErrConflict)

	ErrCategoryInUse = fmt.Errorf("%w: category has products", ErrReferenced)

	ErrCategoryCycle    = fmt.Errorf("%w: category cannot be its own ancestor", ErrValidation)
	ErrNameRequired     = fmt.Errorf("%w: name is required", ErrValidation)
	ErrEmptySlug        = fmt.Errorf("%w: %w", ErrValidation, model.ErrEmptySlug)
	ErrInvalidSlug      = fmt.Errorf("%w: slug may only contain lowercase letters, digits, underscores and hyphens", ErrValidation)
	ErrCategoryRequired = fmt.Errorf("%w: category is required", ErrValidation)
	ErrInvalidPrice     = fmt.Errorf("%w: price must be zero or greater", ErrValidation)
	ErrInvalidWeight    = fmt.Errorf("%w: weight must be zero or greater", ErrValidation)
	ErrInvalidSKU       = fmt.Errorf("%w: sku cannot be empty", ErrValidation)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	ErrInvalidStatus    = fmt.Errorf("%w: unknown order status", ErrValidation)
	ErrNoOrderIDs       = fmt.Errorf("%w: at least one order id is required", ErrValidation)
	ErrInvalidFilename  = fmt.Errorf("%w: filename is required", ErrValidation)
	ErrInvalidImageType = fmt.Errorf("%w: unsupported image type", ErrValidation)
	ErrInvalidImageKey  = fmt.Errorf("%w: image key is required", ErrValidation)
	ErrInvalidAddress   = fmt.Errorf("%w: shipping address is required", ErrValidation)

	ErrProductUnavailable = fmt.Errorf("%w: product is not available for ordering", ErrValidation)
)

// invalidRef reports a reference to a record that does not exist.
func invalidRef(notFound error) error {
	return fmt.Errorf("%w: %w", ErrValidation, notFound)
}

// checkSlug accepts an explicit slug only when it is already in canonical form.
func checkSlug(slug string) error {
	if slug != "" && util.Slugify(slug) != slug {
		return ErrInvalidSlug
	}
	return nil
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}

// mapNotFound swaps gorm's missing record error for the given sentinel.
func mapNotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

// mapWriteError classifies storage errors from inserts and updates.
func mapWriteError(err, uniqueErr error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrEmptySlug):
		return ErrEmptySlug
	case apperrors.IsUniqueViolation(err):
		return uniqueErr
	}
	return err
}
