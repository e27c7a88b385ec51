// Package entity builds entity references and URLs for evaluation data and
// uses them to check that free-text categories can be addressed.
package entity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-evalrules/internal/domain"
)

// CategoryPrefix is the entity prefix under which categories are addressed.
const CategoryPrefix = "eval-category"

// ErrInvalidReference indicates an id or prefix that cannot appear in a reference.
var ErrInvalidReference = errors.New("invalid entity reference")

var validate = validator.New()

// Referencer turns an entity prefix and id into an addressable URL.
type Referencer interface {
	EntityURL(prefix, id string) (string, error)
}

// URLReferencer builds direct entity URLs of the form
// <base>/direct/<prefix>/<id>.
type URLReferencer struct {
	BaseURL string
}

// NewURLReferencer creates a referencer rooted at baseURL.
// An empty baseURL produces server-relative URLs.
func NewURLReferencer(baseURL string) *URLReferencer {
	return &URLReferencer{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Reference returns the canonical "/<prefix>/<id>" reference.
func Reference(prefix, id string) (string, error) {
	if err := checkSegment("prefix", prefix); err != nil {
		return "", err
	}
	if err := checkSegment("id", id); err != nil {
		return "", err
	}
	return "/" + prefix + "/" + id, nil
}

// EntityURL implements Referencer.
func (r *URLReferencer) EntityURL(prefix, id string) (string, error) {
	ref, err := Reference(prefix, id)
	if err != nil {
		return "", err
	}
	u := r.BaseURL + "/direct" + ref
	if _, err := url.Parse(u); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}
	return u, nil
}

// checkSegment rejects values that would change the shape of a reference:
// path separators, query and fragment markers, escapes, whitespace and
// anything outside printable ASCII.
func checkSegment(name, v string) error {
	if err := validate.Var(v, "required,printascii,excludesall=/?#%\\"); err != nil {
		return fmt.Errorf("%w: %s %q: %w", ErrInvalidReference, name, v, err)
	}
	if strings.ContainsRune(v, ' ') {
		return fmt.Errorf("%w: %s %q contains a space", ErrInvalidReference, name, v)
	}
	return nil
}

// ValidateCategory reports whether category can be addressed as an entity.
// An empty category is always valid. A nil referencer uses server-relative URLs.
func ValidateCategory(r Referencer, category string) error {
	if category == "" {
		return nil
	}
	if r == nil {
		r = NewURLReferencer("")
	}
	if _, err := r.EntityURL(CategoryPrefix, category); err != nil {
		return &domain.InvalidCategoryError{Category: category, Err: err}
	}
	return nil
}
