package google

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

// Classify maps a Google API error onto the domain error taxonomy:
//
//	401 and invalid_grant  -> domain.ErrReauthRequired
//	403                    -> domain.ErrForbidden
//	429                    -> domain.ErrRateLimited
//	5xx and network errors -> domain.ErrTransient
//
// Anything else passes through unchanged. Callers decide policy (retry,
// reauthorize, give up) with errors.Is against the sentinels; the original
// provider message stays in the chain for diagnostics.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		if rerr.ErrorCode == "invalid_grant" {
			return fmt.Errorf("%w: %v", domain.ErrReauthRequired, err)
		}
		return classifyStatus(rerr.Response.StatusCode, err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return classifyStatus(gerr.Code, err)
	}

	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}

	return err
}

func classifyStatus(code int, err error) error {
	switch {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", domain.ErrReauthRequired, err)
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: %v", domain.ErrForbidden, err)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	case code >= 500 && code <= 599:
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	default:
		return err
	}
}

// IsReauthRequired returns true when the error means the user must run the
// consent flow again.
func IsReauthRequired(err error) bool {
	return errors.Is(err, domain.ErrReauthRequired)
}

// IsForbidden returns true for insufficient permissions.
func IsForbidden(err error) bool {
	return errors.Is(err, domain.ErrForbidden)
}

// IsRateLimited returns true when the API rate limit was exceeded.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}

// IsTransient returns true for failures worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, domain.ErrTransient)
}
