package azure

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

var (
	// ErrNotFound is returned when the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrAccessDenied is returned when ARM rejects the credential for the resource
	ErrAccessDenied = errors.New("access to resource denied")

	// ErrMalformedResponse is returned when a resource cannot be parsed into the snapshot model
	ErrMalformedResponse = errors.New("unexpected resource shape in provider response")

	// ErrProviderUnreachable is returned when the resource provider cannot be reached
	ErrProviderUnreachable = errors.New("resource provider failed to become reachable")
)

// translateError maps ARM response errors onto the package sentinels so
// callers can branch without knowing about azcore.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, respErr.ErrorCode)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrAccessDenied, respErr.ErrorCode)
		}
	}

	return err
}

func newMalformedError(detail string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, detail, err)
}
