// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package renderer

import (
	"errors"
	"fmt"
	"net/http"
	"syscall"

	"github.com/platform-engineering-labs/portctl/internal/cli/config"
	"github.com/platform-engineering-labs/portctl/internal/cli/display"
	"github.com/platform-engineering-labs/portctl/internal/port"
)

// RenderErrorMessage turns the errors a command can end with into a message for the console.
func RenderErrorMessage(err error) string {
	var authErr *port.AuthError
	var apiErr *port.APIError

	switch {
	case errors.As(err, &authErr):
		return display.Redf("Error: could not authenticate with Port: %v\n", authErr.Err) +
			display.Grey("Check CLIENT_ID, CLIENT_SECRET and REGION in your configuration.\n")
	case errors.Is(err, config.ErrConfigNotFound), errors.Is(err, config.ErrMissingCredentials), errors.Is(err, config.ErrInvalidRegion):
		return display.Redf("Error: %v\n", err)
	case errors.As(err, &apiErr):
		return renderAPIError(apiErr)
	case errors.Is(err, syscall.ECONNREFUSED):
		return display.Red("Error: the Port API refused the connection, check BASE_URL\n")
	default:
		return display.Redf("Error: %v\n", err)
	}
}

func renderAPIError(err *port.APIError) string {
	msg := display.Redf("Error: Port API returned %d for %s %s\n", err.StatusCode, err.Method, err.Path)
	if err.Message != "" {
		msg += fmt.Sprintf("  %s %s\n", display.Grey("message:"), err.Message)
	}

	switch err.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		msg += display.Grey("  the credentials need organization admin permissions for this operation\n")
	case http.StatusNotFound:
		msg += display.Grey("  the resource does not exist in this organization\n")
	}

	return msg
}
