package ports

import "fmt"

// AuthError reports a failed token acquisition or code exchange. The
// provider's error code and description are carried verbatim so the
// operator sees what the provider said.
type AuthError struct {
	Code        string
	Description string
}

func (e *AuthError) Error() string {
	if e.Description == "" {
		if e.Code == "" {
			return "authentication failed"
		}
		return "authentication failed: " + e.Code
	}
	if e.Code == "" {
		return "authentication failed: " + e.Description
	}
	return fmt.Sprintf("authentication failed: %s: %s", e.Code, e.Description)
}

// RemoteError reports a non-2xx response from an external service,
// keeping the remote-provided message for display.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote api error (status %d): %s", e.StatusCode, e.Message)
}

// ConfigError reports a required setting that is missing at the point
// of use, e.g. an unconfigured sender address.
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return "missing required configuration: " + e.Setting
}
