package registry

import "fmt"

// ErrUnsupportedRegistry is returned when an unrecognized registry kind is requested
type ErrUnsupportedRegistry struct {
	Registry string
}

func (e ErrUnsupportedRegistry) Error() string {
	return "unsupported registry: '" + e.Registry + "'"
}

// ErrUndefinedEnvVar is returned when a named credential environment variable is unset
type ErrUndefinedEnvVar struct {
	Name string
}

func (e ErrUndefinedEnvVar) Error() string {
	return "value of environment variable " + e.Name + " is undefined"
}

// ErrInvalidCredentials is returned when the identity service rejects the
// access/secret key pair
type ErrInvalidCredentials struct {
	Err error
}

func (e ErrInvalidCredentials) Error() string {
	return fmt.Sprintf("invalid access credentials, unable to authenticate: %v", e.Err)
}

func (e ErrInvalidCredentials) Unwrap() error {
	return e.Err
}

// ErrInvalidRegistry is returned when engine-level login rejects the target
// registry. Kept distinct from ErrInvalidCredentials: identity-service
// rejection and engine login rejection are different failures.
type ErrInvalidRegistry struct {
	Registry string
	Err      error
}

func (e ErrInvalidRegistry) Error() string {
	return fmt.Sprintf("invalid registry '%s': %v", e.Registry, e.Err)
}

func (e ErrInvalidRegistry) Unwrap() error {
	return e.Err
}
