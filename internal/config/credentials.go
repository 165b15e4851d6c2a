package config

import (
	"fmt"
	"os"
	"strings"
)

// Credential environment variables. The API key identifies the account; the
// rest is the requester identity NREL requires on every request.
const (
	EnvAPIKey      = "NREL_API_KEY"
	EnvEmail       = "NSRDB_EMAIL"
	EnvFullName    = "NSRDB_FULL_NAME"
	EnvAffiliation = "NSRDB_AFFILIATION"
	EnvReason      = "NSRDB_REASON"
)

// Credentials holds the environment-sourced identity fields.
type Credentials struct {
	APIKey      string
	Email       string
	FullName    string
	Affiliation string
	Reason      string
}

// LoadCredentials reads and validates the credential environment variables,
// naming every missing one in a single error.
func LoadCredentials() (Credentials, error) {
	creds := Credentials{
		APIKey:      strings.TrimSpace(os.Getenv(EnvAPIKey)),
		Email:       strings.TrimSpace(os.Getenv(EnvEmail)),
		FullName:    strings.TrimSpace(os.Getenv(EnvFullName)),
		Affiliation: strings.TrimSpace(os.Getenv(EnvAffiliation)),
		Reason:      strings.TrimSpace(os.Getenv(EnvReason)),
	}

	var missing []string
	for _, check := range []struct {
		name  string
		value string
	}{
		{EnvAPIKey, creds.APIKey},
		{EnvEmail, creds.Email},
		{EnvFullName, creds.FullName},
		{EnvAffiliation, creds.Affiliation},
		{EnvReason, creds.Reason},
	} {
		if check.value == "" {
			missing = append(missing, check.name)
		}
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return creds, nil
}
