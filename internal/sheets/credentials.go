package sheets

import (
	"encoding/json"
	"fmt"
	"os"
)

// EnvCredentials is the environment variable carrying the credential
// JSON directly, checked before the local file.
const EnvCredentials = "GOOGLE_SHEETS_CREDENTIALS"

// Credentials is the material needed to read the spreadsheet.
type Credentials struct {
	APIKey string `json:"api_key"`
}

// ResolveCredentials tries the environment first (a JSON blob in
// GOOGLE_SHEETS_CREDENTIALS), then the local credentials file. A
// failure on whichever path is selected is fatal for the refresh
// cycle that needed the fallback.
func ResolveCredentials(file string) (*Credentials, error) {
	if raw := os.Getenv(EnvCredentials); raw != "" {
		creds, err := parseCredentials([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", EnvCredentials, err)
		}
		return creds, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file %s: %w", file, err)
	}
	creds, err := parseCredentials(data)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", file, err)
	}
	return creds, nil
}

func parseCredentials(data []byte) (*Credentials, error) {
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.APIKey == "" {
		return nil, fmt.Errorf("credentials missing api_key")
	}
	return &c, nil
}
