package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// ReadOnlyScope is the only Drive permission this tool needs.
const ReadOnlyScope = "https://www.googleapis.com/auth/drive.readonly"

// Authorize loads the OAuth2 client credentials and the stored user token
// from the given JSON files and returns a client option carrying a
// self-refreshing token source. Refreshed tokens are written back to the
// token file so the next run picks them up.
//
// There is no interactive browser flow here: if the token file is missing or
// the refresh token has been revoked, the run fails with instructions to
// re-authorize, which keeps unattended runs from hanging.
func Authorize(ctx context.Context, credsFile, tokenFile string) (option.ClientOption, error) {
	credsJSON, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read OAuth2 credentials file %s: %w", credsFile, err)
	}

	config, err := google.ConfigFromJSON(credsJSON, ReadOnlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth2 credentials: %w", err)
	}

	token, err := readToken(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth2 token from %s (re-authorize with your Google account and save the token there): %w", tokenFile, err)
	}

	source := &savingTokenSource{
		source: config.TokenSource(ctx, token),
		file:   tokenFile,
		last:   token,
	}
	return option.WithTokenSource(source), nil
}

func readToken(file string) (*oauth2.Token, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}
	return &token, nil
}

// savingTokenSource persists the token whenever the underlying source
// refreshes it.
type savingTokenSource struct {
	source oauth2.TokenSource
	file   string
	last   *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}

	if token.AccessToken != s.last.AccessToken {
		s.last = token
		if data, err := json.Marshal(token); err == nil {
			if err := os.WriteFile(s.file, data, 0600); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save refreshed token: %v\n", err)
			}
		}
	}
	return token, nil
}
