package backend

import (
	"fmt"
	"os"
	"strings"
)

type AuthTokenSource string

const (
	AuthTokenSourceExplicit  AuthTokenSource = "explicit"
	AuthTokenSourceEnv       AuthTokenSource = "env:LINKBATCH_TOKEN"
	AuthTokenSourceConfig    AuthTokenSource = "config"
	AuthTokenSourceTokenFile AuthTokenSource = "token_file"
)

// ResolveAuthToken resolves the backend access token.
//
// Precedence:
//  1. provided (if non-empty, typically from --token)
//  2. LINKBATCH_TOKEN env var
//  3. the config file's backend.token
//  4. the file named by backend.token_file
//
// It never prints the token. An empty result with a nil error means no
// token was found anywhere.
func ResolveAuthToken(provided, fromConfig, tokenFile string) (token string, source AuthTokenSource, err error) {
	if tok := strings.TrimSpace(provided); tok != "" {
		return tok, AuthTokenSourceExplicit, nil
	}
	if env := strings.TrimSpace(os.Getenv("LINKBATCH_TOKEN")); env != "" {
		return env, AuthTokenSourceEnv, nil
	}
	if tok := strings.TrimSpace(fromConfig); tok != "" {
		return tok, AuthTokenSourceConfig, nil
	}
	if path := strings.TrimSpace(tokenFile); path != "" {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return "", "", fmt.Errorf("read token file: %w", readErr)
		}
		tok := strings.TrimSpace(string(raw))
		if tok == "" {
			return "", "", fmt.Errorf("token file %s is empty", path)
		}
		if strings.ContainsAny(tok, " \t") {
			return "", "", fmt.Errorf("token file %s: token contains whitespace", path)
		}
		return tok, AuthTokenSourceTokenFile, nil
	}
	return "", "", nil
}
