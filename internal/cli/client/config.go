package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	envUserID = "HRNEXUS_USER_ID"
	envAPIURL = "HRNEXUS_API_URL"

	defaultAPIURL = "http://localhost:8080"
	profileFile   = "config.json"
)

// Profile is the identity `hrnexus login` stores on disk. SessionID is the
// server-side conversation the CLI resumes between invocations.
type Profile struct {
	UserID    string `json:"user_id"`
	APIURL    string `json:"api_url"`
	SessionID string `json:"session_id,omitempty"`
}

// profileDir is swapped out by tests.
var profileDir = func() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(base, "hrnexus"), nil
}

// ProfilePath returns where the stored profile lives.
func ProfilePath() (string, error) {
	dir, err := profileDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, profileFile), nil
}

// LoadProfile reads the stored profile. No profile yields (nil, nil).
func LoadProfile() (*Profile, error) {
	path, err := ProfilePath()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	p := &Profile{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// SaveProfile replaces the stored profile. The file is private to the user.
func SaveProfile(p *Profile) error {
	if p == nil {
		return errors.New("profile is nil")
	}
	path, err := ProfilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// DeleteProfile forgets the stored identity. Deleting nothing is fine.
func DeleteProfile() error {
	path, err := ProfilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// rememberSession records a new session id for the stored user. Identities
// given by flag or environment are not persisted.
func rememberSession(userID, sessionID string) error {
	p, err := LoadProfile()
	if err != nil || p == nil || p.UserID != userID || p.SessionID == sessionID {
		return err
	}
	p.SessionID = sessionID
	return SaveProfile(p)
}

// ValidUserID reports whether id looks like a user id: non-empty, no spaces.
func ValidUserID(id string) bool {
	return id != "" && !strings.ContainsAny(id, " \t\r\n")
}

// IdentitySource says which layer supplied the acting user.
type IdentitySource string

const (
	FromFlag    IdentitySource = "flag"
	FromEnv     IdentitySource = "env"
	FromProfile IdentitySource = "profile"
	FromNowhere IdentitySource = "none"
)

// Identity is the user the CLI acts as and the server it talks to.
type Identity struct {
	Source IdentitySource
	UserID string
	APIURL string
	// Profile is set only when Source is FromProfile.
	Profile *Profile
}

// ResolveIdentity picks the acting user from the --user flag, then
// HRNEXUS_USER_ID, then the stored profile. The API URL follows the same
// precedence with the default last.
func ResolveIdentity(flagUser, flagURL string) Identity {
	envURL := os.Getenv(envAPIURL)
	switch {
	case flagUser != "":
		return Identity{Source: FromFlag, UserID: flagUser, APIURL: pick(flagURL, envURL, defaultAPIURL)}
	case os.Getenv(envUserID) != "":
		return Identity{Source: FromEnv, UserID: os.Getenv(envUserID), APIURL: pick(flagURL, envURL, defaultAPIURL)}
	}

	if p, err := LoadProfile(); err == nil && p != nil && p.UserID != "" {
		return Identity{Source: FromProfile, UserID: p.UserID, APIURL: pick(flagURL, p.APIURL, defaultAPIURL), Profile: p}
	}
	return Identity{Source: FromNowhere}
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
