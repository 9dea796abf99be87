package client

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempConfig points the stored profile at a fresh temp dir for one test.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "hrnexus")

	old := profileDir
	profileDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { profileDir = old })
	return filepath.Join(dir, profileFile)
}

func TestProfilePath_Default(t *testing.T) {
	path, err := ProfilePath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.True(t, strings.HasSuffix(path, filepath.Join("hrnexus", "config.json")))
}

func TestLoadProfile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		useTempConfig(t)
		p, err := LoadProfile()
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := useTempConfig(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		p, err := LoadProfile()
		assert.Nil(t, p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse profile")
	})
}

func TestSaveProfile_PrivateFile(t *testing.T) {
	path := useTempConfig(t)

	want := &Profile{UserID: "HR001", APIURL: "http://localhost:8080", SessionID: "sess-1"}
	require.NoError(t, SaveProfile(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.Error(t, SaveProfile(nil))
}

func TestDeleteProfile(t *testing.T) {
	useTempConfig(t)
	assert.NoError(t, DeleteProfile(), "nothing stored yet")

	require.NoError(t, SaveProfile(&Profile{UserID: "HR001"}))
	require.NoError(t, DeleteProfile())
	p, err := LoadProfile()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRememberSession(t *testing.T) {
	useTempConfig(t)
	require.NoError(t, SaveProfile(&Profile{UserID: "HR001", APIURL: "http://x"}))

	require.NoError(t, rememberSession("HR001", "sess-2"))
	p, err := LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, "sess-2", p.SessionID)

	// Another user's session never lands on the stored profile.
	require.NoError(t, rememberSession("EMP001", "sess-3"))
	p, err = LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, "sess-2", p.SessionID)
}

func TestResolveIdentity(t *testing.T) {
	useTempConfig(t)
	t.Setenv(envUserID, "")
	t.Setenv(envAPIURL, "")

	id := ResolveIdentity("", "")
	assert.Equal(t, FromNowhere, id.Source)
	assert.Empty(t, id.UserID)

	require.NoError(t, SaveProfile(&Profile{UserID: "HR001", APIURL: "http://stored", SessionID: "s1"}))
	id = ResolveIdentity("", "")
	assert.Equal(t, FromProfile, id.Source)
	assert.Equal(t, "HR001", id.UserID)
	assert.Equal(t, "http://stored", id.APIURL)
	require.NotNil(t, id.Profile)
	assert.Equal(t, "s1", id.Profile.SessionID)

	id = ResolveIdentity("", "http://override")
	assert.Equal(t, "http://override", id.APIURL)

	t.Setenv(envUserID, "EMP002")
	id = ResolveIdentity("", "")
	assert.Equal(t, FromEnv, id.Source)
	assert.Equal(t, "EMP002", id.UserID)
	assert.Equal(t, defaultAPIURL, id.APIURL)
	assert.Nil(t, id.Profile)

	id = ResolveIdentity("EMP001", "http://flag")
	assert.Equal(t, FromFlag, id.Source)
	assert.Equal(t, "EMP001", id.UserID)
	assert.Equal(t, "http://flag", id.APIURL)
}

func TestValidUserID(t *testing.T) {
	assert.True(t, ValidUserID("HR_ADMIN"))
	assert.False(t, ValidUserID(""))
	assert.False(t, ValidUserID("HR 001"))
}
