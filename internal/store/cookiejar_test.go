package store

import (
	"path/filepath"
	"testing"

	"github.com/RealityMoez/draw-a-ui/internal/config"
	"github.com/RealityMoez/draw-a-ui/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJar(t *testing.T) *CookieJar {
	t.Helper()
	jar, err := Open(&config.Config{
		CookieDBDriver: "sqlite",
		CookieDBPath:   filepath.Join(t.TempDir(), "jar.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = jar.Close() })
	return jar
}

func TestCookieJar_SetGetClear(t *testing.T) {
	jar := openTestJar(t)

	v, err := jar.Get(models.CredentialCookie)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, jar.Set(models.CredentialCookie, "sk-one"))
	v, err = jar.Get(models.CredentialCookie)
	require.NoError(t, err)
	assert.Equal(t, "sk-one", v)

	require.NoError(t, jar.Set(models.CredentialCookie, "sk-two"))
	v, err = jar.Get(models.CredentialCookie)
	require.NoError(t, err)
	assert.Equal(t, "sk-two", v)

	require.NoError(t, jar.Clear(models.CredentialCookie))
	v, err = jar.Get(models.CredentialCookie)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestCookieJar_Header(t *testing.T) {
	jar := openTestJar(t)

	h, err := jar.Header()
	require.NoError(t, err)
	assert.Empty(t, h)

	require.NoError(t, jar.Set(models.CredentialCookie, "sk-test"))
	require.NoError(t, jar.Set("theme", "dark"))
	require.NoError(t, jar.Set("empty", ""))

	h, err = jar.Header()
	require.NoError(t, err)
	assert.Equal(t, "OPENAI_API_KEY=sk-test; theme=dark", h)
}

func TestCookieJar_PersistsAcrossOpen(t *testing.T) {
	cfg := &config.Config{CookieDBPath: filepath.Join(t.TempDir(), "jar.db")}

	jar, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, jar.Set(models.CredentialCookie, "sk-persist"))
	require.NoError(t, jar.Close())

	jar, err = Open(cfg)
	require.NoError(t, err)
	defer jar.Close()
	v, err := jar.Get(models.CredentialCookie)
	require.NoError(t, err)
	assert.Equal(t, "sk-persist", v)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{CookieDBDriver: "mysql"})
	assert.Error(t, err)
}
