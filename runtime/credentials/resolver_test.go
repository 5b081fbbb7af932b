package credentials

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ExplicitAPIKey(t *testing.T) {
	cred, err := Resolve(ResolverConfig{ProviderType: ProviderOpenAI, APIKey: "sk-test-key"})
	require.NoError(t, err)

	assert.Equal(t, "api_key", cred.Type())
	assert.Equal(t, "sk-test-key", cred.APIKey())
}

func TestResolve_CredentialFile(t *testing.T) {
	tmpDir := t.TempDir()
	credFile := filepath.Join(tmpDir, "api_key.txt")
	require.NoError(t, os.WriteFile(credFile, []byte("sk-file-key\n"), 0600))

	cred, err := Resolve(ResolverConfig{ProviderType: ProviderOpenAI, CredentialFile: credFile})
	require.NoError(t, err)
	assert.Equal(t, "sk-file-key", cred.APIKey())
}

func TestResolve_CredentialFile_RelativePath(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "key"), []byte("rel-key"), 0600))

	cred, err := Resolve(ResolverConfig{
		ProviderType:   ProviderGemini,
		CredentialFile: "key",
		ConfigDir:      tmpDir,
	})
	require.NoError(t, err)
	assert.Equal(t, "rel-key", cred.APIKey())
}

func TestResolve_CredentialFile_NotFound(t *testing.T) {
	_, err := Resolve(ResolverConfig{ProviderType: ProviderOpenAI, CredentialFile: "/nonexistent/key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read credential file")
}

func TestResolve_CredentialEnv(t *testing.T) {
	t.Setenv("NARRATE_TEST_KEY", "env-key")

	cred, err := Resolve(ResolverConfig{ProviderType: ProviderOpenAI, CredentialEnv: "NARRATE_TEST_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "env-key", cred.APIKey())
}

func TestResolve_CredentialEnv_NotSet(t *testing.T) {
	t.Setenv("NARRATE_TEST_KEY", "")

	_, err := Resolve(ResolverConfig{ProviderType: ProviderOpenAI, CredentialEnv: "NARRATE_TEST_KEY"})
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "NARRATE_TEST_KEY")
}

func TestResolve_GeminiDefaultEnvVars(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cred, err := Resolve(ResolverConfig{ProviderType: ProviderGemini})
	require.NoError(t, err)
	assert.Equal(t, "google-key", cred.APIKey())
	assert.Equal(t, "x-goog-api-key", cred.HeaderName())

	t.Setenv("GEMINI_API_KEY", "gemini-key")
	cred, err = Resolve(ResolverConfig{ProviderType: ProviderGemini})
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cred.APIKey())
}

func TestResolve_MissingDefault(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Resolve(ResolverConfig{ProviderType: ProviderOpenAI})
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestResolve_PriorityOrder(t *testing.T) {
	tmpDir := t.TempDir()
	credFile := filepath.Join(tmpDir, "key")
	require.NoError(t, os.WriteFile(credFile, []byte("file-key"), 0600))
	t.Setenv("OPENAI_API_KEY", "default-key")

	cred, err := Resolve(ResolverConfig{ProviderType: ProviderOpenAI, APIKey: "explicit", CredentialFile: credFile})
	require.NoError(t, err)
	assert.Equal(t, "explicit", cred.APIKey())

	cred, err = Resolve(ResolverConfig{ProviderType: ProviderOpenAI, CredentialFile: credFile})
	require.NoError(t, err)
	assert.Equal(t, "file-key", cred.APIKey())

	cred, err = Resolve(ResolverConfig{ProviderType: ProviderOpenAI})
	require.NoError(t, err)
	assert.Equal(t, "default-key", cred.APIKey())
}

func TestAPIKeyCredential_Apply(t *testing.T) {
	cred, err := Resolve(ResolverConfig{ProviderType: ProviderOpenAI, APIKey: "sk-abc"})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, "http://example.com", nil)
	require.NoError(t, cred.Apply(context.Background(), req))
	assert.Equal(t, "Bearer sk-abc", req.Header.Get("Authorization"))
}

func TestAPIKeyCredential_GeminiHeader(t *testing.T) {
	cred, err := Resolve(ResolverConfig{ProviderType: ProviderGemini, APIKey: "AIza-key"})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, "http://example.com", nil)
	require.NoError(t, cred.Apply(context.Background(), req))
	assert.Equal(t, "AIza-key", req.Header.Get("x-goog-api-key"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestResolve_UnknownProviderUsesBearer(t *testing.T) {
	cred, err := Resolve(ResolverConfig{ProviderType: "custom", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "Authorization", cred.HeaderName())
}
