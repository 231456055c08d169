package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/config"
)

func TestNew_LocalIsTheDefault(t *testing.T) {
	emb, err := New(config.EmbedderConfig{Dimension: 32})
	require.NoError(t, err)
	assert.Equal(t, "local-hash", emb.Name())
	assert.Equal(t, 32, emb.Dimension())
}

func TestNew_CacheWrapsWhenTTLSet(t *testing.T) {
	emb, err := New(config.EmbedderConfig{Type: "local", CacheTTLSecs: 60})
	require.NoError(t, err)
	_, ok := emb.(*Cached)
	assert.True(t, ok)

	emb, err = New(config.EmbedderConfig{Type: "local"})
	require.NoError(t, err)
	_, ok = emb.(*Cached)
	assert.False(t, ok, "no TTL means no cache layer")
}

func TestNew_OpenAIRequiresConfigAndKey(t *testing.T) {
	_, err := New(config.EmbedderConfig{Type: "openai"})
	assert.Error(t, err)

	t.Setenv("TEST_EMBED_KEY", "")
	_, err = New(config.EmbedderConfig{
		Type:   "openai",
		OpenAI: &config.OpenAIEmbedderConfig{APIKeyEnv: "TEST_EMBED_KEY"},
	})
	assert.Error(t, err)
}

func TestNew_UnknownTypeIsAnError(t *testing.T) {
	_, err := New(config.EmbedderConfig{Type: "cohere"})
	assert.Error(t, err)
}
