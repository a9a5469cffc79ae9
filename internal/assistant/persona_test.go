package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternal-sentinels/es-archive/internal/config"
	"github.com/eternal-sentinels/es-archive/internal/model"
)

func TestSystemPrompt(t *testing.T) {
	std := SystemPrompt(model.Requester{DisplayName: "agent7", ClearanceLevel: 3})
	assert.Contains(t, std, "agent7")
	assert.Contains(t, std, "Уровень 3 - Расширенный")
	assert.NotContains(t, std, "Палач Рока")

	priv := SystemPrompt(model.Requester{DisplayName: "admin", ClearanceLevel: 5, Privileged: true})
	assert.Contains(t, priv, "Палач Рока")
	assert.Contains(t, priv, "Уровень 5 - Абсолютный")
}

func TestClearanceDescription(t *testing.T) {
	assert.Equal(t, "Уровень 1 - Базовый", ClearanceDescription(1))
	assert.Equal(t, "Уровень 9", ClearanceDescription(9))
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: "openai"})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = New(context.Background(), config.LLMConfig{Provider: "claude-on-a-toaster", APIKey: "k"})
	assert.Error(t, err)

	c, err := New(context.Background(), config.LLMConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, c)
}
