package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/lxb-translator/pkg/providers"
)

// 测试请求打到自定义端点并带上自定义头
func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gw-key", r.Header.Get("Authorization"))
		assert.Equal(t, "tenant-a", r.Header.Get("X-Tenant"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-gw",
			"model": "custom-model",
			"choices": []map[string]any{
				{
					"message":       map[string]any{"role": "assistant", "content": "Pressione "},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer server.Close()

	config := DefaultConfig()
	config.APIKey = "gw-key"
	config.APIEndpoint = server.URL
	config.Model = "custom-model"
	config.Headers = map[string]string{"X-Tenant": "tenant-a"}
	provider := New(config)

	resp, err := provider.Translate(context.Background(), &providers.Request{
		Text:           "Press ",
		SourceLanguage: "en",
		TargetLanguage: "pt-BR",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pressione", resp.Text)
	assert.Equal(t, "custom-model", resp.Model)
}
