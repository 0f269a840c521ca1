package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curlcraft/internal/capture"
)

func defaultTestConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	c, err := loadConfig(v)
	require.NoError(t, err)
	return c
}

func TestLoadConfigDefaults(t *testing.T) {
	c := defaultTestConfig(t)

	assert.Equal(t, capture.DefaultBaseURL, c.BaseURL)
	assert.Equal(t, []string{"source", "fields"}, c.Variants)
	assert.False(t, c.StrictEscaping)

	opts, err := c.CaptureOptions()
	require.NoError(t, err)
	assert.Equal(t, capture.DefaultOptions(), opts)
}

func TestLoadConfigFromYAML(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
base_url: https://gateway.internal
method_fallback: post
variants: [fields]
strict_escaping: true
`)))

	c, err := loadConfig(v)
	require.NoError(t, err)

	opts, err := c.CaptureOptions()
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.internal", opts.BaseURL)
	assert.Equal(t, capture.FallbackPOST, opts.MethodFallback)
	assert.Equal(t, []capture.Variant{capture.VariantFields}, opts.Variants)
	assert.True(t, c.RenderOptions().StrictEscaping)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	for key, value := range map[string]any{
		"method_fallback": "get",
		"variants":        []string{"hits"},
	} {
		v := viper.New()
		setDefaults(v)
		v.Set(key, value)

		_, err := loadConfig(v)
		assert.Error(t, err, key)
	}
}

func TestGenerateCurl(t *testing.T) {
	c := defaultTestConfig(t)

	cmd, err := generateCurl([]byte(`{"fields":{"request":{"url":"https://api.example.com/pay","method":"post","body":[{"data":{"amount":10}}]}}}`), c)
	require.NoError(t, err)
	assert.Equal(t,
		`curl --silent --location --request POST 'https://api.example.com/pay' --header 'Content-Type: application/json' --data '{"amount":10}'`,
		cmd.SingleLine)

	_, err = generateCurl([]byte(`{"fields":`), c)
	assert.ErrorIs(t, err, capture.ErrInvalidJSON)

	_, err = generateCurl([]byte(`[1]`), c)
	var verr *capture.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCurlCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "curlcraft.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db_path: "+filepath.Join(dir, "recent.db")+"\n"), 0o644))

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(`{"_source":{"request":{"uri":"/ping","http_method":"head"}}}`))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"--config", cfgPath, "curl", "--format", "single"})
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "curl --silent --location --request HEAD 'http://localhost:8080/ping'\n", stdout.String())
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Equal(t, "ab...", truncateString("abcdef", 2))
}
