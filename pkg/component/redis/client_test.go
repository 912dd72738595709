package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsJSONMarshal_PasswordRedacted(t *testing.T) {
	opts := NewOptions()
	opts.Password = "supersecret"

	data, err := json.Marshal(opts)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "supersecret")
	assert.Contains(t, string(data), redactedPassword)
	assert.NotContains(t, opts.String(), "supersecret")
}

func TestOptionsJSONMarshal_EmptyPassword(t *testing.T) {
	data, err := json.Marshal(NewOptions())
	require.NoError(t, err)
	assert.NotContains(t, string(data), redactedPassword)
}

func TestOptions_Validate(t *testing.T) {
	opts := NewOptions()
	opts.Port = 0
	assert.NoError(t, opts.Validate(), "disabled options skip validation")

	opts.Enabled = true
	assert.Error(t, opts.Validate())

	opts.Port = 6379
	opts.Host = ""
	assert.Error(t, opts.Validate())

	opts.Host = "localhost"
	assert.NoError(t, opts.Validate())
	assert.Equal(t, "localhost:6379", opts.Addr())
}

func TestOptions_CompleteReadsEnv(t *testing.T) {
	t.Setenv("REDIS_PASSWORD", "from-env")
	opts := NewOptions()
	require.NoError(t, opts.Complete())
	assert.Equal(t, "from-env", opts.Password)
}

func TestOpen_Disabled(t *testing.T) {
	client, err := Open(context.Background(), NewOptions())
	require.NoError(t, err)
	assert.Nil(t, client)

	_, err = Open(context.Background(), nil)
	assert.Error(t, err)
}

func TestOpen_Unreachable(t *testing.T) {
	opts := NewOptions()
	opts.Enabled = true
	opts.Port = 1
	opts.MaxRetries = -1

	client, err := Open(context.Background(), opts)
	assert.Error(t, err)
	assert.Nil(t, client)
}
