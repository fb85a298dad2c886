package kbucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := Config{}.withDefaults()
	require.NoError(t, err)

	assert.Equal(t, DefaultContactsPerBucket, cfg.ContactsPerBucket)
	assert.Equal(t, DefaultContactsToPing, cfg.ContactsToPing)
	assert.Len(t, cfg.LocalID, 20)
	assert.NotNil(t, cfg.Arbiter)
	assert.NotNil(t, cfg.DistanceFn)
	assert.NotNil(t, cfg.Logger)
}

func TestConfigExplicitLocalIDPreserved(t *testing.T) {
	cfg, err := Config{LocalID: []byte("test")}.withDefaults()
	require.NoError(t, err)

	assert.Equal(t, []byte("test"), cfg.LocalID)
}

func TestConfigInvalidValuesFallBackToDefaults(t *testing.T) {
	cfg, err := Config{ContactsPerBucket: -1, ContactsToPing: 0}.withDefaults()
	require.NoError(t, err)

	assert.Equal(t, DefaultContactsPerBucket, cfg.ContactsPerBucket)
	assert.Equal(t, DefaultContactsToPing, cfg.ContactsToPing)
}
