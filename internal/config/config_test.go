package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvInt(t *testing.T) {
	// GIVEN: an optional integer variable
	// WHEN: it is unset, empty or set
	// THEN: the default applies only while it carries no value

	t.Setenv("DB_MAX_CONNS", "")
	assert.Equal(t, 25, envInt("DB_MAX_CONNS", 25))

	t.Setenv("DB_MAX_CONNS", "40")
	assert.Equal(t, 40, envInt("DB_MAX_CONNS", 25))
}

func TestGetenvDefault(t *testing.T) {
	t.Setenv("CACHE_PREFIX", "")
	assert.Equal(t, "avail", getenv("CACHE_PREFIX", "avail"))
	t.Setenv("CACHE_PREFIX", "hot")
	assert.Equal(t, "hot", getenv("CACHE_PREFIX", "avail"))
}
