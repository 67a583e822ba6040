package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Overlay(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd", "-a", ":8088", "-s", "flag-secret", "-m", "4", "-l", "20", "-n", "X-Org-Id"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, c.EndpointAddrHTTP, ":8088")
	assert.Equal(t, c.SecretKey, "flag-secret")
	assert.Equal(t, c.MaxLoginAttempts, 4)
	assert.Equal(t, c.LockoutDuration, 20*time.Minute)
	assert.Equal(t, c.TenantHeaderName, "X-Org-Id")
}

func TestParseFlags_NoArgsKeepsDefaults(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, c.EndpointAddrHTTP, ":3000")
	assert.Equal(t, c.LockoutDuration, 5*time.Minute)
	assert.Equal(t, c.ResetTokenValidityDuration, 30*time.Minute)
}
