package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskKey(""))
	assert.Equal(t, "********", maskKey("sk-1234"))
	assert.Equal(t, "sk-a…wxyz", maskKey("sk-abcdefghijklmnopqrstuvwxyz"))
}

func TestSubcommandNames(t *testing.T) {
	assert.Equal(t, "server", serverCmd().Name())
	assert.Equal(t, "make-real", makeRealCmd().Name())
	assert.Equal(t, "key", keyCmd().Name())
	assert.Len(t, keyCmd().Commands(), 3)
	assert.Equal(t, "version", versionCmd().Name())
}
