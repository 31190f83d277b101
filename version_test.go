package barter_test

import (
	"testing"

	"github.com/iov-one/barter"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func() { barter.GitCommit = "" }()

	barter.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", barter.Version())

	barter.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", barter.Version())
}
