package barter

// GitCommit is set when building a release:
//
//	go build -ldflags "-X github.com/iov-one/barter.GitCommit=$(git rev-parse --short HEAD)" ./cmd/barter
var GitCommit = ""

const release = "v0.1.0-dev"

// Version is the release, followed by the commit when known.
func Version() string {
	if GitCommit == "" {
		return release
	}
	return release + " " + GitCommit
}
