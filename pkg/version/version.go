package version

import (
	"runtime"
	"time"

	"github.com/bacalhau-project/cortex/pkg/models"
)

// Set at build time with -ldflags "-X".
var (
	GITVERSION = "v0.0.0-dev"
	GITCOMMIT  = ""
	BUILDDATE  = ""
)

// Get returns the version of the running binary.
func Get() *models.BuildVersionInfo {
	info := &models.BuildVersionInfo{
		GitVersion: GITVERSION,
		GitCommit:  GITCOMMIT,
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
	if t, err := time.Parse(time.RFC3339, BUILDDATE); err == nil {
		info.BuildDate = t
	}
	return info
}

// UserAgent is the default User-Agent header for outgoing requests.
func UserAgent() string {
	return "cortex/" + GITVERSION
}
