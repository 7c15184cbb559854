package models

import "time"

// BuildVersionInfo is the version information of the running binary.
type BuildVersionInfo struct {
	GitVersion string    `json:"GitVersion" yaml:"GitVersion"`
	GitCommit  string    `json:"GitCommit,omitempty" yaml:"GitCommit,omitempty"`
	BuildDate  time.Time `json:"BuildDate" yaml:"BuildDate" structs:",omitnested"`
	GOOS       string    `json:"GOOS" yaml:"GOOS"`
	GOARCH     string    `json:"GOARCH" yaml:"GOARCH"`
}
