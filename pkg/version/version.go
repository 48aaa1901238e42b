// Package version holds the build version, overridden at release time with
//
//	go build -ldflags "-X github.com/pixelweaver/gallery_viewer/pkg/version.Version=v1.2.3"
package version

var Version = "dev"
