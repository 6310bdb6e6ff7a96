// Package buildinfo holds the version metadata release builds inject
// with -ldflags. Dev builds leave the values empty and the version
// command falls back to debug.ReadBuildInfo.
package buildinfo

var (
	Version = ""
	Commit  = ""
	Date    = ""
)
