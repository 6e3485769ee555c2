package version

// Version is the semantic version of the binary, overridden at build time
// with -ldflags.
var Version = "0.0.0-dev"
