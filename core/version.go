package core

// Version of the build. Set with -ldflags.
var Version = "0.1.0"

// GitSHA of the build. Set with -ldflags.
var GitSHA = "0000000"
