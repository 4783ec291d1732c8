package version

// Version is overridden at build time with -ldflags "-X".
var Version = "v1.0.0"
