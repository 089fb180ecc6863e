package version

// Version is stamped at build time:
// -ldflags "-X github.com/rxtech-lab/cuanbot-engine/internal/version.Version=v0.4.0"
// "main" marks a development build.
var Version = "main"
