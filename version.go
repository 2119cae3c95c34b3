package airdesk

// Version is overridden at build time with -ldflags "-X github.com/aretw0/airdesk.Version=...".
var Version = "dev"
