package main

// Version is reported by --version. Release builds set it with
// -ldflags "-X main.Version=v1.2.3".
var Version = "dev"
