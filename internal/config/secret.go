package config

// CompiledSecret holds an ICONBRIDGE_SECRET embedded at build time via
// -ldflags. When empty, the ICONBRIDGE_SECRET environment variable is used.
var CompiledSecret string
