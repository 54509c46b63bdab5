package core

// BuildVersion identifies the binary in run records and version output.
// Release builds stamp it with:
//
//	-ldflags "-X github.com/quantifio/codemetrics/core.BuildVersion=v1.2.3"
var BuildVersion = "dev"
