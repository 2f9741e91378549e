package main

import "time"

const (
	defaultConfigPath = "config.toml"

	glMajor = 3
	glMinor = 3

	sampleInterval  = time.Second
	shutdownTimeout = 5 * time.Second
	// dt is clamped so a stalled frame does not teleport the camera
	maxFrameDelta = 0.25
)
