package config

const (
	Debug        = true
	BuildVersion = "v0.1.3"

	// ProtocolVersion is carried in the wire handshake, peers with a
	// different version refuse to play each other.
	ProtocolVersion = 1

	DefaultPort = 5000
)
