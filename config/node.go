package config

import (
	"crypto/rand"
	"encoding/hex"
)

// NodeID distinguishes this process instance in logs and zookeeper
// announcements. Assigned once at startup.
var NodeID = RandomID()

// RandomID returns 8 random hex characters.
func RandomID() string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
