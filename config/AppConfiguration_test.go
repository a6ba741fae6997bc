package config_test

import (
	"os"
	"testing"

	"github.com/bbyours/attendance-server/config"
)

func TestCascadeStringSlice_EmptyVarYieldsZeroLenSlice(t *testing.T) {

	// Set up TEST_VAR with empty string
	os.Setenv("TEST_VAR", "")

	var empty []string

	result := config.CascadeStringSlice("TEST_VAR", empty, empty)

	if len(result) != 0 {
		t.Errorf("Expected len 0 for string slice, got %v", len(result))
	}
}

func TestCascadeStringSlice_EnvOverridesFile(t *testing.T) {

	os.Setenv("TEST_VAR", "a:1,b:2")
	defer os.Setenv("TEST_VAR", "")

	fromFile := []string{"c:3"}

	result := config.CascadeStringSlice("TEST_VAR", fromFile, nil)

	if len(result) != 2 {
		t.Errorf("Expected len 2 for string slice, got %v", len(result))
	}
	if result[0] != "a:1" {
		t.Errorf("Expected a:1, got %v", result[0])
	}
}

func TestCascadeBoolFromString1(t *testing.T) {
	os.Setenv("TEST_BOOL", "")

	var empty string

	result := config.CascadeBoolFromString("TEST_BOOL", empty, true)

	if !result {
		t.Errorf("Expected true for default when env var not set, got %v", result)
	}
}

func TestCascadeBoolFromString2(t *testing.T) {
	os.Setenv("TEST_BOOL", "false")

	var empty string

	result := config.CascadeBoolFromString("TEST_BOOL", empty, true)

	if result {
		t.Errorf("Expected false because env var should override, got %v", result)
	}
}

func TestCascadeBoolFromString3(t *testing.T) {
	os.Setenv("TEST_BOOL", "false")

	var fromFile = "true"

	result := config.CascadeBoolFromString("TEST_BOOL", fromFile, true)

	if result {
		t.Errorf("Expected false because env var should override, got %v", result)
	}
}

func TestCascadeBoolFromString4(t *testing.T) {
	os.Setenv("TEST_BOOL", "")

	var fromFile = "true"

	result := config.CascadeBoolFromString("TEST_BOOL", fromFile, false)

	if !result {
		t.Errorf("Expected true because file value should override default, got %v", result)
	}
}

func TestNewSessionConfigDefaults(t *testing.T) {
	reset1 := unsetReset("AT_SESSION_IDLE_TIMEOUT")
	defer reset1()
	reset2 := unsetReset("AT_SESSION_OTP_TTL")
	defer reset2()

	var confFile config.AppConfiguration
	conf := config.NewSessionConfigFromEnv(confFile, config.CommandLineOpts{})
	if conf.IdleTimeout != 600 {
		t.Errorf("Expected default idle timeout 600, got %v", conf.IdleTimeout)
	}
	if conf.OTPTTL != 600 {
		t.Errorf("Expected default otp ttl 600, got %v", conf.OTPTTL)
	}
	if conf.ValkeyPort != "6379" {
		t.Errorf("Expected default valkey port 6379, got %v", conf.ValkeyPort)
	}
}
