package config_test

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/bbyours/attendance-server/config"

	"gopkg.in/yaml.v2"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

func TestParseAppConfigurationFromConfigFile(t *testing.T) {
	// os.Getenv() save out value to test cascade
	reset1 := unsetReset("AT_DB_PORT")
	defer reset1()

	reset2 := unsetReset("AT_EVENT_ZK_ADDRS")
	defer reset2()

	reset3 := unsetReset("AT_EVENT_TOPIC")
	defer reset3()

	contents := readAllOrFail(t, "testfixtures/complete.yml")
	var conf config.AppConfiguration
	err := yaml.Unmarshal(contents, &conf)
	if err != nil {
		t.Errorf("Could not unmarshal yaml config file: %v\n", err)
	}

	if conf.DatabaseConnection.Driver != "mysql" {
		t.Errorf("expected mysql, got: %v", conf.DatabaseConnection.Driver)
	}

	if conf.DatabaseConnection.Port != "9999" {
		t.Errorf("expected 9999, got %v", conf.DatabaseConnection.Port)
	}

	if len(conf.EventQueue.ZKAddrs) != 2 {
		t.Errorf("expected zk_addrs string slice of len 2, got: %v", conf.EventQueue.ZKAddrs)
	}
	if conf.EventQueue.Topic != "attendance-event" {
		t.Errorf("expected attendance-event, got: %v", conf.EventQueue.Topic)
	}
	if !conf.MailSettings.Enabled {
		t.Errorf("expected mail to be enabled from file")
	}
	if conf.AlertSettings.MQTTUrl != "mqtt://broker.internal:1883" {
		t.Errorf("expected broker endpoint, got: %v", conf.AlertSettings.MQTTUrl)
	}
	if conf.SessionSettings.ValkeyHost != "valkey.internal" {
		t.Errorf("expected valkey.internal, got: %v", conf.SessionSettings.ValkeyHost)
	}
}

func TestLoadYAMLConfigMissingFile(t *testing.T) {
	if _, err := config.LoadYAMLConfig("testfixtures/no-such-file.yml"); err == nil {
		t.Errorf("expected error loading missing config file")
	}
}

func readAllOrFail(t *testing.T, path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		t.Fail()
	}
	contents, err := ioutil.ReadAll(f)
	if err != nil {
		t.Fail()
	}
	return contents
}

func unsetReset(env string) func() {
	original := os.Getenv(env)
	os.Setenv(env, "")
	return func() {
		os.Setenv(env, original)
	}
}
