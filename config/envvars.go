package config

import (
	"fmt"
	"html/template"
	"os"
)

// Environment variables
const (
	AT_AWS_ACCESS_KEY_ID             = "AT_AWS_ACCESS_KEY_ID"
	AT_AWS_ASG_EC2                   = "AT_AWS_ASG_EC2"
	AT_AWS_ASG_ENDPOINT              = "AT_AWS_ASG_ENDPOINT"
	AT_AWS_ASG_NAME                  = "AT_AWS_ASG_NAME"
	AT_AWS_CLOUDWATCH_ENDPOINT       = "AT_AWS_CLOUDWATCH_ENDPOINT"
	AT_AWS_CLOUDWATCH_INTERVAL       = "AT_AWS_CLOUDWATCH_INTERVAL"
	AT_AWS_CLOUDWATCH_NAME           = "AT_AWS_CLOUDWATCH_NAME"
	AT_AWS_REGION                    = "AT_AWS_REGION"
	AT_AWS_SECRET_ACCESS_KEY         = "AT_AWS_SECRET_ACCESS_KEY"
	AT_AWS_SES_ENDPOINT              = "AT_AWS_SES_ENDPOINT"
	AT_AWS_SQS_BATCHSIZE             = "AT_AWS_SQS_BATCHSIZE"
	AT_AWS_SQS_ENDPOINT              = "AT_AWS_SQS_ENDPOINT"
	AT_AWS_SQS_INTERVAL              = "AT_AWS_SQS_INTERVAL"
	AT_AWS_SQS_NAME                  = "AT_AWS_SQS_NAME"
	AT_DB_CA                         = "AT_DB_CA"
	AT_DB_CERT                       = "AT_DB_CERT"
	AT_DB_CONN_PARAMS                = "AT_DB_CONN_PARAMS"
	AT_DB_CONNMAXLIFETIME            = "AT_DB_CONNMAXLIFETIME"
	AT_DB_DEADLOCK_RETRYCOUNTER      = "AT_DB_DEADLOCK_RETRYCOUNTER"
	AT_DB_DEADLOCK_RETRYDELAYMS      = "AT_DB_DEADLOCK_RETRYDELAYMS"
	AT_DB_HOST                       = "AT_DB_HOST"
	AT_DB_KEY                        = "AT_DB_KEY"
	AT_DB_MAXIDLECONNS               = "AT_DB_MAXIDLECONNS"
	AT_DB_MAXOPENCONNS               = "AT_DB_MAXOPENCONNS"
	AT_DB_PASSWORD                   = "AT_DB_PASSWORD"
	AT_DB_PORT                       = "AT_DB_PORT"
	AT_DB_SCHEMA                     = "AT_DB_SCHEMA"
	AT_DB_SKIP_VERIFY                = "AT_DB_SKIP_VERIFY"
	AT_DB_USE_TLS                    = "AT_DB_USE_TLS"
	AT_DB_USERNAME                   = "AT_DB_USERNAME"
	AT_EVENT_KAFKA_ADDRS             = "AT_EVENT_KAFKA_ADDRS"
	AT_EVENT_PUBLISH_FAILURE_ACTIONS = "AT_EVENT_PUBLISH_FAILURE_ACTIONS"
	AT_EVENT_PUBLISH_SUCCESS_ACTIONS = "AT_EVENT_PUBLISH_SUCCESS_ACTIONS"
	AT_EVENT_TOPIC                   = "AT_EVENT_TOPIC"
	AT_EVENT_ZK_ADDRS                = "AT_EVENT_ZK_ADDRS"
	AT_LOG_LEVEL                     = "AT_LOG_LEVEL"
	AT_LOG_LOCATION                  = "AT_LOG_LOCATION"
	AT_LOG_MODE                      = "AT_LOG_MODE"
	AT_MAIL_ENABLED                  = "AT_MAIL_ENABLED"
	AT_MAIL_FROM                     = "AT_MAIL_FROM"
	AT_MQTT_CLIENT                   = "AT_MQTT_CLIENT"
	AT_MQTT_PASSWORD                 = "AT_MQTT_PASSWORD"
	AT_MQTT_TOPIC_PREFIX             = "AT_MQTT_TOPIC_PREFIX"
	AT_MQTT_URL                      = "AT_MQTT_URL"
	AT_MQTT_USERNAME                 = "AT_MQTT_USERNAME"
	AT_SERVER_BASEPATH               = "AT_SERVER_BASEPATH"
	AT_SERVER_BINDADDRESS            = "AT_SERVER_BINDADDRESS"
	AT_SERVER_PORT                   = "AT_SERVER_PORT"
	AT_SERVER_STATIC_ROOT            = "AT_SERVER_STATIC_ROOT"
	AT_SERVER_TEMPLATE_ROOT          = "AT_SERVER_TEMPLATE_ROOT"
	AT_SERVER_TIMEOUT_IDLE           = "AT_SERVER_TIMEOUT_IDLE"
	AT_SERVER_TIMEOUT_READ           = "AT_SERVER_TIMEOUT_READ"
	AT_SERVER_TIMEOUT_READHEADER     = "AT_SERVER_TIMEOUT_READHEADER"
	AT_SERVER_TIMEOUT_WRITE          = "AT_SERVER_TIMEOUT_WRITE"
	AT_SESSION_IDLE_TIMEOUT          = "AT_SESSION_IDLE_TIMEOUT"
	AT_SESSION_OTP_TTL               = "AT_SESSION_OTP_TTL"
	AT_SESSION_VALKEY_HOST           = "AT_SESSION_VALKEY_HOST"
	AT_SESSION_VALKEY_PASSWORD       = "AT_SESSION_VALKEY_PASSWORD"
	AT_SESSION_VALKEY_PORT           = "AT_SESSION_VALKEY_PORT"
	AT_ZK_ANNOUNCE                   = "AT_ZK_ANNOUNCE"
	AT_ZK_MYIP                       = "AT_ZK_MYIP"
	AT_ZK_MYPORT                     = "AT_ZK_MYPORT"
	AT_ZK_RETRYDELAY                 = "AT_ZK_RETRYDELAY"
	AT_ZK_TIMEOUT                    = "AT_ZK_TIMEOUT"
	AT_ZK_URL                        = "AT_ZK_URL"
)

// Vars must contain every const. We should be able to use the values in this slice
// to inspect all the config in the current environment provided by env vars.
var Vars = []string{AT_AWS_ACCESS_KEY_ID,
	AT_AWS_ASG_EC2,
	AT_AWS_ASG_ENDPOINT,
	AT_AWS_ASG_NAME,
	AT_AWS_CLOUDWATCH_ENDPOINT,
	AT_AWS_CLOUDWATCH_INTERVAL,
	AT_AWS_CLOUDWATCH_NAME,
	AT_AWS_REGION,
	AT_AWS_SECRET_ACCESS_KEY,
	AT_AWS_SES_ENDPOINT,
	AT_AWS_SQS_BATCHSIZE,
	AT_AWS_SQS_ENDPOINT,
	AT_AWS_SQS_INTERVAL,
	AT_AWS_SQS_NAME,
	AT_DB_CA,
	AT_DB_CERT,
	AT_DB_CONN_PARAMS,
	AT_DB_CONNMAXLIFETIME,
	AT_DB_DEADLOCK_RETRYCOUNTER,
	AT_DB_DEADLOCK_RETRYDELAYMS,
	AT_DB_HOST,
	AT_DB_KEY,
	AT_DB_MAXIDLECONNS,
	AT_DB_MAXOPENCONNS,
	AT_DB_PASSWORD,
	AT_DB_PORT,
	AT_DB_SCHEMA,
	AT_DB_SKIP_VERIFY,
	AT_DB_USE_TLS,
	AT_DB_USERNAME,
	AT_EVENT_KAFKA_ADDRS,
	AT_EVENT_PUBLISH_FAILURE_ACTIONS,
	AT_EVENT_PUBLISH_SUCCESS_ACTIONS,
	AT_EVENT_TOPIC,
	AT_EVENT_ZK_ADDRS,
	AT_LOG_LEVEL,
	AT_LOG_LOCATION,
	AT_LOG_MODE,
	AT_MAIL_ENABLED,
	AT_MAIL_FROM,
	AT_MQTT_CLIENT,
	AT_MQTT_PASSWORD,
	AT_MQTT_TOPIC_PREFIX,
	AT_MQTT_URL,
	AT_MQTT_USERNAME,
	AT_SERVER_BASEPATH,
	AT_SERVER_BINDADDRESS,
	AT_SERVER_PORT,
	AT_SERVER_STATIC_ROOT,
	AT_SERVER_TEMPLATE_ROOT,
	AT_SERVER_TIMEOUT_IDLE,
	AT_SERVER_TIMEOUT_READ,
	AT_SERVER_TIMEOUT_READHEADER,
	AT_SERVER_TIMEOUT_WRITE,
	AT_SESSION_IDLE_TIMEOUT,
	AT_SESSION_OTP_TTL,
	AT_SESSION_VALKEY_HOST,
	AT_SESSION_VALKEY_PASSWORD,
	AT_SESSION_VALKEY_PORT,
	AT_ZK_ANNOUNCE,
	AT_ZK_MYIP,
	AT_ZK_MYPORT,
	AT_ZK_RETRYDELAY,
	AT_ZK_TIMEOUT,
	AT_ZK_URL,
}

// PrintEnvironment prints the content of all environment variables required
// by attendanced. Sensitive values are redacted
func PrintEnvironment() {
	var filtered = []string{
		AT_AWS_ACCESS_KEY_ID,
		AT_AWS_SECRET_ACCESS_KEY,
		AT_DB_PASSWORD,
		AT_MQTT_PASSWORD,
		AT_SESSION_VALKEY_PASSWORD,
	}
	redact := func(envVar, value string) string {
		for _, restricted := range filtered {
			if envVar == restricted {
				return "<redacted>"
			}
		}
		return value
	}
	fmt.Println("attendance-server environment variables. Number of vars:", len(Vars))
	for _, variable := range Vars {
		fmt.Printf("%s=%s\n", variable, redact(variable, os.Getenv(variable)))
	}
}

// GenerateStartScript creates a bash script that can be used
// as a template with all the variables exported and then running
// the attendanced binary with redirected output for logging
func GenerateStartScript() {
	tmpl, err := template.New("script").Parse(`#!/bin/bash

{{ range $i, $v := .Variables }}export {{ $v }}=
{{ end }}

# attendanced must be on your PATH
attendanced --conf /opt/services/attendance/attendanced.yml \
       --staticRoot /opt/services/attendance/static \
       --templateDir /opt/services/attendance/static/templates &>> /opt/services/attendance/log/attendanced.log 2>&1&

`)
	exitOnErr(err)
	data := struct{ Variables []string }{Variables: Vars}
	tmpl.Execute(os.Stdout, data)
}

// GenerateSourceEnvScript creates a bash script that can be used
// as a template with all the variables exported.
func GenerateSourceEnvScript() {
	tmpl, err := template.New("script").Parse(`#!/bin/bash

#
# Source this file to provide environment configuration to attendanced
#

{{ range $i, $v := .Variables }}export {{ $v }}=
{{ end }}

`)
	exitOnErr(err)
	data := struct{ Variables []string }{Variables: Vars}
	tmpl.Execute(os.Stdout, data)
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
