package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/util"
)

var (
	defaultDBDriver = "mysql"
	defaultDBHost   = "attendancedb"
	defaultDBPort   = "3306"
)

var empty []string

// AppConfiguration is a structure that defines the known configuration format
// for this application.
type AppConfiguration struct {
	DatabaseConnection DatabaseConfiguration       `yaml:"database"`
	ServerSettings     ServerSettingsConfiguration `yaml:"server"`
	SessionSettings    SessionConfiguration        `yaml:"session"`
	MailSettings       MailConfiguration           `yaml:"mail"`
	AlertSettings      AlertConfiguration          `yaml:"alert"`
	ZK                 ZKSettings                  `yaml:"zk"`
	EventQueue         EventQueueConfiguration     `yaml:"event_queue"`
}

// CommandLineOpts holds command line options parsed on application start. This
// object is passed to many higher level constructors, so that command line params
// can override certain configurations.
type CommandLineOpts struct {
	// StaticRootPath is a path to the static web assets directory.
	StaticRootPath string
	// TemplateDir is the path to Go templates directory.
	TemplateDir string
	// Conf is a path to our YAML configuration file.
	Conf string
}

// DatabaseConfiguration is a structure that defines the attributes
// needed for setting up database connection
type DatabaseConfiguration struct {
	// Driver specifies the database driver. Only "mysql" is supported.
	Driver string `yaml:"driver"`
	// Username is the database username.
	Username string `yaml:"username"`
	// Password is the database password. If the configuration is intended
	// to execute DDL, a user with write permissions is required.
	Password string `yaml:"password"`
	// Protocol specifies the network protocol. Only "tcp" is supported.
	Protocol string `yaml:"protocol"`
	// Host is the database hostname.
	Host string `yaml:"host"`
	// Port is the database port. Commonly 3306 for MySQL.
	Port string `yaml:"port"`
	// Schema is the database name to connect to. A single server can host
	// many logical schemas. The attendance default is "attendancedb".
	Schema string `yaml:"schema"`
	// Params are custom connection params injected into the DSN. These
	// will vary depending on your server's configuration.
	Params string `yaml:"conn_params"`
	// UseTLS determines whether you should connect to the database with TLS.
	UseTLS bool `yaml:"use_tls"`
	// SkipVerify controls whether the hostname of an SSL peer is verified.
	SkipVerify bool `yaml:"insecure_skip_verify"`
	// CAPath is the path to a PEM encoded certificate. For connecting to
	// some test databases this might be the only SSL asset required, if
	// 2-way SSL is not enforced.
	CAPath string `yaml:"trust"`
	// ClientCert is the path to our PEM encoded client certificate.
	ClientCert string `yaml:"cert"`
	// ClientKey is the path to our PEM encoded client key.
	ClientKey string `yaml:"key"`
	// DeadlockRetryCounter is the number of times to retry statements in a
	// transaction that are failing due to a deadlock
	DeadlockRetryCounter int64 `yaml:"deadlock_retrycounter"`
	// DeadlockRetryDelay is the time to wait in milliseconds before retrying
	// a statement in a transaction that is failing due to a deadlock
	DeadlockRetryDelay int64 `yaml:"deadlock_retrydelay"`
}

// EventQueueConfiguration configures publishing to the Kafka event queue.
type EventQueueConfiguration struct {
	// KafkaAddrs is a list of host:port pairs of Kafka brokers. If provided,
	// a direct connection to the brokers is established.
	KafkaAddrs []string `yaml:"kafka_addrs"`
	// ZKAddrs is a list of host:port pairs of ZK nodes. A common
	// architecture is to have a ZK cluster entirely dedicated to Kafka. This
	// config option handles that scenario.
	ZKAddrs []string `yaml:"zk_addrs"`
	// PublishSuccessActions, if provided, specifies the types of success actions
	// to publish to Kafka. If empty, all success actions are published.
	PublishSuccessActions []string `yaml:"publish_success_actions"`
	// PublishFailureActions, if provided, specifies the types of failure actions
	// to publish to Kafka. If empty, all failure actions are published.
	PublishFailureActions []string `yaml:"publish_failure_actions"`
	// Topic denotes the name of the topic to publish events to in Kafka.
	Topic string `yaml:"topic"`
}

// ServerSettingsConfiguration holds the attributes needed for
// setting up an AppServer listener.
type ServerSettingsConfiguration struct {
	// BasePath is the root URL for the API and the form UI.
	BasePath string `yaml:"base_path"`
	// ListenPort is the port the server listens on. Default is 8080.
	ListenPort string `yaml:"port"`
	// ListenBind is the address to bind to. Default is 0.0.0.0
	ListenBind string `yaml:"bind"`
	// IdleTimeout is the http server idle timeout in seconds.
	IdleTimeout int64 `yaml:"timeout_idle"`
	// ReadHeaderTimeout is the http server read header timeout in seconds.
	ReadHeaderTimeout int64 `yaml:"timeout_readheader"`
	// ReadTimeout is the http server read timeout in seconds.
	ReadTimeout int64 `yaml:"timeout_read"`
	// WriteTimeout is the http server write timeout in seconds.
	WriteTimeout int64 `yaml:"timeout_write"`
	// PathToStaticFiles is a location on disk where static assets are stored.
	PathToStaticFiles string `yaml:"static_root"`
	// PathToTemplateFiles is a location on disk where Go templates are stored.
	PathToTemplateFiles string `yaml:"template_root"`
}

// SessionConfiguration holds settings for the session and OTP store.
type SessionConfiguration struct {
	// IdleTimeout is the number of seconds a session may remain idle before
	// it expires. Every authenticated request extends the session by this long.
	IdleTimeout int64 `yaml:"idle_timeout"`
	// OTPTTL is the number of seconds a one time passcode remains redeemable.
	OTPTTL int64 `yaml:"otp_ttl"`
	// ValkeyHost is the hostname of a valkey server holding sessions. If
	// empty, sessions are held in process memory and do not survive restart.
	ValkeyHost string `yaml:"valkey_host"`
	// ValkeyPort is the port of the valkey server. Commonly 6379.
	ValkeyPort string `yaml:"valkey_port"`
	// ValkeyPassword is the valkey AUTH password, if required.
	ValkeyPassword string `yaml:"valkey_password"`
}

// MailConfiguration holds settings for outbound OTP mail.
type MailConfiguration struct {
	// Enabled selects the SES mailer. When false, outbound mail is written
	// to the application log instead.
	Enabled bool `yaml:"enabled"`
	// From is the verified sender address.
	From string `yaml:"from"`
}

// AlertConfiguration holds settings for publishing operational alerts over MQTT.
type AlertConfiguration struct {
	// MQTTUrl is the broker endpoint, e.g. mqtt://broker:1883. If empty,
	// alerting is disabled.
	MQTTUrl string `yaml:"mqtt_url"`
	// Username is the broker username, if required.
	Username string `yaml:"username"`
	// Password is the broker password, if required.
	Password string `yaml:"password"`
	// ClientID identifies us to the broker.
	ClientID string `yaml:"client_id"`
	// TopicPrefix is prepended to the alert topics we publish to.
	TopicPrefix string `yaml:"topic_prefix"`
}

// ZKSettings holds the data required to communicate with default Zookeeper.
type ZKSettings struct {
	// The IP address of our server, as reported to Zookeeper. If configured,
	// we override the value detected as the server's IP address on startup.
	IP string `yaml:"ip"`
	// The Port of our server, announced to Zookeeper.
	Port string `yaml:"port"`
	// Address is the address of the Zookeeper cluster we attempt to connect
	// to. If empty, announcement is skipped.
	Address string `yaml:"address"`
	// Basepath is a Zookeeper path. We register ourselves as an ephemeral
	// node under this path.
	Basepath string `yaml:"register_as"`
	// Timeout configures a timeout for the Zookeeper driver in seconds.
	Timeout int64 `yaml:"timeout"`
	// RetryDelay is the delay in seconds before re-announcing after a lost
	// Zookeeper session.
	RetryDelay int64 `yaml:"retry_delay"`
}

// NewAppConfiguration loads the configuration from the different sources in the environment.
// If multiple configuration sources can be used, the order of precedence is: env var overrides
// config file.
func NewAppConfiguration(opts CommandLineOpts) AppConfiguration {

	var confFile AppConfiguration
	if opts.Conf != "" {
		var err error
		confFile, err = LoadYAMLConfig(opts.Conf)
		if err != nil {
			fmt.Printf("Error loading yaml configuration at path %s: %v\n", opts.Conf, err)
			os.Exit(1)
		}
	}

	dbConf := NewDatabaseConfigFromEnv(confFile, opts)
	serverSettings := NewServerSettingsFromEnv(confFile, opts)
	sessionSettings := NewSessionConfigFromEnv(confFile, opts)
	mailSettings := NewMailConfigFromEnv(confFile, opts)
	alertSettings := NewAlertConfigFromEnv(confFile, opts)
	zkSettings := NewZKSettingsFromEnv(confFile, opts)
	if zkSettings.Port == "" {
		zkSettings.Port = serverSettings.ListenPort
	}
	eventQueue := NewEventQueueConfiguration(confFile, opts)

	return AppConfiguration{
		AlertSettings:      alertSettings,
		DatabaseConnection: dbConf,
		EventQueue:         eventQueue,
		MailSettings:       mailSettings,
		ServerSettings:     serverSettings,
		SessionSettings:    sessionSettings,
		ZK:                 zkSettings,
	}
}

// NewCommandLineOpts instantiates CommandLineOpts from a pointer to the parsed command line
// context. The actual parsing is handled by the cli framework.
func NewCommandLineOpts(clictx *cli.Context) CommandLineOpts {

	// Config file YAML is parsed elsewhere. This is just the path.
	confPath := clictx.String("conf")
	if len(confPath) > 0 {
		if ok, err := util.PathExists(confPath); !ok {
			fmt.Printf("Configuration file %s does not exist: %v\n", confPath, err)
			os.Exit(1)
		}
	}

	// Static Files Directory (Optional. Has a default, but can be set to empty for no static files)
	staticRootPath := clictx.String("staticRoot")
	if len(staticRootPath) > 0 {
		if ok, err := util.PathExists(staticRootPath); !ok {
			fmt.Printf("Static Root Path %s does not exist: %v\n", staticRootPath, err)
			os.Exit(1)
		}
	}

	// Template Directory (Optional. Has a default, but can be set to empty for no templates)
	templateDir := clictx.String("templateDir")
	if len(templateDir) > 0 {
		if ok, err := util.PathExists(templateDir); !ok {
			fmt.Printf("Template folder %s does not exist: %v\n", templateDir, err)
			os.Exit(1)
		}
	}

	return CommandLineOpts{
		Conf:           confPath,
		StaticRootPath: staticRootPath,
		TemplateDir:    templateDir,
	}
}

// NewDatabaseConfigFromEnv inspects the environment and returns a DatabaseConfiguration.
func NewDatabaseConfigFromEnv(confFile AppConfiguration, opts CommandLineOpts) DatabaseConfiguration {

	var dbConf DatabaseConfiguration

	// From environment
	dbConf.Username = cascade(AT_DB_USERNAME, confFile.DatabaseConnection.Username, "")
	dbConf.Password = cascade(AT_DB_PASSWORD, confFile.DatabaseConnection.Password, "")
	dbConf.Host = cascade(AT_DB_HOST, confFile.DatabaseConnection.Host, "")
	dbConf.Port = cascade(AT_DB_PORT, confFile.DatabaseConnection.Port, "3306")
	dbConf.Schema = cascade(AT_DB_SCHEMA, confFile.DatabaseConnection.Schema, "attendancedb")
	dbConf.CAPath = cascade(AT_DB_CA, confFile.DatabaseConnection.CAPath, "")
	dbConf.ClientCert = cascade(AT_DB_CERT, confFile.DatabaseConnection.ClientCert, "")
	dbConf.ClientKey = cascade(AT_DB_KEY, confFile.DatabaseConnection.ClientKey, "")
	dbConf.Params = cascade(AT_DB_CONN_PARAMS, confFile.DatabaseConnection.Params, "parseTime=true&collation=utf8_unicode_ci&readTimeout=30s")
	dbConf.UseTLS = CascadeBoolFromString(AT_DB_USE_TLS, boolString(confFile.DatabaseConnection.UseTLS), false)
	dbConf.SkipVerify = CascadeBoolFromString(AT_DB_SKIP_VERIFY, boolString(confFile.DatabaseConnection.SkipVerify), false)

	// Defaults
	dbConf.Protocol = "tcp"
	dbConf.Driver = defaultDBDriver

	// Parameters necessary to handle deadlock situations
	dbConf.DeadlockRetryCounter = cascadeInt(AT_DB_DEADLOCK_RETRYCOUNTER, confFile.DatabaseConnection.DeadlockRetryCounter, 30)
	dbConf.DeadlockRetryDelay = cascadeInt(AT_DB_DEADLOCK_RETRYDELAYMS, confFile.DatabaseConnection.DeadlockRetryDelay, 55)

	return dbConf
}

// NewEventQueueConfiguration reads the environment to provide the configuration for the Kafka event queue.
func NewEventQueueConfiguration(confFile AppConfiguration, opts CommandLineOpts) EventQueueConfiguration {
	var eqc EventQueueConfiguration
	eqc.KafkaAddrs = CascadeStringSlice(AT_EVENT_KAFKA_ADDRS, confFile.EventQueue.KafkaAddrs, empty)
	eqc.ZKAddrs = CascadeStringSlice(AT_EVENT_ZK_ADDRS, confFile.EventQueue.ZKAddrs, empty)
	eqc.PublishSuccessActions = CascadeStringSlice(AT_EVENT_PUBLISH_SUCCESS_ACTIONS, confFile.EventQueue.PublishSuccessActions, []string{"*"})
	eqc.PublishFailureActions = CascadeStringSlice(AT_EVENT_PUBLISH_FAILURE_ACTIONS, confFile.EventQueue.PublishFailureActions, []string{"*"})
	eqc.Topic = cascade(AT_EVENT_TOPIC, confFile.EventQueue.Topic, "attendance-event")
	return eqc
}

// NewServerSettingsFromEnv inspects the environment and returns a ServerSettingsConfiguration.
func NewServerSettingsFromEnv(confFile AppConfiguration, opts CommandLineOpts) ServerSettingsConfiguration {

	var settings ServerSettingsConfiguration

	// From env
	settings.BasePath = cascade(AT_SERVER_BASEPATH, confFile.ServerSettings.BasePath, "/attendance")
	settings.ListenPort = cascade(AT_SERVER_PORT, confFile.ServerSettings.ListenPort, "8080")
	settings.ListenBind = cascade(AT_SERVER_BINDADDRESS, confFile.ServerSettings.ListenBind, "0.0.0.0")
	settings.IdleTimeout = cascadeInt(AT_SERVER_TIMEOUT_IDLE, confFile.ServerSettings.IdleTimeout, 60)
	settings.ReadHeaderTimeout = cascadeInt(AT_SERVER_TIMEOUT_READHEADER, confFile.ServerSettings.ReadHeaderTimeout, 5)
	settings.ReadTimeout = cascadeInt(AT_SERVER_TIMEOUT_READ, confFile.ServerSettings.ReadTimeout, 30)
	settings.WriteTimeout = cascadeInt(AT_SERVER_TIMEOUT_WRITE, confFile.ServerSettings.WriteTimeout, 30)
	settings.PathToStaticFiles = cascade(AT_SERVER_STATIC_ROOT, confFile.ServerSettings.PathToStaticFiles, opts.StaticRootPath)
	settings.PathToTemplateFiles = cascade(AT_SERVER_TEMPLATE_ROOT, confFile.ServerSettings.PathToTemplateFiles, opts.TemplateDir)

	return settings
}

// NewSessionConfigFromEnv inspects the environment and returns a SessionConfiguration.
func NewSessionConfigFromEnv(confFile AppConfiguration, opts CommandLineOpts) SessionConfiguration {

	var conf SessionConfiguration
	conf.IdleTimeout = cascadeInt(AT_SESSION_IDLE_TIMEOUT, confFile.SessionSettings.IdleTimeout, 600)
	conf.OTPTTL = cascadeInt(AT_SESSION_OTP_TTL, confFile.SessionSettings.OTPTTL, 600)
	conf.ValkeyHost = cascade(AT_SESSION_VALKEY_HOST, confFile.SessionSettings.ValkeyHost, "")
	conf.ValkeyPort = cascade(AT_SESSION_VALKEY_PORT, confFile.SessionSettings.ValkeyPort, "6379")
	conf.ValkeyPassword = cascade(AT_SESSION_VALKEY_PASSWORD, confFile.SessionSettings.ValkeyPassword, "")

	return conf
}

// NewMailConfigFromEnv inspects the environment and returns a MailConfiguration.
func NewMailConfigFromEnv(confFile AppConfiguration, opts CommandLineOpts) MailConfiguration {

	var conf MailConfiguration
	conf.Enabled = CascadeBoolFromString(AT_MAIL_ENABLED, boolString(confFile.MailSettings.Enabled), false)
	conf.From = cascade(AT_MAIL_FROM, confFile.MailSettings.From, "noreply@attendance.local")

	return conf
}

// NewAlertConfigFromEnv inspects the environment and returns an AlertConfiguration.
func NewAlertConfigFromEnv(confFile AppConfiguration, opts CommandLineOpts) AlertConfiguration {

	var conf AlertConfiguration
	conf.MQTTUrl = cascade(AT_MQTT_URL, confFile.AlertSettings.MQTTUrl, "")
	conf.Username = cascade(AT_MQTT_USERNAME, confFile.AlertSettings.Username, "")
	conf.Password = cascade(AT_MQTT_PASSWORD, confFile.AlertSettings.Password, "")
	conf.ClientID = cascade(AT_MQTT_CLIENT, confFile.AlertSettings.ClientID, "attendanced")
	conf.TopicPrefix = cascade(AT_MQTT_TOPIC_PREFIX, confFile.AlertSettings.TopicPrefix, "attendance/alerts")

	return conf
}

// NewZKSettingsFromEnv inspects the environment and returns a ZKSettings.
func NewZKSettingsFromEnv(confFile AppConfiguration, opts CommandLineOpts) ZKSettings {

	var conf ZKSettings
	conf.Address = cascade(AT_ZK_URL, confFile.ZK.Address, "")
	conf.Basepath = cascade(AT_ZK_ANNOUNCE, confFile.ZK.Basepath, "/bbyours/service/attendanced/1.0")
	if conf.Address != "" {
		conf.IP = cascade(AT_ZK_MYIP, confFile.ZK.IP, util.GetIP(RootLogger))
	} else {
		conf.IP = cascade(AT_ZK_MYIP, confFile.ZK.IP, "")
	}
	conf.Port = cascade(AT_ZK_MYPORT, confFile.ZK.Port, "")
	conf.Timeout = cascadeInt(AT_ZK_TIMEOUT, confFile.ZK.Timeout, 5)
	conf.RetryDelay = cascadeInt(AT_ZK_RETRYDELAY, confFile.ZK.RetryDelay, 30)

	return conf
}

// GetDatabaseHandle initializes database connection using the configuration
func (r *DatabaseConfiguration) GetDatabaseHandle() (*sqlx.DB, error) {
	// Establish configuration settings for Database Connection using
	// the TLS settings in config file
	if r.UseTLS {
		dbTLS := r.buildTLSConfig()
		switch r.Driver {
		case defaultDBDriver:
			mysql.RegisterTLSConfig("custom", &dbTLS)
		default:
			panic("Driver not supported")
		}
	}
	// Setup handle to the database
	db, err := sqlx.Open(r.Driver, r.buildDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(int(getEnvOrDefaultInt(AT_DB_MAXIDLECONNS, 10)))
	db.SetMaxOpenConns(int(getEnvOrDefaultInt(AT_DB_MAXOPENCONNS, 10)))
	db.SetConnMaxLifetime(time.Duration(getEnvOrDefaultInt(AT_DB_CONNMAXLIFETIME, 30)) * time.Second)
	return db, nil
}

// buildDSN prepares a Data Source Name (DSN) suitable for mysql using the
// driver and documentation found here: https://github.com/go-sql-driver/mysql.
func (r *DatabaseConfiguration) buildDSN() string {
	var dbDSN = ""
	if len(r.Username) > 0 {
		dbDSN += r.Username
		if len(r.Password) > 0 {
			dbDSN += ":" + r.Password
		}
	}
	if len(dbDSN) > 0 {
		dbDSN += "@"
	}
	if len(r.Protocol) > 0 {
		dbDSN += r.Protocol + "("
		if len(r.Host) > 0 {
			dbDSN += r.Host
		} else {
			// default to localhost
			dbDSN += defaultDBHost
		}
		dbDSN += ":"
		if len(r.Port) > 0 {
			dbDSN += r.Port
		} else {
			// default port by database type
			switch r.Driver {
			case defaultDBDriver:
				dbDSN += defaultDBPort
			default:
				panic("Driver not supported")
			}
		}
		dbDSN += ")"
	}
	dbDSN += "/"
	if len(r.Schema) > 0 {
		dbDSN += r.Schema
	}
	if (len(r.Params) > 0) || (r.UseTLS) {
		dbDSN += "?"
		if r.UseTLS {
			dbDSN += "tls=custom"
			if len(r.Params) > 0 {
				dbDSN += "&"
			}
		}
		if len(r.Params) > 0 {
			dbDSN += r.Params
		}
	}
	logDSN := dbDSN
	if len(r.Password) > 0 {
		logDSN = strings.Replace(logDSN, r.Password, "{password}", -1)
	}
	if len(r.Username) > 0 {
		logDSN = strings.Replace(logDSN, r.Username, "{username}", -1)
	}
	logger.Info("Using this connection string", zap.String("dbdsn", logDSN))
	return dbDSN
}

// buildTLSConfig prepares a standard go tls.Config with RootCAs and client
// Certificates for communicating with the database securely.
func (r *DatabaseConfiguration) buildTLSConfig() tls.Config {

	// Root Certificate pool
	// The set of root certificate authorities that this client will use when
	// verifying the server certificate indicated as the identity of the
	// server this config will be used to connect to.
	rootCAsCertPool := buildCertPoolFromPath(r.CAPath, "for db client")

	// Client public and private certificate
	if len(r.ClientCert) == 0 || len(r.ClientKey) == 0 {
		return tls.Config{
			RootCAs:            rootCAsCertPool,
			ServerName:         r.Host,
			InsecureSkipVerify: r.SkipVerify,
		}
	}
	clientCert := buildx509Identity(r.ClientCert, r.ClientKey)

	return tls.Config{
		RootCAs:            rootCAsCertPool,
		Certificates:       clientCert,
		ServerName:         r.Host,
		InsecureSkipVerify: r.SkipVerify,
	}
}

func cascade(fromEnv, fromFile, defaultVal string) string {
	if envVal := os.Getenv(fromEnv); envVal != "" {
		return envVal
	}
	if fromFile != "" {
		return fromFile
	}
	return defaultVal
}

func cascadeInt(fromEnv string, fromFile, defaultVal int64) int64 {
	if parsed, err := strconv.ParseInt(os.Getenv(fromEnv), 10, 64); err == nil {
		return parsed
	}
	if fromFile != 0 {
		return fromFile
	}
	return defaultVal
}

// CascadeBoolFromString will select a boolean from an env var, the config
// file value rendered as a string, or a default.
func CascadeBoolFromString(fromEnv string, fromFile string, defaultVal bool) bool {
	if parsed, err := strconv.ParseBool(os.Getenv(fromEnv)); err == nil {
		return parsed
	}
	if parsed, err := strconv.ParseBool(fromFile); err == nil {
		return parsed
	}
	return defaultVal
}

// CascadeStringSlice will select a configuration slice from a splitted env var,
// the config file, or a default slice.
func CascadeStringSlice(fromEnv string, fromFile, defaultVal []string) []string {

	if splitted := strings.Split(os.Getenv(fromEnv), ","); len(splitted) > 0 {
		if splitted[0] != "" {
			return splitted
		}
	}
	if len(fromFile) > 0 {
		if fromFile[0] != "" {
			return fromFile
		}
	}
	return defaultVal
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return ""
}

func getEnvOrDefault(name, defaultValue string) string {
	envVal := os.Getenv(name)
	if len(envVal) == 0 {
		return defaultValue
	}
	return envVal
}

func getEnvOrDefaultInt(envVar string, defaultVal int64) int64 {
	if parsed, err := strconv.ParseInt(os.Getenv(envVar), 10, 64); err == nil {
		return parsed
	}
	return defaultVal
}

// AWSConfig holds data suitable for creating AWS service session objects.
// Different regions and datacenters can be accessed by specifying non-default
// values for Endpoint and Region. Values for this struct may be provided
// by environment variables, IAM roles, or AWS credentials files.
type AWSConfig struct {
	// Endpoint represents the AWS datacenter that provides a service.
	Endpoint string
	// Region specifies the AWS region, e.g. "us-east-1"
	Region string
	// AccessKeyID is the AWS identity.
	AccessKeyID string
	// SecretAccessKey is the AWS secret key.
	SecretAccessKey string
}

// NewAWSConfig is default values for AWS config
func NewAWSConfig(endpoint string) *AWSConfig {
	ret := &AWSConfig{}
	// Per service
	ret.Endpoint = os.Getenv(endpoint)
	// Same for all
	ret.Region = getEnvOrDefault(AT_AWS_REGION, getEnvOrDefault("AWS_REGION", "us-east-1"))
	ret.AccessKeyID = getEnvOrDefault(AT_AWS_ACCESS_KEY_ID, getEnvOrDefault("AWS_ACCESS_KEY_ID", ""))
	ret.SecretAccessKey = getEnvOrDefault(AT_AWS_SECRET_ACCESS_KEY, getEnvOrDefault("AWS_SECRET_ACCESS_KEY", ""))
	return ret
}

// CWConfig settings for sending process metrics up to CloudWatch.
type CWConfig struct {
	AWSConfig *AWSConfig
	// Name is the CloudWatch namespace to report into. Empty disables the
	// CloudWatch session and metrics are only kept for the stats page.
	Name string
	// SleepTimeInSeconds is the reporting interval.
	SleepTimeInSeconds int
}

// NewCWConfig is the cw session
func NewCWConfig() *CWConfig {
	ret := &CWConfig{}
	ret.AWSConfig = NewAWSConfig(AT_AWS_CLOUDWATCH_ENDPOINT)
	ret.SleepTimeInSeconds = int(getEnvOrDefaultInt(AT_AWS_CLOUDWATCH_INTERVAL, 300))
	ret.Name = getEnvOrDefault(AT_AWS_CLOUDWATCH_NAME, "")
	return ret
}

// AutoScalingConfig settings for the SQS lifecycle queue that tells us when
// our instance is being scaled in.
type AutoScalingConfig struct {
	AWSConfigSQS *AWSConfig
	AWSConfigASG *AWSConfig
	// AutoScalingGroupName is the group this instance belongs to.
	AutoScalingGroupName string
	// QueueName is the SQS queue carrying lifecycle messages. Empty disables
	// queue watching.
	QueueName string
	// EC2InstanceID identifies this instance in lifecycle messages.
	// This is required to terminate our own instance.
	EC2InstanceID string
	// PollingInterval is the interval, in seconds, for polling the queue.
	PollingInterval int64
	// QueueBatchSize denotes the number of messages to retrieve from SQS per
	// each fetch to determine if message is intended to be processed by this
	// instance
	QueueBatchSize int64
}

// NewAutoScalingConfig is the sqs session
func NewAutoScalingConfig() *AutoScalingConfig {
	ret := &AutoScalingConfig{}
	ret.AWSConfigSQS = NewAWSConfig(AT_AWS_SQS_ENDPOINT)
	ret.AWSConfigASG = NewAWSConfig(AT_AWS_ASG_ENDPOINT)
	ret.EC2InstanceID = getEnvOrDefault(AT_AWS_ASG_EC2, "")
	ret.AutoScalingGroupName = getEnvOrDefault(AT_AWS_ASG_NAME, "")
	ret.QueueName = getEnvOrDefault(AT_AWS_SQS_NAME, "")
	ret.PollingInterval = getEnvOrDefaultInt(AT_AWS_SQS_INTERVAL, 60)
	if ret.PollingInterval < 5 {
		ret.PollingInterval = 5
	}
	ret.QueueBatchSize = getEnvOrDefaultInt(AT_AWS_SQS_BATCHSIZE, 10)
	if ret.QueueBatchSize > 10 {
		ret.QueueBatchSize = 10
	}
	if ret.QueueBatchSize < 1 {
		ret.QueueBatchSize = 1
	}
	return ret
}
