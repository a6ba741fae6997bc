package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samuel/go-zookeeper/zk"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/autoscale"
	"github.com/bbyours/attendance-server/config"
	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/server"
	"github.com/bbyours/attendance-server/services/alert"
	"github.com/bbyours/attendance-server/services/kafka"
	"github.com/bbyours/attendance-server/services/mail"
	"github.com/bbyours/attendance-server/services/session"
	"github.com/bbyours/attendance-server/services/zookeeper"
	"github.com/bbyours/attendance-server/util"
)

// Globals
var (
	//All loggers are derived from the global one
	logger = config.RootLogger
)

// Services that require network
const (
	DatabaseService  = "db"
	ValkeyService    = "valkey"
	ZookeeperService = "zk"
)

func main() {

	// A .env file in the working directory can seed the environment for
	// development. Absence is not an error.
	godotenv.Load()

	cliParser := cli.NewApp()
	cliParser.Name = "attendanced"
	cliParser.Usage = "attendance-server binary"
	cliParser.Version = "1.0"

	cliParser.Commands = []cli.Command{
		{
			Name:  "env",
			Usage: "Print all environment variables",
			Action: func(ctx *cli.Context) error {
				config.PrintEnvironment()
				return nil
			},
		},
		{
			Name:  "makeScript",
			Usage: "Generate a startup script template with all environment variables",
			Action: func(ctx *cli.Context) error {
				config.GenerateStartScript()
				return nil
			},
		},
		{
			Name:  "makeEnvScript",
			Usage: "Generate a sourceable environment script template",
			Action: func(ctx *cli.Context) error {
				config.GenerateSourceEnvScript()
				return nil
			},
		},
		{
			Name:   "testService",
			Usage:  "Run network diagnostic test against a service dependency. Values: db, valkey, zk",
			Action: runServiceTest,
		},
	}

	cliParser.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "conf",
			Usage: "Path to yaml configuration file.",
			Value: "",
		},
		cli.StringFlag{
			Name:  "staticRoot",
			Usage: "Path to static web assets. Empty serves no static files.",
			Value: "",
		},
		cli.StringFlag{
			Name:  "templateDir",
			Usage: "Path to Go templates. Empty disables the form UI.",
			Value: "",
		},
	}

	cliParser.Action = func(c *cli.Context) error {
		opts := config.NewCommandLineOpts(c)
		conf := config.NewAppConfiguration(opts)
		startApplication(conf)
		return nil
	}

	cliParser.Run(os.Args)
}

func runServiceTest(ctx *cli.Context) error {
	// Diagnostics read configuration from the environment only.
	conf := config.NewAppConfiguration(config.CommandLineOpts{})
	service := ctx.Args().First()
	switch service {
	case DatabaseService:
		d, dbID, err := dao.NewDataAccessLayer(conf.DatabaseConnection, dao.WithLogger(logger))
		if err != nil {
			fmt.Println("Cannot reach the database:", err)
			os.Exit(1)
		}
		d.MetadataDB.Close()
		fmt.Println("Database reachable. Identifier:", dbID)
	case ValkeyService:
		sc := conf.SessionSettings
		if sc.ValkeyHost == "" {
			fmt.Println("AT_SESSION_VALKEY_HOST is not set. Sessions would be held in process memory.")
			os.Exit(1)
		}
		store, err := session.NewValkeyStore(sc.ValkeyHost+":"+sc.ValkeyPort, sc.ValkeyPassword, sc.IdleTimeout, sc.OTPTTL, logger)
		if err != nil {
			fmt.Println("Cannot reach valkey:", err)
			os.Exit(1)
		}
		probe := session.Session{Token: "probe-" + config.NodeID, LoginTime: time.Now(), LastActive: time.Now()}
		if err := store.Put(context.Background(), probe); err != nil {
			fmt.Println("Valkey reachable but writes fail:", err)
			os.Exit(1)
		}
		store.Delete(context.Background(), probe.Token)
		store.Close()
		fmt.Println("Valkey reachable. Sessions would survive restarts.")
	case ZookeeperService:
		if conf.ZK.Address == "" {
			fmt.Println("AT_ZK_URL is not set. Announcement would be skipped.")
			os.Exit(1)
		}
		zkState, err := zookeeper.RegisterApplication(conf.ZK.Basepath, conf.ZK.Address, conf.ZK.Timeout)
		if err != nil {
			fmt.Println("Cannot reach zookeeper:", err)
			os.Exit(1)
		}
		zkState.Conn.Close()
		fmt.Println("Zookeeper reachable at", conf.ZK.Address)
	default:
		fmt.Println("Unknown service. Values: db, valkey, zk")
	}
	return nil
}

func startApplication(conf config.AppConfiguration) {

	app, err := server.NewAppServer(conf.ServerSettings)
	if err != nil {
		logger.Fatal("error constructing app server", zap.Error(err))
	}

	dbID := configureDAO(app, conf.DatabaseConnection)

	//Once we know which cluster we are attached to, note it in the logs
	logger.Info(
		"join cluster",
		zap.String("database", dbID),
		zap.String("node", config.NodeID),
	)

	configureSessionStore(app, conf.SessionSettings)
	app.Mailer = mail.NewMailer(conf.MailSettings, logger)
	app.Alerter = alert.NewAlerter(context.Background(), conf.AlertSettings, logger)
	configureEventQueue(app, conf.EventQueue)

	registerWithZookeeper(app, conf.ZK)

	autoscale.CloudWatchReportingStart(app.Tracker)
	autoscale.WatchForShutdown(app.DefaultZK, app.Tracker, logger)

	httpServer := &http.Server{
		Addr:              app.Addr,
		Handler:           app,
		IdleTimeout:       time.Duration(conf.ServerSettings.IdleTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(conf.ServerSettings.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(conf.ServerSettings.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(conf.ServerSettings.WriteTimeout) * time.Second,
		MaxHeaderBytes:    1 << 20, //This prevents clients from DOS'ing us
	}

	logger.Info("starting server", zap.String("addr", app.Addr), zap.String("basepath", conf.ServerSettings.BasePath))
	//This blocks until there is an error to stop the server
	err = httpServer.ListenAndServe()
	if err != nil {
		logger.Fatal("stopped server", zap.Error(err))
	}
}

func configureDAO(app *server.AppServer, conf config.DatabaseConfiguration) string {
	d, dbID, err := dao.NewDataAccessLayer(conf, dao.WithLogger(logger))
	if err != nil {
		util.NewLoggable("Error configuring DAO. Check environment variable settings for AT_DB_*", err,
			zap.String("host", conf.Host), zap.String("schema", conf.Schema)).ToFatal(logger)
	}
	app.RootDAO = d
	return dbID
}

// configureSessionStore picks valkey when configured so that sessions and
// pending passcodes survive a restart. Otherwise they live in process memory
// and a restart signs everyone out.
func configureSessionStore(app *server.AppServer, conf config.SessionConfiguration) {
	if conf.ValkeyHost != "" {
		store, err := session.NewValkeyStore(conf.ValkeyHost+":"+conf.ValkeyPort, conf.ValkeyPassword, conf.IdleTimeout, conf.OTPTTL, logger)
		if err == nil {
			logger.Info("sessions held in valkey", zap.String("host", conf.ValkeyHost))
			app.SessionStore = store
			return
		}
		logger.Warn("valkey unreachable, sessions held in process memory", zap.Error(err))
	}
	app.SessionStore = session.NewCacheStore(conf.IdleTimeout, conf.OTPTTL)
}

func configureEventQueue(app *server.AppServer, conf config.EventQueueConfiguration) {

	opts := []kafka.Opt{
		kafka.WithLogger(logger),
		kafka.WithTopic(conf.Topic),
		kafka.WithPublishActions(conf.PublishSuccessActions, conf.PublishFailureActions),
	}

	switch {
	case len(conf.ZKAddrs) > 0:
		logger.Info("kafka discovery through zookeeper", zap.Strings("addrs", conf.ZKAddrs))
		conn, _, err := zk.Connect(conf.ZKAddrs, 5*time.Second)
		if err != nil {
			logger.Fatal("err from zk.Connect", zap.Error(err))
		}
		setter := func(p *kafka.AsyncProducer) {
			logger.Info("kafka cluster changed, reconnected")
			app.EventQueue = p
		}
		ap, err := kafka.DiscoverKafka(conn, "/brokers/ids", setter, opts...)
		if err != nil {
			logger.Fatal("cannot discover kafka brokers", zap.Error(err))
		}
		app.EventQueueZK = &zookeeper.ZKState{
			ZKAddress: strings.Join(conf.ZKAddrs, ","),
			Conn:      conn,
			Protocols: "/brokers/ids",
		}
		app.EventQueue = ap
	case len(conf.KafkaAddrs) > 0:
		logger.Info("kafka connection direct", zap.Strings("addrs", conf.KafkaAddrs))
		ap, err := kafka.NewAsyncProducer(conf.KafkaAddrs, opts...)
		if err != nil {
			logger.Fatal("cannot connect to kafka brokers", zap.Error(err))
		}
		app.EventQueue = ap
	default:
		logger.Info("event queue disabled, events are discarded")
		app.EventQueue = kafka.NewFakeAsyncProducer(logger)
	}
}

// recovery when zk is completely lost is automatic once we have successfully
// connected on startup. every connected party remembers which ephemeral nodes
// it is maintaining, so the zk could not only disappear, but reappear *empty*
// and everything recovers. however, it insists on being able to connect to zk
// when we startup to register, so, just stall until we can talk to a zk.
func registerWithZookeeper(app *server.AppServer, conf config.ZKSettings) {
	if conf.Address == "" {
		logger.Info("zookeeper registration skipped")
		return
	}
	err := registerWithZookeeperTry(app, conf)
	for err != nil {
		logger.Warn("zk cant register", zap.Int64("retry time in seconds", conf.RetryDelay), zap.Error(err))
		time.Sleep(time.Duration(conf.RetryDelay) * time.Second)
		err = registerWithZookeeperTry(app, conf)
	}
	//Keep the full membership for our mount point in the logs
	zookeeper.TrackAnnouncement(app.DefaultZK, app.DefaultZK.Protocols+"/http", nil)
}

func registerWithZookeeperTry(app *server.AppServer, conf config.ZKSettings) error {
	zkState, err := zookeeper.RegisterApplication(conf.Basepath, conf.Address, conf.Timeout)
	if err != nil {
		return err
	}
	err = zookeeper.ServiceAnnouncement(zkState, "http", "ALIVE", conf.IP, conf.Port)
	if err != nil {
		return err
	}
	app.DefaultZK = zkState
	return nil
}
