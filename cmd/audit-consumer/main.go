package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Shopify/sarama"
	"github.com/samuel/go-zookeeper/zk"
	"github.com/tidwall/gjson"

	"github.com/bbyours/attendance-server/services/kafka"
	"github.com/bbyours/attendance-server/util"
)

var (
	conf    = flag.String("conf", "", "path to optional json config; flags override file values")
	brokers = flag.String("brokers", util.GetEnvWithDefault("AT_EVENT_KAFKA_ADDRS", ""),
		"comma separated kafka brokers, e.g. k1:9092,k2:9092; defaults to AT_EVENT_KAFKA_ADDRS")
	zkAddrs = flag.String("zk", util.GetEnvWithDefault("AT_ZK_URL", ""),
		"comma separated zookeeper addresses for broker discovery; defaults to AT_ZK_URL")
	topic   = flag.String("topic", kafka.DefaultTopic, "kafka topic carrying audit events")
	offset  = flag.String("offset", "newest", "starting offset, newest or oldest")
)

func main() {
	flag.Parse()
	config, err := NewAuditConsumerConfig(*conf)
	if err != nil {
		log.Fatal(err)
	}
	config = applyFlags(config)

	ac := NewAuditConsumer(config)
	err = ac.Start()
	if err != nil {
		log.Fatalf("could not start application: %v", err)
	}

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	<-sigchan
	fmt.Println("Shutting down.")
	ac.Stop()
	fmt.Println("Exited cleanly.")
}

// AuditConsumerConfig holds data required to drain the audit topic.
type AuditConsumerConfig struct {
	KafkaAddrs []string `json:"kafka_addrs"`
	ZKAddrs    []string `json:"zk_addrs"`
	KafkaTopic string   `json:"kafka_topic"`
	Offset     string   `json:"offset"`
}

// NewAuditConsumerConfig reads a json configuration from disk. An empty path
// yields a zero config for the flags to fill in.
func NewAuditConsumerConfig(path string) (AuditConsumerConfig, error) {
	if path == "" {
		return AuditConsumerConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return AuditConsumerConfig{}, err
	}
	var conf AuditConsumerConfig
	err = json.Unmarshal(data, &conf)
	if err != nil {
		return AuditConsumerConfig{}, err
	}
	return conf, nil
}

// applyFlags overlays command line values on the file configuration.
func applyFlags(config AuditConsumerConfig) AuditConsumerConfig {
	if *brokers != "" {
		config.KafkaAddrs = strings.Split(*brokers, ",")
	}
	if *zkAddrs != "" {
		config.ZKAddrs = strings.Split(*zkAddrs, ",")
	}
	if *topic != "" {
		config.KafkaTopic = *topic
	}
	if *offset != "" {
		config.Offset = *offset
	}
	return config
}

// AuditConsumer drains a kafka queue and writes one line per audit event.
type AuditConsumer struct {
	consumer   *Kafka
	config     AuditConsumerConfig
	zkConn     *ZK
	partitions []sarama.PartitionConsumer
	quitChans  []chan bool
}

// NewAuditConsumer creates an AuditConsumer from a config. Mutexes are
// initialized for protecting internal connections shared between goroutines.
func NewAuditConsumer(conf AuditConsumerConfig) *AuditConsumer {
	ac := AuditConsumer{
		config:   conf,
		consumer: &Kafka{m: &sync.RWMutex{}},
		zkConn:   &ZK{m: &sync.RWMutex{}},
	}
	return &ac
}

// Start connects and begins draining every partition of the audit topic.
func (ac *AuditConsumer) Start() error {
	zkQuit, err := ac.zkLoop()
	if err != nil {
		return fmt.Errorf("error from zkLoop: %v", err)
	}
	ac.registerQuitChan(zkQuit)

	kafkaQuit, err := ac.kafkaLoop()
	if err != nil {
		return fmt.Errorf("error from kafkaLoop: %v", err)
	}
	ac.registerQuitChan(kafkaQuit)

	topics, err := ac.consumer.Consumer().Topics()
	if err != nil {
		return err
	}
	if !nameFound(ac.config.KafkaTopic, topics) {
		return fmt.Errorf("topic %s not found", ac.config.KafkaTopic)
	}

	partitions, err := ac.consumer.Consumer().Partitions(ac.config.KafkaTopic)
	if err != nil {
		return err
	}

	for _, partition := range partitions {
		pc, err := ac.consumer.Consumer().ConsumePartition(ac.config.KafkaTopic, partition, startingOffset(ac.config.Offset))
		if err != nil {
			return err
		}
		log.Printf("partition %d offset: %d\n", partition, pc.HighWaterMarkOffset())
		ac.partitions = append(ac.partitions, pc)

		go func(pc sarama.PartitionConsumer) {
			for event := range pc.Messages() {
				line, err := formatEvent(event.Value)
				if err != nil {
					log.Println("could not parse audit event:", err)
					continue
				}
				log.Println(line)
			}
		}(pc)
	}
	fmt.Printf("Start consuming events on %d partitions.\n", len(partitions))

	return nil
}

// Stop closes the partition consumers, then the shared connections.
func (ac *AuditConsumer) Stop() {
	for _, pc := range ac.partitions {
		pc.AsyncClose()
	}
	for _, quit := range ac.quitChans {
		quit <- true
	}
}

func (ac *AuditConsumer) kafkaLoop() (chan bool, error) {

	quit := make(chan bool)

	// anonymous function that selects our brokers
	brokers := func(conf AuditConsumerConfig, z *ZK) []string {
		if len(conf.KafkaAddrs) < 1 && len(conf.ZKAddrs) > 0 {
			return kafka.BrokerList(z.Conn(), "/brokers/ids")
		}
		return conf.KafkaAddrs
	}

	// initial connection to kafka
	c, err := sarama.NewConsumer(brokers(ac.config, ac.zkConn), nil)
	if err != nil {
		return nil, err
	}
	ac.consumer.SetConsumer(c)

	ticker := time.NewTicker(30 * time.Second)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_, err := ac.consumer.Consumer().Topics()
				if err != nil {
					log.Println("health check failed: attempting kafka reconnect")
					c, err := sarama.NewConsumer(brokers(ac.config, ac.zkConn), nil)
					if err != nil {
						continue
					}
					ac.consumer.SetConsumer(c)
				}
			case <-quit:
				err = ac.consumer.Consumer().Close()
				if err != nil {
					log.Printf("error closing consumer: %v", err)
				}
				return
			}
		}
	}()

	return quit, nil
}

func (ac *AuditConsumer) registerQuitChan(ch chan bool) {
	if ac.quitChans == nil {
		ac.quitChans = make([]chan bool, 0)
	}
	if ch == nil {
		// no-op
		return
	}
	ac.quitChans = append(ac.quitChans, ch)
}

// zkLoop starts a routine that will keep a connection to zookeeper alive
func (ac *AuditConsumer) zkLoop() (chan bool, error) {

	if len(ac.config.ZKAddrs) < 1 {
		log.Println("no zookeeper configured")
		return nil, nil
	}

	conn, _, err := zk.Connect(ac.config.ZKAddrs, time.Second*5)
	if err != nil {
		return nil, err
	}
	ac.zkConn.SetConn(conn)

	quit := make(chan bool)

	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				state := ac.zkConn.Conn().State().String()
				switch state {
				case "StateConnecting", "StateConnected", "StateHasSession":
					continue
				default:
					log.Printf("attempting zk reconnect due to state: %s\n", state)
					conn, _, err := zk.Connect(ac.config.ZKAddrs, time.Second*5)
					if err != nil {
						log.Printf("zk reconnect failure: %v\n", err)
						continue
					}
					ac.zkConn.SetConn(conn)
				}
			case <-quit:
				ac.zkConn.Conn().Close()
				return
			}
		}
	}()

	return quit, nil
}

// formatEvent renders one log line from a published event with the gjson
// library. We do not need to know the full shape of the payload, only the
// identifying fields.
func formatEvent(data []byte) (string, error) {
	action := gjson.GetBytes(data, "action")
	if !action.Exists() {
		return "", errors.New("event has no action field")
	}
	eventID := gjson.GetBytes(data, "event_id")
	userID := gjson.GetBytes(data, "payload.user_id")
	result := gjson.GetBytes(data, "payload.audit.action_result")
	return fmt.Sprintf("event=%s action=%s user=%s result=%s",
		eventID.String(), action.String(), userID.String(), result.String()), nil
}

// startingOffset maps the offset flag to a sarama constant.
func startingOffset(s string) int64 {
	if strings.EqualFold(s, "oldest") {
		return sarama.OffsetOldest
	}
	return sarama.OffsetNewest
}

func nameFound(name string, names []string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// ZK wraps a zookeeper connection.
type ZK struct {
	conn *zk.Conn
	m    *sync.RWMutex
}

// Conn gives us a connection, and prevents reads during writes.
func (z *ZK) Conn() *zk.Conn {
	z.m.RLock()
	defer z.m.RUnlock()
	return z.conn
}

// SetConn sets the inner Zookeeper connection.
func (z *ZK) SetConn(conn *zk.Conn) {
	z.m.Lock()
	z.conn = conn
	z.m.Unlock()
}

// Kafka wraps a kafka consumer.
type Kafka struct {
	c sarama.Consumer
	m *sync.RWMutex
}

// Consumer returns the inner consumer, and prevents reads during writes.
func (k *Kafka) Consumer() sarama.Consumer {
	k.m.RLock()
	defer k.m.RUnlock()
	return k.c
}

// SetConsumer sets the inner consumer.
func (k *Kafka) SetConsumer(c sarama.Consumer) {
	k.m.Lock()
	k.c = c
	k.m.Unlock()
}
