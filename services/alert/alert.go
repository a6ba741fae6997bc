package alert

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bbyours/attendance-server/config"
	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/autopaho/queue/memory"
	"github.com/eclipse/paho.golang/paho"
	"go.uber.org/zap"
)

// ApprovalAlert is published when an exception request is queued for review.
type ApprovalAlert struct {
	// ApprovalID locates the request in the admin approvals view.
	ApprovalID string `json:"approvalId"`
	// EmployeeCode is already masked down to its last four characters.
	EmployeeCode  string `json:"employeeCode"`
	RequestType   string `json:"requestType"`
	RequestedTime string `json:"requestedTime"`
}

// EmergencyAlert is published when an emergency message is sent.
type EmergencyAlert struct {
	MessageID string `json:"messageId"`
	Sender    string `json:"sender"`
	Subject   string `json:"subject"`
}

// Alerter pushes operational notifications at the admin outside of the
// request cycle that produced them.
type Alerter interface {
	PendingApproval(ctx context.Context, a ApprovalAlert) error
	Emergency(ctx context.Context, m EmergencyAlert) error
}

// NewAlerter selects the alert implementation for this process. Without a
// broker configured, alerts silently go nowhere.
func NewAlerter(ctx context.Context, conf config.AlertConfiguration, logger *zap.Logger) Alerter {
	if conf.MQTTUrl == "" {
		logger.Info("mqtt alerting disabled")
		return &NoopAlerter{}
	}
	a, err := NewMQTTAlerter(ctx, conf, logger)
	if err != nil {
		logger.Warn("mqtt alerter setup fail, alerts disabled", zap.Error(err))
		return &NoopAlerter{}
	}
	return a
}

// MQTTAlerter publishes alerts to an MQTT v5 broker. The connection manager
// reconnects on its own, and we simply skip publishing while the broker is
// unreachable, because an alert that arrives late is not an alert.
type MQTTAlerter struct {
	cm          *autopaho.ConnectionManager
	topicPrefix string
	logger      *zap.Logger
	mutex       sync.Mutex
	connected   bool
}

// NewMQTTAlerter connects to the broker named in the configuration.
func NewMQTTAlerter(ctx context.Context, conf config.AlertConfiguration, logger *zap.Logger) (*MQTTAlerter, error) {
	a := &MQTTAlerter{
		topicPrefix: conf.TopicPrefix,
		logger:      logger,
	}
	ep := conf.MQTTUrl
	if !strings.Contains(ep, "://") {
		ep = "mqtt://" + ep
	}
	mqtturl, err := url.Parse(ep)
	if err != nil {
		return nil, err
	}
	clientConfig := autopaho.ClientConfig{
		Queue: memory.New(),

		ServerUrls: []*url.URL{mqtturl},

		KeepAlive: 300,

		CleanStartOnInitialConnection: false,

		SessionExpiryInterval: 60,

		ConnectRetryDelay: (60 * time.Second),

		OnConnectionUp: func(cm *autopaho.ConnectionManager, ack *paho.Connack) {
			logger.Info("mqtt connection up", zap.Uint8("ack", ack.ReasonCode))
			a.mutex.Lock()
			a.connected = true
			a.mutex.Unlock()
		},

		OnConnectError: func(err error) {
			logger.Warn("mqtt connect fail", zap.Error(err))
		},

		ConnectUsername: conf.Username,
		ConnectPassword: []byte(conf.Password),

		ClientConfig: paho.ClientConfig{

			ClientID: conf.ClientID,

			OnClientError: func(err error) {
				logger.Warn("mqtt client error", zap.Error(err))
			},

			OnServerDisconnect: func(d *paho.Disconnect) {
				if d.Properties != nil {
					logger.Info("mqtt server disconnect", zap.String("reason", d.Properties.ReasonString))
				} else {
					logger.Info("mqtt server disconnect", zap.Uint8("code", d.ReasonCode))
				}
				a.mutex.Lock()
				a.connected = false
				a.mutex.Unlock()
			},
		},
	}
	cm, err := autopaho.NewConnection(ctx, clientConfig)
	if err != nil {
		return nil, err
	}
	a.cm = cm
	return a, nil
}

// AwaitConnection blocks until the broker connection is up or ctx expires.
func (a *MQTTAlerter) AwaitConnection(ctx context.Context) error {
	return a.cm.AwaitConnection(ctx)
}

// PendingApproval announces a newly queued exception request.
func (a *MQTTAlerter) PendingApproval(ctx context.Context, alert ApprovalAlert) error {
	return a.publish(ctx, "approvals", alert)
}

// Emergency announces an emergency message.
func (a *MQTTAlerter) Emergency(ctx context.Context, alert EmergencyAlert) error {
	return a.publish(ctx, "emergency", alert)
}

func (a *MQTTAlerter) publish(ctx context.Context, topic string, payload interface{}) error {
	a.mutex.Lock()
	connected := a.connected
	a.mutex.Unlock()
	if !connected {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	err = a.cm.PublishViaQueue(ctx, &autopaho.QueuePublish{
		Publish: &paho.Publish{
			QoS:     1,
			Topic:   a.topicPrefix + "/" + topic,
			Payload: body,
		},
	})
	if err != nil && ctx.Err() == nil {
		a.logger.Warn("mqtt publish fail", zap.String("topic", topic), zap.Error(err))
	}
	return err
}

// NoopAlerter drops every alert.
type NoopAlerter struct{}

// PendingApproval does nothing.
func (a *NoopAlerter) PendingApproval(ctx context.Context, alert ApprovalAlert) error {
	return nil
}

// Emergency does nothing.
func (a *NoopAlerter) Emergency(ctx context.Context, alert EmergencyAlert) error {
	return nil
}
