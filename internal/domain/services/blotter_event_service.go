package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

// Blotter event kinds
const (
	BlotterEventCreated       = "created"
	BlotterEventStatusChanged = "status_changed"
	BlotterEventArchived      = "archived"
	BlotterEventDeleted       = "deleted"
)

// BlotterEvent is published after a blotter write commits
type BlotterEvent struct {
	Kind       string               `json:"kind"`
	BlotterID  uint                 `json:"blotter_id"`
	ArchivedID uint                 `json:"archived_id,omitempty"`
	Status     models.BlotterStatus `json:"status,omitempty"`
	Previous   models.BlotterStatus `json:"previous_status,omitempty"`
	Location   string               `json:"location,omitempty"`
	Timestamp  int64                `json:"timestamp"`
}

// InterfaceBlotterEventService publishes blotter events to subscribers such
// as the barangay hall display board
type InterfaceBlotterEventService interface {
	Publish(event BlotterEvent)
	Disconnect()
}

// NoopBlotterEventService drops every event
type NoopBlotterEventService struct{}

func (NoopBlotterEventService) Publish(BlotterEvent) {}
func (NoopBlotterEventService) Disconnect()          {}

// MQTTBlotterEventService publishes events as JSON to
// <prefix>/blotters/<kind>
type MQTTBlotterEventService struct {
	Client      mqtt.Client
	TopicPrefix string
	QoS         byte
	Timeout     time.Duration

	publishMutex sync.Mutex
}

// NewBlotterEventService connects to the configured broker. Without a broker
// URL events are dropped.
func NewBlotterEventService(cfg *config.Config) InterfaceBlotterEventService {
	if cfg.MQTTBrokerURL == "" {
		return NoopBlotterEventService{}
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetCleanSession(true)
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		Logger.Warning("[MQTT] connection lost: %v", err)
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		Logger.Info("[MQTT] connected to %s", cfg.MQTTBrokerURL)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		// auto-reconnect keeps trying in the background
		Logger.Warning("[MQTT] initial connect to %s failed: %v", cfg.MQTTBrokerURL, token.Error())
	}
	return NewMQTTBlotterEventService(client, cfg.MQTTTopicPrefix, byte(cfg.MQTTQoS))
}

// NewMQTTBlotterEventService wraps an existing client
func NewMQTTBlotterEventService(client mqtt.Client, topicPrefix string, qos byte) *MQTTBlotterEventService {
	if qos > 2 {
		qos = 1
	}
	return &MQTTBlotterEventService{
		Client:      client,
		TopicPrefix: topicPrefix,
		QoS:         qos,
		Timeout:     3 * time.Second,
	}
}

// Topic returns the topic an event of kind is published on
func (s *MQTTBlotterEventService) Topic(kind string) string {
	if s.TopicPrefix == "" {
		return "blotters/" + kind
	}
	return s.TopicPrefix + "/blotters/" + kind
}

// Publish sends event. Failures are logged; the write that produced the
// event has already committed.
func (s *MQTTBlotterEventService) Publish(event BlotterEvent) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		Logger.Error("[MQTT] encode blotter event: %v", err)
		return
	}

	s.publishMutex.Lock()
	defer s.publishMutex.Unlock()

	if !s.Client.IsConnected() {
		Logger.Warning("[MQTT] not connected, dropping %s event for blotter %d", event.Kind, event.BlotterID)
		return
	}
	token := s.Client.Publish(s.Topic(event.Kind), s.QoS, false, payload)
	if !token.WaitTimeout(s.Timeout) {
		Logger.Warning("[MQTT] publish of %s event for blotter %d timed out", event.Kind, event.BlotterID)
		return
	}
	if err := token.Error(); err != nil {
		Logger.Warning("[MQTT] publish of %s event for blotter %d failed: %v", event.Kind, event.BlotterID, err)
	}
}

// Disconnect closes the broker connection
func (s *MQTTBlotterEventService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
}
