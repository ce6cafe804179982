package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/pm-planner/internal/db"
	"github.com/ukydev/pm-planner/internal/models"
)

// Ingester subscribes to the usage topic and folds hour/cycle readings
// into the matching asset records.
type Ingester struct {
	broker string
	topic  string
	assets db.AssetCollection
	client mqtt.Client
}

// NewIngester creates an ingester for the given broker URL and topic.
func NewIngester(broker, topic string, assets db.AssetCollection) *Ingester {
	return &Ingester{
		broker: broker,
		topic:  topic,
		assets: assets,
	}
}

// Start connects to the broker and subscribes. Readings that fail to
// decode or apply are logged and dropped, the subscription stays up.
func (i *Ingester) Start() error {
	opts := mqtt.NewClientOptions().
		AddBroker(i.broker).
		SetClientID(fmt.Sprintf("pm-planner-%d", time.Now().UnixNano())).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	i.client = mqtt.NewClient(opts)

	if token := i.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to MQTT broker: %w", token.Error())
	}

	if token := i.client.Subscribe(i.topic, 1, i.handleMessage); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", i.topic, token.Error())
	}

	log.WithFields(log.Fields{
		"broker": i.broker,
		"topic":  i.topic,
	}).Info("Usage ingester started")

	return nil
}

// Stop disconnects from the broker.
func (i *Ingester) Stop() {
	if i.client != nil && i.client.IsConnected() {
		i.client.Disconnect(250)
	}
}

func (i *Ingester) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	reading, err := decodeReading(msg.Payload())
	if err != nil {
		log.WithFields(log.Fields{
			"topic": msg.Topic(),
			"error": err,
		}).Warn("Dropping unusable usage reading")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := i.assets.UpdateAssetUsage(ctx, reading.Serial, reading.Hours, reading.Cycles); err != nil {
		log.WithFields(log.Fields{
			"serial": reading.Serial,
			"error":  err,
		}).Warn("Failed to apply usage reading")
		return
	}

	log.WithFields(log.Fields{
		"serial": reading.Serial,
		"hours":  reading.Hours,
		"cycles": reading.Cycles,
	}).Debug("Applied usage reading")
}

// decodeReading parses a usage payload and rejects readings that cannot
// be matched to an asset or would move counters backwards.
func decodeReading(payload []byte) (models.UsageReading, error) {
	var reading models.UsageReading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return models.UsageReading{}, fmt.Errorf("decode payload: %w", err)
	}
	if reading.Serial == "" {
		return models.UsageReading{}, fmt.Errorf("reading has no serial")
	}
	if reading.Hours < 0 || reading.Cycles < 0 {
		return models.UsageReading{}, fmt.Errorf("reading has negative counters")
	}
	return reading, nil
}
