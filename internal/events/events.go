// Package events publishes catalog and order notifications to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/IBM/sarama"
)

const (
	TopicGameCreated = "game.created"
	TopicGameUpdated = "game.updated"
	TopicGameDeleted = "game.deleted"
	TopicOrderPlaced = "order.placed"
)

// Publisher sends a JSON payload to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	Close() error
}

var (
	newSyncProducer = sarama.NewSyncProducer
	jsonMarshal     = json.Marshal
)

type KafkaPublisher struct {
	producer sarama.SyncProducer
}

// NewKafkaPublisher 連線 brokers（逗號分隔）並建立同步 producer
func NewKafkaPublisher(brokers string) (*KafkaPublisher, error) {
	addrs := SplitBrokers(brokers)
	if len(addrs) == 0 {
		return nil, fmt.Errorf("NewKafkaPublisher: no brokers configured")
	}
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := newSyncProducer(addrs, config)
	if err != nil {
		return nil, fmt.Errorf("NewKafkaPublisher: %w", err)
	}
	log.Printf("kafka producer connected to %v", addrs)
	return NewPublisherFromProducer(producer), nil
}

func NewPublisherFromProducer(p sarama.SyncProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: p}
}

func SplitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (k *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := jsonMarshal(payload)
	if err != nil {
		return fmt.Errorf("Publish %s: %w", topic, err)
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}
	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("Publish %s: %w", topic, err)
	}
	log.Printf("published %s key=%s partition=%d offset=%d", topic, key, partition, offset)
	return nil
}

func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}

// NopPublisher 在未設定 KAFKA_BROKERS 時使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }
func (NopPublisher) Close() error                                       { return nil }

// FakePublisher records every published message.
type FakePublisher struct {
	PublishFn func(ctx context.Context, topic, key string, payload any) error
	Sent      []Message
}

type Message struct {
	Topic   string
	Key     string
	Payload any
}

func (f *FakePublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	f.Sent = append(f.Sent, Message{Topic: topic, Key: key, Payload: payload})
	if f.PublishFn != nil {
		return f.PublishFn(ctx, topic, key, payload)
	}
	return nil
}

func (f *FakePublisher) Close() error { return nil }
