package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/mitchellh/mapstructure"
)

const KafkaSinkName = "kafka"

type KafkaConfig struct {
	Host  string `mapstructure:"host"`
	Port  string `mapstructure:"port"`
	Topic string `mapstructure:"topic"`
}

func DecodeKafkaConfig(settings map[string]interface{}) (KafkaConfig, error) {
	var conf KafkaConfig
	if err := mapstructure.WeakDecode(settings, &conf); err != nil {
		return conf, fmt.Errorf("invalid kafka config: %w", err)
	}
	if conf.Host == "" {
		return conf, errors.New("kafka host is required")
	}
	if conf.Port == "" {
		return conf, errors.New("kafka port is required")
	}
	if conf.Topic == "" {
		return conf, errors.New("kafka topic is required")
	}
	return conf, nil
}

// Producer is the subset of *kafka.Producer the sink uses.
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// KafkaSink exports every routed event as a JSON message keyed by client IP.
type KafkaSink struct {
	cfg      KafkaConfig
	producer Producer
}

func NewKafkaSink(settings map[string]interface{}) (*KafkaSink, error) {
	conf, err := DecodeKafkaConfig(settings)
	if err != nil {
		return nil, err
	}
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", conf.Host, conf.Port),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaSinkWithProducer(conf, producer), nil
}

func NewKafkaSinkWithProducer(conf KafkaConfig, producer Producer) *KafkaSink {
	return &KafkaSink{cfg: conf, producer: producer}
}

func (s *KafkaSink) Name() string {
	return KafkaSinkName
}

func (s *KafkaSink) Handle(ctx context.Context, event security.Event) error {
	if s.producer == nil {
		return errors.New("kafka producer is not initialized")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.cfg.Topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.Source.IP),
		Value:          data,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected kafka delivery event %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("kafka delivery not confirmed: %w", ctx.Err())
	}
}

func (s *KafkaSink) Close() {
	if s.producer != nil {
		s.producer.Flush(5000)
		s.producer.Close()
	}
}
