package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"newsdash/types"
)

// Publisher emits an ArticleEvent for each stored article.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher connects a synchronous producer to brokers.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, err
	}
	return NewPublisherWithProducer(producer, topic), nil
}

func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// ArticleStored publishes the event keyed by the article's URL hash so that
// updates of one article land on one partition.
func (p *Publisher) ArticleStored(ctx context.Context, a *types.Article) error {
	event := ArticleEvent{
		Type:     EventArticleStored,
		ID:       a.ID,
		URL:      a.URL,
		Title:    a.Title,
		Source:   a.Source,
		Summary:  a.Summary,
		PubDate:  a.PubDate,
		ReadTime: a.ReadTime,
		StoredAt: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(types.GenerateID(a.URL)),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("failed to publish article event: %w", err)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
