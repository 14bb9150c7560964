package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillmentpro-push/internal/push/usecase"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Broadcaster fans a notice out to devices. Implemented by usecase.PushUsecase.
type Broadcaster interface {
	Broadcast(ctx context.Context, notice usecase.Notice) (*usecase.Result, error)
}

// Service consumes application events published on a Pub/Sub topic (new
// orders, verification requests, worker status) and turns them into pushes.
type Service struct {
	pubsubClient *pubsub.Client
	broadcaster  Broadcaster
	topicName    string
	subName      string
	log          *zap.Logger
}

func NewService(ctx context.Context, projectID, topicName, credentialsFile string, broadcaster Broadcaster, log *zap.Logger) (*Service, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Service{
		pubsubClient: client,
		broadcaster:  broadcaster,
		topicName:    topicName,
		subName:      topicName + "-sub", // Convention: topic-sub
		log:          log.Named("pubsub"),
	}, nil
}

// Start blocks receiving messages until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.log.Info("starting notification service",
		zap.String("topic", s.topicName),
		zap.String("subscription", s.subName))

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("checking subscription %s: %w", s.subName, err)
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			return fmt.Errorf("checking topic %s: %w", s.topicName, err)
		}
		if !topicExists {
			return fmt.Errorf("topic %s does not exist, cannot create subscription", s.topicName)
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		s.log.Info("created subscription", zap.String("subscription", s.subName))
	}

	s.log.Info("listening for messages", zap.String("subscription", s.subName))
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if s.handleMessage(ctx, msg.Data) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

func (s *Service) Close() error {
	return s.pubsubClient.Close()
}

// handleMessage reports whether the message should be acked. Malformed
// events are acked so they are not redelivered forever; storage failures are
// nacked for a retry.
func (s *Service) handleMessage(ctx context.Context, data []byte) bool {
	var notice usecase.Notice
	if err := json.Unmarshal(data, &notice); err != nil {
		s.log.Warn("dropping malformed event", zap.Error(err))
		return true
	}
	if strings.TrimSpace(notice.Title) == "" {
		s.log.Warn("dropping event without title")
		return true
	}

	s.log.Info("received event",
		zap.String("title", notice.Title),
		zap.String("type", notice.Data["type"]))

	result, err := s.broadcaster.Broadcast(ctx, notice)
	if errors.Is(err, usecase.ErrTitleRequired) {
		s.log.Warn("dropping invalid event", zap.Error(err))
		return true
	}
	if err != nil {
		s.log.Error("broadcast failed", zap.Error(err))
		return false
	}
	s.log.Info("event delivered",
		zap.Bool("push_sent", result.PushSent),
		zap.Int("delivered", result.Delivered),
		zap.Bool("email_sent", result.EmailSent))
	return true
}
