package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

// ChannelContent is the redis pub/sub channel carrying content-change events.
const ChannelContent = "forsaj:content"

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, event domain.ChangeEvent) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, ChannelContent, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Subscribe returns a channel of decoded change events and a stop function.
// Undecodable messages are dropped; the channel closes when the subscription
// ends.
func (s *SignalService) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, func()) {
	sub := s.rdb.Subscribe(ctx, ChannelContent)
	out := make(chan domain.ChangeEvent, 8)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event domain.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("signal: undecodable change event: %v", err)
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}
