package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// envelope wraps an event on the redis channel with the publishing instance's
// id, so an instance can skip the copies of its own events.
type envelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// RedisRelay mirrors events through a redis pub/sub channel so every
// instance's hub re-broadcasts them to its local sessions. Relay failures are
// logged and ignored: the local hub already delivered, and the write that
// produced the event is the source of truth.
type RedisRelay struct {
	client  rueidis.Client
	channel string
	origin  string
	local   *Hub
	logger  zerolog.Logger
}

func NewRedisRelay(addr, channel string, local *Hub) (*RedisRelay, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, err
	}

	return &RedisRelay{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		local:   local,
		logger:  log.With().Str("component", "redisRelay").Logger(),
	}, nil
}

// Publish delivers locally first, then mirrors to the channel.
func (r *RedisRelay) Publish(event Event) {
	r.local.Publish(event)

	raw, err := json.Marshal(envelope{Origin: r.origin, Event: event})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to marshal event for relay")
		return
	}

	cmd := r.client.B().Publish().Channel(r.channel).Message(string(raw)).Build()
	if err := r.client.Do(context.Background(), cmd).Error(); err != nil {
		r.logger.Error().Err(err).Msg("failed to relay event to redis")
	}
}

// Run subscribes to the channel and re-injects events from other instances
// into the local hub. Blocks until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	cmd := r.client.B().Subscribe().Channel(r.channel).Build()
	err := r.client.Receive(ctx, cmd, func(msg rueidis.PubSubMessage) {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Message), &env); err != nil {
			r.logger.Debug().Err(err).Msg("discarding malformed relay message")
			return
		}
		if env.Origin == r.origin {
			return
		}
		r.local.Publish(env.Event)
	})
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (r *RedisRelay) Close() {
	r.client.Close()
}
