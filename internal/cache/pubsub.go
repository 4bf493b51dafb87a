package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// PubSubManager fans swap records out over Redis Pub/Sub.
type PubSubManager struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewPubSubManager(client *redis.Client, logger *logrus.Logger) *PubSubManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &PubSubManager{client: client, logger: logger}
}

// SwapChannels lists every channel a record is published to.
func SwapChannels(swap *models.SwapRecord) []string {
	return []string{
		constants.PubSubChannelSwaps,
		constants.PubSubChannelChainPrefix + swap.ChainID,
		WalletChannel(swap.WalletAddress),
	}
}

// WalletChannel is the per-wallet channel. Addresses are lowercased so EVM
// checksum casing does not split a wallet across channels.
func WalletChannel(wallet string) string {
	return constants.PubSubChannelWalletPrefix + strings.ToLower(wallet)
}

// PublishSwap publishes swap to the global, chain and wallet channels in one pipeline.
func (p *PubSubManager) PublishSwap(ctx context.Context, swap *models.SwapRecord) error {
	data, err := json.Marshal(swap)
	if err != nil {
		return fmt.Errorf("marshal swap: %w", err)
	}

	pipe := p.client.Pipeline()
	for _, channel := range SwapChannels(swap) {
		pipe.Publish(ctx, channel, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish swap: %w", err)
	}
	return nil
}

// Subscribe delivers records from channel to handler until ctx is done.
func (p *PubSubManager) Subscribe(ctx context.Context, channel string, handler func(*models.SwapRecord)) error {
	return p.consume(ctx, p.client.Subscribe(ctx, channel), channel, handler)
}

// PSubscribe is Subscribe for a channel pattern such as "swaps:chain:*".
func (p *PubSubManager) PSubscribe(ctx context.Context, pattern string, handler func(*models.SwapRecord)) error {
	return p.consume(ctx, p.client.PSubscribe(ctx, pattern), pattern, handler)
}

func (p *PubSubManager) consume(ctx context.Context, sub *redis.PubSub, name string, handler func(*models.SwapRecord)) error {
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", name, err)
	}
	p.logger.WithField("channel", name).Info("subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			swap, err := DecodeSwap(msg.Payload)
			if err != nil {
				p.logger.WithError(err).WithField("channel", msg.Channel).Warn("dropping malformed swap message")
				continue
			}
			handler(swap)
		}
	}
}

// DecodeSwap parses a published swap payload.
func DecodeSwap(payload string) (*models.SwapRecord, error) {
	var swap models.SwapRecord
	if err := json.Unmarshal([]byte(payload), &swap); err != nil {
		return nil, fmt.Errorf("unmarshal swap: %w", err)
	}
	if swap.ID == "" {
		return nil, fmt.Errorf("swap message without id")
	}
	return &swap, nil
}
