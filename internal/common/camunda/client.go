// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"qa-workers/internal/common/config"
)

const defaultCheckTimeout = 10 * time.Second

// Client is a Zeebe gateway connection that also answers readiness checks.
type Client struct {
	zbc.Client
	address      string
	checkTimeout time.Duration
}

// Dial connects to the gateway at cfg.BrokerAddress over plaintext gRPC and
// confirms that at least one broker is reachable.
func Dial(ctx context.Context, cfg config.CamundaConfig) (*Client, error) {
	if cfg.BrokerAddress == "" {
		return nil, fmt.Errorf("camunda.broker_address is required")
	}

	zc, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create zeebe client: %w", err)
	}

	c := &Client{Client: zc, address: cfg.BrokerAddress, checkTimeout: defaultCheckTimeout}
	if cfg.RequestTimeout > 0 {
		c.checkTimeout = config.GetDuration(cfg.RequestTimeout)
	}

	if _, err := c.Brokers(ctx); err != nil {
		zc.Close()
		return nil, err
	}
	return c, nil
}

// Address returns the gateway address the client was dialed with.
func (c *Client) Address() string {
	return c.address
}

// Brokers sends a topology request and returns the number of brokers the
// gateway reports. Zero brokers is an error.
func (c *Client) Brokers(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	topology, err := c.NewTopologyCommand().Send(ctx)
	if err != nil {
		return 0, fmt.Errorf("zeebe topology at %s: %w", c.address, err)
	}
	if len(topology.GetBrokers()) == 0 {
		return 0, fmt.Errorf("zeebe gateway %s reports no brokers", c.address)
	}
	return len(topology.GetBrokers()), nil
}
