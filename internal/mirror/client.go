package mirror

import (
	"context"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lledoind/aerotools/config"
	"github.com/lledoind/aerotools/internal/domain"
)

// payload is the mirror wire envelope for both directions.
type payload struct {
	Success  bool                 `json:"success"`
	Products []domain.ShopProduct `json:"products"`
}

// Client talks to the remote catalog mirror over HTTP. The mirror is a
// dumb replica: reads return the last pushed product list, writes replace
// it wholesale.
type Client struct {
	addr    string
	token   string
	timeout time.Duration
}

func NewClient(cfg config.MirrorConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		addr:    cfg.Addr,
		token:   cfg.Token,
		timeout: timeout,
	}
}

// Fetch reads the mirrored product list. A transport error or an
// unsuccessful envelope is returned to the caller, which falls back to
// local data.
func (c *Client) Fetch(ctx context.Context) ([]domain.ShopProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp payload
	var code int
	err := gout.GET(c.addr).
		WithContext(ctx).
		SetHeader(gout.H{"Authorization": "Bearer " + c.token}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "mirror read")
	}
	if code != 200 {
		return nil, errors.Errorf("mirror read: status %d", code)
	}
	if !resp.Success {
		return nil, errors.New("mirror read: envelope not successful")
	}
	return resp.Products, nil
}

// Push replaces the mirrored product list.
func (c *Client) Push(ctx context.Context, products []domain.ShopProduct) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp payload
	var code int
	err := gout.POST(c.addr).
		WithContext(ctx).
		SetHeader(gout.H{"Authorization": "Bearer " + c.token}).
		SetJSON(payload{Success: true, Products: products}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "mirror write")
	}
	if code != 200 {
		return errors.Errorf("mirror write: status %d", code)
	}
	if !resp.Success {
		return errors.New("mirror write: envelope not successful")
	}
	zap.L().Debug("mirror write accepted", zap.Int("count", len(products)))
	return nil
}
