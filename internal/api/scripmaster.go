package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickgao/bfo-scripmaster/internal/model"
)

// Scrip master endpoints.
const (
	EndpointIndex = "bfoidx"
	EndpointStock = "bfostk"
)

// ErrMissingData is returned when a response has no data array.
var ErrMissingData = errors.New("response has no data array")

// FetchScripMaster downloads the scrip master published at endpoint.
func (c *Client) FetchScripMaster(ctx context.Context, endpoint string) (model.RawTable, error) {
	start := time.Now()

	var resp ScripMasterResponse
	if err := c.get(ctx, "/"+strings.TrimPrefix(endpoint, "/"), nil, &resp); err != nil {
		return model.RawTable{}, fmt.Errorf("fetch scrip master %s: %w", endpoint, err)
	}
	if resp.Data == nil {
		return model.RawTable{}, fmt.Errorf("fetch scrip master %s: %w", endpoint, ErrMissingData)
	}

	table := resp.ToRawTable()

	c.logger.Debug("fetched scrip master",
		"endpoint", endpoint,
		"rows", len(table.Records),
		"duration", time.Since(start),
	)

	return table, nil
}
