package util

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const fetchTimeout = 12 * time.Second

var fetchClient = resty.New().SetTimeout(fetchTimeout)

// GetBytes downloads url and fails on any non-2xx status.
func GetBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := fetchClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}
