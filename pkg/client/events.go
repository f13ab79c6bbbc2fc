package client

import (
	"context"
	"io"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tmaxmax/go-sse"

	"github.com/charlie0129/battpanel/pkg/events"
)

// SubscribeEvents streams panel events to fn until ctx is done, fn returns
// an error, or the server closes the stream. The first event is always the
// full panel state.
func (c *Client) SubscribeEvents(ctx context.Context, fn func(events.Event) error) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/events", "")
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to subscribe to events")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Debugf("failed to close event stream: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return pkgerrors.Errorf("got %d: %s", resp.StatusCode, string(b))
	}

	err = readEvents(resp.Body, fn)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// readEvents parses a text/event-stream body.
func readEvents(r io.Reader, fn func(events.Event) error) error {
	for e, err := range sse.Read(r, nil) {
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to read event stream")
		}
		if err := fn(events.Event{Name: e.Type, Data: []byte(e.Data)}); err != nil {
			return err
		}
	}
	return pkgerrors.New("event stream closed")
}
