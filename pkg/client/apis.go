package client

import (
	"encoding/json"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/panel"
)

func getJSON[T any](c *Client, path, what string) (*T, error) {
	ret, err := c.Get(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get %s", what)
	}

	var v T
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal %s", what)
	}
	return &v, nil
}

func (c *Client) GetState() (*panel.State, error) {
	return getJSON[panel.State](c, "/state", "panel state")
}

func (c *Client) GetFields() (map[panel.FieldID]panel.Field, error) {
	fields, err := getJSON[map[panel.FieldID]panel.Field](c, "/fields", "fields")
	if err != nil {
		return nil, err
	}
	return *fields, nil
}

type Sections struct {
	Sections []panel.Section `json:"sections"`
	Height   float64         `json:"height"`
}

func (c *Client) GetSections() (*Sections, error) {
	return getJSON[Sections](c, "/sections", "sections")
}

func (c *Client) GetProcesses() ([]panel.ProcessRow, error) {
	rows, err := getJSON[[]panel.ProcessRow](c, "/processes", "processes")
	if err != nil {
		return nil, err
	}
	return *rows, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	return getJSON[config.RawFileConfig](c, "/config", "config")
}

func (c *Client) SetProcessCount(n int) (string, error) {
	return c.Put("/config/processes", strconv.Itoa(n))
}

func (c *Client) SetColor(enabled bool) (string, error) {
	return c.Put("/config/color", strconv.FormatBool(enabled))
}

// SetConfig sets any preference by its store key. The process count and
// the colour go through their own endpoints so the panel applies them.
func (c *Client) SetConfig(key, value string) (string, error) {
	switch key {
	case config.KeyProcesses:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", pkgerrors.Wrapf(err, "invalid %s", key)
		}
		return c.SetProcessCount(n)
	case config.KeyColor:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", pkgerrors.Wrapf(err, "invalid %s", key)
		}
		return c.SetColor(b)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return c.Put("/config/"+key, string(payload))
}

func (c *Client) GetVersion() (string, error) {
	v, err := getJSON[string](c, "/version", "version")
	if err != nil {
		return "", err
	}
	return *v, nil
}
