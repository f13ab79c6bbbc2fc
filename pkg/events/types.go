package events

import "encoding/json"

// Event name constants
const (
	PanelFields  = "panel.fields"
	PanelRows    = "panel.rows"
	PanelHeight  = "panel.height"
	PanelSection = "panel.section"
	PanelGauge   = "panel.gauge"
	PanelPortal  = "panel.portal"
	PanelState   = "panel.state"
	// PanelPreferences carries config.Preferences after any of them changed.
	PanelPreferences = "panel.preferences"
)

var panelEvents = map[string]struct{}{
	PanelFields: {}, PanelRows: {}, PanelHeight: {}, PanelSection: {},
	PanelGauge: {}, PanelPortal: {}, PanelState: {}, PanelPreferences: {},
}

// IsPanelEvent reports whether name is one of the events the panel publishes.
func IsPanelEvent(name string) bool {
	_, ok := panelEvents[name]
	return ok
}

// Event is a generic SSE event published by the panel.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[panel.HeightEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Height)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
