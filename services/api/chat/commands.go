package chat

import (
	"encoding/json"
	"fmt"
)

// CommandType enumerates the map actions the dashboard understands.
// The set is closed; anything else coming back from the model is
// dropped before it reaches the client.
type CommandType string

const (
	CommandFocusStation      CommandType = "focus_station"
	CommandHighlightStations CommandType = "highlight_stations"
	CommandFilterData        CommandType = "filter_data"
	CommandSetZoom           CommandType = "set_zoom"
	CommandApplyTimeFilter   CommandType = "apply_time_filter"
)

// MapCommand is the wire form sent to the dashboard: a tagged union
// of command kind plus its kind-specific payload.
type MapCommand struct {
	Type CommandType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// FocusStationPayload centers the map on one station.
type FocusStationPayload struct {
	StationID string `json:"station_id"`
}

// HighlightStationsPayload marks a set of stations on the map.
type HighlightStationsPayload struct {
	StationIDs []string `json:"station_ids"`
}

// FilterDataPayload restricts rendered readings to a value range of
// one pollutant.
type FilterDataPayload struct {
	Pollutant string   `json:"pollutant"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// SetZoomPayload moves the viewport.
type SetZoomPayload struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom int     `json:"zoom"`
}

// ApplyTimeFilterPayload restricts rendered readings to a time range
// (RFC3339 bounds).
type ApplyTimeFilterPayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func newCommand(t CommandType, payload any) (MapCommand, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return MapCommand{}, err
	}
	return MapCommand{Type: t, Data: data}, nil
}

// Payload decodes the kind-specific payload of a command. Unknown
// kinds are an error, never a silent pass-through.
func (c MapCommand) Payload() (any, error) {
	switch c.Type {
	case CommandFocusStation:
		var p FocusStationPayload
		if err := json.Unmarshal(c.Data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case CommandHighlightStations:
		var p HighlightStationsPayload
		if err := json.Unmarshal(c.Data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case CommandFilterData:
		var p FilterDataPayload
		if err := json.Unmarshal(c.Data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case CommandSetZoom:
		var p SetZoomPayload
		if err := json.Unmarshal(c.Data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case CommandApplyTimeFilter:
		var p ApplyTimeFilterPayload
		if err := json.Unmarshal(c.Data, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown map command type %q", c.Type)
	}
}
