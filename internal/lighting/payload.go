package lighting

import (
	"encoding/json"
	"fmt"
)

// Mode is the discriminant identifying which variant of the lighting union
// a payload represents.
type Mode string

// The closed set of lighting modes. Devices and UI agree on these values
// out-of-band; an unrecognised discriminant is a schema mismatch.
const (
	ModeColour  Mode = "colour"
	ModeRainbow Mode = "rainbow"
	ModeStrobe  Mode = "strobe"
)

// State is the lighting configuration of a single device.
//
// Exactly one variant is active, selected by Mode:
//
//	colour  — Colour is meaningful, Speed is not
//	rainbow — Speed is meaningful, Colour is not
//	strobe  — both Colour and Speed are meaningful
//
// Encoding emits only the fields the active variant carries, so a State
// round-trips to the exact wire shape the devices expect.
type State struct {
	Mode   Mode
	Colour string
	Speed  float64
}

// Variant default values, used when a device record is first initialised and
// when the UI switches a device to a mode it has no prior state for.
const (
	defaultColour      = "#ffff00"
	defaultRainbowRate = 5
	defaultStrobeRate  = 10
)

// Default returns the default State for a mode.
//
// Returns false if mode is not one of the closed variant set.
func Default(mode Mode) (State, bool) {
	switch mode {
	case ModeColour:
		return State{Mode: ModeColour, Colour: defaultColour}, true
	case ModeRainbow:
		return State{Mode: ModeRainbow, Speed: defaultRainbowRate}, true
	case ModeStrobe:
		return State{Mode: ModeStrobe, Colour: defaultColour, Speed: defaultStrobeRate}, true
	default:
		return State{}, false
	}
}

// DecodeState parses raw bytes into a State.
//
// The payload must be a JSON object whose shape matches one of the known
// variants exactly: a "mode" discriminant plus the variant's typed fields.
// No coercion is performed — numeric strings are rejected.
//
// Returns:
//   - ErrMalformed: the bytes are not valid JSON
//   - ErrSchemaMismatch: valid JSON, but no variant shape matches
func DecodeState(data []byte) (State, error) {
	if !json.Valid(data) {
		return State{}, ErrMalformed
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		// Valid JSON but not an object.
		return State{}, ErrSchemaMismatch
	}

	mode, _ := raw["mode"].(string)
	switch Mode(mode) {
	case ModeColour:
		colour, ok := raw["colour"].(string)
		if !ok {
			return State{}, fmt.Errorf("%w: colour variant requires string colour", ErrSchemaMismatch)
		}
		return State{Mode: ModeColour, Colour: colour}, nil

	case ModeRainbow:
		speed, ok := raw["speed"].(float64)
		if !ok {
			return State{}, fmt.Errorf("%w: rainbow variant requires numeric speed", ErrSchemaMismatch)
		}
		return State{Mode: ModeRainbow, Speed: speed}, nil

	case ModeStrobe:
		colour, colourOK := raw["colour"].(string)
		speed, speedOK := raw["speed"].(float64)
		if !colourOK || !speedOK {
			return State{}, fmt.Errorf("%w: strobe variant requires string colour and numeric speed", ErrSchemaMismatch)
		}
		return State{Mode: ModeStrobe, Colour: colour, Speed: speed}, nil

	default:
		return State{}, fmt.Errorf("%w: unknown mode %q", ErrSchemaMismatch, mode)
	}
}

// MarshalJSON emits the wire shape of the active variant only.
func (s State) MarshalJSON() ([]byte, error) {
	switch s.Mode {
	case ModeColour:
		return json.Marshal(struct {
			Mode   Mode   `json:"mode"`
			Colour string `json:"colour"`
		}{s.Mode, s.Colour})
	case ModeRainbow:
		return json.Marshal(struct {
			Mode  Mode    `json:"mode"`
			Speed float64 `json:"speed"`
		}{s.Mode, s.Speed})
	case ModeStrobe:
		return json.Marshal(struct {
			Mode   Mode    `json:"mode"`
			Colour string  `json:"colour"`
			Speed  float64 `json:"speed"`
		}{s.Mode, s.Colour, s.Speed})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, s.Mode)
	}
}

// UnmarshalJSON applies the same strict variant validation as DecodeState.
// This keeps persisted snapshots and wire payloads under one set of rules.
func (s *State) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeState(data)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// Encode serialises the State to its wire form.
func (s State) Encode() ([]byte, error) {
	return json.Marshal(s)
}
