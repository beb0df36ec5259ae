package lighting

import (
	"errors"
	"testing"
)

// =============================================================================
// DecodeState Tests
// =============================================================================

func TestDecodeState_ValidVariants(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    State
	}{
		{
			name:    "colour",
			payload: `{"mode":"colour","colour":"#ff0000"}`,
			want:    State{Mode: ModeColour, Colour: "#ff0000"},
		},
		{
			name:    "rainbow",
			payload: `{"mode":"rainbow","speed":3}`,
			want:    State{Mode: ModeRainbow, Speed: 3},
		},
		{
			name:    "rainbow fractional speed",
			payload: `{"mode":"rainbow","speed":2.5}`,
			want:    State{Mode: ModeRainbow, Speed: 2.5},
		},
		{
			name:    "strobe",
			payload: `{"mode":"strobe","colour":"#00ff00","speed":12}`,
			want:    State{Mode: ModeStrobe, Colour: "#00ff00", Speed: 12},
		},
		{
			name:    "extra fields ignored",
			payload: `{"mode":"colour","colour":"#ffffff","brightness":50}`,
			want:    State{Mode: ModeColour, Colour: "#ffffff"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeState([]byte(tt.payload))
			if err != nil {
				t.Fatalf("DecodeState() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeState() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeState_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: ""},
		{name: "truncated object", payload: `{"mode":"colour","col`},
		{name: "garbage", payload: "\x00\x01\x02"},
		{name: "bare word", payload: "colour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeState([]byte(tt.payload))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("DecodeState() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecodeState_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "missing mode", payload: `{"colour":"#ff0000"}`},
		{name: "unknown mode", payload: `{"mode":"disco","speed":5}`},
		{name: "numeric mode", payload: `{"mode":7,"speed":5}`},
		{name: "colour missing colour field", payload: `{"mode":"colour"}`},
		{name: "colour with numeric colour", payload: `{"mode":"colour","colour":255}`},
		{name: "rainbow missing speed", payload: `{"mode":"rainbow"}`},
		{name: "rainbow with string speed", payload: `{"mode":"rainbow","speed":"3"}`},
		{name: "strobe missing speed", payload: `{"mode":"strobe","colour":"#ff0000"}`},
		{name: "strobe missing colour", payload: `{"mode":"strobe","speed":5}`},
		{name: "json array", payload: `[1,2,3]`},
		{name: "json string", payload: `"rainbow"`},
		{name: "json null", payload: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeState([]byte(tt.payload))
			if !errors.Is(err, ErrSchemaMismatch) {
				t.Errorf("DecodeState() error = %v, want ErrSchemaMismatch", err)
			}
		})
	}
}

// =============================================================================
// Round-trip Tests
// =============================================================================

func TestStateRoundTrip(t *testing.T) {
	states := []State{
		{Mode: ModeColour, Colour: "#123456"},
		{Mode: ModeRainbow, Speed: 7},
		{Mode: ModeStrobe, Colour: "#abcdef", Speed: 19},
	}

	for _, want := range states {
		t.Run(string(want.Mode), func(t *testing.T) {
			data, err := want.Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			got, err := DecodeState(data)
			if err != nil {
				t.Fatalf("DecodeState() error = %v", err)
			}

			if got != want {
				t.Errorf("round trip = %+v, want %+v", got, want)
			}
		})
	}
}

func TestEncode_ColourOmitsSpeed(t *testing.T) {
	data, err := State{Mode: ModeColour, Colour: "#ff0000", Speed: 99}.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if string(data) != `{"mode":"colour","colour":"#ff0000"}` {
		t.Errorf("Encode() = %s, want variant fields only", data)
	}
}

func TestEncode_UnknownMode(t *testing.T) {
	_, err := State{Mode: "disco"}.Encode()
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Encode() error = %v, want ErrUnknownMode", err)
	}
}

// =============================================================================
// Default Tests
// =============================================================================

func TestDefault(t *testing.T) {
	tests := []struct {
		mode Mode
		want State
		ok   bool
	}{
		{ModeColour, State{Mode: ModeColour, Colour: "#ffff00"}, true},
		{ModeRainbow, State{Mode: ModeRainbow, Speed: 5}, true},
		{ModeStrobe, State{Mode: ModeStrobe, Colour: "#ffff00", Speed: 10}, true},
		{"disco", State{}, false},
		{"", State{}, false},
	}

	for _, tt := range tests {
		got, ok := Default(tt.mode)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Default(%q) = %+v, %v; want %+v, %v", tt.mode, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDefaults_RoundTrip(t *testing.T) {
	// Every default must itself be encodable and decode back unchanged.
	for _, mode := range []Mode{ModeColour, ModeRainbow, ModeStrobe} {
		want, ok := Default(mode)
		if !ok {
			t.Fatalf("Default(%q) not ok", mode)
		}

		data, err := want.Encode()
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		got, err := DecodeState(data)
		if err != nil {
			t.Fatalf("DecodeState() error = %v", err)
		}
		if got != want {
			t.Errorf("default %q round trip = %+v, want %+v", mode, got, want)
		}
	}
}
