package health

import (
	"bytes"
	"errors"
	"testing"

	"github.com/distatus/battery"
)

func TestFromBattery(t *testing.T) {
	tests := []struct {
		name       string
		bat        *battery.Battery
		wantKnown  bool
		wantFull   float64
		wantCharge float64
	}{
		{
			name:       "worn",
			bat:        &battery.Battery{State: battery.Discharging, Current: 40000, Full: 80000, Design: 100000},
			wantKnown:  true,
			wantFull:   80,
			wantCharge: 50,
		},
		{
			name:      "no design capacity",
			bat:       &battery.Battery{State: battery.Full, Current: 50000, Full: 50000},
			wantKnown: false,
			// Current equals Full.
			wantCharge: 100,
		},
		{
			name: "nothing reported",
			bat:  &battery.Battery{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := FromBattery(0, tt.bat)
			if h.Known != tt.wantKnown {
				t.Fatalf("Known = %v, want %v", h.Known, tt.wantKnown)
			}
			if h.FullPercent != tt.wantFull {
				t.Errorf("FullPercent = %v, want %v", h.FullPercent, tt.wantFull)
			}
			if h.ChargePercent != tt.wantCharge {
				t.Errorf("ChargePercent = %v, want %v", h.ChargePercent, tt.wantCharge)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	partial := errors.New("partial")
	tests := []struct {
		name    string
		get     GetterFunc
		want    int
		wantErr bool
	}{
		{
			name: "all readable",
			get: func() ([]*battery.Battery, error) {
				return []*battery.Battery{{Full: 1, Design: 1}, {Full: 1, Design: 2}}, nil
			},
			want: 2,
		},
		{
			name: "partial failure skips nil entries",
			get: func() ([]*battery.Battery, error) {
				return []*battery.Battery{nil, {Full: 1, Design: 1}}, partial
			},
			want: 1,
		},
		{
			name: "total failure",
			get: func() ([]*battery.Battery, error) {
				return nil, partial
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs, err := Collect(tt.get)
			if tt.wantErr {
				if !errors.Is(err, partial) {
					t.Fatalf("Collect() error = %v, want %v", err, partial)
				}
				return
			}
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if len(hs) != tt.want {
				t.Fatalf("len(Collect()) = %d, want %d", len(hs), tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	hs := []Health{
		{Index: 0, State: battery.Discharging, FullPercent: 92.34, ChargePercent: 50, Known: true},
		{Index: 1, State: battery.Charging, ChargePercent: 10},
	}

	var buf bytes.Buffer
	if err := Render(&buf, hs); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "battery 0: health 92.3%, charge 50.0% (Discharging)\n" +
		"battery 1: health unknown, charge 10.0% (Charging)\n"
	if buf.String() != want {
		t.Fatalf("Render() = %q, want %q", buf.String(), want)
	}
}
