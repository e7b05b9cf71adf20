package pinmap

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testBSDL = `
-- Test device, two packages
entity XC7TEST is
  generic (PHYSICAL_PIN_MAP : string := "FG256");

  port (
    CLK : in bit;
    LED : out bit_vector(0 to 1);
    TCK : in bit
  );

  use STD_1149_1_2001.all;

  attribute COMPONENT_CONFORMANCE of XC7TEST : entity is "STD_1149_1_2001";
  attribute PIN_MAP of XC7TEST : entity is PHYSICAL_PIN_MAP;

  constant FG256 : PIN_MAP_STRING :=
    "CLK : P14, " &
    "LED : (A3, B4), " & -- vector port
    "TCK : C1";

  constant CS324 : PIN_MAP_STRING := "CLK:U9,LED:(V1,V2),TCK:W1,";

  attribute TAP_SCAN_CLOCK of TCK : signal is (50.0e6, BOTH);
end XC7TEST;
`

func TestReadBSDL(t *testing.T) {
	dev, err := ReadBSDL("test.bsd", strings.NewReader(testBSDL))
	if err != nil {
		t.Fatalf("ReadBSDL failed: %v", err)
	}

	if dev.Entity != "XC7TEST" {
		t.Errorf("Entity = %q, want XC7TEST", dev.Entity)
	}
	if dev.DefaultPackage != "FG256" {
		t.Errorf("DefaultPackage = %q, want FG256", dev.DefaultPackage)
	}
	if len(dev.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(dev.Packages))
	}

	want := []*PortPins{
		{Port: "CLK", Pins: []string{"P14"}},
		{Port: "LED", Pins: []string{"A3", "B4"}},
		{Port: "TCK", Pins: []string{"C1"}},
	}
	if diff := cmp.Diff(want, dev.Packages[0].Entries); diff != "" {
		t.Errorf("FG256 entries mismatch (-want +got):\n%s", diff)
	}
	if dev.Packages[1].Name != "CS324" || len(dev.Packages[1].Entries) != 3 {
		t.Errorf("unexpected second package: %+v", dev.Packages[1])
	}
}

func TestDevicePinMap(t *testing.T) {
	dev, err := ReadBSDL("test.bsd", strings.NewReader(testBSDL))
	if err != nil {
		t.Fatalf("ReadBSDL failed: %v", err)
	}

	tests := []struct {
		name string
		pkg  string
		key  Key
		want PinMap
	}{
		{
			name: "default package keyed by pin",
			want: PinMap{"U1": {"P14": "P14", "A3": "A3", "B4": "B4", "C1": "C1"}},
		},
		{
			name: "default package keyed by port",
			key:  KeyPort,
			want: PinMap{"U1": {"CLK": "P14", "LED(0)": "A3", "LED(1)": "B4", "TCK": "C1"}},
		},
		{
			name: "explicit package",
			pkg:  "cs324",
			key:  KeyPort,
			want: PinMap{"U1": {"CLK": "U9", "LED(0)": "V1", "LED(1)": "V2", "TCK": "W1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dev.PinMap("U1", tt.pkg, tt.key)
			if err != nil {
				t.Fatalf("PinMap failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("pin map mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := dev.PinMap("U1", "TQ144", KeyPin); !errors.Is(err, ErrNoPinMap) {
		t.Errorf("unknown package should fail with ErrNoPinMap, got %v", err)
	}
	if _, err := dev.PinMap("U1", "", Key("ball")); err == nil {
		t.Error("unknown key should fail")
	}
}

func TestDevicePackageSelection(t *testing.T) {
	single := &Device{Entity: "X", Packages: []*PackageMap{{Name: "ONLY"}}}
	if p, err := single.Package(""); err != nil || p.Name != "ONLY" {
		t.Errorf("single package should be selected, got %v, %v", p, err)
	}

	multi := &Device{Entity: "X", Packages: []*PackageMap{{Name: "A"}, {Name: "B"}}}
	if _, err := multi.Package(""); err == nil {
		t.Error("ambiguous package selection should fail")
	}
}

func TestReadBSDLWithoutPinMap(t *testing.T) {
	input := `entity EMPTY is
  attribute INSTRUCTION_LENGTH of EMPTY : entity is 5;
end EMPTY;`

	_, err := ReadBSDL("empty.bsd", strings.NewReader(input))
	if !errors.Is(err, ErrNoPinMap) {
		t.Errorf("expected ErrNoPinMap, got %v", err)
	}
}

func TestReadBSDLSyntaxError(t *testing.T) {
	input := `entity BROKEN is
  constant PKG : PIN_MAP_STRING := "CLK : P14"
end BROKEN;`

	_, err := ReadBSDL("broken.bsd", strings.NewReader(input))
	if err == nil {
		t.Fatal("missing semicolon should fail")
	}
	if !strings.Contains(err.Error(), "broken.bsd") {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestParsePinMapString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []*PortPins
		wantErr bool
	}{
		{
			name:  "scalar ports",
			input: "PA0:14, PA1 : 15",
			want: []*PortPins{
				{Port: "PA0", Pins: []string{"14"}},
				{Port: "PA1", Pins: []string{"15"}},
			},
		},
		{
			name:  "trailing comma",
			input: "PA0:14,",
			want:  []*PortPins{{Port: "PA0", Pins: []string{"14"}}},
		},
		{
			name:  "vector port",
			input: "D:(1, 2 ,3)",
			want:  []*PortPins{{Port: "D", Pins: []string{"1", "2", "3"}}},
		},
		{name: "empty", input: " , ", wantErr: true},
		{name: "missing pin", input: "PA0:", wantErr: true},
		{name: "unclosed vector", input: "D:(1,2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePinMapString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePinMapString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
