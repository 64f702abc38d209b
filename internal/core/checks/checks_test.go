package checks

import "testing"

type thing struct{}

func (*thing) Do() {}

type doer interface{ Do() }

func TestIsNil(t *testing.T) {
	var typedNil *thing
	var iface doer = typedNil
	var fn func()

	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"untyped nil", nil, true},
		{"typed nil pointer", typedNil, true},
		{"interface holding nil", iface, true},
		{"nil func", fn, true},
		{"nil map", map[string]int(nil), true},
		{"value", thing{}, false},
		{"pointer", &thing{}, false},
		{"int", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNil(tt.in); got != tt.want {
				t.Fatalf("IsNil(%#v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
