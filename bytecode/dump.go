package bytecode

import (
	"github.com/fxamacker/cbor/v2"
)

// namedCell is satisfied by both scratch.Variable and scratch.List; the
// dump only ever needs their display name, not their value.
type namedCell interface {
	Name() string
}

// ConstDump is a cbor-friendly rendering of one pooled constant: value.Value
// carries unexported fields and cannot be marshaled directly, so the dump
// records its kind and string representation instead.
type ConstDump struct {
	Kind string `cbor:"kind"`
	Repr string `cbor:"repr"`
}

// ScriptDump is the cbor-serializable form of a Script's pools, used by
// `scratchvm -dump` for offline bytecode inspection. It never round-trips
// back into a Script: it exists purely for a human or another tool to read.
type ScriptDump struct {
	Name       string      `cbor:"name"`
	Code       []uint32    `cbor:"code"`
	Constants  []ConstDump `cbor:"constants"`
	Variables  []string    `cbor:"variables"`
	Lists      []string    `cbor:"lists"`
	Procedures []Procedure `cbor:"procedures"`
}

// Dump renders s into its cbor-serializable form.
func (s *Script) Dump() ScriptDump {
	d := ScriptDump{
		Name:       s.Name,
		Code:       s.Code,
		Procedures: s.Procedures,
	}
	for _, c := range s.Constants {
		d.Constants = append(d.Constants, ConstDump{Kind: c.Kind().String(), Repr: c.ToString()})
	}
	for _, v := range s.Variables {
		if n, ok := v.(namedCell); ok {
			d.Variables = append(d.Variables, n.Name())
		} else {
			d.Variables = append(d.Variables, "?")
		}
	}
	for _, l := range s.Lists {
		if n, ok := l.(namedCell); ok {
			d.Lists = append(d.Lists, n.Name())
		} else {
			d.Lists = append(d.Lists, "?")
		}
	}
	return d
}

// MarshalCBOR encodes s's pools (not its raw Code alone, but the full
// dump-friendly view) as CBOR, for `scratchvm -dump`.
func (s *Script) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(s.Dump())
}
