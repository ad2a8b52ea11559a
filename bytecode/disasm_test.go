package bytecode

import (
	"strings"
	"testing"

	"github.com/chazu/maggie/value"
)

func TestDisassembleListsInstructionsAndConstants(t *testing.T) {
	s := NewScript("event_whenflagclicked")
	idx := s.ConstIndex(value.Int(42))
	s.Emit(OpStart)
	s.Emit(OpConst, idx)
	s.Emit(OpHalt)

	out := s.Disassemble()

	if !strings.Contains(out, "event_whenflagclicked") {
		t.Errorf("disassembly missing name header:\n%s", out)
	}
	if !strings.Contains(out, "CONST") {
		t.Errorf("disassembly missing CONST mnemonic:\n%s", out)
	}
	if !strings.Contains(out, "42") {
		t.Errorf("disassembly missing constant pool dump:\n%s", out)
	}
	if !strings.Contains(out, "HALT") {
		t.Errorf("disassembly missing HALT mnemonic:\n%s", out)
	}
}
