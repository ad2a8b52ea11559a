package bytecode

import (
	"testing"

	"github.com/chazu/maggie/value"
)

func TestScriptEmitAndPatch(t *testing.T) {
	s := NewScript("test")
	jumpAt := s.Emit(OpIf, 0)
	s.Emit(OpEndIf)
	s.PatchArg(jumpAt, 0, uint32(len(s.Code)))

	if got := s.Code[jumpAt+1]; got != uint32(len(s.Code)) {
		t.Errorf("patched jump target = %d, want %d", got, len(s.Code))
	}
}

func TestScriptVariableIndexDedup(t *testing.T) {
	s := NewScript("test")
	v := &fakeVar{v: value.Int(0)}
	i1 := s.VariableIndex(v)
	i2 := s.VariableIndex(v)
	if i1 != i2 {
		t.Errorf("re-adding the same variable produced different indices: %d != %d", i1, i2)
	}
	if len(s.Variables) != 1 {
		t.Errorf("pool has %d entries, want 1", len(s.Variables))
	}
}

func TestScriptProcedureIndexRegistersOnFirstReference(t *testing.T) {
	s := NewScript("test")
	i1 := s.ProcedureIndex("go %n")
	i2 := s.ProcedureIndex("go %n")
	if i1 != i2 {
		t.Errorf("re-referencing the same proc code produced different indices")
	}

	s.Procedures[i1].ArgNames = []string{"n"}
	if got := s.ProcedureArgIndex("go %n", "n"); got != 0 {
		t.Errorf("ProcedureArgIndex = %d, want 0", got)
	}
	if got := s.ProcedureArgIndex("go %n", "missing"); got != -1 {
		t.Errorf("ProcedureArgIndex for missing arg = %d, want -1", got)
	}
	if got := s.ProcedureArgIndex("unknown", "n"); got != -1 {
		t.Errorf("ProcedureArgIndex for missing proc = %d, want -1", got)
	}
}
