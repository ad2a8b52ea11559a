package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable instruction listing.
func (s *Script) Disassemble() string {
	return s.DisassembleWithName(s.Name)
}

// DisassembleWithName returns a human-readable instruction listing under a
// name header, in the style of a debugger's raw dump: offset, mnemonic, and
// the raw argument words. Operands are not resolved against the pools; the
// constant pool and procedure table are listed in the header instead.
func (s *Script) DisassembleWithName(name string) string {
	var b strings.Builder

	if name != "" {
		fmt.Fprintf(&b, "; === %s ===\n", name)
	}
	if len(s.Constants) > 0 {
		fmt.Fprintf(&b, "; Constants:\n")
		for i, c := range s.Constants {
			fmt.Fprintf(&b, ";   [%d] %s\n", i, c.ToString())
		}
	}
	if len(s.Variables) > 0 {
		fmt.Fprintf(&b, "; Variables: %d\n", len(s.Variables))
	}
	if len(s.Lists) > 0 {
		fmt.Fprintf(&b, "; Lists: %d\n", len(s.Lists))
	}
	if len(s.Procedures) > 0 {
		fmt.Fprintf(&b, "; Procedures:\n")
		for i, p := range s.Procedures {
			fmt.Fprintf(&b, ";   [%d] %s(%s) @%d\n", i, p.ProcCode, strings.Join(p.ArgNames, ", "), p.EntryOffset)
		}
	}
	b.WriteString("\n")

	ip := uint32(0)
	for ip < uint32(len(s.Code)) {
		op := Opcode(s.Code[ip])
		arity := op.Arity()
		fmt.Fprintf(&b, "%04d  %-14s", ip, op.String())
		for i := 0; i < arity; i++ {
			fmt.Fprintf(&b, " %d", s.Code[ip+1+uint32(i)])
		}
		b.WriteString("\n")
		ip += uint32(1 + arity)
	}

	return b.String()
}
