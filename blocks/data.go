package blocks

import (
	"strings"

	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

// registerData wires the variable and list families to the VM's dedicated
// OpReadVar/OpSetVar/... and OpReadList/OpListAppend/... instructions
// rather than to OpExec, matching how the instruction set itself carves
// out variable and list access as first-class opcodes (§4.3).
func registerData(r *compiler.Registry) {
	r.RegisterCompile("data_variable", compileReadVariable)
	r.RegisterCompile("data_setvariableto", compileSetVariable)
	r.RegisterCompile("data_changevariableby", compileChangeVariable)

	r.RegisterCompile("data_addtolist", compileListAppend)
	r.RegisterCompile("data_deleteoflist", compileListDelete)
	r.RegisterCompile("data_deletealloflist", compileListDeleteAll)
	r.RegisterCompile("data_insertatlist", compileListInsert)
	r.RegisterCompile("data_replaceitemoflist", compileListReplace)
	r.RegisterCompile("data_itemoflist", compileListItem)
	r.RegisterCompile("data_itemnumoflist", compileListItemNum)
	r.RegisterCompile("data_lengthoflist", compileListLength)
	r.RegisterCompile("data_listcontainsitem", compileListContains)
	r.RegisterCompile("data_listcontents", compileListContents)
}

func compileReadVariable(c scratch.Compiler, b *scratch.Block) {
	v := resolveVariable(c, "VARIABLE")
	if v == nil {
		c.Warnf("data_variable: %s has no resolvable VARIABLE field", b.Id())
		c.AddInstruction(bytecode.OpNull)
		return
	}
	c.AddInstruction(bytecode.OpReadVar, uint32(c.VariableIndex(v)))
}

func compileSetVariable(c scratch.Compiler, b *scratch.Block) {
	v := resolveVariable(c, "VARIABLE")
	if v == nil {
		c.Warnf("data_setvariableto: %s has no resolvable VARIABLE field", b.Id())
		return
	}
	compileInput(c, "VALUE")
	c.AddInstruction(bytecode.OpSetVar, uint32(c.VariableIndex(v)))
}

func compileChangeVariable(c scratch.Compiler, b *scratch.Block) {
	v := resolveVariable(c, "VARIABLE")
	if v == nil {
		c.Warnf("data_changevariableby: %s has no resolvable VARIABLE field", b.Id())
		return
	}
	compileInput(c, "VALUE")
	c.AddInstruction(bytecode.OpChangeVar, uint32(c.VariableIndex(v)))
}

func listIndexOrWarn(c scratch.Compiler, opcode string, b *scratch.Block) (uint32, bool) {
	l := resolveList(c, "LIST")
	if l == nil {
		c.Warnf("%s: %s has no resolvable LIST field", opcode, b.Id())
		return 0, false
	}
	return uint32(c.ListIndex(l)), true
}

func compileListAppend(c scratch.Compiler, b *scratch.Block) {
	idx, ok := listIndexOrWarn(c, "data_addtolist", b)
	if !ok {
		return
	}
	compileInput(c, "ITEM")
	c.AddInstruction(bytecode.OpListAppend, idx)
}

func compileListDelete(c scratch.Compiler, b *scratch.Block) {
	idx, ok := listIndexOrWarn(c, "data_deleteoflist", b)
	if !ok {
		return
	}
	compileInput(c, "INDEX")
	c.AddInstruction(bytecode.OpListDel, idx)
}

func compileListDeleteAll(c scratch.Compiler, b *scratch.Block) {
	idx, ok := listIndexOrWarn(c, "data_deletealloflist", b)
	if !ok {
		return
	}
	c.AddInstruction(bytecode.OpListDelAll, idx)
}

// compileListInsert pushes ITEM then INDEX, so INDEX — needed first — sits
// on top of the register stack for OpListInsert's pop order (§4.3).
func compileListInsert(c scratch.Compiler, b *scratch.Block) {
	idx, ok := listIndexOrWarn(c, "data_insertatlist", b)
	if !ok {
		return
	}
	compileInput(c, "ITEM")
	compileInput(c, "INDEX")
	c.AddInstruction(bytecode.OpListInsert, idx)
}

func compileListReplace(c scratch.Compiler, b *scratch.Block) {
	idx, ok := listIndexOrWarn(c, "data_replaceitemoflist", b)
	if !ok {
		return
	}
	compileInput(c, "ITEM")
	compileInput(c, "INDEX")
	c.AddInstruction(bytecode.OpListReplace, idx)
}

func compileListItem(c scratch.Compiler, b *scratch.Block) {
	idx, ok := listIndexOrWarn(c, "data_itemoflist", b)
	if !ok {
		c.AddInstruction(bytecode.OpNull)
		return
	}
	compileInput(c, "INDEX")
	c.AddInstruction(bytecode.OpListGetItem, idx)
}

func compileListItemNum(c scratch.Compiler, b *scratch.Block) {
	idx, ok := listIndexOrWarn(c, "data_itemnumoflist", b)
	if !ok {
		c.AddInstruction(bytecode.OpNull)
		return
	}
	compileInput(c, "ITEM")
	c.AddInstruction(bytecode.OpListIndexOf, idx)
}

func compileListLength(c scratch.Compiler, b *scratch.Block) {
	idx, ok := listIndexOrWarn(c, "data_lengthoflist", b)
	if !ok {
		c.AddInstruction(bytecode.OpNull)
		return
	}
	c.AddInstruction(bytecode.OpListLength, idx)
}

func compileListContains(c scratch.Compiler, b *scratch.Block) {
	idx, ok := listIndexOrWarn(c, "data_listcontainsitem", b)
	if !ok {
		c.AddInstruction(bytecode.OpNull)
		return
	}
	compileInput(c, "ITEM")
	c.AddInstruction(bytecode.OpListContains, idx)
}

// compileListContents has no dedicated opcode — unlike every other list
// block here, joining a whole list into one displayable string is rare
// enough on the hot path that it goes through OpExec instead of growing
// the instruction set, closing over the resolved List directly (§4.1).
func compileListContents(c scratch.Compiler, b *scratch.Block) {
	l := resolveList(c, "LIST")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		if l == nil {
			vm.Push(value.Empty())
			return 1
		}
		items := l.Values()
		parts := make([]string, len(items))
		for i, v := range items {
			parts[i] = v.ToString()
		}
		vm.Push(value.String(strings.Join(parts, " ")))
		return 1
	})
}
