package scratch

import "github.com/chazu/maggie/value"

// InputType distinguishes how an Input's value is supplied (§3, GLOSSARY
// "Shadow input").
type InputType int

const (
	// InputShadow carries only a literal.
	InputShadow InputType = iota
	// InputNoShadow carries a reporter block; there is no literal fallback.
	InputNoShadow
	// InputObscuredShadow carries both a literal and (optionally) a reporter
	// that takes precedence when present.
	InputObscuredShadow
)

// InputValue is the literal payload of an Input (the reference's
// InputValue*). Constant pool de-duplication in the compiler keys on the
// pointer identity of this type (§4.2).
type InputValue struct {
	Value value.Value
}

// Input is (name, id, kind, primary-value, secondary-value, value-block) — §3.
type Input struct {
	name       string
	id         int
	kind       InputType
	primary    *InputValue
	secondary  *InputValue
	valueBlock *Block
}

// NewInput constructs an Input of the given kind with no primary value,
// secondary value, or value block set.
func NewInput(name string, id int, kind InputType) *Input {
	return &Input{name: name, id: id, kind: kind}
}

func (i *Input) Name() string   { return i.name }
func (i *Input) Id() int        { return i.id }
func (i *Input) Type() InputType { return i.kind }

func (i *Input) PrimaryValue() *InputValue   { return i.primary }
func (i *Input) SetPrimaryValue(v *InputValue) { i.primary = v }
func (i *Input) SecondaryValue() *InputValue { return i.secondary }
func (i *Input) SetSecondaryValue(v *InputValue) { i.secondary = v }

func (i *Input) ValueBlock() *Block         { return i.valueBlock }
func (i *Input) SetValueBlock(b *Block)     { i.valueBlock = b }

// Field is (name, id, string value, pointer to linked entity, special-value
// id) — §3.
type Field struct {
	name        string
	id          int
	value       string
	linkedEntity Entity
	specialValueId int
}

// NewField constructs a Field.
func NewField(name string, id int, val string) *Field {
	return &Field{name: name, id: id, value: val, specialValueId: -1}
}

func (f *Field) Name() string             { return f.name }
func (f *Field) Id() int                  { return f.id }
func (f *Field) Value() string            { return f.value }
func (f *Field) SetValue(v string)        { f.value = v }
func (f *Field) LinkedEntity() Entity     { return f.linkedEntity }
func (f *Field) SetLinkedEntity(e Entity) { f.linkedEntity = e }
func (f *Field) SpecialValueId() int      { return f.specialValueId }
func (f *Field) SetSpecialValueId(id int) { f.specialValueId = id }

// BlockPrototype describes a custom block's call signature (procedure code
// plus argument names/defaults), used at call sites and while compiling the
// definition (§4.2 "Procedures").
type BlockPrototype struct {
	ProcCode  string
	ArgNames  []string
	Warp      bool
}

// Block owns a stable string id, an opcode, ordered inputs/fields,
// parent/next references, and a compile function pointer set during
// registry lookup — §3.
type Block struct {
	entity
	opcode        string
	inputs        []*Input
	inputByID     map[int]*Input
	fields        []*Field
	fieldByID     map[int]*Field
	next          *Block
	nextID        string
	parent        *Block
	parentID      string
	shadow        bool
	topLevel      bool
	isTopLevelReporter bool
	compileFn     BlockComp
	engine        IEngine
	target        ITarget
	mutation      *BlockPrototype
	mutationHasNext bool
}

// BlockComp is the compile function assigned to a Block by the section
// registry (§4.1). It is invoked with the Compiler contract, matching the
// reference's BlockComp function-pointer field.
type BlockComp func(c Compiler, b *Block)

// NewBlock constructs a Block with the given stable id and opcode.
func NewBlock(id, opcode string) *Block {
	return &Block{
		entity:          entity{id: id},
		opcode:          opcode,
		inputByID:       make(map[int]*Input),
		fieldByID:       make(map[int]*Field),
		mutationHasNext: true,
	}
}

func (b *Block) Opcode() string { return b.opcode }

func (b *Block) Next() *Block          { return b.next }
func (b *Block) NextId() string        { return b.nextID }
func (b *Block) SetNext(n *Block)      { b.next = n }
func (b *Block) SetNextId(id string)   { b.nextID = id }

func (b *Block) Parent() *Block        { return b.parent }
func (b *Block) ParentId() string      { return b.parentID }
func (b *Block) SetParent(p *Block)    { b.parent = p }
func (b *Block) SetParentId(id string) { b.parentID = id }

func (b *Block) Inputs() []*Input { return b.inputs }

// AddInput appends an input and returns its index.
func (b *Block) AddInput(in *Input) int {
	b.inputs = append(b.inputs, in)
	return len(b.inputs) - 1
}

func (b *Block) InputAt(i int) *Input {
	if i < 0 || i >= len(b.inputs) {
		return nil
	}
	return b.inputs[i]
}

func (b *Block) FindInput(name string) int {
	for i, in := range b.inputs {
		if in.Name() == name {
			return i
		}
	}
	return -1
}

// FindInputById resolves an input by its section-assigned numeric id (§4.1).
// Registration is last-writer-wins, so UpdateInputMap must be re-run any
// time inputs are mutated after load.
func (b *Block) FindInputById(id int) *Input { return b.inputByID[id] }

// UpdateInputMap rebuilds the id->Input lookup table.
func (b *Block) UpdateInputMap() {
	b.inputByID = make(map[int]*Input, len(b.inputs))
	for _, in := range b.inputs {
		b.inputByID[in.Id()] = in
	}
}

func (b *Block) Fields() []*Field { return b.fields }

func (b *Block) AddField(f *Field) int {
	b.fields = append(b.fields, f)
	return len(b.fields) - 1
}

func (b *Block) FieldAt(i int) *Field {
	if i < 0 || i >= len(b.fields) {
		return nil
	}
	return b.fields[i]
}

func (b *Block) FindField(name string) int {
	for i, f := range b.fields {
		if f.Name() == name {
			return i
		}
	}
	return -1
}

func (b *Block) FindFieldById(id int) *Field { return b.fieldByID[id] }

func (b *Block) UpdateFieldMap() {
	b.fieldByID = make(map[int]*Field, len(b.fields))
	for _, f := range b.fields {
		b.fieldByID[f.Id()] = f
	}
}

func (b *Block) Shadow() bool         { return b.shadow }
func (b *Block) SetShadow(s bool)     { b.shadow = s }

func (b *Block) TopLevel() bool       { return b.topLevel }
func (b *Block) SetTopLevel(t bool)   { b.topLevel = t }

func (b *Block) IsTopLevelReporter() bool     { return b.isTopLevelReporter }
func (b *Block) SetIsTopLevelReporter(v bool) { b.isTopLevelReporter = v }

func (b *Block) Engine() IEngine     { return b.engine }
func (b *Block) SetEngine(e IEngine) { b.engine = e }

func (b *Block) Target() ITarget     { return b.target }
func (b *Block) SetTarget(t ITarget) { b.target = t }

func (b *Block) CompileFunction() BlockComp     { return b.compileFn }
func (b *Block) SetCompileFunction(f BlockComp) { b.compileFn = f }

// Compile invokes the block's registered compile function against c. A
// missing compile function is a project-structural error (§7): the caller
// is expected to have checked CompileFunction() != nil and logged a warning
// first (this mirrors the reference, which checks before calling).
func (b *Block) Compile(c Compiler) {
	if b.compileFn != nil {
		b.compileFn(c, b)
	}
}

func (b *Block) MutationPrototype() *BlockPrototype {
	if b.mutation == nil {
		b.mutation = &BlockPrototype{}
	}
	return b.mutation
}

func (b *Block) MutationHasNext() bool     { return b.mutationHasNext }
func (b *Block) SetMutationHasNext(v bool) { b.mutationHasNext = v }
