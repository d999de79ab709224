package ir

import (
	"math"

	"github.com/tliron/commonlog"

	"carlos/internal/ast"
	"carlos/internal/errors"
	"carlos/internal/stdlib"
)

const (
	DefaultWordSize   = 4
	DefaultDoubleSize = 8
)

// Builder translates an analyzed program into Squid subroutines
type Builder struct {
	wordSize   int
	doubleSize int
	logger     commonlog.Logger

	names       *NameGenerator
	vars        map[*ast.Variable]*Var
	subroutines map[*ast.Function]*UserSubroutine
	offsets     map[*ast.StructField]int
	externals   map[string]*ExternalSubroutine
}

// NewBuilder creates a builder for a target with the given sizes in bytes.
// A zero size selects the default.
func NewBuilder(wordSize, doubleSize int) *Builder {
	if wordSize <= 0 {
		wordSize = DefaultWordSize
	}
	if doubleSize <= 0 {
		doubleSize = DefaultDoubleSize
	}
	return &Builder{
		wordSize:   wordSize,
		doubleSize: doubleSize,
		logger:     commonlog.GetLogger("carlos.ir"),
	}
}

// Translate is shorthand for translating with the default sizes.
func Translate(program *ast.Program) (*UserSubroutine, error) {
	return NewBuilder(DefaultWordSize, DefaultDoubleSize).Translate(program)
}

// loop carries the jump targets of the innermost enclosing loop.
type loop struct {
	continuePoint *Label
	exitPoint     *Label
	exited        bool
}

// state is the subroutine being filled plus the innermost loop, if any.
// Each loop derives its own state so a break never leaves more than one
// loop.
type state struct {
	subroutine *UserSubroutine
	loop       *loop
}

func (s state) emit(op Op, args ...Operand) {
	s.subroutine.Emit(op, args...)
}

func (s state) inLoop(continuePoint, exitPoint *Label) state {
	return state{subroutine: s.subroutine, loop: &loop{continuePoint: continuePoint, exitPoint: exitPoint}}
}

// Translate lowers program into a main subroutine. Every function reachable
// from main is a subroutine reachable through its callees. An entity the
// builder has no translation for aborts with an *errors.InternalError.
func (b *Builder) Translate(program *ast.Program) (main *UserSubroutine, err error) {
	b.names = NewNameGenerator()
	b.vars = make(map[*ast.Variable]*Var)
	b.subroutines = make(map[*ast.Function]*UserSubroutine)
	b.offsets = make(map[*ast.StructField]int)
	b.externals = make(map[string]*ExternalSubroutine)

	defer func() {
		if r := recover(); r != nil {
			internal, ok := r.(*errors.InternalError)
			if !ok {
				panic(r)
			}
			b.logger.Errorf("%s", internal)
			main, err = nil, internal
		}
	}()

	main = b.newSubroutine(nil)
	s := state{subroutine: main}
	b.block(program.Block, s)
	s.emit(EXIT)

	b.logger.Debugf("translated %d subroutines", len(main.Reachable()))
	return main, nil
}

func fail(pos ast.Position, format string, args ...interface{}) {
	panic(errors.NewInternalErrorSkip(1, pos, format, args...))
}

// sizeof is the number of bytes a value of t occupies. Everything except a
// real is one word: arrays, strings and structs are references.
func (b *Builder) sizeof(t *ast.Type) int {
	if t == ast.Real {
		return b.doubleSize
	}
	return b.wordSize
}

func (b *Builder) newVar(level int, t *ast.Type) *Var {
	if t == ast.Real {
		return &Var{Name: b.names.Next(prefixRealVar), Level: level, Float: true}
	}
	return &Var{Name: b.names.Next(prefixIntVar), Level: level}
}

func (b *Builder) temporary(float bool) *Temporary {
	if float {
		return &Temporary{Name: b.names.Next(prefixRealTemp), Float: true}
	}
	return &Temporary{Name: b.names.Next(prefixTemporary)}
}

func (b *Builder) temporaryFor(t *ast.Type) *Temporary {
	return b.temporary(t == ast.Real)
}

func (b *Builder) address(t *ast.Type) *AddressTemporary {
	return &AddressTemporary{Name: b.names.Next(prefixTemporary), ReferencesFloat: t == ast.Real}
}

func (b *Builder) label() *Label {
	return &Label{Name: b.names.Next(prefixLabel)}
}

func (b *Builder) stringConstant(values []rune) *StringConstant {
	return &StringConstant{Name: b.names.Next(prefixString), Values: values}
}

func (b *Builder) newSubroutine(parent *UserSubroutine) *UserSubroutine {
	return NewUserSubroutine(b.names.Next(prefixSubroutine), parent)
}

func (b *Builder) external(name string) *ExternalSubroutine {
	e, ok := b.externals[name]
	if !ok {
		e = NewExternalSubroutine(name)
		b.externals[name] = e
	}
	return e
}

func (b *Builder) subroutine(f *ast.Function, pos ast.Position) Subroutine {
	switch f.Builtin {
	case ast.BuiltinSubstring:
		return b.external(stdlib.Substring)
	case ast.BuiltinGetString:
		return b.external(stdlib.GetString)
	case ast.NotBuiltin:
		if s, ok := b.subroutines[f]; ok {
			return s
		}
	}
	fail(pos, "no subroutine for function %s", f.Name)
	return nil
}

func (b *Builder) fieldOffset(f *ast.StructField, pos ast.Position) int {
	offset, ok := b.offsets[f]
	if !ok {
		fail(pos, "no offset for field %s", f.Name)
	}
	return offset
}

// translate lowers e into s. When rvalue is set and e denotes a storage
// location, the location is read into a fresh temporary; this is the only
// place an address turns into a value.
func (b *Builder) translate(e ast.Entity, s state, rvalue bool) Operand {
	result := b.dispatch(e, s)
	if addr, ok := result.(*AddressTemporary); ok && rvalue {
		t := b.temporary(addr.ReferencesFloat)
		s.emit(COPY_FROM_DEREF, addr, t)
		return t
	}
	return result
}

func (b *Builder) value(e ast.Expression, s state) Operand {
	return b.translate(e, s, true)
}

// coerce translates e as a value for a slot of type target, widening an
// int to a real where needed.
func (b *Builder) coerce(e ast.Expression, target *ast.Type, s state) Operand {
	x := b.value(e, s)
	if target == ast.Real && e.TypeOf() == ast.Int {
		f := b.temporary(true)
		s.emit(TO_FLOAT, x, f)
		return f
	}
	return x
}

func (b *Builder) dispatch(e ast.Entity, s state) Operand {
	switch e := e.(type) {
	case *ast.Block:
		b.block(e, s)
	case *ast.Declaration:
		b.declaration(e, s)
	case *ast.AssignmentStatement:
		b.assignment(e, s)
	case *ast.IncrementStatement:
		b.increment(e.Op, b.translate(e.Target, s, false), s)
	case *ast.CallStatement:
		b.call(e.Function, e.Args, nil, e.Pos, s)
	case *ast.BreakStatement:
		b.breakStatement(e, s)
	case *ast.ReturnStatement:
		b.returnStatement(e, s)
	case *ast.PrintStatement:
		for _, arg := range e.Args {
			s.emit(PRINT, b.stringOf(arg, s))
		}
	case *ast.IfStatement:
		b.ifStatement(e, s)
	case *ast.WhileStatement:
		b.whileStatement(e, s)
	case *ast.ClassicForStatement:
		b.forStatement(e, s)

	case *ast.IntegerLiteral:
		return Int(e.Value)
	case *ast.RealLiteral:
		return Real(e.Value)
	case *ast.CharLiteral:
		return Int(e.Value)
	case *ast.BooleanLiteral:
		return boolean(e.Value)
	case *ast.NullLiteral:
		return Int(0)
	case *ast.StringLiteral:
		return b.stringConstant(e.Values)
	case *ast.SimpleVariableReference:
		v, ok := b.vars[e.Referent]
		if !ok {
			fail(e.Pos, "variable %s has no storage", e.Name)
		}
		return v
	case *ast.SubscriptedVariable:
		return b.subscript(e, s)
	case *ast.DottedVariable:
		return b.dotted(e, s)
	case *ast.CallExpression:
		return b.callExpression(e, s)
	case *ast.PrefixExpression:
		return b.prefix(e, s)
	case *ast.PostfixExpression:
		return b.postfix(e, s)
	case *ast.InfixExpression:
		return b.infix(e, s)
	case *ast.ArrayAggregate:
		return b.arrayAggregate(e, s)
	case *ast.StructAggregate:
		return b.structAggregate(e, s)
	case *ast.EmptyArray:
		return b.emptyArray(e, s)

	default:
		fail(e.NodePos(), "no translation for %s", e.Kind())
	}
	return nil
}

func boolean(v bool) Int {
	if v {
		return 1
	}
	return 0
}

// block lays out the struct types and creates the subroutines of the
// functions declared in b before translating any statement, so calls may
// refer to functions declared later in the block.
func (b *Builder) block(block *ast.Block, s state) {
	for _, stmt := range block.Statements {
		decl, ok := stmt.(*ast.Declaration)
		if !ok {
			continue
		}
		switch d := decl.Declarable.(type) {
		case *ast.Type:
			offset := 0
			for _, f := range d.Fields {
				b.offsets[f] = offset
				offset += b.sizeof(f.Type)
			}
		case *ast.Function:
			b.subroutines[d] = b.newSubroutine(s.subroutine)
		}
	}

	for _, stmt := range block.Statements {
		b.translate(stmt, s, false)
	}
}

func (b *Builder) declaration(d *ast.Declaration, s state) {
	switch d := d.Declarable.(type) {
	case *ast.Variable:
		b.variable(d, s)
	case *ast.Function:
		b.function(d)
	case *ast.Type:
	default:
		fail(d.NodePos(), "no translation for declaration of %s", d.Kind())
	}
}

func (b *Builder) variable(v *ast.Variable, s state) {
	target := b.newVar(s.subroutine.Level(), v.Type)
	b.vars[v] = target
	s.subroutine.AddLocal(target)
	if v.Initializer != nil {
		s.emit(COPY, b.coerce(v.Initializer, v.Type, s), target)
	}
}

// function fills in the subroutine created for f by the enclosing block.
// Falling off the end of a function with a result terminates the program.
func (b *Builder) function(f *ast.Function) {
	sub, ok := b.subroutines[f]
	if !ok {
		fail(f.Pos, "function %s was not laid out", f.Name)
	}
	s := state{subroutine: sub}
	for _, p := range f.Parameters {
		v := b.newVar(sub.Level(), p.Type)
		b.vars[p] = v
		sub.AddParameter(v)
	}
	b.block(f.Body, s)

	if f.IsVoid() {
		s.emit(RETP)
	} else {
		s.emit(CALLP, b.external(stdlib.TerminateProgram), Int(0))
	}
}

func (b *Builder) assignment(a *ast.AssignmentStatement, s state) {
	source := b.coerce(a.Right, a.Left.TypeOf(), s)
	target := b.translate(a.Left, s, false)
	if _, ok := target.(*AddressTemporary); ok {
		s.emit(COPY_TO_DEREF, source, target)
	} else {
		s.emit(COPY, source, target)
	}
}

func (b *Builder) increment(op string, target Operand, s state) {
	_, indirect := target.(*AddressTemporary)
	switch {
	case op == "++" && indirect:
		s.emit(INC_DEREF, target)
	case op == "++":
		s.emit(INC, target)
	case indirect:
		s.emit(DEC_DEREF, target)
	default:
		s.emit(DEC, target)
	}
}

func (b *Builder) breakStatement(br *ast.BreakStatement, s state) {
	if s.loop == nil {
		fail(br.Pos, "break outside of a loop")
	}
	s.loop.exited = true
	s.emit(JUMP, s.loop.exitPoint)
}

func (b *Builder) returnStatement(r *ast.ReturnStatement, s state) {
	if r.Value == nil {
		s.emit(RETP)
		return
	}
	var target *ast.Type
	if r.Function != nil {
		target = r.Function.ReturnType
	}
	s.emit(RETF, b.coerce(r.Value, target, s))
}

// ifStatement skips over each case body whose condition is zero. A case
// that runs jumps past the remaining cases.
func (b *Builder) ifStatement(is *ast.IfStatement, s state) {
	end := b.label()
	for i, c := range is.Cases {
		last := i == len(is.Cases)-1 && is.Else == nil
		next := end
		if !last {
			next = b.label()
		}
		s.emit(JZERO, b.value(c.Condition, s), next)
		b.block(c.Body, s)
		if !last {
			s.emit(JUMP, end)
			s.emit(LABEL, next)
		}
	}
	if is.Else != nil {
		b.block(is.Else, s)
	}
	s.emit(LABEL, end)
}

// whileStatement tests at the bottom: jump to the test, run the body, and
// jump back to the top while the condition holds.
func (b *Builder) whileStatement(ws *ast.WhileStatement, s state) {
	top, test, exit := b.label(), b.label(), b.label()
	inner := s.inLoop(test, exit)

	s.emit(JUMP, test)
	s.emit(LABEL, top)
	b.block(ws.Body, inner)
	s.emit(LABEL, test)
	s.emit(JNZERO, b.value(ws.Condition, s), top)
	if inner.loop.exited {
		s.emit(LABEL, exit)
	}
}

// forStatement tests at the top and runs the step after the body.
func (b *Builder) forStatement(fs *ast.ClassicForStatement, s state) {
	top, bottom := b.label(), b.label()
	inner := s.inLoop(top, bottom)

	if fs.IndexVariable != nil {
		b.variable(fs.IndexVariable, s)
	}
	s.emit(LABEL, top)
	if fs.Test != nil {
		s.emit(JZERO, b.value(fs.Test, inner), bottom)
	}
	b.block(fs.Body, inner)
	if fs.Step != nil {
		b.translate(fs.Step, inner, false)
	}
	s.emit(JUMP, top)
	s.emit(LABEL, bottom)
}

// stringOf translates e and converts the value to a string.
func (b *Builder) stringOf(e ast.Expression, s state) Operand {
	x := b.value(e, s)
	t := e.TypeOf()
	if t == ast.String {
		return x
	}

	result := b.temporary(false)
	switch t {
	case ast.Int:
		s.emit(INT_TO_STRING, x, result)
	case ast.Real:
		s.emit(FLOAT_TO_STRING, x, result)
	case ast.Boolean:
		s.emit(BOOL_TO_STRING, x, result)
	case ast.Char:
		s.emit(CHAR_TO_STRING, x, result)
	default:
		s.emit(PARAM, b.stringConstant([]rune(t.Name)))
		s.emit(PARAM, x)
		s.emit(CALLF, b.external(stdlib.ObjectToString), Int(2*b.wordSize), result)
	}
	return result
}

// call pushes the arguments last to first and calls f. Only subroutines
// nested in another need a frame link, so STARTCALL is emitted for levels
// of one and deeper.
func (b *Builder) call(f *ast.Function, args []ast.Expression, result Operand, pos ast.Position, s state) {
	if f == nil {
		fail(pos, "unresolved call")
	}
	callee := b.subroutine(f, pos)
	if callee.Level() >= 1 {
		s.emit(STARTCALL, callee)
	}

	size := 0
	for i := len(args) - 1; i >= 0; i-- {
		param := f.Parameters[i].Type
		if param == ast.Real && args[i].TypeOf() == ast.Int {
			size += b.doubleSize
		} else {
			size += b.sizeof(args[i].TypeOf())
		}
		s.emit(PARAM, b.coerce(args[i], param, s))
	}

	if result == nil {
		s.emit(CALLP, callee, Int(size))
	} else {
		s.emit(CALLF, callee, Int(size), result)
	}
}

var mathOps = map[ast.Builtin]Op{
	ast.BuiltinSqrt: SQRT,
	ast.BuiltinSin:  SIN,
	ast.BuiltinCos:  COS,
	ast.BuiltinLn:   LN,
}

// callExpression translates the math built-ins to single tuples and
// everything else to a full call.
func (b *Builder) callExpression(e *ast.CallExpression, s state) Operand {
	f := e.Function
	if f == nil {
		fail(e.Pos, "unresolved call to %s", e.FunctionName)
	}

	if op, ok := mathOps[f.Builtin]; ok {
		x := b.coerce(e.Args[0], ast.Real, s)
		result := b.temporary(true)
		s.emit(op, x, result)
		return result
	}
	switch f.Builtin {
	case ast.BuiltinAtan:
		y := b.coerce(e.Args[0], ast.Real, s)
		x := b.coerce(e.Args[1], ast.Real, s)
		result := b.temporary(true)
		s.emit(ATAN, y, x, result)
		return result
	case ast.BuiltinPi:
		result := b.temporary(true)
		s.emit(COPY, Real(math.Pi), result)
		return result
	}

	result := b.temporaryFor(e.Type)
	b.call(f, e.Args, result, e.Pos, s)
	return result
}

// subscript checks the base for null and the index against the length
// stored one word before the data, then addresses the element.
func (b *Builder) subscript(e *ast.SubscriptedVariable, s state) Operand {
	base := b.value(e.Sequence, s)
	s.emit(NULL_CHECK, base)

	index := b.value(e.Index, s)
	length := b.temporary(false)
	s.emit(COPY_FROM_OFS, base, Int(-b.wordSize), length)
	s.emit(BOUND, index, Int(0), length)

	offset := b.temporary(false)
	s.emit(MUL, index, Int(b.sizeof(e.Type)), offset)
	result := b.address(e.Type)
	s.emit(ADD, base, offset, result)
	return result
}

func (b *Builder) dotted(e *ast.DottedVariable, s state) Operand {
	base := b.value(e.Struct, s)
	s.emit(NULL_CHECK, base)
	result := b.address(e.Type)
	s.emit(ADD, base, Int(b.fieldOffset(e.Field, e.Pos)), result)
	return result
}

func (b *Builder) prefix(e *ast.PrefixExpression, s state) Operand {
	switch e.Op {
	case "++", "--":
		target := b.translate(e.Operand, s, false)
		b.increment(e.Op, target, s)
		result := b.temporaryFor(e.Type)
		if _, ok := target.(*AddressTemporary); ok {
			s.emit(COPY_FROM_DEREF, target, result)
		} else {
			s.emit(COPY, target, result)
		}
		return result
	case "int", "char":
		return b.value(e.Operand, s)
	case "string":
		return b.stringOf(e.Operand, s)
	}

	x := b.value(e.Operand, s)
	result := b.temporaryFor(e.Type)
	switch e.Op {
	case "!":
		s.emit(NOT, x, result)
	case "-":
		s.emit(NEG, x, result)
	case "~":
		s.emit(COMP, x, result)
	case "length":
		s.emit(NULL_CHECK, x)
		s.emit(COPY_FROM_OFS, x, Int(-b.wordSize), result)
	default:
		fail(e.Pos, "no translation for prefix %s", e.Op)
	}
	return result
}

func (b *Builder) postfix(e *ast.PostfixExpression, s state) Operand {
	target := b.translate(e.Operand, s, false)
	result := b.temporaryFor(e.Type)
	if _, ok := target.(*AddressTemporary); ok {
		s.emit(COPY_FROM_DEREF, target, result)
	} else {
		s.emit(COPY, target, result)
	}
	b.increment(e.Op, target, s)
	return result
}

var infixOps = map[string]Op{
	"<": LT, "<=": LE, "==": EQ, "!=": NE, ">=": GE, ">": GT,
	"+": ADD, "-": SUB, "*": MUL, "/": DIV, "%": MOD,
	"<<": SHL, ">>": SHR, "&": AND, "|": OR, "^": XOR,
}

func (b *Builder) infix(e *ast.InfixExpression, s state) Operand {
	switch e.Op {
	case "&&":
		return b.shortCircuit(e, JZERO, s)
	case "||":
		return b.shortCircuit(e, JNZERO, s)
	}
	op, ok := infixOps[e.Op]
	if !ok {
		fail(e.Pos, "no translation for infix %s", e.Op)
	}

	// Mixed int and real operands compute in real.
	operand := func(x ast.Expression) Operand { return b.value(x, s) }
	if e.Left.TypeOf() == ast.Real || e.Right.TypeOf() == ast.Real {
		operand = func(x ast.Expression) Operand { return b.coerce(x, ast.Real, s) }
	}
	x := operand(e.Left)
	y := operand(e.Right)
	result := b.temporaryFor(e.Type)
	s.emit(op, x, y, result)
	return result
}

// shortCircuit evaluates the right operand only when the left one does not
// decide the result. skip is the jump taken when it does.
func (b *Builder) shortCircuit(e *ast.InfixExpression, skip Op, s state) Operand {
	done := b.label()
	result := b.temporary(false)
	s.emit(COPY, b.value(e.Left, s), result)
	s.emit(skip, result, done)
	s.emit(COPY, b.value(e.Right, s), result)
	s.emit(LABEL, done)
	return result
}

// arrayAggregate allocates the elements plus one leading word holding the
// length, and leaves the result pointing past that word.
func (b *Builder) arrayAggregate(e *ast.ArrayAggregate, s state) Operand {
	element := e.Type.Element
	size := b.sizeof(element)
	n := len(e.Args)

	t := b.temporary(false)
	s.emit(ALLOC, Int(n*size+b.wordSize), t)
	s.emit(COPY_TO_DEREF, Int(n), t)
	s.emit(ADD, t, Int(b.wordSize), t)
	for i, arg := range e.Args {
		s.emit(COPY_TO_OFS, b.coerce(arg, element, s), t, Int(i*size))
	}
	return t
}

func (b *Builder) structAggregate(e *ast.StructAggregate, s state) Operand {
	fields := e.Type.Fields
	size := 0
	for _, f := range fields {
		size += b.sizeof(f.Type)
	}

	t := b.temporary(false)
	s.emit(ALLOC, Int(size), t)
	for i, arg := range e.Args {
		f := fields[i]
		s.emit(COPY_TO_OFS, b.coerce(arg, f.Type, s), t, Int(b.fieldOffset(f, e.Pos)))
	}
	return t
}

// emptyArray allocates a one-dimensional array inline with the same layout
// as an aggregate; a bound not known to be non-negative is asserted first. More dimensions are left to the runtime allocator, which receives
// each bound followed by the number of dimensions and checks them itself.
func (b *Builder) emptyArray(e *ast.EmptyArray, s state) Operand {
	if len(e.Bounds) == 1 {
		n := b.value(e.Bounds[0], s)
		size := b.sizeof(e.Type.Element)

		var bytes Operand
		if count, ok := n.(Int); ok && count >= 0 {
			bytes = Int(int(count)*size + b.wordSize)
		} else {
			s.emit(ASSERT_POSITIVE, n)
			data := b.temporary(false)
			s.emit(MUL, n, Int(size), data)
			total := b.temporary(false)
			s.emit(ADD, data, Int(b.wordSize), total)
			bytes = total
		}

		t := b.temporary(false)
		s.emit(ALLOC, bytes, t)
		s.emit(COPY_TO_DEREF, n, t)
		s.emit(ADD, t, Int(b.wordSize), t)
		return t
	}

	for _, bound := range e.Bounds {
		s.emit(PARAM, b.value(bound, s))
	}
	s.emit(PARAM, Int(len(e.Bounds)))
	t := b.temporary(false)
	s.emit(CALLF, b.external(stdlib.AllocateArray), Int((len(e.Bounds)+1)*b.wordSize), t)
	return t
}
