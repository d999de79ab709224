package ir

import (
	"strings"
)

// Op is the operator of a tuple.
type Op int

const (
	COPY Op = iota
	COPY_FROM_DEREF
	COPY_TO_DEREF
	COPY_FROM_OFS
	COPY_TO_OFS
	ADD
	SUB
	MUL
	DIV
	MOD
	REM
	SHL
	SHR
	SAR
	AND
	OR
	XOR
	NOT
	NEG
	COMP
	ABS
	SIN
	COS
	ATAN
	LN
	SQRT
	INC
	DEC
	INC_DEREF
	DEC_DEREF
	LT
	LE
	EQ
	NE
	GE
	GT
	LABEL
	JUMP
	JZERO
	JNZERO
	JLT
	JLE
	JEQ
	JNE
	JGE
	JGT
	STARTCALL
	PARAM
	CALLP
	CALLF
	RETP
	RETF
	PRINT
	INT_TO_STRING
	FLOAT_TO_STRING
	BOOL_TO_STRING
	CHAR_TO_STRING
	ALLOC
	TO_FLOAT
	NULL_CHECK
	// ASSERT_POSITIVE faults when its operand is negative. Array bounds
	// may be zero.
	ASSERT_POSITIVE
	BOUND
	NO_OP
	EXIT
)

// noOutput marks operators that write none of their operands.
const noOutput = -1

type opInfo struct {
	name    string
	pattern string
	output  int
}

// Each pattern refers to the operands as {0}, {1} and {2}. output is the
// index of the operand the operator writes, if any.
var ops = [...]opInfo{
	COPY:            {"COPY", "copy {0}, {1}", 1},
	COPY_FROM_DEREF: {"COPY_FROM_DEREF", "copy [{0}], {1}", 1},
	COPY_TO_DEREF:   {"COPY_TO_DEREF", "copy {0}, [{1}]", noOutput},
	COPY_FROM_OFS:   {"COPY_FROM_OFS", "copy [{0}+{1}], {2}", 2},
	COPY_TO_OFS:     {"COPY_TO_OFS", "copy {0}, [{1}+{2}]", noOutput},
	ADD:             {"ADD", "add {0}, {1}, {2}", 2},
	SUB:             {"SUB", "sub {0}, {1}, {2}", 2},
	MUL:             {"MUL", "mul {0}, {1}, {2}", 2},
	DIV:             {"DIV", "div {0}, {1}, {2}", 2},
	MOD:             {"MOD", "mod {0}, {1}, {2}", 2},
	REM:             {"REM", "rem {0}, {1}, {2}", 2},
	SHL:             {"SHL", "shl {0}, {1}, {2}", 2},
	SHR:             {"SHR", "shr {0}, {1}, {2}", 2},
	SAR:             {"SAR", "sar {0}, {1}, {2}", 2},
	AND:             {"AND", "and {0}, {1}, {2}", 2},
	OR:              {"OR", "or {0}, {1}, {2}", 2},
	XOR:             {"XOR", "xor {0}, {1}, {2}", 2},
	NOT:             {"NOT", "not {0}, {1}", 1},
	NEG:             {"NEG", "neg {0}, {1}", 1},
	COMP:            {"COMP", "comp {0}, {1}", 1},
	ABS:             {"ABS", "abs {0}, {1}", 1},
	SIN:             {"SIN", "sin {0}, {1}", 1},
	COS:             {"COS", "cos {0}, {1}", 1},
	ATAN:            {"ATAN", "atan {0}, {1}, {2}", 2},
	LN:              {"LN", "ln {0}, {1}", 1},
	SQRT:            {"SQRT", "sqrt {0}, {1}", 1},
	INC:             {"INC", "inc {0}", 0},
	DEC:             {"DEC", "dec {0}", 0},
	INC_DEREF:       {"INC_DEREF", "inc [{0}]", noOutput},
	DEC_DEREF:       {"DEC_DEREF", "dec [{0}]", noOutput},
	LT:              {"LT", "less {0}, {1}, {2}", 2},
	LE:              {"LE", "less_or_equal {0}, {1}, {2}", 2},
	EQ:              {"EQ", "equal {0}, {1}, {2}", 2},
	NE:              {"NE", "not_equal {0}, {1}, {2}", 2},
	GE:              {"GE", "greater_or_equal {0}, {1}, {2}", 2},
	GT:              {"GT", "greater {0}, {1}, {2}", 2},
	LABEL:           {"LABEL", "{0}:", noOutput},
	JUMP:            {"JUMP", "jump {0}", noOutput},
	JZERO:           {"JZERO", "jz {0}, {1}", noOutput},
	JNZERO:          {"JNZERO", "jnz {0}, {1}", noOutput},
	JLT:             {"JLT", "jl {0}, {1}, {2}", noOutput},
	JLE:             {"JLE", "jle {0}, {1}, {2}", noOutput},
	JEQ:             {"JEQ", "je {0}, {1}, {2}", noOutput},
	JNE:             {"JNE", "jne {0}, {1}, {2}", noOutput},
	JGE:             {"JGE", "jge {0}, {1}, {2}", noOutput},
	JGT:             {"JGT", "jg {0}, {1}, {2}", noOutput},
	STARTCALL:       {"STARTCALL", "startcall {0}", noOutput},
	PARAM:           {"PARAM", "param {0}", noOutput},
	CALLP:           {"CALLP", "call {0}, {1}", noOutput},
	CALLF:           {"CALLF", "call {0}, {1}, {2}", 2},
	RETP:            {"RETP", "ret", noOutput},
	RETF:            {"RETF", "ret {0}", noOutput},
	PRINT:           {"PRINT", "print {0}", noOutput},
	INT_TO_STRING:   {"INT_TO_STRING", "to_string {0}, {1}", 1},
	FLOAT_TO_STRING: {"FLOAT_TO_STRING", "to_string {0}, {1}", 1},
	BOOL_TO_STRING:  {"BOOL_TO_STRING", "to_string {0}, {1}", 1},
	CHAR_TO_STRING:  {"CHAR_TO_STRING", "to_string {0}, {1}", 1},
	ALLOC:           {"ALLOC", "alloc {0}, {1}", 1},
	TO_FLOAT:        {"TO_FLOAT", "to_float {0}, {1}", 1},
	NULL_CHECK:      {"NULL_CHECK", "assert_not_null {0}", noOutput},
	ASSERT_POSITIVE: {"ASSERT_POSITIVE", "assert_positive {0}", noOutput},
	BOUND:           {"BOUND", "assert_in_range {0}, {1}, {2}", noOutput},
	NO_OP:           {"NO_OP", "nop", noOutput},
	EXIT:            {"EXIT", "exit", noOutput},
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(ops) {
		return "UNKNOWN"
	}
	return ops[op].name
}

// OutputIndex returns the index of the operand op writes to. ok is false
// for operators that write no operand.
func (op Op) OutputIndex() (index int, ok bool) {
	index = ops[op].output
	return index, index != noOutput
}

// Format renders operands through op's pattern. Every line but a label is
// indented with a tab; "+-" produced by negative offsets collapses to "-".
func (op Op) Format(operands ...Operand) string {
	var b strings.Builder
	if op != LABEL {
		b.WriteString("\t")
	}
	pattern := ops[op].pattern
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '{' && i+2 < len(pattern) && pattern[i+2] == '}' {
			n := int(pattern[i+1] - '0')
			if n < len(operands) && operands[n] != nil {
				b.WriteString(operands[n].String())
			} else {
				b.WriteString("null")
			}
			i += 2
			continue
		}
		b.WriteByte(pattern[i])
	}
	return strings.ReplaceAll(b.String(), "+-", "-")
}

// IsRelational reports whether op computes a comparison into a temporary.
func (op Op) IsRelational() bool {
	return op >= LT && op <= GT
}

// IsConditionalJump reports whether op is a two-operand relational jump.
func (op Op) IsConditionalJump() bool {
	return op >= JLT && op <= JGT
}

// jumpWhenTrue and jumpWhenFalse give the relational jump that branches
// when the comparison holds or fails.
var (
	jumpWhenTrue  = map[Op]Op{LT: JLT, LE: JLE, EQ: JEQ, NE: JNE, GE: JGE, GT: JGT}
	jumpWhenFalse = map[Op]Op{LT: JGE, LE: JGT, EQ: JNE, NE: JEQ, GE: JLT, GT: JLE}
)
