package bytecode

import "fmt"

// Opcode is a single bytecode instruction, grouped into ranges by
// category.
type Opcode byte

const (
	// Stack manipulation (0x00-0x0F)
	OpNop  Opcode = 0x00
	OpPop  Opcode = 0x01
	OpDup  Opcode = 0x02
	OpSwap Opcode = 0x03

	// Constants (0x10-0x1F)
	OpConst    Opcode = 0x10 // OpConst <index:u16>
	OpConstNil Opcode = 0x11
	OpConstT   Opcode = 0x12
	OpConstF   Opcode = 0x13

	// Locals and parameters (0x20-0x2F)
	OpLoadLocal  Opcode = 0x20 // OpLoadLocal <slot:u8>
	OpStoreLocal Opcode = 0x21 // OpStoreLocal <slot:u8>
	OpLoadParam  Opcode = 0x22 // OpLoadParam <index:u8>

	// Calls and control flow (0x30-0x3F)
	OpCall        Opcode = 0x30 // OpCall <argc:u8>
	OpTailCall    Opcode = 0x31 // OpTailCall <argc:u8>
	OpJump        Opcode = 0x32 // OpJump <offset:u16>
	OpJumpIfFalse Opcode = 0x33 // OpJumpIfFalse <offset:u16>
	OpReturn      Opcode = 0x34

	// Closures and globals (0x40-0x4F)
	OpClosure    Opcode = 0x40 // OpClosure <unit:u16> <ncaptures:u8>
	OpLoadGlobal Opcode = 0x41 // OpLoadGlobal <name:u16>
	OpDefGlobal  Opcode = 0x42 // OpDefGlobal <name:u16>
)

type opcodeInfo struct {
	name   string
	length int // total instruction length including operands
}

var opcodeTable = map[Opcode]opcodeInfo{
	OpNop:         {"NOP", 1},
	OpPop:         {"POP", 1},
	OpDup:         {"DUP", 1},
	OpSwap:        {"SWAP", 1},
	OpConst:       {"CONST", 3},
	OpConstNil:    {"CONST_NIL", 1},
	OpConstT:      {"CONST_TRUE", 1},
	OpConstF:      {"CONST_FALSE", 1},
	OpLoadLocal:   {"LOAD_LOCAL", 2},
	OpStoreLocal:  {"STORE_LOCAL", 2},
	OpLoadParam:   {"LOAD_PARAM", 2},
	OpCall:        {"CALL", 2},
	OpTailCall:    {"TAIL_CALL", 2},
	OpJump:        {"JUMP", 3},
	OpJumpIfFalse: {"JUMP_IF_FALSE", 3},
	OpReturn:      {"RETURN", 1},
	OpClosure:     {"CLOSURE", 4},
	OpLoadGlobal:  {"LOAD_GLOBAL", 3},
	OpDefGlobal:   {"DEF_GLOBAL", 3},
}

// String returns the mnemonic for the opcode.
func (op Opcode) String() string {
	if info, ok := opcodeTable[op]; ok {
		return info.name
	}
	return fmt.Sprintf("UNKNOWN_%02X", byte(op))
}

// Length returns the instruction length including operands, or 1 for
// unknown opcodes so disassembly can resynchronize.
func (op Opcode) Length() int {
	if info, ok := opcodeTable[op]; ok {
		return info.length
	}
	return 1
}
