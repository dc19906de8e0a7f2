package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the unit: header,
// constant pool, parameters and decoded code section.
func (u *Unit) Disassemble() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("=== %s ===\n", u.Name))
	sb.WriteString(fmt.Sprintf("loom bytecode v%d, flags 0x%04X", u.Version, uint16(u.Flags)))
	if u.Flags&UnitFlagDebug != 0 {
		sb.WriteString(" [DEBUG]")
	}
	if u.Flags&UnitFlagClosure != 0 {
		sb.WriteString(" [CLOSURE]")
	}
	sb.WriteString("\n")

	if len(u.ParamNames) > 0 {
		sb.WriteString(fmt.Sprintf("params (%d): %s\n", len(u.ParamNames), strings.Join(u.ParamNames, ", ")))
	}
	if u.LocalCount > 0 {
		sb.WriteString(fmt.Sprintf("locals: %d slots\n", u.LocalCount))
	}

	if len(u.Constants) > 0 {
		sb.WriteString("constants:\n")
		for i, c := range u.Constants {
			display := c
			if len(display) > 40 {
				display = display[:37] + "..."
			}
			display = strings.ReplaceAll(display, "\n", "\\n")
			sb.WriteString(fmt.Sprintf("  [%3d] %q\n", i, display))
		}
	}

	sb.WriteString("code:\n")
	offset := 0
	for offset < len(u.Code) {
		line, length := u.instructionAt(offset)
		if srcLine, srcCol, ok := u.sourceAt(uint32(offset)); ok {
			sb.WriteString(fmt.Sprintf("  %04X  %-28s ; line %d:%d\n", offset, line, srcLine, srcCol))
		} else {
			sb.WriteString(fmt.Sprintf("  %04X  %s\n", offset, line))
		}
		offset += length
	}

	return sb.String()
}

// instructionAt decodes one instruction, returning the formatted line and
// the instruction length.
func (u *Unit) instructionAt(offset int) (string, int) {
	op := Opcode(u.Code[offset])
	length := op.Length()
	if offset+length > len(u.Code) {
		return fmt.Sprintf("%s <truncated>", op), len(u.Code) - offset
	}

	switch op {
	case OpConst, OpLoadGlobal, OpDefGlobal:
		idx := u.readUint16(offset + 1)
		if int(idx) < len(u.Constants) {
			c := u.Constants[idx]
			if len(c) > 20 {
				c = c[:17] + "..."
			}
			return fmt.Sprintf("%s %d ; %q", op, idx, c), length
		}
		return fmt.Sprintf("%s %d", op, idx), length

	case OpLoadLocal, OpStoreLocal:
		return fmt.Sprintf("%s %d", op, u.Code[offset+1]), length

	case OpLoadParam:
		idx := int(u.Code[offset+1])
		if idx < len(u.ParamNames) {
			return fmt.Sprintf("%s %d ; %s", op, idx, u.ParamNames[idx]), length
		}
		return fmt.Sprintf("%s %d", op, idx), length

	case OpCall, OpTailCall:
		return fmt.Sprintf("%s argc=%d", op, u.Code[offset+1]), length

	case OpJump, OpJumpIfFalse:
		target := u.readUint16(offset + 1)
		return fmt.Sprintf("%s %04X", op, target), length

	case OpClosure:
		unit := u.readUint16(offset + 1)
		ncap := u.Code[offset+3]
		return fmt.Sprintf("%s unit=%d captures=%d", op, unit, ncap), length

	default:
		return op.String(), length
	}
}

func (u *Unit) readUint16(offset int) uint16 {
	return uint16(u.Code[offset])<<8 | uint16(u.Code[offset+1])
}

// sourceAt returns the mapped source position for a code offset, if debug
// info is present.
func (u *Unit) sourceAt(offset uint32) (line uint32, col uint16, ok bool) {
	if u.Flags&UnitFlagDebug == 0 {
		return 0, 0, false
	}
	for _, loc := range u.SourceMap {
		if loc.Offset == offset {
			return loc.Line, loc.Column, true
		}
	}
	return 0, 0, false
}
