package grammar

import (
	"fmt"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

// Symbol is a terminal or a non-terminal. The most significant bit holds the kind and the rest
// holds the number. Terminal numbers start from 1; non-terminal numbers start from 0.
type Symbol uint16

const (
	maskKindPart    = uint16(0x8000) // 1000 0000 0000 0000
	maskNonTerminal = uint16(0x0000) // 0000 0000 0000 0000
	maskTerminal    = uint16(0x8000) // 1000 0000 0000 0000

	maskNumberPart = uint16(0x7fff) // 0111 1111 1111 1111

	symbolNumMax = 0x7ffe

	SymbolNil = Symbol(0xffff)
)

func newTerminalSymbol(num int) (Symbol, error) {
	if num < 1 || num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a terminal number is out of range: %v", num)
	}
	return Symbol(maskTerminal | uint16(num)), nil
}

func newNonTerminalSymbol(num int) (Symbol, error) {
	if num < 0 || num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a non-terminal number is out of range: %v", num)
	}
	return Symbol(maskNonTerminal | uint16(num)), nil
}

func (s Symbol) String() string {
	if s.IsNil() {
		return "<nil>"
	}
	if s.IsTerminal() {
		return fmt.Sprintf("t%v", s.Num())
	}
	return fmt.Sprintf("n%v", s.Num())
}

func (s Symbol) IsNil() bool {
	return s == SymbolNil
}

func (s Symbol) kind() symbolKind {
	if uint16(s)&maskKindPart == maskTerminal {
		return symbolKindTerminal
	}
	return symbolKindNonTerminal
}

func (s Symbol) IsTerminal() bool {
	return !s.IsNil() && s.kind() == symbolKindTerminal
}

// Num returns a terminal number or a non-terminal number.
func (s Symbol) Num() int {
	return int(uint16(s) & maskNumberPart)
}

func (s Symbol) byte() []byte {
	return []byte{byte(uint16(s) >> 8), byte(uint16(s) & 0x00ff)}
}
