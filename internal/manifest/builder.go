package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// InstructionKind identifies an invocation instruction.
type InstructionKind int

const (
	KindCallFunction InstructionKind = iota
	KindCallMethod
)

func (k InstructionKind) String() string {
	switch k {
	case KindCallFunction:
		return "CALL_FUNCTION"
	case KindCallMethod:
		return "CALL_METHOD"
	default:
		return "UNKNOWN"
	}
}

// Instruction is a single function or method invocation.
type Instruction struct {
	Kind InstructionKind

	// Target is the package for CALL_FUNCTION and the component or account
	// for CALL_METHOD.
	Target ParsedAddress

	// Blueprint is only set for CALL_FUNCTION.
	Blueprint string

	// Name is the function or method being invoked.
	Name string

	Args []Value
}

// String renders the instruction as one manifest statement.
func (i Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(i.Kind.String())
	sb.WriteString(" ")
	sb.WriteString(Address(i.Target.Raw).String())
	if i.Kind == KindCallFunction {
		sb.WriteString(" ")
		sb.WriteString(strconv.Quote(i.Blueprint))
	}
	sb.WriteString(" ")
	sb.WriteString(strconv.Quote(i.Name))
	for _, arg := range i.Args {
		sb.WriteString(" ")
		sb.WriteString(arg.String())
	}
	sb.WriteString(";")
	return sb.String()
}

// Manifest is an ordered list of invocations submitted as one transaction.
type Manifest struct {
	Instructions []Instruction
}

// String renders the manifest, one statement per line.
func (m *Manifest) String() string {
	var sb strings.Builder
	for _, inst := range m.Instructions {
		sb.WriteString(inst.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// IndexOf returns the position of the first instruction invoking name, or -1.
func (m *Manifest) IndexOf(name string) int {
	for i, inst := range m.Instructions {
		if inst.Name == name {
			return i
		}
	}
	return -1
}

// Builder provides a fluent interface for composing manifests. The first
// validation failure is kept and reported by Build.
type Builder struct {
	instructions []Instruction
	err          error
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// CallFunction appends a blueprint function call on a package.
func (b *Builder) CallFunction(packageAddr, blueprint, function string, args ...Value) *Builder {
	if b.err != nil {
		return b
	}
	target, err := ParseAddressOf(packageAddr, EntityPackage)
	if err != nil {
		b.err = fmt.Errorf("call_function %s: %w", function, err)
		return b
	}
	if blueprint == "" || function == "" {
		b.err = fmt.Errorf("%w: call_function needs a blueprint and function name", ErrInvalidInstruction)
		return b
	}
	return b.add(Instruction{
		Kind:      KindCallFunction,
		Target:    target,
		Blueprint: blueprint,
		Name:      function,
		Args:      args,
	})
}

// CallMethod appends a method call on a component or account.
func (b *Builder) CallMethod(addr, method string, args ...Value) *Builder {
	if b.err != nil {
		return b
	}
	target, err := ParseAddressOf(addr, EntityComponent, EntityAccount)
	if err != nil {
		b.err = fmt.Errorf("call_method %s: %w", method, err)
		return b
	}
	if method == "" {
		b.err = fmt.Errorf("%w: call_method needs a method name", ErrInvalidInstruction)
		return b
	}
	return b.add(Instruction{
		Kind:   KindCallMethod,
		Target: target,
		Name:   method,
		Args:   args,
	})
}

func (b *Builder) add(inst Instruction) *Builder {
	for i, arg := range inst.Args {
		av, ok := arg.(AddressValue)
		if !ok {
			continue
		}
		if _, err := ParseAddress(av.Raw); err != nil {
			b.err = fmt.Errorf("%s argument %d: %w", inst.Name, i, err)
			return b
		}
	}
	b.instructions = append(b.instructions, inst)
	return b
}

// Build returns the composed manifest.
func (b *Builder) Build() (*Manifest, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.instructions) == 0 {
		return nil, ErrEmptyManifest
	}
	instructions := make([]Instruction, len(b.instructions))
	copy(instructions, b.instructions)
	return &Manifest{Instructions: instructions}, nil
}
