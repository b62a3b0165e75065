package clausewitz

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// VariableSet holds the `@name = value` definitions a game script
// accumulates and evaluates the `@[expr]` literals that reference
// them. Compiled expressions are cached, so a set is safe to share
// across goroutines once its definitions stop changing.
type VariableSet struct {
	mu       sync.RWMutex
	values   map[string]any
	programs map[string]*vm.Program
}

func NewVariableSet() *VariableSet {
	return &VariableSet{
		values:   make(map[string]any),
		programs: make(map[string]*vm.Program),
	}
}

// Define registers a variable from its scalar token.
func (s *VariableSet) Define(name string, tok TextToken) error {
	value, err := tokenToAny(tok)
	if err != nil {
		return fmt.Errorf("defining @%s: %w", name, err)
	}
	s.mu.Lock()
	s.values[name] = value
	s.mu.Unlock()
	return nil
}

// Get returns a defined variable's value.
func (s *VariableSet) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[name]
	return value, ok
}

// Resolve turns a variable or expression token into the plain scalar
// token it stands for. Plain scalars pass through unchanged.
func (s *VariableSet) Resolve(tok TextToken) (TextToken, error) {
	switch tok.Kind {
	case TextVariable:
		value, ok := s.Get(tok.Text)
		if !ok {
			return TextToken{}, fmt.Errorf("undefined variable @%s", tok.Text)
		}
		return anyToToken(value)
	case TextExpr:
		value, err := s.EvalExpr(tok.Text)
		if err != nil {
			return TextToken{}, err
		}
		return anyToToken(value)
	}
	return tok, nil
}

// EvalExpr evaluates an expression literal's source against the
// current definitions. The compiled program is cached by source text;
// the variable snapshot is taken per evaluation.
func (s *VariableSet) EvalExpr(source string) (any, error) {
	program, err := s.compile(source)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	env := make(map[string]any, len(s.values))
	for name, value := range s.values {
		env[name] = value
	}
	s.mu.RUnlock()

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluating @[%s]: %w", source, err)
	}
	return out, nil
}

func (s *VariableSet) compile(source string) (*vm.Program, error) {
	s.mu.RLock()
	if program, ok := s.programs[source]; ok {
		s.mu.RUnlock()
		return program, nil
	}
	s.mu.RUnlock()

	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compiling @[%s]: %w", source, err)
	}

	s.mu.Lock()
	s.programs[source] = program
	s.mu.Unlock()
	return program, nil
}

func tokenToAny(tok TextToken) (any, error) {
	switch tok.Kind {
	case TextInt:
		return tok.Int, nil
	case TextUint:
		return tok.Uint, nil
	case TextFloat:
		return tok.Float, nil
	case TextBool:
		return tok.Bool, nil
	case TextStringQuoted, TextStringUnquoted:
		return tok.Text, nil
	}
	return nil, unexpectedTextToken(tok)
}

func anyToToken(value any) (TextToken, error) {
	switch v := value.(type) {
	case int64:
		if v < 0 {
			return TextToken{Kind: TextInt, Int: v}, nil
		}
		return TextToken{Kind: TextUint, Uint: uint64(v)}, nil
	case int:
		return anyToToken(int64(v))
	case uint64:
		return TextToken{Kind: TextUint, Uint: v}, nil
	case float64:
		return TextToken{Kind: TextFloat, Float: v}, nil
	case bool:
		return TextToken{Kind: TextBool, Bool: v}, nil
	case string:
		return TextToken{Kind: TextStringUnquoted, Text: v}, nil
	}
	return TextToken{}, fmt.Errorf("expression produced unsupported type %T", value)
}
