package celquery

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Pool caches compiled CEL programs by source text.
type Pool struct {
	mu       sync.RWMutex
	programs map[string]cel.Program
	env      *cel.Env
}

// NewPool creates a pool over the save-tree environment.
func NewPool() (*Pool, error) {
	env, err := NewEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create environment: %w", err)
	}
	return &Pool{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// NewPoolWithEnv creates a pool over a custom environment.
func NewPoolWithEnv(env *cel.Env) (*Pool, error) {
	if env == nil {
		return nil, fmt.Errorf("CEL environment cannot be nil")
	}
	return &Pool{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Get retrieves or compiles a program for the given expression.
func (p *Pool) Get(expression string) (cel.Program, error) {
	p.mu.RLock()
	if program, ok := p.programs[expression]; ok {
		p.mu.RUnlock()
		return program, nil
	}
	p.mu.RUnlock()

	ast, issues := p.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", expression, issues.Err())
	}
	program, err := p.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for %q: %w", expression, err)
	}

	p.mu.Lock()
	p.programs[expression] = program
	p.mu.Unlock()
	return program, nil
}

// Eval compiles (or reuses) the expression and evaluates it against
// the given activation variables.
func (p *Pool) Eval(expression string, vars map[string]any) (any, error) {
	program, err := p.Get(expression)
	if err != nil {
		return nil, err
	}
	out, _, err := program.Eval(vars)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate expression %q: %w", expression, err)
	}
	return out.Value(), nil
}
