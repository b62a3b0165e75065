// Package treequery evaluates CEL expressions against decoded save
// trees. The untyped Object tree is converted once to plain
// map[string]any / []any data and bound to the `save` variable, so
// consumers can ask things like
//
//	save.countries["FRA"].treasury > 1000.0
//
// without touching parser internals.
package treequery

import (
	"github.com/cartograf/pdxsave/internal/celquery"
	"github.com/cartograf/pdxsave/pkg/clausewitz"
)

// FromObject converts an untyped tree into plain Go data. Objects with
// only bare values become []any; objects with key/value pairs become
// map[string]any, with duplicate keys accumulating into a []any and
// any bare values of a mixed object collected under "_values".
func FromObject(o *clausewitz.Object) any {
	kvs := 0
	for _, item := range o.Items {
		if item.KV {
			kvs++
		}
	}
	if kvs == 0 {
		values := make([]any, 0, len(o.Items))
		for _, item := range o.Items {
			values = append(values, fromValue(item.Value))
		}
		return values
	}

	out := make(map[string]any, kvs)
	var bare []any
	for _, item := range o.Items {
		if !item.KV {
			bare = append(bare, fromValue(item.Value))
			continue
		}
		key := item.Key.AsString()
		value := fromValue(item.Value)
		switch existing := out[key].(type) {
		case nil:
			out[key] = value
		case []any:
			out[key] = append(existing, value)
		default:
			out[key] = []any{existing, value}
		}
	}
	if len(bare) > 0 {
		out["_values"] = bare
	}
	return out
}

func fromValue(v clausewitz.Value) any {
	switch value := v.(type) {
	case *clausewitz.Object:
		return FromObject(value)
	case clausewitz.Scalar:
		return fromScalar(value)
	}
	return nil
}

func fromScalar(s clausewitz.Scalar) any {
	if b, ok := s.AsBool(); ok {
		return b
	}
	if n, ok := s.AsInt(); ok {
		return n
	}
	if f, ok := s.AsFloat(); ok {
		return f
	}
	return s.AsString()
}

// Query runs CEL expressions over converted trees, caching compiled
// programs across calls.
type Query struct {
	pool *celquery.Pool
}

func New() (*Query, error) {
	pool, err := celquery.NewPool()
	if err != nil {
		return nil, err
	}
	return &Query{pool: pool}, nil
}

// Eval evaluates one expression against a tree.
func (q *Query) Eval(tree *clausewitz.Object, expression string) (any, error) {
	return q.pool.Eval(expression, map[string]any{
		celquery.RootVar: FromObject(tree),
	})
}

// EvalData evaluates one expression against already-converted data,
// for callers that reuse the conversion across many queries.
func (q *Query) EvalData(data any, expression string) (any, error) {
	return q.pool.Eval(expression, map[string]any{
		celquery.RootVar: data,
	})
}
