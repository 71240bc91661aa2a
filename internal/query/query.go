// Package query compiles row filters written in the expr language.
//
// Every column is visible by name when the name is a valid identifier, and
// always through the row map:
//
//	kg > 10 && plot == "A1"
//	row["alpha acids"] != ""
//	float(price) >= 2.5
package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
)

// RowVar is the name under which the whole row is exposed as a map.
const RowVar = "row"

// Compile parses src into a predicate over rows laid out as header. The
// expression must evaluate to a boolean. Rows for which evaluation fails at
// runtime (for example comparing text with a number) do not match.
func Compile(src string, header dataset.Header) (dataset.Predicate, error) {
	prog, err := expr.Compile(src, expr.Env(envFor(header, nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	return func(row dataset.Row, h dataset.Header) bool {
		ok, err := eval(prog, h, row)
		return err == nil && ok
	}, nil
}

// Eval compiles and evaluates src against a single row, surfacing runtime
// errors instead of treating them as a non-match.
func Eval(src string, header dataset.Header, row dataset.Row) (bool, error) {
	prog, err := expr.Compile(src, expr.Env(envFor(header, nil)), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile filter: %w", err)
	}
	return eval(prog, header, row)
}

func eval(prog *vm.Program, header dataset.Header, row dataset.Row) (bool, error) {
	out, err := expr.Run(prog, envFor(header, row))
	if err != nil {
		return false, fmt.Errorf("evaluate filter: %w", err)
	}
	b, _ := out.(bool)
	return b, nil
}

// envFor builds the evaluation environment. With a nil row every column is
// declared with an untyped nil so compilation accepts any operand types.
func envFor(header dataset.Header, row dataset.Row) map[string]any {
	env := make(map[string]any, len(header)+1)
	cells := make(map[string]any, len(header))
	for i, col := range header {
		var v any
		if i < len(row) {
			v = row[i].Any()
		}
		cells[col] = v
		if col != RowVar {
			env[col] = v
		}
	}
	env[RowVar] = cells
	return env
}
