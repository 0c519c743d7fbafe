package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/kjelbo/zohoctl/zoho"
)

// Filter represents a compiled invoice filter expression
type Filter struct {
	program *vm.Program
	expr    string
}

// Compile parses a filter expression into an executable filter.
// Invoice fields are available as top-level variables, e.g.
//
//	total > 100 and status == "overdue"
//	contains(customer_name, "acme") and parseDate(date) > monthsAgo(3)
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty filter expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
	}

	return &Filter{
		program: program,
		expr:    expression,
	}, nil
}

// Expression returns the original filter expression
func (f *Filter) Expression() string {
	return f.expr
}

// Match evaluates the filter against a single invoice
func (f *Filter) Match(inv zoho.Invoice) (bool, error) {
	env := helperFunctions()
	for k, v := range inv {
		env[k] = v
	}
	env["Invoice"] = inv

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{Expression: f.expr, Reason: err.Error(), Err: err}
	}

	matched, ok := out.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expr,
			Reason:     fmt.Sprintf("expression returned %T, want bool", out),
		}
	}
	return matched, nil
}

// Apply returns the invoices matching the filter, in input order
func (f *Filter) Apply(invoices []zoho.Invoice) ([]zoho.Invoice, error) {
	var matched []zoho.Invoice
	for _, inv := range invoices {
		ok, err := f.Match(inv)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, inv)
		}
	}
	return matched, nil
}

// helperFunctions returns the helpers available inside expressions
func helperFunctions() map[string]any {
	return map[string]any{
		// Date helpers
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		// String helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		// Current time
		"now": time.Now,
	}
}
