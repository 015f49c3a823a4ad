package search

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/keyakigo/keyakigo/pkg/ctdf"
)

// Filter selects routes with an expression over their summary, for example
// `transfers == 0 || minutes < 30`
type Filter struct {
	expression string
	program    *vm.Program
}

func NewFilter(expression string) (*Filter, error) {
	program, err := expr.Compile(expression, expr.Env(routeEnv(ctdf.Route{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expression, err)
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

func (f *Filter) Match(route ctdf.Route) (bool, error) {
	output, err := expr.Run(f.program, routeEnv(route))
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.expression, err)
	}

	return output.(bool), nil
}

func (f *Filter) Apply(routes []ctdf.Route) ([]ctdf.Route, error) {
	filtered := []ctdf.Route{}

	for _, route := range routes {
		matches, err := f.Match(route)
		if err != nil {
			return nil, err
		}

		if matches {
			filtered = append(filtered, route)
		}
	}

	return filtered, nil
}

func routeEnv(route ctdf.Route) map[string]interface{} {
	return map[string]interface{}{
		"type":      string(route.Type),
		"label":     route.TypeLabel,
		"minutes":   route.TotalMinutes,
		"departure": route.Departure.String(),
		"arrival":   route.Arrival.String(),
		"transfers": route.Transfers(),
		"wait":      route.WaitMinutes(),
		"trainType": route.TrainType,
	}
}
