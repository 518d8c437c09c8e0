package convert

import (
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"
	"github.com/mohitkumar/nodebridge/config"
	"github.com/mohitkumar/nodebridge/model"
)

type scriptInput struct {
	Values   []model.RawValue `json:"values"`
	Inbound  []model.Link     `json:"inbound"`
	Outbound []model.Link     `json:"outbound"`
}

type scriptOutput struct {
	Values []model.RawValue `json:"values"`
	Links  []model.Link     `json:"links"`
}

// RegisterScriptRules installs host-authored conversion rules written as
// javascript expressions. The script sees `$` bound to
// {values, inbound, outbound} and must leave `$` holding {values, links}.
func RegisterScriptRules(c *Converter, rules map[string]config.ScriptRule) {
	for oldType, sr := range rules {
		c.Register(oldType, Rule{
			NewType: sr.NewType,
			Remap:   newScriptRemap(sr.Expression),
		})
	}
}

func newScriptRemap(expression string) Remap {
	return func(node *model.Node, inbound []model.Link, outbound []model.Link) ([]model.RawValue, []model.Link, error) {
		// empty slices stay arrays on the javascript side, never null
		in := scriptInput{Values: node.Values, Inbound: inbound, Outbound: outbound}
		if in.Values == nil {
			in.Values = []model.RawValue{}
		}
		if in.Inbound == nil {
			in.Inbound = []model.Link{}
		}
		if in.Outbound == nil {
			in.Outbound = []model.Link{}
		}
		data, err := json.Marshal(in)
		if err != nil {
			return nil, nil, err
		}
		script := fmt.Sprintf("var $ = %s;\n%s", data, expression)
		vm := goja.New()
		if _, err := vm.RunString(script); err != nil {
			return nil, nil, fmt.Errorf("error executing javascript %w", err)
		}
		val, err := vm.RunString("$")
		if err != nil {
			return nil, nil, fmt.Errorf("error executing javascript %w", err)
		}
		res, err := json.Marshal(val.Export())
		if err != nil {
			return nil, nil, err
		}
		var out scriptOutput
		if err := json.Unmarshal(res, &out); err != nil {
			return nil, nil, fmt.Errorf("script result has wrong shape %w", err)
		}
		values, err := normalizeScriptValues(out.Values)
		if err != nil {
			return nil, nil, err
		}
		return values, out.Links, nil
	}
}

// normalizeScriptValues maps numbers coming back from the javascript vm
// onto the RawValue shapes, whole numbers become integers.
func normalizeScriptValues(values []model.RawValue) ([]model.RawValue, error) {
	out := make([]model.RawValue, len(values))
	for i, v := range values {
		switch tv := v.(type) {
		case bool, string, int64:
			out[i] = tv
		case float64:
			if tv == float64(int64(tv)) {
				out[i] = int64(tv)
			} else {
				out[i] = tv
			}
		default:
			return nil, fmt.Errorf("script produced unsupported value shape %T", v)
		}
	}
	return out, nil
}
