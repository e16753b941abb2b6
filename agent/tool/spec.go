package tool

import (
	"github.com/cloudwego/eino/schema"
)

// ParamKind is the JSON type of a tool argument.
type ParamKind string

const (
	KindString     ParamKind = "string"
	KindInteger    ParamKind = "integer"
	KindNumber     ParamKind = "number"
	KindStringList ParamKind = "string_list"
)

type Param struct {
	Name     string
	Kind     ParamKind
	Desc     string
	Required bool
	Enum     []string
}

// Spec is a transport-neutral tool definition. It renders to eino tool infos for
// chat models and to MCP tools for external runtimes.
type Spec struct {
	Name   string
	Desc   string
	Params []Param
}

func (s Spec) ToolInfo() *schema.ToolInfo {
	params := make(map[string]*schema.ParameterInfo, len(s.Params))
	for _, p := range s.Params {
		info := &schema.ParameterInfo{
			Type:     p.Kind.dataType(),
			Desc:     p.Desc,
			Required: p.Required,
			Enum:     p.Enum,
		}
		if p.Kind == KindStringList {
			info.ElemInfo = &schema.ParameterInfo{Type: schema.String}
		}
		params[p.Name] = info
	}
	return &schema.ToolInfo{
		Name:        s.Name,
		Desc:        s.Desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}
}

func (k ParamKind) dataType() schema.DataType {
	switch k {
	case KindInteger:
		return schema.Integer
	case KindNumber:
		return schema.Number
	case KindStringList:
		return schema.Array
	default:
		return schema.String
	}
}

func ToolInfos(specs []Spec) []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.ToolInfo())
	}
	return out
}
