package midi

import "strings"

// PortRole says what the router would use a port for
type PortRole int

const (
	RoleOther PortRole = iota
	RoleController
	RoleLoopback
	RoleSurface
	RolePassThrough
)

func (r PortRole) String() string {
	switch r {
	case RoleController:
		return "controller"
	case RoleLoopback:
		return "loopback"
	case RoleSurface:
		return "display"
	case RolePassThrough:
		return "pass-through"
	}
	return ""
}

// PortInfo is one enumerated port with its role
type PortInfo struct {
	Name   string
	Output bool
	Role   PortRole
}

// Patterns are the name fragments that assign port roles
type Patterns struct {
	Input       string
	Loopback    string
	Surface     string
	PassThrough string
}

// Classify assigns a role to a port name
func (p Patterns) Classify(name string, output bool) PortRole {
	has := func(pattern string) bool {
		return pattern != "" && strings.Contains(name, pattern)
	}
	if output {
		switch {
		case has(p.PassThrough):
			return RolePassThrough
		case has(p.Surface):
			return RoleSurface
		}
		return RoleOther
	}
	switch {
	case has(p.Input):
		return RoleController
	case has(p.Loopback):
		return RoleLoopback
	}
	return RoleOther
}

// Describe lists every port with its role
func (t *Transport) Describe(p Patterns) ([]PortInfo, error) {
	ins, outs, err := t.Ports()
	if err != nil {
		return nil, err
	}
	infos := make([]PortInfo, 0, len(ins)+len(outs))
	for _, in := range ins {
		infos = append(infos, PortInfo{Name: in.String(), Role: p.Classify(in.String(), false)})
	}
	for _, out := range outs {
		infos = append(infos, PortInfo{Name: out.String(), Output: true, Role: p.Classify(out.String(), true)})
	}
	return infos, nil
}
