package transition

import "fmt"

// Gate identifies one side of a scene transition.
type Gate struct {
	Scene string `json:"scene"`
	Gate  string `json:"gate"`
}

func (g Gate) String() string { return fmt.Sprintf("%s[%s]", g.Scene, g.Gate) }

// Placement is a randomized transition pair as emitted by the randomizer.
type Placement struct {
	Source Gate `json:"source"`
	Target Gate `json:"target"`
}

// Override redirects Source to Target at runtime.
type Override struct {
	Source Gate `json:"source"`
	Target Gate `json:"target"`
}

// Emit forwards every placement as an override, one to one and in order.
func Emit(ps []Placement) []Override {
	out := make([]Override, 0, len(ps))
	for _, p := range ps {
		out = append(out, Override{Source: p.Source, Target: p.Target})
	}
	return out
}
