package linn

import (
	"strconv"
	"strings"
	"time"
)

// String renders the grammar, one line per alternative:
//
//	linn 'bush' (me, 2016-01-02T15:04:05Z) {
//		H --5.5-> F H;
//		H --0.5-> F [ F ];
//	}
//
// Rules are listed in declaration order, alternatives in insertion order.
func (g *Grammar) String() string {
	var sb strings.Builder
	sb.WriteString("linn '" + g.Name + "' (")
	if g.Author != "" {
		sb.WriteString(g.Author + ", ")
	}
	sb.WriteString(g.CreatedAt.Format(time.RFC3339) + ") {\n")

	for _, name := range g.names {
		for _, slot := range g.byName[name] {
			inst := g.arena[slot]
			sb.WriteString("\t" + name + " --" + strconv.FormatFloat(inst.weight, byte('f'), -1, 64) + "->")
			if len(inst.productions) > 0 {
				sb.WriteString(" " + Sequence(inst.productions))
			}
			sb.WriteString(";\n")
		}
	}
	sb.WriteString("}")
	return sb.String()
}
