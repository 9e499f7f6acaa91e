package mcts

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/awalterschulze/gographviz"
)

type dotNode struct {
	ID     int
	Action string
	Player string
	Wins   uint32
	Sims   uint32
	State  string
}

func (t *Tree[P, A]) dotNode(n *Node[P, A]) dotNode {
	retVal := dotNode{
		ID:     n.ID(),
		Action: "root",
		Player: fmt.Sprintf("%v", n.state.ToMove()),
		Wins:   n.wins,
		Sims:   n.sims,
	}
	if n.hasAction {
		retVal.Action = fmt.Sprintf("%v", n.action)
	}
	state := strings.TrimRight(fmt.Sprintf("%v", n.state), "\n")
	retVal.State = strings.ReplaceAll(html.EscapeString(state), "\n", "<BR />")
	return retVal
}

// ToDot renders the tree as a graphviz graph. Nodes that were never simulated are left out.
func (t *Tree[P, A]) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	if err := g.SetDir(true); err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.sims == 0 && !n.IsRoot() {
			continue
		}
		if err := tmpl.Execute(&buf, t.dotNode(n)); err != nil {
			panic(err)
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		if err := g.AddNode("G", fmt.Sprintf("%v", n.id), attrs); err != nil {
			panic(err)
		}
		buf.Reset()

		if n.IsRoot() {
			continue
		}
		if err := g.AddEdge(fmt.Sprintf("%v", n.parent), fmt.Sprintf("%v", n.id), true, nil); err != nil {
			panic(err)
		}
	}
	return g.String()
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Action</TD><TD>{{.Action}}</TD></TR>
<TR><TD>To Move</TD><TD>{{.Player}}</TD></TR>
<TR><TD>Wins</TD><TD>{{.Wins}}</TD></TR>
<TR><TD>Sims</TD><TD>{{.Sims}}</TD></TR>
<TR><TD>State</TD><TD>{{.State}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("name").Parse(tmplRaw))
}
