package rope

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/xlab/treeprint"
	"golang.org/x/term"
)

type nodeids struct {
	idTable map[*node]int
	max     int
}

func newtable() nodeids {
	return nodeids{
		idTable: make(map[*node]int),
		max:     1,
	}
}

func (ids nodeids) find(n *node) int {
	return ids.idTable[n]
}

func (ids *nodeids) alloc(n *node) int {
	if id := ids.find(n); id > 0 {
		return id
	}
	ids.idTable[n] = ids.max
	ids.max++
	return ids.max - 1
}

// Rope2Dot outputs the internal structure of a Rope in Graphviz DOT format
// (for debugging purposes).
func Rope2Dot(text Rope, w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	ids := newtable()
	nodelist, edgelist := "", ""
	if text.root != nil {
		eachNode(text.root, 0, func(n *node, pos uint64) {
			ID := ids.alloc(n)
			styles := nodeDotStyles(n.isLeaf())
			if n.isLeaf() {
				label := fmt.Sprintf("%d @%d\\n“%s”", n.weight, pos, strstart(n.leaf.String()))
				nodelist += fmt.Sprintf("\"%d\" [label=\"%s\" %s];\n", ID, label, styles)
			} else {
				edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, ids.alloc(n.left))
				edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, ids.alloc(n.right))
				nodelist += fmt.Sprintf("\"%d\" [label=%d %s];\n", ID, n.weight, styles)
			}
		})
	}
	io.WriteString(w, nodelist)
	io.WriteString(w, edgelist)
	io.WriteString(w, "}\n")
}

// eachNode traverses the subtree of n in pre-order, passing every node and
// its byte position to f.
func eachNode(n *node, pos uint64, f func(*node, uint64)) {
	f(n, pos)
	if n.isLeaf() {
		return
	}
	eachNode(n.left, pos, f)
	eachNode(n.right, pos+n.weight, f)
}

func nodeDotStyles(isleaf bool) string {
	s := ",style=filled"
	if isleaf {
		s += ",shape=box"
	} else {
		s += ",color=black,fillcolor=\"#a3d7e4\""
		s += ",shape=circle"
	}
	return s
}

// Rope2Tree writes an ASCII rendering of the rope's tree structure to w
// (for debugging purposes).
func Rope2Tree(text Rope, w io.Writer) {
	p := treeprint.New()
	if text.root != nil {
		ppt(p, text.root)
	}
	io.WriteString(w, p.String())
}

func ppt(p treeprint.Tree, n *node) {
	if n.isLeaf() {
		p.AddNode(fmt.Sprintf("%q", strstart(n.leaf.String())))
		return
	}
	branch := p.AddBranch(fmt.Sprintf("%d|%d", n.weight, n.depth))
	ppt(branch, n.left)
	ppt(branch, n.right)
}

// DumpFragments prints the fragments of a rope to w, alternating colors
// per fragment so that fragment boundaries stand out. Colors are only
// used when w is attached to a terminal.
func DumpFragments(text Rope, w io.Writer) {
	colored := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		colored = term.IsTerminal(int(f.Fd()))
	}
	palette := []*color.Color{
		color.New(color.FgBlue),
		color.New(color.FgRed),
	}
	i := 0
	_ = text.EachLeaf(func(leaf Leaf, pos uint64) error {
		if colored {
			palette[i%len(palette)].Fprint(w, leaf.String())
		} else {
			fmt.Fprintf(w, "[%d] %q\n", pos, leaf.String())
		}
		i++
		return nil
	})
	if colored {
		fmt.Fprintln(w)
	}
}
