package dom

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// Dump pretty-prints the subtree under n, one line per node with its id.
func Dump(n *Node) string {
	p := treeprint.NewWithRoot(label(n))
	for _, c := range n.children {
		dumpNode(p, c)
	}
	return p.String()
}

func dumpNode(p treeprint.Tree, n *Node) {
	if len(n.children) == 0 {
		p.AddNode(label(n))
		return
	}
	branch := p.AddBranch(label(n))
	for _, c := range n.children {
		dumpNode(branch, c)
	}
}

func label(n *Node) string {
	s := serializeNode(n)
	if n.nodeType == TextNode {
		s = fmt.Sprintf("%q", strings.TrimSpace(n.data))
	}
	return fmt.Sprintf("%s #%d", s, n.id)
}
