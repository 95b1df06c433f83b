package scene

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// WriteSVG serialises the graph as an indented SVG document.
func (g *Graph) WriteSVG(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := writeNode(bw, g.root, 0); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush svg: %w", err)
	}
	return nil
}

// String renders the graph as SVG text.
func (g *Graph) String() string {
	var b strings.Builder
	_ = g.WriteSVG(&b)
	return b.String()
}

func writeNode(w *bufio.Writer, n *Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	w.WriteString(indent)
	w.WriteByte('<')
	w.WriteString(n.tag)
	for _, a := range n.attrs {
		w.WriteByte(' ')
		w.WriteString(a.name)
		w.WriteString(`="`)
		if err := xml.EscapeText(w, []byte(a.value)); err != nil {
			return err
		}
		w.WriteByte('"')
	}

	switch {
	case len(n.children) == 0 && n.text == "":
		w.WriteString("/>\n")
	case len(n.children) == 0:
		w.WriteByte('>')
		if err := xml.EscapeText(w, []byte(n.text)); err != nil {
			return err
		}
		w.WriteString("</" + n.tag + ">\n")
	default:
		w.WriteString(">\n")
		if n.text != "" {
			w.WriteString(indent + "  ")
			if err := xml.EscapeText(w, []byte(n.text)); err != nil {
				return err
			}
			w.WriteByte('\n')
		}
		for _, c := range n.children {
			if err := writeNode(w, c, depth+1); err != nil {
				return err
			}
		}
		w.WriteString(indent + "</" + n.tag + ">\n")
	}
	return nil
}
