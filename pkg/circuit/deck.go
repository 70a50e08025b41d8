package circuit

import "strings"

// Deck renders the circuit as a SPICE-style netlist deck: title line,
// element cards in declaration order, model cards, and a final .end.
// The output is deterministic for a given circuit and is used both for
// interchange and for cache keying.
func (c *Circuit) Deck() string {
	var b strings.Builder

	title := c.Title
	if title == "" {
		title = "untitled"
	}
	b.WriteString("* " + title + "\n")

	for _, e := range c.elements {
		b.WriteString(e.Card() + "\n")
	}
	for _, m := range c.Models() {
		b.WriteString(m.Card() + "\n")
	}

	b.WriteString(".end\n")
	return b.String()
}
