// Package transcript projects display items into renderable node
// descriptors. The projection is pure: it never feeds back into the
// agent state store, and a presentation layer consumes the nodes
// without knowing where they came from.
package transcript

import (
	"github.com/spetersoncode/strand"
)

// Kind identifies the shape of a renderable node.
type Kind string

const (
	// KindText is a plain conversation leaf (user or assistant).
	KindText Kind = "text"

	// KindDisclosure is a collapsed element revealing an ordered list of
	// steps on demand.
	KindDisclosure Kind = "disclosure"
)

// Node is one renderable transcript entry.
type Node struct {
	Kind Kind

	// Role and Content apply to KindText nodes.
	Role    strand.DisplayRole
	Content string

	// Title and Steps apply to KindDisclosure nodes. Collapsed is the
	// initial disclosure state; toggling it is the presenter's concern.
	Title     string
	Steps     []string
	Collapsed bool
}

// Project maps display items to renderable nodes in display order.
// Text items map to one leaf each; a recognized custom event maps to a
// disclosure element. Items are never reordered.
func Project(items []strand.DisplayItem) []Node {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		switch item.Role {
		case strand.DisplayUser, strand.DisplayAssistant:
			nodes = append(nodes, Node{
				Kind:    KindText,
				Role:    item.Role,
				Content: item.Content,
			})
		case strand.DisplayEvent:
			if item.Event == nil {
				continue
			}
			nodes = append(nodes, Node{
				Kind:      KindDisclosure,
				Title:     item.Event.Name,
				Steps:     item.Event.Steps,
				Collapsed: true,
			})
		}
	}
	return nodes
}
