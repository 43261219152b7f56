package domain

import "time"

type NodeType int

const (
	NodeFile NodeType = iota
	NodeDir
)

// Node is one entry of a folder listing in the browser.
type Node struct {
	Name    string
	Path    string
	Type    NodeType
	Size    int64
	ModTime time.Time
	Hidden  bool
}

type Listing struct {
	Path    string
	Entries []Node
}

func (listing Listing) Dirs() []Node {
	dirs := make([]Node, 0, len(listing.Entries))
	for _, entry := range listing.Entries {
		if entry.Type == NodeDir {
			dirs = append(dirs, entry)
		}
	}
	return dirs
}
