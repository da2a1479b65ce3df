package lumen

import (
	"sort"
	"strings"

	"github.com/lumenvcs/lumen/index"
	"github.com/lumenvcs/lumen/odb"
	"github.com/lumenvcs/lumen/plumbing"
	"github.com/lumenvcs/lumen/plumbing/object"
)

// buildTrees turns a flat, sorted list of staged index entries into a
// nested tree structure — one object.Tree per directory level,
// written bottom-up so that by the time a parent directory's tree is
// built, every child entry it references (blob or subtree) already
// has an id in store. It returns the id of the root tree.
func buildTrees(store *odb.Store, entries []index.Entry) (plumbing.Oid, error) {
	root := newDirNode()
	for _, e := range entries {
		root.insert(strings.Split(e.Path, "/"), e)
	}
	return root.write(store)
}

// dirNode is one level of the directory tree being assembled from the
// index's flat path list, before it's serialized into an object.Tree.
type dirNode struct {
	files map[string]index.Entry
	dirs  map[string]*dirNode
}

func newDirNode() *dirNode {
	return &dirNode{
		files: map[string]index.Entry{},
		dirs:  map[string]*dirNode{},
	}
}

// insert places e under the path segments remaining below this node:
// a single segment means a file lives directly in this directory,
// more than one means it lives in a (possibly new) subdirectory.
func (n *dirNode) insert(segments []string, e index.Entry) {
	if len(segments) == 1 {
		n.files[segments[0]] = e
		return
	}
	child, ok := n.dirs[segments[0]]
	if !ok {
		child = newDirNode()
		n.dirs[segments[0]] = child
	}
	child.insert(segments[1:], e)
}

// write recursively serializes this node's subdirectories first, then
// this node itself, returning the id of the resulting tree object.
func (n *dirNode) write(store *odb.Store) (plumbing.Oid, error) {
	entries := make([]object.TreeEntry, 0, len(n.files)+len(n.dirs))

	for name, e := range n.files {
		mode := object.ModeFile
		if e.Mode == index.ModeExecutable {
			mode = object.ModeExecutable
		}
		entries = append(entries, object.TreeEntry{Path: name, ID: e.ID, Mode: mode})
	}
	for name, child := range n.dirs {
		oid, err := child.write(store)
		if err != nil {
			return plumbing.NullOid, err
		}
		entries = append(entries, object.TreeEntry{Path: name, ID: oid, Mode: object.ModeDirectory})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	tree := object.NewTree(entries)
	return store.WriteObject(tree.ToObject())
}
