package corpus

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/00d/grimoire/internal/natsort"
)

// Node is one entry of the corpus file tree served to clients.
type Node struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName,omitempty"`
	Type        string  `json:"type"` // "directory" or "file"
	Path        string  `json:"path,omitempty"`
	Kind        Kind    `json:"kind,omitempty"`
	Children    []*Node `json:"children,omitempty"`
}

// Tree returns the cached two-root corpus tree, rebuilding it when stale.
func (s *Store) Tree() ([]*Node, error) {
	return s.tree.Get()
}

func (s *Store) buildTree() ([]*Node, error) {
	extracted := &Node{
		Name:        "extracted",
		DisplayName: "Rulebooks",
		Type:        "directory",
		Children:    s.walkDir(s.extractedDir, "", KindText),
	}
	rules := &Node{
		Name:        "rules",
		DisplayName: "Curated Rules",
		Type:        "directory",
		Children:    s.walkDir(s.rulesDir, "", KindMarkdown),
	}
	return []*Node{extracted, rules}, nil
}

// walkDir lists one directory level, recursing into subdirectories. Unreadable
// directories contribute nothing; the tree is best-effort by design.
func (s *Store) walkDir(root, rel string, kind Kind) []*Node {
	entries, err := os.ReadDir(filepath.Join(root, rel))
	if err != nil {
		s.log.Warn("tree walk failed", "dir", rel, "error", err)
		return nil
	}

	var nodes []*Node
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		childRel := filepath.Join(rel, name)
		if e.IsDir() {
			children := s.walkDir(root, childRel, kind)
			if len(children) == 0 {
				continue
			}
			nodes = append(nodes, &Node{
				Name:        name,
				DisplayName: PrettyName(name),
				Type:        "directory",
				Children:    children,
			})
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), kind.ext()) {
			continue
		}
		nodes = append(nodes, &Node{
			Name:        name,
			DisplayName: PrettyName(name),
			Type:        "file",
			Path:        filepath.ToSlash(childRel),
			Kind:        kind,
		})
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Type != nodes[j].Type {
			return nodes[i].Type == "directory"
		}
		return natsort.Less(nodes[i].Name, nodes[j].Name)
	})
	return nodes
}

var chapterPrefixRe = regexp.MustCompile(`^\d+[_\-. ]+`)

// PrettyName turns file names like "03_Classes.txt" into "Classes".
func PrettyName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = chapterPrefixRe.ReplaceAllString(base, "")
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.Join(strings.Fields(base), " ")
}
