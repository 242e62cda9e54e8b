package inspect

import (
	"fmt"
	"io"

	"github.com/mizan-eval/mizan/internal/domain"
	"github.com/mizan-eval/mizan/internal/ports"
)

// treeNode is the JSON shape of one run group in the hierarchy.
type treeNode struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name,omitempty"`
	MainMetric  string     `json:"main_metric,omitempty"`
	Subgroups   []treeNode `json:"subgroups,omitempty"`
}

// WriteRunGroupTree renders the subgroup hierarchy below every root run
// group. Groups referenced by several parents appear once per parent.
func WriteRunGroupTree(w io.Writer, reader ports.SchemaReader, opts *Options) error {
	roots := reader.Roots()

	if opts.format() == FormatJSON {
		nodes, err := buildTreeNodes(reader, roots)
		if err != nil {
			return err
		}
		return writeJSON(w, nodes)
	}

	if len(roots) == 0 {
		_, err := fmt.Fprintln(w, "no run groups defined")
		return err
	}

	nameColor, bindingColor := opts.palette()
	for _, root := range roots {
		if err := writeTreeNode(w, reader, root, "", "", nameColor, bindingColor); err != nil {
			return err
		}
	}
	return nil
}

// writeTreeNode renders one run group line and recurses into its
// subgroups with box-drawing prefixes.
func writeTreeNode(
	w io.Writer,
	reader ports.SchemaReader,
	group domain.RunGroup,
	selfPrefix, childPrefix string,
	nameColor, bindingColor func(...any) string,
) error {
	line := nameColor(group.Name)
	if group.DisplayName != "" && group.DisplayName != group.Name {
		line += fmt.Sprintf(" (%s)", group.DisplayName)
	}
	if main := group.Environment["main_name"]; main != "" {
		line += " main: " + bindingColor(main)
	}
	if _, err := fmt.Fprintln(w, selfPrefix+line); err != nil {
		return err
	}

	children, err := reader.Subgroups(group.Name)
	if err != nil {
		return err
	}
	for i, child := range children {
		self, nested := childPrefix+"├── ", childPrefix+"│   "
		if i == len(children)-1 {
			self, nested = childPrefix+"└── ", childPrefix+"    "
		}
		if err := writeTreeNode(w, reader, child, self, nested, nameColor, bindingColor); err != nil {
			return err
		}
	}
	return nil
}

// buildTreeNodes converts run groups into the JSON tree shape.
func buildTreeNodes(reader ports.SchemaReader, groups []domain.RunGroup) ([]treeNode, error) {
	nodes := make([]treeNode, 0, len(groups))
	for _, group := range groups {
		children, err := reader.Subgroups(group.Name)
		if err != nil {
			return nil, err
		}
		childNodes, err := buildTreeNodes(reader, children)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, treeNode{
			Name:        group.Name,
			DisplayName: group.DisplayName,
			MainMetric:  group.Environment["main_name"],
			Subgroups:   childNodes,
		})
	}
	return nodes, nil
}
