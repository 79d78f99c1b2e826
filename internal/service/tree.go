package service

import (
	"sort"

	"github.com/opencodedocs/internal/db"
)

// MenuNode 是菜单树中的一个节点，Children 永远不为 nil。
type MenuNode struct {
	db.MenuEntry
	Children []*MenuNode `json:"children"`
}

// BuildTree 把扁平菜单投影成按 SortOrder 升序排列的森林。
//
// 父节点缺失、未知或指向自身的条目成为根节点。同一 SortOrder 的兄弟节点保持输入顺序。
// 旧数据中形成环的条目不会被丢弃：按排序顺序把其中第一个提升为根节点。
// 函数没有副作用，同样的输入总是得到同样的树。
func BuildTree(flat []db.MenuEntry) []*MenuNode {
	if len(flat) == 0 {
		return []*MenuNode{}
	}

	index := make(map[string]int, len(flat))
	for i, entry := range flat {
		if _, dup := index[entry.ID]; !dup {
			index[entry.ID] = i
		}
	}

	children := make(map[int][]int, len(flat))
	roots := make([]int, 0, len(flat))
	for i, entry := range flat {
		parent, ok := index[entry.ParentKey()]
		if entry.ParentKey() == "" || !ok || parent == i {
			roots = append(roots, i)
			continue
		}
		children[parent] = append(children[parent], i)
	}

	bySortOrder := func(ids []int) {
		sort.SliceStable(ids, func(a, b int) bool {
			left, right := flat[ids[a]], flat[ids[b]]
			if left.SortOrder != right.SortOrder {
				return left.SortOrder < right.SortOrder
			}
			return ids[a] < ids[b]
		})
	}

	reached := make([]bool, len(flat))
	var mark func(i int)
	mark = func(i int) {
		if reached[i] {
			return
		}
		reached[i] = true
		for _, child := range children[i] {
			mark(child)
		}
	}
	for _, root := range roots {
		mark(root)
	}

	if len(roots) < len(flat) {
		pending := make([]int, 0, len(flat)-len(roots))
		for i := range flat {
			if !reached[i] {
				pending = append(pending, i)
			}
		}
		bySortOrder(pending)
		for _, i := range pending {
			if reached[i] {
				continue
			}
			roots = append(roots, i)
			mark(i)
		}
	}

	built := make([]bool, len(flat))
	var build func(i int) *MenuNode
	build = func(i int) *MenuNode {
		built[i] = true
		node := &MenuNode{MenuEntry: flat[i], Children: []*MenuNode{}}

		ids := append([]int(nil), children[i]...)
		bySortOrder(ids)
		for _, child := range ids {
			if built[child] {
				continue
			}
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	bySortOrder(roots)
	forest := make([]*MenuNode, 0, len(roots))
	for _, root := range roots {
		if built[root] {
			continue
		}
		forest = append(forest, build(root))
	}
	return forest
}

// Walk 深度优先遍历森林，fn 返回 false 时停止。
func Walk(forest []*MenuNode, fn func(node *MenuNode, depth int) bool) {
	var visit func(nodes []*MenuNode, depth int) bool
	visit = func(nodes []*MenuNode, depth int) bool {
		for _, node := range nodes {
			if !fn(node, depth) {
				return false
			}
			if !visit(node.Children, depth+1) {
				return false
			}
		}
		return true
	}
	visit(forest, 0)
}
