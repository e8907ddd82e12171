package analyzer

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// tree-sitter node types
const (
	nodeClass     = "class_definition"
	nodeDecorated = "decorated_definition"
	nodeDecorator = "decorator"
	nodeBlock     = "block"
	nodeIf        = "if_statement"
	nodeElif      = "elif_clause"
	nodeElse      = "else_clause"
	nodeFinally   = "finally_clause"
	nodeError     = "ERROR"
)

func newPythonParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return parser
}

// parseClasses parses a Python module and returns its class statements.
// tree-sitter recovers from syntax errors, so a tree containing error nodes
// is rejected here to keep broken files out of the results.
func (a *Analyzer) parseClasses(ctx context.Context, parser *sitter.Parser, src []byte) ([]ClassDef, error) {
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, firstSyntaxError(root)
	}

	return collectClasses(root, src), nil
}

// collectClasses walks the module breadth first, the order Python's
// ast.walk visits nodes in. Decorated definitions, blocks, else and finally
// clauses are flattened so they don't push their classes one level deeper
// than Python's own tree. An elif stands for the nested if Python builds for
// it and owns every clause that follows it.
func collectClasses(root *sitter.Node, src []byte) []ClassDef {
	classes := []ClassDef{}
	queue := statementChildren(pending{node: root})

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.node.Type() == nodeClass {
			classes = append(classes, lowerClass(item.node, src))
		}
		queue = append(queue, statementChildren(item)...)
	}

	return classes
}

// pending is a node waiting in the walk queue. alternatives holds the elif
// and else clauses that still hang off an if or elif.
type pending struct {
	node         *sitter.Node
	alternatives []*sitter.Node
}

func statementChildren(item pending) []pending {
	node := item.node
	children := []pending{}
	var alternatives []*sitter.Node

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case nodeDecorated:
			if definition := child.ChildByFieldName("definition"); definition != nil {
				children = append(children, pending{node: definition})
			}
		case nodeElif:
			alternatives = append(alternatives, child)
		case nodeElse:
			if node.Type() == nodeIf {
				alternatives = append(alternatives, child)
				continue
			}
			children = append(children, statementChildren(pending{node: child})...)
		case nodeBlock, nodeFinally:
			children = append(children, statementChildren(pending{node: child})...)
		default:
			children = append(children, pending{node: child})
		}
	}

	alternatives = append(alternatives, item.alternatives...)
	if len(alternatives) == 0 {
		return children
	}
	if next := alternatives[0]; next.Type() == nodeElif {
		return append(children, pending{node: next, alternatives: alternatives[1:]})
	}
	return append(children, statementChildren(pending{node: alternatives[0]})...)
}

func lowerClass(node *sitter.Node, src []byte) ClassDef {
	cls := ClassDef{
		Line: int(node.StartPoint().Row) + 1,
	}
	if name := node.ChildByFieldName("name"); name != nil {
		cls.Name = name.Content(src)
	}

	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for i := 0; i < int(superclasses.NamedChildCount()); i++ {
			arg := superclasses.NamedChild(i)
			if arg == nil {
				continue
			}
			// metaclass=... and friends are keywords, not bases
			switch arg.Type() {
			case "keyword_argument", "comment":
				continue
			}
			cls.Bases = append(cls.Bases, lowerExpr(arg, src))
		}
	}

	if parent := node.Parent(); parent != nil && parent.Type() == nodeDecorated {
		for i := 0; i < int(parent.NamedChildCount()); i++ {
			child := parent.NamedChild(i)
			if child == nil || child.Type() != nodeDecorator {
				continue
			}
			cls.Decorators = append(cls.Decorators, lowerDecorator(child, src))
		}
	}

	return cls
}

func lowerDecorator(node *sitter.Node, src []byte) Expr {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		return lowerExpr(child, src)
	}
	return Expr{Kind: ExprOther}
}

func lowerExpr(node *sitter.Node, src []byte) Expr {
	if node == nil {
		return Expr{Kind: ExprOther}
	}

	switch node.Type() {
	case "identifier":
		return Expr{Kind: ExprName, Ident: node.Content(src)}
	case "call":
		callee := lowerExpr(node.ChildByFieldName("function"), src)
		return Expr{Kind: ExprCall, Func: &callee}
	case "attribute":
		expr := Expr{Kind: ExprAttribute}
		if attr := node.ChildByFieldName("attribute"); attr != nil {
			expr.Ident = attr.Content(src)
		}
		return expr
	case "parenthesized_expression":
		// Python drops the parentheses from its tree
		if node.NamedChildCount() == 1 {
			return lowerExpr(node.NamedChild(0), src)
		}
	}
	return Expr{Kind: ExprOther}
}

// firstSyntaxError returns the position of the first error or missing node
// in document order.
func firstSyntaxError(root *sitter.Node) error {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Type() == nodeError || node.IsMissing() {
			point := node.StartPoint()
			return &SyntaxError{Line: int(point.Row) + 1, Column: int(point.Column) + 1}
		}
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(i); child != nil && (child.HasError() || child.IsMissing()) {
				stack = append(stack, child)
			}
		}
	}

	point := root.StartPoint()
	return &SyntaxError{Line: int(point.Row) + 1, Column: int(point.Column) + 1}
}
