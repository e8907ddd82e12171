package analyzer

import "fmt"

type Analysis struct {
	Root         string
	FilesScanned int
	Findings     []Finding
	Warnings     []ParseWarning
}

// Finding is an API view class without a documentation decorator.
type Finding struct {
	FilePath  string
	ClassName string
	Line      int
}

type ParseWarning struct {
	FilePath string
	Err      error
}

func (w ParseWarning) Error() string {
	return fmt.Sprintf("%s: %v", w.FilePath, w.Err)
}

func (w ParseWarning) Unwrap() error {
	return w.Err
}

type ExprKind int

const (
	ExprOther ExprKind = iota
	ExprName
	ExprCall
	ExprAttribute
)

// Expr is the part of a Python expression the matchers care about.
type Expr struct {
	Kind  ExprKind
	Ident string // identifier for ExprName, attribute name for ExprAttribute
	Func  *Expr  // callee for ExprCall
}

// ClassDef is a class statement lowered out of the parse tree.
type ClassDef struct {
	Name       string
	Line       int
	Bases      []Expr
	Decorators []Expr
}

type SyntaxError struct {
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax (line %d, column %d)", e.Line, e.Column)
}
