package analyzer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func name(ident string) Expr {
	return Expr{Kind: ExprName, Ident: ident}
}

func call(callee Expr) Expr {
	return Expr{Kind: ExprCall, Func: &callee}
}

func attr(ident string) Expr {
	return Expr{Kind: ExprAttribute, Ident: ident}
}

func TestIsDerivedFrom(t *testing.T) {
	tests := []struct {
		name  string
		bases []Expr
		want  bool
	}{
		{"no bases", nil, false},
		{"direct base", []Expr{name("APIView")}, true},
		{"among mixins", []Expr{name("LoginRequiredMixin"), name("APIView")}, true},
		{"other base", []Expr{name("GenericAPIView")}, false},
		{"qualified base", []Expr{attr("APIView")}, false},
		{"call base", []Expr{call(name("APIView"))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := ClassDef{Name: "View", Bases: tt.bases}
			assert.Equal(t, tt.want, IsDerivedFrom(cls, TargetBase))
		})
	}
}

func TestHasAnnotation(t *testing.T) {
	tests := []struct {
		name       string
		decorators []Expr
		want       bool
	}{
		{"none", nil, false},
		{"bare name", []Expr{name("extend_schema")}, true},
		{"call", []Expr{call(name("extend_schema"))}, true},
		{"second decorator", []Expr{name("csrf_exempt"), call(name("extend_schema"))}, true},
		{"other decorator", []Expr{call(name("extend_schema_view"))}, false},
		// qualified references are deliberately not recognized
		{"attribute", []Expr{attr("extend_schema")}, false},
		{"attribute call", []Expr{call(attr("extend_schema"))}, false},
		{"call of call", []Expr{call(call(name("extend_schema")))}, false},
		{"call without callee", []Expr{{Kind: ExprCall}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := ClassDef{Name: "View", Decorators: tt.decorators}
			assert.Equal(t, tt.want, HasAnnotation(cls, TargetAnnotation))
		})
	}
}

func TestIsExcludedDir(t *testing.T) {
	root := filepath.Join("srv", "project")

	assert.False(t, isExcludedDir(root, root))
	assert.False(t, isExcludedDir(root, filepath.Join(root, "views")))
	assert.False(t, isExcludedDir(root, filepath.Join(root, ".github")))
	assert.True(t, isExcludedDir(root, filepath.Join(root, ".venv")))
	assert.True(t, isExcludedDir(root, filepath.Join(root, "venv", "lib")))
	assert.True(t, isExcludedDir(root, filepath.Join(root, "apps", ".git")))
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, isSourceFile("views/users.py"))
	assert.False(t, isSourceFile("views/users.pyc"))
	assert.False(t, isSourceFile("README.md"))
}
