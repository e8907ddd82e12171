package analyzer

import (
	"path/filepath"
	"strings"
)

var excludedDirs = map[string]bool{
	".venv": true,
	"venv":  true,
	".git":  true,
}

// IsDerivedFrom reports whether one of the class bases is the bare name
// target. Qualified bases such as views.APIView do not count.
func IsDerivedFrom(cls ClassDef, target string) bool {
	for _, base := range cls.Bases {
		if base.Kind == ExprName && base.Ident == target {
			return true
		}
	}
	return false
}

// HasAnnotation reports whether the class is decorated with @target or
// @target(...). Only simple names match: @utils.target is not recognized.
func HasAnnotation(cls ClassDef, target string) bool {
	for _, decorator := range cls.Decorators {
		switch decorator.Kind {
		case ExprName:
			if decorator.Ident == target {
				return true
			}
		case ExprCall:
			if decorator.Func != nil && decorator.Func.Kind == ExprName && decorator.Func.Ident == target {
				return true
			}
		}
	}
	return false
}

func isSourceFile(path string) bool {
	return strings.HasSuffix(path, sourceExt)
}

// isExcludedDir checks every segment of path below root
func isExcludedDir(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if excludedDirs[segment] {
			return true
		}
	}
	return false
}
