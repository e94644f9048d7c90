package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cottand/inhabit/decl"
)

// load reads the declaration file at target, failing if it declares anything invalid
func load(target string) (*decl.Declarations, error) {
	target, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute path of target: %w", err)
	}
	stat, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("could not stat target: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected a declaration file", target)
	}

	name := filepath.Base(target)
	decls, errs, err := decl.LoadFile(os.DirFS(filepath.Dir(target)), name)
	if err != nil {
		return nil, err
	}
	if errs.HasError() {
		return nil, fmt.Errorf("errors found in declarations:\n%s", errs.Format(name+":"))
	}
	return decls, nil
}
