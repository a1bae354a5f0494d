package views

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
)

// NamespaceSeparator separates the segments of a type ID. Finders
// translate it to the OS path separator when building template paths.
const NamespaceSeparator = "/"

// Identifier can be implemented by view-models that want to control their
// own type ID instead of having it derived from their Go type.
type Identifier interface {
	// ViewModelID returns the type ID of the view-model, using
	// NamespaceSeparator between segments, e.g. "app/pages/Home".
	ViewModelID() string
}

// Locator can be implemented by view-models to tell LocalFinder where
// their templates live.
type Locator interface {
	// ViewSource returns the directory that holds the view-model's
	// templates and the short name used as the template file prefix.
	ViewSource() (dir, shortName string)
}

// TypeID returns the type ID of model. If model implements Identifier,
// its ViewModelID is used. Otherwise the type ID is the package path and
// name of model's concrete type, with pointers dereferenced, joined by
// NamespaceSeparator: a *pages.Home declared in example.com/app/pages has
// the type ID "example.com/app/pages/Home".
//
// Type arguments are dropped, so every instantiation of a generic type
// shares a type ID; implement Identifier to tell them apart.
func TypeID(model any) string {
	if id, ok := model.(Identifier); ok {
		return id.ViewModelID()
	}
	typ := reflect.TypeOf(model)
	if typ == nil {
		return ""
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.PkgPath() == "" {
		return typ.String()
	}
	return typ.PkgPath() + NamespaceSeparator + typeName(typ)
}

// typeName returns the name of typ without the type arguments of an
// instantiated generic type: Page[example.com/x.Post] is named Page.
func typeName(typ reflect.Type) string {
	name := typ.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

// SourceLocation returns the directory of the source file that declares
// model's type, along with the type's short name.
//
// If model implements Locator, its ViewSource is used. Otherwise the
// location is taken from the first exported method declared on the type,
// so types without exported methods must implement Locator, or
// ErrUnsupportedModel is returned.
func SourceLocation(model any) (dir, shortName string, err error) {
	if loc, ok := model.(Locator); ok {
		dir, shortName = loc.ViewSource()
		return dir, shortName, nil
	}
	typ := reflect.TypeOf(model)
	if typ == nil {
		return "", "", fmt.Errorf("%w: nil view-model", ErrUnsupportedModel)
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Name() == "" {
		return "", "", fmt.Errorf("%w: %s has no name", ErrUnsupportedModel, typ)
	}
	// value receivers are declared on the type itself; pointer receivers
	// only show up in the pointer's method set, next to generated
	// wrappers for the value receivers.
	for _, candidate := range []reflect.Type{typ, reflect.PointerTo(typ)} {
		if file, ok := declaringFile(candidate); ok {
			return filepath.Dir(file), typeName(typ), nil
		}
	}
	return "", "", fmt.Errorf("%w: can't locate source of %s, implement Locator", ErrUnsupportedModel, TypeID(model))
}

func declaringFile(typ reflect.Type) (string, bool) {
	for i := 0; i < typ.NumMethod(); i++ {
		fn := runtime.FuncForPC(typ.Method(i).Func.Pointer())
		if fn == nil {
			continue
		}
		file, _ := fn.FileLine(fn.Entry())
		if file == "" || strings.HasPrefix(file, "<") {
			continue
		}
		return file, true
	}
	return "", false
}
