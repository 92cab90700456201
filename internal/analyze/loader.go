package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/reoring/gomapper"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and describes their structs.
type Analyzer struct {
	dir       string
	buildTags []string
	pkgs      []*packages.Package
}

// NewAnalyzer creates an Analyzer resolving patterns relative to dir (the
// current directory when empty).
func NewAnalyzer(dir string, buildTags ...string) *Analyzer {
	return &Analyzer{dir: dir, buildTags: buildTags}
}

// LoadPackages loads the packages matching patterns.
func (a *Analyzer) LoadPackages(patterns ...string) error {
	cfg := &packages.Config{Mode: LoadMode, Dir: a.dir}
	if len(a.buildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(a.buildTags, ",")}
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("package errors: %w", errors.Join(errs...))
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("no packages match %v", patterns)
	}
	a.pkgs = pkgs
	return nil
}

// Packages returns the loaded packages.
func (a *Analyzer) Packages() []*packages.Package { return a.pkgs }

// Struct describes the named struct from the loaded packages. When
// withConstructor is set a New<Name> function is looked up as well.
func (a *Analyzer) Struct(name string, withConstructor bool) (*Struct, error) {
	for _, pkg := range a.pkgs {
		obj, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		st, ok := obj.Type().Underlying().(*types.Struct)
		if !ok {
			return nil, fmt.Errorf("type %s.%s is not a struct", pkg.PkgPath, name)
		}
		s := &Struct{Name: name, PkgName: pkg.Name, PkgPath: pkg.PkgPath}
		if err := s.collectFields(st, pkg.Types); err != nil {
			return nil, err
		}
		if withConstructor {
			s.Constructor = findConstructor(pkg.Types, obj, s)
		}
		return s, nil
	}
	return nil, fmt.Errorf("type %s not found", name)
}

func (s *Struct) collectFields(st *types.Struct, pkg *types.Package) error {
	seen := map[string]bool{}
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		if !v.Exported() {
			continue
		}
		tag := reflect.StructTag(st.Tag(i))
		key := gomapper.ResolveTagKey(v.Name(), tag)
		if key == "-" || key == "" {
			continue
		}
		if seen[key] {
			return fmt.Errorf("%s.%s: duplicate field name", s.Name, key)
		}
		seen[key] = true
		kind, nullable, isMap, object, err := classify(v.Type(), pkg)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, key, err)
		}
		f := Field{
			GoName:     v.Name(),
			Key:        key,
			Kind:       kind,
			Map:        isMap,
			Nullable:   nullable,
			Groups:     gomapper.ParseGroups(tag.Get(gomapper.TagGroups)),
			TypeString: types.TypeString(v.Type(), types.RelativeTo(pkg)),
			Object:     object,
		}
		if !nullable && gomapper.TagHasFlag(tag, "nullable") {
			f.Nullable = true
			f.Flagged = true
		}
		if lit, ok := tag.Lookup(gomapper.TagDefault); ok {
			f.HasDefault = true
			f.Default = lit
		}
		s.Fields = append(s.Fields, f)
	}
	return nil
}

// classify mirrors gomapper.ClassifyType on go/types.
func classify(t types.Type, pkg *types.Package) (kind gomapper.Kind, nullable, isMap bool, object string, err error) {
	if p, ok := t.(*types.Pointer); ok {
		nullable = true
		t = p.Elem()
		if _, ok := t.(*types.Pointer); ok {
			return gomapper.KindInvalid, false, false, "", errors.New("pointer to pointer is not supported")
		}
	}
	if n, ok := t.(*types.Named); ok && n.Obj().Pkg() != nil &&
		n.Obj().Pkg().Path() == "encoding/json" && n.Obj().Name() == "Number" {
		return gomapper.KindFloat, nullable, false, "", nil
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		info := u.Info()
		switch {
		case info&types.IsString != 0:
			return gomapper.KindString, nullable, false, "", nil
		case info&types.IsBoolean != 0:
			return gomapper.KindBool, nullable, false, "", nil
		case info&types.IsInteger != 0:
			return gomapper.KindInteger, nullable, false, "", nil
		case info&types.IsFloat != 0:
			return gomapper.KindFloat, nullable, false, "", nil
		}
		return gomapper.KindInvalid, false, false, "", fmt.Errorf("unsupported kind %s", u.Name())
	case *types.Slice, *types.Array:
		return gomapper.KindContainer, nullable, false, "", nil
	case *types.Map:
		if b, ok := u.Key().Underlying().(*types.Basic); !ok || b.Info()&types.IsString == 0 {
			return gomapper.KindInvalid, false, false, "", errors.New("map keys must be strings")
		}
		return gomapper.KindContainer, nullable, true, "", nil
	case *types.Interface:
		if u.NumMethods() != 0 {
			return gomapper.KindInvalid, false, false, "", errors.New("only empty interfaces are supported")
		}
		return gomapper.KindAny, true, false, "", nil
	case *types.Struct:
		return gomapper.KindObject, nullable, false, types.TypeString(t, types.RelativeTo(pkg)), nil
	}
	return gomapper.KindInvalid, false, false, "", fmt.Errorf("unsupported type %s", t)
}

// findConstructor looks for func New<Name>(...) returning Name or *Name,
// optionally followed by error. Parameter names are mapped onto field keys
// by case-insensitive match on the Go field name or the key.
func findConstructor(pkg *types.Package, obj *types.TypeName, s *Struct) *Constructor {
	fn, ok := pkg.Scope().Lookup("New" + obj.Name()).(*types.Func)
	if !ok {
		return nil
	}
	sig := fn.Type().(*types.Signature)
	if sig.Variadic() || sig.Recv() != nil || sig.TypeParams().Len() > 0 {
		return nil
	}
	res := sig.Results()
	switch res.Len() {
	case 1:
	case 2:
		if !types.Identical(res.At(1).Type(), types.Universe.Lookup("error").Type()) {
			return nil
		}
	default:
		return nil
	}
	out := res.At(0).Type()
	if p, ok := out.(*types.Pointer); ok {
		out = p.Elem()
	}
	if n, ok := out.(*types.Named); !ok || n.Obj() != obj {
		return nil
	}
	c := &Constructor{Func: fn.Name()}
	seen := map[string]bool{}
	for i := 0; i < sig.Params().Len(); i++ {
		name := sig.Params().At(i).Name()
		if name == "" || name == "_" {
			return nil
		}
		key := name
		for _, f := range s.Fields {
			if strings.EqualFold(f.GoName, name) || strings.EqualFold(f.Key, name) {
				key = f.Key
				break
			}
		}
		if seen[key] {
			return nil
		}
		seen[key] = true
		c.Params = append(c.Params, key)
	}
	return c
}
