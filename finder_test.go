package views_test

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"impractical.co/views"
)

// LocalPage has an exported method so LocalFinder can find this file.
type LocalPage struct{}

func (LocalPage) Title() string {
	return "local"
}

// GenericPage is named with its type arguments by reflect.
type GenericPage[T any] struct {
	Item T
}

// unlocatable has no exported methods, so its source can't be found.
type unlocatable struct{}

type locatedElsewhere struct{}

func (locatedElsewhere) ViewSource() (string, string) {
	return "/srv/app/widgets", "Widget"
}

func thisDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("can't determine the test's source file")
	}
	return filepath.Dir(file)
}

func memFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, file := range files {
		if err := afero.WriteFile(fs, file, []byte(file), 0o644); err != nil {
			t.Fatalf("Error writing %s: %v", file, err)
		}
	}
	return fs
}

func TestTypeID(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		model    any
		expected string
	}{
		"struct":     {model: LocalPage{}, expected: "impractical.co/views_test/LocalPage"},
		"pointer":    {model: &LocalPage{}, expected: "impractical.co/views_test/LocalPage"},
		"identifier": {model: namedModel("app/pages/Home"), expected: "app/pages/Home"},
		"builtin":    {model: 42, expected: "int"},
		"nil":        {model: nil, expected: ""},
		"generic":    {model: GenericPage[LocalPage]{}, expected: "impractical.co/views_test/GenericPage"},
		"generic-ptr": {
			model:    &GenericPage[map[string]LocalPage]{},
			expected: "impractical.co/views_test/GenericPage",
		},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := views.TypeID(tc.model); got != tc.expected {
				t.Errorf("Expected type ID %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSimpleFinder(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	model := namedModel("app/pages/Home")

	cases := map[string]struct {
		finder   *views.SimpleFinder
		viewType string
		expected string
		paths    []string
	}{
		"no-namespace": {
			finder:   views.NewSimpleFinder("/srv/views"),
			viewType: "view",
			expected: "/srv/views/app/pages/Home.view.tpl",
			paths:    []string{"/srv/views/app/pages/Home.view.tpl"},
		},
		"trailing-separators": {
			finder:   views.NewSimpleFinder("/srv/views///"),
			viewType: "view",
			expected: "/srv/views/app/pages/Home.view.tpl",
			paths:    []string{"/srv/views/app/pages/Home.view.tpl"},
		},
		"namespace": {
			finder:   views.NewSimpleFinder("/srv/views", views.WithNamespace("app/")),
			viewType: "email",
			expected: "/srv/views/pages/Home.email.tpl",
			paths:    []string{"/srv/views/pages/Home.email.tpl"},
		},
		"outside-namespace": {
			finder:   views.NewSimpleFinder("/srv/views", views.WithNamespace("admin")),
			viewType: "view",
			expected: "",
			paths:    []string{},
		},
		"extension": {
			finder:   views.NewSimpleFinder("/srv/views", views.WithExtension("html")),
			viewType: "view",
			expected: "/srv/views/app/pages/Home.view.html",
			paths:    []string{"/srv/views/app/pages/Home.view.html"},
		},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.finder.FindTemplate(ctx, model, tc.viewType)
			if err != nil {
				t.Fatalf("Unexpected error finding template: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
			paths, err := tc.finder.ListSearchPaths(ctx, model, tc.viewType)
			if err != nil {
				t.Fatalf("Unexpected error listing search paths: %v", err)
			}
			if diff := cmp.Diff(tc.paths, paths); diff != "" {
				t.Errorf("Unexpected search paths (-wanted, +got): %s", diff)
			}
		})
	}
}

func TestSimpleFinderGenericModel(t *testing.T) {
	t.Parallel()

	got, err := views.NewSimpleFinder("/srv/views").FindTemplate(testContext(), GenericPage[LocalPage]{}, "view")
	if err != nil {
		t.Fatalf("Unexpected error finding template: %v", err)
	}
	if expected := "/srv/views/impractical.co/views_test/GenericPage.view.tpl"; got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestSimpleFinderRoot(t *testing.T) {
	t.Parallel()

	finder := views.NewSimpleFinder("/srv/views/")
	if finder.Root() != "/srv/views/" {
		t.Errorf("Expected root %q, got %q", "/srv/views/", finder.Root())
	}
	if finder.Namespace() != "" {
		t.Errorf("Expected no namespace, got %q", finder.Namespace())
	}
}

func TestNamespaceFinderStrict(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	finder := views.NewNamespaceFinder("/srv/views", "admin")
	if finder.Namespace() != "admin" {
		t.Errorf("Expected namespace %q, got %q", "admin", finder.Namespace())
	}

	_, err := finder.FindTemplate(ctx, namedModel("app/pages/Home"), "view")
	if !errors.Is(err, views.ErrUnsupportedModel) {
		t.Errorf("Expected ErrUnsupportedModel, got %v", err)
	}
	_, err = finder.ListSearchPaths(ctx, namedModel("app/pages/Home"), "view")
	if !errors.Is(err, views.ErrUnsupportedModel) {
		t.Errorf("Expected ErrUnsupportedModel listing paths, got %v", err)
	}

	got, err := finder.FindTemplate(ctx, namedModel("admin/Dashboard"), "view")
	if err != nil {
		t.Fatalf("Unexpected error finding template: %v", err)
	}
	if got != "/srv/views/Dashboard.view.tpl" {
		t.Errorf("Expected %q, got %q", "/srv/views/Dashboard.view.tpl", got)
	}
}

func TestLocalFinder(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	dir := thisDir(t)
	finder := views.NewLocalFinder()

	for _, model := range []any{LocalPage{}, &LocalPage{}} {
		got, err := finder.FindTemplate(ctx, model, "view")
		if err != nil {
			t.Fatalf("Unexpected error finding template for %T: %v", model, err)
		}
		expected := filepath.Join(dir, "LocalPage.view.tpl")
		if got != expected {
			t.Errorf("Expected %q for %T, got %q", expected, model, got)
		}
		paths, err := finder.ListSearchPaths(ctx, model, "view")
		if err != nil {
			t.Fatalf("Unexpected error listing search paths: %v", err)
		}
		if diff := cmp.Diff([]string{expected}, paths); diff != "" {
			t.Errorf("Unexpected search paths (-wanted, +got): %s", diff)
		}
	}
}

func TestLocalFinderLocator(t *testing.T) {
	t.Parallel()

	got, err := views.NewLocalFinder(views.WithExtension(".html")).FindTemplate(testContext(), locatedElsewhere{}, "card")
	if err != nil {
		t.Fatalf("Unexpected error finding template: %v", err)
	}
	if got != "/srv/app/widgets/Widget.card.html" {
		t.Errorf("Expected %q, got %q", "/srv/app/widgets/Widget.card.html", got)
	}
}

func TestLocalFinderUnsupported(t *testing.T) {
	t.Parallel()

	_, err := views.NewLocalFinder().FindTemplate(testContext(), unlocatable{}, "view")
	if !errors.Is(err, views.ErrUnsupportedModel) {
		t.Errorf("Expected ErrUnsupportedModel, got %v", err)
	}
}

func TestDefaultFinder(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	model := namedModel("app/pages/Home")
	fs := memFs(t, "/srv/views/app/pages/Home.view.tpl")

	cases := map[string]struct {
		roots    []string
		expected string
		paths    []string
	}{
		"single": {
			roots:    []string{"/srv/views"},
			expected: "/srv/views/app/pages/Home.view.tpl",
			paths:    []string{"/srv/views/app/pages/Home.view.tpl"},
		},
		"missing-first": {
			roots:    []string{"/srv/theme", "/srv/views"},
			expected: "/srv/views/app/pages/Home.view.tpl",
			paths: []string{
				"/srv/theme/app/pages/Home.view.tpl",
				"/srv/views/app/pages/Home.view.tpl",
			},
		},
		"missing-last": {
			roots:    []string{"/srv/views", "/srv/theme"},
			expected: "/srv/views/app/pages/Home.view.tpl",
			paths: []string{
				"/srv/views/app/pages/Home.view.tpl",
				"/srv/theme/app/pages/Home.view.tpl",
			},
		},
		"missing-everywhere": {
			roots:    []string{"/srv/theme"},
			expected: "",
			paths:    []string{"/srv/theme/app/pages/Home.view.tpl"},
		},
		"no-roots": {
			roots:    nil,
			expected: "",
			paths:    []string{},
		},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			finder := views.NewDefaultFinder(tc.roots, views.WithFs(fs))
			got, err := finder.FindTemplate(ctx, model, "view")
			if err != nil {
				t.Fatalf("Unexpected error finding template: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
			paths, err := finder.ListSearchPaths(ctx, model, "view")
			if err != nil {
				t.Fatalf("Unexpected error listing search paths: %v", err)
			}
			if diff := cmp.Diff(tc.paths, paths); diff != "" {
				t.Errorf("Unexpected search paths (-wanted, +got): %s", diff)
			}
		})
	}
}

func TestDefaultFinderNamespace(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	fs := memFs(t, "/srv/views/pages/Home.view.tpl")
	finder := views.NewDefaultFinder([]string{"/srv/views"}, views.WithFs(fs), views.WithNamespace("app"))
	if finder.Namespace() != "app" {
		t.Errorf("Expected namespace %q, got %q", "app", finder.Namespace())
	}

	got, err := finder.FindTemplate(ctx, namedModel("app/pages/Home"), "view")
	if err != nil {
		t.Fatalf("Unexpected error finding template: %v", err)
	}
	if got != "/srv/views/pages/Home.view.tpl" {
		t.Errorf("Expected %q, got %q", "/srv/views/pages/Home.view.tpl", got)
	}

	got, err = finder.FindTemplate(ctx, namedModel("other/pages/Home"), "view")
	if err != nil {
		t.Fatalf("Unexpected error finding template outside the namespace: %v", err)
	}
	if got != "" {
		t.Errorf("Expected no template outside the namespace, got %q", got)
	}
}

func TestMultiFinderOrder(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	model := namedModel("app/pages/Home")
	fs := memFs(t,
		"/a/app/pages/Home.view.tpl",
		"/b/app/pages/Home.view.tpl",
		"/c/app/pages/Home.view.tpl",
	)

	finder := views.NewMultiFinder(nil, views.WithFs(fs))
	finder.Append(views.NewSimpleFinder("/a"))
	finder.Append(views.NewSimpleFinder("/b"))
	finder.Prepend(views.NewSimpleFinder("/c"))
	finder.Append(nil)
	if finder.Len() != 3 {
		t.Errorf("Expected 3 finders, got %d", finder.Len())
	}

	paths, err := finder.ListSearchPaths(ctx, model, "view")
	if err != nil {
		t.Fatalf("Unexpected error listing search paths: %v", err)
	}
	expected := []string{
		"/c/app/pages/Home.view.tpl",
		"/a/app/pages/Home.view.tpl",
		"/b/app/pages/Home.view.tpl",
	}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Errorf("Unexpected search paths (-wanted, +got): %s", diff)
	}

	got, err := finder.FindTemplate(ctx, model, "view")
	if err != nil {
		t.Fatalf("Unexpected error finding template: %v", err)
	}
	if got != "/c/app/pages/Home.view.tpl" {
		t.Errorf("Expected the prepended finder to win, got %q", got)
	}

	if err := fs.Remove("/c/app/pages/Home.view.tpl"); err != nil {
		t.Fatalf("Error removing template: %v", err)
	}
	got, err = finder.FindTemplate(ctx, model, "view")
	if err != nil {
		t.Fatalf("Unexpected error finding template: %v", err)
	}
	if got != "/a/app/pages/Home.view.tpl" {
		t.Errorf("Expected the first appended finder to win, got %q", got)
	}
}

func TestMultiFinderNested(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	model := namedModel("app/pages/Home")
	fs := memFs(t, "/theme/app/pages/Home.view.tpl")

	inner := views.NewDefaultFinder([]string{"/base", "/theme"}, views.WithFs(fs))
	outer := views.NewMultiFinder([]views.ViewFinder{views.NewSimpleFinder("/override"), inner}, views.WithFs(fs))

	got, err := outer.FindTemplate(ctx, model, "view")
	if err != nil {
		t.Fatalf("Unexpected error finding template: %v", err)
	}
	if got != "/theme/app/pages/Home.view.tpl" {
		t.Errorf("Expected %q, got %q", "/theme/app/pages/Home.view.tpl", got)
	}
	paths, err := outer.ListSearchPaths(ctx, model, "view")
	if err != nil {
		t.Fatalf("Unexpected error listing search paths: %v", err)
	}
	expected := []string{
		"/override/app/pages/Home.view.tpl",
		"/base/app/pages/Home.view.tpl",
		"/theme/app/pages/Home.view.tpl",
	}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Errorf("Unexpected search paths (-wanted, +got): %s", diff)
	}
}

type failingFinder struct{}

var errFinderBroken = errors.New("finder broken")

func (failingFinder) FindTemplate(_ context.Context, _ any, _ string) (string, error) {
	return "", errFinderBroken
}

func (failingFinder) ListSearchPaths(_ context.Context, _ any, _ string) ([]string, error) {
	return nil, errFinderBroken
}

func TestMultiFinderErrors(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	finder := views.NewMultiFinder([]views.ViewFinder{
		views.NewNamespaceFinder("/srv/views", "admin"),
		views.NewSimpleFinder("/srv/views"),
	}, views.WithFs(memFs(t, "/srv/views/app/pages/Home.view.tpl")))

	_, err := finder.FindTemplate(ctx, namedModel("app/pages/Home"), "view")
	if !errors.Is(err, views.ErrUnsupportedModel) {
		t.Errorf("Expected ErrUnsupportedModel from the strict finder, got %v", err)
	}

	finder = views.NewMultiFinder([]views.ViewFinder{failingFinder{}})
	if _, err := finder.ListSearchPaths(ctx, namedModel("app/pages/Home"), "view"); !errors.Is(err, errFinderBroken) {
		t.Errorf("Expected errFinderBroken, got %v", err)
	}
}
