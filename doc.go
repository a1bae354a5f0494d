// Package views provides a small view-rendering layer: given a view-model
// and a view type, it locates a matching template and renders it, either
// straight to output or captured into a string.
//
// views is organized around ViewFinders and a Service. A ViewFinder maps a
// view-model and a view type ("view", "email", ...) to the path of a
// template. Several finders are provided, and they compose:
//
//   - SimpleFinder maps the view-model's type ID onto a root directory,
//     optionally restricted to a namespace.
//   - LocalFinder looks next to the source file that declares the
//     view-model's type.
//   - DefaultFinder searches several root directories in order and
//     returns the first template that exists.
//   - MultiFinder stacks any finders, including other MultiFinders, in
//     priority order. Prepend a finder to override templates, for
//     theming.
//
// A view-model's type ID is derived from its Go type: a pages.Home
// declared in example.com/app/pages has the type ID
// "example.com/app/pages/Home", so SimpleFinder resolves it, as the "view"
// view type, to "<root>/example.com/app/pages/Home.view.tpl". View-models
// can choose their own type ID by implementing Identifier.
//
// The Service is what actually renders. Render resolves the template path
// through its finder, loads the template with a Loader, and executes it
// against the ambient output, a Sink. Template paths and loaded templates
// are both cached for the lifetime of the Service. Capture does the same
// but returns the output as a string.
//
// Templates can capture part of their own output with Begin and End:
//
//	var sidebar string
//	if err := view.Begin(&sidebar); err != nil {
//		return err
//	}
//	view.Printf("<li>%s</li>", item)
//	if err := view.End(&sidebar); err != nil {
//		return err
//	}
//
// Captures nest and must be balanced. A template that leaves a capture
// open, or opens and closes Sink buffers on its own, makes Render fail,
// and the Service discards whatever the template left behind so later
// renders aren't affected.
//
// A Service is not safe for concurrent use.
package views
