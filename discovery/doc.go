// Package discovery finds variant files on disk and picks the file to build
// for a target variant set.
//
// Variant files live next to the module file they vary and encode their
// variant set between the base name and the extension:
//
//	button.js                        the module file
//	button.locale=fr.js              {locale: fr}
//	button.locale=fr.device_type=mobile.js
//	button.beta.js                   {beta} (presence-only axis)
//
// A Scanner lists directories through an fs.FS, so it works the same on the
// real file system (os.DirFS) and in tests (fstest.MapFS):
//
//	s, _ := discovery.NewScanner(os.DirFS(root), priority.Default(), 0)
//	n, err := s.Expand(g) // attach variant files to every module of g
//
// At build time, Resolve maps a module file and a target variant set to the
// most specific matching variant file.
package discovery
