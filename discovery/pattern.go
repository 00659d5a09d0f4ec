package discovery

import (
	"path"
	"regexp"
	"strings"

	"github.com/albertocavalcante/go-variants/variantset"
)

// FilePattern matches the variant files of one module file. For
// "button.js" it matches "button.js", "button.locale=fr.js",
// "button.locale=fr.device_type=mobile.js" and so on.
type FilePattern struct {
	// Base is the file name without directory and extension.
	Base string
	// Ext is the extension including the dot, or "".
	Ext string

	re *regexp.Regexp
}

// Pattern builds the pattern for filename. Only the base name is used.
func Pattern(filename string) FilePattern {
	name := path.Base(filename)
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)

	expr := "^" + regexp.QuoteMeta(base) + `(\.[\w=:]+)*` + regexp.QuoteMeta(ext) + "$"
	return FilePattern{Base: base, Ext: ext, re: regexp.MustCompile(expr)}
}

// Match reports whether name is the module file or one of its variants.
func (p FilePattern) Match(name string) bool {
	return p.re.MatchString(name)
}

// String returns the regular expression.
func (p FilePattern) String() string {
	return p.re.String()
}

// VariantSetOf returns the variant set encoded in filename. ok is false when
// the name does not match the pattern; the module file itself yields an
// empty set.
func VariantSetOf(filename string, p FilePattern) (variantset.Set, bool) {
	name := path.Base(filename)
	if !p.Match(name) {
		return nil, false
	}
	uri := strings.TrimSuffix(strings.TrimPrefix(name, p.Base), p.Ext)
	return variantset.Parse(strings.TrimPrefix(uri, ".")), true
}
