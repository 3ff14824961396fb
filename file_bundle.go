package msgbundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// DefaultSourceExt is assumed for resource paths without a known extension.
const DefaultSourceExt = ".properties"

// FileLoader loads locale siblings of a base resource: for base
// "i18n/messages.properties" and locale fr-FR it reads
// "i18n/messages_fr_FR.properties"; Root reads the base itself.
// A missing file is "no mapping", an unreadable or invalid one a failure.
type FileLoader struct {
	fsys fs.FS
	base string
	ext  string
}

var _ SourceLoader = &FileLoader{}

// NewFileLoader returns a loader over fsys. A leading "/" in base is ignored.
// Empty base or nil fsys panics with a ContractError.
func NewFileLoader(fsys fs.FS, base string) *FileLoader {
	if fsys == nil {
		contractViolation(keyNilFS)
	}
	base = strings.TrimPrefix(strings.TrimSpace(base), "/")
	if base == "" {
		contractViolation(keyEmptyPath)
	}

	ext := path.Ext(base)
	if isSourceExt(ext) {
		base = strings.TrimSuffix(base, ext)
	} else {
		ext = DefaultSourceExt
	}

	return &FileLoader{fsys: fsys, base: base, ext: ext}
}

// Path returns the resource name used for locale.
func (l *FileLoader) Path(locale language.Tag) string {
	if suffix := localeSuffix(locale); suffix != "" {
		return l.base + "_" + suffix + l.ext
	}
	return l.base + l.ext
}

func (l *FileLoader) Load(locale language.Tag) (MessageSource, error) {
	name := l.Path(locale)

	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("msgbundle: read %s: %w", name, err)
	}
	return decodeSource(name, data)
}

// ForFS builds a bundle that behaves like a resource bundle rooted at
// resourcePath inside fsys. Each locale loads the most specific sibling file
// along LocaleChain; results are cached per locale. The bundle can be thawed
// to stack more providers on top.
func ForFS(fsys fs.FS, resourcePath string, opts ...LoaderOption) *Bundle {
	loader := FallbackLoader(ParentFallbackResolver, NewFileLoader(fsys, resourcePath))
	return NewBuilder().
		AppendProvider(NewLoadingProvider(loader, opts...)).
		Freeze()
}

// ForPath is ForFS for a resource on the operating system file system.
func ForPath(resourcePath string, opts ...LoaderOption) *Bundle {
	fsys, name := osResource(resourcePath)
	return ForFS(fsys, name, opts...)
}

// osResource splits an OS path into a directory file system and the base name
// inside it.
func osResource(resourcePath string) (fs.FS, string) {
	if strings.TrimSpace(resourcePath) == "" {
		contractViolation(keyEmptyPath)
	}

	abs, err := filepath.Abs(resourcePath)
	if err != nil {
		abs = filepath.Clean(resourcePath)
	}
	return os.DirFS(filepath.Dir(abs)), filepath.Base(abs)
}
