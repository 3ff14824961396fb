package msgbundle

import (
	"embed"
	"sync"
)

// BundleName is the registry name of the library's own message bundle.
const BundleName = "msgbundle"

const (
	keyEmptyKey         = "query.emptyKey"
	keyNilSource        = "cfg.nilSource"
	keyNilDefaultSource = "cfg.nilDefaultSource"
	keyNilProvider      = "cfg.nilProvider"
	keyNilLoader        = "cfg.nilLoader"
	keyNilFormatter     = "cfg.nilFormatter"
	keyNilFS            = "cfg.nilFS"
	keyEmptyPath        = "cfg.emptyPath"
	keyNilBundle        = "cfg.nilBundle"

	keyRegistryNilProvider = "registry.nilProvider"
	keyRegistryEmptyName   = "registry.emptyName"
	keyRegistryNilBundle   = "registry.nilBundle"
	keyRegistryDuplicate   = "registry.duplicate"
)

//go:embed messages/*.properties
var messagesFS embed.FS

var (
	ownOnce   sync.Once
	ownBundle *Bundle
)

// messages returns the library's own bundle, built on first use. It must not
// become a package-level var initializer: ForFS reaches contractViolation,
// which calls messages.
func messages() *Bundle {
	ownOnce.Do(func() {
		ownBundle = ForFS(messagesFS, "messages/msgbundle.properties")
	})
	return ownBundle
}

func init() {
	// The own bundle is always the first registration, so Register cannot fail here.
	_ = Register(BundleProviderFunc(func() map[string]*Bundle {
		return map[string]*Bundle{BundleName: messages()}
	}))
}
