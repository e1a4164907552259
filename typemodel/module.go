package typemodel

import (
	"github.com/google/uuid"
)

// LoaderID identifies a defining class loader. Identities are name-based
// UUIDs so the same loader name yields the same identity across runs.
type LoaderID uuid.UUID

// BootLoader defines primitives and placeholder classes.
var BootLoader = LoaderID(uuid.Nil)

var loaderNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/dhamidi/fieldpath/loader"))

// NewLoaderID returns the identity of the loader with the given name.
// The empty name and "boot" denote the boot loader.
func NewLoaderID(name string) LoaderID {
	if name == "" || name == "boot" {
		return BootLoader
	}
	return LoaderID(uuid.NewSHA1(loaderNamespace, []byte(name)))
}

func (l LoaderID) String() string {
	if l == BootLoader {
		return "boot"
	}
	return uuid.UUID(l).String()
}

// Module is a named module or the unnamed module of one loader.
type Module struct {
	Name   string
	Loader LoaderID
	Open   bool
	// Exports maps an exported package to the modules it is exported to;
	// an empty list means the package is exported to everyone.
	Exports map[string][]string
}

func (m *Module) IsNamed() bool { return m.Name != "" }

// IsExported reports whether pkg is exported to the module to. Unnamed
// modules export every package.
func (m *Module) IsExported(pkg string, to *Module) bool {
	if !m.IsNamed() || m == to {
		return true
	}
	targets, ok := m.Exports[pkg]
	if !ok {
		return false
	}
	if len(targets) == 0 {
		return true
	}
	if to == nil || !to.IsNamed() {
		return false
	}
	for _, t := range targets {
		if t == to.Name {
			return true
		}
	}
	return false
}

func (m *Module) String() string {
	if !m.IsNamed() {
		return "unnamed module of loader " + m.Loader.String()
	}
	return "module " + m.Name
}
