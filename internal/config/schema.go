package config

// File represents the root of a YAML generator configuration file.
type File struct {
	// Version of the configuration schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Packages lists the package patterns to scan, in the syntax accepted
	// by the loader (e.g. "./..." or explicit import paths).
	Packages []string `yaml:"packages"`

	// RuntimeImport is the import path of the runtime facade package
	// written into generated files.
	RuntimeImport string `yaml:"runtime_import,omitempty"`

	// RuntimePackage is the qualifier under which annotated source refers
	// to the runtime facade.
	RuntimePackage string `yaml:"runtime_package,omitempty"`

	// OutputSuffix replaces the ".go" suffix of each annotated source file
	// to name its generated sibling.
	OutputSuffix string `yaml:"output_suffix,omitempty"`

	// Traits declares the trait topology used to classify methods.
	Traits []Trait `yaml:"traits,omitempty"`
}

// Trait declares one named method set.
type Trait struct {
	// Name identifies the trait in the registry.
	Name string `yaml:"name"`

	// Methods lists the method names belonging to the trait.
	Methods []string `yaml:"methods"`

	// Impls lists receiver type names implementing the trait.
	Impls []string `yaml:"impls,omitempty"`

	// Defaults lists receiver type names whose trait methods are default
	// bodies, dispatched dynamically by trait and name.
	Defaults []string `yaml:"defaults,omitempty"`
}

// HasMethod reports whether name belongs to the trait's method set.
func (t *Trait) HasMethod(name string) bool {
	for _, m := range t.Methods {
		if m == name {
			return true
		}
	}

	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}

// TraitForImpl returns the trait that recvType implements and that owns the
// method name, or nil.
func (f *File) TraitForImpl(recvType, method string) *Trait {
	for i := range f.Traits {
		t := &f.Traits[i]
		if contains(t.Impls, recvType) && t.HasMethod(method) {
			return t
		}
	}

	return nil
}

// TraitForDefault returns the trait whose default bodies live on recvType and
// that owns the method name, or nil.
func (f *File) TraitForDefault(recvType, method string) *Trait {
	for i := range f.Traits {
		t := &f.Traits[i]
		if contains(t.Defaults, recvType) && t.HasMethod(method) {
			return t
		}
	}

	return nil
}
