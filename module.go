package inject

// Module groups related provider declarations under a name. Modules may
// contain other modules and are flattened in place when resolved, so a
// module behaves exactly like a nested slice of its providers.
//
// Example:
//
//	var StorageModule = inject.NewModule("storage",
//	    inject.TypeOf[*Database](),
//	    inject.TypeOf[*UserRepository](),
//	)
//
//	var AppModule = inject.NewModule("app",
//	    StorageModule,
//	    inject.Value(APIURL, "https://example.com"),
//	    inject.TypeOf[*UserService](),
//	)
//
//	c, err := inject.ResolveAndCreate(AppModule)
type Module struct {
	Name      string
	Providers []any
}

// NewModule creates a module with the given name and declarations.
func NewModule(name string, providers ...any) Module {
	return Module{Name: name, Providers: providers}
}

// normalizeModule flattens m, wrapping declaration errors with its name.
func normalizeModule(m Module, res []Provider) ([]Provider, error) {
	res, err := normalizeProviders(m.Providers, res)
	if err != nil {
		return nil, ModuleError{Module: m.Name, Cause: err}
	}
	return res, nil
}
