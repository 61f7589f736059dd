package inject_test

import (
	"fmt"
	"log"

	"github.com/junioryono/inject"
)

type Logger struct {
	prefix string
}

func (l *Logger) Log(msg string) string {
	return l.prefix + msg
}

type UserStore struct {
	Logger *Logger `inject:""`
	DSN    string  `name:"dsn"`
}

type UserService struct {
	Store  *UserStore `inject:""`
	Logger *Logger    `inject:""`
}

func (s *UserService) Describe() string {
	return s.Logger.Log("users in " + s.Store.DSN)
}

var DSN = inject.NewInjectionToken("dsn")

// Example demonstrates basic provider registration and resolution.
func Example() {
	c, err := inject.NewResolver().ResolveAndCreate(
		inject.Value(inject.TypeOf[*Logger](), &Logger{prefix: "[app] "}),
		inject.Value("dsn", "postgres://localhost/shop"),
		inject.TypeOf[*UserStore](),
		inject.TypeOf[*UserService](),
	)
	if err != nil {
		log.Fatal(err)
	}

	service, err := inject.GetType[*UserService](c)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(service.Describe())
	// Output: [app] users in postgres://localhost/shop
}

// ExampleContainer_CreateChild demonstrates hierarchical lookup.
func ExampleContainer_CreateChild() {
	root, err := inject.NewResolver().ResolveAndCreate(
		inject.Value(DSN, "root"),
		inject.Value("region", "eu"),
	)
	if err != nil {
		log.Fatal(err)
	}

	child, err := root.CreateChild(inject.Value(DSN, "child"))
	if err != nil {
		log.Fatal(err)
	}

	dsn, _ := inject.Get[string](child, DSN)
	region, _ := inject.Get[string](child, "region")
	rootDSN, _ := inject.Get[string](root, DSN)

	fmt.Println(dsn, region, rootDSN)
	// Output: child eu root
}

// ExampleAsMulti demonstrates multi-providers.
func ExampleAsMulti() {
	c, err := inject.NewResolver().ResolveAndCreate(
		inject.Value("middleware", "auth", inject.AsMulti()),
		inject.Value("middleware", "logging", inject.AsMulti()),
		inject.Value("middleware", "metrics", inject.AsMulti()),
	)
	if err != nil {
		log.Fatal(err)
	}

	names, _ := inject.GetMulti[string](c, "middleware")
	fmt.Println(names)
	// Output: [auth logging metrics]
}

// ExampleFactory demonstrates factory providers with explicit dependencies.
func ExampleFactory() {
	c, err := inject.NewResolver().ResolveAndCreate(
		inject.Value("host", "localhost"),
		inject.Value("port", 5432),
		inject.Factory("addr", func(host string, port int) string {
			return fmt.Sprintf("%s:%d", host, port)
		}, inject.WithDeps("host", "port")),
	)
	if err != nil {
		log.Fatal(err)
	}

	addr, _ := inject.Get[string](c, "addr")
	fmt.Println(addr)
	// Output: localhost:5432
}

// ExampleTable demonstrates describing a type without struct tags.
func ExampleTable() {
	table := inject.NewTable()
	err := table.Register(inject.TypeOf[*UserService](),
		func(args ...any) (any, error) {
			return &UserService{
				Store:  &UserStore{DSN: "memory"},
				Logger: args[0].(*Logger),
			}, nil
		},
		inject.Param(inject.Token(inject.TypeOf[*Logger]())),
	)
	if err != nil {
		log.Fatal(err)
	}

	resolver := inject.NewResolver(inject.WithIntrospector(table))
	c, err := resolver.ResolveAndCreate(
		inject.Value(inject.TypeOf[*Logger](), &Logger{prefix: "> "}),
		inject.TypeOf[*UserService](),
	)
	if err != nil {
		log.Fatal(err)
	}

	service := inject.MustGetType[*UserService](c)
	fmt.Println(service.Describe())
	// Output: > users in memory
}

// ExampleNewModule demonstrates grouping providers into modules.
func ExampleNewModule() {
	storage := inject.NewModule("storage",
		inject.Value("dsn", "postgres://localhost/shop"),
		inject.TypeOf[*UserStore](),
	)
	app := inject.NewModule("app",
		storage,
		inject.Value(inject.TypeOf[*Logger](), &Logger{prefix: "[mod] "}),
		inject.TypeOf[*UserService](),
	)

	c, err := inject.NewResolver().ResolveAndCreate(app)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(inject.MustGetType[*UserService](c).Describe())
	// Output: [mod] users in postgres://localhost/shop
}

// ExampleContainer_Get_optional demonstrates optional and missing dependencies.
func ExampleContainer_Get_optional() {
	type Cache struct{}
	type Service struct {
		Cache *Cache `inject:"optional"`
	}

	c, err := inject.NewResolver().ResolveAndCreate(inject.TypeOf[*Service]())
	if err != nil {
		log.Fatal(err)
	}

	service := inject.MustGetType[*Service](c)
	fmt.Println(service.Cache == nil)

	_, err = c.Get(inject.TypeOf[*Cache]())
	fmt.Println(err)
	// Output:
	// true
	// no provider for *Cache
}
