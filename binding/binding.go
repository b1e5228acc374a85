// Package binding exposes a resource table to JavaScript running in goja.
//
// The module is registered as "rcfs" and is loaded with require:
//
//	const rcfs = require("rcfs");
//	rcfs.isFile("config/app.json"); // true
//	rcfs.open("config/app.json");   // file content as a string
//
// Every export checks its argument count and argument types and throws a
// TypeError on violation. Other failures throw an Error whose code property
// carries a platform error code such as "NOT_FOUND".
package binding

import (
	stderrors "errors"
	"io/fs"
	"log/slog"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/errors"

	"github.com/meigma/rcfs/compare"
	"github.com/meigma/rcfs/walk"
)

const (
	// ModuleName is the name scripts pass to require.
	ModuleName = "rcfs"

	// APIVersion is returned by the version export.
	APIVersion = 1

	// Greeting is returned by the hello export.
	Greeting = "rcfs.node is online!"
)

// Argument validation messages.
const (
	msgOneArg  = "Wrong number of arguments! Expected exactly one argument."
	msgTwoArgs = "Wrong number of arguments! Expected exactly two arguments."
	msgNoArgs  = "Wrong number of arguments! Expected none."
	msgString  = "Wrong argument type! Expected a string."
)

var (
	// ErrArity is reported when an export receives the wrong number of
	// arguments.
	ErrArity = stderrors.New("wrong number of arguments")

	// ErrType is reported when an argument is not a string.
	ErrType = stderrors.New("wrong argument type")
)

// Table is the table surface the module exports. *rcfs.Table implements it.
type Table = compare.Resources

// Module holds the Go side of the rcfs JavaScript module. One Module can
// serve any number of runtimes.
type Module struct {
	table      Table
	walker     *walk.Walker
	comparator *compare.Comparator
	logger     *slog.Logger
}

// Option configures a Module.
type Option func(*options)

type options struct {
	realFS billy.Basic
	logger *slog.Logger
}

// WithFilesystem sets the filesystem real paths passed to the compare
// exports are resolved against. The default is the host filesystem.
func WithFilesystem(bfs billy.Basic) Option {
	return func(o *options) {
		o.realFS = bfs
	}
}

// WithLogger sets the logger used by the module and its walker and
// comparator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New returns a Module serving table.
func New(table Table, opts ...Option) *Module {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cmpOpts := []compare.Option{compare.WithLogger(o.logger)}
	if o.realFS != nil {
		cmpOpts = append(cmpOpts, compare.WithFilesystem(o.realFS))
	}

	return &Module{
		table:      table,
		walker:     walk.New(table, walk.WithLogger(o.logger)),
		comparator: compare.New(table, cmpOpts...),
		logger:     o.logger,
	}
}

func (m *Module) log() *slog.Logger {
	if m.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.logger
}

// Register adds the module to registry under ModuleName.
func (m *Module) Register(registry *require.Registry) {
	registry.RegisterNativeModule(ModuleName, m.Load)
}

// Enable makes require(ModuleName) available in vm.
func (m *Module) Enable(vm *goja.Runtime) *require.RequireModule {
	registry := require.NewRegistry()
	m.Register(registry)
	return registry.Enable(vm)
}

// Load populates module.exports. It satisfies require.ModuleLoader.
func (m *Module) Load(vm *goja.Runtime, module *goja.Object) {
	exports := module.Get("exports").(*goja.Object) //nolint:errcheck // exports is always an object

	c := &call{vm: vm, m: m}
	set := func(name string, fn func(goja.FunctionCall) goja.Value) {
		if err := exports.Set(name, fn); err != nil {
			panic(err)
		}
	}

	set("hello", c.hello)
	set("version", c.version)
	set("open", c.open)
	set("isFile", c.isFile)
	set("isDirectory", c.isDirectory)
	set("exists", c.exists)
	set("compare", c.compare)
	set("compareSize", c.compareSize)
	set("compareContent", c.compareContent)
	set("getFileSystemObject", c.getFileSystemObject)
}

// call binds the module to one runtime.
type call struct {
	vm *goja.Runtime
	m  *Module
}

// hello and version ignore any arguments.
func (c *call) hello(goja.FunctionCall) goja.Value {
	return c.vm.ToValue(Greeting)
}

func (c *call) version(goja.FunctionCall) goja.Value {
	return c.vm.ToValue(APIVersion)
}

func (c *call) open(fc goja.FunctionCall) goja.Value {
	p := c.onePath(fc)
	content, err := c.m.table.ReadResource(p)
	if err != nil {
		c.throw("open", err)
	}
	return c.vm.ToValue(string(content))
}

func (c *call) isFile(fc goja.FunctionCall) goja.Value {
	return c.vm.ToValue(c.m.table.IsFile(c.onePath(fc)))
}

func (c *call) isDirectory(fc goja.FunctionCall) goja.Value {
	return c.vm.ToValue(c.m.table.IsDir(c.onePath(fc)))
}

func (c *call) exists(fc goja.FunctionCall) goja.Value {
	return c.vm.ToValue(c.m.table.Exists(c.onePath(fc)))
}

func (c *call) compare(fc goja.FunctionCall) goja.Value {
	realPath, virtual := c.twoPaths(fc)
	return c.result("compare", c.m.comparator.Equal, realPath, virtual)
}

func (c *call) compareSize(fc goja.FunctionCall) goja.Value {
	realPath, virtual := c.twoPaths(fc)
	return c.result("compareSize", c.m.comparator.Size, realPath, virtual)
}

func (c *call) compareContent(fc goja.FunctionCall) goja.Value {
	realPath, virtual := c.twoPaths(fc)
	return c.result("compareContent", c.m.comparator.Content, realPath, virtual)
}

func (c *call) getFileSystemObject(fc goja.FunctionCall) goja.Value {
	c.noArgs(fc)

	files, err := c.m.walker.Walk("")
	if err != nil {
		c.throw("getFileSystemObject", err)
	}
	obj := c.vm.NewObject()
	for name, content := range files.All() {
		if err := obj.Set(name, content); err != nil {
			c.throw("getFileSystemObject", err)
		}
	}
	return obj
}

func (c *call) result(op string, fn func(string, string) (bool, error), realPath, virtual string) goja.Value {
	match, err := fn(realPath, virtual)
	if err != nil {
		c.throw(op, err)
	}
	return c.vm.ToValue(match)
}

func (c *call) noArgs(fc goja.FunctionCall) {
	if len(fc.Arguments) != 0 {
		c.typeError(ErrArity, msgNoArgs)
	}
}

func (c *call) onePath(fc goja.FunctionCall) string {
	if len(fc.Arguments) != 1 {
		c.typeError(ErrArity, msgOneArg)
	}
	return c.str(fc.Arguments[0])
}

func (c *call) twoPaths(fc goja.FunctionCall) (string, string) {
	if len(fc.Arguments) != 2 {
		c.typeError(ErrArity, msgTwoArgs)
	}
	return c.str(fc.Arguments[0]), c.str(fc.Arguments[1])
}

func (c *call) str(v goja.Value) string {
	s, ok := v.Export().(string)
	if !ok {
		c.typeError(ErrType, msgString)
	}
	return s
}

// typeError throws a JS TypeError. It does not return.
func (c *call) typeError(kind error, msg string) {
	c.m.log().Debug("rejected call", "error", kind)
	panic(c.vm.NewTypeError(msg))
}

// throw converts err into a JS Error carrying a code property.
// It does not return.
func (c *call) throw(op string, err error) {
	perr := errors.Wrap(err, codeFor(err), op+" failed")
	c.m.log().Debug("call failed", "op", op, "code", perr.Code(), "error", err)

	obj := c.vm.NewGoError(perr)
	if setErr := obj.Set("code", string(perr.Code())); setErr != nil {
		panic(setErr)
	}
	panic(obj)
}

// codeFor classifies err into the platform error taxonomy.
func codeFor(err error) errors.ErrorCode {
	switch {
	case errors.Is(err, compare.ErrInvalidReal), errors.Is(err, fs.ErrInvalid):
		return errors.CodeInvalidInput
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, compare.ErrVirtualNotFound),
		errors.Is(err, compare.ErrVirtualIsDirectory),
		errors.Is(err, compare.ErrVirtualNotFile):
		return errors.CodeNotFound
	default:
		return errors.CodeInternal
	}
}
