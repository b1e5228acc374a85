package binding

import (
	"crypto/sha256"
	"io/fs"
	"testing"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	stdrequire "github.com/stretchr/testify/require"

	"github.com/meigma/rcfs"
	"github.com/meigma/rcfs/compare"
	"github.com/meigma/rcfs/internal/testutil"
	"github.com/meigma/rcfs/rcfstest"
)

func newRuntime(t *testing.T, table Table) *goja.Runtime {
	t.Helper()

	realFS := memfs.New()
	stdrequire.NoError(t, util.WriteFile(realFS, "local/greeting.txt", []byte("hi"), 0o644))
	stdrequire.NoError(t, util.WriteFile(realFS, "local/longer.txt", []byte("hi!"), 0o644))

	vm := goja.New()
	New(table, WithFilesystem(realFS)).Enable(vm)
	_, err := vm.RunString(`const rcfs = require("rcfs");`)
	stdrequire.NoError(t, err)
	return vm
}

func sampleTable(t *testing.T) *rcfs.Table {
	t.Helper()
	return rcfstest.NewTable(t, map[string]string{
		"greeting.txt":    "hi",
		"config/app.json": `{"name":"app"}`,
		"x/a.txt":         "from x",
		"y/a.txt":         "from y",
	})
}

func run(t *testing.T, vm *goja.Runtime, script string) goja.Value {
	t.Helper()
	v, err := vm.RunString(script)
	stdrequire.NoError(t, err, script)
	return v
}

func TestModule_Exports(t *testing.T) {
	t.Parallel()

	vm := newRuntime(t, sampleTable(t))

	tests := []struct {
		script string
		want   any
	}{
		{`rcfs.hello()`, Greeting},
		{`rcfs.version()`, int64(APIVersion)},
		{`rcfs.hello(1, "extra")`, Greeting},
		{`rcfs.version("x")`, int64(APIVersion)},
		{`rcfs.open("greeting.txt")`, "hi"},
		{`rcfs.open("/config/app.json")`, `{"name":"app"}`},
		{`rcfs.isFile("greeting.txt")`, true},
		{`rcfs.isFile("config")`, false},
		{`rcfs.isDirectory("config")`, true},
		{`rcfs.isDirectory("")`, true},
		{`rcfs.isDirectory("greeting.txt")`, false},
		{`rcfs.exists("config/app.json")`, true},
		{`rcfs.exists("nope")`, false},
		{`rcfs.exists("../up")`, false},
		{`rcfs.compare("local/greeting.txt", "greeting.txt")`, true},
		{`rcfs.compare("local/longer.txt", "greeting.txt")`, false},
		{`rcfs.compareSize("local/longer.txt", "greeting.txt")`, false},
		{`rcfs.compareContent("local/longer.txt", "greeting.txt")`, true},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, run(t, vm, tc.script).Export(), tc.script)
	}
}

func TestModule_GetFileSystemObject(t *testing.T) {
	t.Parallel()

	vm := newRuntime(t, sampleTable(t))

	keys := run(t, vm, `Object.keys(rcfs.getFileSystemObject()).join(",")`).String()
	assert.Equal(t, "app.json,greeting.txt,a.txt", keys)

	value := run(t, vm, `rcfs.getFileSystemObject()["a.txt"]`).String()
	assert.Equal(t, "from y", value)
}

func TestModule_TypeErrors(t *testing.T) {
	t.Parallel()

	vm := newRuntime(t, sampleTable(t))

	tests := []struct {
		script  string
		message string
	}{
		{`rcfs.getFileSystemObject("x")`, msgNoArgs},
		{`rcfs.compare("a")`, msgTwoArgs},
		{`rcfs.compareSize("a", "b", "c")`, msgTwoArgs},
		{`rcfs.compareContent("a", 2)`, msgString},
	}
	for _, op := range []string{"open", "isFile", "isDirectory", "exists"} {
		tests = append(tests,
			struct{ script, message string }{`rcfs.` + op + `()`, msgOneArg},
			struct{ script, message string }{`rcfs.` + op + `("a", "b")`, msgOneArg},
			struct{ script, message string }{`rcfs.` + op + `(42)`, msgString},
			struct{ script, message string }{`rcfs.` + op + `(null)`, msgString},
		)
	}

	for _, tc := range tests {
		_, err := vm.RunString(tc.script)
		var ex *goja.Exception
		stdrequire.ErrorAs(t, err, &ex, tc.script)

		obj := ex.Value().ToObject(vm)
		assert.Equal(t, "TypeError", obj.Get("name").String(), tc.script)
		assert.Equal(t, tc.message, obj.Get("message").String(), tc.script)
	}
}

func TestModule_ErrorCodes(t *testing.T) {
	t.Parallel()

	vm := newRuntime(t, sampleTable(t))

	tests := []struct {
		script string
		code   errors.ErrorCode
	}{
		{`rcfs.open("missing.txt")`, errors.CodeNotFound},
		{`rcfs.open("config")`, errors.CodeNotFound},
		{`rcfs.open("../up")`, errors.CodeNotFound},
		{`rcfs.open("config/./app.json")`, errors.CodeNotFound},
		{`rcfs.open("x/../greeting.txt")`, errors.CodeNotFound},
		{`rcfs.compare("local/missing.txt", "greeting.txt")`, errors.CodeInvalidInput},
		{`rcfs.compareSize("local/greeting.txt", "missing.txt")`, errors.CodeNotFound},
		{`rcfs.compareContent("local/greeting.txt", "config")`, errors.CodeNotFound},
	}
	for _, tc := range tests {
		script := `(function() { try { ` + tc.script + `; return "none"; } catch (e) { return e.code; } })()`
		assert.Equal(t, string(tc.code), run(t, vm, script).String(), tc.script)
	}
}

func TestModule_StructuralError(t *testing.T) {
	t.Parallel()

	content := []byte("hi")
	hash := sha256.Sum256(content)
	indexData := testutil.BuildTestIndex(t, []testutil.TestEntry{
		{Path: "link", DataSize: 2, OriginalSize: 2, Hash: hash[:], Mode: fs.ModeSymlink | 0o777},
	})
	table, err := rcfs.New(indexData, testutil.NewMockByteSource(content))
	stdrequire.NoError(t, err)

	vm := newRuntime(t, table)
	code := run(t, vm, `(function() { try { rcfs.getFileSystemObject(); } catch (e) { return e.code; } })()`)
	assert.Equal(t, string(errors.CodeInternal), code.String())
}

func TestModule_Register(t *testing.T) {
	t.Parallel()

	registry := require.NewRegistry()
	New(sampleTable(t)).Register(registry)

	for range 2 {
		vm := goja.New()
		registry.Enable(vm)
		v, err := vm.RunString(`require("rcfs").exists("greeting.txt")`)
		stdrequire.NoError(t, err)
		assert.True(t, v.ToBoolean())
	}
}

func TestCodeFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeNotFound, codeFor(fs.ErrNotExist))
	assert.Equal(t, errors.CodeNotFound, codeFor(&compare.Error{Err: compare.ErrVirtualNotFile}))
	assert.Equal(t, errors.CodeInvalidInput, codeFor(&compare.Error{Err: compare.ErrInvalidReal, Cause: fs.ErrNotExist}))
	assert.Equal(t, errors.CodeInternal, codeFor(rcfs.ErrHashMismatch))
}
