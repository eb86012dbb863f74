package main

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lepinkainen/shelf/cmd"
)

func TestExecuteIsShelfCLI(t *testing.T) {
	assert.Equal(t,
		reflect.ValueOf(cmd.Execute).Pointer(),
		reflect.ValueOf(execute).Pointer(),
		"main must run the shelf command tree")
}

func TestMainRunsExecuteOnce(t *testing.T) {
	calls := 0
	orig := execute
	execute = func() { calls++ }
	t.Cleanup(func() { execute = orig })

	main()

	assert.Equal(t, 1, calls)
}
