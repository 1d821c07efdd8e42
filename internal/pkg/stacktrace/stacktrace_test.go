package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/phoneauth/internal/pkg/goroutine.(*Manager).Go.func1.1()
	/src/internal/pkg/goroutine/goroutine.go:61 +0x4c
panic({0x1, 0x2})
	/usr/local/go/src/runtime/panic.go:785 +0x132
github.com/shandysiswandi/phoneauth/internal/identity/usecase.(*Usecase).notify()
	/src/internal/identity/usecase/notify.go:30
`)

	assert.Equal(t, []string{
		"internal/pkg/goroutine/goroutine.go:61",
		"internal/identity/usecase/notify.go:30",
	}, InternalPaths(stack))

	assert.Empty(t, InternalPaths([]byte("goroutine 1 [running]:\nmain.main()\n\t/src/main.go:10 +0x1")))
}
