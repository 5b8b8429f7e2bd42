package scripting

import (
	"context"

	"github.com/dop251/goja"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// RegisterRecord exposes 'getField' and 'setField' globals. getField returns
// null for unknown or unpopulated fields; setField returns false for unknown
// field names instead of throwing.
func (e *GojaEngine) RegisterRecord(rec Record) error {
	e.vm.Set("getField", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		name := call.Arguments[0].String()
		value, ok := rec.GetField(name)
		if !ok {
			return goja.Null()
		}
		return e.vm.ToValue(value)
	})

	e.vm.Set("setField", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return e.vm.ToValue(false)
		}
		name := call.Arguments[0].String()
		value := call.Arguments[1].String()
		return e.vm.ToValue(rec.SetField(name, value))
	})

	return nil
}
