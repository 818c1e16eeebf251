// Package container is a small constructor-injection container used to wire
// the server in main. Every provided value is built once, on first use.
package container

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type Container struct {
	mu        sync.Mutex
	prov      map[reflect.Type]reflect.Value
	instances map[reflect.Type]reflect.Value
	closers   []io.Closer
}

func New() *Container {
	return &Container{prov: make(map[reflect.Type]reflect.Value), instances: make(map[reflect.Type]reflect.Value)}
}

// Provide registers a constructor returning (T) or (T, error). Its parameters
// are resolved from the container when T is first requested.
func (c *Container) Provide(constructor any) error {
	v := reflect.ValueOf(constructor)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("container: constructor must be a function, got %T", constructor)
	}
	ft := v.Type()
	if ft.NumOut() == 0 || ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != errorType) {
		return fmt.Errorf("container: constructor must return (T) or (T, error), got %v", ft)
	}
	out := ft.Out(0)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.prov[out]; exists {
		return fmt.Errorf("container: provider already exists for %v", out)
	}
	c.prov[out] = v
	return nil
}

// Supply registers an already built value.
func (c *Container) Supply(values ...any) error {
	for _, val := range values {
		v := reflect.ValueOf(val)
		fn := reflect.MakeFunc(reflect.FuncOf(nil, []reflect.Type{v.Type()}, false),
			func([]reflect.Value) []reflect.Value { return []reflect.Value{v} })
		if err := c.Provide(fn.Interface()); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the value of type T, building it and its dependencies.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	v, err := c.get(reflect.TypeOf((*T)(nil)).Elem(), map[reflect.Type]bool{})
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

// Invoke calls fn with its parameters resolved from the container. A
// trailing error result is returned.
func (c *Container) Invoke(fn any) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("container: Invoke requires a function, got %T", fn)
	}
	ft := v.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		val, err := c.get(ft.In(i), map[reflect.Type]bool{})
		if err != nil {
			return err
		}
		args[i] = val
	}
	outs := v.Call(args)
	if n := len(outs); n > 0 && ft.Out(n-1) == errorType && !outs[n-1].IsNil() {
		return outs[n-1].Interface().(error)
	}
	return nil
}

// Close closes every built value implementing io.Closer, newest first.
func (c *Container) Close() error {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Container) get(t reflect.Type, seen map[reflect.Type]bool) (reflect.Value, error) {
	c.mu.Lock()
	if v, ok := c.instances[t]; ok {
		c.mu.Unlock()
		return v, nil
	}
	prov, ok := c.prov[t]
	var impl reflect.Type
	if !ok && t.Kind() == reflect.Interface {
		for pt := range c.prov {
			if pt.Implements(t) {
				impl = pt
				break
			}
		}
	}
	c.mu.Unlock()

	if impl != nil {
		// share the instance built for the concrete provider
		v, err := c.get(impl, seen)
		if err != nil {
			return reflect.Value{}, err
		}
		v = v.Convert(t)
		c.mu.Lock()
		c.instances[t] = v
		c.mu.Unlock()
		return v, nil
	}
	if !ok {
		return reflect.Value{}, fmt.Errorf("container: no provider for %v", t)
	}
	if seen[t] {
		return reflect.Value{}, fmt.Errorf("container: cyclic dependency for %v", t)
	}
	seen[t] = true
	defer delete(seen, t)

	ft := prov.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		dep, err := c.get(ft.In(i), seen)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("container: building %v: %w", t, err)
		}
		args[i] = dep
	}
	outs := prov.Call(args)
	if len(outs) == 2 && !outs[1].IsNil() {
		return reflect.Value{}, outs[1].Interface().(error)
	}
	res := outs[0]

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.instances[t]; ok {
		return v, nil
	}
	c.instances[t] = res
	if cl, ok := res.Interface().(io.Closer); ok {
		c.closers = append(c.closers, cl)
	}
	return res, nil
}
