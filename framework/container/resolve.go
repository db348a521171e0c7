package container

import (
	"fmt"
	"reflect"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// resolution is a single Get pass. It tracks the services under construction
// so a cycle fails instead of recursing forever.
type resolution struct {
	visiting map[*descriptor]bool
	path     []string
}

func newResolution() *resolution {
	return &resolution{visiting: make(map[*descriptor]bool)}
}

// instantiate builds d after building its dependencies, depth-first and in
// declaration order.
func (r *resolution) instantiate(d *descriptor) (any, error) {
	if d.strategy == StrategyValue {
		return d.service, nil
	}
	if r.visiting[d] {
		cycle := append(append([]string{}, r.path...), d.name)
		return nil, newServiceError(d.name, "resolve",
			detailf(ErrCircularDependency, "%s", strings.Join(cycle, " -> ")))
	}
	r.visiting[d] = true
	r.path = append(r.path, d.name)
	defer func() {
		delete(r.visiting, d)
		r.path = r.path[:len(r.path)-1]
	}()

	args := make([]any, 0, len(d.deps))
	for _, dep := range d.deps {
		ref, ok := dep.(*descriptor)
		if !ok {
			args = append(args, dep)
			continue
		}
		inst, err := r.instantiate(ref)
		if err != nil {
			return nil, err
		}
		args = append(args, inst)
	}

	inst, err := construct(d, args)
	if err != nil {
		return nil, newServiceError(d.name, "construct", err)
	}
	return inst, nil
}

// construct dispatches on the descriptor strategy.
func construct(d *descriptor, args []any) (any, error) {
	switch d.strategy {
	case StrategyNew:
		return call(reflect.ValueOf(d.service), args)
	case StrategySingleton:
		return d.service.(InstanceProvider).Instance(args...)
	case StrategyCustom:
		return call(methodOf(d.service, d.method), args)
	default:
		return nil, fmt.Errorf("unhandled strategy %s", d.strategy)
	}
}

// call invokes fn with args bound positionally. fn may return T or (T, error).
func call(fn reflect.Value, args []any) (any, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, detailf(ErrArgumentMismatch, "not a function")
	}
	if fn.CanInterface() {
		if ctor, ok := fn.Interface().(Constructor); ok {
			return ctor(args...)
		}
	}

	t := fn.Type()
	if err := checkArity(t, len(args)); err != nil {
		return nil, err
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := paramType(t, i)
		v, err := argValue(arg, pt)
		if err != nil {
			return nil, detailf(ErrArgumentMismatch, "argument %d: %v", i, err)
		}
		in[i] = v
	}

	out := fn.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if t.Out(0) == errorType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	case 2:
		if t.Out(1) != errorType {
			return nil, detailf(ErrArgumentMismatch, "second result of %s must be error", t)
		}
		if err := asError(out[1]); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		return nil, detailf(ErrArgumentMismatch, "%s returns %d values", t, len(out))
	}
}

func checkArity(t reflect.Type, n int) error {
	if t.IsVariadic() {
		if n < t.NumIn()-1 {
			return detailf(ErrArgumentMismatch, "%s wants at least %d arguments, got %d", t, t.NumIn()-1, n)
		}
		return nil
	}
	if n != t.NumIn() {
		return detailf(ErrArgumentMismatch, "%s wants %d arguments, got %d", t, t.NumIn(), n)
	}
	return nil
}

// paramType is the type argument i is assigned to, unrolling a variadic tail.
func paramType(t reflect.Type, i int) reflect.Type {
	if t.IsVariadic() && i >= t.NumIn()-1 {
		return t.In(t.NumIn() - 1).Elem()
	}
	return t.In(i)
}

func argValue(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", pt)
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(pt) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), pt)
	}
	return v, nil
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}
