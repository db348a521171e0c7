package container

import (
	"reflect"
	"sync"
)

// ── Construction strategies ───────────────────────────────────────────────────

// Strategy is how a descriptor turns its raw service into an instance.
// It is chosen once, at registration, and never changes.
type Strategy int

const (
	// StrategyNew calls the service as a constructor with the resolved
	// dependencies bound positionally.
	StrategyNew Strategy = iota
	// StrategySingleton calls InstanceProvider.Instance on the service.
	StrategySingleton
	// StrategyCustom calls a named method on the service.
	StrategyCustom
	// StrategyValue returns the service untouched.
	StrategyValue
)

func (s Strategy) String() string {
	switch s {
	case StrategyNew:
		return "new"
	case StrategySingleton:
		return "singleton"
	case StrategyCustom:
		return "custom"
	case StrategyValue:
		return "value"
	default:
		return "unknown"
	}
}

// Constructor is the untyped constructor shape. Any Go function can be
// registered as a new-style service; Constructor skips reflection.
//
//	c.Register("clock", container.Constructor(func(args ...any) (any, error) {
//	    return time.Now, nil
//	}))
type Constructor func(args ...any) (any, error)

// InstanceProvider is implemented by services that hand out their own
// instance. The container never caches the result, so a provider that wants
// singleton semantics must memoize it itself (see Singleton).
type InstanceProvider interface {
	Instance(args ...any) (any, error)
}

// Singleton wraps fn (any function accepted by Register) in an
// InstanceProvider that constructs on the first call and returns the same
// instance afterwards. Arguments of later calls are ignored. Register rejects
// a Singleton whose fn is not a function.
//
// fn runs under the provider's lock: it must not Get its own service, directly
// or through another Get, or it deadlocks.
//
//	c.Register("db", container.Singleton(NewDB), container.WithDependencies("config"))
func Singleton(fn any) InstanceProvider {
	return &singleton{fn: reflect.ValueOf(fn)}
}

// checker is implemented by InstanceProviders that can reject themselves at
// registration.
type checker interface {
	check() error
}

func (s *singleton) check() error {
	if !s.fn.IsValid() || s.fn.Kind() != reflect.Func || s.fn.IsNil() {
		name := "nil"
		if s.fn.IsValid() {
			name = s.fn.Type().String()
		}
		return detailf(ErrUnknownConstructionStrategy, "Singleton needs a function, got %s", name)
	}
	return nil
}

type singleton struct {
	fn       reflect.Value
	mu       sync.Mutex
	done     bool
	instance any
}

func (s *singleton) Instance(args ...any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return s.instance, nil
	}
	inst, err := call(s.fn, args)
	if err != nil {
		return nil, err
	}
	s.instance, s.done = inst, true
	return inst, nil
}

// ── Descriptor ────────────────────────────────────────────────────────────────

// descriptor is the stored record for one service. Dependencies hold either
// a *descriptor (resolved at registration) or a literal value.
type descriptor struct {
	name     string
	service  any
	strategy Strategy
	method   string
	deps     []any
}

// dependencyNames lists the names of descriptor dependencies; literals are
// reported by their Go type.
func (d *descriptor) dependencyNames() []string {
	out := make([]string, 0, len(d.deps))
	for _, dep := range d.deps {
		if ref, ok := dep.(*descriptor); ok {
			out = append(out, ref.name)
			continue
		}
		out = append(out, "<"+typeName(dep)+">")
	}
	return out
}

// ServiceInfo is a read-only view of a registered service.
type ServiceInfo struct {
	Name         string   `json:"name" yaml:"name"`
	Strategy     string   `json:"strategy" yaml:"strategy"`
	Method       string   `json:"method,omitempty" yaml:"method,omitempty"`
	Type         string   `json:"type" yaml:"type"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Position     int      `json:"position" yaml:"position"`
}

func (d *descriptor) info(pos int) ServiceInfo {
	return ServiceInfo{
		Name:         d.name,
		Strategy:     d.strategy.String(),
		Method:       d.method,
		Type:         typeName(d.service),
		Dependencies: d.dependencyNames(),
		Position:     pos,
	}
}

// ── Strategy detection ────────────────────────────────────────────────────────

// detectStrategy picks the construction strategy for service. Explicit
// markers win, then the InstanceProvider capability, then plain functions.
func detectStrategy(service any, o *registerOptions) (Strategy, error) {
	if o.value && o.method != "" {
		return 0, detailf(ErrUnknownConstructionStrategy,
			"AsValue and WithMethod(%q) are mutually exclusive", o.method)
	}
	if o.value {
		return StrategyValue, nil
	}
	if o.method != "" {
		if !methodOf(service, o.method).IsValid() {
			return 0, detailf(ErrUnknownConstructionStrategy,
				"%s has no method %q", typeName(service), o.method)
		}
		return StrategyCustom, nil
	}
	if p, ok := service.(InstanceProvider); ok {
		if c, ok := p.(checker); ok {
			if err := c.check(); err != nil {
				return 0, err
			}
		}
		return StrategySingleton, nil
	}
	if service != nil && reflect.TypeOf(service).Kind() == reflect.Func && !reflect.ValueOf(service).IsNil() {
		return StrategyNew, nil
	}
	return 0, detailf(ErrUnknownConstructionStrategy,
		"%s must be a function, an InstanceProvider, a value registered with AsValue, "+
			"or carry the method given to WithMethod", typeName(service))
}

func methodOf(service any, method string) reflect.Value {
	if service == nil {
		return reflect.Value{}
	}
	return reflect.ValueOf(service).MethodByName(method)
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
