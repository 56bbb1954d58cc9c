package reqctx

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"query-gateway/middleware/cookiejar/domain"
)

var (
	// ErrMissingCollaborator indica busca por um colaborador nunca anexado.
	ErrMissingCollaborator = errors.New("reqctx: missing collaborator")
	// ErrInvalidCollaborator indica colaborador nil, duplicado ou usando uma chave reservada.
	ErrInvalidCollaborator = errors.New("reqctx: invalid collaborator")
	// ErrJarAttached indica uma segunda tentativa de anexar jar na mesma requisição.
	ErrJarAttached = errors.New("reqctx: cookie jar already attached")
)

// Key identifica um colaborador do tipo T no registro da requisição.
type Key[T any] struct {
	name string
}

func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) String() string { return k.name }

func (k Key[T]) id() any { return k }

// Requirement é qualquer Key usada para validar colaboradores obrigatórios.
type Requirement interface {
	fmt.Stringer
	id() any
}

// JarKey é reservada para o jar da requisição; só Attach pode preenchê-la.
var JarKey = NewKey[*domain.Jar]("cookie-jar")

// Collaborator é um valor associado a uma Key (ver Provide).
type Collaborator struct {
	name  string
	key   any
	value any
}

// Provide associa value à chave k.
func Provide[T any](k Key[T], value T) Collaborator {
	return Collaborator{name: k.name, key: k.id(), value: value}
}

type registryKey struct{}

type registry struct {
	values map[any]any
}

// Attach anexa o jar e os colaboradores ao ctx. O jar guardado é exatamente
// o ponteiro recebido; nenhum colaborador recebe cópia.
func Attach(ctx context.Context, jar *domain.Jar, collaborators ...Collaborator) (context.Context, error) {
	if jar == nil {
		return nil, fmt.Errorf("%w: nil cookie jar", ErrInvalidCollaborator)
	}
	if reg, ok := ctx.Value(registryKey{}).(*registry); ok {
		if _, has := reg.values[JarKey.id()]; has {
			return nil, ErrJarAttached
		}
	}

	values := make(map[any]any, len(collaborators)+1)
	values[JarKey.id()] = jar
	for _, c := range collaborators {
		if err := c.check(); err != nil {
			return nil, err
		}
		if _, dup := values[c.key]; dup {
			return nil, fmt.Errorf("%w: duplicate %q", ErrInvalidCollaborator, c.name)
		}
		values[c.key] = c.value
	}
	return context.WithValue(ctx, registryKey{}, &registry{values: values}), nil
}

// Validate confere, na construção do handler, que todo requisito tem um colaborador.
// JarKey é sempre satisfeita.
func Validate(collaborators []Collaborator, required ...Requirement) error {
	have := make(map[any]struct{}, len(collaborators))
	for _, c := range collaborators {
		if err := c.check(); err != nil {
			return err
		}
		have[c.key] = struct{}{}
	}
	for _, req := range required {
		if req.id() == JarKey.id() {
			continue
		}
		if _, ok := have[req.id()]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingCollaborator, req)
		}
	}
	return nil
}

// Value retorna o colaborador de k. Entra em pânico se ele não foi anexado.
func Value[T any](ctx context.Context, k Key[T]) T {
	v, ok := lookup(ctx, k.id())
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrMissingCollaborator, k))
	}
	return v.(T)
}

// Has informa se k foi anexada.
func Has[T any](ctx context.Context, k Key[T]) bool {
	_, ok := lookup(ctx, k.id())
	return ok
}

// Jar retorna o jar da requisição.
func Jar(ctx context.Context) *domain.Jar {
	return Value(ctx, JarKey)
}

func lookup(ctx context.Context, id any) (any, bool) {
	reg, ok := ctx.Value(registryKey{}).(*registry)
	if !ok {
		return nil, false
	}
	v, ok := reg.values[id]
	return v, ok
}

func (c Collaborator) check() error {
	if c.key == nil {
		return fmt.Errorf("%w: zero Collaborator", ErrInvalidCollaborator)
	}
	if c.key == JarKey.id() {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidCollaborator, c.name)
	}
	if isNil(c.value) {
		return fmt.Errorf("%w: nil value for %q", ErrInvalidCollaborator, c.name)
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
