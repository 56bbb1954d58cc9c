package domain

import "time"

// DefaultMaxAge é a validade aplicada por Set quando o chamador não informa expiração.
const DefaultMaxAge = 365 * 24 * time.Hour

// Record é um cookie dentro do jar. A identidade é dada apenas por Name.
//
// Expires zero significa "sem atributo de expiração" (cookie de sessão).
type Record struct {
	Name     string
	Value    string
	Path     string
	Secure   bool
	HTTPOnly bool
	Expires  time.Time
}

// Equal compara valor e todos os atributos.
func (r Record) Equal(o Record) bool {
	return r.Name == o.Name &&
		r.Value == o.Value &&
		r.Path == o.Path &&
		r.Secure == o.Secure &&
		r.HTTPOnly == o.HTTPOnly &&
		r.Expires.Equal(o.Expires)
}

// IsSession indica que o cookie não tem expiração explícita.
func (r Record) IsSession() bool { return r.Expires.IsZero() }

// IsTombstone indica um registro de remoção: expiração anterior a now.
func (r Record) IsTombstone(now time.Time) bool {
	return !r.Expires.IsZero() && r.Expires.Before(now)
}

func tombstone(name, path string) Record {
	if path == "" {
		path = "/"
	}
	return Record{Name: name, Path: path, Expires: time.Unix(0, 0).UTC()}
}

// Option altera os atributos de um Record em Set/Update. now é o relógio do jar.
type Option func(r *Record, now time.Time)

func WithPath(path string) Option {
	return func(r *Record, _ time.Time) { r.Path = path }
}

func WithSecure(secure bool) Option {
	return func(r *Record, _ time.Time) { r.Secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(r *Record, _ time.Time) { r.HTTPOnly = httpOnly }
}

func WithExpires(t time.Time) Option {
	return func(r *Record, _ time.Time) { r.Expires = t }
}

func WithMaxAge(d time.Duration) Option {
	return func(r *Record, now time.Time) { r.Expires = now.Add(d) }
}

// Session remove a expiração padrão: o cookie vive enquanto o navegador estiver aberto.
func Session() Option {
	return func(r *Record, _ time.Time) { r.Expires = time.Time{} }
}

func newRecord(name, value string, now time.Time, opts []Option) Record {
	rec := Record{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Expires:  now.Add(DefaultMaxAge),
	}
	for _, opt := range opts {
		opt(&rec, now)
	}
	if rec.Path == "" {
		rec.Path = "/"
	}
	return rec
}
