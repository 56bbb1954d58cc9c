package domain

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// ErrInvalidName é retornado para cookies sem nome.
	ErrInvalidName = errors.New("cookiejar: cookie name must not be empty")
	// ErrSealed é retornado quando alguém tenta alterar um jar já drenado pela resposta.
	ErrSealed = errors.New("cookiejar: jar already drained into the response")
)

// Jar guarda o estado de cookies de uma única requisição.
//
// O estado original (header Cookie de entrada) nunca é alterado; todas as
// leituras e escritas passam pelo estado de trabalho. O jar é compartilhado
// por ponteiro entre todo o código da requisição: uma cópia perderia as
// mutações na hora de montar a resposta (o mutex faz o `go vet` acusar cópias).
//
// Todos os métodos são seguros para uso concorrente. Cada chamada segura o
// lock apenas durante a própria operação.
type Jar struct {
	mu       sync.Mutex
	original map[string]Record
	working  map[string]Record
	removed  map[string]string // nome -> path do cookie removido
	order    []string          // ordem da primeira mutação de cada nome
	sealed   bool
	now      func() time.Time
}

type JarOption func(*Jar)

// WithClock troca o relógio usado para expiração padrão (útil em testes).
func WithClock(now func() time.Time) JarOption {
	return func(j *Jar) {
		if now != nil {
			j.now = now
		}
	}
}

// NewJar cria o jar a partir dos cookies recebidos. Em nomes repetidos vale
// a primeira ocorrência; registros sem nome são ignorados.
func NewJar(records []Record, opts ...JarOption) *Jar {
	j := &Jar{
		original: make(map[string]Record, len(records)),
		removed:  make(map[string]string),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		if _, dup := j.original[rec.Name]; dup {
			continue
		}
		if rec.Path == "" {
			rec.Path = "/"
		}
		j.original[rec.Name] = rec
	}
	j.working = maps.Clone(j.original)
	return j
}

// Get retorna o valor atual do cookie.
func (j *Jar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rec, ok := j.working[name]
	if !ok {
		return "", false
	}
	return rec.Value, true
}

// Set grava (ou sobrescreve) o cookie. Sem opções, o cookie sai com
// Path=/, HttpOnly e expiração em DefaultMaxAge; use Session() para um
// cookie de sessão.
func (j *Jar) Set(name, value string, opts ...Option) error {
	if name == "" {
		return ErrInvalidName
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.sealed {
		return ErrSealed
	}
	j.setLocked(newRecord(name, value, j.now(), opts))
	return nil
}

// Update faz leitura-modificação-escrita em uma única seção crítica.
// fn recebe o valor atual (ok=false se ausente) e retorna o novo valor.
func (j *Jar) Update(name string, fn func(value string, ok bool) string, opts ...Option) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.sealed {
		return "", ErrSealed
	}
	cur, ok := j.working[name]
	next := fn(cur.Value, ok)
	j.setLocked(newRecord(name, next, j.now(), opts))
	return next, nil
}

// Remove apaga o cookie. Se o nome existia (na entrada ou nesta requisição),
// a resposta leva um cookie expirado para o navegador limpá-lo; nomes
// desconhecidos são ignorados.
func (j *Jar) Remove(name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.sealed {
		return ErrSealed
	}

	path := ""
	if rec, ok := j.working[name]; ok {
		path = rec.Path
	} else if rec, ok := j.original[name]; ok {
		path = rec.Path
	} else {
		// nunca existiu, ou já virou tombstone
		return nil
	}

	delete(j.working, name)
	j.removed[name] = path
	j.touch(name)
	return nil
}

// Delta retorna os cookies que mudaram em relação à entrada, na ordem da
// primeira mutação. Chamadas repetidas sem mutação retornam a mesma sequência.
func (j *Jar) Delta() []Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.deltaLocked()
}

// Drain sela o jar e retorna o delta. Depois disso Set/Update/Remove
// retornam ErrSealed. Deve ser chamado só por quem escreve a resposta.
func (j *Jar) Drain() []Record {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.sealed = true
	return j.deltaLocked()
}

// Sealed informa se o jar já foi drenado.
func (j *Jar) Sealed() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.sealed
}

// Len retorna o número de cookies vivos no estado de trabalho.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.working)
}

func (j *Jar) setLocked(rec Record) {
	j.working[rec.Name] = rec
	delete(j.removed, rec.Name)
	j.touch(rec.Name)
}

func (j *Jar) touch(name string) {
	if !slices.Contains(j.order, name) {
		j.order = append(j.order, name)
	}
}

func (j *Jar) deltaLocked() []Record {
	out := make([]Record, 0, len(j.order))
	for _, name := range j.order {
		if path, gone := j.removed[name]; gone {
			out = append(out, tombstone(name, path))
			continue
		}
		rec, ok := j.working[name]
		if !ok {
			continue
		}
		if orig, existed := j.original[name]; existed && orig.Equal(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
