package infra

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"query-gateway/middleware/cookiejar/domain"
)

// ErrInvalidCookie é retornado quando um Record não pode virar um Set-Cookie válido.
var ErrInvalidCookie = errors.New("cookiejar: invalid cookie")

// HeaderCodec converte entre headers HTTP e registros do jar.
type HeaderCodec struct {
	// Now é usado para decidir se um registro é tombstone (Max-Age=0). Padrão: time.Now.
	Now func() time.Time
}

// Parse lê um header Cookie ("a=1; b=2"). Cada par é tratado isoladamente:
// fragmentos inválidos enviados pelo cliente são descartados sem falhar a requisição.
func (c HeaderCodec) Parse(header string) []domain.Record {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}

	var out []domain.Record
	for _, seg := range strings.Split(header, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		cookies, err := http.ParseCookie(seg)
		if err != nil || len(cookies) != 1 {
			continue
		}
		out = append(out, domain.Record{
			Name:  cookies[0].Name,
			Value: cookies[0].Value,
			Path:  "/",
		})
	}
	return out
}

// Jar monta o jar da requisição a partir do header Cookie (vazio se ausente).
func (c HeaderCodec) Jar(header string, opts ...domain.JarOption) *domain.Jar {
	return domain.NewJar(c.Parse(header), opts...)
}

// Serialize gera o valor de um header Set-Cookie. Cookies de sessão (sem
// Expires) também são serializados; tombstones saem com Max-Age=0.
func (c HeaderCodec) Serialize(rec domain.Record) (string, error) {
	ck := &http.Cookie{
		Name:     rec.Name,
		Value:    rec.Value,
		Path:     rec.Path,
		Secure:   rec.Secure,
		HttpOnly: rec.HTTPOnly,
		Expires:  rec.Expires,
	}
	if ck.Path == "" {
		ck.Path = "/"
	}
	if rec.IsTombstone(c.now()) {
		ck.MaxAge = -1
	}
	if err := ck.Valid(); err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidCookie, rec.Name, err)
	}
	return ck.String(), nil
}

func (c HeaderCodec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
