package cookiejar

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"query-gateway/middleware/cookiejar/domain"
	"query-gateway/middleware/cookiejar/infra"
	"query-gateway/middleware/cookiejar/reqctx"
)

// Codec lê o header Cookie e serializa os Set-Cookie.
type Codec interface {
	Serializer
	Parse(header string) []domain.Record
}

// HandlerFunc executa a lógica da requisição e retorna o payload principal.
// O jar e os colaboradores estão em ctx (ver reqctx).
type HandlerFunc func(ctx context.Context, r *http.Request) (any, error)

type Options struct {
	Codec Codec
	// Collaborators são anexados a toda requisição (ex.: o Counter).
	Collaborators []reqctx.Collaborator
	// Require é validado na construção do handler.
	Require []reqctx.Requirement
	Stats   domain.StatsStore
	Logger  *log.Logger
	// Now alimenta o relógio do jar (expiração padrão dos cookies).
	Now func() time.Time
	// DiscardOnError descarta as mutações do jar quando o HandlerFunc falha.
	// Padrão (false): os cookies alterados vão junto com a resposta de erro.
	DiscardOnError bool
}

type handler struct {
	opts   Options
	fn     HandlerFunc
	writer CookieWriter
}

// Handler cria o http.Handler que monta o jar, chama fn e finaliza a resposta.
// Entra em pânico se fn for nil ou se algum colaborador exigido em
// opts.Require não estiver em opts.Collaborators.
func Handler(opts Options, fn HandlerFunc) http.Handler {
	if fn == nil {
		panic("cookiejar: nil HandlerFunc")
	}
	if err := reqctx.Validate(opts.Collaborators, opts.Require...); err != nil {
		panic(err)
	}
	if opts.Codec == nil {
		opts.Codec = infra.HeaderCodec{Now: opts.Now}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &handler{
		opts:   opts,
		fn:     fn,
		writer: CookieWriter{Codec: opts.Codec, Logger: opts.Logger},
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// HTTP/2 pode mandar vários headers Cookie
	header := strings.Join(r.Header.Values("Cookie"), "; ")
	inbound := h.opts.Codec.Parse(header)
	jar := domain.NewJar(inbound, domain.WithClock(h.opts.Now))

	ctx, err := reqctx.Attach(r.Context(), jar, h.opts.Collaborators...)
	if err != nil {
		h.opts.Logger.Printf("cookiejar: attach failed: %v", err)
		h.writer.Finalize(w, nil, http.StatusInternalServerError, errResp{Message: "internal error"})
		return
	}

	payload, err := h.fn(ctx, r.WithContext(ctx))

	if cerr := r.Context().Err(); cerr != nil {
		// cliente foi embora: descarta o jar sem escrever nada
		h.opts.Logger.Printf("cookiejar: %s %s cancelled, discarding cookies: %v", r.Method, r.URL.Path, cerr)
		return
	}

	status := http.StatusOK
	if err != nil {
		var code int
		payload, code = h.errorPayload(err)
		status = code
		if h.opts.DiscardOnError {
			jar = nil
		}
	}

	out := h.writer.Finalize(w, jar, status, payload)

	if h.opts.Stats != nil {
		_ = h.opts.Stats.Record(r.Context(), domain.StatsEvent{
			Method:  r.Method,
			Path:    r.URL.Path,
			Status:  out.Status,
			Inbound: len(inbound),
			Emitted: out.Emitted,
			Dropped: out.Dropped,
			At:      h.opts.Now(),
		})
	}
}

func (h *handler) errorPayload(err error) (errResp, int) {
	var sErr StatusError
	if errors.As(err, &sErr) {
		return errResp{Message: sErr.Message}, sErr.Code
	}
	h.opts.Logger.Printf("cookiejar: handler error: %v", err)
	return errResp{Message: err.Error()}, http.StatusInternalServerError
}
