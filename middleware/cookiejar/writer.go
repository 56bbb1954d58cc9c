package cookiejar

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"query-gateway/middleware/cookiejar/domain"
)

// Serializer transforma um Record no valor de um header Set-Cookie.
type Serializer interface {
	Serialize(rec domain.Record) (string, error)
}

// Outcome resume o que foi escrito na resposta.
type Outcome struct {
	Status  int
	Emitted int
	Dropped int
}

// CookieWriter finaliza a resposta: Set-Cookie do delta + payload JSON.
type CookieWriter struct {
	Codec  Serializer
	Logger *log.Logger
}

type errResp struct {
	Message string `json:"error"`
}

// Finalize drena o jar (nil = sem cookies), escreve um Set-Cookie por
// entrada do delta e depois status e payload. Entradas que não serializam
// são descartadas com um aviso no log; as demais seguem normalmente.
//
// Deve ser chamado uma única vez, depois que todo código que mexe no jar terminou.
func (cw CookieWriter) Finalize(w http.ResponseWriter, jar *domain.Jar, status int, payload any) Outcome {
	logger := cw.Logger
	if logger == nil {
		logger = log.Default()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(payload); err != nil {
		logger.Printf("cookiejar: encoding response failed: %v", err)
		status = http.StatusInternalServerError
		buf.Reset()
		_ = enc.Encode(errResp{Message: "internal error: encoding response failed"})
	}

	out := Outcome{Status: status}
	if jar != nil {
		for _, rec := range jar.Drain() {
			v, err := cw.Codec.Serialize(rec)
			if err != nil {
				out.Dropped++
				logger.Printf("cookiejar: warning: dropping cookie %q: %v", rec.Name, err)
				continue
			}
			w.Header().Add("Set-Cookie", v)
			out.Emitted++
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return out
}
