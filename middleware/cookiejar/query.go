package cookiejar

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"query-gateway/middleware/cookiejar/application"
)

type queryRequest struct {
	Fields []string `json:"fields"`
}

type queryResponse struct {
	Data map[string]any `json:"data"`
}

// QueryHandler expõe o QueryService:
//
//	GET  /query?fields=posts,visits
//	POST /query {"fields":["posts","visits"]}
//
// Resposta: {"data":{...}}. Campo desconhecido vira 400 e falha de acesso a dados 503.
func QueryHandler(svc application.QueryService) HandlerFunc {
	return func(ctx context.Context, r *http.Request) (any, error) {
		fields, err := queryFields(r)
		if err != nil {
			return nil, err
		}

		data, err := svc.Execute(ctx, fields)
		switch {
		case err == nil:
			return queryResponse{Data: data}, nil
		case errors.Is(err, application.ErrUnknownField):
			return nil, Errorf(http.StatusBadRequest, "bad request: %w", err)
		case errors.Is(err, application.ErrDataAccess):
			return nil, Errorf(http.StatusServiceUnavailable, "query failed: %w", err)
		default:
			return nil, err
		}
	}
}

func queryFields(r *http.Request) ([]string, error) {
	if r.Method != http.MethodPost {
		var fields []string
		for _, raw := range r.URL.Query()["fields"] {
			for _, f := range strings.Split(raw, ",") {
				if f = strings.TrimSpace(f); f != "" {
					fields = append(fields, f)
				}
			}
		}
		return fields, nil
	}

	defer r.Body.Close()
	var req queryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, Errorf(http.StatusBadRequest, "bad request: %w", err)
	}
	return req.Fields, nil
}
