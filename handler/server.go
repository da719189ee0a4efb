package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// Server exposes the jobs over HTTP, so they can be triggered without the
// Lambda runtime.
type responder interface {
	Respond(r *http.Request) events.APIGatewayProxyResponse
}

type Server struct {
	apis   map[string]responder
	logger *slog.Logger
}

func NewServer(videoJob *VideoJob, commentJob *CommentJob, logger *slog.Logger) *Server {
	apis := map[string]responder{}
	if videoJob != nil {
		apis["videos"] = NewVideoAPI(videoJob)
	}
	if commentJob != nil {
		apis["comments"] = NewCommentAPI(commentJob)
	}

	return &Server{
		apis:   apis,
		logger: logger,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	originalPath := r.URL.Path

	var resp events.APIGatewayProxyResponse
	head, tail := ShiftPath(r.URL.Path)
	api, ok := s.apis[head]
	switch {
	case head == "":
		resp = Message(http.StatusOK, "ytharvest index")
	case !ok:
		resp = Error(http.StatusNotFound, "not found", fmt.Errorf("%s is not a valid path", r.URL.Path))
	default:
		r.URL.Path = tail
		resp = api.Respond(r)
	}

	writeResponse(w, resp)
	s.logger.Info("request served", slog.String("path", originalPath), slog.Int("status", resp.StatusCode))
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	fmt.Fprint(w, resp.Body)
}

// ShiftPath splits off the first component of p, which will be cleaned of
// relative components before processing. head will never contain a slash and
// tail will always be a rooted path without trailing slash.
// See https://blog.merovius.de/posts/2017-06-18-how-not-to-use-an-http-router/
func ShiftPath(p string) (string, string) {
	p = path.Clean("/" + p)

	i := strings.Index(p[1:], "/") + 1
	if i <= 0 {
		return p[1:], "/"
	}
	return p[1:i], p[i:]
}
