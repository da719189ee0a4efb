package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

type VideoAPI struct {
	job *VideoJob
}

func NewVideoAPI(job *VideoJob) *VideoAPI {
	return &VideoAPI{job: job}
}

func (v *VideoAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, v.Respond(r))
}

func (v *VideoAPI) Respond(r *http.Request) events.APIGatewayProxyResponse {
	if r.Method != http.MethodPost || r.URL.Path != "/" {
		return Error(http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the videos api", r.Method, r.URL.Path))
	}

	var event VideoEvent
	if err := decodeEvent(r, &event); err != nil {
		return Error(http.StatusBadRequest, "invalid input", err)
	}

	resp, _ := v.job.Handle(r.Context(), event)
	return resp
}

type CommentAPI struct {
	job *CommentJob
}

func NewCommentAPI(job *CommentJob) *CommentAPI {
	return &CommentAPI{job: job}
}

// ServeHTTP accepts the video id either as JSON body or as the last path
// component, as in POST /comments/<video id>.
func (c *CommentAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, c.Respond(r))
}

func (c *CommentAPI) Respond(r *http.Request) events.APIGatewayProxyResponse {
	videoID, _ := ShiftPath(r.URL.Path)
	if r.Method != http.MethodPost {
		return Error(http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the comments api", r.Method, r.URL.Path))
	}

	var event CommentEvent
	if err := decodeEvent(r, &event); err != nil {
		return Error(http.StatusBadRequest, "invalid input", err)
	}
	if videoID != "" {
		event.VideoID = videoID
	}

	resp, _ := c.job.Handle(r.Context(), event)
	return resp
}

func decodeEvent(r *http.Request, event any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(event)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
