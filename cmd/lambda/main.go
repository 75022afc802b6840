package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/diagram-to-project/generator/internal/archive"
	"github.com/diagram-to-project/generator/internal/config"
	"github.com/diagram-to-project/generator/internal/logger"
	"github.com/diagram-to-project/generator/internal/project"
	"github.com/diagram-to-project/generator/internal/registry"
	"github.com/diagram-to-project/generator/internal/result"
	"github.com/diagram-to-project/generator/internal/server"
)

// LambdaEvent is the invocation payload (e.g. from API Gateway).
type LambdaEvent struct {
	Body     string `json:"body"` // notation text or GoJS document (raw or base64 if isBase64)
	IsBase64 bool   `json:"isBase64,omitempty"`
	IsGoJS   bool   `json:"isGoJS,omitempty"`
	Project  string `json:"project"`
}

// LambdaResponse is returned to the client (API Gateway).
type LambdaResponse struct {
	StatusCode int              `json:"statusCode"`
	Success    bool             `json:"success"`
	Code       result.Code      `json:"code,omitempty"`
	Error      string           `json:"error,omitempty"`
	Errors     []result.Error   `json:"errors,omitempty"`
	Warnings   []result.Warning `json:"warnings,omitempty"`
	Files      []string         `json:"files,omitempty"`
	Filename   string           `json:"filename,omitempty"`
	Archive    string           `json:"archive,omitempty"` // zip bytes, base64
}

// APIGatewayResponse is the shape expected by API Gateway proxy integration (body = JSON string).
type APIGatewayResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

type app struct {
	assembler *project.Assembler
	defaults  project.Options
}

func newApp(cfg *config.Config, log *slog.Logger) *app {
	root := cfg.OutputRoot
	if !filepath.IsAbs(root) {
		// Only /tmp is writable inside the function.
		root = filepath.Join(os.TempDir(), root)
	}
	return &app{
		assembler: project.New(registry.Default, log),
		defaults: project.Options{
			OutputRoot: root,
			Project:    cfg.ProjectFor(""),
			VerifyJava: cfg.VerifyJava,
			RunScripts: cfg.RunScripts,
		},
	}
}

func (a *app) handler(ctx context.Context, event LambdaEvent) (APIGatewayResponse, error) {
	body := event.Body
	if event.IsBase64 {
		dec, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return failure(result.NewError(result.ParseError, "invalid base64 body", err), nil), nil
		}
		body = string(dec)
	}

	src := project.Source{Notation: body}
	if event.IsGoJS {
		src = project.Source{GoJS: []byte(body)}
	}
	opts := a.defaults
	opts.Project.Name = event.Project

	rep, err := a.assembler.Generate(ctx, src, opts)
	if err != nil {
		return failure(err, rep.Errors), nil
	}

	target, err := archive.Archive(rep.Project.Root, filepath.Join(opts.OutputRoot, archive.Name(event.Project)))
	if err != nil {
		return failure(err, nil), nil
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return failure(&archive.PackagingError{Target: target, Err: err}, nil), nil
	}

	return wrap(LambdaResponse{
		StatusCode: http.StatusOK,
		Success:    true,
		Warnings:   rep.Warnings,
		Files:      rep.Project.Files,
		Filename:   archive.Name(event.Project),
		Archive:    base64.StdEncoding.EncodeToString(data),
	}), nil
}

func failure(err error, details []result.Error) APIGatewayResponse {
	code := result.CodeOf(err)
	return wrap(LambdaResponse{
		StatusCode: server.StatusOf(code),
		Success:    false,
		Code:       code,
		Error:      err.Error(),
		Errors:     details,
	})
}

func wrap(out LambdaResponse) APIGatewayResponse {
	bodyBytes, _ := json.Marshal(out)
	return APIGatewayResponse{
		StatusCode: out.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(bodyBytes),
	}
}

func main() {
	cfg, err := config.LoadConfig("")
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Default.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	a := newApp(cfg, logger.New(logger.LevelFromString(cfg.Log.Level)))
	lambda.Start(a.handler)
}
