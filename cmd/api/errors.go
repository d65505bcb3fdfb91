package main

import "net/http"

// Error codes of the uniform error body. Every failure this API reports
// carries exactly one of these.
const (
	codeValidationError = "VALIDATION_ERROR"
	codeUnauthorized    = "UNAUTHORIZED"
	codeNotFound        = "NOT_FOUND"
	codeDatabaseError   = "DATABASE_ERROR"
	codeInternalError   = "INTERNAL_ERROR"
	codeRateLimited     = "RATE_LIMIT_EXCEEDED"
)

type errorEnvelope struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// errorResponse serializes the uniform error body. The underlying error
// string is exposed as details only outside production.
func (app *application) errorResponse(w http.ResponseWriter, status int, code, message string, err error) {
	envelope := errorEnvelope{Error: message, Code: code}
	if err != nil && app.config.env != "production" {
		envelope.Details = err.Error()
	}
	writeJSON(w, status, envelope)
}

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	app.errorResponse(w, http.StatusInternalServerError, codeInternalError, "the server encountered a problem", err)
}

func (app *application) databaseErrorResponse(w http.ResponseWriter, r *http.Request, message string, err error) {
	app.logger.Errorw("database error", "method", r.Method, "path", r.URL.Path, "error", err)
	app.errorResponse(w, http.StatusInternalServerError, codeDatabaseError, message, err)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err)
	app.errorResponse(w, http.StatusBadRequest, codeValidationError, err.Error(), nil)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path)
	app.errorResponse(w, http.StatusNotFound, codeNotFound, message, nil)
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized", "method", r.Method, "path", r.URL.Path, "error", err)
	app.errorResponse(w, http.StatusUnauthorized, codeUnauthorized, "Unauthorized. Please provide a valid authentication token.", err)
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic", "method", r.Method, "path", r.URL.Path, "error", err)
	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
	app.errorResponse(w, http.StatusUnauthorized, codeUnauthorized, "Unauthorized", err)
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)
	w.Header().Set("Retry-After", retryAfter)
	app.errorResponse(w, http.StatusTooManyRequests, codeRateLimited, "rate limit exceeded, retry after: "+retryAfter, nil)
}
