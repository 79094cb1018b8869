package web

type contextKey string

const requestIDKey contextKey = "request_id"
