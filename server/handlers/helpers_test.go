package handlers

import "net/http"

func httpHandlerFunc(fn func(http.ResponseWriter, *http.Request)) http.Handler {
	return http.HandlerFunc(fn)
}
