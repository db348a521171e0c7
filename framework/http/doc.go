// Package http provides JSON response helpers for handlers.
//
//	res := gohttp.NewResponse(w)
//
//	res.Success(v)                       // 200 {"data": v}
//	res.Negotiate(r, v)                  // same, as YAML if r accepts it
//	res.Error(http.StatusConflict, msg)  // {"message": msg}
//	res.BadRequest()                     // 400
//	res.NotFound("no such service")      // 404
//	res.ServerError()                    // 500
//
// Import it under an alias to avoid clashing with net/http:
//
//	import gohttp "github.com/km-arc/go-locator/framework/http"
package http
