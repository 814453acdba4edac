package httpkit

import "incidencia/internal/platform/net/middleware"

// Protected registers fn's routes behind a, in a group so sibling routes stay open
func Protected(r Router, a middleware.Authenticator, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(a))
		fn(gr)
	})
}
