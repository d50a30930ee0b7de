// Package http provides Laravel-style request and response helpers.
//
// # Request
//
// Request wraps *http.Request. Values reads a form submission for a schema,
// from either a JSON object or a url-encoded / multipart body:
//
//	req := gohttp.NewRequest(r)
//	values, err := req.Values(form.Schema)
//	if errors.Is(err, gohttp.ErrBadBody) { ... }
//
//	lang := req.Query("lang")
//	form := req.RouteParam("form")
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.JSON(200, data)              // raw JSON with status
//	res.Success(data)                // 200 {"data": ...}
//	res.Error(400, "bad input")      // {"message": "bad input"}
//	res.NotFound()                   // 404 {"message": "Not found."}
//	res.Validation(result, messages) // 200 {"valid": ..., "fields": {...}}
//
// # ViewEngine
//
//	engine := gohttp.NewViewEngine(resources.Views(), ".html", false)
//	engine.ViewWithLayout(w, http.StatusOK, "layouts/app", "form", page)
package http
