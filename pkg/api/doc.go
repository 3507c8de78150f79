// Package api serves the page and its method dispatch endpoint.
//
// A request to /bp/post/read carries {"method": name, "data": ...}. The
// named method runs against data and its return value becomes the response
// body. Failures never surface as HTTP errors: they are logged and the
// client receives {"error": message} with status 200, which is the shape the
// rest client hands to its callback.
//
//	srv := api.New(api.Config{Addr: ":44344"})
//	srv.Registry().Register("hello", func(ctx context.Context, data json.RawMessage) (any, error) {
//	    return "hi", nil
//	})
//	err := srv.Run(ctx)
package api
