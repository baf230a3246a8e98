package server

import (
	"io"
	"log"

	"github.com/dzikrisyairozi/multi-thread-web-server/internal/request"
	"github.com/dzikrisyairozi/multi-thread-web-server/internal/resource"
	"github.com/dzikrisyairozi/multi-thread-web-server/internal/response"
)

// NewFileHandler serves requests from the resolver's root. Resolution
// failures other than a missing path are answered with 500.
func NewFileHandler(resolver *resource.Resolver, assembler *response.Assembler) Handler {
	return func(w io.Writer, req *request.Request) (bool, error) {
		res, err := resolver.Resolve(req.Path())
		if err != nil {
			log.Printf("Error resolving %q: %v", req.RequestLine.RequestTarget, err)
			return assembler.RespondError(w, req, response.StatusInternalServerError)
		}
		log.Printf("%s %s", req.StatusLine, describe(res))
		return assembler.Respond(w, req, res)
	}
}

func describe(res *resource.Resource) string {
	switch {
	case !res.Exists:
		return "-> not found"
	case res.Listing:
		return "-> listing " + res.Path
	default:
		return "-> " + res.Path
	}
}
