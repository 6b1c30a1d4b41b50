package user

import "github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/rest"

func Build(repository Repository, sink EventSink, opts ...ServiceOption) *Handler {
	return NewHandler(NewService(repository, sink, opts...))
}

func Routes(h *Handler) []rest.Route {
	return []rest.Route{
		rest.NewRoute(rest.POST, "v1", "users", h.CreateUser),
		rest.NewRoute(rest.GET, "v1", "users", h.FindUsers),
		rest.NewRoute(rest.GET, "v1", "users/:id", h.GetUser),
		rest.NewRoute(rest.DELETE, "v1/internal", "users/lastname/:lastname", h.RemoveByLastname),
	}
}
