package server

import "google.golang.org/grpc"

// Registrar attaches one gRPC service to a server.
// Implemented by user.Registrar and recommender.Registrar.
type Registrar interface {
	Register(s *grpc.Server)
}
