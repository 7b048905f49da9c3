package grpc_server

import "net"

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// Listener serves on an existing listener instead of opening one.
func Listener(l net.Listener) Option {
	return func(s *Server) {
		s.listener = l
	}
}

// ServiceName is reported by the health service next to the overall "" entry.
func ServiceName(name string) Option {
	return func(s *Server) {
		s.serviceName = name
	}
}
