// Package betatester implements the wpbt.v1.BetaTesterService gRPC API.
//
// The service is described by hand with grpc.ServiceDesc and uses protobuf
// well-known types (Empty, Struct, StringValue) as messages, so no generated
// code is needed on either side.
package betatester
