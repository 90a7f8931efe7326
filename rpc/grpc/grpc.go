// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package grpc

import (
	"fmt"
	"net"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"golang.org/x/net/context"
	"google.golang.org/grpc"
	"google.golang.org/grpc/grpclog"

	"github.com/square/flowlimit"
	"github.com/square/flowlimit/lifecycle"
	"github.com/square/flowlimit/logging"
	fpb "github.com/square/flowlimit/protos"
)

// gRPC-backed implementation of an RPC endpoint
type GrpcEndpoint struct {
	hostport      string
	grpcServer    *grpc.Server
	currentStatus lifecycle.Status
	fs            flowlimit.FlowService
}

// New creates a gRPC endpoint listening on hostport, e.g. "localhost:10990".
func New(hostport string) *GrpcEndpoint {
	return &GrpcEndpoint{hostport: hostport}
}

func (g *GrpcEndpoint) Init(fs flowlimit.FlowService) {
	g.fs = fs
}

func (g *GrpcEndpoint) Start() {
	lis, err := net.Listen("tcp", g.hostport)
	if err != nil {
		logging.Fatalf("Cannot start server on %v. Error %v", g.hostport, err)
		panic(fmt.Sprintf("Cannot start server on %v. Error %v", g.hostport, err))
	}

	grpclog.SetLogger(logging.CurrentLogger())
	g.grpcServer = grpc.NewServer()
	// Each service should be registered
	fpb.RegisterFlowLimitServer(g.grpcServer, g)
	go func() { _ = g.grpcServer.Serve(lis) }()
	g.currentStatus = lifecycle.Started
	logging.Printf("Starting server on %v", g.hostport)
	logging.Printf("Server status: %v", g.currentStatus)
}

func (g *GrpcEndpoint) Stop() {
	g.currentStatus = lifecycle.Draining
	g.grpcServer.GracefulStop()
	g.currentStatus = lifecycle.Stopped
}

func (g *GrpcEndpoint) Create(ctx context.Context, req *fpb.CreateRequest) (*fpb.CreateResponse, error) {
	rsp := new(fpb.CreateResponse)

	if req.GetFlowName() == "" {
		rsp.Status = fpb.Status_INVALID_ARGUMENT.Enum()
		return rsp, nil
	}

	interval := time.Duration(req.GetIntervalMillis()) * time.Millisecond
	err := g.fs.Create(req.GetFlowName(), req.GetLimit(), interval)
	rsp.Status = statusFor(err).Enum()
	if err != nil {
		rsp.Error = errMsg(err)
	}

	return rsp, nil
}

func (g *GrpcEndpoint) Take(ctx context.Context, req *fpb.TakeRequest) (*fpb.TakeResponse, error) {
	rsp := new(fpb.TakeResponse)

	if req.GetFlowName() == "" || req.NumTokens == nil {
		s := fpb.Status_INVALID_ARGUMENT
		rsp.Status = &s
		return rsp, nil
	}

	span := opentracing.GlobalTracer().StartSpan("FlowLimit.Take")
	span.SetTag("flow", req.GetFlowName())
	span.SetTag("tokens", req.GetNumTokens())
	defer span.Finish()

	start := time.Now()
	err := g.fs.Take(ctx, req.GetFlowName(), req.GetNumTokens())
	status := statusFor(err)

	if status == fpb.Status_OK {
		granted := req.GetNumTokens()
		waited := int64(time.Since(start) / time.Millisecond)
		rsp.Granted = &granted
		rsp.WaitMillis = &waited
	}

	rsp.Status = status.Enum()
	return rsp, nil
}

func (g *GrpcEndpoint) SetLimit(ctx context.Context, req *fpb.SetLimitRequest) (*fpb.SetLimitResponse, error) {
	rsp := new(fpb.SetLimitResponse)

	err := g.fs.SetLimit(req.GetFlowName(), req.GetLimit())
	rsp.Status = statusFor(err).Enum()
	if err != nil {
		rsp.Error = errMsg(err)
	}

	return rsp, nil
}

func (g *GrpcEndpoint) GetLimit(ctx context.Context, req *fpb.GetLimitRequest) (*fpb.GetLimitResponse, error) {
	rsp := new(fpb.GetLimitResponse)

	limit, err := g.fs.GetLimit(req.GetFlowName())
	rsp.Status = statusFor(err).Enum()
	if err == nil {
		rsp.Limit = &limit
	}

	return rsp, nil
}

func (g *GrpcEndpoint) PrevAllowed(ctx context.Context, req *fpb.PrevAllowedRequest) (*fpb.PrevAllowedResponse, error) {
	rsp := new(fpb.PrevAllowedResponse)

	prev, err := g.fs.PrevAllowed(req.GetFlowName())
	rsp.Status = statusFor(err).Enum()
	if err == nil {
		rsp.PrevAllowed = &prev
	}

	return rsp, nil
}

func (g *GrpcEndpoint) Join(ctx context.Context, req *fpb.JoinRequest) (*fpb.JoinResponse, error) {
	rsp := new(fpb.JoinResponse)

	err := g.fs.Join(req.GetFlowName())
	rsp.Status = statusFor(err).Enum()
	if err != nil {
		rsp.Error = errMsg(err)
	}

	return rsp, nil
}

func statusFor(err error) fpb.Status {
	if err == nil {
		return fpb.Status_OK
	}

	if flErr, ok := err.(flowlimit.FlowLimitError); ok {
		switch flErr.Reason {
		case flowlimit.ER_NO_SUCH_FLOW:
			return fpb.Status_NO_SUCH_FLOW
		case flowlimit.ER_FLOW_EXISTS:
			return fpb.Status_FLOW_EXISTS
		case flowlimit.ER_INVALID_ARGUMENT:
			return fpb.Status_INVALID_ARGUMENT
		case flowlimit.ER_CANCELLED:
			return fpb.Status_CANCELLED
		}
	}

	return fpb.Status_FAILED
}

func errMsg(err error) *string {
	msg := err.Error()
	return &msg
}
