package handler

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// The inventory service is described by hand and carried with a JSON codec,
// so messages are plain Go structs instead of generated protobuf types.

const (
	InventoryServiceName = "stocktally.InventoryService"
	codecName            = "json"

	addProductMethod   = "/" + InventoryServiceName + "/AddProduct"
	getInventoryMethod = "/" + InventoryServiceName + "/GetInventory"
)

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type AddProductRequest struct {
	Product  string `json:"product"`
	Quantity string `json:"quantity"`
}

type AddProductResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Total   int64          `json:"total,omitempty"`
	Items   map[string]int `json:"items,omitempty"`
	Display string         `json:"display,omitempty"`
}

type GetInventoryRequest struct{}

type GetInventoryResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Items   map[string]int `json:"items"`
	Display string         `json:"display"`
}

type InventoryServiceServer interface {
	AddProduct(context.Context, *AddProductRequest) (*AddProductResponse, error)
	GetInventory(context.Context, *GetInventoryRequest) (*GetInventoryResponse, error)
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&inventoryServiceDesc, srv)
}

var inventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddProduct", Handler: addProductHandler},
		{MethodName: "GetInventory", Handler: getInventoryHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stocktally/inventory",
}

func addProductHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddProductRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServiceServer).AddProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: addProductMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryServiceServer).AddProduct(ctx, req.(*AddProductRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getInventoryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetInventoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServiceServer).GetInventory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getInventoryMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryServiceServer).GetInventory(ctx, req.(*GetInventoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// InventoryClient calls InventoryService over a client connection.
type InventoryClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryClient(cc grpc.ClientConnInterface) *InventoryClient {
	return &InventoryClient{cc: cc}
}

func (c *InventoryClient) AddProduct(ctx context.Context, in *AddProductRequest, opts ...grpc.CallOption) (*AddProductResponse, error) {
	out := new(AddProductResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, addProductMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryClient) GetInventory(ctx context.Context, in *GetInventoryRequest, opts ...grpc.CallOption) (*GetInventoryResponse, error) {
	out := new(GetInventoryResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, getInventoryMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
